package platform_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/scribe/internal/platform"
	"github.com/aretw0/scribe/pkg/adapters/fs"
	"github.com/aretw0/scribe/pkg/core"
)

func TestInit(t *testing.T) {
	t.Run("Creates Directory", func(t *testing.T) {
		dataPath := filepath.Join(t.TempDir(), "notes")

		repo, err := platform.Init(dataPath, platform.WithForceTemp(true))
		if err != nil {
			t.Fatalf("Init failed: %v", err)
		}

		fsRepo, ok := repo.(*fs.Repository)
		if !ok {
			t.Fatalf("Expected fs repository")
		}
		if fsRepo.Path != dataPath {
			t.Errorf("Expected path %s, got %s", dataPath, fsRepo.Path)
		}
		if info, err := os.Stat(dataPath); err != nil || !info.IsDir() {
			t.Errorf("Data directory not created")
		}
	})

	t.Run("MustExist Fails If Directory Missing", func(t *testing.T) {
		dataPath := filepath.Join(t.TempDir(), "missing")

		_, err := platform.Init(dataPath, platform.WithMustExist(true), platform.WithForceTemp(true))
		if !errors.Is(err, core.ErrStorageUnavailable) {
			t.Errorf("Expected ErrStorageUnavailable, got %v", err)
		}
	})

	t.Run("Rejects Invalid Serializer", func(t *testing.T) {
		_, err := platform.Init(t.TempDir(), platform.WithSerializer(".txt", "not a serializer"))
		if err == nil {
			t.Error("Expected error for invalid serializer")
		}
	})

	t.Run("Rejects Bad Pattern", func(t *testing.T) {
		_, err := platform.Init(t.TempDir(), platform.WithPattern("[unclosed"))
		if err == nil {
			t.Error("Expected error for bad pattern")
		}
	})

	t.Run("Unknown Adapter", func(t *testing.T) {
		_, err := platform.Init(t.TempDir(), platform.WithAdapter("s3"))
		if err == nil {
			t.Error("Expected error for unknown adapter")
		}
	})

	t.Run("Injected Repository Is Returned As Is", func(t *testing.T) {
		injected := fs.NewRepository(fs.Config{Path: t.TempDir()})
		repo, err := platform.Init("ignored", platform.WithRepository(injected))
		if err != nil {
			t.Fatalf("Init failed: %v", err)
		}
		if repo != core.Repository(injected) {
			t.Error("Expected the injected repository")
		}
	})

	t.Run("Custom Extension", func(t *testing.T) {
		dataPath := t.TempDir()
		repo, err := platform.Init(dataPath, platform.WithExtension(".json"))
		if err != nil {
			t.Fatalf("Init failed: %v", err)
		}
		if err := repo.Save(context.TODO(), core.NewRecord("a", "b")); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dataPath, "a.json")); err != nil {
			t.Errorf("Expected a.json: %v", err)
		}
	})
}

func TestOpenConfig(t *testing.T) {
	dir := t.TempDir()

	store, err := platform.OpenConfig(dir, platform.WithConfigFile("settings.properties"))
	if err != nil {
		t.Fatalf("OpenConfig failed: %v", err)
	}
	if err := store.SetAll(map[string]string{"k": "v"}); err != nil {
		t.Fatalf("SetAll failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "settings.properties")); err != nil {
		t.Errorf("Expected settings file: %v", err)
	}
}
