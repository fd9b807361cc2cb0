package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/scribe/internal/platform"
	"github.com/aretw0/scribe/pkg/core"
)

func setupService(t *testing.T, dir string, opts ...platform.Option) *core.Service {
	t.Helper()
	service, err := platform.New(dir, opts...)
	if err != nil {
		t.Fatalf("Failed to init service: %v", err)
	}
	if _, err := service.LoadAllEntities(context.TODO()); err != nil {
		t.Fatalf("LoadAllEntities failed: %v", err)
	}
	return service
}

func names(s *core.Service) []string {
	var out []string
	for _, r := range s.Entities().Records() {
		out = append(out, r.Name)
	}
	return out
}

func TestService_FirstRun(t *testing.T) {
	service := setupService(t, t.TempDir())

	got := names(service)
	if len(got) != 2 || got[0] != platform.InfoName || got[1] != platform.StarterName {
		t.Fatalf("unexpected first-run entities: %v", got)
	}

	info, _ := service.Entities().Get(platform.InfoName)
	if info.Persistent {
		t.Error("info record must not be persistent")
	}
}

func TestService_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.TODO()

	service := setupService(t, dir)
	r, err := service.AddEntity("groceries")
	if err != nil {
		t.Fatalf("AddEntity failed: %v", err)
	}
	if err := service.UpdateEntityContent(r.Name, "milk\neggs\n"); err != nil {
		t.Fatalf("UpdateEntityContent failed: %v", err)
	}
	if err := service.SetConfig(map[string]string{"window.width": "800"}); err != nil {
		t.Fatalf("SetConfig failed: %v", err)
	}
	if err := service.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	// info is never written
	if _, err := os.Stat(filepath.Join(dir, "info.xml")); !os.IsNotExist(err) {
		t.Error("info record was written to disk")
	}

	reopened := setupService(t, dir)
	got, ok := reopened.Entities().Get("groceries")
	if !ok {
		t.Fatalf("groceries not reloaded, have %v", names(reopened))
	}
	if got.Content != "milk\neggs\n" {
		t.Errorf("content mismatch: %q", got.Content)
	}
	if v := reopened.GetConfig("window.width"); v != "800" {
		t.Errorf("config mismatch: %q", v)
	}
	if names(reopened)[0] != platform.InfoName {
		t.Error("info record must come first")
	}
}

func TestService_RenameAndDeleteOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.TODO()
	service := setupService(t, dir)

	for _, n := range []string{"a", "b"} {
		if _, err := service.AddEntity(n); err != nil {
			t.Fatalf("AddEntity failed: %v", err)
		}
	}
	if err := service.SaveAllEntities(ctx); err != nil {
		t.Fatalf("SaveAllEntities failed: %v", err)
	}

	if err := service.RenameEntity(ctx, "a", "a/b"); err != nil {
		t.Fatalf("RenameEntity failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.xml")); !os.IsNotExist(err) {
		t.Error("old file still present")
	}
	if _, err := os.Stat(filepath.Join(dir, "a%2Fb.xml")); err != nil {
		t.Errorf("renamed file missing: %v", err)
	}

	removed, err := service.DeleteEntity(ctx, "b")
	if err != nil || !removed {
		t.Fatalf("DeleteEntity = %v, %v", removed, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "b.xml")); !os.IsNotExist(err) {
		t.Error("deleted file still present")
	}
}

func TestService_Options(t *testing.T) {
	dir := t.TempDir()
	service := setupService(t, dir,
		platform.WithDefaults(),
		platform.WithStarterName("Untitled"),
		platform.WithConfigFile("app.properties"),
	)

	got := names(service)
	if len(got) != 1 || got[0] != "Untitled" {
		t.Errorf("unexpected entities: %v", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "app.properties")); err != nil {
		t.Errorf("settings file missing: %v", err)
	}
}
