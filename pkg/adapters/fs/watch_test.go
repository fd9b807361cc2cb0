package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"

	"github.com/aretw0/scribe/pkg/adapters/fs"
	"github.com/aretw0/scribe/pkg/core"
)

func TestWatch(t *testing.T) {
	repo, path := setupRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := repo.Watch(ctx, "")
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	state := repo.State().(fs.RepositoryState)
	if !state.WatcherActive {
		t.Error("expected watcher to be active")
	}
	if state.Watcher == nil || state.Watcher.Status != worker.StatusRunning {
		t.Errorf("expected running watcher worker, got %+v", state.Watcher)
	}

	// Written by another process: no temp file involved.
	data, err := fs.NewXMLSerializer().Encode(core.NewRecord("external", "hi"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(path, "external.xml"), data, 0644); err != nil {
		t.Fatal(err)
	}
	// Not matching the pattern.
	_ = os.WriteFile(filepath.Join(path, "notes.txt"), []byte("x"), 0644)

	select {
	case e := <-events:
		if e.ID != "external" {
			t.Errorf("unexpected event id %q", e.ID)
		}
		if e.Type != core.EventCreate && e.Type != core.EventModify {
			t.Errorf("unexpected event type %s", e.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				if repo.State().(fs.RepositoryState).WatcherActive {
					t.Error("watcher still active after shutdown")
				}
				return
			}
		case <-deadline:
			t.Fatal("events channel not closed after cancel")
		}
	}
}

func TestWatch_RejectsBadPattern(t *testing.T) {
	repo, _ := setupRepo(t)
	if _, err := repo.Watch(context.Background(), "[oops"); err == nil {
		t.Error("expected error for malformed pattern")
	}
}
