package fs

import (
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle/pkg/core/worker"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string        `json:"path"`
	Extension     string        `json:"extension"`
	Pattern       string        `json:"pattern"`
	MustExist     bool          `json:"must_exist"`
	Serializers   []string      `json:"serializers"`
	WatcherActive bool          `json:"watcher_active"`
	Watcher       *worker.State `json:"watcher,omitempty"`
	LastScan      *time.Time    `json:"last_scan,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	serializers := r.serializerExts()

	r.mu.RLock()
	state := RepositoryState{
		Path:          r.Path,
		Extension:     r.config.Extension,
		Pattern:       r.config.Pattern,
		MustExist:     r.config.MustExist,
		Serializers:   serializers,
		WatcherActive: r.watcherActive,
		LastScan:      r.lastScan,
	}
	w := r.watchWorker
	r.mu.RUnlock()

	if w != nil {
		ws := w.State()
		state.Watcher = &ws
	}
	return state
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "fs-repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}
