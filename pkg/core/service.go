package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// DefaultEventBuffer is the capacity of the channel returned by Service.Watch.
const DefaultEventBuffer = 100

// ServiceConfig tunes the policies of a Service.
type ServiceConfig struct {
	Logger *slog.Logger
	// Defaults are seeded ahead of the loaded records and never persisted.
	Defaults []Record
	// StarterName names the record created when no persistent record was loaded.
	// Empty disables the starter record.
	StarterName string
	// KeepFilesOnDelete leaves the backing file on disk when an entity is deleted.
	KeepFilesOnDelete bool
	EventBufferSize   int
	// Floor overrides DefaultFloor when positive.
	Floor int
}

// Service is the operation set the UI layer calls. It owns the in-memory
// collection and coordinates it with the record repository and the config store.
type Service struct {
	repo     Repository
	config   ConfigStore
	entities *Collection
	logger   *slog.Logger
	cfg      ServiceConfig

	mu              sync.RWMutex
	eventBufferSize int
}

// NewService creates a new Service.
func NewService(repo Repository, config ConfigStore, cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	size := cfg.EventBufferSize
	if size <= 0 {
		size = DefaultEventBuffer
	}
	entities := NewCollection()
	if cfg.Floor > 0 {
		entities.SetFloor(cfg.Floor)
	}
	return &Service{
		repo:            repo,
		config:          config,
		entities:        entities,
		logger:          logger,
		cfg:             cfg,
		eventBufferSize: size,
	}
}

// Entities exposes the collection so the UI can read and subscribe to it.
func (s *Service) Entities() *Collection {
	return s.entities
}

// Config exposes the underlying config store (e.g. for typed accessors).
func (s *Service) Config() ConfigStore {
	return s.config
}

// LoadAllEntities scans the repository and seeds the collection.
// Undecodable files and duplicate names are reported in the result; only a
// storage-level failure returns an error.
func (s *Service) LoadAllEntities(ctx context.Context) (ScanResult, error) {
	res, err := s.repo.Scan(ctx)
	if err != nil {
		return ScanResult{}, err
	}

	loaded := res.Records
	if len(loaded) == 0 && s.cfg.StarterName != "" {
		loaded = []Record{NewRecord(s.cfg.StarterName, "")}
	}

	if err := s.entities.Seed(s.cfg.Defaults, loaded); err != nil {
		var batch *BatchError
		if !errors.As(err, &batch) {
			return res, err
		}
		for _, f := range batch.Failures {
			s.logger.Warn("skipping duplicate record", "name", f.ID, "error", f.Err)
		}
		res.Failures = append(res.Failures, batch.Failures...)
	}

	s.logger.Debug("entities loaded", "count", len(res.Records), "failures", len(res.Failures))
	return res, nil
}

// AddEntity appends a new empty persistent entity. An empty seedName falls
// back to the starter name. The returned record carries the final,
// possibly disambiguated, name.
func (s *Service) AddEntity(seedName string) (Record, error) {
	if seedName == "" {
		seedName = s.cfg.StarterName
	}
	return s.entities.Add(NewRecord(seedName, ""))
}

// RenameEntity renames an entity and moves its backing file if one exists.
// If the file cannot be moved the in-memory rename is reverted.
func (s *Service) RenameEntity(ctx context.Context, name, newName string) error {
	if err := s.entities.Rename(name, newName); err != nil {
		return err
	}
	if name == newName {
		return nil
	}

	err := s.repo.Rename(ctx, name, newName)
	if err == nil || errors.Is(err, ErrNotFound) {
		// not saved yet: nothing to move
		return nil
	}

	if rerr := s.entities.Rename(newName, name); rerr != nil {
		s.logger.Error("failed to revert rename", "from", newName, "to", name, "error", rerr)
	}
	return fmt.Errorf("rename %s: %w", name, err)
}

// UpdateEntityContent edits an entity in memory. Nothing is written to disk.
func (s *Service) UpdateEntityContent(name, content string) error {
	return s.entities.UpdateContent(name, content)
}

// DeleteEntity removes an entity from the collection and, unless configured
// otherwise, deletes its backing file. It returns false when the removal was
// refused by the collection floor.
func (s *Service) DeleteEntity(ctx context.Context, name string) (bool, error) {
	r, ok := s.entities.Get(name)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if !s.entities.Remove(name) {
		s.logger.Debug("delete refused by collection floor", "name", name)
		return false, nil
	}
	if !r.Persistent || s.cfg.KeepFilesOnDelete {
		return true, nil
	}

	if err := s.repo.Delete(ctx, name); err != nil && !errors.Is(err, ErrNotFound) {
		return true, fmt.Errorf("delete %s: %w", name, err)
	}
	return true, nil
}

// SaveEntity writes a single entity to the repository.
func (s *Service) SaveEntity(ctx context.Context, name string) error {
	return s.entities.SaveOneTo(ctx, name, s.repo)
}

// SaveAllEntities writes every persistent entity. A failure on one entity does
// not stop the others; the returned *BatchError names every failed entity.
func (s *Service) SaveAllEntities(ctx context.Context) error {
	err := s.entities.SaveAllTo(ctx, s.repo)
	if err != nil {
		s.logger.Error("save all failed", "error", err)
		return err
	}
	s.logger.Debug("all entities saved", "count", len(s.entities.Persistent()))
	return nil
}

// ImportEntityFromFile decodes a record from an arbitrary file and appends it
// to the collection under a non-colliding name.
func (s *Service) ImportEntityFromFile(ctx context.Context, path string) (Record, error) {
	r, err := s.repo.Load(ctx, path)
	if err != nil {
		return Record{}, err
	}
	r.Persistent = true
	return s.entities.Add(r)
}

// Shutdown flushes every entity. It must complete before the process exits.
func (s *Service) Shutdown(ctx context.Context) error {
	s.logger.Debug("shutting down, saving all entities")
	return s.SaveAllEntities(ctx)
}

// GetConfig returns a setting or "" when absent.
func (s *Service) GetConfig(key string) string {
	return s.config.Get(key)
}

// HasConfig reports whether a setting holds a value.
func (s *Service) HasConfig(key string) bool {
	return s.config.Has(key)
}

// SetConfig merges entries into the config store and flushes it.
func (s *Service) SetConfig(entries map[string]string) error {
	return s.config.SetAll(entries)
}

// RenameConfigKey moves a setting to a new key.
func (s *Service) RenameConfigKey(oldKey, newKey string) bool {
	return s.config.RenameKey(oldKey, newKey)
}

// ListConfig returns all settings.
func (s *Service) ListConfig() []Entry {
	return s.config.List()
}

// Watch observes external changes in the repository if supported.
// Events are buffered so a slow consumer does not stall the watcher.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	upstream, err := w.Watch(ctx, pattern)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	size := s.eventBufferSize
	s.mu.RUnlock()

	out := make(chan Event, size)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-upstream:
				if !ok {
					return
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
