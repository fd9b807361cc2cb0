package core

import "context"

// Repository defines the contract for storing and retrieving records.
// One record maps to one file in the underlying storage.
type Repository interface {
	// Initialize ensures the underlying storage is ready (e.g. create directories).
	Initialize(ctx context.Context) error

	// Scan decodes every record in the storage. Undecodable items are reported
	// in ScanResult.Failures and never abort the scan.
	Scan(ctx context.Context) (ScanResult, error)

	// Save persists a record, creating or overwriting it.
	// Informational records are rejected with ErrNotPersistent.
	Save(ctx context.Context, r Record) error

	// SaveMany saves every persistent record, even after a failure.
	// Failures are returned as a *BatchError.
	SaveMany(ctx context.Context, records []Record) error

	// Load decodes a single record from an arbitrary path (import).
	Load(ctx context.Context, path string) (Record, error)

	// Delete removes the stored record with the given name.
	Delete(ctx context.Context, name string) error

	// Rename moves the stored record to a new name.
	Rename(ctx context.Context, oldName, newName string) error
}

// Watchable defines an interface for repositories that report external changes.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// ConfigStore is a flat string-to-string settings store backed by one file.
// It is a total mapping: unknown keys read as "".
type ConfigStore interface {
	// Get returns the value for key, or "" when absent.
	Get(key string) string

	// Has reports whether key holds a value.
	Has(key string) bool

	// SetAll merges entries into the store and rewrites the file.
	// On failure the in-memory state is left as it was.
	SetAll(entries map[string]string) error

	// RenameKey moves the value of oldKey to newKey.
	// It returns false if oldKey is absent or the write fails.
	RenameKey(oldKey, newKey string) bool

	// List returns a snapshot of all entries. Order is not part of the contract.
	List() []Entry
}
