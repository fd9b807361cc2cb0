package scribe

import (
	"log/slog"

	"github.com/aretw0/scribe/internal/platform"
	"github.com/aretw0/scribe/pkg/core"
	"github.com/aretw0/scribe/pkg/typed"
)

// --- Types ---

// Record is a public alias for the persisted note.
type Record = core.Record

// Settings is a public alias for the typed settings accessor.
type Settings = typed.Settings

// --- Configuration ---

// Option defines a functional option for configuring scribe.
type Option = platform.Option

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom record store.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithConfigStore allows injecting a custom settings store.
func WithConfigStore(store core.ConfigStore) Option {
	return platform.WithConfigStore(store)
}

// WithAdapter allows specifying the storage adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithSerializer registers a custom serializer (an fs.Serializer) for an extension.
func WithSerializer(ext string, s any) Option {
	return platform.WithSerializer(ext, s)
}

// WithExtension sets the extension of the record files.
func WithExtension(ext string) Option {
	return platform.WithExtension(ext)
}

// WithPattern restricts which files are loaded and watched.
func WithPattern(pattern string) Option {
	return platform.WithPattern(pattern)
}

// WithConfigFile sets the name of the settings file.
func WithConfigFile(name string) Option {
	return platform.WithConfigFile(name)
}

// WithKeepEmptyConfig makes settings stored as "" count as present.
func WithKeepEmptyConfig(keep bool) Option {
	return platform.WithKeepEmptyConfig(keep)
}

// WithKeepFilesOnDelete leaves record files on disk when entities are deleted.
func WithKeepFilesOnDelete(keep bool) Option {
	return platform.WithKeepFilesOnDelete(keep)
}

// WithDefaults replaces the informational records.
func WithDefaults(records ...core.Record) Option {
	return platform.WithDefaults(records...)
}

// WithStarterName sets the name of the record created in an empty workspace.
func WithStarterName(name string) Option {
	return platform.WithStarterName(name)
}

// WithEventBuffer allows specifying the size of the watch event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatcherErrorHandler registers a callback for watch loop errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithDevSafety controls the temporary-directory sandbox used under `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// New creates a new scribe Service.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Init initializes a record store explicitly.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// OpenConfig opens the settings store of a workspace.
func OpenConfig(path string, opts ...Option) (core.ConfigStore, error) {
	return platform.OpenConfig(path, opts...)
}

// OpenSettings opens the settings store wrapped with typed accessors.
func OpenSettings(path string, opts ...Option) (*typed.Settings, error) {
	store, err := OpenConfig(path, opts...)
	if err != nil {
		return nil, err
	}
	return typed.NewSettings(store), nil
}

// DefaultRecords returns the built-in informational records.
func DefaultRecords() []core.Record {
	return platform.DefaultRecords()
}

// --- Safety & Utils ---

// ResolvePath determines the actual workspace path based on safety rules.
func ResolvePath(userPath string, forceTemp bool) string {
	return platform.ResolvePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a directory holding the settings file.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
