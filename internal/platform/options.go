package platform

import (
	"log/slog"

	"github.com/aretw0/scribe/pkg/core"
)

// options holds the internal configuration for a scribe workspace.
type options struct {
	repository  core.Repository
	configStore core.ConfigStore
	logger      *slog.Logger
	adapter     string
	config      map[string]interface{}
	serializers map[string]any
	defaults    []core.Record
	hasDefaults bool
}

// Option defines a functional option for configuring scribe.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:     "fs",
		config:      make(map[string]interface{}),
		serializers: make(map[string]any),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithSerializer registers a custom serializer for a specific extension.
// The serializer 's' must implement fs.Serializer; the check happens during Init.
func WithSerializer(ext string, s any) Option {
	return func(o *options) {
		o.serializers[ext] = s
	}
}

// WithExtension sets the extension of record files written to the data directory.
func WithExtension(ext string) Option {
	return func(o *options) {
		o.config["extension"] = ext
	}
}

// WithPattern restricts which files in the data directory are loaded and watched.
func WithPattern(pattern string) Option {
	return func(o *options) {
		o.config["pattern"] = pattern
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a custom record store. The filesystem adapter is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithConfigStore injects a custom config store. The properties file is skipped.
func WithConfigStore(store core.ConfigStore) Option {
	return func(o *options) {
		o.configStore = store
	}
}

// WithAdapter selects the storage adapter by name. Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithConfigFile sets the name of the properties file inside the workspace.
// Defaults to "config.properties".
func WithConfigFile(name string) Option {
	return func(o *options) {
		o.config["config_file"] = name
	}
}

// WithKeepEmptyConfig makes keys stored with an empty value count as present.
func WithKeepEmptyConfig(keep bool) Option {
	return func(o *options) {
		o.config["keep_empty"] = keep
	}
}

// WithKeepFilesOnDelete leaves record files on disk when entities are deleted.
func WithKeepFilesOnDelete(keep bool) Option {
	return func(o *options) {
		o.config["keep_files"] = keep
	}
}

// WithDefaults replaces the informational records shown ahead of the loaded ones.
// Passing nothing disables them.
func WithDefaults(records ...core.Record) Option {
	return func(o *options) {
		o.defaults = records
		o.hasDefaults = true
	}
}

// WithStarterName sets the name of the record created in an empty workspace.
func WithStarterName(name string) Option {
	return func(o *options) {
		o.config["starter_name"] = name
	}
}

// WithEventBuffer sets the capacity of the channel returned by Watch.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithWatcherErrorHandler registers a callback for errors raised inside the
// watch loop, which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default (true), scribe redirects the workspace to a temporary directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

func (o *options) getBool(key string) bool {
	v, _ := o.config[key].(bool)
	return v
}

func (o *options) getString(key string) string {
	v, _ := o.config[key].(string)
	return v
}
