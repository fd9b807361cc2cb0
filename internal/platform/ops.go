package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/scribe/pkg/adapters/fs"
	"github.com/aretw0/scribe/pkg/adapters/propfile"
	"github.com/aretw0/scribe/pkg/core"
)

// Init prepares the record store for a workspace and returns it.
// The 'uri' argument is adapter-specific (a directory for 'fs').
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := applyOptions(opts)

	if o.repository != nil {
		return o.repository, nil
	}

	var repo core.Repository
	var err error
	switch o.adapter {
	case "fs":
		repo, err = initFS(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// OpenConfig opens the settings store of the workspace at uri.
func OpenConfig(uri string, opts ...Option) (core.ConfigStore, error) {
	o := applyOptions(opts)
	if o.configStore != nil {
		return o.configStore, nil
	}
	return openProperties(resolvePath(uri, o), o)
}

func openProperties(dir string, o *options) (*propfile.Store, error) {
	return propfile.Open(propfile.Config{
		Dir:       dir,
		FileName:  o.getString("config_file"),
		Logger:    o.logger,
		KeepEmpty: o.getBool("keep_empty"),
	})
}

// resolvePath applies the dev sandbox rules to a user supplied path.
func resolvePath(path string, o *options) string {
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	useTemp := o.getBool("temp_dir") || (IsDevRun() && devSafety)
	resolved := ResolvePath(path, useTemp)

	if o.logger != nil && IsDevRun() {
		if devSafety {
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		} else {
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}
	if o.logger != nil && resolved != path && useTemp {
		o.logger.Warn("workspace redirected to sandbox", "original_path", path, "resolved_path", resolved)
	}
	return resolved
}

// initFS builds the filesystem repository from the options.
func initFS(path string, o *options) (*fs.Repository, error) {
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	repo := fs.NewRepository(fs.Config{
		Path:         resolvePath(path, o),
		MustExist:    o.getBool("must_exist"),
		Logger:       o.logger,
		Extension:    o.getString("extension"),
		Pattern:      o.getString("pattern"),
		ErrorHandler: errorHandler,
	})

	for ext, s := range o.serializers {
		serializer, ok := s.(fs.Serializer)
		if !ok {
			if o.logger != nil {
				o.logger.Warn("invalid serializer type ignored", "ext", ext, "expected", "fs.Serializer")
			}
			return nil, fmt.Errorf("serializer for %s must implement fs.Serializer", ext)
		}
		repo.RegisterSerializer(ext, serializer)
	}
	return repo, nil
}
