package platform

import (
	"github.com/aretw0/scribe/pkg/adapters/fs"
	"github.com/aretw0/scribe/pkg/core"
)

// New wires a Service for the workspace at uri: the record store, the
// settings store and the entity policies.
//
//	svc, err := scribe.New("./notes", scribe.WithLogger(logger))
func New(uri string, opts ...Option) (*core.Service, error) {
	o := applyOptions(opts)

	repo, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	config := o.configStore
	if config == nil {
		dir := resolvePath(uri, o)
		if r, ok := repo.(*fs.Repository); ok {
			dir = r.Path
		}
		store, err := openProperties(dir, o)
		if err != nil {
			return nil, err
		}
		config = store
	}

	defaults := DefaultRecords()
	if o.hasDefaults {
		defaults = o.defaults
	}
	starter := StarterName
	if name, ok := o.config["starter_name"].(string); ok {
		starter = name
	}
	bufferSize, _ := o.config["event_buffer"].(int)

	return core.NewService(repo, config, core.ServiceConfig{
		Logger:            o.logger,
		Defaults:          defaults,
		StarterName:       starter,
		KeepFilesOnDelete: o.getBool("keep_files"),
		EventBufferSize:   bufferSize,
	}), nil
}
