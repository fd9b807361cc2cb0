package propfile

import "github.com/aretw0/introspection"

// StoreState exposes internal state for observability.
type StoreState struct {
	Path      string `json:"path"`
	Entries   int    `json:"entries"`
	KeepEmpty bool   `json:"keep_empty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	return StoreState{
		Path:      s.path,
		Entries:   s.Len(),
		KeepEmpty: s.config.KeepEmpty,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "properties-config"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
