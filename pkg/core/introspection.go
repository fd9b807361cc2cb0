package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Entities        int    `json:"entities"`
	Persistent      int    `json:"persistent"`
	ConfigEntries   int    `json:"config_entries"`
	EventBufferSize int    `json:"event_buffer_size"`
	RepositoryType  string `json:"repository_type"`
	ConfigStoreType string `json:"config_store_type"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ServiceState{
		Entities:        s.entities.Len(),
		Persistent:      len(s.entities.Persistent()),
		ConfigEntries:   len(s.config.List()),
		EventBufferSize: s.eventBufferSize,
		RepositoryType:  componentType(s.repo, "repository"),
		ConfigStoreType: componentType(s.config, "config"),
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

func componentType(v any, fallback string) string {
	if v == nil {
		return "unknown"
	}
	if comp, ok := v.(introspection.Component); ok {
		return comp.ComponentType()
	}
	return fallback
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
