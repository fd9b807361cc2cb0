// Package typed layers typed accessors over the string-only core.ConfigStore.
// The store keeps its string-to-string contract; parsing happens here.
package typed

import (
	"fmt"
	"time"

	"github.com/spf13/cast"

	"github.com/aretw0/scribe/pkg/core"
)

// Settings is a typed view of a core.ConfigStore.
type Settings struct {
	store core.ConfigStore
}

// NewSettings wraps store.
func NewSettings(store core.ConfigStore) *Settings {
	return &Settings{store: store}
}

// Store returns the wrapped store.
func (s *Settings) Store() core.ConfigStore {
	return s.store
}

// String returns the value for key, or def when the key holds no value.
func (s *Settings) String(key, def string) string {
	if !s.store.Has(key) {
		return def
	}
	return s.store.Get(key)
}

// Bool parses key as a boolean ("true", "1", "false", "0", ...).
// It returns def when the key is unset or unparsable.
func (s *Settings) Bool(key string, def bool) bool {
	v, err := s.BoolE(key)
	if err != nil {
		return def
	}
	return v
}

// BoolE is like Bool but reports why the value could not be used.
func (s *Settings) BoolE(key string) (bool, error) {
	raw, err := s.raw(key)
	if err != nil {
		return false, err
	}
	v, err := cast.ToBoolE(raw)
	if err != nil {
		return false, fmt.Errorf("config %s: %w", key, err)
	}
	return v, nil
}

// Int parses key as an integer, returning def when unset or unparsable.
func (s *Settings) Int(key string, def int) int {
	v, err := s.IntE(key)
	if err != nil {
		return def
	}
	return v
}

// IntE is like Int but reports why the value could not be used.
func (s *Settings) IntE(key string) (int, error) {
	raw, err := s.raw(key)
	if err != nil {
		return 0, err
	}
	v, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("config %s: %w", key, err)
	}
	return v, nil
}

// Duration parses key as a time.Duration ("1m30s"), returning def when
// unset or unparsable.
func (s *Settings) Duration(key string, def time.Duration) time.Duration {
	v, err := s.DurationE(key)
	if err != nil {
		return def
	}
	return v
}

// DurationE is like Duration but reports why the value could not be used.
func (s *Settings) DurationE(key string) (time.Duration, error) {
	raw, err := s.raw(key)
	if err != nil {
		return 0, err
	}
	v, err := cast.ToDurationE(raw)
	if err != nil {
		return 0, fmt.Errorf("config %s: %w", key, err)
	}
	return v, nil
}

// Set stores a single value, formatted as a string.
func (s *Settings) Set(key string, value any) error {
	str, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Errorf("config %s: %w", key, err)
	}
	return s.store.SetAll(map[string]string{key: str})
}

func (s *Settings) raw(key string) (string, error) {
	if !s.store.Has(key) {
		return "", fmt.Errorf("config %s: %w", key, ErrUnset)
	}
	return s.store.Get(key), nil
}
