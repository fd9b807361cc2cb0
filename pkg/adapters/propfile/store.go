// Package propfile implements core.ConfigStore on a Java-style .properties
// file.
package propfile

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/magiconair/properties"

	"github.com/aretw0/scribe/internal/fsutil"
	"github.com/aretw0/scribe/pkg/core"
)

// DefaultFileName is the name of the settings file inside the data directory.
const DefaultFileName = "config.properties"

// Config holds the configuration for the properties store.
type Config struct {
	// Dir is the directory holding the file. It is created if missing.
	Dir string
	// FileName defaults to DefaultFileName.
	FileName string
	Logger   *slog.Logger
	// KeepEmpty makes Has report true for keys explicitly set to "".
	// By default an empty value counts as absent.
	KeepEmpty bool
}

// Store is a flat string-to-string settings store persisted as key=value lines.
// Every write rewrites the whole file atomically; the in-memory map only
// changes after the write succeeded.
type Store struct {
	path   string
	config Config
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]string
}

// Open creates the directory and the file when needed, checks the file can be
// read and written, and loads its entries. Failures wrap
// core.ErrStorageUnavailable.
func Open(config Config) (*Store, error) {
	if config.FileName == "" {
		config.FileName = DefaultFileName
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Store{
		path:   filepath.Join(config.Dir, config.FileName),
		config: config,
		logger: logger,
	}

	if err := fsutil.EnsureDir(config.Dir); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrStorageUnavailable, s.path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrStorageUnavailable, s.path, err)
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}
	s.logger.Debug("config store opened", "path", s.path, "entries", len(s.entries))
	return s, nil
}

// Reload re-reads the file, replacing the in-memory entries.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", core.ErrStorageUnavailable, s.path, err)
	}
	entries, err := Decode(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", core.ErrStorageUnavailable, s.path, err)
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// Get returns the value for key, or "" when absent.
func (s *Store) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[key]
}

// Lookup returns the value for key and whether it is present at all.
func (s *Store) Lookup(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

// Has reports whether key holds a value. Unless KeepEmpty is set, a key
// explicitly set to "" is reported as absent.
func (s *Store) Has(key string) bool {
	v, ok := s.Lookup(key)
	if !ok {
		return false
	}
	return s.config.KeepEmpty || v != ""
}

// SetAll merges entries into the store: new keys are added and existing
// keys are overwritten. The file is rewritten atomically; on failure the
// in-memory state is left untouched and the error wraps core.ErrWriteFailure.
func (s *Store) SetAll(entries map[string]string) error {
	for k := range entries {
		if k == "" {
			return fmt.Errorf("%w: %w", core.ErrWriteFailure, core.ErrInvalidKey)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]string, len(s.entries)+len(entries))
	for k, v := range s.entries {
		next[k] = v
	}
	for k, v := range entries {
		next[k] = v
	}

	if err := s.flush(next); err != nil {
		return err
	}
	s.entries = next
	return nil
}

// RenameKey moves the value of oldKey to newKey, replacing any value newKey
// had. It returns false when oldKey is absent or the file cannot be written;
// the store is unchanged in both cases.
func (s *Store) RenameKey(oldKey, newKey string) bool {
	if newKey == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.entries[oldKey]
	if !ok {
		return false
	}
	if oldKey == newKey {
		return true
	}

	next := make(map[string]string, len(s.entries))
	for k, val := range s.entries {
		next[k] = val
	}
	delete(next, oldKey)
	next[newKey] = v

	if err := s.flush(next); err != nil {
		s.logger.Error("rename config key failed", "from", oldKey, "to", newKey, "error", err)
		return false
	}
	s.entries = next
	return true
}

// List returns a snapshot of all entries sorted by key.
func (s *Store) List() []core.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Entry, 0, len(s.entries))
	for _, k := range sortedKeys(s.entries) {
		out = append(out, core.Entry{Key: k, Value: s.entries[k]})
	}
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// flush must be called with s.mu held.
func (s *Store) flush(entries map[string]string) error {
	if err := fsutil.WriteFileAtomic(s.path, Encode(entries), 0644); err != nil {
		return fmt.Errorf("%w: %s: %w", core.ErrWriteFailure, s.path, err)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Encode renders entries as key=value lines sorted by key, escaped so that
// the properties parser reads back exactly the same map.
func Encode(entries map[string]string) []byte {
	var buf bytes.Buffer
	for _, k := range sortedKeys(entries) {
		buf.WriteString(escapeKey(k))
		buf.WriteByte('=')
		buf.WriteString(escapeValue(entries[k]))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Decode parses key=value lines, the inverse of Encode.
func Decode(data []byte) (map[string]string, error) {
	loader := properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, err
	}
	return p.Map(), nil
}

func escapeKey(k string) string {
	var b strings.Builder
	for _, r := range k {
		switch r {
		case ' ', ':', '=', '#', '!':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			writeEscaped(&b, r)
		}
	}
	return b.String()
}

func escapeValue(v string) string {
	var b strings.Builder
	leading := true
	for _, r := range v {
		if leading && r == ' ' {
			// the parser trims unescaped leading whitespace
			b.WriteString(`\ `)
			continue
		}
		leading = false
		writeEscaped(&b, r)
	}
	return b.String()
}

func writeEscaped(b *strings.Builder, r rune) {
	switch r {
	case '\\':
		b.WriteString(`\\`)
	case '\n':
		b.WriteString(`\n`)
	case '\r':
		b.WriteString(`\r`)
	case '\t':
		b.WriteString(`\t`)
	case '\f':
		b.WriteString(`\f`)
	default:
		b.WriteRune(r)
	}
}
