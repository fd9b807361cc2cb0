package fs

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/scribe/internal/fsutil"
	"github.com/aretw0/scribe/pkg/core"
)

// Repository implements core.Repository on a flat directory, one file per record.
type Repository struct {
	Path   string
	config Config

	mu            sync.RWMutex
	serializers   map[string]Serializer
	watcherActive bool
	watchWorker   *watchWorker
	lastScan      *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	MustExist bool
	Logger    *slog.Logger
	// Extension of the record files written by Save. Defaults to ".xml".
	Extension string
	// Pattern selects the files Scan and Watch consider (doublestar syntax,
	// matched against the base name). Defaults to "*" + Extension.
	Pattern string
	// ErrorHandler receives asynchronous watcher errors. Optional.
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Extension == "" {
		config.Extension = DefaultExtension
	}
	if !strings.HasPrefix(config.Extension, ".") {
		config.Extension = "." + config.Extension
	}
	if config.Pattern == "" {
		config.Pattern = "*" + config.Extension
	}
	return &Repository{
		Path:        config.Path,
		config:      config,
		serializers: DefaultSerializers(),
	}
}

// RegisterSerializer adds or replaces the serializer used for ext.
func (r *Repository) RegisterSerializer(ext string, s Serializer) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.serializers[strings.ToLower(ext)] = s
}

func (r *Repository) serializerFor(ext string) (Serializer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.serializers[strings.ToLower(ext)]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w for %q", errNoSerializer, ext)
}

// Initialize creates the record directory, or checks it when MustExist is set.
func (r *Repository) Initialize(ctx context.Context) error {
	if !doublestar.ValidatePattern(r.config.Pattern) {
		return fmt.Errorf("invalid pattern %q: %w", r.config.Pattern, doublestar.ErrBadPattern)
	}
	if _, err := r.serializerFor(r.config.Extension); err != nil {
		return err
	}

	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: data path does not exist: %s", core.ErrStorageUnavailable, r.Path)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: data path is not a directory: %s", core.ErrStorageUnavailable, r.Path)
		}
		return nil
	}

	if err := fsutil.EnsureDir(r.Path); err != nil {
		return fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
	}
	return nil
}

// Scan decodes every record file in the directory.
//
// Workflow:
//  1. List the directory (non-recursive, sorted by file name).
//  2. Keep regular files matching the pattern, skipping in-flight temp files.
//  3. Decode each one. Undecodable files are logged and reported in
//     ScanResult.Failures; they never abort the scan.
//
// Only an unreadable directory returns an error.
func (r *Repository) Scan(ctx context.Context) (core.ScanResult, error) {
	entries, err := os.ReadDir(r.Path)
	if err != nil {
		return core.ScanResult{}, fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
	}

	var res core.ScanResult
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		name := entry.Name()
		if entry.IsDir() || fsutil.IsTempFile(name) || !r.matches(r.config.Pattern, name) {
			continue
		}

		rec, err := r.decodeFile(filepath.Join(r.Path, name))
		if err != nil {
			r.config.Logger.Warn("skipping unreadable record", "file", name, "error", err)
			res.Failures = append(res.Failures, core.ItemError{ID: name, Err: err})
			continue
		}
		res.Records = append(res.Records, rec)
	}

	now := time.Now()
	r.mu.Lock()
	r.lastScan = &now
	r.mu.Unlock()

	r.config.Logger.Debug("scan complete", "path", r.Path, "records", len(res.Records), "failures", len(res.Failures))
	return res, nil
}

func (r *Repository) matches(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

// decodeFile reads and decodes a single file. Formats that do not carry a
// name (plain text, Markdown without frontmatter) fall back to the file stem.
func (r *Repository) decodeFile(path string) (core.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return core.Record{}, fmt.Errorf("%w: %s", core.ErrNotFound, path)
		}
		return core.Record{}, fmt.Errorf("%w: %w", core.ErrMalformedRecord, err)
	}
	if len(data) == 0 {
		return core.Record{}, fmt.Errorf("%w: empty file", core.ErrMalformedRecord)
	}

	ext := filepath.Ext(path)
	s, err := r.serializerFor(ext)
	if err != nil {
		// unknown extensions are tried as native records
		s, err = r.serializerFor(r.config.Extension)
		if err != nil {
			return core.Record{}, err
		}
	}

	rec, err := s.Decode(data)
	if err != nil {
		return core.Record{}, err
	}
	if rec.Name == "" {
		base := filepath.Base(path)
		if name, ok := NameFromFile(base, ext); ok {
			rec.Name = name
		} else {
			rec.Name = strings.TrimSuffix(base, ext)
		}
	}
	if rec.Name == "" {
		return core.Record{}, fmt.Errorf("%w: empty name", core.ErrMalformedRecord)
	}
	rec.Persistent = true
	return rec, nil
}

// Save writes a record atomically, creating or overwriting its file.
// Informational records are rejected with core.ErrNotPersistent.
func (r *Repository) Save(ctx context.Context, rec core.Record) error {
	if !rec.Persistent {
		return fmt.Errorf("%w: %s", core.ErrNotPersistent, rec.Name)
	}
	if rec.Name == "" {
		return core.ErrInvalidName
	}
	return r.write(rec)
}

func (r *Repository) write(rec core.Record) error {
	s, err := r.serializerFor(r.config.Extension)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrWriteFailure, err)
	}
	data, err := s.Encode(rec)
	if err != nil {
		return fmt.Errorf("%w: failed to serialize %s: %w", core.ErrWriteFailure, rec.Name, err)
	}

	fullPath := r.pathFor(rec.Name)
	if err := fsutil.WriteFileAtomic(fullPath, data, 0644); err != nil {
		return fmt.Errorf("%w: %s: %w", core.ErrWriteFailure, fullPath, err)
	}
	return nil
}

// SaveMany saves every persistent record, continuing past failures.
// Informational records are skipped. Failures are returned as a *core.BatchError.
func (r *Repository) SaveMany(ctx context.Context, records []core.Record) error {
	var failures []core.ItemError
	for _, rec := range records {
		if !rec.Persistent {
			continue
		}
		if err := r.Save(ctx, rec); err != nil {
			r.config.Logger.Error("failed to save record", "name", rec.Name, "error", err)
			failures = append(failures, core.ItemError{ID: rec.Name, Err: err})
		}
	}
	if len(failures) > 0 {
		return &core.BatchError{Op: "save", Failures: failures}
	}
	return nil
}

// Load decodes a record from an arbitrary file, typically outside the data
// directory. The format is chosen by extension.
func (r *Repository) Load(ctx context.Context, path string) (core.Record, error) {
	if err := ctx.Err(); err != nil {
		return core.Record{}, err
	}
	return r.decodeFile(path)
}

// Delete removes the file backing the named record.
func (r *Repository) Delete(ctx context.Context, name string) error {
	fullPath := r.pathFor(name)
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", core.ErrNotFound, name)
		}
		return fmt.Errorf("%w: failed to remove %s: %w", core.ErrWriteFailure, fullPath, err)
	}
	return nil
}

// Rename moves a stored record to a new name. The re-named record is written
// first; the old file is removed only once the new one is on disk.
func (r *Repository) Rename(ctx context.Context, oldName, newName string) error {
	if newName == "" {
		return core.ErrInvalidName
	}
	oldPath, newPath := r.pathFor(oldName), r.pathFor(newName)
	if oldPath == newPath {
		return nil
	}

	oldInfo, err := os.Stat(oldPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", core.ErrNotFound, oldName)
		}
		return fmt.Errorf("%w: %w", core.ErrWriteFailure, err)
	}

	// case-insensitive filesystems resolve both names to one file
	sameFile := false
	if newInfo, err := os.Stat(newPath); err == nil {
		if !os.SameFile(oldInfo, newInfo) {
			return fmt.Errorf("%w: %s", core.ErrNameCollision, newName)
		}
		sameFile = true
	}

	rec, err := r.decodeFile(oldPath)
	if err != nil {
		return err
	}
	rec.Name = newName

	if sameFile {
		if err := os.Rename(oldPath, newPath); err != nil {
			return fmt.Errorf("%w: %w", core.ErrWriteFailure, err)
		}
		return r.write(rec)
	}

	if err := r.write(rec); err != nil {
		return err
	}
	if err := os.Remove(oldPath); err != nil {
		_ = os.Remove(newPath)
		return fmt.Errorf("%w: failed to remove %s: %w", core.ErrWriteFailure, oldPath, err)
	}
	return nil
}

// Exists reports whether the named record has a file on disk.
func (r *Repository) Exists(name string) bool {
	_, err := os.Stat(r.pathFor(name))
	return err == nil
}

// FileName returns the base file name used for a record name.
func (r *Repository) FileName(name string) string {
	return FileName(name, r.config.Extension)
}

func (r *Repository) pathFor(name string) string {
	return filepath.Join(r.Path, r.FileName(name))
}

func (r *Repository) serializerExts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.serializers))
	for ext := range r.serializers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// --- Naming ---

const reservedChars = `%<>:"/\|?*`

// FileName maps a record name to a base file name. Characters that are
// unsafe in file names are percent-escaped, as are a leading dot and a
// trailing dot or space. The mapping is injective and NameFromFile inverts it.
func FileName(name, ext string) string {
	var b strings.Builder
	last := len(name) - 1
	for i := 0; i < len(name); i++ {
		c := name[i]
		escape := c < 0x20 || c == 0x7f || strings.IndexByte(reservedChars, c) >= 0 ||
			(i == 0 && c == '.') ||
			(i == last && (c == '.' || c == ' '))
		if escape {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	b.WriteString(ext)
	return b.String()
}

// NameFromFile recovers the record name from a base file name produced by
// FileName. It reports false when base does not carry ext or is not a valid
// escaped name.
func NameFromFile(base, ext string) (string, bool) {
	if !strings.HasSuffix(base, ext) {
		return "", false
	}
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		return "", false
	}
	name, err := url.PathUnescape(stem)
	if err != nil {
		return "", false
	}
	return name, true
}
