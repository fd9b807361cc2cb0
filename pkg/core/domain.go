// Package core holds the domain of scribe: records, the ordered collection the
// UI edits, and the ports the storage adapters implement.
package core

import (
	"fmt"
	"time"
)

// Record is a named unit of text content.
// Persistent records are read from and written to disk. Informational records
// (e.g. the built-in help entry) live only in memory.
type Record struct {
	Name       string `json:"name"`
	Content    string `json:"content"`
	Persistent bool   `json:"persistent"`
}

// NewRecord returns a persistent record.
func NewRecord(name, content string) Record {
	return Record{Name: name, Content: content, Persistent: true}
}

// NewInfoRecord returns an informational record that is never serialized.
func NewInfoRecord(name, content string) Record {
	return Record{Name: name, Content: content}
}

// Entry is a single configuration pair.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// EventType represents the type of change observed in the record directory.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change of a record file on disk.
type Event struct {
	Type      EventType
	ID        string // record name derived from the file name
	Timestamp int64  // Unix timestamp
}

// String implements fmt.Stringer (and lifecycle.Event).
func (e Event) String() string {
	return fmt.Sprintf("%s %s @ %s", e.Type, e.ID, time.Unix(e.Timestamp, 0).UTC().Format(time.RFC3339))
}

// ScanResult is the outcome of a directory scan.
// Failures holds one entry per file that could not be decoded.
type ScanResult struct {
	Records  []Record
	Failures []ItemError
}
