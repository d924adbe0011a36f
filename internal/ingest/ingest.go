// Package ingest normalizes raw transaction exports into canonical
// records. Three source formats are supported: JSON arrays, semicolon
// delimited CSV and XLSX spreadsheets.
//
// Normalization is tolerant by design: a source that does not decode to
// a sequence yields an empty batch, and individual records missing a
// required field are skipped without aborting the rest.
package ingest

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/lox/bank-transaction-reports/internal/types"
)

// Format parses one source format into canonical transactions.
//
// Parse returns an error only for transport-level failures (the reader
// itself failing); undecodable or structurally wrong content degrades
// to an empty batch so one bad source cannot sink a larger run.
type Format interface {
	// Name returns the name of the format
	Name() string

	// Extensions returns the file extensions the format claims
	Extensions() []string

	// Parse normalizes raw content into transactions, preserving source order
	Parse(ctx context.Context, r io.Reader) ([]types.Transaction, error)
}

// Registry maintains a list of available format implementations
type Registry struct {
	formats map[string]Format
}

// NewRegistry creates a new format registry
func NewRegistry() *Registry {
	return &Registry{
		formats: make(map[string]Format),
	}
}

// Register adds a format implementation to the registry
func (r *Registry) Register(f Format) {
	r.formats[f.Name()] = f
}

// Get returns a format implementation by name
func (r *Registry) Get(name string) (Format, bool) {
	f, ok := r.formats[name]
	return f, ok
}

// ForPath returns the format implementation claiming the path's extension
func (r *Registry) ForPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range r.formats {
		for _, candidate := range f.Extensions() {
			if candidate == ext {
				return f, true
			}
		}
	}
	return nil, false
}

// List returns a list of all registered format names
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	return names
}

// dateLayouts are the timestamp shapes seen across the three formats,
// most specific first.
var dateLayouts = []string{
	"2006-01-02T15:04:05.999999",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02.01.2006 15:04:05",
	"2006-01-02",
	"02.01.2006",
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
