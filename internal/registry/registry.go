// Package registry keeps an append-only, membership-deduplicated list of
// entries (seed URLs or domains) in a newline-delimited file.
package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/tetun-corpus/internal/ingestion"
)

// Registry is the in-memory view of a registry file. Entries added through
// Add are persisted immediately. Not safe for concurrent use.
type Registry struct {
	path  string
	items []string
	index map[string]struct{}
}

// Open loads the registry at path. A missing file is an empty registry.
func Open(path string) (*Registry, error) {
	r := &Registry{path: path, index: make(map[string]struct{})}

	lines, err := ingestion.LoadLines(path)
	if err != nil && !errors.Is(err, ingestion.ErrFileNotFound) {
		return nil, fmt.Errorf("failed to open registry %s: %w", path, err)
	}
	for _, line := range lines {
		entry := strings.TrimSpace(line)
		if entry == "" {
			continue
		}
		if _, ok := r.index[entry]; ok {
			continue
		}
		r.index[entry] = struct{}{}
		r.items = append(r.items, entry)
	}
	return r, nil
}

// Path returns the registry file path.
func (r *Registry) Path() string {
	return r.path
}

// Contains reports whether entry is already registered.
func (r *Registry) Contains(entry string) bool {
	_, ok := r.index[strings.TrimSpace(entry)]
	return ok
}

// Add appends entry to the file unless it is already present.
// It reports whether the entry was new.
func (r *Registry) Add(entry string) (bool, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return false, nil
	}
	if _, ok := r.index[entry]; ok {
		return false, nil
	}
	if err := ingestion.AppendLines(r.path, entry); err != nil {
		return false, err
	}
	r.index[entry] = struct{}{}
	r.items = append(r.items, entry)
	return true, nil
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	return len(r.items)
}

// Items returns the entries in file order.
func (r *Registry) Items() []string {
	out := make([]string, len(r.items))
	copy(out, r.items)
	return out
}
