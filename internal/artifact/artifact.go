// Package artifact manages the per-date screenshot files produced by the
// capture cycle: canonical naming and retention pruning.
package artifact

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// DefaultKeepDays retains today's and yesterday's screenshots.
const DefaultKeepDays = 2

// dateFormat stamps one screenshot per calendar date; a later cycle on the
// same date overwrites the earlier file.
const dateFormat = "2006-01-02"

// Manager names and prunes screenshot files in a single directory.
type Manager struct {
	Dir      string
	Prefix   string
	KeepDays int
}

// NewManager creates a Manager and ensures the artifact directory exists.
func NewManager(dir, prefix string, keepDays int) (*Manager, error) {
	if keepDays <= 0 {
		keepDays = DefaultKeepDays
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create screenshot directory %s: %w", dir, err)
	}
	return &Manager{Dir: dir, Prefix: prefix, KeepDays: keepDays}, nil
}

// PathFor returns the canonical screenshot path for a run date:
// <dir>/<prefix>_<YYYY-MM-DD>.png.
func (m *Manager) PathFor(runDate time.Time) string {
	return filepath.Join(m.Dir, fmt.Sprintf("%s_%s.png", m.Prefix, runDate.Format(dateFormat)))
}

// RetentionSet returns the filenames considered current as of runDate: the
// KeepDays most recent calendar dates ending at runDate.
func (m *Manager) RetentionSet(runDate time.Time) map[string]struct{} {
	keep := make(map[string]struct{}, m.KeepDays)
	for i := 0; i < m.KeepDays; i++ {
		d := runDate.AddDate(0, 0, -i)
		keep[filepath.Base(m.PathFor(d))] = struct{}{}
	}
	return keep
}

// Prune deletes every file in the artifact directory that matches the naming
// convention but falls outside the retention set for runDate. Files that do
// not match the convention are left alone. Individual delete failures are
// logged and do not stop the rest of the pass.
func (m *Manager) Prune(runDate time.Time) error {
	entries, err := os.ReadDir(m.Dir)
	if err != nil {
		return fmt.Errorf("failed to list screenshot directory %s: %w", m.Dir, err)
	}

	keep := m.RetentionSet(runDate)
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(m.Prefix) + `_\d{4}-\d{2}-\d{2}\.png$`)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !pattern.MatchString(name) {
			continue
		}
		if _, ok := keep[name]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(m.Dir, name)); err != nil {
			log.Printf("[ARTIFACT] Failed to delete stale screenshot %s: %v", name, err)
			continue
		}
		log.Printf("[ARTIFACT] Deleted stale screenshot: %s", name)
	}

	return nil
}
