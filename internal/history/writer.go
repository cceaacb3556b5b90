// Package history persists the full release history of each package.
package history

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ralt/rhinopackages/internal/models"
	"github.com/ralt/rhinopackages/internal/utils"
	"github.com/sirupsen/logrus"
)

// Writer writes one {id}.json file per package under dir
type Writer struct {
	dir string
	log logrus.FieldLogger
}

// Option configures a Writer
type Option func(*Writer)

// WithLogger sets the logger of the writer
func WithLogger(log logrus.FieldLogger) Option {
	return func(w *Writer) { w.log = log }
}

// NewWriter creates a history writer rooted at dir
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{
		dir: dir,
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns the history file of a package
func (w *Writer) Path(id string) string {
	return filepath.Join(w.dir, id+".json")
}

// WriteHistory replaces the history file of a package with entries.
// Entries are written as given; nothing is merged with a previous file.
func (w *Writer) WriteHistory(id string, entries []models.VersionHistoryEntry) error {
	if err := validateID(id); err != nil {
		return &models.SyncError{Type: models.ErrFileOp, Package: id, Err: err}
	}
	if entries == nil {
		entries = []models.VersionHistoryEntry{}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return &models.SyncError{Type: models.ErrFileOp, Package: id, Err: fmt.Errorf("failed to encode history: %w", err)}
	}

	path := w.Path(id)
	log := w.log.WithField("package", id)
	if previous, err := utils.FileChecksum(path); err == nil && previous == utils.CalculateChecksum(data) {
		log.Debugf("History unchanged (%d versions)", len(entries))
	} else {
		log.Debugf("Writing history (%d versions)", len(entries))
	}

	if err := utils.WriteFile(path, data, 0644); err != nil {
		return &models.SyncError{Type: models.ErrFileOp, Package: id, Err: fmt.Errorf("failed to write history: %w", err)}
	}
	return nil
}

// validateID rejects IDs that would not map to a single file inside the history directory
func validateID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return fmt.Errorf("empty package id")
	case strings.ContainsAny(id, `/\`), id == ".", id == "..":
		return fmt.Errorf("package id %q is not a valid file name", id)
	}
	return nil
}
