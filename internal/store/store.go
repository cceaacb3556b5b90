// Package store loads, merges and saves the persisted package catalog.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ralt/rhinopackages/internal/models"
	"github.com/ralt/rhinopackages/internal/signer"
	"github.com/ralt/rhinopackages/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	// CatalogFile is the catalog file name inside the output directory
	CatalogFile = "data.json"
	// HistoryDir is the history directory relative to the output directory
	HistoryDir = "data/versions"
)

// Store persists the catalog as a single JSON document
type Store struct {
	path     string
	compress bool
	signer   signer.Signer
	log      logrus.FieldLogger
}

// Option configures a Store
type Option func(*Store)

// WithCompression also writes gzip and zstd copies of the catalog on save
func WithCompression(enabled bool) Option {
	return func(s *Store) { s.compress = enabled }
}

// WithSigner writes a detached signature and the public key next to the catalog
func WithSigner(sig signer.Signer) Option {
	return func(s *Store) { s.signer = sig }
}

// WithLogger sets the logger used for warnings
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}

// New creates a store for the catalog inside outputDir
func New(outputDir string, opts ...Option) *Store {
	s := &Store{
		path: filepath.Join(outputDir, CatalogFile),
		log:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the catalog file path
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted catalog. A missing, unreadable or corrupt file
// yields an empty catalog: nothing usable has been persisted yet.
func (s *Store) Load() models.Catalog {
	log := s.log.WithField("path", s.path)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("No persisted catalog found")
		} else {
			log.WithError(err).Warn("Failed to read persisted catalog, starting empty")
		}
		return models.Catalog{}
	}

	var catalog models.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		log.WithError(err).Warn("Persisted catalog is corrupt, starting empty")
		return models.Catalog{}
	}
	if catalog == nil {
		return models.Catalog{}
	}

	catalog, dropped := Dedupe(catalog)
	if len(dropped) > 0 {
		log.Warnf("Dropped %d duplicate packages from persisted catalog: %v", len(dropped), dropped)
	}

	log.Debugf("Loaded %d packages", len(catalog))
	return catalog
}

// Merge applies actions to snapshot and returns the new catalog.
// New packages are appended; updated packages replace the first record with
// the same ID, or are appended when there is none. snapshot is not modified.
func (s *Store) Merge(snapshot models.Catalog, actions []models.UpdateAction) (models.Catalog, error) {
	merged := make(models.Catalog, len(snapshot), len(snapshot)+len(actions))
	copy(merged, snapshot)
	index := merged.Index()

	for _, action := range actions {
		switch action.Kind {
		case models.New:
			index[action.Package.ID] = len(merged)
			merged = append(merged, action.Package)
		case models.Update:
			if i, ok := index[action.Package.ID]; ok {
				merged[i] = action.Package
			} else {
				index[action.Package.ID] = len(merged)
				merged = append(merged, action.Package)
			}
		}
	}

	if dups := DuplicateIDs(merged); len(dups) > 0 {
		return nil, &models.SyncError{
			Type: models.ErrMerge,
			Err:  fmt.Errorf("merge would duplicate package ids %v", dups),
		}
	}
	return merged, nil
}

// Save writes the catalog atomically, plus compressed copies and a signature
// when configured
func (s *Store) Save(catalog models.Catalog) error {
	if catalog == nil {
		catalog = models.Catalog{}
	}

	data, err := json.Marshal(catalog)
	if err != nil {
		return &models.SyncError{Type: models.ErrFileOp, Err: fmt.Errorf("failed to encode catalog: %w", err)}
	}

	if err := utils.WriteFileAtomic(s.path, data, 0644); err != nil {
		return &models.SyncError{Type: models.ErrFileOp, Err: fmt.Errorf("failed to write %s: %w", s.path, err)}
	}
	s.log.WithField("path", s.path).Infof("Saved %d packages", len(catalog))

	if s.compress {
		if err := s.writeCompressed(data); err != nil {
			return err
		}
	}

	if s.signer != nil {
		if err := s.writeSignature(data); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) writeCompressed(data []byte) error {
	gz, err := utils.GzipCompress(data)
	if err != nil {
		return &models.SyncError{Type: models.ErrFileOp, Err: fmt.Errorf("failed to gzip catalog: %w", err)}
	}
	if err := utils.WriteFileAtomic(s.path+".gz", gz, 0644); err != nil {
		return &models.SyncError{Type: models.ErrFileOp, Err: fmt.Errorf("failed to write %s.gz: %w", s.path, err)}
	}

	zst, err := utils.ZstdCompress(data)
	if err != nil {
		return &models.SyncError{Type: models.ErrFileOp, Err: fmt.Errorf("failed to zstd catalog: %w", err)}
	}
	if err := utils.WriteFileAtomic(s.path+".zst", zst, 0644); err != nil {
		return &models.SyncError{Type: models.ErrFileOp, Err: fmt.Errorf("failed to write %s.zst: %w", s.path, err)}
	}

	s.log.Debugf("Compressed catalog: %d bytes gzip, %d bytes zstd", len(gz), len(zst))
	return nil
}

func (s *Store) writeSignature(data []byte) error {
	sig, err := s.signer.SignDetached(data)
	if err != nil {
		return &models.SyncError{Type: models.ErrSigning, Err: err}
	}
	if err := utils.WriteFileAtomic(s.path+".asc", sig, 0644); err != nil {
		return &models.SyncError{Type: models.ErrFileOp, Err: fmt.Errorf("failed to write signature: %w", err)}
	}

	pub, err := s.signer.GetPublicKey()
	if err != nil {
		return &models.SyncError{Type: models.ErrSigning, Err: fmt.Errorf("failed to export public key: %w", err)}
	}
	if err := utils.WriteFileAtomic(s.path+".pub.asc", pub, 0644); err != nil {
		return &models.SyncError{Type: models.ErrFileOp, Err: fmt.Errorf("failed to write public key: %w", err)}
	}

	s.log.Debug("Catalog signed")
	return nil
}
