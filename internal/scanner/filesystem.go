package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ralt/rhinopackages/internal/compat"
	"github.com/ralt/rhinopackages/internal/inspector"
	"github.com/ralt/rhinopackages/internal/models"
	"github.com/sirupsen/logrus"
)

// FileSystemScanner implements Scanner interface for filesystem scanning
type FileSystemScanner struct{}

// NewFileSystemScanner creates a new filesystem scanner
func NewFileSystemScanner() *FileSystemScanner {
	return &FileSystemScanner{}
}

// Scan recursively scans a directory for Yak artifacts
func (s *FileSystemScanner) Scan(ctx context.Context, dir string) ([]Artifact, error) {
	var artifacts []Artifact

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if entry.IsDir() || !strings.EqualFold(filepath.Ext(path), YakExt) {
			return nil
		}

		artifact, err := s.inspect(path, entry)
		if err != nil {
			logrus.Warnf("Skipping %s: %v", path, err)
			return nil
		}

		logrus.Debugf("Found artifact %s: %s", path, artifact.Flags)
		artifacts = append(artifacts, *artifact)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	logrus.Infof("Found %d artifacts in %s", len(artifacts), dir)
	return artifacts, nil
}

func (s *FileSystemScanner) inspect(path string, entry fs.DirEntry) (*Artifact, error) {
	info, err := entry.Info()
	if err != nil {
		return nil, err
	}

	archive, err := inspector.InspectFile(path)
	if err != nil {
		return nil, err
	}

	d := ParseFilename(path)
	return &Artifact{
		Path:         path,
		Size:         info.Size(),
		Distribution: d,
		Flags:        compat.Calculate([]models.Distribution{d}, archive),
	}, nil
}
