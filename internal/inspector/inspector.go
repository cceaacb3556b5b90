// Package inspector downloads package artifacts and derives plugin-type
// flags from the names of the entries they contain.
package inspector

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/klauspost/compress/zip"
	"github.com/ralt/rhinopackages/internal/models"
	"github.com/sirupsen/logrus"
)

// Inspector downloads artifacts and lists their entries
type Inspector struct {
	http    *resty.Client
	tempDir string
	log     logrus.FieldLogger
}

// Option configures an Inspector
type Option func(*Inspector)

// WithLogger sets the logger of the inspector
func WithLogger(log logrus.FieldLogger) Option {
	return func(i *Inspector) { i.log = log }
}

// New creates an inspector that downloads through client.
// Downloads are staged in the system temp directory.
func New(client *resty.Client, opts ...Option) *Inspector {
	i := &Inspector{
		http:    client,
		tempDir: os.TempDir(),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Inspect downloads the artifact at url and returns its plugin-type flags
func (i *Inspector) Inspect(ctx context.Context, url string) (models.Filters, error) {
	archivePath, err := i.download(ctx, url)
	if err != nil {
		return models.None, &models.SyncError{
			Type: models.ErrArchive,
			Err:  err,
		}
	}
	defer os.Remove(archivePath)

	flags, err := InspectFile(archivePath)
	if err != nil {
		return models.None, &models.SyncError{
			Type: models.ErrArchive,
			Err:  fmt.Errorf("%s: %w", url, err),
		}
	}

	i.log.Debugf("Inspected %s: %s", url, flags)
	return flags, nil
}

// InspectFile returns the plugin-type flags of a local archive
func InspectFile(archivePath string) (models.Filters, error) {
	names, err := ListEntries(archivePath)
	if err != nil {
		return models.None, err
	}
	return Capabilities(names), nil
}

// ListEntries returns the entry names of a zip archive without extracting them
func ListEntries(archivePath string) ([]string, error) {
	isZip, err := DetectZip(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	if !isZip {
		return nil, fmt.Errorf("not a zip archive")
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// download streams the artifact into a temporary file and returns its path
func (i *Inspector) download(ctx context.Context, url string) (string, error) {
	// The shared client asks for JSON; artifacts are binary
	resp, err := i.http.R().
		SetContext(ctx).
		SetHeader("Accept", "*/*").
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return "", fmt.Errorf("download of %s returned status %d", url, resp.StatusCode())
	}

	f, err := os.CreateTemp(i.tempDir, "rhinopackages-*.yak")
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("reading download stream: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing download: %w", err)
	}

	return f.Name(), nil
}
