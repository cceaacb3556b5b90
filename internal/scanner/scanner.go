// Package scanner finds Yak artifacts on disk and reports the compatibility
// flags the catalog would record for them.
package scanner

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ralt/rhinopackages/internal/models"
)

// YakExt is the extension of Yak package artifacts
const YakExt = ".yak"

// Artifact represents a Yak file found during scanning
type Artifact struct {
	Path         string
	Size         int64
	Distribution models.Distribution
	Flags        models.Filters
}

// Scanner interface for finding and inspecting artifacts
type Scanner interface {
	// Scan recursively scans a directory for artifacts
	Scan(ctx context.Context, dir string) ([]Artifact, error)
}

// ParseFilename extracts the distribution tags from a Yak file name of the
// form {name}-{version}-{rhino version}-{platform}.yak. Names that do not
// carry the tags yield a distribution with only the file name set.
func ParseFilename(name string) models.Distribution {
	base := filepath.Base(name)
	d := models.Distribution{Filename: base}

	stem := base
	if strings.EqualFold(filepath.Ext(base), YakExt) {
		stem = base[:len(base)-len(YakExt)]
	}

	parts := strings.Split(stem, "-")
	if len(parts) < 4 {
		return d
	}

	d.RhinoVersion = parts[len(parts)-2]
	d.Platform = parts[len(parts)-1]
	return d
}
