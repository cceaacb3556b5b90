package inspector

import (
	"bytes"
	"io"
	"os"
	"path"
	"strings"

	"github.com/ralt/rhinopackages/internal/models"
)

// Magic bytes for archive detection
var (
	// Local file header, present in any zip with at least one entry
	zipMagic = []byte{'P', 'K', 0x03, 0x04}

	// End of central directory record, an empty zip starts with it
	emptyZipMagic = []byte{'P', 'K', 0x05, 0x06}
)

// Entry extensions that identify plugin types
const (
	rhinoPluginExt       = ".rhp"
	grasshopperPluginExt = ".gha"
)

// IsZip reports whether header starts like a zip archive
func IsZip(header []byte) bool {
	return bytes.HasPrefix(header, zipMagic) || bytes.HasPrefix(header, emptyZipMagic)
}

// DetectZip reads the first bytes of a file and reports whether it is a zip archive
func DetectZip(filePath string) (bool, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer f.Close()

	header := make([]byte, len(zipMagic))
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return IsZip(header[:n]), nil
}

// Capabilities derives plugin-type flags from archive entry names
func Capabilities(names []string) models.Filters {
	flags := models.None
	for _, name := range names {
		switch strings.ToLower(path.Ext(name)) {
		case rhinoPluginExt:
			flags = flags.Union(models.Rhino)
		case grasshopperPluginExt:
			flags = flags.Union(models.Grasshopper)
		}
	}
	return flags
}
