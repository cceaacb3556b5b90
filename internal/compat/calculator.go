// Package compat derives the compatibility flags of a package version.
package compat

import (
	"strings"

	"github.com/ralt/rhinopackages/internal/models"
)

var platforms = map[string]models.Filters{
	"win": models.Windows,
	"mac": models.Mac,
}

var rhinoVersions = []struct {
	prefix string
	flag   models.Filters
}{
	{"rh6", models.Rhino6},
	{"rh7", models.Rhino7},
	{"rh8", models.Rhino8},
}

// Calculate unions the flags of every distribution of a version with the
// plugin-type flags found in its archive. The archive flags only apply when
// the version has at least one distribution.
func Calculate(distributions []models.Distribution, archive models.Filters) models.Filters {
	flags := models.None
	for _, d := range distributions {
		flags = flags.Union(Distribution(d)).Union(archive)
	}
	return flags
}

// Distribution returns the platform and Rhino version flags of one distribution
func Distribution(d models.Distribution) models.Filters {
	flags := platforms[strings.ToLower(d.Platform)]

	rv := strings.ToLower(d.RhinoVersion)
	for _, v := range rhinoVersions {
		if strings.HasPrefix(rv, v.prefix) {
			flags = flags.Union(v.flag)
		}
	}
	return flags
}
