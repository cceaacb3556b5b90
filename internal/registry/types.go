package registry

import (
	"time"

	"github.com/ralt/rhinopackages/internal/models"
)

// Summary is one entry of the registry's package listing
type Summary struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	Authors       string `json:"authors"`
	DownloadCount int    `json:"download_count"`
}

// VersionDetail describes a single published version
type VersionDetail struct {
	CreatedAt     time.Time
	Version       string
	Description   string
	Distributions []models.Distribution
	HomepageURL   *string
	Keywords      []string
	Prerelease    bool
}

// wireDistribution is a distribution as the registry encodes it
type wireDistribution struct {
	Filename     string `json:"filename"`
	Platform     string `json:"platform"`
	RhinoVersion string `json:"rhino_version"`
	URL          string `json:"url"`
}

// wireVersion is the registry encoding shared by version detail and history
type wireVersion struct {
	CreatedAt     time.Time          `json:"created_at"`
	Version       string             `json:"version"`
	Description   string             `json:"description"`
	Distributions []wireDistribution `json:"distributions"`
	HomepageURL   *string            `json:"homepage_url"`
	Keywords      []string           `json:"keywords"`
	Prerelease    bool               `json:"prerelease"`
}

func (v wireVersion) distributions() []models.Distribution {
	dists := make([]models.Distribution, 0, len(v.Distributions))
	for _, d := range v.Distributions {
		dists = append(dists, models.Distribution{
			Filename:     d.Filename,
			Platform:     d.Platform,
			RhinoVersion: d.RhinoVersion,
			URL:          d.URL,
		})
	}
	return dists
}

func (v wireVersion) detail() *VersionDetail {
	return &VersionDetail{
		CreatedAt:     v.CreatedAt,
		Version:       v.Version,
		Description:   v.Description,
		Distributions: v.distributions(),
		HomepageURL:   v.HomepageURL,
		Keywords:      v.Keywords,
		Prerelease:    v.Prerelease,
	}
}

func (v wireVersion) historyEntry() models.VersionHistoryEntry {
	return models.VersionHistoryEntry{
		CreatedAt:     v.CreatedAt,
		Version:       v.Version,
		Prerelease:    v.Prerelease,
		Distributions: v.distributions(),
	}
}
