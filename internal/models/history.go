package models

import "time"

// Distribution is one platform specific artifact of a release
type Distribution struct {
	Filename     string `json:"filename"`
	Platform     string `json:"platform"`
	RhinoVersion string `json:"rhinoVersion"`
	URL          string `json:"url"`
}

// VersionHistoryEntry is one published release of a package
type VersionHistoryEntry struct {
	CreatedAt     time.Time      `json:"createdAt"`
	Version       string         `json:"version"`
	Prerelease    bool           `json:"prerelease"`
	Distributions []Distribution `json:"distributions"`
}
