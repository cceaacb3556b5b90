package models

import "time"

// Package is one catalog record, as rendered by the web front-end
type Package struct {
	ID          string    `json:"id"`
	Version     string    `json:"version"`
	Updated     time.Time `json:"updated"`
	Authors     string    `json:"authors"`
	Downloads   int       `json:"downloads"`
	IconURL     *string   `json:"iconUrl"`
	Description string    `json:"description"`
	Keywords    string    `json:"keywords"`
	Prerelease  bool      `json:"prerelease"`
	HomepageURL *string   `json:"homepageUrl"`
	Filters     Filters   `json:"filters"`
	Owners      []Owner   `json:"owners"`
}

// Owner is a registry account that owns a package
type Owner struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Catalog is the ordered set of packages persisted between runs.
// Package IDs are unique within a catalog.
type Catalog []Package

// Index maps package IDs to their position in the catalog.
// When an ID appears more than once the first position wins.
func (c Catalog) Index() map[string]int {
	index := make(map[string]int, len(c))
	for i, pkg := range c {
		if _, ok := index[pkg.ID]; !ok {
			index[pkg.ID] = i
		}
	}
	return index
}
