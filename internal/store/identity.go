package store

import "github.com/ralt/rhinopackages/internal/models"

// DuplicateIDs returns every package ID that appears more than once, in catalog order
func DuplicateIDs(catalog models.Catalog) []string {
	seen := make(map[string]int, len(catalog))
	var dups []string
	for _, pkg := range catalog {
		seen[pkg.ID]++
		if seen[pkg.ID] == 2 {
			dups = append(dups, pkg.ID)
		}
	}
	return dups
}

// Dedupe keeps the first package of every ID and returns the dropped IDs
func Dedupe(catalog models.Catalog) (models.Catalog, []string) {
	seen := make(map[string]bool, len(catalog))
	out := make(models.Catalog, 0, len(catalog))
	var dropped []string
	for _, pkg := range catalog {
		if seen[pkg.ID] {
			dropped = append(dropped, pkg.ID)
			continue
		}
		seen[pkg.ID] = true
		out = append(out, pkg)
	}
	return out, dropped
}
