package reconcile

import "github.com/ralt/rhinopackages/internal/models"

// Skip records a package that was left out of a cycle
type Skip struct {
	ID  string
	Err error
}

// Result is the outcome of one cycle
type Result struct {
	// Actions holds New and Update actions in registry listing order
	Actions []models.UpdateAction
	// Changes describes each Update action, in the same order
	Changes []Change
	// Skipped packages keep their persisted record untouched
	Skipped []Skip
	// Unchanged counts packages whose version and downloads matched
	Unchanged int
	// HistoryFailures lists packages whose history file could not be refreshed
	HistoryFailures []string
}

// Count returns the number of actions of the given kind
func (r *Result) Count(kind models.UpdateKind) int {
	n := 0
	for _, a := range r.Actions {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// MissingVersions returns how many skips were caused by unknown versions
func (r *Result) MissingVersions() int {
	n := 0
	for _, s := range r.Skipped {
		if models.IsMissingVersion(s.Err) {
			n++
		}
	}
	return n
}
