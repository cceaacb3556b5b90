package models

// UpdateKind classifies how a remote package relates to the persisted snapshot
type UpdateKind int

const (
	Unchanged UpdateKind = iota
	New
	Update
)

// String returns the string representation of UpdateKind
func (k UpdateKind) String() string {
	switch k {
	case New:
		return "new"
	case Update:
		return "update"
	default:
		return "unchanged"
	}
}

// UpdateAction is a catalog change produced by one sync cycle.
// Unchanged packages never produce an action.
type UpdateAction struct {
	Kind    UpdateKind
	Package Package
}
