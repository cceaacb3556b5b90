package reconcile

import (
	"context"
	"fmt"

	"github.com/ralt/rhinopackages/internal/models"
)

// Mode selects how a run treats the persisted catalog
type Mode int

const (
	// ModeIncremental reconciles against the persisted catalog and only
	// writes it when something changed
	ModeIncremental Mode = iota
	// ModeRebuild ignores the persisted catalog and always writes a new one
	ModeRebuild
)

// String returns the string representation of Mode
func (m Mode) String() string {
	if m == ModeRebuild {
		return "rebuild"
	}
	return "incremental"
}

// Catalog is the persisted catalog a run reads and replaces
type Catalog interface {
	Load() models.Catalog
	Merge(snapshot models.Catalog, actions []models.UpdateAction) (models.Catalog, error)
	Save(catalog models.Catalog) error
}

// Summary reports what a run did
type Summary struct {
	*Result
	Mode  Mode
	Saved bool
	Total int
}

// Run performs one cycle: load, reconcile, merge and save
func Run(ctx context.Context, engine *Engine, catalog Catalog, mode Mode) (*Summary, error) {
	snapshot := models.Catalog{}
	if mode == ModeIncremental {
		snapshot = catalog.Load()
	}
	engine.log.Infof("Starting %s sync from %d persisted packages", mode, len(snapshot))

	result, err := engine.Reconcile(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Result: result, Mode: mode, Total: len(snapshot)}
	engine.log.Infof("%d packages to update (%d new, %d updated, %d unchanged, %d skipped)",
		len(result.Actions), result.Count(models.New), result.Count(models.Update), result.Unchanged, len(result.Skipped))

	if mode == ModeIncremental && len(result.Actions) == 0 {
		engine.log.Info("Catalog is up to date, nothing to save")
		return summary, nil
	}

	merged, err := catalog.Merge(snapshot, result.Actions)
	if err != nil {
		return nil, fmt.Errorf("failed to merge updates: %w", err)
	}

	if err := catalog.Save(merged); err != nil {
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}

	summary.Saved = true
	summary.Total = len(merged)
	return summary, nil
}
