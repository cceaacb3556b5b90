// Package reconcile runs one synchronization cycle between the registry and
// the persisted catalog.
package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/ralt/rhinopackages/internal/compat"
	"github.com/ralt/rhinopackages/internal/models"
	"github.com/ralt/rhinopackages/internal/registry"
	"github.com/sirupsen/logrus"
)

// DefaultFallbackIcon is used for packages without a custom icon
const DefaultFallbackIcon = "/icons/special/default.png"

// Registry is the subset of the registry API a cycle needs
type Registry interface {
	FetchSummaries(ctx context.Context) ([]registry.Summary, error)
	FetchVersionDetail(ctx context.Context, id, version string) (*registry.VersionDetail, error)
	FetchOwners(ctx context.Context, id string) ([]models.Owner, error)
	FetchVersionHistory(ctx context.Context, id string) ([]models.VersionHistoryEntry, error)
	IconExists(ctx context.Context, id, version string) (bool, error)
	IconURL(id, version string) string
}

// Inspector derives plugin-type flags from a downloadable artifact
type Inspector interface {
	Inspect(ctx context.Context, url string) (models.Filters, error)
}

// HistoryWriter persists the release history of a package
type HistoryWriter interface {
	WriteHistory(id string, entries []models.VersionHistoryEntry) error
}

// Engine reconciles registry packages against a catalog snapshot
type Engine struct {
	registry     Registry
	inspector    Inspector
	history      HistoryWriter
	log          logrus.FieldLogger
	fallbackIcon string
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger of the engine
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// WithFallbackIcon sets the icon used when a version has no custom icon
func WithFallbackIcon(icon string) Option {
	return func(e *Engine) {
		if icon != "" {
			e.fallbackIcon = icon
		}
	}
}

// NewEngine creates an engine from its collaborators
func NewEngine(reg Registry, inspector Inspector, history HistoryWriter, opts ...Option) *Engine {
	e := &Engine{
		registry:     reg,
		inspector:    inspector,
		history:      history,
		log:          logrus.StandardLogger(),
		fallbackIcon: DefaultFallbackIcon,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reconcile fetches every registry package in listing order and classifies
// it against snapshot. Only a failure to list packages, or cancellation,
// aborts the cycle; other failures skip the affected package.
func (e *Engine) Reconcile(ctx context.Context, snapshot models.Catalog) (*Result, error) {
	summaries, err := e.registry.FetchSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list registry packages: %w", err)
	}
	e.log.Infof("Registry lists %d packages", len(summaries))

	existing := snapshot.Index()
	seen := make(map[string]struct{}, len(summaries))
	result := &Result{}

	for _, summary := range summaries {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		log := e.log.WithField("package", summary.Name)

		// The first listing entry of an ID wins
		if _, ok := seen[summary.Name]; ok {
			err := &models.SyncError{
				Type:    models.ErrParse,
				Package: summary.Name,
				Err:     fmt.Errorf("listed more than once, ignoring version %s", summary.Version),
			}
			log.WithError(err).Warn("Skipping package")
			result.Skipped = append(result.Skipped, Skip{ID: summary.Name, Err: err})
			continue
		}
		seen[summary.Name] = struct{}{}

		candidate, err := e.enrich(ctx, summary)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if models.IsMissingVersion(err) {
				log.Infof("Version %s not found, skipping", summary.Version)
			} else {
				log.WithError(err).Warn("Skipping package")
			}
			result.Skipped = append(result.Skipped, Skip{ID: summary.Name, Err: err})
			continue
		}

		var prior *models.Package
		if i, ok := existing[summary.Name]; ok {
			prior = &snapshot[i]
		}

		kind := classify(candidate, prior)
		switch kind {
		case models.New:
			log.Debugf("New package %s", candidate.Version)
			result.Actions = append(result.Actions, models.UpdateAction{Kind: kind, Package: *candidate})
		case models.Update:
			change := describeChange(prior, candidate)
			log.WithField("change", change).Debugf("Updated %s -> %s", prior.Version, candidate.Version)
			result.Actions = append(result.Actions, models.UpdateAction{Kind: kind, Package: *candidate})
			result.Changes = append(result.Changes, change)
		default:
			result.Unchanged++
		}

		if err := e.writeHistory(ctx, summary.Name); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.WithError(err).Warn("Failed to refresh version history")
			result.HistoryFailures = append(result.HistoryFailures, summary.Name)
		}
	}

	return result, nil
}

// enrich gathers everything needed to build the catalog record of summary
func (e *Engine) enrich(ctx context.Context, summary registry.Summary) (*models.Package, error) {
	detail, err := e.registry.FetchVersionDetail(ctx, summary.Name, summary.Version)
	if err != nil {
		return nil, err
	}

	owners, err := e.registry.FetchOwners(ctx, summary.Name)
	if err != nil {
		return nil, err
	}

	hasIcon, err := e.registry.IconExists(ctx, summary.Name, summary.Version)
	if err != nil {
		return nil, err
	}

	archive := models.None
	if len(detail.Distributions) > 0 {
		// Every distribution of a version packs the same plugin files
		archive, err = e.inspector.Inspect(ctx, detail.Distributions[0].URL)
		if err != nil {
			return nil, withPackage(err, summary.Name)
		}
	}

	icon := e.fallbackIcon
	if hasIcon {
		icon = e.registry.IconURL(summary.Name, summary.Version)
	}

	keywords := detail.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	if owners == nil {
		owners = []models.Owner{}
	}

	return &models.Package{
		ID:          summary.Name,
		Version:     summary.Version,
		Updated:     detail.CreatedAt,
		Authors:     summary.Authors,
		Downloads:   summary.DownloadCount,
		IconURL:     &icon,
		Description: detail.Description,
		Keywords:    strings.Join(keywords, ","),
		Prerelease:  detail.Prerelease,
		HomepageURL: detail.HomepageURL,
		Filters:     compat.Calculate(detail.Distributions, archive),
		Owners:      owners,
	}, nil
}

func (e *Engine) writeHistory(ctx context.Context, id string) error {
	entries, err := e.registry.FetchVersionHistory(ctx, id)
	if err != nil {
		return err
	}
	return e.history.WriteHistory(id, entries)
}

// classify compares a candidate with the record persisted for the same ID.
// Only the version and the download count are compared.
func classify(candidate, prior *models.Package) models.UpdateKind {
	switch {
	case prior == nil:
		return models.New
	case candidate.Version != prior.Version || candidate.Downloads != prior.Downloads:
		return models.Update
	default:
		return models.Unchanged
	}
}

// withPackage attributes a SyncError to a package when it has no owner yet
func withPackage(err error, id string) error {
	if syncErr, ok := err.(*models.SyncError); ok && syncErr.Package == "" {
		copied := *syncErr
		copied.Package = id
		return &copied
	}
	return err
}
