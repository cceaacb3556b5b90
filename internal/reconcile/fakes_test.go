package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ralt/rhinopackages/internal/models"
	"github.com/ralt/rhinopackages/internal/registry"
)

var errBoom = errors.New("boom")

type fakeRegistry struct {
	summaries    []registry.Summary
	summariesErr error
	details      map[string]*registry.VersionDetail
	owners       map[string][]models.Owner
	ownersErr    map[string]error
	icons        map[string]bool
	history      map[string][]models.VersionHistoryEntry
	historyErr   map[string]error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		details:    make(map[string]*registry.VersionDetail),
		owners:     make(map[string][]models.Owner),
		ownersErr:  make(map[string]error),
		icons:      make(map[string]bool),
		history:    make(map[string][]models.VersionHistoryEntry),
		historyErr: make(map[string]error),
	}
}

// publish adds a package whose latest version has the given distributions
func (f *fakeRegistry) publish(name, version string, downloads int, dists ...models.Distribution) {
	f.summaries = append(f.summaries, registry.Summary{
		Name:          name,
		Version:       version,
		Authors:       "Unit Tester",
		DownloadCount: downloads,
	})
	f.details[name+"@"+version] = &registry.VersionDetail{
		CreatedAt:     time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
		Version:       version,
		Description:   name + " description",
		Distributions: dists,
		Keywords:      []string{"test", "unit"},
	}
	f.owners[name] = []models.Owner{{ID: 1, Name: "Owner One"}}
	f.history[name] = []models.VersionHistoryEntry{{Version: version, Distributions: dists}}
}

// setDownloads changes the download count the listing reports for name
func (f *fakeRegistry) setDownloads(name string, downloads int) {
	for i := range f.summaries {
		if f.summaries[i].Name == name {
			f.summaries[i].DownloadCount = downloads
		}
	}
}

func (f *fakeRegistry) FetchSummaries(ctx context.Context) ([]registry.Summary, error) {
	if f.summariesErr != nil {
		return nil, f.summariesErr
	}
	return append([]registry.Summary(nil), f.summaries...), nil
}

func (f *fakeRegistry) FetchVersionDetail(ctx context.Context, id, version string) (*registry.VersionDetail, error) {
	detail, ok := f.details[id+"@"+version]
	if !ok {
		return nil, &models.SyncError{Type: models.ErrMissingVersion, Package: id, Err: fmt.Errorf("version %s not found", version)}
	}
	copied := *detail
	return &copied, nil
}

func (f *fakeRegistry) FetchOwners(ctx context.Context, id string) ([]models.Owner, error) {
	if err := f.ownersErr[id]; err != nil {
		return nil, &models.SyncError{Type: models.ErrTransport, Package: id, Err: err}
	}
	return f.owners[id], nil
}

func (f *fakeRegistry) FetchVersionHistory(ctx context.Context, id string) ([]models.VersionHistoryEntry, error) {
	if err := f.historyErr[id]; err != nil {
		return nil, &models.SyncError{Type: models.ErrTransport, Package: id, Err: err}
	}
	return f.history[id], nil
}

func (f *fakeRegistry) IconExists(ctx context.Context, id, version string) (bool, error) {
	return f.icons[id], nil
}

func (f *fakeRegistry) IconURL(id, version string) string {
	return "https://yak.test/versions/" + id + "/" + version + "/_icon"
}

type fakeInspector struct {
	flags map[string]models.Filters
	errs  map[string]error
	calls []string
}

func newFakeInspector() *fakeInspector {
	return &fakeInspector{
		flags: make(map[string]models.Filters),
		errs:  make(map[string]error),
	}
}

func (f *fakeInspector) Inspect(ctx context.Context, url string) (models.Filters, error) {
	f.calls = append(f.calls, url)
	if err := f.errs[url]; err != nil {
		return models.None, &models.SyncError{Type: models.ErrArchive, Err: err}
	}
	return f.flags[url], nil
}

type fakeHistory struct {
	written map[string][]models.VersionHistoryEntry
	errs    map[string]error
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{
		written: make(map[string][]models.VersionHistoryEntry),
		errs:    make(map[string]error),
	}
}

func (f *fakeHistory) WriteHistory(id string, entries []models.VersionHistoryEntry) error {
	if err := f.errs[id]; err != nil {
		return err
	}
	f.written[id] = entries
	return nil
}

// memoryCatalog is an in-memory catalog that counts saves
type memoryCatalog struct {
	catalog models.Catalog
	saves   int
}

func (m *memoryCatalog) Load() models.Catalog {
	return append(models.Catalog{}, m.catalog...)
}

func (m *memoryCatalog) Merge(snapshot models.Catalog, actions []models.UpdateAction) (models.Catalog, error) {
	merged := append(models.Catalog{}, snapshot...)
	for _, a := range actions {
		if i, ok := merged.Index()[a.Package.ID]; ok && a.Kind == models.Update {
			merged[i] = a.Package
			continue
		}
		merged = append(merged, a.Package)
	}
	return merged, nil
}

func (m *memoryCatalog) Save(catalog models.Catalog) error {
	m.catalog = catalog
	m.saves++
	return nil
}
