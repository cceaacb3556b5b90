package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ralt/rhinopackages/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) *Client {
	t.Helper()

	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return NewClient(server.URL+"/", 5*time.Second, "rhinopackages-test")
}

func jsonBody(body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func status(code int) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}
}

func TestFetchSummaries(t *testing.T) {
	client := newTestRegistry(t, map[string]func(http.ResponseWriter, *http.Request){
		"/packages": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "rhinopackages-test", r.Header.Get("User-Agent"))
			jsonBody(`[
				{"authors": "Unit Tester", "download_count": 42, "name": "UnitTestPackage", "version": "1.2.3"},
				{"authors": "Someone", "download_count": 7, "name": "Beta", "version": "0.1.0-beta"}
			]`)(w, r)
		},
	})

	summaries, err := client.FetchSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, Summary{Name: "UnitTestPackage", Version: "1.2.3", Authors: "Unit Tester", DownloadCount: 42}, summaries[0])
	assert.Equal(t, "Beta", summaries[1].Name)
}

func TestFetchSummariesFailures(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		client := newTestRegistry(t, map[string]func(http.ResponseWriter, *http.Request){
			"/packages": status(http.StatusInternalServerError),
		})
		_, err := client.FetchSummaries(context.Background())
		require.Error(t, err)
		typ, ok := models.ErrorTypeOf(err)
		require.True(t, ok)
		assert.Equal(t, models.ErrTransport, typ)
	})

	t.Run("parse", func(t *testing.T) {
		client := newTestRegistry(t, map[string]func(http.ResponseWriter, *http.Request){
			"/packages": jsonBody(`{not json`),
		})
		_, err := client.FetchSummaries(context.Background())
		require.Error(t, err)
		typ, ok := models.ErrorTypeOf(err)
		require.True(t, ok)
		assert.Equal(t, models.ErrParse, typ)
	})
}

func TestFetchVersionDetail(t *testing.T) {
	client := newTestRegistry(t, map[string]func(http.ResponseWriter, *http.Request){
		"/versions/UnitTestPackage/1.2.3": jsonBody(`{
			"created_at": "2026-02-20T00:00:00Z",
			"description": "Test package",
			"distributions": [
				{
					"filename": "UnitTestPackage-1.2.3-rh8_0-win.yak",
					"platform": "win",
					"rhino_version": "rh8_0",
					"url": "https://files.example.test/unit-test-package.yak"
				}
			],
			"homepage_url": "https://example.test",
			"keywords": ["test", "unit"],
			"prerelease": false
		}`),
	})

	detail, err := client.FetchVersionDetail(context.Background(), "UnitTestPackage", "1.2.3")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC), detail.CreatedAt.UTC())
	assert.Equal(t, "1.2.3", detail.Version)
	assert.Equal(t, "Test package", detail.Description)
	require.NotNil(t, detail.HomepageURL)
	assert.Equal(t, "https://example.test", *detail.HomepageURL)
	assert.Equal(t, []string{"test", "unit"}, detail.Keywords)
	assert.Equal(t, []models.Distribution{{
		Filename:     "UnitTestPackage-1.2.3-rh8_0-win.yak",
		Platform:     "win",
		RhinoVersion: "rh8_0",
		URL:          "https://files.example.test/unit-test-package.yak",
	}}, detail.Distributions)
}

func TestFetchVersionDetailMissing(t *testing.T) {
	client := newTestRegistry(t, map[string]func(http.ResponseWriter, *http.Request){
		"/versions/Gone/1.0.0": status(http.StatusNotFound),
	})

	_, err := client.FetchVersionDetail(context.Background(), "Gone", "1.0.0")
	require.Error(t, err)
	assert.True(t, models.IsMissingVersion(err))
}

func TestFetchOwners(t *testing.T) {
	client := newTestRegistry(t, map[string]func(http.ResponseWriter, *http.Request){
		"/packages/WithOwners/owners": jsonBody(`[{"id": 1, "name": "Owner One"}, {"id": 2, "name": "Owner Two"}]`),
		"/packages/Orphan/owners":     jsonBody(`null`),
	})

	owners, err := client.FetchOwners(context.Background(), "WithOwners")
	require.NoError(t, err)
	assert.Equal(t, []models.Owner{{ID: 1, Name: "Owner One"}, {ID: 2, Name: "Owner Two"}}, owners)

	owners, err = client.FetchOwners(context.Background(), "Orphan")
	require.NoError(t, err)
	assert.NotNil(t, owners)
	assert.Empty(t, owners)
}

func TestFetchVersionHistoryKeepsOrder(t *testing.T) {
	client := newTestRegistry(t, map[string]func(http.ResponseWriter, *http.Request){
		"/versions/Pkg": jsonBody(`[
			{"created_at": "2026-02-20T00:00:00Z", "version": "2.0.0", "distributions": [], "prerelease": false},
			{"created_at": "2026-03-01T00:00:00Z", "version": "2.1.0-rc1", "distributions": [
				{"filename": "a.yak", "platform": "mac", "rhino_version": "rh7_0", "url": "https://x/a.yak"}
			], "prerelease": true},
			{"created_at": "2025-01-01T00:00:00Z", "version": "1.0.0", "distributions": [], "prerelease": false}
		]`),
	})

	entries, err := client.FetchVersionHistory(context.Background(), "Pkg")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2.0.0", entries[0].Version)
	assert.Equal(t, "2.1.0-rc1", entries[1].Version)
	assert.True(t, entries[1].Prerelease)
	assert.Equal(t, "rh7_0", entries[1].Distributions[0].RhinoVersion)
	assert.Equal(t, "1.0.0", entries[2].Version)
}

func TestIconExists(t *testing.T) {
	client := newTestRegistry(t, map[string]func(http.ResponseWriter, *http.Request){
		"/versions/WithIcon/1.0.0/_icon":    status(http.StatusOK),
		"/versions/WithoutIcon/1.0.0/_icon": status(http.StatusNotFound),
		"/versions/Broken/1.0.0/_icon":      status(http.StatusBadGateway),
	})
	ctx := context.Background()

	exists, err := client.IconExists(ctx, "WithIcon", "1.0.0")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.IconExists(ctx, "WithoutIcon", "1.0.0")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = client.IconExists(ctx, "Broken", "1.0.0")
	require.Error(t, err)
	assert.False(t, models.IsMissingVersion(err))
}

func TestIconURL(t *testing.T) {
	client := NewClient("https://yak.rhino3d.com/", 0, "")
	assert.Equal(t, "https://yak.rhino3d.com/versions/Pkg/1.0.0/_icon", client.IconURL("Pkg", "1.0.0"))
	assert.Equal(t, "https://yak.rhino3d.com/versions/My%20Pkg/1.0.0/_icon", client.IconURL("My Pkg", "1.0.0"))
}
