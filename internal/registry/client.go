package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ralt/rhinopackages/internal/models"
)

const (
	// DefaultBaseURL is the public Yak registry
	DefaultBaseURL = "https://yak.rhino3d.com"
	// DefaultTimeout bounds every registry call
	DefaultTimeout = 60 * time.Second

	iconPath = "/versions/{id}/{version}/_icon"
)

// Client is a typed wrapper over the registry's HTTP endpoints
type Client struct {
	baseURL string
	http    *resty.Client
}

// NewClient creates a registry client for baseURL
func NewClient(baseURL string, timeout time.Duration, userAgent string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if userAgent != "" {
		httpClient.SetHeader("User-Agent", userAgent)
	}

	return &Client{
		baseURL: baseURL,
		http:    httpClient,
	}
}

// HTTP returns the underlying HTTP client so artifact downloads share its transport
func (c *Client) HTTP() *resty.Client {
	return c.http
}

// FetchSummaries lists every published package, prereleases included
func (c *Client) FetchSummaries(ctx context.Context) ([]Summary, error) {
	var summaries []Summary
	if err := c.getJSON(ctx, "", "/packages", nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// FetchVersionDetail fetches the metadata of one version.
// A version the registry does not know yields a MissingVersion error.
func (c *Client) FetchVersionDetail(ctx context.Context, id, version string) (*VersionDetail, error) {
	params := map[string]string{"id": id, "version": version}

	var v wireVersion
	if err := c.getJSON(ctx, id, "/versions/{id}/{version}", params, &v); err != nil {
		return nil, err
	}
	if v.Version == "" {
		v.Version = version
	}
	return v.detail(), nil
}

// FetchOwners lists the owners of a package
func (c *Client) FetchOwners(ctx context.Context, id string) ([]models.Owner, error) {
	owners := []models.Owner{}
	if err := c.getJSON(ctx, id, "/packages/{id}/owners", map[string]string{"id": id}, &owners); err != nil {
		return nil, err
	}
	if owners == nil {
		owners = []models.Owner{}
	}
	return owners, nil
}

// FetchVersionHistory lists every release of a package, newest first
func (c *Client) FetchVersionHistory(ctx context.Context, id string) ([]models.VersionHistoryEntry, error) {
	var versions []wireVersion
	if err := c.getJSON(ctx, id, "/versions/{id}", map[string]string{"id": id}, &versions); err != nil {
		return nil, err
	}

	entries := make([]models.VersionHistoryEntry, 0, len(versions))
	for _, v := range versions {
		entries = append(entries, v.historyEntry())
	}
	return entries, nil
}

// IconExists probes whether a version has a custom icon.
// The response body is never read.
func (c *Client) IconExists(ctx context.Context, id, version string) (bool, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"id": id, "version": version}).
		SetDoNotParseResponse(true).
		Get(iconPath)
	if err != nil {
		return false, &models.SyncError{
			Type:    models.ErrTransport,
			Package: id,
			Err:     fmt.Errorf("icon probe failed: %w", err),
		}
	}
	if body := resp.RawBody(); body != nil {
		body.Close()
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return false, nil
	case resp.IsSuccess():
		return true, nil
	default:
		return false, &models.SyncError{
			Type:    models.ErrTransport,
			Package: id,
			Err:     fmt.Errorf("icon probe returned status %d", resp.StatusCode()),
		}
	}
}

// IconURL returns the canonical icon location of a version
func (c *Client) IconURL(id, version string) string {
	r := strings.NewReplacer("{id}", url.PathEscape(id), "{version}", url.PathEscape(version))
	return c.baseURL + r.Replace(iconPath)
}

// getJSON performs a GET request and decodes a JSON body into target
func (c *Client) getJSON(ctx context.Context, pkg, path string, params map[string]string, target any) error {
	req := c.http.R().SetContext(ctx)
	if params != nil {
		req.SetPathParams(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		return &models.SyncError{
			Type:    models.ErrTransport,
			Package: pkg,
			Err:     fmt.Errorf("GET %s: %w", path, err),
		}
	}

	if resp.StatusCode() == http.StatusNotFound && params["version"] != "" {
		return &models.SyncError{
			Type:    models.ErrMissingVersion,
			Package: pkg,
			Err:     fmt.Errorf("version %s not found", params["version"]),
		}
	}

	if !resp.IsSuccess() {
		return &models.SyncError{
			Type:    models.ErrTransport,
			Package: pkg,
			Err:     fmt.Errorf("GET %s returned status %d", resp.Request.URL, resp.StatusCode()),
		}
	}

	if err := json.Unmarshal(resp.Body(), target); err != nil {
		return &models.SyncError{
			Type:    models.ErrParse,
			Package: pkg,
			Err:     fmt.Errorf("decoding %s: %w", resp.Request.URL, err),
		}
	}

	return nil
}
