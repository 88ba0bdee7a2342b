// Package backend is the REST client for the property analysis API. All
// analysis, alerting and ads-sync logic lives behind it.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/pkg/metrics"
	"github.com/samirrijal/evoteli/internal/pkg/telemetry"
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Unwrap maps 404 and 422 onto the domain sentinels.
func (e *StatusError) Unwrap() error {
	switch e.Status {
	case fasthttp.StatusNotFound:
		return domain.ErrNotFound
	case fasthttp.StatusBadRequest, fasthttp.StatusUnprocessableEntity:
		return domain.ErrInvalid
	}
	return nil
}

// Client talks to the analysis backend. It implements ports.PropertyBackend,
// ports.AudienceBackend, ports.SavedSearchBackend and ports.TerritoryBackend.
type Client struct {
	base    string
	token   string
	timeout time.Duration
	http    *fasthttp.Client
}

// New creates a client for the backend at baseURL.
func New(baseURL, token string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend base url %q: invalid", baseURL)
	}
	return &Client{
		base:    strings.TrimRight(baseURL, "/"),
		token:   token,
		timeout: timeout,
		http: &fasthttp.Client{
			Name:                "evoteli",
			MaxConnsPerHost:     64,
			MaxIdleConnDuration: 30 * time.Second,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
		},
	}, nil
}

// Ping checks that the backend answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, fasthttp.MethodGet, "/health", nil, nil, nil)
}

// --- Properties ---

// SearchProperties runs a filtered property search.
func (c *Client) SearchProperties(ctx context.Context, f domain.PropertyFilters) (*domain.PropertySearchResponse, error) {
	var out domain.PropertySearchResponse
	if err := c.do(ctx, fasthttp.MethodPost, "/api/properties/search", nil, f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProperty fetches one property with its embedded analyses.
func (c *Client) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	var out domain.Property
	if err := c.do(ctx, fasthttp.MethodGet, "/api/properties/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRoofIQ fetches the roof condition analysis of a property.
func (c *Client) GetRoofIQ(ctx context.Context, propertyID string) (*domain.RoofIQData, error) {
	var out domain.RoofIQData
	if err := c.do(ctx, fasthttp.MethodGet, "/api/properties/"+url.PathEscape(propertyID)+"/roofiq", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSolarFit fetches the solar suitability analysis of a property.
func (c *Client) GetSolarFit(ctx context.Context, propertyID string) (*domain.SolarFitData, error) {
	var out domain.SolarFitData
	if err := c.do(ctx, fasthttp.MethodGet, "/api/properties/"+url.PathEscape(propertyID)+"/solarfit", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDrivewayPro fetches the driveway condition analysis of a property.
func (c *Client) GetDrivewayPro(ctx context.Context, propertyID string) (*domain.DrivewayData, error) {
	var out domain.DrivewayData
	if err := c.do(ctx, fasthttp.MethodGet, "/api/properties/"+url.PathEscape(propertyID)+"/drivewaypro", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPermitScope fetches the building permit summary of a property.
func (c *Client) GetPermitScope(ctx context.Context, propertyID string) (*domain.PermitScopeData, error) {
	var out domain.PermitScopeData
	if err := c.do(ctx, fasthttp.MethodGet, "/api/properties/"+url.PathEscape(propertyID)+"/permitscope", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Audiences ---

// ListAudiences returns every audience of the account.
func (c *Client) ListAudiences(ctx context.Context) ([]domain.Audience, error) {
	var out []domain.Audience
	if err := c.do(ctx, fasthttp.MethodGet, "/api/audiences", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAudience fetches one audience.
func (c *Client) GetAudience(ctx context.Context, id string) (*domain.Audience, error) {
	var out domain.Audience
	if err := c.do(ctx, fasthttp.MethodGet, "/api/audiences/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAudience stores a new audience.
func (c *Client) CreateAudience(ctx context.Context, in domain.AudienceCreate) (*domain.Audience, error) {
	var out domain.Audience
	if err := c.do(ctx, fasthttp.MethodPost, "/api/audiences", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAudience applies a partial update.
func (c *Client) UpdateAudience(ctx context.Context, id string, in domain.AudienceUpdate) (*domain.Audience, error) {
	var out domain.Audience
	if err := c.do(ctx, fasthttp.MethodPatch, "/api/audiences/"+url.PathEscape(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAudience removes an audience.
func (c *Client) DeleteAudience(ctx context.Context, id string) error {
	return c.do(ctx, fasthttp.MethodDelete, "/api/audiences/"+url.PathEscape(id), nil, nil, nil)
}

// SyncAudience pushes an audience to Google Ads and returns the sync outcome.
func (c *Client) SyncAudience(ctx context.Context, id string) (*domain.AudienceSync, error) {
	var out domain.AudienceSync
	if err := c.do(ctx, fasthttp.MethodPost, "/api/v1/google-ads/audiences/"+url.PathEscape(id)+"/sync", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Saved searches ---

// ListSavedSearches returns one page of saved searches.
func (c *Client) ListSavedSearches(ctx context.Context, p domain.ListParams) (*domain.SavedSearchList, error) {
	var out domain.SavedSearchList
	if err := c.do(ctx, fasthttp.MethodGet, "/api/v1/saved-searches", listQuery(p), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSavedSearch fetches a saved search, optionally with its alert history.
func (c *Client) GetSavedSearch(ctx context.Context, id string, includeAlerts bool) (*domain.SavedSearch, error) {
	q := url.Values{"include_alerts": {strconv.FormatBool(includeAlerts)}}
	var out domain.SavedSearch
	if err := c.do(ctx, fasthttp.MethodGet, "/api/v1/saved-searches/"+url.PathEscape(id), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSavedSearch stores a new saved search.
func (c *Client) CreateSavedSearch(ctx context.Context, in domain.SavedSearchCreate) (*domain.SavedSearch, error) {
	var out domain.SavedSearch
	if err := c.do(ctx, fasthttp.MethodPost, "/api/v1/saved-searches", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSavedSearch applies a partial update.
func (c *Client) UpdateSavedSearch(ctx context.Context, id string, in domain.SavedSearchUpdate) (*domain.SavedSearch, error) {
	var out domain.SavedSearch
	if err := c.do(ctx, fasthttp.MethodPatch, "/api/v1/saved-searches/"+url.PathEscape(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSavedSearch removes a saved search and its alert history.
func (c *Client) DeleteSavedSearch(ctx context.Context, id string) error {
	return c.do(ctx, fasthttp.MethodDelete, "/api/v1/saved-searches/"+url.PathEscape(id), nil, nil, nil)
}

// SendTestAlert emails a sample alert. An empty recipient leaves the choice to the backend.
func (c *Client) SendTestAlert(ctx context.Context, id, recipient string) (*domain.TestAlertResult, error) {
	body := map[string]any{"recipient_email": nil}
	if recipient != "" {
		body["recipient_email"] = recipient
	}
	var out domain.TestAlertResult
	if err := c.do(ctx, fasthttp.MethodPost, "/api/v1/saved-searches/"+url.PathEscape(id)+"/test-alert", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAlerts returns a page of the alerts sent for a saved search, newest first.
func (c *Client) ListAlerts(ctx context.Context, id string, p domain.ListParams) ([]domain.SearchAlert, error) {
	q := url.Values{"skip": {strconv.Itoa(p.Skip)}}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	var out []domain.SearchAlert
	if err := c.do(ctx, fasthttp.MethodGet, "/api/v1/saved-searches/"+url.PathEscape(id)+"/alerts", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEmailPreferences fetches the account's email settings.
func (c *Client) GetEmailPreferences(ctx context.Context) (*domain.EmailPreferences, error) {
	var out domain.EmailPreferences
	if err := c.do(ctx, fasthttp.MethodGet, "/api/v1/saved-searches/preferences/email", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEmailPreferences applies a partial update to the account's email settings.
func (c *Client) UpdateEmailPreferences(ctx context.Context, in domain.EmailPreferencesUpdate) (*domain.EmailPreferences, error) {
	var out domain.EmailPreferences
	if err := c.do(ctx, fasthttp.MethodPatch, "/api/v1/saved-searches/preferences/email", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Territories ---

// ListTerritories returns one page of saved territories.
func (c *Client) ListTerritories(ctx context.Context, p domain.ListParams) (*domain.TerritoryList, error) {
	var out domain.TerritoryList
	if err := c.do(ctx, fasthttp.MethodGet, "/api/v1/territories", listQuery(p), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTerritory fetches one saved territory.
func (c *Client) GetTerritory(ctx context.Context, id string) (*domain.Territory, error) {
	var out domain.Territory
	if err := c.do(ctx, fasthttp.MethodGet, "/api/v1/territories/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTerritory stores a new territory.
func (c *Client) CreateTerritory(ctx context.Context, in domain.TerritoryCreate) (*domain.Territory, error) {
	var out domain.Territory
	if err := c.do(ctx, fasthttp.MethodPost, "/api/v1/territories", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTerritory applies a partial update.
func (c *Client) UpdateTerritory(ctx context.Context, id string, in domain.TerritoryUpdate) (*domain.Territory, error) {
	var out domain.Territory
	if err := c.do(ctx, fasthttp.MethodPatch, "/api/v1/territories/"+url.PathEscape(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTerritory removes a territory.
func (c *Client) DeleteTerritory(ctx context.Context, id string) error {
	return c.do(ctx, fasthttp.MethodDelete, "/api/v1/territories/"+url.PathEscape(id), nil, nil, nil)
}

// CountTerritoryProperties counts the properties inside a territory.
func (c *Client) CountTerritoryProperties(ctx context.Context, id string) (*domain.TerritoryPropertyCount, error) {
	var out domain.TerritoryPropertyCount
	if err := c.do(ctx, fasthttp.MethodGet, "/api/v1/territories/"+url.PathEscape(id)+"/properties/count", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func listQuery(p domain.ListParams) url.Values {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(p.Skip))
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.ActiveOnly {
		q.Set("active_only", "true")
	}
	return q
}

// do sends one request. in is JSON-encoded as the body when non-nil; out, when
// non-nil, receives the decoded response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) (err error) {
	ctx, span := otel.Tracer(telemetry.TracerBackend).Start(ctx, method+" "+path)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	uri := c.base + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if c.token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+c.token)
	}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(body)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	err = c.http.DoDeadline(req, resp, deadline)
	status := resp.StatusCode()
	label := strconv.Itoa(status)
	if err != nil {
		label = "error"
	}
	metrics.BackendRequestDuration.WithLabelValues(method, label).Observe(time.Since(start).Seconds())
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.Int("http.status_code", status),
	)
	if err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}

	if status < 200 || status >= 300 {
		body := resp.Body()
		if len(body) > 512 {
			body = body[:512]
		}
		return &StatusError{Method: method, Path: path, Status: status, Body: string(body)}
	}
	if out == nil || status == fasthttp.StatusNoContent || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
