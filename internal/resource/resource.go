// Package resource binds the remote rest/taxis collection to client-side
// CRUD operations and holds the shared Collection of the last list query.
package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/VoxDroid/taxis/internal/taxi"
)

// DefaultPath is the collection path relative to the application base URL.
const DefaultPath = "rest/taxis"

// RequestIDHeader carries a per-request id so client and server logs line up.
const RequestIDHeader = "X-Request-ID"

// Resource is a typed client for rest/taxis/:taxiId.
type Resource struct {
	endpoint *url.URL
	client   *http.Client
	logger   *slog.Logger
	data     *Collection
}

// Option configures a Resource.
type Option func(*Resource)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resource) { r.client = c }
}

// WithTimeout sets a per-request timeout on a private HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(r *Resource) { r.client = &http.Client{Timeout: d} }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resource) { r.logger = l }
}

// New returns a Resource for the application rooted at baseURL, e.g.
// "http://localhost:8080/". The collection lives at baseURL + rest/taxis.
func New(baseURL string, opts ...Option) (*Resource, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	r := &Resource{
		endpoint: base.ResolveReference(&url.URL{Path: DefaultPath}),
		client:   http.DefaultClient,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.data == nil {
		r.data = NewCollection()
	}
	return r, nil
}

// Endpoint returns the collection URL.
func (r *Resource) Endpoint() string { return r.endpoint.String() }

// Data returns the shared collection filled by List.
func (r *Resource) Data() *Collection { return r.data }

// List fetches every taxi and, on success, replaces the shared collection.
func (r *Resource) List(ctx context.Context) ([]taxi.Taxi, error) {
	var out []taxi.Taxi
	if err := r.do(ctx, http.MethodGet, r.endpoint.String(), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []taxi.Taxi{}
	}
	r.data.Replace(out)
	return out, nil
}

// Query is the callback form of List. Exactly one of onSuccess or onError is
// called, exactly once, before Query returns. Either callback may be nil.
func (r *Resource) Query(ctx context.Context, onSuccess func([]taxi.Taxi), onError func(*ErrorList)) {
	items, err := r.List(ctx)
	if err != nil {
		if onError != nil {
			onError(AsErrorList(err))
		}
		return
	}
	if onSuccess != nil {
		onSuccess(items)
	}
}

// Get fetches a single taxi.
func (r *Resource) Get(ctx context.Context, id taxi.ID) (*taxi.Taxi, error) {
	var out taxi.Taxi
	if err := r.do(ctx, http.MethodGet, r.itemURL(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create persists a new taxi and returns it with its server-assigned id.
func (r *Resource) Create(ctx context.Context, t taxi.Taxi) (*taxi.Taxi, error) {
	var out taxi.Taxi
	if err := r.do(ctx, http.MethodPost, r.endpoint.String(), t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Save is Create under the resource's verb name.
func (r *Resource) Save(ctx context.Context, t taxi.Taxi) (*taxi.Taxi, error) {
	return r.Create(ctx, t)
}

// Replace overwrites the taxi stored under id with t.
func (r *Resource) Replace(ctx context.Context, id taxi.ID, t taxi.Taxi) (*taxi.Taxi, error) {
	if id == 0 {
		return nil, &ErrorList{Entries: []string{"cannot replace a taxi without an id"}}
	}
	t.ID = id
	var out taxi.Taxi
	if err := r.do(ctx, http.MethodPut, r.itemURL(id), t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the stored taxi identified by t.ID.
func (r *Resource) Update(ctx context.Context, t taxi.Taxi) (*taxi.Taxi, error) {
	return r.Replace(ctx, t.ID, t)
}

// Remove deletes the taxi stored under id.
func (r *Resource) Remove(ctx context.Context, id taxi.ID) error {
	return r.do(ctx, http.MethodDelete, r.itemURL(id), nil, nil)
}

func (r *Resource) itemURL(id taxi.ID) string {
	return r.endpoint.JoinPath(id.String()).String()
}

// do performs one request. Every failure, including transport and decode
// errors, comes back as *ErrorList.
func (r *Resource) do(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &ErrorList{Entries: []string{fmt.Sprintf("encode request: %v", err)}}
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &ErrorList{Entries: []string{fmt.Sprintf("build request: %v", err)}}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("taxi request failed", "method", method, "url", target, "request_id", reqID, "error", err)
		return &ErrorList{Entries: []string{err.Error()}}
	}
	defer func() { _ = resp.Body.Close() }()

	r.logger.Debug("taxi request",
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start).String(),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ErrorList{Status: resp.StatusCode, Entries: []string{fmt.Sprintf("read response: %v", err)}}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeErrorList(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ErrorList{Status: resp.StatusCode, Entries: []string{fmt.Sprintf("decode response: %v", err)}}
	}
	return nil
}
