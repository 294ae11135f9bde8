// Package gateway wraps the remote collection service's HTTP API. Every
// call is bounded by a timeout and returns a classified error; the
// gateway itself never writes the local cache.
package gateway

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
	"github.com/inovacc/worklog/internal/model"
)

const defaultTimeout = 8 * time.Second

// Gateway is a client for the remote collection service.
type Gateway struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// Options configures the gateway.
type Options struct {
	// Timeout bounds every request, including body read. Zero means the
	// default of 8 seconds.
	Timeout time.Duration
	Logger  *slog.Logger
}

// ListOptions configures a collection fetch.
type ListOptions struct {
	// BypassCache defeats transport-level caching: the request carries
	// no-cache directives and a unique query token.
	BypassCache bool
}

// New creates a gateway for the collection service at baseURL.
func New(baseURL string, opts Options) (*Gateway, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("server base URL is required")
	}

	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid server base URL %q: %w", baseURL, err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Gateway{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

// List fetches the complete collection for the entity type and returns
// it as a raw JSON array. The server wraps every collection in an
// envelope keyed by the collection name; a missing key is an empty
// collection, which is a legitimate state and not an error.
func (g *Gateway) List(ctx context.Context, et model.EntityType, opts ListOptions) ([]byte, error) {
	op := fmt.Sprintf("list %s", et)

	reqURL := g.baseURL + "/api/" + string(et)
	if opts.BypassCache {
		reqURL += "?nocache=" + uuid.NewString()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if opts.BypassCache {
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("Pragma", "no-cache")
	}

	body, err := g.do(op, req)
	if err != nil {
		return nil, err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}

	collection, ok := envelope[string(et)]
	if !ok {
		return []byte("[]"), nil
	}

	return collection, nil
}

// Create persists a new entity and returns the stored record, including
// the server-assigned id.
func (g *Gateway) Create(ctx context.Context, et model.EntityType, payload any) (json.RawMessage, error) {
	op := fmt.Sprintf("create %s", et)

	return g.mutate(ctx, op, http.MethodPost, g.baseURL+"/api/"+string(et), payload)
}

// Update patches an entity by id and returns the stored record.
func (g *Gateway) Update(ctx context.Context, et model.EntityType, id string, patch any) (json.RawMessage, error) {
	op := fmt.Sprintf("update %s", et)

	return g.mutate(ctx, op, http.MethodPut, g.baseURL+"/api/"+string(et)+"/"+url.PathEscape(id), patch)
}

// Delete removes an entity by id.
func (g *Gateway) Delete(ctx context.Context, et model.EntityType, id string) error {
	op := fmt.Sprintf("delete %s", et)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, g.baseURL+"/api/"+string(et)+"/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = g.do(op, req)

	return err
}

// Health checks the service's health endpoint.
func (g *Gateway) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}

	_, err = g.do("health", req)

	return err
}

func (g *Gateway) mutate(ctx context.Context, op, method, reqURL string, payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := g.do(op, req)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, &DecodeError{Op: op, Err: fmt.Errorf("invalid JSON body")}
	}

	return json.RawMessage(body), nil
}

// do executes the request and returns the response body. Failures are
// classified: transport errors become NetworkError, non-2xx statuses
// become StatusError. The body is always drained and closed.
func (g *Gateway) do(op string, req *http.Request) ([]byte, error) {
	g.logger.Debug("remote request",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
	)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, URL: req.URL.String(), Err: err}
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Op: op, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, URL: req.URL.String(), Err: err}
	}

	return body, nil
}
