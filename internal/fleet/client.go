package fleet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/routewatch/internal/route"
)

// ErrNotFound is returned when the backend answers 404.
var ErrNotFound = errors.New("not found")

// StatusError is returned for any other HTTP status of 400 and above.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// Fetcher is the snapshot source the schedulers poll. *Client implements it.
type Fetcher interface {
	FetchRoutes(ctx context.Context) ([]route.Route, error)
	FetchRoute(ctx context.Context, slug string) (route.Route, error)
}

var _ Fetcher = (*Client)(nil)

// Client talks to the fleet HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     string
	logger    *zap.Logger
}

const (
	defaultAPIURL    = "127.0.0.1:8080"
	defaultUserAgent = "routewatch/dev"
	requestTimeout   = 5 * time.Second
)

// Options tune a Client. The zero value is usable.
type Options struct {
	Token     string
	UserAgent string
	Timeout   time.Duration
	Logger    *zap.Logger
}

// NewClient builds a Client for the API at apiURL (host:port or full URL).
func NewClient(apiURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
		token:     strings.TrimSpace(opts.Token),
		logger:    logger.Named("fleet"),
	}, nil
}

type routesResponse struct {
	Routes []json.RawMessage `json:"routes"`
}

// FetchRoutes retrieves the full route collection. Records that fail to
// decode are logged and left out.
func (c *Client) FetchRoutes(ctx context.Context) ([]route.Route, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload routesResponse
	if err := c.do(ctx, &url.URL{Path: "/api/routes"}, &payload); err != nil {
		return nil, err
	}
	routes, skipped := route.DecodeAll(payload.Routes)
	for _, derr := range skipped {
		c.logger.Warn("skipping malformed route",
			zap.Int("index", derr.Index),
			zap.String("id", derr.ID),
			zap.Error(derr.Err))
	}
	return routes, nil
}

// FetchRoute retrieves one route by slug.
func (c *Client) FetchRoute(ctx context.Context, slug string) (route.Route, error) {
	if c == nil {
		return route.Route{}, fmt.Errorf("client is nil")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return route.Route{}, fmt.Errorf("route slug required")
	}
	var raw json.RawMessage
	// RawPath keeps a "/" inside the slug escaped as one path segment.
	ref := &url.URL{
		Path:    "/api/routes/" + slug,
		RawPath: "/api/routes/" + url.PathEscape(slug),
	}
	if err := c.do(ctx, ref, &raw); err != nil {
		return route.Route{}, err
	}
	r, err := route.Decode(raw)
	if err != nil {
		return route.Route{}, fmt.Errorf("route %s: %w", slug, err)
	}
	return r, nil
}

func (c *Client) do(ctx context.Context, ref *url.URL, dest any) error {
	path := ref.EscapedPath()
	reqURL := c.baseURL.ResolveReference(ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("api %s: %w", path, ErrNotFound)
	case resp.StatusCode >= 400:
		return &StatusError{Path: path, Code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
