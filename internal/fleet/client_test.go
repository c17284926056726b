package fleet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/five82/routewatch/internal/route"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIURL {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIURL)
	}

	u, err = parseBaseURL("https://fleet.example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) (*Client, context.Context) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, opts)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c, ctx
}

func TestClient_FetchRoutesSkipsMalformed(t *testing.T) {
	t.Parallel()

	var gotHeaders http.Header
	c, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/routes" {
			http.NotFound(w, r)
			return
		}
		gotHeaders = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"routes":[
			{"id":"r1","slug":"north","reference":"N-1","status":"in-progress","criticality":"HIGH"},
			{"slug":"no-id","status":"completed"},
			{"id":"r3","status":"teleporting"},
			{"id":"r4","reference":"S-4","status":"completed"}
		]}`))
	}, Options{Token: "secret", UserAgent: "routewatch/test"})

	routes, err := c.FetchRoutes(ctx)
	if err != nil {
		t.Fatalf("FetchRoutes returned error: %v", err)
	}
	if len(routes) != 2 || routes[0].ID != "r1" || routes[1].ID != "r4" {
		t.Fatalf("FetchRoutes = %#v, want r1 and r4", routes)
	}
	if routes[0].Criticality != route.CriticalityHigh {
		t.Fatalf("criticality = %q, want high", routes[0].Criticality)
	}

	if got := gotHeaders.Get("User-Agent"); got != "routewatch/test" {
		t.Fatalf("User-Agent = %q", got)
	}
	if got := gotHeaders.Get("Accept"); got != "application/json" {
		t.Fatalf("Accept = %q", got)
	}
	if got := gotHeaders.Get("Authorization"); got != "Bearer secret" {
		t.Fatalf("Authorization = %q", got)
	}
	if _, err := uuid.Parse(gotHeaders.Get("X-Request-ID")); err != nil {
		t.Fatalf("X-Request-ID %q is not a uuid: %v", gotHeaders.Get("X-Request-ID"), err)
	}
}

func TestClient_NoTokenNoAuthorization(t *testing.T) {
	t.Parallel()

	var auth []string
	c, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Values("Authorization")
		_, _ = w.Write([]byte(`{"routes":[]}`))
	}, Options{})

	routes, err := c.FetchRoutes(ctx)
	if err != nil {
		t.Fatalf("FetchRoutes returned error: %v", err)
	}
	if len(routes) != 0 {
		t.Fatalf("FetchRoutes = %d routes, want 0", len(routes))
	}
	if len(auth) != 0 {
		t.Fatalf("Authorization sent without a token: %v", auth)
	}
}

func TestClient_FetchRoute(t *testing.T) {
	t.Parallel()

	var gotPath string
	c, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		switch r.URL.Path {
		case "/api/routes/north":
			_, _ = w.Write([]byte(`{"id":"r1","slug":"north","status":"not-started",
				"stops":[{"id":"s1","status":"completed"},{"id":"s2","status":"pending"}]}`))
		case "/api/routes/broken":
			_, _ = w.Write([]byte(`{"slug":"broken"}`))
		case "/api/routes/down":
			w.WriteHeader(http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}, Options{})

	r, err := c.FetchRoute(ctx, "north")
	if err != nil {
		t.Fatalf("FetchRoute returned error: %v", err)
	}
	if r.ID != "r1" || len(r.Stops) != 2 {
		t.Fatalf("FetchRoute = %#v", r)
	}
	if gotPath != "/api/routes/north" {
		t.Fatalf("path = %q", gotPath)
	}

	if _, err := c.FetchRoute(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing route error = %v, want ErrNotFound", err)
	}

	_, err = c.FetchRoute(ctx, "down")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusBadGateway {
		t.Fatalf("down route error = %v, want StatusError 502", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("502 must not match ErrNotFound")
	}

	if _, err := c.FetchRoute(ctx, "broken"); err == nil {
		t.Fatalf("record without id decoded without error")
	}
	if _, err := c.FetchRoute(ctx, "  "); err == nil {
		t.Fatalf("blank slug returned nil error")
	}
}

func TestClient_FetchRouteEscapesSlugOnce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		slug        string
		wantEscaped string
	}{
		{slug: "north", wantEscaped: "/api/routes/north"},
		{slug: "route 42/a", wantEscaped: "/api/routes/route%2042%2Fa"},
		{slug: "50%off", wantEscaped: "/api/routes/50%25off"},
		{slug: "a?b#c", wantEscaped: "/api/routes/a%3Fb%23c"},
	}
	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			t.Parallel()

			var gotEscaped, gotPath string
			c, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotEscaped = r.URL.EscapedPath()
				gotPath = r.URL.Path
				_, _ = w.Write([]byte(`{"id":"r1","status":"in-progress"}`))
			}, Options{})

			if _, err := c.FetchRoute(ctx, tt.slug); err != nil {
				t.Fatalf("FetchRoute(%q) returned error: %v", tt.slug, err)
			}
			if gotEscaped != tt.wantEscaped {
				t.Fatalf("escaped path = %q, want %q", gotEscaped, tt.wantEscaped)
			}
			if want := "/api/routes/" + tt.slug; gotPath != want {
				t.Fatalf("decoded path = %q, want %q", gotPath, want)
			}
		})
	}
}

func TestClient_DecodeErrorOnMalformedBody(t *testing.T) {
	t.Parallel()

	c, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"routes":`))
	}, Options{})

	if _, err := c.FetchRoutes(ctx); err == nil {
		t.Fatalf("FetchRoutes on truncated body returned nil error")
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.FetchRoutes(context.Background()); err == nil {
		t.Fatalf("nil client FetchRoutes returned nil error")
	}
}
