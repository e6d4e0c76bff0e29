package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/emzola/bookrank/config"
	"github.com/emzola/bookrank/data"
	_ "github.com/emzola/bookrank/docs"
	"github.com/emzola/bookrank/internal/jsonlog"
	"github.com/emzola/bookrank/internal/render"
	"github.com/emzola/bookrank/internal/validator"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	ranked     []data.Book
	fresh      []data.Book
	byID       map[string]data.Book
	revalidate time.Duration
	lastLimit  int
	panicking  bool
}

func (f *fakeService) TopRankedBooks(_ context.Context, limit int) []data.Book {
	if f.panicking {
		panic("ranking exploded")
	}
	f.lastLimit = limit
	return f.ranked
}

func (f *fakeService) NewBooks(context.Context) []data.Book {
	return f.fresh
}

func (f *fakeService) BookByID(_ context.Context, id string) (*data.Book, bool) {
	b, ok := f.byID[id]
	if !ok {
		return nil, false
	}
	return &b, true
}

func (f *fakeService) RevalidateAfter() time.Duration {
	return f.revalidate
}

func newFakeService() *fakeService {
	first := data.Book{ID: "9784101001616", Title: "人間失格", Author: "太宰治", Rating: 4, Rank: 1}
	second := data.Book{ID: "h0123456789abcdef", Title: "こころ", Author: "夏目漱石", Rating: 5, Rank: 2}
	return &fakeService{
		ranked:     []data.Book{first, second},
		fresh:      []data.Book{{ID: "n1", Title: "新刊", Rating: 3, IsNew: true}},
		byID:       map[string]data.Book{first.ID: first, second.ID: second},
		revalidate: time.Hour,
	}
}

func newTestHandler(t *testing.T, svc *fakeService, tweak func(*config.Config)) http.Handler {
	t.Helper()
	var cfg config.Config
	cfg.Server.Env = "testing"
	cfg.BasicAuth.Username = "admin"
	cfg.BasicAuth.Password = "secret"
	cfg.Cors.TrustedOrigins = []string{"https://books.example.com"}
	if tweak != nil {
		tweak(&cfg)
	}
	renderer, err := render.New(testclock.NewClock(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	logger := jsonlog.New(io.Discard, jsonlog.LevelInfo)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(cfg, logger, svc, renderer).Routes(ctx)
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestHomePage(t *testing.T) {
	h := newTestHandler(t, newFakeService(), nil)

	rr := serve(h, http.MethodGet, "/")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600", rr.Header().Get("Cache-Control"))
	assert.Contains(t, rr.Body.String(), "人間失格")
	assert.Contains(t, rr.Body.String(), "新着小説")
}

func TestBookPage(t *testing.T) {
	h := newTestHandler(t, newFakeService(), nil)

	t.Run("found", func(t *testing.T) {
		rr := serve(h, http.MethodGet, "/books/9784101001616")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "著者: 太宰治")
	})

	t.Run("absent", func(t *testing.T) {
		rr := serve(h, http.MethodGet, "/books/0000")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "ページが見つかりません")
	})
}

func TestListRankedBooks(t *testing.T) {
	testCases := []struct {
		name      string
		target    string
		wantCode  int
		wantLimit int
	}{
		{name: "default", target: "/v1/rankings", wantCode: http.StatusOK, wantLimit: 10},
		{name: "explicit", target: "/v1/rankings?limit=5", wantCode: http.StatusOK, wantLimit: 5},
		{name: "above maximum is left to the service", target: "/v1/rankings?limit=50", wantCode: http.StatusOK, wantLimit: 50},
		{name: "not an integer", target: "/v1/rankings?limit=five", wantCode: http.StatusUnprocessableEntity},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newFakeService()
			h := newTestHandler(t, svc, nil)

			rr := serve(h, http.MethodGet, tc.target)

			assert.Equal(t, tc.wantCode, rr.Code)
			if tc.wantCode != http.StatusOK {
				assert.Contains(t, rr.Body.String(), "must be an integer value")
				return
			}
			assert.Equal(t, tc.wantLimit, svc.lastLimit)
			var books []data.Book
			require.NoError(t, json.Unmarshal(decode(t, rr)["books"], &books))
			assert.Len(t, books, 2)
			assert.Equal(t, 1, books[0].Rank)
		})
	}
}

func TestListNewBooks(t *testing.T) {
	h := newTestHandler(t, newFakeService(), nil)

	rr := serve(h, http.MethodGet, "/v1/new-arrivals")

	require.Equal(t, http.StatusOK, rr.Code)
	var books []data.Book
	require.NoError(t, json.Unmarshal(decode(t, rr)["books"], &books))
	require.Len(t, books, 1)
	assert.True(t, books[0].IsNew)
}

func TestShowBook(t *testing.T) {
	h := newTestHandler(t, newFakeService(), nil)

	rr := serve(h, http.MethodGet, "/v1/books/h0123456789abcdef")
	require.Equal(t, http.StatusOK, rr.Code)
	var book data.Book
	require.NoError(t, json.Unmarshal(decode(t, rr)["book"], &book))
	assert.Equal(t, "こころ", book.Title)

	rr = serve(h, http.MethodGet, "/v1/books/missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestListBookPaths(t *testing.T) {
	svc := newFakeService()
	h := newTestHandler(t, svc, nil)

	rr := serve(h, http.MethodGet, "/v1/paths")

	require.Equal(t, http.StatusOK, rr.Code)
	var ids []string
	require.NoError(t, json.Unmarshal(decode(t, rr)["ids"], &ids))
	assert.Equal(t, []string{"9784101001616", "h0123456789abcdef"}, ids)
	assert.Equal(t, 10, svc.lastLimit)
}

func TestNotFoundRoutes(t *testing.T) {
	h := newTestHandler(t, newFakeService(), nil)

	rr := serve(h, http.MethodGet, "/v1/unknown")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	rr = serve(h, http.MethodGet, "/unknown/page")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, newFakeService(), nil)

	rr := serve(h, http.MethodPost, "/v1/rankings")

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Contains(t, rr.Body.String(), "the POST method is not supported")
}

func TestCacheControlDisabled(t *testing.T) {
	svc := newFakeService()
	svc.revalidate = 0
	h := newTestHandler(t, svc, nil)

	rr := serve(h, http.MethodGet, "/v1/new-arrivals")

	assert.Equal(t, "no-cache", rr.Header().Get("Cache-Control"))
}

func TestHealthcheck(t *testing.T) {
	h := newTestHandler(t, newFakeService(), nil)

	rr := serve(h, http.MethodGet, "/v1/healthcheck")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `"available"`, string(decode(t, rr)["status"]))
	assert.Contains(t, rr.Body.String(), `"environment": "testing"`)
}

func TestSwaggerSpec(t *testing.T) {
	h := newTestHandler(t, newFakeService(), nil)

	rr := serve(h, http.MethodGet, "/spec")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/v1/rankings")
}

func TestRecoverPanic(t *testing.T) {
	svc := newFakeService()
	svc.panicking = true
	h := newTestHandler(t, svc, nil)

	rr := serve(h, http.MethodGet, "/v1/rankings")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "close", rr.Header().Get("Connection"))
}

func TestRateLimit(t *testing.T) {
	h := newTestHandler(t, newFakeService(), func(cfg *config.Config) {
		cfg.Limiter.Enabled = true
		cfg.Limiter.RPS = 1
		cfg.Limiter.Burst = 1
	})

	first := serve(h, http.MethodGet, "/v1/healthcheck")
	second := serve(h, http.MethodGet, "/v1/healthcheck")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestCORS(t *testing.T) {
	h := newTestHandler(t, newFakeService(), nil)

	t.Run("trusted preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/v1/rankings", nil)
		req.Header.Set("Origin", "https://books.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "https://books.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "OPTIONS, GET", rr.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("untrusted origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/rankings", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestDebugVarsBasicAuth(t *testing.T) {
	h := newTestHandler(t, newFakeService(), func(cfg *config.Config) {
		cfg.Metrics.Enabled = true
	})

	rr := serve(h, http.MethodGet, "/debug/vars")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodGet, "/debug/vars", nil)
	req.SetBasicAuth("admin", "secret")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "total_requests_received"))
}

func TestReadInt(t *testing.T) {
	h := &Handler{}
	testCases := []struct {
		name      string
		query     string
		want      int
		wantError bool
	}{
		{name: "absent", query: "", want: 10},
		{name: "integer", query: "limit=7", want: 7},
		{name: "negative", query: "limit=-3", want: -3},
		{name: "not an integer", query: "limit=7.5", want: 10, wantError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			qs, err := url.ParseQuery(tc.query)
			require.NoError(t, err)
			v := validator.New()

			got := h.readInt(qs, "limit", 10, v)

			assert.Equal(t, tc.want, got)
			assert.Equal(t, !tc.wantError, v.Valid())
			if tc.wantError {
				assert.Equal(t, "must be an integer value", v.Errors["limit"])
			}
		})
	}
}

func TestClientLimiters(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	l := newClientLimiters(1, 1)

	assert.True(t, l.allow("192.0.2.1", now))
	assert.False(t, l.allow("192.0.2.1", now))
	assert.True(t, l.allow("192.0.2.2", now))
	assert.True(t, l.allow("192.0.2.1", now.Add(time.Second)), "bucket refills")
	assert.Equal(t, 2, l.size())

	l.sweep(now.Add(2*time.Minute), idleClientTimeout)
	assert.Equal(t, 2, l.size(), "recent clients are kept")

	l.sweep(now.Add(4*time.Minute), idleClientTimeout)
	assert.Zero(t, l.size())
}

func TestClientLimitersSweepStopsOnCancel(t *testing.T) {
	l := newClientLimiters(1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.sweepEvery(ctx, time.Millisecond)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper still running after cancel")
	}
}
