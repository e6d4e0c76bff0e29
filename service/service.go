package service

import (
	"context"
	"time"

	"github.com/emzola/bookrank/clients"
	"github.com/emzola/bookrank/config"
	"github.com/emzola/bookrank/data"
	"github.com/emzola/bookrank/internal/jsonlog"
	"github.com/emzola/bookrank/repository"
	"github.com/jellydator/ttlcache/v3"
	"github.com/juju/clock"
)

type Service interface {
	books
	RevalidateAfter() time.Duration
}

// Searcher runs a books search against the remote API.
type Searcher interface {
	Search(ctx context.Context, params clients.SearchParams) (*data.SearchResponse, error)
}

// ResponseCache keeps successful search responses for the revalidation window.
type ResponseCache = ttlcache.Cache[string, *data.SearchResponse]

// service defines the service layer.
type service struct {
	config config.Config
	logger *jsonlog.Logger
	client Searcher
	repo   repository.Repository
	cache  *ResponseCache
	clock  clock.Clock
}

// NewResponseCache creates the revalidation cache. Hits do not extend an entry's
// lifetime, so a response is never reused longer than ttl after it was fetched.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return ttlcache.New[string, *data.SearchResponse](
		ttlcache.WithTTL[string, *data.SearchResponse](ttl),
		ttlcache.WithDisableTouchOnHit[string, *data.SearchResponse](),
	)
}

// New creates a new instance of Service. A nil cache disables revalidation caching
// and a nil clk means wall-clock time.
func New(cfg config.Config, logger *jsonlog.Logger, client Searcher, repo repository.Repository, cache *ResponseCache, clk clock.Clock) *service {
	if clk == nil {
		clk = clock.WallClock
	}
	return &service{
		config: cfg,
		logger: logger,
		client: client,
		repo:   repo,
		cache:  cache,
		clock:  clk,
	}
}

// RevalidateAfter is how long callers and intermediaries may reuse a rendered result.
func (s *service) RevalidateAfter() time.Duration {
	return s.config.Cache.Revalidate
}
