package service

import (
	"context"
	"errors"
	"strings"

	"github.com/emzola/bookrank/clients"
	"github.com/emzola/bookrank/data"
	"github.com/emzola/bookrank/internal/validator"
	"github.com/emzola/bookrank/repository"
	"github.com/google/go-querystring/query"
	"github.com/jellydator/ttlcache/v3"
)

const (
	// DefaultRankedLimit is the size of the ranking when the caller gives none.
	DefaultRankedLimit = 10
	// MaxRankedLimit is the largest page the search API returns.
	MaxRankedLimit = 30
	// NewBooksLimit is the size of the new-arrivals list.
	NewBooksLimit = 10
)

type books interface {
	TopRankedBooks(ctx context.Context, limit int) []data.Book
	NewBooks(ctx context.Context) []data.Book
	BookByID(ctx context.Context, id string) (*data.Book, bool)
}

// TopRankedBooks returns the best selling books, ranked from 1. A limit below 1 is
// replaced by DefaultRankedLimit and one above MaxRankedLimit is clamped to it.
func (s *service) TopRankedBooks(ctx context.Context, limit int) []data.Book {
	limit = rankedLimit(limit)
	resp, err := s.search(ctx, clients.SearchParams{Hits: limit, Sort: clients.SortSales})
	if err != nil {
		s.logFallback("ranked", err)
		return s.repo.RankedBooks(limit)
	}
	books := data.NormalizeItems(resp.Items)
	if len(books) > limit {
		books = books[:limit]
	}
	for i := range books {
		books[i].Rank = i + 1
	}
	return books
}

func rankedLimit(limit int) int {
	switch {
	case validator.Between(limit, 1, MaxRankedLimit):
		return limit
	case limit < 1:
		return DefaultRankedLimit
	default:
		return MaxRankedLimit
	}
}

// NewBooks returns the most recently released books. IsNew marks those released
// within the new-arrival window.
func (s *service) NewBooks(ctx context.Context) []data.Book {
	now := s.clock.Now()
	resp, err := s.search(ctx, clients.SearchParams{Hits: NewBooksLimit, Sort: clients.SortNewest})
	if err != nil {
		s.logFallback("new", err)
		return s.repo.NewBooks(now)
	}
	books := data.NormalizeItems(resp.Items)
	for i := range books {
		books[i].IsNew = books[i].ReleasedSince(now)
	}
	return books
}

// BookByID looks a book up by ISBN when id is all digits, otherwise by title.
// The first match wins. It reports false when neither the API nor the fallback
// set knows the book.
func (s *service) BookByID(ctx context.Context, id string) (*data.Book, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	params := clients.SearchParams{Title: id}
	if validator.Matches(id, validator.DigitsRX) {
		params = clients.SearchParams{ISBN: id}
	}
	resp, err := s.search(ctx, params)
	if err != nil {
		s.logFallback("book", err, "id", id)
		book, err := s.repo.GetBook(id)
		if err != nil {
			if !errors.Is(err, repository.ErrRecordNotFound) {
				s.logger.PrintError(err, map[string]string{"id": id})
			}
			return nil, false
		}
		return book, true
	}
	book := data.NormalizeItem(resp.Items[0].Item)
	return &book, true
}

// search runs params against the API, reusing a cached response from within the
// revalidation window. Empty results count as failures and are not cached.
func (s *service) search(ctx context.Context, params clients.SearchParams) (*data.SearchResponse, error) {
	key := cacheKey(params)
	if s.cache != nil {
		if item := s.cache.Get(key); item != nil {
			return item.Value(), nil
		}
	}
	resp, err := s.client.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, clients.ErrEmptyResult
	}
	if s.cache != nil && s.config.Cache.Revalidate > 0 {
		s.cache.Set(key, resp, ttlcache.DefaultTTL)
	}
	return resp, nil
}

func cacheKey(params clients.SearchParams) string {
	values, err := query.Values(params)
	if err != nil {
		return ""
	}
	return values.Encode()
}

func (s *service) logFallback(view string, err error, kv ...string) {
	props := map[string]string{
		"view":  view,
		"error": err.Error(),
	}
	for i := 0; i+1 < len(kv); i += 2 {
		props[kv[i]] = kv[i+1]
	}
	s.logger.PrintWarn("falling back to sample books", props)
}
