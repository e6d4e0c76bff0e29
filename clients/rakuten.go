package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/emzola/bookrank/config"
	"github.com/emzola/bookrank/data"
	"github.com/google/go-querystring/query"
)

const (
	// SortSales orders results by sales, best selling first.
	SortSales = "sales"
	// SortNewest orders results by release date, newest first.
	SortNewest = "+releaseDate"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrEmptyResult      = errors.New("empty result")
)

// SearchParams are the view-specific query parameters of a books search.
// Credentials, genre and format are added by the client.
type SearchParams struct {
	Hits  int    `url:"hits,omitempty"`
	Sort  string `url:"sort,omitempty"`
	ISBN  string `url:"isbn,omitempty"`
	Title string `url:"title,omitempty"`
}

// searchQuery is the complete query string sent to the API.
type searchQuery struct {
	ApplicationID string `url:"applicationId"`
	AffiliateID   string `url:"affiliateId"`
	Format        string `url:"format"`
	BooksGenreID  string `url:"booksGenreId,omitempty"`
	SearchParams
}

// RakutenClient queries the Rakuten Books search API.
type RakutenClient struct {
	httpClient    *http.Client
	endpoint      string
	applicationID string
	affiliateID   string
	genreID       string
}

// NewRakutenClient configures a Rakuten Books client from the app configuration.
func NewRakutenClient(cfg config.Config, httpClient *http.Client) *RakutenClient {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	return &RakutenClient{
		httpClient:    httpClient,
		endpoint:      cfg.Rakuten.Endpoint,
		applicationID: cfg.Rakuten.ApplicationID,
		affiliateID:   cfg.Rakuten.AffiliateID,
		genreID:       cfg.Rakuten.GenreID,
	}
}

// Query encodes params together with the fixed credentials and genre.
func (c *RakutenClient) Query(params SearchParams) (url.Values, error) {
	return query.Values(searchQuery{
		ApplicationID: c.applicationID,
		AffiliateID:   c.affiliateID,
		Format:        "json",
		BooksGenreID:  c.genreID,
		SearchParams:  params,
	})
}

// Search performs a single GET against the search endpoint. Any non-2xx status is an
// error wrapping ErrUnexpectedStatus. The request is not retried.
func (c *RakutenClient) Search(ctx context.Context, params SearchParams) (*data.SearchResponse, error) {
	values, err := c.Query(params)
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	u.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var result data.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &result, nil
}
