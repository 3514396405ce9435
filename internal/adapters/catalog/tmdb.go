// Package catalog fetches movie candidates and details from the TMDb API.
// It owns construction of the Movie records the ranking engine consumes.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/solen/qflick/internal/domain/model"
	"github.com/solen/qflick/pkg/metrics"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	defaultTimeout = 10 * time.Second
	maxCastTags    = 5
)

// genreNames maps TMDb's fixed genre IDs to names so that search results
// carry tags without an extra details round trip.
var genreNames = map[int]string{
	28: "Action", 12: "Adventure", 16: "Animation", 35: "Comedy",
	80: "Crime", 99: "Documentary", 18: "Drama", 10751: "Family",
	14: "Fantasy", 36: "History", 27: "Horror", 10402: "Music",
	9648: "Mystery", 10749: "Romance", 878: "Science Fiction",
	10770: "TV Movie", 53: "Thriller", 10752: "War", 37: "Western",
}

// Details is the full record returned by movie lookups.
type Details struct {
	model.Movie
	ReleaseDate string
	Runtime     int
	Genres      []string
	Cast        []string
	VoteAverage float64
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithAPIKey sets the TMDb API key.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// Client is a TMDb API client.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// New creates a TMDb client with configuration options.
func New(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResponse struct {
	Results []struct {
		ID          int64   `json:"id"`
		Title       string  `json:"title"`
		Overview    string  `json:"overview"`
		Popularity  float64 `json:"popularity"`
		GenreIDs    []int   `json:"genre_ids"`
		ReleaseDate string  `json:"release_date"`
	} `json:"results"`
}

type detailsResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	Popularity  float64 `json:"popularity"`
	ReleaseDate string  `json:"release_date"`
	Runtime     int     `json:"runtime"`
	VoteAverage float64 `json:"vote_average"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Credits struct {
		Cast []struct {
			Name string `json:"name"`
		} `json:"cast"`
	} `json:"credits"`
}

// Search returns the candidate set for a query, in TMDb's order.
func (c *Client) Search(ctx context.Context, query string) ([]model.Movie, error) {
	var resp searchResponse
	params := url.Values{
		"query":         {query},
		"language":      {"en-US"},
		"include_adult": {"false"},
	}
	if err := c.get(ctx, "/search/movie", params, &resp); err != nil {
		return nil, err
	}

	movies := make([]model.Movie, 0, len(resp.Results))
	for _, r := range resp.Results {
		tags := make([]string, 0, len(r.GenreIDs))
		for _, id := range r.GenreIDs {
			if name, ok := genreNames[id]; ok {
				tags = append(tags, name)
			}
		}
		movies = append(movies, model.Movie{
			ID:         r.ID,
			Title:      r.Title,
			Overview:   r.Overview,
			Popularity: r.Popularity,
			Tags:       tags,
		})
	}
	return movies, nil
}

// Details returns the full record for one movie, cast included.
func (c *Client) Details(ctx context.Context, id int64) (Details, error) {
	var resp detailsResponse
	params := url.Values{
		"language":           {"en-US"},
		"append_to_response": {"credits"},
	}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), params, &resp); err != nil {
		return Details{}, err
	}

	genres := make([]string, 0, len(resp.Genres))
	for _, g := range resp.Genres {
		genres = append(genres, g.Name)
	}
	cast := make([]string, 0, maxCastTags)
	for i, m := range resp.Credits.Cast {
		if i == maxCastTags {
			break
		}
		cast = append(cast, m.Name)
	}

	tags := append(append([]string{}, genres...), cast...)
	return Details{
		Movie: model.Movie{
			ID:         resp.ID,
			Title:      resp.Title,
			Overview:   resp.Overview,
			Popularity: resp.Popularity,
			Tags:       tags,
		},
		ReleaseDate: resp.ReleaseDate,
		Runtime:     resp.Runtime,
		Genres:      genres,
		Cast:        cast,
		VoteAverage: resp.VoteAverage,
	}, nil
}

// Similar returns TMDb's similar-movie suggestions for one movie.
func (c *Client) Similar(ctx context.Context, id int64) ([]model.Movie, error) {
	var resp searchResponse
	params := url.Values{"language": {"en-US"}}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/similar", id), params, &resp); err != nil {
		return nil, err
	}

	movies := make([]model.Movie, 0, len(resp.Results))
	for _, r := range resp.Results {
		movies = append(movies, model.Movie{
			ID:         r.ID,
			Title:      r.Title,
			Overview:   r.Overview,
			Popularity: r.Popularity,
		})
	}
	return movies, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.RecordUpstreamLatency("tmdb", float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordUpstreamRequest("tmdb", "error")
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		metrics.RecordUpstreamRequest("tmdb", "not_found")
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		metrics.RecordUpstreamRequest("tmdb", "error")
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordUpstreamRequest("tmdb", "error")
		return fmt.Errorf("%w: decode: %w", ErrUpstream, err)
	}
	metrics.RecordUpstreamRequest("tmdb", "ok")
	return nil
}
