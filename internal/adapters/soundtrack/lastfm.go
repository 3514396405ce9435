// Package soundtrack looks up movie soundtracks through the Last.fm API.
package soundtrack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/solen/qflick/internal/domain/types"
	"github.com/solen/qflick/pkg/metrics"
)

const (
	defaultBaseURL = "https://ws.audioscrobbler.com/2.0/"
	defaultTimeout = 10 * time.Second
	searchLimit    = 5
)

// Sentinel error kinds for this package.
var (
	ErrMissingAPIKey = errors.New("lastfm api key not configured")
	ErrNoSoundtrack  = errors.New("no soundtrack found")
	ErrUpstream      = errors.New("lastfm request failed")
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithAPIKey sets the Last.fm API key.
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

// Client is a Last.fm API client.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// New creates a Last.fm client with configuration options.
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

type albumSearchResponse struct {
	Results struct {
		AlbumMatches struct {
			Album []struct {
				Name   string `json:"name"`
				Artist string `json:"artist"`
			} `json:"album"`
		} `json:"albummatches"`
	} `json:"results"`
}

type albumInfoResponse struct {
	Album struct {
		Name   string `json:"name"`
		Artist string `json:"artist"`
		URL    string `json:"url"`
		Tracks struct {
			Track []struct {
				Name     string `json:"name"`
				URL      string `json:"url"`
				Duration any    `json:"duration"` // string or number depending on endpoint vintage
			} `json:"track"`
		} `json:"tracks"`
	} `json:"album"`
}

// Lookup finds the soundtrack album for a movie. It searches for
// "<title> soundtrack <year>" first and retries without the year when
// nothing matches.
func (c *Client) Lookup(ctx context.Context, title, year string) (types.Soundtrack, error) {
	term := title + " soundtrack"
	if year != "" {
		st, err := c.search(ctx, term+" "+year)
		if err == nil {
			return st, nil
		}
		if !errors.Is(err, ErrNoSoundtrack) {
			return types.Soundtrack{}, err
		}
	}
	return c.search(ctx, term)
}

func (c *Client) search(ctx context.Context, term string) (types.Soundtrack, error) {
	var resp albumSearchResponse
	err := c.get(ctx, url.Values{
		"method": {"album.search"},
		"album":  {term},
		"limit":  {strconv.Itoa(searchLimit)},
	}, &resp)
	if err != nil {
		return types.Soundtrack{}, err
	}

	albums := resp.Results.AlbumMatches.Album
	if len(albums) == 0 {
		return types.Soundtrack{}, ErrNoSoundtrack
	}
	return c.albumInfo(ctx, albums[0].Artist, albums[0].Name)
}

func (c *Client) albumInfo(ctx context.Context, artist, album string) (types.Soundtrack, error) {
	var resp albumInfoResponse
	err := c.get(ctx, url.Values{
		"method": {"album.getinfo"},
		"artist": {artist},
		"album":  {album},
	}, &resp)
	if err != nil {
		return types.Soundtrack{}, err
	}

	info := resp.Album
	tracks := make([]types.Track, 0, len(info.Tracks.Track))
	for _, t := range info.Tracks.Track {
		tracks = append(tracks, types.Track{
			Name:     t.Name,
			URL:      t.URL,
			Duration: parseDuration(t.Duration),
		})
	}
	if len(tracks) == 0 {
		return types.Soundtrack{}, ErrNoSoundtrack
	}

	return types.Soundtrack{
		Album:  info.Name,
		Artist: info.Artist,
		Source: "lastfm",
		Tracks: tracks,
	}, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.RecordUpstreamLatency("lastfm", float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordUpstreamRequest("lastfm", "error")
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordUpstreamRequest("lastfm", "error")
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordUpstreamRequest("lastfm", "error")
		return fmt.Errorf("%w: decode: %w", ErrUpstream, err)
	}
	metrics.RecordUpstreamRequest("lastfm", "ok")
	return nil
}

// parseDuration tolerates both string and numeric duration fields.
func parseDuration(v any) int {
	switch d := v.(type) {
	case string:
		n, _ := strconv.Atoi(d)
		return n
	case float64:
		return int(d)
	default:
		return 0
	}
}
