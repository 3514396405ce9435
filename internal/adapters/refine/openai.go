// Package refine delegates query understanding and result enrichment to
// an OpenAI chat model. Every method degrades gracefully: the service
// layer treats failures as "no refinement" or empty enrichment rather
// than failing the search.
package refine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/solen/qflick/internal/adapters/catalog"
	"github.com/solen/qflick/internal/domain/types"
	"github.com/solen/qflick/pkg/metrics"
)

const defaultModel = openai.GPT4o

// Sentinel error kinds for this package.
var (
	ErrNotConfigured = errors.New("openai api key not configured")
	ErrUpstream      = errors.New("openai request failed")
	ErrBadResponse   = errors.New("openai response not parseable")
)

// Refinement is the structured interpretation of a raw user query.
type Refinement struct {
	RefinedQuery string `json:"refined_query"`
	IntentType   string `json:"intent_type"`
	LikelyYear   string `json:"likely_year"`
	Info         string `json:"additional_info"`
}

// completer abstracts the go-openai client so tests can stub it.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithModel overrides the chat model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithCompleter replaces the underlying completion client, for tests.
func WithCompleter(cc completer) Option {
	return func(c *Client) {
		if cc != nil {
			c.api = cc
		}
	}
}

// Client wraps the OpenAI chat API for movie-domain prompts.
type Client struct {
	api   completer
	model string
}

// New creates a refinement client. An empty key yields a client whose
// calls all return ErrNotConfigured, which callers treat as "disabled".
func New(apiKey string, opts ...Option) *Client {
	c := &Client{model: defaultModel}
	if apiKey != "" {
		c.api = openai.NewClient(apiKey)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether a backing API client is configured.
func (c *Client) Enabled() bool {
	return c.api != nil
}

// Refine interprets a raw search query: likely title, intent, year.
func (c *Client) Refine(ctx context.Context, raw string) (Refinement, error) {
	prompt := fmt.Sprintf(`A user submitted the following movie search query: %q

The user might be naming a title (possibly misspelled), an actor or
character, describing a plot, or quoting dialogue. Extract the most
likely intended title and respond strictly in this JSON format:
{
  "refined_query": "corrected and complete query or title",
  "intent_type": "title | actor | character | plot | dialogue | mixed",
  "likely_year": "YYYY or empty",
  "additional_info": "key info extracted from the query"
}`, raw)

	content, err := c.complete(ctx, "You are a movie expert assistant interpreting user search queries.", prompt, true)
	if err != nil {
		return Refinement{}, err
	}

	var ref Refinement
	if err := json.Unmarshal([]byte(content), &ref); err != nil {
		return Refinement{}, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	if strings.TrimSpace(ref.RefinedQuery) == "" {
		ref.RefinedQuery = raw
	}
	if ref.LikelyYear == "null" {
		ref.LikelyYear = ""
	}
	return ref, nil
}

// Summary writes a short critic-style summary for a movie.
func (c *Client) Summary(ctx context.Context, d catalog.Details) (string, error) {
	prompt := fmt.Sprintf(`Write a concise, engaging 2-3 sentence summary for the
following film, covering tone, theme and hook, readable for casual fans.

Title: %s
Overview: %s
Genres: %s
Release Date: %s`, d.Title, d.Overview, strings.Join(d.Genres, ", "), d.ReleaseDate)

	return c.complete(ctx, "You are a film critic who writes compelling movie summaries.", prompt, false)
}

type dialoguesPayload struct {
	Dialogues []types.Dialogue `json:"dialogues"`
}

// Dialogues generates memorable lines for a movie.
func (c *Client) Dialogues(ctx context.Context, d catalog.Details) ([]types.Dialogue, error) {
	prompt := fmt.Sprintf(`Generate 5 memorable, realistic dialogues from the movie
below, mixing emotional, humorous or dramatic tones depending on genre.
Respond as JSON: {"dialogues": [{"character": "...", "quote": "...", "context": "..."}]}

Title: %s
Overview: %s
Genres: %s
Main Cast: %s`, d.Title, d.Overview, strings.Join(d.Genres, ", "), strings.Join(d.Cast, ", "))

	content, err := c.complete(ctx, "You are a movie expert who specializes in memorable film dialogues.", prompt, true)
	if err != nil {
		return nil, err
	}

	var payload dialoguesPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	return payload.Dialogues, nil
}

type soundtrackPayload struct {
	Tracks []types.Track `json:"tracks"`
}

// Soundtrack generates a plausible track list when Last.fm has nothing.
func (c *Client) Soundtrack(ctx context.Context, title, year string) (types.Soundtrack, error) {
	prompt := fmt.Sprintf(`List the most iconic soundtrack tracks of the movie %q (%s).
Respond as JSON: {"tracks": [{"name": "Track Title"}]}`, title, year)

	content, err := c.complete(ctx, "You are a film music expert.", prompt, true)
	if err != nil {
		return types.Soundtrack{}, err
	}

	var payload soundtrackPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return types.Soundtrack{}, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	return types.Soundtrack{
		Title:  title,
		Year:   year,
		Source: "generated",
		Tracks: payload.Tracks,
	}, nil
}

func (c *Client) complete(ctx context.Context, system, prompt string, wantJSON bool) (string, error) {
	if c.api == nil {
		return "", ErrNotConfigured
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if wantJSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	metrics.RecordUpstreamLatency("openai", float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordUpstreamRequest("openai", "error")
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		metrics.RecordUpstreamRequest("openai", "error")
		return "", ErrBadResponse
	}
	metrics.RecordUpstreamRequest("openai", "ok")
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
