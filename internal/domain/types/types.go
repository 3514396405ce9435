// Package types contains the JSON shapes shared between the service
// layer and the HTTP API.
package types

import "time"

// MovieSummary is the compact movie shape used in candidate lists and
// similar-title suggestions.
type MovieSummary struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview,omitempty"`
	Popularity  float64  `json:"popularity"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// MovieDetails is the full movie shape returned by detail lookups.
type MovieDetails struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	Popularity  float64  `json:"popularity"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Runtime     int      `json:"runtime,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Cast        []string `json:"cast,omitempty"`
	VoteAverage float64  `json:"vote_average,omitempty"`
}

// RankingInfo carries the diagnostics of the ranking pass that selected
// a movie.
type RankingInfo struct {
	RequestID    string  `json:"request_id"`
	Mode         string  `json:"mode"`
	Index        int     `json:"index"`
	Candidates   int     `json:"candidates"`
	Iterations   int     `json:"iterations"`
	TopScore     float64 `json:"top_score"`
	Query        string  `json:"query"`
	RefinedQuery string  `json:"refined_query,omitempty"`
}

// Dialogue is one generated memorable line.
type Dialogue struct {
	Character string `json:"character"`
	Quote     string `json:"quote"`
	Context   string `json:"context,omitempty"`
}

// SearchResult is the response body of POST /search.
type SearchResult struct {
	Movie     MovieDetails   `json:"movie"`
	Ranking   RankingInfo    `json:"ranking"`
	Summary   string         `json:"summary,omitempty"`
	Dialogues []Dialogue     `json:"dialogues,omitempty"`
	Similar   []MovieSummary `json:"similar_movies,omitempty"`
}

// ComparisonResult is the response body of POST /compare.
type ComparisonResult struct {
	Query        string       `json:"query"`
	RefinedQuery string       `json:"refined_query,omitempty"`
	Classical    MovieSummary `json:"classical"`
	Quantum      MovieSummary `json:"quantum"`
	Iterations   int          `json:"iterations"`
	Agree        bool         `json:"agree"`
	Diversity    float64      `json:"diversity"`
}

// LeaderboardEntry is one row of the most-selected-movies leaderboard.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	MovieID    int64  `json:"movie_id"`
	Title      string `json:"title"`
	Selections int    `json:"selections"`
}

// RecentSearch is one row of the recent-searches listing.
type RecentSearch struct {
	Query string    `json:"query"`
	Mode  string    `json:"mode"`
	Title string    `json:"title"`
	TS    time.Time `json:"ts"`
}

// ServiceStats is the response body of GET /stats: a snapshot of the
// history pipeline behind the search service.
type ServiceStats struct {
	Started        bool  `json:"started"`
	WorkerCount    int   `json:"worker_count"`
	QueueCapacity  int   `json:"queue_capacity"`
	QueueLength    int   `json:"queue_length"`
	TotalSearches  int64 `json:"total_searches"`
	DistinctMovies int   `json:"distinct_movies"`
	DedupeEntries  int   `json:"dedupe_entries"`
}

// Track is one soundtrack entry.
type Track struct {
	Name     string `json:"name"`
	Duration int    `json:"duration,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Soundtrack is the response body of GET /movie/{id}/soundtrack.
type Soundtrack struct {
	Title  string  `json:"title"`
	Year   string  `json:"year,omitempty"`
	Album  string  `json:"album,omitempty"`
	Artist string  `json:"artist,omitempty"`
	Source string  `json:"source"` // "lastfm" or "generated"
	Tracks []Track `json:"tracks"`
}
