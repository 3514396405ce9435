// Package service provides the core business service implementing the
// dependencies required by the HTTP API: the search pipeline (refine ->
// fetch candidates -> rank -> enrich) and the asynchronous history
// recording behind the leaderboard and stats endpoints.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/solen/qflick/internal/adapters/catalog"
	"github.com/solen/qflick/internal/adapters/history"
	"github.com/solen/qflick/internal/adapters/mq/queue"
	"github.com/solen/qflick/internal/adapters/mq/worker"
	"github.com/solen/qflick/internal/adapters/refine"
	"github.com/solen/qflick/internal/domain/dedupe"
	"github.com/solen/qflick/internal/domain/model"
	"github.com/solen/qflick/internal/domain/rank"
	"github.com/solen/qflick/internal/domain/scoring"
	"github.com/solen/qflick/internal/domain/types"
	"github.com/solen/qflick/pkg/logger"
	"github.com/solen/qflick/pkg/metrics"
)

// Catalog is the external movie-catalog collaborator.
type Catalog interface {
	Search(ctx context.Context, query string) ([]model.Movie, error)
	Details(ctx context.Context, id int64) (catalog.Details, error)
	Similar(ctx context.Context, id int64) ([]model.Movie, error)
}

// Refiner is the external text-understanding collaborator.
type Refiner interface {
	Enabled() bool
	Refine(ctx context.Context, raw string) (refine.Refinement, error)
	Summary(ctx context.Context, d catalog.Details) (string, error)
	Dialogues(ctx context.Context, d catalog.Details) ([]types.Dialogue, error)
	Soundtrack(ctx context.Context, title, year string) (types.Soundtrack, error)
}

// SoundtrackSource is the external soundtrack-lookup collaborator.
type SoundtrackSource interface {
	Lookup(ctx context.Context, title, year string) (types.Soundtrack, error)
}

// Service implements the API dependencies for the search system.
type Service struct {
	mu sync.Mutex

	// Collaborators
	catalog    Catalog
	refiner    Refiner
	soundtrack SoundtrackSource

	// History pipeline
	store      history.Store
	deduper    dedupe.Deduper
	recordQ    queue.Queue
	workers    *worker.Pool
	queueSize  int
	workerN    int
	dedupeSize int
	recentSize int

	// Ranking configuration
	rankOpts []rank.Option

	started bool
	log     logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCatalog sets the movie catalog collaborator.
func WithCatalog(c Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

// WithRefiner sets the query-refinement collaborator.
func WithRefiner(r Refiner) Option {
	return func(s *Service) { s.refiner = r }
}

// WithSoundtrack sets the soundtrack-lookup collaborator.
func WithSoundtrack(src SoundtrackSource) Option {
	return func(s *Service) { s.soundtrack = src }
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithQueueSize bounds the search-record queue.
func WithQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithWorkerCount sets the number of history workers.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerN = n
		}
	}
}

// WithDedupeSize bounds the request-id dedupe cache.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.dedupeSize = n
		}
	}
}

// WithRecentSize bounds the recent-searches listing.
func WithRecentSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recentSize = n
		}
	}
}

// WithRankingWeights configures the relevance scorer and tunneling margin.
func WithRankingWeights(match, popularity, tunnelingMargin float64) Option {
	return func(s *Service) {
		s.rankOpts = []rank.Option{
			rank.WithScorer(scoring.New(
				scoring.WithMatchWeight(match),
				scoring.WithPopularityWeight(popularity),
			)),
			rank.WithTunnelingMargin(tunnelingMargin),
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:  10_000,
		workerN:    runtime.NumCPU(),
		dedupeSize: 50_000,
		recentSize: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the history pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	if s.catalog == nil {
		return fmt.Errorf("%w: catalog is required", ErrNotConfigured)
	}

	s.store = history.NewMemStore(history.WithRecentSize(s.recentSize))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.recordQ = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.workers = worker.NewPool(s.workerN, s.recordQ, s.store, worker.WithLogger(s.log.Named("history")))
	s.workers.Start(ctx)

	s.started = true
	s.log.Info(ctx, "search service started",
		logger.Int("workers", s.workerN),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop shuts the history pipeline down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	_ = s.recordQ.Close()
	s.workers.Stop()
	s.started = false
	s.log.Info(context.Background(), "search service stopped")
}

// Search runs the full pipeline for one query and ranking mode.
// requestID may be empty; a fresh one is generated then. Client-supplied
// IDs make retries idempotent for history recording.
func (s *Service) Search(ctx context.Context, rawQuery string, mode model.Mode, requestID string) (types.SearchResult, error) {
	if !mode.Valid() {
		return types.SearchResult{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}

	refined, likelyYear := s.refineQuery(ctx, rawQuery)

	candidates, err := s.catalog.Search(ctx, refined)
	if err != nil {
		return types.SearchResult{}, err
	}
	metrics.RecordCandidateSetSize(len(candidates))

	res, err := s.rankCandidates(candidates, refined, likelyYear, mode)
	if err != nil {
		recordRankingError(err)
		return types.SearchResult{}, err
	}
	metrics.RecordSearch(string(mode))

	selected := candidates[res.Index]
	details, err := s.catalog.Details(ctx, selected.ID)
	if err != nil {
		return types.SearchResult{}, err
	}

	summary, dialogues, similar := s.enrich(ctx, details)

	s.record(ctx, model.SearchRecord{
		RequestID:  requestID,
		Query:      rawQuery,
		Mode:       mode,
		MovieID:    selected.ID,
		Title:      selected.Title,
		Iterations: res.Iterations,
		TopScore:   res.TopScore,
		TS:         time.Now().UTC(),
	})

	return types.SearchResult{
		Movie: detailsToAPI(details),
		Ranking: types.RankingInfo{
			RequestID:    requestID,
			Mode:         string(mode),
			Index:        res.Index,
			Candidates:   len(candidates),
			Iterations:   res.Iterations,
			TopScore:     res.TopScore,
			Query:        rawQuery,
			RefinedQuery: refined,
		},
		Summary:   summary,
		Dialogues: dialogues,
		Similar:   similar,
	}, nil
}

// Compare runs both rankers over the same candidate set and reports the
// outcome of each without resolving disagreement.
func (s *Service) Compare(ctx context.Context, rawQuery string) (types.ComparisonResult, error) {
	refined, _ := s.refineQuery(ctx, rawQuery)

	candidates, err := s.catalog.Search(ctx, refined)
	if err != nil {
		return types.ComparisonResult{}, err
	}
	metrics.RecordCandidateSetSize(len(candidates))

	start := time.Now()
	cmp, err := rank.Compare(candidates, refined, s.rankOpts...)
	if err != nil {
		recordRankingError(err)
		return types.ComparisonResult{}, err
	}
	metrics.RecordRankingLatency("compare", float64(time.Since(start).Milliseconds()))
	metrics.RecordGroverIterations(cmp.Iterations)
	if !cmp.Agree {
		metrics.RecordRankerDisagreement()
	}

	return types.ComparisonResult{
		Query:        rawQuery,
		RefinedQuery: refined,
		Classical:    movieToAPI(candidates[cmp.ClassicalIndex]),
		Quantum:      movieToAPI(candidates[cmp.QuantumIndex]),
		Iterations:   cmp.Iterations,
		Agree:        cmp.Agree,
		Diversity:    cmp.Diversity,
	}, nil
}

// Movie returns details plus enrichment for a direct lookup by ID.
func (s *Service) Movie(ctx context.Context, id int64) (types.SearchResult, error) {
	details, err := s.catalog.Details(ctx, id)
	if err != nil {
		return types.SearchResult{}, err
	}
	summary, dialogues, similar := s.enrich(ctx, details)

	return types.SearchResult{
		Movie:     detailsToAPI(details),
		Ranking:   types.RankingInfo{Mode: "direct"},
		Summary:   summary,
		Dialogues: dialogues,
		Similar:   similar,
	}, nil
}

// Soundtrack looks up a movie's soundtrack, falling back to the
// generated track list when the lookup service has nothing.
func (s *Service) Soundtrack(ctx context.Context, id int64) (types.Soundtrack, error) {
	details, err := s.catalog.Details(ctx, id)
	if err != nil {
		return types.Soundtrack{}, err
	}
	year := releaseYear(details.ReleaseDate)

	if s.soundtrack != nil {
		st, err := s.soundtrack.Lookup(ctx, details.Title, year)
		if err == nil {
			st.Title = details.Title
			st.Year = year
			return st, nil
		}
		s.log.Warn(ctx, "soundtrack lookup failed, trying fallback",
			logger.String("title", details.Title), logger.Error(err))
	}

	if s.refiner != nil && s.refiner.Enabled() {
		return s.refiner.Soundtrack(ctx, details.Title, year)
	}
	return types.Soundtrack{}, ErrNoSoundtrack
}

// Leaderboard returns the most-selected movies.
func (s *Service) Leaderboard(ctx context.Context, n int) ([]types.LeaderboardEntry, error) {
	rows, err := s.store.TopMovies(ctx, n)
	if err != nil {
		return nil, err
	}
	out := make([]types.LeaderboardEntry, len(rows))
	for i, r := range rows {
		out[i] = types.LeaderboardEntry{
			Rank:       r.Rank,
			MovieID:    r.MovieID,
			Title:      r.Title,
			Selections: r.Selections,
		}
	}
	return out, nil
}

// Recent returns the latest recorded searches, newest first.
func (s *Service) Recent(ctx context.Context, n int) ([]types.RecentSearch, error) {
	recs, err := s.store.Recent(ctx, n)
	if err != nil {
		return nil, err
	}
	out := make([]types.RecentSearch, len(recs))
	for i, r := range recs {
		out[i] = types.RecentSearch{
			Query: r.Query,
			Mode:  string(r.Mode),
			Title: r.Title,
			TS:    r.TS,
		}
	}
	return out, nil
}

// GetStats snapshots the history pipeline for the stats endpoint and
// the gauge updater.
func (s *Service) GetStats() types.ServiceStats {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	ctx := context.Background()
	stats := types.ServiceStats{
		Started:       started,
		WorkerCount:   s.workerN,
		QueueCapacity: s.queueSize,
	}
	if started {
		stats.QueueLength = s.recordQ.Len(ctx)
		stats.DistinctMovies = s.store.Count(ctx)
		stats.TotalSearches = s.store.Searches(ctx)
		stats.DedupeEntries = int(s.deduper.Size())
	}
	return stats
}

// refineQuery delegates to the refiner when configured; any failure
// falls back to the raw query.
func (s *Service) refineQuery(ctx context.Context, raw string) (refined, likelyYear string) {
	if s.refiner == nil || !s.refiner.Enabled() {
		return raw, ""
	}
	ref, err := s.refiner.Refine(ctx, raw)
	if err != nil {
		s.log.Warn(ctx, "query refinement failed, using raw query", logger.Error(err))
		return raw, ""
	}
	s.log.Debug(ctx, "query refined",
		logger.String("raw", raw),
		logger.String("refined", ref.RefinedQuery),
		logger.String("intent", ref.IntentType),
	)
	return ref.RefinedQuery, ref.LikelyYear
}

// rankCandidates applies the exact title+year shortcut first, then the
// requested ranking strategy.
func (s *Service) rankCandidates(candidates []model.Movie, refined, likelyYear string, mode model.Mode) (model.RankingResult, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRankingLatency(string(mode), float64(time.Since(start).Milliseconds()))
	}()

	if idx := matchByTitleAndYear(candidates, refined, likelyYear); idx >= 0 {
		return model.RankingResult{Index: idx, Mode: mode, Iterations: 1, TopScore: 1}, nil
	}

	var (
		res model.RankingResult
		err error
	)
	if mode == model.ModeQuantum {
		res, err = rank.Quantum(candidates, refined, s.rankOpts...)
		if err == nil {
			metrics.RecordGroverIterations(res.Iterations)
			if res.Tunneled {
				metrics.RecordTunnelingOverride()
			}
		}
	} else {
		res, err = rank.Classical(candidates, refined, s.rankOpts...)
	}
	return res, err
}

// enrich fans the three enrichment calls out concurrently. Each failure
// degrades to an empty field, never failing the search.
func (s *Service) enrich(ctx context.Context, details catalog.Details) (string, []types.Dialogue, []types.MovieSummary) {
	var (
		wg        sync.WaitGroup
		summary   string
		dialogues []types.Dialogue
		similar   []types.MovieSummary
	)

	if s.refiner != nil && s.refiner.Enabled() {
		wg.Add(2)
		go func() {
			defer wg.Done()
			text, err := s.refiner.Summary(ctx, details)
			if err != nil {
				s.log.Warn(ctx, "summary generation failed", logger.Error(err))
				return
			}
			summary = text
		}()
		go func() {
			defer wg.Done()
			lines, err := s.refiner.Dialogues(ctx, details)
			if err != nil {
				s.log.Warn(ctx, "dialogue generation failed", logger.Error(err))
				return
			}
			dialogues = lines
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		movies, err := s.catalog.Similar(ctx, details.ID)
		if err != nil {
			s.log.Warn(ctx, "similar lookup failed", logger.Error(err))
			return
		}
		for _, m := range movies {
			similar = append(similar, movieToAPI(m))
		}
	}()

	wg.Wait()
	if summary == "" {
		summary = details.Overview
	}
	return summary, dialogues, similar
}

// record hands the completed search to the history pipeline. Duplicate
// request IDs are dropped; enqueue backpressure rolls the ID back so a
// retry can land.
func (s *Service) record(ctx context.Context, rec model.SearchRecord) {
	if s.deduper.SeenAndRecord(ctx, rec.RequestID) {
		metrics.RecordDuplicateRequest()
		return
	}
	if !s.recordQ.Enqueue(ctx, rec) {
		s.deduper.Unrecord(ctx, rec.RequestID)
		s.log.Warn(ctx, "history queue full, search not recorded",
			logger.String("requestID", rec.RequestID))
	}
}

// matchByTitleAndYear short-circuits ranking when the refiner extracted
// a likely year and a candidate title matches the refined query exactly.
func matchByTitleAndYear(candidates []model.Movie, title, year string) int {
	if year == "" {
		return -1
	}
	return exactTitleMatch(candidates, title)
}

func exactTitleMatch(candidates []model.Movie, title string) int {
	for i, m := range candidates {
		if strings.EqualFold(m.Title, title) {
			return i
		}
	}
	return -1
}

func releaseYear(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

func detailsToAPI(d catalog.Details) types.MovieDetails {
	return types.MovieDetails{
		ID:          d.ID,
		Title:       d.Title,
		Overview:    d.Overview,
		Popularity:  d.Popularity,
		ReleaseDate: d.ReleaseDate,
		Runtime:     d.Runtime,
		Genres:      d.Genres,
		Cast:        d.Cast,
		VoteAverage: d.VoteAverage,
	}
}

func movieToAPI(m model.Movie) types.MovieSummary {
	return types.MovieSummary{
		ID:         m.ID,
		Title:      m.Title,
		Overview:   m.Overview,
		Popularity: m.Popularity,
		Genres:     m.Tags,
	}
}

func recordRankingError(err error) {
	switch {
	case err == nil:
	case errors.Is(err, rank.ErrEmptyCandidateSet):
		metrics.RecordRankingError("empty_set")
	case errors.Is(err, rank.ErrInvalidQuery):
		metrics.RecordRankingError("invalid_query")
	default:
		metrics.RecordRankingError("other")
	}
}
