package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/solen/qflick/internal/adapters/catalog"
	"github.com/solen/qflick/internal/adapters/refine"
	service "github.com/solen/qflick/internal/app"
	"github.com/solen/qflick/internal/domain/model"
	"github.com/solen/qflick/internal/domain/rank"
	"github.com/solen/qflick/internal/domain/types"
	"github.com/solen/qflick/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fakeCatalog serves a fixed candidate set.
type fakeCatalog struct {
	movies     []model.Movie
	searchErr  error
	detailsErr error
}

func (f *fakeCatalog) Search(_ context.Context, _ string) ([]model.Movie, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.movies, nil
}

func (f *fakeCatalog) Details(_ context.Context, id int64) (catalog.Details, error) {
	if f.detailsErr != nil {
		return catalog.Details{}, f.detailsErr
	}
	for _, m := range f.movies {
		if m.ID == id {
			return catalog.Details{Movie: m, ReleaseDate: "2010-07-15"}, nil
		}
	}
	return catalog.Details{}, catalog.ErrNotFound
}

func (f *fakeCatalog) Similar(_ context.Context, _ int64) ([]model.Movie, error) {
	return []model.Movie{{ID: 603, Title: "The Matrix", Popularity: 80}}, nil
}

// fakeSoundtrack fails on demand so the generated fallback can be tested.
type fakeSoundtrack struct {
	fail bool
}

func (f *fakeSoundtrack) Lookup(_ context.Context, title, year string) (types.Soundtrack, error) {
	if f.fail {
		return types.Soundtrack{}, errors.New("nothing found")
	}
	return types.Soundtrack{Album: title + " OST", Source: "lastfm", Tracks: []types.Track{{Name: "Time"}}}, nil
}

func candidates() []model.Movie {
	return []model.Movie{
		{ID: 27205, Title: "Inception", Overview: "dream within a dream heist", Popularity: 90},
		{ID: 597, Title: "Titanic", Overview: "ship sinks romance", Popularity: 80},
	}
}

func TestServiceSearch(t *testing.T) {
	Convey("Given a started service with a fake catalog", t, func() {
		ctx := context.Background()
		cat := &fakeCatalog{movies: candidates()}
		svc := service.New(service.WithCatalog(cat), service.WithWorkerCount(1))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When searching in classical mode", func() {
			res, err := svc.Search(ctx, "dream inside dreams", model.ModeClassical, "")

			Convey("Then the top-ranked movie should come back", func() {
				So(err, ShouldBeNil)
				So(res.Movie.Title, ShouldEqual, "Inception")
				So(res.Ranking.Mode, ShouldEqual, "classical")
				So(res.Ranking.Candidates, ShouldEqual, 2)
				So(res.Ranking.TopScore, ShouldEqual, 19)
			})

			Convey("And a request ID should be generated", func() {
				So(res.Ranking.RequestID, ShouldNotBeEmpty)
			})

			Convey("And the similar suggestions should be attached", func() {
				So(res.Similar, ShouldHaveLength, 1)
				So(res.Similar[0].Title, ShouldEqual, "The Matrix")
			})

			Convey("And without a refiner the overview becomes the summary", func() {
				So(res.Summary, ShouldEqual, "dream within a dream heist")
			})
		})

		Convey("When searching in quantum mode", func() {
			res, err := svc.Search(ctx, "dream inside dreams", model.ModeQuantum, "")

			Convey("Then the quantum ranker should run", func() {
				So(err, ShouldBeNil)
				So(res.Movie.Title, ShouldEqual, "Inception")
				So(res.Ranking.Mode, ShouldEqual, "quantum")
				So(res.Ranking.Iterations, ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When searching with an unknown mode", func() {
			_, err := svc.Search(ctx, "anything", model.Mode("hybrid"), "")

			Convey("Then the unknown-mode kind should surface", func() {
				So(err, ShouldWrap, service.ErrUnknownMode)
			})
		})

		Convey("When the query has no usable tokens", func() {
			_, err := svc.Search(ctx, "?!", model.ModeClassical, "")

			Convey("Then the invalid-query kind should surface", func() {
				So(err, ShouldWrap, rank.ErrInvalidQuery)
			})
		})

		Convey("When the catalog returns no candidates", func() {
			cat.movies = nil
			_, err := svc.Search(ctx, "zzz", model.ModeClassical, "")

			Convey("Then the empty-set kind should surface", func() {
				So(err, ShouldWrap, rank.ErrEmptyCandidateSet)
			})
		})

		Convey("When the catalog search fails", func() {
			cat.searchErr = catalog.ErrUpstream
			_, err := svc.Search(ctx, "dream", model.ModeClassical, "")

			Convey("Then the upstream error should propagate", func() {
				So(err, ShouldWrap, catalog.ErrUpstream)
			})
		})

		Convey("When searches complete", func() {
			for i := 0; i < 3; i++ {
				_, err := svc.Search(ctx, "dream inside dreams", model.ModeClassical, "")
				So(err, ShouldBeNil)
			}
			_, err := svc.Search(ctx, "ship romance", model.ModeClassical, "")
			So(err, ShouldBeNil)

			Convey("Then the history should feed the leaderboard", func() {
				So(waitFor(func() bool {
					top, lerr := svc.Leaderboard(ctx, 10)
					return lerr == nil && len(top) == 2 && top[0].Selections == 3
				}), ShouldBeTrue)

				top, lerr := svc.Leaderboard(ctx, 10)
				So(lerr, ShouldBeNil)
				So(top[0].Title, ShouldEqual, "Inception")
				So(top[0].Rank, ShouldEqual, 1)
				So(top[1].Title, ShouldEqual, "Titanic")
			})

			Convey("And the recent listing should be populated", func() {
				So(waitFor(func() bool {
					recs, rerr := svc.Recent(ctx, 10)
					return rerr == nil && len(recs) == 4
				}), ShouldBeTrue)
			})
		})

		Convey("When the same request ID is replayed", func() {
			_, err := svc.Search(ctx, "dream inside dreams", model.ModeClassical, "fixed-id")
			So(err, ShouldBeNil)
			_, err = svc.Search(ctx, "dream inside dreams", model.ModeClassical, "fixed-id")
			So(err, ShouldBeNil)

			Convey("Then the history should record it only once", func() {
				So(waitFor(func() bool {
					top, lerr := svc.Leaderboard(ctx, 10)
					return lerr == nil && len(top) == 1
				}), ShouldBeTrue)
				top, lerr := svc.Leaderboard(ctx, 10)
				So(lerr, ShouldBeNil)
				So(top[0].Selections, ShouldEqual, 1)
			})
		})
	})

	Convey("Given a service without a catalog", t, func() {
		svc := service.New()

		Convey("When starting it", func() {
			err := svc.Start(context.Background())

			Convey("Then it should refuse with the not-configured kind", func() {
				So(err, ShouldWrap, service.ErrNotConfigured)
			})
		})
	})
}

func TestServiceCompare(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithCatalog(&fakeCatalog{movies: candidates()}))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When comparing both strategies", func() {
			res, err := svc.Compare(ctx, "dream inside dreams")

			Convey("Then both picks should be surfaced", func() {
				So(err, ShouldBeNil)
				So(res.Classical.Title, ShouldEqual, "Inception")
				So(res.Quantum.Title, ShouldEqual, "Inception")
				So(res.Agree, ShouldBeTrue)
				So(res.Iterations, ShouldBeGreaterThanOrEqualTo, 1)
			})
		})
	})
}

func TestServiceMovieAndSoundtrack(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		cat := &fakeCatalog{movies: candidates()}
		lastfm := &fakeSoundtrack{}
		svc := service.New(service.WithCatalog(cat), service.WithSoundtrack(lastfm))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When fetching a movie directly", func() {
			res, err := svc.Movie(ctx, 27205)

			Convey("Then the details should come back marked direct", func() {
				So(err, ShouldBeNil)
				So(res.Movie.Title, ShouldEqual, "Inception")
				So(res.Ranking.Mode, ShouldEqual, "direct")
			})
		})

		Convey("When fetching an unknown movie", func() {
			_, err := svc.Movie(ctx, 404)

			Convey("Then the not-found kind should surface", func() {
				So(err, ShouldWrap, catalog.ErrNotFound)
			})
		})

		Convey("When the soundtrack lookup succeeds", func() {
			st, err := svc.Soundtrack(ctx, 27205)

			Convey("Then the lookup result should carry title and year", func() {
				So(err, ShouldBeNil)
				So(st.Source, ShouldEqual, "lastfm")
				So(st.Title, ShouldEqual, "Inception")
				So(st.Year, ShouldEqual, "2010")
			})
		})

		Convey("When the lookup fails and no refiner is configured", func() {
			lastfm.fail = true
			_, err := svc.Soundtrack(ctx, 27205)

			Convey("Then the no-soundtrack kind should surface", func() {
				So(err, ShouldWrap, service.ErrNoSoundtrack)
			})
		})
	})
}

func TestServiceWithRefiner(t *testing.T) {
	Convey("Given a service with a refiner stub", t, func() {
		ctx := context.Background()
		cat := &fakeCatalog{movies: candidates()}
		stub := &stubCompleter{content: `{"refined_query": "dream inside dreams", "intent_type": "plot", "likely_year": ""}`}
		refiner := refine.New("key", refine.WithCompleter(stub))
		svc := service.New(service.WithCatalog(cat), service.WithRefiner(refiner))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When searching with a vague query", func() {
			res, err := svc.Search(ctx, "that movie about dreams in dreams", model.ModeClassical, "")

			Convey("Then the refined query should drive the ranking", func() {
				So(err, ShouldBeNil)
				So(res.Ranking.Query, ShouldEqual, "that movie about dreams in dreams")
				So(res.Ranking.RefinedQuery, ShouldEqual, "dream inside dreams")
			})
		})

		Convey("When the refiner errors out", func() {
			stub.err = errors.New("rate limited")
			res, err := svc.Search(ctx, "dream inside dreams", model.ModeClassical, "")

			Convey("Then the raw query should be used instead", func() {
				So(err, ShouldBeNil)
				So(res.Ranking.RefinedQuery, ShouldEqual, "dream inside dreams")
				So(res.Movie.Title, ShouldEqual, "Inception")
			})
		})
	})
}

func TestServiceStats(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := service.New(
			service.WithCatalog(&fakeCatalog{movies: candidates()}),
			service.WithWorkerCount(2),
			service.WithQueueSize(64),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When reading stats", func() {
			stats := svc.GetStats()

			Convey("Then the pipeline shape should be reported", func() {
				So(stats.Started, ShouldBeTrue)
				So(stats.WorkerCount, ShouldEqual, 2)
				So(stats.QueueCapacity, ShouldEqual, 64)
				So(stats.QueueLength, ShouldEqual, 0)
			})
		})
	})
}

// stubCompleter mirrors the refine package's test double.
type stubCompleter struct {
	content string
	err     error
}

func (s *stubCompleter) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.content}},
		},
	}, nil
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}
