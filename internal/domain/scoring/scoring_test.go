package scoring_test

import (
	"testing"

	"github.com/solen/qflick/internal/domain/model"
	"github.com/solen/qflick/internal/domain/query"
	"github.com/solen/qflick/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScorer_Score(t *testing.T) {
	Convey("Given a scorer with default weights", t, func() {
		scorer := scoring.New()

		Convey("When scoring a movie that matches one query token", func() {
			m := model.Movie{
				Title:      "Inception",
				Overview:   "dream within a dream heist",
				Popularity: 90,
			}
			score := scorer.Score(m, query.TokenSet("dream inside dreams"))

			Convey("Then the score should be matches*10 + popularity*0.1", func() {
				So(score, ShouldEqual, 19) // 1*10 + 90*0.1
			})
		})

		Convey("When scoring a movie with zero token matches", func() {
			m := model.Movie{
				Title:      "Titanic",
				Overview:   "ship sinks romance",
				Popularity: 80,
			}
			score := scorer.Score(m, query.TokenSet("dream inside dreams"))

			Convey("Then it should still earn the popularity boost", func() {
				So(score, ShouldEqual, 8) // 0*10 + 80*0.1
			})
		})

		Convey("When a token appears in both title and overview", func() {
			m := model.Movie{
				Title:      "Dream House",
				Overview:   "a dream turns into a nightmare",
				Popularity: 0,
			}
			score := scorer.Score(m, query.TokenSet("dream"))

			Convey("Then it should count once, set semantics", func() {
				So(score, ShouldEqual, 10)
			})
		})

		Convey("When popularity increases with all else fixed", func() {
			tokens := query.TokenSet("heist")
			low := scorer.Score(model.Movie{Title: "Heat", Overview: "heist", Popularity: 10}, tokens)
			high := scorer.Score(model.Movie{Title: "Heat", Overview: "heist", Popularity: 50}, tokens)

			Convey("Then the score should never decrease", func() {
				So(high, ShouldBeGreaterThanOrEqualTo, low)
			})
		})
	})

	Convey("Given a scorer with custom weights", t, func() {
		scorer := scoring.New(
			scoring.WithMatchWeight(2),
			scoring.WithPopularityWeight(1),
		)

		Convey("When scoring with the custom weights", func() {
			m := model.Movie{Title: "Alien", Overview: "space horror", Popularity: 30}
			score := scorer.Score(m, query.TokenSet("space"))

			Convey("Then both weights should apply", func() {
				So(score, ShouldEqual, 32) // 1*2 + 30*1
			})
		})

		Convey("When a non-positive weight is supplied", func() {
			ignored := scoring.New(scoring.WithMatchWeight(-5))
			m := model.Movie{Title: "Alien", Overview: "space horror", Popularity: 0}

			Convey("Then the default weight should be kept", func() {
				So(ignored.Score(m, query.TokenSet("space")), ShouldEqual, 10)
			})
		})
	})
}

func TestScorer_Vector(t *testing.T) {
	Convey("Given a candidate set", t, func() {
		scorer := scoring.New()
		candidates := []model.Movie{
			{Title: "Inception", Overview: "dream heist", Popularity: 90},
			{Title: "Titanic", Overview: "ship romance", Popularity: 80},
		}

		Convey("When scoring the whole vector", func() {
			scores := scorer.Vector(candidates, query.TokenSet("dream"))

			Convey("Then order should match the input order", func() {
				So(scores, ShouldHaveLength, 2)
				So(scores[0], ShouldEqual, 19)
				So(scores[1], ShouldEqual, 8)
			})
		})
	})
}
