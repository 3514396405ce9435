package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/solen/qflick/internal/adapters/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

const searchBody = `{
  "results": [
    {"id": 27205, "title": "Inception", "overview": "dream heist", "popularity": 90.5, "genre_ids": [28, 878]},
    {"id": 597, "title": "Titanic", "overview": "ship romance", "popularity": 80.1, "genre_ids": [18, 10749]}
  ]
}`

const detailsBody = `{
  "id": 27205,
  "title": "Inception",
  "overview": "dream heist",
  "popularity": 90.5,
  "release_date": "2010-07-15",
  "runtime": 148,
  "vote_average": 8.4,
  "genres": [{"name": "Action"}, {"name": "Science Fiction"}],
  "credits": {"cast": [
    {"name": "Leonardo DiCaprio"}, {"name": "Joseph Gordon-Levitt"},
    {"name": "Elliot Page"}, {"name": "Tom Hardy"},
    {"name": "Ken Watanabe"}, {"name": "Cillian Murphy"}
  ]}
}`

func TestClientSearch(t *testing.T) {
	Convey("Given a TMDb stub server", t, func() {
		ctx := context.Background()
		var gotPath, gotKey string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.URL.Query().Get("api_key")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(searchBody))
		}))
		defer srv.Close()

		client := catalog.New(
			catalog.WithAPIKey("test-key"),
			catalog.WithBaseURL(srv.URL),
		)

		Convey("When searching for movies", func() {
			movies, err := client.Search(ctx, "inception")

			Convey("Then the candidate set should be decoded in order", func() {
				So(err, ShouldBeNil)
				So(movies, ShouldHaveLength, 2)
				So(movies[0].ID, ShouldEqual, 27205)
				So(movies[0].Title, ShouldEqual, "Inception")
				So(movies[0].Popularity, ShouldEqual, 90.5)
				So(movies[1].Title, ShouldEqual, "Titanic")
			})

			Convey("And genre IDs should be resolved into tags", func() {
				So(movies[0].Tags, ShouldResemble, []string{"Action", "Science Fiction"})
				So(movies[1].Tags, ShouldResemble, []string{"Drama", "Romance"})
			})

			Convey("And the request should carry path and key", func() {
				So(gotPath, ShouldEqual, "/search/movie")
				So(gotKey, ShouldEqual, "test-key")
			})
		})
	})

	Convey("Given a client without an API key", t, func() {
		client := catalog.New()

		Convey("When searching", func() {
			_, err := client.Search(context.Background(), "anything")

			Convey("Then it should fail before any request", func() {
				So(err, ShouldWrap, catalog.ErrMissingAPIKey)
			})
		})
	})

	Convey("Given an upstream returning a server error", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := catalog.New(catalog.WithAPIKey("k"), catalog.WithBaseURL(srv.URL))

		Convey("When searching", func() {
			_, err := client.Search(context.Background(), "anything")

			Convey("Then the upstream kind should surface", func() {
				So(err, ShouldWrap, catalog.ErrUpstream)
			})
		})
	})
}

func TestClientDetails(t *testing.T) {
	Convey("Given a TMDb stub serving movie details", t, func() {
		ctx := context.Background()
		var gotAppend string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAppend = r.URL.Query().Get("append_to_response")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(detailsBody))
		}))
		defer srv.Close()

		client := catalog.New(catalog.WithAPIKey("k"), catalog.WithBaseURL(srv.URL))

		Convey("When fetching details", func() {
			d, err := client.Details(ctx, 27205)

			Convey("Then the record should include release data", func() {
				So(err, ShouldBeNil)
				So(d.ID, ShouldEqual, 27205)
				So(d.ReleaseDate, ShouldEqual, "2010-07-15")
				So(d.Runtime, ShouldEqual, 148)
				So(d.VoteAverage, ShouldEqual, 8.4)
				So(d.Genres, ShouldResemble, []string{"Action", "Science Fiction"})
			})

			Convey("And the cast should be capped at five names", func() {
				So(d.Cast, ShouldHaveLength, 5)
				So(d.Cast[0], ShouldEqual, "Leonardo DiCaprio")
			})

			Convey("And tags should merge genres with cast", func() {
				So(d.Tags, ShouldHaveLength, 7)
				So(d.Tags[0], ShouldEqual, "Action")
				So(d.Tags[2], ShouldEqual, "Leonardo DiCaprio")
			})

			Convey("And credits should ride along on the same request", func() {
				So(gotAppend, ShouldEqual, "credits")
			})
		})
	})

	Convey("Given an upstream returning 404", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := catalog.New(catalog.WithAPIKey("k"), catalog.WithBaseURL(srv.URL))

		Convey("When fetching details for an unknown ID", func() {
			_, err := client.Details(context.Background(), 99)

			Convey("Then the not-found kind should surface", func() {
				So(err, ShouldWrap, catalog.ErrNotFound)
			})
		})
	})
}

func TestClientSimilar(t *testing.T) {
	Convey("Given a TMDb stub serving similar movies", t, func() {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(searchBody))
		}))
		defer srv.Close()

		client := catalog.New(catalog.WithAPIKey("k"), catalog.WithBaseURL(srv.URL))

		Convey("When fetching suggestions", func() {
			movies, err := client.Similar(context.Background(), 27205)

			Convey("Then the list should decode and hit the similar path", func() {
				So(err, ShouldBeNil)
				So(movies, ShouldHaveLength, 2)
				So(gotPath, ShouldEqual, "/movie/27205/similar")
			})
		})
	})
}
