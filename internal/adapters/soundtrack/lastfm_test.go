package soundtrack_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/solen/qflick/internal/adapters/soundtrack"
	. "github.com/smartystreets/goconvey/convey"
)

const albumSearchHit = `{
  "results": {"albummatches": {"album": [
    {"name": "Inception (Music from the Motion Picture)", "artist": "Hans Zimmer"}
  ]}}
}`

const albumSearchMiss = `{"results": {"albummatches": {"album": []}}}`

const albumInfoBody = `{
  "album": {
    "name": "Inception (Music from the Motion Picture)",
    "artist": "Hans Zimmer",
    "url": "https://www.last.fm/music/album",
    "tracks": {"track": [
      {"name": "Time", "url": "https://www.last.fm/track/time", "duration": "275"},
      {"name": "Dream Is Collapsing", "url": "https://www.last.fm/track/dic", "duration": 144}
    ]}
  }
}`

func TestLookup(t *testing.T) {
	Convey("Given a Last.fm stub server", t, func() {
		ctx := context.Background()
		var searchTerms []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch r.URL.Query().Get("method") {
			case "album.search":
				searchTerms = append(searchTerms, r.URL.Query().Get("album"))
				_, _ = w.Write([]byte(albumSearchHit))
			case "album.getinfo":
				_, _ = w.Write([]byte(albumInfoBody))
			default:
				w.WriteHeader(http.StatusBadRequest)
			}
		}))
		defer srv.Close()

		client := soundtrack.New(
			soundtrack.WithAPIKey("test-key"),
			soundtrack.WithBaseURL(srv.URL),
		)

		Convey("When looking up a soundtrack with a year", func() {
			st, err := client.Lookup(ctx, "Inception", "2010")

			Convey("Then the album info should be decoded", func() {
				So(err, ShouldBeNil)
				So(st.Album, ShouldEqual, "Inception (Music from the Motion Picture)")
				So(st.Artist, ShouldEqual, "Hans Zimmer")
				So(st.Source, ShouldEqual, "lastfm")
			})

			Convey("And both duration encodings should parse", func() {
				So(st.Tracks, ShouldHaveLength, 2)
				So(st.Tracks[0].Name, ShouldEqual, "Time")
				So(st.Tracks[0].Duration, ShouldEqual, 275)
				So(st.Tracks[1].Duration, ShouldEqual, 144)
			})

			Convey("And the search term should include soundtrack and year", func() {
				So(searchTerms, ShouldHaveLength, 1)
				So(searchTerms[0], ShouldEqual, "Inception soundtrack 2010")
			})
		})
	})

	Convey("Given a stub where the year-scoped search misses", t, func() {
		ctx := context.Background()
		var searchTerms []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch r.URL.Query().Get("method") {
			case "album.search":
				term := r.URL.Query().Get("album")
				searchTerms = append(searchTerms, term)
				if term == "Inception soundtrack 2010" {
					_, _ = w.Write([]byte(albumSearchMiss))
					return
				}
				_, _ = w.Write([]byte(albumSearchHit))
			case "album.getinfo":
				_, _ = w.Write([]byte(albumInfoBody))
			}
		}))
		defer srv.Close()

		client := soundtrack.New(soundtrack.WithAPIKey("k"), soundtrack.WithBaseURL(srv.URL))

		Convey("When looking up with the year", func() {
			st, err := client.Lookup(ctx, "Inception", "2010")

			Convey("Then it should retry without the year and succeed", func() {
				So(err, ShouldBeNil)
				So(st.Artist, ShouldEqual, "Hans Zimmer")
				So(searchTerms, ShouldResemble, []string{
					"Inception soundtrack 2010",
					"Inception soundtrack",
				})
			})
		})
	})

	Convey("Given a stub with no matches at all", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(albumSearchMiss))
		}))
		defer srv.Close()

		client := soundtrack.New(soundtrack.WithAPIKey("k"), soundtrack.WithBaseURL(srv.URL))

		Convey("When looking up any title", func() {
			_, err := client.Lookup(context.Background(), "Obscure Film", "")

			Convey("Then the no-soundtrack kind should surface", func() {
				So(err, ShouldWrap, soundtrack.ErrNoSoundtrack)
			})
		})
	})

	Convey("Given a client without an API key", t, func() {
		client := soundtrack.New()

		Convey("When looking up", func() {
			_, err := client.Lookup(context.Background(), "Inception", "")

			Convey("Then it should fail before any request", func() {
				So(err, ShouldWrap, soundtrack.ErrMissingAPIKey)
			})
		})
	})
}
