package demo

import "github.com/solen/qflick/internal/domain/model"

// fixtureCatalog is a small in-memory candidate set exercising the
// interesting ranking shapes: a lexical/popularity conflict, uniform
// scores, and a clear single winner.
var fixtureCatalog = []model.Movie{
	{
		ID:         27205,
		Title:      "Inception",
		Overview:   "A thief who steals corporate secrets through dream-sharing technology is given the inverse task of planting an idea.",
		Popularity: 90,
		Tags:       []string{"Action", "Science Fiction", "Thriller"},
	},
	{
		ID:         157336,
		Title:      "Interstellar",
		Overview:   "A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival.",
		Popularity: 140,
		Tags:       []string{"Adventure", "Drama", "Science Fiction"},
	},
	{
		ID:         603,
		Title:      "The Matrix",
		Overview:   "A computer hacker learns about the true nature of reality and his role in the war against its controllers.",
		Popularity: 80,
		Tags:       []string{"Action", "Science Fiction"},
	},
	{
		ID:         597,
		Title:      "Titanic",
		Overview:   "An epic romance aboard the ill-fated maiden voyage of an unsinkable ship.",
		Popularity: 110,
		Tags:       []string{"Drama", "Romance"},
	},
	{
		ID:         680,
		Title:      "Pulp Fiction",
		Overview:   "The lives of two mob hitmen, a boxer and a pair of diner bandits intertwine in tales of violence and redemption.",
		Popularity: 70,
		Tags:       []string{"Crime", "Thriller"},
	},
	{
		ID:         155,
		Title:      "The Dark Knight",
		Overview:   "Batman raises the stakes in his war on crime against the Joker, a criminal mastermind.",
		Popularity: 120,
		Tags:       []string{"Action", "Crime", "Drama"},
	},
}

// defaultQueries exercises distinct outcomes: an exact-title hit, a
// plot-description query, and a vague query where popularity dominates.
var defaultQueries = []string{
	"inception dream heist",
	"space wormhole survival",
	"crime and redemption",
	"epic",
}
