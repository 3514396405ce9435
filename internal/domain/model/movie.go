// Package model contains domain models passed between layers.
package model

import "time"

// Movie is one catalog record inside a candidate set. The ranking engine
// treats it as read-only; the catalog adapter owns its construction.
type Movie struct {
	ID         int64    // stable catalog identifier
	Title      string   // display title
	Overview   string   // plot synopsis
	Popularity float64  // non-negative catalog popularity signal
	Tags       []string // genre/cast labels, may be empty
}

// Mode identifies which ranking strategy produced a result.
type Mode string

// Supported ranking modes.
const (
	ModeClassical Mode = "classical"
	ModeQuantum   Mode = "quantum"
)

// Valid reports whether m names a known ranking mode.
func (m Mode) Valid() bool {
	return m == ModeClassical || m == ModeQuantum
}

// RankingResult is the outcome of a single ranking invocation.
// Index is always a valid position into the input candidate slice
// when the error returned alongside it is nil.
type RankingResult struct {
	Index      int     // selected candidate, 0-based
	Mode       Mode    // strategy that produced the selection
	Iterations int     // amplification iterations (1 for classical)
	TopScore   float64 // raw score for classical, winning probability for quantum
	Tunneled   bool    // quantum only: runner-up overrode the amplified winner
}

// Comparison is the mode comparator's report. Both selections are surfaced
// as-is; disagreement is never resolved here.
type Comparison struct {
	ClassicalIndex int
	QuantumIndex   int
	Iterations     int     // quantum amplification iterations
	Agree          bool    // true when both rankers picked the same index
	Diversity      float64 // tag-set Jaccard distance between the two picks, 0..1
}

// SearchRecord is the telemetry payload flowing through the history
// pipeline after a search completes.
type SearchRecord struct {
	RequestID  string    // unique id for idempotent recording
	Query      string    // raw query as submitted
	Mode       Mode      // strategy used
	MovieID    int64     // selected movie
	Title      string    // selected movie title
	Iterations int
	TopScore   float64
	TS         time.Time
}
