// Package tables runs several refereed matches side by side, one goroutine
// per table, and hands finished matches to a result saver.
package tables

import (
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/quadball/internal/playback"
)

// MatchID uniquely identifies a match.
type MatchID string

// NewMatchID returns a fresh random match id.
func NewMatchID() MatchID {
	return MatchID(uuid.NewString())
}

// Short returns the first eight characters, enough to tell tables apart in
// logs.
func (id MatchID) Short() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

// EndReason describes why a table stopped.
type EndReason int

const (
	// EndReasonCompleted means the script ran out before anyone reached
	// the match point.
	EndReasonCompleted EndReason = iota

	// EndReasonGameOver means a tally reached the match point.
	EndReasonGameOver

	// EndReasonCancelled means the table was stopped early.
	EndReasonCancelled
)

// String returns the name stored with match results.
func (r EndReason) String() string {
	switch r {
	case EndReasonCompleted:
		return "completed"
	case EndReasonGameOver:
		return "game_over"
	case EndReasonCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// MatchResult is the outcome of one table.
type MatchResult struct {
	MatchID   MatchID
	Reason    EndReason
	StartedAt time.Time
	playback.Result
}

// ResultSaver persists finished matches. The hub works without one.
type ResultSaver interface {
	SaveMatch(result MatchResult) error
}
