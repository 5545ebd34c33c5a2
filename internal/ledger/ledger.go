// Package ledger keeps per-player fault tallies and the combo streak of the
// current rally. It is pure bookkeeping: the referee decides who is charged,
// the ledger decides how much.
package ledger

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vovakirdan/quadball/internal/core"
)

var (
	// ErrEmptyName is returned when registering a player without a name.
	ErrEmptyName = errors.New("ledger: player name is empty")
	// ErrDuplicatePlayer is returned when a name is registered twice.
	ErrDuplicatePlayer = errors.New("ledger: player already registered")
)

// Standing is one row of the scoreboard.
type Standing struct {
	Name  string
	Score int
}

// Ledger tracks scores and the combo chain for a single match.
// Scores only ever grow. The combo is the number of consecutive touches
// in the current rally; each player also has a streak counting their own
// touches inside that chain.
type Ledger struct {
	order   []string
	scores  map[string]int
	streaks map[string]int

	comboOwner  string
	comboLength int
	trail       []core.Vec3
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		scores:  make(map[string]int),
		streaks: make(map[string]int),
	}
}

// Register adds a player with a zero score.
func (l *Ledger) Register(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if _, ok := l.scores[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicatePlayer, name)
	}
	l.order = append(l.order, name)
	l.scores[name] = 0
	return nil
}

// Players returns registered names in registration order.
func (l *Ledger) Players() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// AddPoint charges a single point to name and ends the combo.
func (l *Ledger) AddPoint(name string) int {
	return l.award(name, 1)
}

// AddTotalPoints charges name one point plus every touch of the current
// combo that was made by someone else.
func (l *Ledger) AddTotalPoints(name string) int {
	bonus := l.comboLength - l.streaks[name]
	if bonus < 0 {
		bonus = 0
	}
	return l.award(name, 1+bonus)
}

// AddSelfTotalPoints charges name one point plus their own streak: the chain
// they built before faulting is credited to the other side.
func (l *Ledger) AddSelfTotalPoints(name string) int {
	return l.award(name, 1+l.streaks[name])
}

func (l *Ledger) award(name string, points int) int {
	if _, ok := l.scores[name]; !ok {
		return 0
	}
	l.scores[name] += points
	l.ResetCombo()
	return points
}

// IncrementCombo records a touch by name at pos.
func (l *Ledger) IncrementCombo(name string, pos core.Vec3) {
	l.comboLength++
	l.streaks[name]++
	l.comboOwner = name
	l.trail = append(l.trail, pos)
}

// ResetCombo clears the chain, every streak and the position trail.
func (l *Ledger) ResetCombo() {
	l.comboLength = 0
	l.comboOwner = ""
	l.trail = l.trail[:0]
	for name := range l.streaks {
		delete(l.streaks, name)
	}
}

// ResetOwnCombo clears only name's streak.
func (l *Ledger) ResetOwnCombo(name string) {
	delete(l.streaks, name)
}

// MostScore returns the leading player and score. Ties go to the player
// registered first. An empty ledger returns ("", 0).
func (l *Ledger) MostScore() (string, int) {
	best, bestScore := "", 0
	for _, name := range l.order {
		if s := l.scores[name]; best == "" || s > bestScore {
			best, bestScore = name, s
		}
	}
	return best, bestScore
}

// Score returns name's tally.
func (l *Ledger) Score(name string) int {
	return l.scores[name]
}

// ComboLength returns the number of touches in the current chain.
func (l *Ledger) ComboLength() int {
	return l.comboLength
}

// ComboOwner returns the player who made the latest touch of the chain.
func (l *Ledger) ComboOwner() string {
	return l.comboOwner
}

// Streak returns name's touches within the current chain.
func (l *Ledger) Streak(name string) int {
	return l.streaks[name]
}

// Trail returns a copy of the ball positions of every touch in the chain.
func (l *Ledger) Trail() []core.Vec3 {
	out := make([]core.Vec3, len(l.trail))
	copy(out, l.trail)
	return out
}

// Standings returns all players by score, highest first. Equal scores keep
// registration order.
func (l *Ledger) Standings() []Standing {
	out := make([]Standing, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, Standing{Name: name, Score: l.scores[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
