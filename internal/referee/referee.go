// Package referee implements the match officiating engine. It consumes
// pairwise contact notifications from the physics simulation, classifies
// them against the field geometry, keeps the ledger and schedules ball
// resets after faults.
//
// The referee is single-threaded: per tick the simulation calls Process for
// each new contact and then Update once. Calls must not overlap or nest.
package referee

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/quadball/internal/config"
	"github.com/vovakirdan/quadball/internal/core"
	"github.com/vovakirdan/quadball/internal/ledger"
)

// Limits on the number of participants.
const (
	MinPlayers = 2
	MaxPlayers = 4
)

// Setup errors. All of them are returned before play begins.
var (
	ErrNilBody          = errors.New("referee: body is nil")
	ErrBallRegistered   = errors.New("referee: ball already registered")
	ErrGroundRegistered = errors.New("referee: ground already registered")
	ErrBodyRegistered   = errors.New("referee: body already registered")
	ErrBodyIncomparable = errors.New("referee: body cannot be matched by identity")
	ErrDegenerateRect   = errors.New("referee: player rectangle has no area")
	ErrOverlappingRect  = errors.New("referee: player rectangles overlap")
	ErrTooManyPlayers   = errors.New("referee: too many players")
	ErrNotEnoughPlayers = errors.New("referee: not enough players")
	ErrNoBall           = errors.New("referee: no ball registered")
	ErrNoGround         = errors.New("referee: no ground registered")
	ErrMatchInProgress  = errors.New("referee: match already started")
)

// Invariant violations. These are raised as panics.
var (
	ErrReentrant  = errors.New("referee: re-entrant call")
	ErrNotStarted = errors.New("referee: match not started")
)

// State is the referee's phase.
type State int

const (
	StateActive State = iota
	StateAwaitingReset
	StateGameOver
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateAwaitingReset:
		return "awaiting reset"
	case StateGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// TouchKind classifies what last touched the ball.
type TouchKind int

const (
	TouchNone   TouchKind = iota // fresh rally or mid-line
	TouchGround                  // inside a player's cell
	TouchPlayer
)

// Touch describes the last object that touched the ball.
type Touch struct {
	Kind   TouchKind
	Player string // set when Kind is TouchPlayer
}

// PlayerInfo describes a registered participant.
type PlayerInfo struct {
	Name string
	Rect core.Rect
	Body Body
}

// Options carries the referee's collaborators. Every field is optional.
type Options struct {
	Sink   Sink
	Clock  Clock // without one, faults take the time of the next Update
	Logger *log.Logger

	// OnTrespass is called when a player stands inside the field but
	// outside their own cell. It is informational only.
	OnTrespass func(name string, pos core.Vec3)
}

type player struct {
	name string
	body Body
	rect core.Rect
}

// Referee officiates a single match.
type Referee struct {
	rules      config.RefereeConfig
	field      core.Field
	ledger     *ledger.Ledger
	sink       Sink
	clock      Clock
	logger     *log.Logger
	onTrespass func(string, core.Vec3)

	ball    Ball
	ground  Body
	players map[Body]*player
	order   []*player

	// rally state
	lastFieldOwner    *player
	lastTouchedKind   TouchKind
	lastTouchedObject *player // set when lastTouchedKind is TouchPlayer
	lastTouchedPlayer *player
	lastGroundContact core.Vec3

	mustResetBall bool
	faultTime     time.Duration
	faultPending  bool // fault raised without a Clock, stamped by the next Update
	gameOver      bool
	loser         string
	now           time.Duration

	started  bool
	busy     bool
	resets   int
	verdicts []Verdict
}

// New creates a referee for one match. The rules are validated here.
func New(rules config.RefereeConfig, opts Options) (*Referee, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("referee: %w", err)
	}

	r := &Referee{
		rules: rules,
		field: core.Field{
			HalfExtent: rules.FieldHalfExtent,
			LineWeight: rules.LineWeight,
		},
		ledger:     ledger.New(),
		sink:       opts.Sink,
		clock:      opts.Clock,
		logger:     opts.Logger,
		onTrespass: opts.OnTrespass,
		players:    make(map[Body]*player),
	}
	if r.sink == nil {
		r.sink = discardSink{}
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	return r, nil
}

// RegisterGround registers the ground plane.
func (r *Referee) RegisterGround(ground Body) error {
	if err := r.checkSetup(ground); err != nil {
		return err
	}
	if r.ground != nil {
		return ErrGroundRegistered
	}
	r.ground = ground
	return nil
}

// RegisterBall registers the ball and places it for the opening drop-serve.
func (r *Referee) RegisterBall(ball Ball) error {
	if ball == nil {
		return ErrNilBody
	}
	if err := r.checkSetup(ball); err != nil {
		return err
	}
	if r.ball != nil {
		return ErrBallRegistered
	}
	r.ball = ball
	r.resetBall()
	return nil
}

// RegisterPlayer registers a participant with the cell they own.
func (r *Referee) RegisterPlayer(name string, body Body, rect core.Rect) error {
	if err := r.checkSetup(body); err != nil {
		return err
	}
	if len(r.order) >= MaxPlayers {
		return fmt.Errorf("%w: at most %d", ErrTooManyPlayers, MaxPlayers)
	}
	if rect.Degenerate() {
		return fmt.Errorf("%w: %q", ErrDegenerateRect, name)
	}
	for _, p := range r.order {
		if overlapArea(p.rect, rect) > 0 {
			return fmt.Errorf("%w: %q and %q", ErrOverlappingRect, p.name, name)
		}
	}
	if err := r.ledger.Register(name); err != nil {
		return fmt.Errorf("referee: %w", err)
	}

	p := &player{name: name, body: body, rect: rect}
	r.players[body] = p
	r.order = append(r.order, p)
	return nil
}

// Start ends the setup phase. Process and Update may only be called after
// Start has succeeded.
func (r *Referee) Start() error {
	switch {
	case r.started:
		return ErrMatchInProgress
	case r.ball == nil:
		return ErrNoBall
	case r.ground == nil:
		return ErrNoGround
	case len(r.order) < MinPlayers:
		return fmt.Errorf("%w: need %d, have %d", ErrNotEnoughPlayers, MinPlayers, len(r.order))
	}
	r.started = true
	r.logger.Debug("match started", "players", len(r.order), "match_point", r.rules.MatchPoint)
	return nil
}

func (r *Referee) checkSetup(b Body) error {
	if r.started {
		return ErrMatchInProgress
	}
	if b == nil {
		return ErrNilBody
	}
	if !comparableBody(b) {
		return fmt.Errorf("%w: %T", ErrBodyIncomparable, b)
	}
	if r.isKnown(b) {
		return ErrBodyRegistered
	}
	return nil
}

func (r *Referee) isKnown(b Body) bool {
	if r.ball != nil && b == Body(r.ball) {
		return true
	}
	if r.ground != nil && b == r.ground {
		return true
	}
	_, ok := r.players[b]
	return ok
}

func overlapArea(a, b core.Rect) float64 {
	w := min(a.UpperRight.X, b.UpperRight.X) - max(a.LowerLeft.X, b.LowerLeft.X)
	d := min(a.UpperRight.Z, b.UpperRight.Z) - max(a.LowerLeft.Z, b.LowerLeft.Z)
	if w <= 0 || d <= 0 {
		return 0
	}
	return w * d
}

// enter guards against nested calls from collaborators.
func (r *Referee) enter() {
	if !r.started {
		panic(ErrNotStarted)
	}
	if r.busy {
		panic(ErrReentrant)
	}
	r.busy = true
}

func (r *Referee) leave() {
	r.busy = false
}

func (r *Referee) currentTime() time.Duration {
	if r.clock != nil {
		return r.clock.Now()
	}
	return r.now
}

// State returns the current phase.
func (r *Referee) State() State {
	switch {
	case r.gameOver:
		return StateGameOver
	case r.mustResetBall:
		return StateAwaitingReset
	default:
		return StateActive
	}
}

// Rules returns the tunables this referee was built with.
func (r *Referee) Rules() config.RefereeConfig {
	return r.rules
}

// Field returns the field geometry.
func (r *Referee) Field() core.Field {
	return r.field
}

// Ledger returns the match ledger.
func (r *Referee) Ledger() *ledger.Ledger {
	return r.ledger
}

// Players returns the participants in registration order.
func (r *Referee) Players() []PlayerInfo {
	out := make([]PlayerInfo, len(r.order))
	for i, p := range r.order {
		out[i] = PlayerInfo{Name: p.name, Rect: p.rect, Body: p.body}
	}
	return out
}

// LastFieldOwner returns the player whose cell the ball last landed in, or "".
func (r *Referee) LastFieldOwner() string {
	return nameOf(r.lastFieldOwner)
}

// LastTouchedObject returns what last touched the ball.
func (r *Referee) LastTouchedObject() Touch {
	return Touch{Kind: r.lastTouchedKind, Player: nameOf(r.lastTouchedObject)}
}

// LastTouchedPlayer returns the last player to touch the ball, or "".
func (r *Referee) LastTouchedPlayer() string {
	return nameOf(r.lastTouchedPlayer)
}

// FaultTime returns the time of the latest fault. Without a Clock it is
// settled by the Update that follows the fault.
func (r *Referee) FaultTime() time.Duration {
	return r.faultTime
}

// Loser returns the player whose tally reached the match point, or "".
func (r *Referee) Loser() string {
	return r.loser
}

// Resets returns how many fault resets have fired.
func (r *Referee) Resets() int {
	return r.resets
}

// Verdicts returns the critical events of the match in order.
func (r *Referee) Verdicts() []Verdict {
	out := make([]Verdict, len(r.verdicts))
	copy(out, r.verdicts)
	return out
}

func nameOf(p *player) string {
	if p == nil {
		return ""
	}
	return p.name
}
