package playback

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/quadball/internal/config"
	"github.com/vovakirdan/quadball/internal/core"
	"github.com/vovakirdan/quadball/internal/ledger"
	"github.com/vovakirdan/quadball/internal/referee"
)

// Event is a notice stamped with the match time it was raised at.
type Event struct {
	At     time.Duration
	Notice referee.Notice
}

// Result summarizes a finished replay.
type Result struct {
	Script    string
	Events    []Event
	Verdicts  []referee.Verdict
	Standings []ledger.Standing
	Loser     string
	GameOver  bool
	Resets    int // fault resets fired by the referee
	Serves    int // transforms applied to the ball, opening serve included
	Duration  time.Duration
}

// Options configures a Session.
type Options struct {
	Rules    config.RefereeConfig
	TickRate int           // ticks per second of match time
	Sink     referee.Sink  // optional, receives every notice as it happens
	Logger   *log.Logger   // optional
	Trespass func(string, core.Vec3)
}

// PlayerView is a player's current state for display.
type PlayerView struct {
	Name     string
	Seat     core.Quadrant
	Rect     core.Rect
	Position core.Vec3
}

// Session replays one script against one referee.
type Session struct {
	script *Script
	rules  config.RefereeConfig
	tick   time.Duration
	end    time.Duration
	sink   referee.Sink
	logger *log.Logger

	ref     *referee.Referee
	ball    *ballBody
	ground  *body
	players map[string]*body
	order   []string
	others  map[string]*body // bodies the referee does not know about

	now    time.Duration
	next   int
	events []Event
}

// NewSession registers the script's bodies with a fresh referee and starts
// the match.
func NewSession(s *Script, opts Options) (*Session, error) {
	if opts.TickRate <= 0 {
		return nil, fmt.Errorf("playback: %w (got %d)", config.ErrTickRate, opts.TickRate)
	}

	sess := &Session{
		script:  s,
		rules:   opts.Rules,
		tick:    time.Second / time.Duration(opts.TickRate),
		sink:    opts.Sink,
		logger:  opts.Logger,
		ball:    &ballBody{body: body{name: BallName}},
		ground:  &body{name: GroundName},
		players: make(map[string]*body),
		others:  make(map[string]*body),
	}
	if sess.logger == nil {
		sess.logger = log.New(io.Discard)
	}
	// Faults land on tick boundaries, so a reset can trail the last frame by
	// the delay plus two ticks.
	sess.end = s.Duration() + opts.Rules.ResetDelay + 2*sess.tick

	ref, err := referee.New(opts.Rules, referee.Options{
		Sink:       referee.SinkFunc(sess.record),
		Clock:      referee.ClockFunc(func() time.Duration { return sess.now }),
		Logger:     sess.logger,
		OnTrespass: opts.Trespass,
	})
	if err != nil {
		return nil, err
	}
	sess.ref = ref

	if err := ref.RegisterGround(sess.ground); err != nil {
		return nil, err
	}
	if err := ref.RegisterBall(sess.ball); err != nil {
		return nil, err
	}
	for _, p := range s.Players {
		rect, err := p.Rect(ref.Field())
		if err != nil {
			return nil, err
		}
		b := &body{name: p.Name, pos: rect.Center()}
		if p.Position != nil {
			b.pos = p.Position.Vec()
		}
		if err := ref.RegisterPlayer(p.Name, b, rect); err != nil {
			return nil, err
		}
		sess.players[p.Name] = b
		sess.order = append(sess.order, p.Name)
	}
	if err := ref.Start(); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Session) record(n referee.Notice) {
	s.events = append(s.events, Event{At: s.now, Notice: n})
	if s.sink != nil {
		s.sink.Push(n)
	}
}

// Step advances one tick: frames due by the new time are applied and their
// contacts processed, then the referee's timer is updated. It reports
// whether the replay can continue.
func (s *Session) Step() bool {
	if s.Done() {
		return false
	}
	s.now += s.tick

	for s.next < len(s.script.Frames) && s.script.Frames[s.next].At <= s.now {
		s.apply(s.script.Frames[s.next])
		s.next++
	}
	s.ref.Update(s.now)
	return !s.Done()
}

func (s *Session) apply(f Frame) {
	if f.Ball != nil {
		if f.Ball.Position != nil {
			s.ball.pos = f.Ball.Position.Vec()
		}
		if f.Ball.Velocity != nil {
			s.ball.vel = f.Ball.Velocity.Vec()
		}
	}
	for name, p := range f.Players {
		s.players[name].pos = p.Vec()
	}
	for _, c := range f.Contacts {
		s.ref.Process(s.lookup(c[0]), s.lookup(c[1]))
	}
}

func (s *Session) lookup(name string) referee.Body {
	switch name {
	case BallName:
		return s.ball
	case GroundName:
		return s.ground
	}
	if b, ok := s.players[name]; ok {
		return b
	}
	b, ok := s.others[name]
	if !ok {
		s.logger.Debug("contact with unregistered body", "body", name)
		b = &body{name: name}
		s.others[name] = b
	}
	return b
}

// Done reports whether the match ended or the script ran out and any
// pending reset has fired.
func (s *Session) Done() bool {
	return s.ref.State() == referee.StateGameOver || s.now >= s.end
}

// Run steps to the end and returns the result.
func (s *Session) Run() Result {
	for s.Step() {
	}
	return s.Result()
}

// Result summarizes the replay so far.
func (s *Session) Result() Result {
	ev := make([]Event, len(s.events))
	copy(ev, s.events)
	return Result{
		Script:    s.script.Name,
		Events:    ev,
		Verdicts:  s.ref.Verdicts(),
		Standings: s.ref.Ledger().Standings(),
		Loser:     s.ref.Loser(),
		GameOver:  s.ref.State() == referee.StateGameOver,
		Resets:    s.ref.Resets(),
		Serves:    s.ball.resets,
		Duration:  s.now,
	}
}

// Now returns the current match time.
func (s *Session) Now() time.Duration { return s.now }

// Tick returns the fixed step length.
func (s *Session) Tick() time.Duration { return s.tick }

// Script returns the script being replayed.
func (s *Session) Script() *Script { return s.script }

// Referee exposes the referee for read access.
func (s *Session) Referee() *referee.Referee { return s.ref }

// Events returns the notices raised so far.
func (s *Session) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// BallPosition returns the ball's current position.
func (s *Session) BallPosition() core.Vec3 { return s.ball.pos }

// Players returns every player's cell and position in seating order.
func (s *Session) Players() []PlayerView {
	out := make([]PlayerView, 0, len(s.order))
	for _, info := range s.ref.Players() {
		out = append(out, PlayerView{
			Name:     info.Name,
			Seat:     core.ClassifyQuadrant(info.Rect.Center()),
			Rect:     info.Rect,
			Position: info.Body.Position(),
		})
	}
	return out
}
