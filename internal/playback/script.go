// Package playback replays recorded contact scripts through a referee.
// It stands in for the physics simulation: a script lists timed frames of
// body positions and the contact pairs detected in them.
package playback

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/quadball/internal/config"
	"github.com/vovakirdan/quadball/internal/core"
)

// Reserved body names in contact pairs.
const (
	BallName   = "ball"
	GroundName = "ground"
)

// Script errors.
var (
	ErrNoPlayers      = errors.New("playback: script has no players")
	ErrPlayerName     = errors.New("playback: invalid player name")
	ErrPlayerCell     = errors.New("playback: player needs a seat or corners")
	ErrFrameOrder     = errors.New("playback: frames must be in time order")
	ErrUnknownPlayer  = errors.New("playback: frame moves an unknown player")
	ErrBadPoint       = errors.New("playback: point needs 2 or 3 coordinates")
	ErrNegativeOffset = errors.New("playback: frame time is negative")
)

// Point is a world position written as [x, y, z] or, on the ground plane,
// as [x, z].
type Point core.Vec3

// UnmarshalYAML decodes a 2 or 3 element sequence.
func (p *Point) UnmarshalYAML(node *yaml.Node) error {
	var xs []float64
	if err := node.Decode(&xs); err != nil {
		return err
	}
	switch len(xs) {
	case 2:
		*p = Point{X: xs[0], Z: xs[1]}
	case 3:
		*p = Point{X: xs[0], Y: xs[1], Z: xs[2]}
	default:
		return fmt.Errorf("%w (line %d)", ErrBadPoint, node.Line)
	}
	return nil
}

// MarshalYAML writes the point as [x, y, z].
func (p Point) MarshalYAML() (any, error) {
	return []float64{p.X, p.Y, p.Z}, nil
}

// Vec returns p as a core vector.
func (p Point) Vec() core.Vec3 {
	return core.Vec3(p)
}

// PlayerSpec seats a player. The cell is either a quadrant seat (1..4) or
// explicit corners on the ground plane.
type PlayerSpec struct {
	Name       string `yaml:"name"`
	Seat       int    `yaml:"seat,omitempty"`
	LowerLeft  *Point `yaml:"lower_left,omitempty"`
	UpperRight *Point `yaml:"upper_right,omitempty"`
	Position   *Point `yaml:"position,omitempty"` // defaults to the cell center
}

// Rect resolves the player's cell on field f.
func (p PlayerSpec) Rect(f core.Field) (core.Rect, error) {
	switch {
	case p.LowerLeft != nil && p.UpperRight != nil:
		return core.NewRect(p.LowerLeft.X, p.LowerLeft.Z, p.UpperRight.X, p.UpperRight.Z), nil
	case p.Seat >= 1 && p.Seat <= 4:
		return f.QuadrantRect(core.Quadrant(p.Seat)), nil
	default:
		return core.Rect{}, fmt.Errorf("%w: %q", ErrPlayerCell, p.Name)
	}
}

// BallFrame sets the ball's state. Nil fields keep the previous value.
type BallFrame struct {
	Position *Point `yaml:"position,omitempty"`
	Velocity *Point `yaml:"velocity,omitempty"`
}

// Frame is the world at one instant plus the contacts detected in it.
type Frame struct {
	At       time.Duration    `yaml:"at"`
	Ball     *BallFrame       `yaml:"ball,omitempty"`
	Players  map[string]Point `yaml:"players,omitempty"`
	Contacts [][2]string      `yaml:"contacts,omitempty"`
}

// Script is a recorded match.
type Script struct {
	Name    string       `yaml:"name"`
	Players []PlayerSpec `yaml:"players"`
	Frames  []Frame      `yaml:"frames"`
}

// Duration returns the time of the last frame.
func (s *Script) Duration() time.Duration {
	if len(s.Frames) == 0 {
		return 0
	}
	return s.Frames[len(s.Frames)-1].At
}

// Validate checks names, cells and frame ordering. Cell overlap is left to
// the referee.
func (s *Script) Validate() error {
	if len(s.Players) == 0 {
		return ErrNoPlayers
	}

	names := make(map[string]bool, len(s.Players))
	for _, p := range s.Players {
		if p.Name == "" || p.Name == BallName || p.Name == GroundName {
			return fmt.Errorf("%w: %q", ErrPlayerName, p.Name)
		}
		if names[p.Name] {
			return fmt.Errorf("%w: %q is listed twice", ErrPlayerName, p.Name)
		}
		names[p.Name] = true
		if _, err := p.Rect(core.Field{HalfExtent: 1}); err != nil {
			return err
		}
	}

	var last time.Duration
	for i, f := range s.Frames {
		if f.At < 0 {
			return fmt.Errorf("%w: frame %d", ErrNegativeOffset, i)
		}
		if f.At < last {
			return fmt.Errorf("%w: frame %d at %s follows %s", ErrFrameOrder, i, f.At, last)
		}
		last = f.At
		for name := range f.Players {
			if !names[name] {
				return fmt.Errorf("%w: %q in frame %d", ErrUnknownPlayer, name, i)
			}
		}
	}
	return nil
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("playback: cannot parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a script file. The script name defaults to the file path.
func Load(path string) (*Script, error) {
	expanded, err := config.ExpandHome(path)
	if err != nil {
		return nil, fmt.Errorf("playback: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("playback: cannot read script %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}
