package referee

import "github.com/vovakirdan/quadball/internal/core"

// TemplateKey names a message template. Formatting happens outside the
// engine, in whatever catalog the presentation layer loads.
type TemplateKey string

// Template keys produced by the referee.
const (
	KeyGameOver          TemplateKey = "game_over"
	KeyPlayerKicksOut    TemplateKey = "player_kicks_out_ball"
	KeyOutFromField      TemplateKey = "out_from_field"
	KeyOutFromMiddleLine TemplateKey = "out_from_middle_line"
	KeyPlayerTouchTwice  TemplateKey = "player_touches_twice"
	KeyHitsCombo         TemplateKey = "hits_combo"
)

// Align is the horizontal alignment hint for a notice.
type Align int

const (
	AlignCenter Align = iota
	AlignLeft
	AlignRight
)

// Notice is a structured match event for on-screen display.
type Notice struct {
	Key           TemplateKey
	Substitutions []string
	Position      core.Vec3 // world position; ignored when Overlay is set
	Color         core.Color
	Align         Align
	Overlay       bool // screen-space message, e.g. game over
}

// Sink receives notices.
type Sink interface {
	Push(n Notice)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notice)

// Push calls f.
func (f SinkFunc) Push(n Notice) {
	f(n)
}

// Recorder is a Sink that keeps every notice in order.
type Recorder struct {
	Notices []Notice
}

// Push appends n.
func (r *Recorder) Push(n Notice) {
	r.Notices = append(r.Notices, n)
}

// Keys returns the template keys recorded so far.
func (r *Recorder) Keys() []TemplateKey {
	keys := make([]TemplateKey, len(r.Notices))
	for i, n := range r.Notices {
		keys[i] = n.Key
	}
	return keys
}

type discardSink struct{}

func (discardSink) Push(Notice) {}
