package referee

import (
	"reflect"
	"time"

	"github.com/vovakirdan/quadball/internal/core"
)

// Body is a physical object owned by the simulation. The referee only reads
// it. Handles are matched by identity, so implementations should be pointer
// types. Registering a body whose value is not comparable fails, and such
// bodies are ignored by Process.
type Body interface {
	Position() core.Vec3
	Velocity() core.Vec3
}

// Ball is the one body the referee may move, through the reset procedure.
type Ball interface {
	Body
	SetTransform(position, rotation core.Vec3)
	SetAngularVelocity(v core.Vec3)
	SetVelocity(v core.Vec3)
}

// Clock reports the current match time. It stamps faults raised during
// Process calls.
type Clock interface {
	Now() time.Duration
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Duration

// Now calls f.
func (f ClockFunc) Now() time.Duration {
	return f()
}

// comparableBody reports whether b can be used as a map key without
// panicking.
func comparableBody(b Body) bool {
	return b != nil && reflect.ValueOf(b).Comparable()
}
