package playback

import "github.com/vovakirdan/quadball/internal/core"

// body is a kinematic stand-in for a physics body.
type body struct {
	name string
	pos  core.Vec3
	vel  core.Vec3
}

func (b *body) Position() core.Vec3 { return b.pos }
func (b *body) Velocity() core.Vec3 { return b.vel }

// ballBody applies the referee's reset commands to itself.
type ballBody struct {
	body
	rot    core.Vec3
	omega  core.Vec3
	resets int
}

func (b *ballBody) SetTransform(pos, rot core.Vec3) {
	b.pos = pos
	b.rot = rot
	b.resets++
}

func (b *ballBody) SetAngularVelocity(v core.Vec3) { b.omega = v }
func (b *ballBody) SetVelocity(v core.Vec3)        { b.vel = v }
