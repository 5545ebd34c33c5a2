package referee

import (
	"strconv"
	"time"

	"github.com/vovakirdan/quadball/internal/core"
)

// Update advances the reset timer to now. A pending reset fires once now is
// more than the reset delay past the fault. Without a Clock, a fault raised
// by Process is stamped with the now of the Update that follows it.
func (r *Referee) Update(now time.Duration) {
	r.enter()
	defer r.leave()

	r.now = now
	if r.faultPending {
		r.stampFault(now)
	}
	if !r.mustResetBall || r.gameOver {
		return
	}
	if now-r.faultTime > r.rules.ResetDelay {
		r.resetBall()
		r.mustResetBall = false
		r.resets++
	}
}

// criticalEvent ends the match if the leading tally reached the match point,
// otherwise schedules a reset.
func (r *Referee) criticalEvent() {
	r.faultTime = r.currentTime()
	r.faultPending = r.clock == nil

	leader, score := r.ledger.MostScore()
	if score >= r.rules.MatchPoint {
		r.gameOver = true
		r.mustResetBall = false
		r.loser = leader
		r.sink.Push(Notice{
			Key:           KeyGameOver,
			Substitutions: []string{leader, strconv.Itoa(score)},
			Color:         core.ColorRed,
			Align:         AlignCenter,
			Overlay:       true,
		})
		r.logger.Info("game over", "loser", leader, "score", score)
		return
	}

	r.mustResetBall = true
}

// stampFault moves a fault raised without a Clock, and its verdict, to the
// time of the tick it happened in.
func (r *Referee) stampFault(now time.Duration) {
	r.faultTime = now
	r.faultPending = false
	if n := len(r.verdicts); n > 0 {
		r.verdicts[n-1].At = now
	}
}

// resetBall puts the ball back in play and starts a fresh rally. After a
// fault it is thrown from above the cell of whoever lost the ball toward the
// center; otherwise it is dropped from above the center.
func (r *Referee) resetBall() {
	pos := core.V(0, r.rules.ServeHeight, 0)
	vel := core.Zero

	var from *player
	switch r.lastTouchedKind {
	case TouchGround:
		from = r.lastFieldOwner
	case TouchPlayer:
		from = r.lastTouchedPlayer
	}
	if from != nil {
		c := from.rect.Center()
		pos = core.V(c.X, r.rules.ResetHeight, c.Z)
		vel = core.Zero.Sub(pos).Scale(2)
	}

	r.ball.SetTransform(pos, core.Zero)
	r.ball.SetAngularVelocity(core.Zero)
	r.ball.SetVelocity(vel)
	r.logger.Debug("ball reset", "position", pos, "velocity", vel)

	r.lastFieldOwner = nil
	r.lastTouchedKind = TouchNone
	r.lastTouchedObject = nil
	r.lastTouchedPlayer = nil
	r.ledger.ResetCombo()
}
