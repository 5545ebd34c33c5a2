package referee

import (
	"strconv"

	"github.com/vovakirdan/quadball/internal/core"
)

// Process handles one newly detected contact between a and b. Argument order
// does not matter. Contacts involving bodies the referee does not know
// (including nil and non-comparable bodies), and every contact while a reset
// is pending or after game over, are ignored.
func (r *Referee) Process(a, b Body) {
	r.enter()
	defer r.leave()

	if r.gameOver || r.mustResetBall || !comparableBody(a) || !comparableBody(b) {
		return
	}

	ball := Body(r.ball)
	switch {
	case a == ball:
		r.processBall(b)
	case b == ball:
		r.processBall(a)
	default:
		if p, ok := r.players[a]; ok && b == r.ground {
			r.processPlayerGround(p)
		} else if p, ok := r.players[b]; ok && a == r.ground {
			r.processPlayerGround(p)
		}
	}
}

func (r *Referee) processBall(other Body) {
	if other == r.ground {
		r.processBallGround()
		return
	}
	if p, ok := r.players[other]; ok {
		r.processBallPlayer(p)
	}
}

func (r *Referee) processBallGround() {
	pos := r.ball.Position()

	if !r.field.InBounds(pos) {
		r.processBallOut(pos)
		return
	}

	r.lastGroundContact = pos
	for _, p := range r.order {
		if r.field.InOwnedRectangle(pos, p.rect, true, false) {
			r.lastFieldOwner = p
			r.lastTouchedKind = TouchGround
			r.lastTouchedObject = nil
			return
		}
	}

	// mid-line: nobody owns the ball
	r.lastFieldOwner = nil
	r.lastTouchedKind = TouchNone
	r.lastTouchedObject = nil
}

func (r *Referee) processBallOut(pos core.Vec3) {
	switch {
	case r.lastTouchedKind == TouchPlayer:
		kicker := r.lastTouchedObject
		points := r.ledger.AddSelfTotalPoints(kicker.name)
		r.notifyFault(KeyPlayerKicksOut, kicker.body.Position(), kicker.name, strconv.Itoa(points))
		r.recordVerdict(VerdictKickedOut, kicker.name, points)

	case r.lastTouchedKind == TouchGround && r.lastFieldOwner != nil:
		owner := r.lastFieldOwner
		var points int
		switch r.lastTouchedPlayer {
		case nil:
			// nobody touched it after it landed in the owner's cell
			points = r.ledger.AddPoint(owner.name)
		case owner:
			points = r.ledger.AddSelfTotalPoints(owner.name)
		default:
			points = r.ledger.AddTotalPoints(owner.name)
		}
		r.notifyFault(KeyOutFromField, pos, owner.name, strconv.Itoa(points))
		r.recordVerdict(VerdictOutFromField, owner.name, points)

	default:
		r.notifyFault(KeyOutFromMiddleLine, pos)
		r.recordVerdict(VerdictOutFromMiddleLine, "", 0)
	}

	r.criticalEvent()
}

func (r *Referee) processBallPlayer(p *player) {
	pos := r.ball.Position()

	switch r.lastTouchedKind {
	case TouchNone:
		r.ledger.ResetCombo()
		r.ledger.IncrementCombo(p.name, pos)

	case TouchGround:
		r.ledger.ResetCombo()
		r.ledger.IncrementCombo(p.name, pos)

		if r.lastFieldOwner == p && r.lastTouchedPlayer == p &&
			r.field.InOwnedRectangle(r.lastGroundContact, p.rect, true, true) {
			points := r.ledger.AddPoint(p.name)
			r.notifyFault(KeyPlayerTouchTwice, p.body.Position(), p.name, strconv.Itoa(points))
			r.recordVerdict(VerdictDoubleTouch, p.name, points)
			r.criticalEvent()
			return
		}

	case TouchPlayer:
		if r.lastTouchedPlayer != p {
			r.ledger.ResetOwnCombo(p.name)
		}
		r.ledger.IncrementCombo(p.name, pos)
	}

	r.lastTouchedKind = TouchPlayer
	r.lastTouchedObject = p
	r.lastTouchedPlayer = p

	if n := r.rules.ComboNotice; n > 0 && r.ledger.ComboLength() >= n {
		r.sink.Push(Notice{
			Key:           KeyHitsCombo,
			Substitutions: []string{strconv.Itoa(r.ledger.ComboLength())},
			Position:      pos,
			Color:         core.ColorYellow,
			Align:         AlignCenter,
		})
	}
}

// processPlayerGround never changes match state. Whether standing in another
// player's cell should be penalized is undecided.
func (r *Referee) processPlayerGround(p *player) {
	pos := p.body.Position()
	if p.rect.Contains(pos) || !r.field.Bounds().Contains(pos) {
		return
	}
	r.logger.Debug("player outside own cell", "player", p.name, "position", pos)
	if r.onTrespass != nil {
		r.onTrespass(p.name, pos)
	}
}

func (r *Referee) notifyFault(key TemplateKey, pos core.Vec3, subs ...string) {
	r.sink.Push(Notice{
		Key:           key,
		Substitutions: subs,
		Position:      pos,
		Color:         core.ColorRed,
		Align:         AlignCenter,
	})
}

func (r *Referee) recordVerdict(kind VerdictKind, name string, points int) {
	v := Verdict{
		Seq:    len(r.verdicts) + 1,
		Kind:   kind,
		Player: name,
		Points: points,
		At:     r.currentTime(),
	}
	r.verdicts = append(r.verdicts, v)
	r.logger.Info("fault", "kind", kind, "player", name, "points", points, "at", v.At)
}
