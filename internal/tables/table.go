package tables

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/quadball/internal/playback"
)

// Table is one match in progress.
type Table struct {
	id       MatchID
	session  *playback.Session
	realtime bool
	logger   *log.Logger

	done     chan struct{}
	doneOnce sync.Once
}

// ID returns the match id.
func (t *Table) ID() MatchID {
	return t.id
}

// Session returns the replay driven by this table.
func (t *Table) Session() *playback.Session {
	return t.session
}

// Run drives the session until it finishes, the context is cancelled or
// Stop is called. In real-time mode ticks are paced by the wall clock;
// otherwise the table runs as fast as it can.
func (t *Table) Run(ctx context.Context) (MatchResult, error) {
	defer t.Stop()

	started := time.Now()
	t.logger.Info("table opened", "script", t.session.Script().Name, "players", len(t.session.Players()))

	var err error
	if t.realtime {
		err = t.runPaced(ctx)
	} else {
		err = t.runFast(ctx)
	}

	res := MatchResult{
		MatchID:   t.id,
		StartedAt: started,
		Result:    t.session.Result(),
	}
	switch {
	case err != nil:
		res.Reason = EndReasonCancelled
	case res.GameOver:
		res.Reason = EndReasonGameOver
	default:
		res.Reason = EndReasonCompleted
	}

	t.logger.Info("table closed",
		"reason", res.Reason,
		"loser", res.Loser,
		"faults", len(res.Verdicts),
		"match_time", res.Duration,
	)
	return res, err
}

func (t *Table) runPaced(ctx context.Context) error {
	ticker := time.NewTicker(t.session.Tick())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !t.session.Step() {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		case <-t.done:
			return context.Canceled
		}
	}
}

func (t *Table) runFast(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.done:
			return context.Canceled
		default:
		}
		if !t.session.Step() {
			return nil
		}
	}
}

// Stop ends the table early. It is safe to call more than once.
func (t *Table) Stop() {
	t.doneOnce.Do(func() {
		close(t.done)
	})
}
