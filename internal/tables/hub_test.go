package tables

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/quadball/internal/config"
	"github.com/vovakirdan/quadball/internal/playback"
	"github.com/vovakirdan/quadball/internal/referee"
)

const kickOut = `
name: kick out
players:
  - {name: anna, seat: 1}
  - {name: boris, seat: 2}
frames:
  - at: 100ms
    ball: {position: [1.5, 0.1, 1.5]}
    contacts: [[ball, ground]]
  - at: 200ms
    contacts: [[ball, anna]]
  - at: 300ms
    ball: {position: [4, 0.1, 0]}
    contacts: [[ball, ground]]
`

const quiet = `
name: quiet
players:
  - {name: chen, seat: 3}
  - {name: dana, seat: 4}
frames:
  - at: 10s
`

type fakeSaver struct {
	mu      sync.Mutex
	results []MatchResult
	err     error
}

func (s *fakeSaver) SaveMatch(r MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return s.err
}

func mustParse(t *testing.T, src string) *playback.Script {
	t.Helper()
	s, err := playback.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return s
}

func testConfig() Config {
	return Config{Rules: config.DefaultRefereeConfig(), TickRate: 100}
}

func TestRunAllPlaysEveryTable(t *testing.T) {
	rules := config.DefaultRefereeConfig()
	rules.MatchPoint = 2
	hub := NewHub(Config{Rules: rules, TickRate: 100, MaxTables: 1}, nil)
	saver := &fakeSaver{}
	hub.SetResultSaver(saver)

	var mu sync.Mutex
	notices := map[MatchID][]referee.TemplateKey{}
	hub.SetNoticeFunc(func(id MatchID, _ time.Duration, n referee.Notice) {
		mu.Lock()
		notices[id] = append(notices[id], n.Key)
		mu.Unlock()
	})

	results, err := hub.RunAll(context.Background(), []*playback.Script{
		mustParse(t, kickOut),
		mustParse(t, quiet),
	})
	if err != nil {
		t.Fatalf("RunAll() failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, expected 2", len(results))
	}

	if results[0].Script != "kick out" || results[0].Reason != EndReasonGameOver || results[0].Loser != "anna" {
		t.Errorf("first result = %+v", results[0])
	}
	if results[1].Script != "quiet" || results[1].Reason != EndReasonCompleted || len(results[1].Verdicts) != 0 {
		t.Errorf("second result = %+v", results[1])
	}
	if results[0].MatchID == results[1].MatchID || results[0].MatchID == "" {
		t.Error("every table needs its own match id")
	}

	if len(saver.results) != 2 {
		t.Errorf("saved %d results, expected 2", len(saver.results))
	}
	keys := notices[results[0].MatchID]
	if len(keys) != 2 || keys[0] != referee.KeyPlayerKicksOut || keys[1] != referee.KeyGameOver {
		t.Errorf("notices for first table = %v", keys)
	}
	if len(hub.Active()) != 0 {
		t.Errorf("Active() = %v after all tables finished", hub.Active())
	}
}

func TestSaveFailureDoesNotFailTable(t *testing.T) {
	hub := NewHub(testConfig(), nil)
	hub.SetResultSaver(&fakeSaver{err: errors.New("disk full")})

	results, err := hub.RunAll(context.Background(), []*playback.Script{mustParse(t, kickOut)})
	if err != nil {
		t.Fatalf("RunAll() = %v, expected save errors to be logged only", err)
	}
	if len(results[0].Verdicts) != 1 {
		t.Errorf("Verdicts = %+v", results[0].Verdicts)
	}
}

func TestRealtimeTableCancelled(t *testing.T) {
	cfg := testConfig()
	cfg.Realtime = true
	hub := NewHub(cfg, nil)
	saver := &fakeSaver{}
	hub.SetResultSaver(saver)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	results, err := hub.RunAll(ctx, []*playback.Script{mustParse(t, quiet)})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("RunAll() = %v, expected deadline exceeded", err)
	}
	if results[0].Reason != EndReasonCancelled {
		t.Errorf("Reason = %v, expected cancelled", results[0].Reason)
	}
	if results[0].Duration >= 10*time.Second {
		t.Errorf("Duration = %v, the table should stop early", results[0].Duration)
	}
	if len(saver.results) != 0 {
		t.Error("cancelled matches must not be saved")
	}
}

func TestTableStop(t *testing.T) {
	cfg := testConfig()
	cfg.Realtime = true
	hub := NewHub(cfg, nil)

	table, err := hub.Open(mustParse(t, quiet))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, ok := hub.Table(table.ID()); !ok {
		t.Fatal("opened table should be listed")
	}

	done := make(chan error, 1)
	go func() {
		_, err := hub.Play(context.Background(), table)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	hub.Stop()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Play() = %v, expected context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("table did not stop")
	}
	table.Stop() // second stop is a no-op
}

func TestOpenRejectsBadScript(t *testing.T) {
	hub := NewHub(testConfig(), nil)
	lonely := mustParse(t, "players:\n  - {name: solo, seat: 1}\n")

	_, err := hub.RunAll(context.Background(), []*playback.Script{mustParse(t, quiet), lonely})
	if !errors.Is(err, referee.ErrNotEnoughPlayers) {
		t.Fatalf("RunAll() = %v, expected ErrNotEnoughPlayers", err)
	}
	if len(hub.Active()) != 0 {
		t.Error("tables seated before the failure should be closed")
	}
}

func TestEndReasonString(t *testing.T) {
	tests := []struct {
		reason   EndReason
		expected string
	}{
		{EndReasonCompleted, "completed"},
		{EndReasonGameOver, "game_over"},
		{EndReasonCancelled, "cancelled"},
		{EndReason(99), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.reason.String(); got != tc.expected {
			t.Errorf("EndReason(%d).String() = %q, expected %q", tc.reason, got, tc.expected)
		}
	}
}
