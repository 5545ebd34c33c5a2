package ledger

import (
	"errors"
	"testing"

	"github.com/vovakirdan/quadball/internal/core"
)

func newLedger(t *testing.T, names ...string) *Ledger {
	t.Helper()
	l := New()
	for _, n := range names {
		if err := l.Register(n); err != nil {
			t.Fatalf("Register(%q) failed: %v", n, err)
		}
	}
	return l
}

func TestRegisterErrors(t *testing.T) {
	l := newLedger(t, "anna")

	if err := l.Register(""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Register(\"\") = %v, expected ErrEmptyName", err)
	}
	if err := l.Register("anna"); !errors.Is(err, ErrDuplicatePlayer) {
		t.Errorf("Register(duplicate) = %v, expected ErrDuplicatePlayer", err)
	}
}

func TestAddPoint(t *testing.T) {
	l := newLedger(t, "anna", "boris")
	l.IncrementCombo("anna", core.Zero)

	if got := l.AddPoint("anna"); got != 1 {
		t.Errorf("AddPoint() = %d, expected 1", got)
	}
	if l.Score("anna") != 1 {
		t.Errorf("Score(anna) = %d, expected 1", l.Score("anna"))
	}
	if l.ComboLength() != 0 {
		t.Errorf("ComboLength() = %d, expected combo reset after a point", l.ComboLength())
	}
}

func TestAddPointUnknownPlayer(t *testing.T) {
	l := newLedger(t, "anna")
	if got := l.AddPoint("ghost"); got != 0 {
		t.Errorf("AddPoint(unknown) = %d, expected 0", got)
	}
	if len(l.Standings()) != 1 {
		t.Error("unknown player should not be added to standings")
	}
}

func TestAddTotalPointsCountsOpponentTouches(t *testing.T) {
	l := newLedger(t, "anna", "boris")

	// boris juggles three times, anna touches once, then anna is charged
	l.IncrementCombo("boris", core.Zero)
	l.IncrementCombo("boris", core.Zero)
	l.IncrementCombo("boris", core.Zero)
	l.IncrementCombo("anna", core.Zero)

	if got := l.AddTotalPoints("anna"); got != 4 {
		t.Errorf("AddTotalPoints() = %d, expected 1 + 3 opponent touches", got)
	}
	if l.Score("anna") != 4 || l.Score("boris") != 0 {
		t.Errorf("scores = anna %d, boris %d; expected 4, 0", l.Score("anna"), l.Score("boris"))
	}
	if l.ComboLength() != 0 || l.Streak("boris") != 0 {
		t.Error("combo should reset after AddTotalPoints")
	}
}

func TestAddSelfTotalPointsCountsOwnStreak(t *testing.T) {
	l := newLedger(t, "anna", "boris")

	l.IncrementCombo("boris", core.Zero)
	l.IncrementCombo("anna", core.Zero)
	l.IncrementCombo("anna", core.Zero)

	if got := l.AddSelfTotalPoints("anna"); got != 3 {
		t.Errorf("AddSelfTotalPoints() = %d, expected 1 + own streak 2", got)
	}
	if l.ComboLength() != 0 {
		t.Error("combo should reset after AddSelfTotalPoints")
	}
}

func TestAwardWithoutCombo(t *testing.T) {
	l := newLedger(t, "anna")
	if got := l.AddTotalPoints("anna"); got != 1 {
		t.Errorf("AddTotalPoints() with no combo = %d, expected 1", got)
	}
	if got := l.AddSelfTotalPoints("anna"); got != 1 {
		t.Errorf("AddSelfTotalPoints() with no combo = %d, expected 1", got)
	}
}

func TestResetOwnComboKeepsChain(t *testing.T) {
	l := newLedger(t, "anna", "boris")

	l.IncrementCombo("anna", core.V(1, 0, 1))
	l.IncrementCombo("boris", core.V(-1, 0, 1))
	l.IncrementCombo("boris", core.V(-1, 0, 1))
	l.ResetOwnCombo("boris")

	if l.Streak("boris") != 0 {
		t.Errorf("Streak(boris) = %d, expected 0", l.Streak("boris"))
	}
	if l.Streak("anna") != 1 {
		t.Errorf("Streak(anna) = %d, expected 1 (untouched)", l.Streak("anna"))
	}
	if l.ComboLength() != 3 {
		t.Errorf("ComboLength() = %d, expected 3", l.ComboLength())
	}
	if l.ComboOwner() != "boris" {
		t.Errorf("ComboOwner() = %q, expected boris", l.ComboOwner())
	}
	if len(l.Trail()) != 3 {
		t.Errorf("Trail() has %d points, expected 3", len(l.Trail()))
	}
}

func TestResetCombo(t *testing.T) {
	l := newLedger(t, "anna")
	l.IncrementCombo("anna", core.Zero)
	l.ResetCombo()

	if l.ComboLength() != 0 || l.ComboOwner() != "" || l.Streak("anna") != 0 || len(l.Trail()) != 0 {
		t.Error("ResetCombo() should clear length, owner, streaks and trail")
	}
}

func TestMostScore(t *testing.T) {
	l := newLedger(t, "anna", "boris", "chen")

	if name, score := l.MostScore(); name != "anna" || score != 0 {
		t.Errorf("MostScore() on fresh ledger = (%q, %d), expected (anna, 0)", name, score)
	}

	l.AddPoint("chen")
	l.AddPoint("boris")
	l.AddPoint("chen")

	if name, score := l.MostScore(); name != "chen" || score != 2 {
		t.Errorf("MostScore() = (%q, %d), expected (chen, 2)", name, score)
	}

	l.AddPoint("boris")
	if name, _ := l.MostScore(); name != "boris" {
		t.Errorf("MostScore() tie = %q, expected boris (registered before chen)", name)
	}

	if name, score := New().MostScore(); name != "" || score != 0 {
		t.Errorf("MostScore() on empty ledger = (%q, %d)", name, score)
	}
}

func TestStandingsOrder(t *testing.T) {
	l := newLedger(t, "anna", "boris", "chen")
	l.AddPoint("boris")
	l.AddPoint("boris")
	l.AddPoint("chen")

	got := l.Standings()
	expected := []Standing{{"boris", 2}, {"chen", 1}, {"anna", 0}}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Standings()[%d] = %+v, expected %+v", i, got[i], expected[i])
		}
	}
}

func TestScoresNeverDecrease(t *testing.T) {
	l := newLedger(t, "anna", "boris")
	prev := map[string]int{}

	ops := []func(){
		func() { l.IncrementCombo("anna", core.Zero) },
		func() { l.AddTotalPoints("boris") },
		func() { l.IncrementCombo("boris", core.Zero) },
		func() { l.ResetOwnCombo("boris") },
		func() { l.AddSelfTotalPoints("anna") },
		func() { l.ResetCombo() },
		func() { l.AddPoint("anna") },
	}

	for i, op := range ops {
		op()
		for _, name := range l.Players() {
			if l.Score(name) < prev[name] {
				t.Fatalf("step %d: score of %s dropped from %d to %d", i, name, prev[name], l.Score(name))
			}
			prev[name] = l.Score(name)
		}
	}
}
