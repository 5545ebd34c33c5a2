package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	cfg := embeddedDefault()
	if cfg.Referee != DefaultRefereeConfig() {
		t.Errorf("embedded referee config = %+v, expected %+v", cfg.Referee, DefaultRefereeConfig())
	}
	if cfg.Server.IdleTimeout != 30*time.Minute {
		t.Errorf("IdleTimeout = %v, expected 30m", cfg.Server.IdleTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestRefereeValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RefereeConfig)
		want   error
	}{
		{"defaults", func(*RefereeConfig) {}, nil},
		{"zero match point", func(c *RefereeConfig) { c.MatchPoint = 0 }, ErrMatchPoint},
		{"negative match point", func(c *RefereeConfig) { c.MatchPoint = -3 }, ErrMatchPoint},
		{"zero reset delay", func(c *RefereeConfig) { c.ResetDelay = 0 }, ErrResetDelay},
		{"zero field", func(c *RefereeConfig) { c.FieldHalfExtent = 0 }, ErrFieldSize},
		{"negative line", func(c *RefereeConfig) { c.LineWeight = -0.1 }, ErrLineWeight},
		{"line eats the cell", func(c *RefereeConfig) { c.LineWeight = 1.5 }, ErrLineWeight},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultRefereeConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, expected nil", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("Validate() = %v, expected %v", err, tc.want)
			}
		})
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
referee:
  match_point: 11
  reset_delay: 1500ms
playback:
  tick_rate: 30
`))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if cfg.Referee.MatchPoint != 11 {
		t.Errorf("MatchPoint = %d, expected 11", cfg.Referee.MatchPoint)
	}
	if cfg.Referee.ResetDelay != 1500*time.Millisecond {
		t.Errorf("ResetDelay = %v, expected 1.5s", cfg.Referee.ResetDelay)
	}
	if cfg.Referee.LineWeight != 0.2 {
		t.Errorf("LineWeight = %v, expected default 0.2", cfg.Referee.LineWeight)
	}
	if cfg.Playback.TickRate != 30 {
		t.Errorf("TickRate = %d, expected 30", cfg.Playback.TickRate)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	_, err := Parse([]byte("referee:\n  match_point: 0\n"))
	if !errors.Is(err, ErrMatchPoint) {
		t.Errorf("Parse() = %v, expected ErrMatchPoint", err)
	}

	_, err = Parse([]byte("playback:\n  tick_rate: -1\n"))
	if !errors.Is(err, ErrTickRate) {
		t.Errorf("Parse() = %v, expected ErrTickRate", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("referee:\n  match_point: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Referee.MatchPoint != 5 {
		t.Errorf("MatchPoint = %d, expected 5", cfg.Referee.MatchPoint)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("referee:\n  match_point: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrMatchPoint) {
		t.Errorf("Load() = %v, expected ErrMatchPoint", err)
	}
	if err != nil && !strings.Contains(err.Error(), path) {
		t.Errorf("error %q should name the file", err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(DefaultConfig())
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if !strings.Contains(string(data), "reset_delay: 1s") {
		t.Errorf("marshaled config should render durations as strings:\n%s", data)
	}
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal()) failed: %v", err)
	}
	if cfg.Referee != DefaultRefereeConfig() {
		t.Errorf("round trip referee config = %+v", cfg.Referee)
	}
}

func TestExpandHome(t *testing.T) {
	got, err := ExpandHome("/abs/path.db")
	if err != nil || got != "/abs/path.db" {
		t.Errorf("ExpandHome(abs) = %q, %v", got, err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err = ExpandHome("~/x.db")
	if err != nil {
		t.Fatalf("ExpandHome() failed: %v", err)
	}
	if got != filepath.Join(home, "x.db") {
		t.Errorf("ExpandHome(~/x.db) = %q", got)
	}
}
