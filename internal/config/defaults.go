package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/quadball.yaml
var defaultYAML []byte

// DefaultRefereeConfig returns the standard match rules.
func DefaultRefereeConfig() RefereeConfig {
	return RefereeConfig{
		MatchPoint:      21,
		ResetDelay:      time.Second,
		LineWeight:      0.2,
		FieldHalfExtent: 3.0,
		ServeHeight:     4.5,
		ResetHeight:     1.5,
		ComboNotice:     3,
	}
}

// DefaultConfig returns the hard-coded configuration, used when the
// embedded YAML cannot be parsed.
func DefaultConfig() Config {
	return Config{
		Referee: DefaultRefereeConfig(),
		Playback: PlaybackConfig{
			TickRate: 60,
		},
		Storage: StorageConfig{
			Path: "~/.quadball/matches.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Address:     ":23235",
			IdleTimeout: 30 * time.Minute,
		},
	}
}
