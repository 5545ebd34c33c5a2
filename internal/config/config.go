// Package config provides YAML-based configuration loading and validation
// for the referee engine and the tools around it.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the complete quadball configuration file.
type Config struct {
	Referee  RefereeConfig  `yaml:"referee"`
	Playback PlaybackConfig `yaml:"playback"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
}

// RefereeConfig holds the officiating tunables of a match.
type RefereeConfig struct {
	MatchPoint      int           `yaml:"match_point"`
	ResetDelay      time.Duration `yaml:"reset_delay"`
	LineWeight      float64       `yaml:"line_weight"`
	FieldHalfExtent float64       `yaml:"field_half_extent"`
	ServeHeight     float64       `yaml:"serve_height"`
	ResetHeight     float64       `yaml:"reset_height"`
	ComboNotice     int           `yaml:"combo_notice"`
}

// PlaybackConfig controls how contact scripts are replayed.
type PlaybackConfig struct {
	TickRate int  `yaml:"tick_rate"`
	Realtime bool `yaml:"realtime"` // pace ticks with the wall clock
}

// StorageConfig locates the match results database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// LogConfig selects the log level (debug, info, warn, error).
type LogConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig configures the SSH spectator server.
type ServerConfig struct {
	Address     string        `yaml:"address"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	Scripts     []string      `yaml:"scripts"`
}

// Validation errors.
var (
	ErrMatchPoint = errors.New("config: match_point must be positive")
	ErrResetDelay = errors.New("config: reset_delay must be positive")
	ErrFieldSize  = errors.New("config: field_half_extent must be positive")
	ErrLineWeight = errors.New("config: line_weight must leave room inside each cell")
	ErrTickRate   = errors.New("config: tick_rate must be positive")
)

// Validate checks the referee tunables. Errors here are fatal at setup.
func (c RefereeConfig) Validate() error {
	if c.MatchPoint <= 0 {
		return fmt.Errorf("%w (got %d)", ErrMatchPoint, c.MatchPoint)
	}
	if c.ResetDelay <= 0 {
		return fmt.Errorf("%w (got %s)", ErrResetDelay, c.ResetDelay)
	}
	if c.FieldHalfExtent <= 0 {
		return fmt.Errorf("%w (got %v)", ErrFieldSize, c.FieldHalfExtent)
	}
	// Both strips of a cell are trimmed for the double-touch test.
	if c.LineWeight < 0 || 2*c.LineWeight >= c.FieldHalfExtent {
		return fmt.Errorf("%w (got %v for half extent %v)", ErrLineWeight, c.LineWeight, c.FieldHalfExtent)
	}
	return nil
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := c.Referee.Validate(); err != nil {
		return err
	}
	if c.Playback.TickRate <= 0 {
		return fmt.Errorf("%w (got %d)", ErrTickRate, c.Playback.TickRate)
	}
	return nil
}
