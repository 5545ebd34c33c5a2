// quadball officiates four-square ball matches from recorded contact scripts.
//
// Usage:
//
//	quadball run <script>...       - Referee scripts headless, several tables at once
//	quadball watch <script>        - Watch a replay in the terminal
//	quadball serve [script]...     - Serve replays to SSH spectators
//	quadball results [match-id]    - Show stored match results
//	quadball config                - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Configuration file (default: search order)
//	--db <path>         - Results database (default from config)
//	--log-level <lvl>   - debug, info, warn or error
//	--lang <path>       - Message catalog overriding the English one
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/quadball/internal/config"
	"github.com/vovakirdan/quadball/internal/lang"
	"github.com/vovakirdan/quadball/internal/playback"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagLang     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "quadball",
	Short: "quadball - referee for four-square ball matches",
	Long: `quadball replays recorded contact scripts through the match referee:
it charges faults, tracks combos, resets the ball and decides who reached
the match point.

Available commands:
  run      - Referee one or more scripts and store the results
  watch    - Watch a replay with a live field view
  serve    - Start an SSH server for spectators
  results  - Show stored match results and player stats
  config   - Print the effective configuration

Examples:
  quadball run scripts/rally.yaml scripts/four_players.yaml
  quadball watch scripts/rally.yaml
  quadball serve scripts/*.yaml
  quadball results --player anna`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to results database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLang, "lang", "", "Path to a message catalog YAML")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(configCmd)
}

// fail prints the error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the configuration and applies global flag overrides.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg
}

func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "quadball",
	})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", cfg.Log.Level)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func loadCatalog() *lang.Catalog {
	catalog, err := lang.Load(flagLang)
	if err != nil {
		fail("%v", err)
	}
	return catalog
}

func loadScripts(paths []string) []*playback.Script {
	scripts := make([]*playback.Script, 0, len(paths))
	for _, p := range paths {
		s, err := playback.Load(p)
		if err != nil {
			fail("%v", err)
		}
		scripts = append(scripts, s)
	}
	return scripts
}
