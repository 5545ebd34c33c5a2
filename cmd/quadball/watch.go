package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/quadball/internal/platform/tui"
	"github.com/vovakirdan/quadball/internal/playback"
)

var watchCmd = &cobra.Command{
	Use:   "watch <script>",
	Short: "Watch a replay in the terminal",
	Long: `Replay a script with a live top-down view of the field, the standings
and the referee's notices.

Controls:
  space/p   - Pause or resume
  n/right   - Step one tick while paused
  +/-       - Change replay speed
  r         - Restart
  ?         - Toggle help
  q/esc     - Quit

Examples:
  quadball watch scripts/rally.yaml
  quadball watch scripts/four_players.yaml --config myrules.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	catalog := loadCatalog()
	script := loadScripts(args)[0]

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}

	opts := playback.Options{
		Rules:    cfg.Referee,
		TickRate: cfg.Playback.TickRate,
	}
	if err := tui.Watch(script, opts, catalog, width, height); err != nil {
		fail("%v", err)
	}
}
