package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/quadball/internal/storage"
)

var (
	flagLimit  int
	flagPlayer string
)

var resultsCmd = &cobra.Command{
	Use:   "results [match-id]",
	Short: "Show stored match results",
	Long: `Show recent matches from the results database, the full fault list of
one match, or a player's history.

Examples:
  quadball results
  quadball results --limit 5
  quadball results 0b7f7d0e-3c2a-4a4e-9d59-3a1c6a0f2f11
  quadball results --player anna`,
	Args: cobra.MaximumNArgs(1),
	Run:  runResults,
}

func init() {
	resultsCmd.Flags().IntVarP(&flagLimit, "limit", "n", 10, "Number of matches to show")
	resultsCmd.Flags().StringVar(&flagPlayer, "player", "", "Show stats for one player")
}

func runResults(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fail("opening database: %v", err)
	}
	defer store.Close()

	switch {
	case flagPlayer != "":
		showPlayer(store, flagPlayer)
	case len(args) == 1:
		showMatch(store, args[0])
	default:
		showRecent(store, flagLimit)
	}
}

func showRecent(store *storage.Store, limit int) {
	matches, err := store.RecentMatches(limit)
	if err != nil {
		fail("%v", err)
	}
	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		return
	}

	fmt.Printf("  %-8s  %-20s  %-10s  %-10s  %s\n", "MATCH", "SCRIPT", "END", "LOSER", "SCORES")
	fmt.Printf("  %-8s  %-20s  %-10s  %-10s  %s\n", "-----", "------", "---", "-----", "------")
	for _, m := range matches {
		scores := ""
		for i, sc := range m.Scores {
			if i > 0 {
				scores += " "
			}
			scores += fmt.Sprintf("%s:%d", sc.Player, sc.Score)
		}
		loser := m.Loser
		if loser == "" {
			loser = "-"
		}
		fmt.Printf("  %-8s  %-20s  %-10s  %-10s  %s\n",
			shortID(m.MatchID), clip(m.Script, 20), m.EndReason, clip(loser, 10), scores)
	}
}

func showMatch(store *storage.Store, matchID string) {
	m, err := store.MatchByID(matchID)
	if err != nil {
		fail("%v", err)
	}
	if m == nil {
		fail("match %s not found", matchID)
	}

	fmt.Printf("Match %s\n", m.MatchID)
	fmt.Printf("  Script:   %s\n", m.Script)
	fmt.Printf("  Played:   %s\n", m.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("  Ended:    %s after %s\n", m.EndReason, m.MatchTime.Truncate(time.Millisecond))
	fmt.Printf("  Resets:   %d\n", m.Resets)
	if m.Loser != "" {
		fmt.Printf("  Loser:    %s\n", m.Loser)
	}

	fmt.Println()
	fmt.Printf("  %-10s  %s\n", "PLAYER", "SCORE")
	for _, sc := range m.Scores {
		fmt.Printf("  %-10s  %d\n", sc.Player, sc.Score)
	}

	fmt.Println()
	fmt.Printf("  %-4s  %-10s  %-22s  %-10s  %s\n", "#", "AT", "FAULT", "PLAYER", "POINTS")
	for _, v := range m.Verdicts {
		fmt.Printf("  %-4d  %-10s  %-22s  %-10s  +%d\n",
			v.Seq, v.At.Truncate(time.Millisecond), v.Kind, v.Player, v.Points)
	}
}

func showPlayer(store *storage.Store, player string) {
	stats, err := store.PlayerStats(player)
	if err != nil {
		fail("%v", err)
	}
	if stats.Matches == 0 {
		fmt.Printf("No matches recorded for %s.\n", player)
		return
	}

	fmt.Printf("Player %s\n", stats.Player)
	fmt.Printf("  Matches:      %d\n", stats.Matches)
	fmt.Printf("  Losses:       %d\n", stats.Losses)
	fmt.Printf("  Faults:       %d\n", stats.Faults)
	fmt.Printf("  Total points: %d\n", stats.TotalPoints)
	fmt.Printf("  Worst score:  %d\n", stats.WorstScore)
	fmt.Printf("  Last played:  %s\n", stats.LastPlayed.Local().Format("2006-01-02 15:04"))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
