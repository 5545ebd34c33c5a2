package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/quadball/internal/lang"
	"github.com/vovakirdan/quadball/internal/playback"
	"github.com/vovakirdan/quadball/internal/referee"
	"github.com/vovakirdan/quadball/internal/storage"
	"github.com/vovakirdan/quadball/internal/tables"
)

var (
	flagRealtime  bool
	flagNoStore   bool
	flagMaxTables int
	flagQuiet     bool
)

var runCmd = &cobra.Command{
	Use:   "run <script>...",
	Short: "Referee contact scripts",
	Long: `Replay each script at its own table, all tables concurrently, and
print the referee's notices as they happen. Finished matches are stored
in the results database.

Examples:
  quadball run scripts/rally.yaml
  quadball run scripts/*.yaml --max-tables 2
  quadball run scripts/rally.yaml --realtime
  quadball run scripts/rally.yaml --no-store --quiet`,
	Args: cobra.MinimumNArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagRealtime, "realtime", false, "Pace matches with the wall clock")
	runCmd.Flags().BoolVar(&flagNoStore, "no-store", false, "Do not save results")
	runCmd.Flags().IntVar(&flagMaxTables, "max-tables", 0, "Maximum concurrent tables (0 = all)")
	runCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only print the final standings")
}

// resultStore is the part of the results database run needs.
type resultStore interface {
	tables.ResultSaver
	Close() error
}

var openStore = func(path string) (resultStore, error) {
	return storage.Open(path)
}

// runOptions configures runMatches.
type runOptions struct {
	Hub    tables.Config
	DBPath string // empty disables storage
	Quiet  bool
	Out    io.Writer
}

func runRun(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)
	catalog := loadCatalog()
	scripts := loadScripts(args)

	opts := runOptions{
		Hub:    tables.ConfigFrom(cfg),
		DBPath: cfg.Storage.Path,
		Quiet:  flagQuiet,
		Out:    os.Stdout,
	}
	opts.Hub.MaxTables = flagMaxTables
	if cmd.Flags().Changed("realtime") {
		opts.Hub.Realtime = flagRealtime
	}
	if flagNoStore {
		opts.DBPath = ""
	}

	if err := runMatches(context.Background(), opts, logger, catalog, scripts); err != nil {
		fail("%v", err)
	}
}

// runMatches plays the scripts and prints their results. Everything it opens
// is released before it returns.
func runMatches(ctx context.Context, opts runOptions, logger *log.Logger, catalog *lang.Catalog, scripts []*playback.Script) error {
	hub := tables.NewHub(opts.Hub, logger)

	if opts.DBPath != "" {
		store, err := openStore(opts.DBPath)
		if err != nil {
			// Matches still run, they just aren't kept
			logger.Warn("could not open results database", "err", err)
		} else {
			defer store.Close()
			hub.SetResultSaver(store)
		}
	}

	if !opts.Quiet {
		var mu sync.Mutex
		hub.SetNoticeFunc(func(id tables.MatchID, at time.Duration, n referee.Notice) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(opts.Out, "[%s %8s] %s\n", id.Short(), at.Truncate(time.Millisecond), catalog.Render(n))
		})
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := hub.RunAll(ctx, scripts)
	for _, r := range results {
		if r.MatchID == "" {
			continue // never started
		}
		printResult(opts.Out, r, catalog)
	}
	return err
}

func printResult(w io.Writer, r tables.MatchResult, catalog *lang.Catalog) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s  (%s)\n", r.Script, r.MatchID)
	fmt.Fprintf(w, "  %s after %s, %d faults, %d resets\n",
		r.Reason, r.Duration.Truncate(time.Millisecond), len(r.Verdicts), r.Resets)
	for _, st := range r.Standings {
		line := catalog.Format(lang.KeyScore, st.Name, strconv.Itoa(st.Score))
		if st.Name == r.Loser {
			line += "  <- reached match point"
		}
		fmt.Fprintln(w, "  "+line)
	}
}
