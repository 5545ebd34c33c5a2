package tables

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/quadball/internal/config"
	"github.com/vovakirdan/quadball/internal/playback"
	"github.com/vovakirdan/quadball/internal/referee"
)

// Config holds hub settings.
type Config struct {
	Rules     config.RefereeConfig
	TickRate  int  // match ticks per second
	Realtime  bool // pace ticks with the wall clock
	MaxTables int  // concurrent tables, 0 for no limit
}

// ConfigFrom builds hub settings from the loaded configuration.
func ConfigFrom(cfg config.Config) Config {
	return Config{
		Rules:    cfg.Referee,
		TickRate: cfg.Playback.TickRate,
		Realtime: cfg.Playback.Realtime,
	}
}

// NoticeFunc receives every notice raised at any table. It is called from
// the table's goroutine and must be safe for concurrent use.
type NoticeFunc func(id MatchID, at time.Duration, n referee.Notice)

// Hub runs tables concurrently. Each table owns its referee, so tables
// share nothing but the saver and the notice callback.
type Hub struct {
	cfg         Config
	logger      *log.Logger
	resultSaver ResultSaver // optional
	onNotice    NoticeFunc  // optional

	mu     sync.RWMutex
	tables map[MatchID]*Table
}

// NewHub creates a hub. A nil logger discards output.
func NewHub(cfg Config, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		cfg:    cfg,
		logger: logger,
		tables: make(map[MatchID]*Table),
	}
}

// SetResultSaver sets the optional match result saver.
func (h *Hub) SetResultSaver(saver ResultSaver) {
	h.resultSaver = saver
}

// SetNoticeFunc sets the optional notice callback.
func (h *Hub) SetNoticeFunc(fn NoticeFunc) {
	h.onNotice = fn
}

// Open seats a script at a new table without starting it.
func (h *Hub) Open(script *playback.Script) (*Table, error) {
	t := &Table{
		id:       NewMatchID(),
		realtime: h.cfg.Realtime,
		done:     make(chan struct{}),
	}
	t.logger = h.logger.With("table", t.id.Short())

	opts := playback.Options{
		Rules:    h.cfg.Rules,
		TickRate: h.cfg.TickRate,
		Logger:   t.logger,
	}
	if h.onNotice != nil {
		notify := h.onNotice
		opts.Sink = referee.SinkFunc(func(n referee.Notice) {
			notify(t.id, t.session.Now(), n)
		})
	}

	sess, err := playback.NewSession(script, opts)
	if err != nil {
		return nil, fmt.Errorf("tables: cannot seat %s: %w", script.Name, err)
	}
	t.session = sess

	h.mu.Lock()
	h.tables[t.id] = t
	h.mu.Unlock()
	return t, nil
}

// Active returns the ids of open tables.
func (h *Hub) Active() []MatchID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]MatchID, 0, len(h.tables))
	for id := range h.tables {
		ids = append(ids, id)
	}
	return ids
}

// Table looks up an open table.
func (h *Hub) Table(id MatchID) (*Table, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	t, ok := h.tables[id]
	return t, ok
}

// Play runs an opened table to the end, saves the result and closes it.
func (h *Hub) Play(ctx context.Context, t *Table) (MatchResult, error) {
	defer func() {
		h.mu.Lock()
		delete(h.tables, t.id)
		h.mu.Unlock()
	}()

	res, err := t.Run(ctx)
	if err != nil {
		return res, err
	}

	if h.resultSaver != nil {
		if saveErr := h.resultSaver.SaveMatch(res); saveErr != nil {
			// Scoring already happened; a storage failure only loses history.
			t.logger.Warn("cannot save match result", "err", saveErr)
		}
	}
	return res, nil
}

// RunAll seats every script and plays the tables concurrently. Results are
// returned in script order. If any table fails to seat nothing is played;
// if one is cancelled the others are stopped too.
func (h *Hub) RunAll(ctx context.Context, scripts []*playback.Script) ([]MatchResult, error) {
	tables := make([]*Table, 0, len(scripts))
	for _, s := range scripts {
		t, err := h.Open(s)
		if err != nil {
			for _, open := range tables {
				h.close(open)
			}
			return nil, err
		}
		tables = append(tables, t)
	}

	results := make([]MatchResult, len(tables))
	g, gctx := errgroup.WithContext(ctx)
	if h.cfg.MaxTables > 0 {
		g.SetLimit(h.cfg.MaxTables)
	}
	for i, t := range tables {
		g.Go(func() error {
			res, err := h.Play(gctx, t)
			results[i] = res
			return err
		})
	}

	err := g.Wait()
	return results, err
}

func (h *Hub) close(t *Table) {
	t.Stop()
	h.mu.Lock()
	delete(h.tables, t.id)
	h.mu.Unlock()
}

// Stop ends every open table.
func (h *Hub) Stop() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, t := range h.tables {
		t.Stop()
	}
}
