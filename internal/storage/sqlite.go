// Package storage provides SQLite-based persistence for match results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/quadball/internal/config"
	"github.com/vovakirdan/quadball/internal/referee"
	"github.com/vovakirdan/quadball/internal/tables"
)

// Store manages the SQLite database connection for match history.
type Store struct {
	db *sql.DB
}

// MatchRecord is one stored match.
type MatchRecord struct {
	ID        int64
	MatchID   string
	Script    string
	EndReason string // "completed", "game_over", "cancelled"
	Loser     string // empty unless the match point was reached
	Resets    int
	MatchTime time.Duration
	StartedAt time.Time
	CreatedAt time.Time

	Scores   []ScoreRow   // highest first
	Verdicts []VerdictRow // only filled by MatchByID
}

// ScoreRow is a player's final tally in a match.
type ScoreRow struct {
	Player string
	Score  int
}

// VerdictRow is one fault of a match.
type VerdictRow struct {
	Seq    int
	Kind   referee.VerdictKind
	Player string
	Points int
	At     time.Duration
}

// PlayerStats aggregates a player's history across matches.
type PlayerStats struct {
	Player      string
	Matches     int
	Losses      int
	TotalPoints int
	WorstScore  int
	Faults      int
	LastPlayed  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := config.ExpandHome(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			script TEXT NOT NULL,
			end_reason TEXT NOT NULL,
			loser TEXT,
			resets INTEGER NOT NULL DEFAULT 0,
			match_ms INTEGER NOT NULL DEFAULT 0,
			started_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_loser ON matches(loser);

		CREATE TABLE IF NOT EXISTS match_scores (
			match_id TEXT NOT NULL REFERENCES matches(match_id),
			player TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (match_id, player)
		);
		CREATE INDEX IF NOT EXISTS idx_match_scores_player ON match_scores(player);

		CREATE TABLE IF NOT EXISTS verdicts (
			match_id TEXT NOT NULL REFERENCES matches(match_id),
			seq INTEGER NOT NULL,
			kind TEXT NOT NULL,
			player TEXT,
			points INTEGER NOT NULL DEFAULT 0,
			at_ms INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (match_id, seq)
		);
		CREATE INDEX IF NOT EXISTS idx_verdicts_player ON verdicts(player);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InsertMatch stores a match with its scores and verdicts in one
// transaction. Returns the ID of the inserted record.
func (s *Store) InsertMatch(rec MatchRecord) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.Exec(
		`INSERT INTO matches (match_id, script, end_reason, loser, resets, match_ms, started_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.MatchID,
		rec.Script,
		rec.EndReason,
		nullable(rec.Loser),
		rec.Resets,
		rec.MatchTime.Milliseconds(),
		rec.StartedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	for _, sc := range rec.Scores {
		if _, err := tx.Exec(
			"INSERT INTO match_scores (match_id, player, score) VALUES (?, ?, ?)",
			rec.MatchID, sc.Player, sc.Score,
		); err != nil {
			return 0, fmt.Errorf("storage: cannot save score of %s: %w", sc.Player, err)
		}
	}

	for _, v := range rec.Verdicts {
		if _, err := tx.Exec(
			`INSERT INTO verdicts (match_id, seq, kind, player, points, at_ms)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			rec.MatchID, v.Seq, v.Kind.String(), nullable(v.Player), v.Points, v.At.Milliseconds(),
		); err != nil {
			return 0, fmt.Errorf("storage: cannot save verdict %d: %w", v.Seq, err)
		}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit match: %w", err)
	}
	return id, nil
}

// SaveMatch implements tables.ResultSaver.
func (s *Store) SaveMatch(result tables.MatchResult) error {
	_, err := s.InsertMatch(RecordFromResult(result))
	return err
}

// Ensure Store implements ResultSaver
var _ tables.ResultSaver = (*Store)(nil)

// RecordFromResult converts a finished table into a storable record.
func RecordFromResult(r tables.MatchResult) MatchRecord {
	rec := MatchRecord{
		MatchID:   string(r.MatchID),
		Script:    r.Script,
		EndReason: r.Reason.String(),
		Loser:     r.Loser,
		Resets:    r.Resets,
		MatchTime: r.Duration,
		StartedAt: r.StartedAt,
	}
	for _, st := range r.Standings {
		rec.Scores = append(rec.Scores, ScoreRow{Player: st.Name, Score: st.Score})
	}
	for _, v := range r.Verdicts {
		rec.Verdicts = append(rec.Verdicts, VerdictRow{
			Seq:    v.Seq,
			Kind:   v.Kind,
			Player: v.Player,
			Points: v.Points,
			At:     v.At,
		})
	}
	return rec
}

const matchColumns = `id, match_id, script, end_reason, loser, resets, match_ms, started_ms, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (MatchRecord, error) {
	var rec MatchRecord
	var loser sql.NullString
	var matchMS, startedMS int64
	var createdAt any

	if err := row.Scan(
		&rec.ID,
		&rec.MatchID,
		&rec.Script,
		&rec.EndReason,
		&loser,
		&rec.Resets,
		&matchMS,
		&startedMS,
		&createdAt,
	); err != nil {
		return rec, err
	}

	rec.Loser = loser.String
	rec.MatchTime = time.Duration(matchMS) * time.Millisecond
	if startedMS != 0 {
		rec.StartedAt = time.UnixMilli(startedMS)
	}
	rec.CreatedAt = parseTimestamp(createdAt)
	return rec, nil
}

// MatchByID retrieves a match with its scores and verdicts.
// Returns nil if the match does not exist.
func (s *Store) MatchByID(matchID string) (*MatchRecord, error) {
	rec, err := scanMatch(s.db.QueryRow(
		"SELECT "+matchColumns+" FROM matches WHERE match_id = ?",
		matchID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}

	if rec.Scores, err = s.scores(rec.MatchID); err != nil {
		return nil, err
	}
	if rec.Verdicts, err = s.verdicts(rec.MatchID); err != nil {
		return nil, err
	}
	return &rec, nil
}

// RecentMatches retrieves the most recently stored matches with their
// scores, newest first.
func (s *Store) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		"SELECT "+matchColumns+" FROM matches ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}

	var records []MatchRecord
	for rows.Next() {
		rec, err := scanMatch(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	rows.Close()

	for i := range records {
		if records[i].Scores, err = s.scores(records[i].MatchID); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Store) scores(matchID string) ([]ScoreRow, error) {
	rows, err := s.db.Query(
		`SELECT player, score FROM match_scores
		 WHERE match_id = ?
		 ORDER BY score DESC, rowid ASC`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreRow
	for rows.Next() {
		var sc ScoreRow
		if err := rows.Scan(&sc.Player, &sc.Score); err != nil {
			return nil, fmt.Errorf("storage: cannot scan score: %w", err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

func (s *Store) verdicts(matchID string) ([]VerdictRow, error) {
	rows, err := s.db.Query(
		`SELECT seq, kind, player, points, at_ms FROM verdicts
		 WHERE match_id = ?
		 ORDER BY seq`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query verdicts: %w", err)
	}
	defer rows.Close()

	var out []VerdictRow
	for rows.Next() {
		var v VerdictRow
		var kind string
		var player sql.NullString
		var atMS int64
		if err := rows.Scan(&v.Seq, &kind, &player, &v.Points, &atMS); err != nil {
			return nil, fmt.Errorf("storage: cannot scan verdict: %w", err)
		}
		v.Kind = referee.ParseVerdictKind(kind)
		v.Player = player.String
		v.At = time.Duration(atMS) * time.Millisecond
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// PlayerStats aggregates a player's stored history. A player with no
// matches gets zero stats.
func (s *Store) PlayerStats(player string) (*PlayerStats, error) {
	stats := &PlayerStats{Player: player}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(score), 0), COALESCE(MAX(score), 0)
		 FROM match_scores WHERE player = ?`,
		player,
	).Scan(&stats.Matches, &stats.TotalPoints, &stats.WorstScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player stats: %w", err)
	}

	if err := s.db.QueryRow(
		"SELECT COUNT(*) FROM matches WHERE loser = ?", player,
	).Scan(&stats.Losses); err != nil {
		return nil, fmt.Errorf("storage: cannot count losses: %w", err)
	}

	if err := s.db.QueryRow(
		"SELECT COUNT(*) FROM verdicts WHERE player = ?", player,
	).Scan(&stats.Faults); err != nil {
		return nil, fmt.Errorf("storage: cannot count faults: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT m.created_at FROM matches m
		 JOIN match_scores sc ON sc.match_id = m.match_id
		 WHERE sc.player = ?
		 ORDER BY m.id DESC LIMIT 1`,
		player,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// parseTimestamp handles both time.Time and string values for DATETIME
// columns.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
