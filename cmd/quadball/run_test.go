package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/quadball/internal/config"
	"github.com/vovakirdan/quadball/internal/lang"
	"github.com/vovakirdan/quadball/internal/playback"
	"github.com/vovakirdan/quadball/internal/tables"
)

const landing = `
name: landing
players:
  - {name: anna, seat: 1}
  - {name: boris, seat: 2}
frames:
  - at: 100ms
    ball: {position: [1.2, 0.1, 1.4]}
    contacts: [[ball, ground]]
`

type fakeStore struct {
	saved  int
	closed int
}

func (s *fakeStore) SaveMatch(tables.MatchResult) error {
	s.saved++
	return nil
}

func (s *fakeStore) Close() error {
	s.closed++
	return nil
}

// useFakeStore swaps the results database for the duration of a test.
func useFakeStore(t *testing.T) *fakeStore {
	t.Helper()
	store := &fakeStore{}
	orig := openStore
	openStore = func(string) (resultStore, error) { return store, nil }
	t.Cleanup(func() { openStore = orig })
	return store
}

func testRunOptions(out io.Writer) runOptions {
	return runOptions{
		Hub:    tables.Config{Rules: config.DefaultRefereeConfig(), TickRate: 100},
		DBPath: "results.db",
		Out:    out,
	}
}

func parseLanding(t *testing.T) []*playback.Script {
	t.Helper()
	s, err := playback.Parse([]byte(landing))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return []*playback.Script{s}
}

func TestRunMatchesSavesAndCloses(t *testing.T) {
	store := useFakeStore(t)
	var out bytes.Buffer

	err := runMatches(context.Background(), testRunOptions(&out), log.New(io.Discard), lang.English(), parseLanding(t))
	if err != nil {
		t.Fatalf("runMatches() failed: %v", err)
	}
	if store.saved != 1 {
		t.Errorf("saved %d matches, expected 1", store.saved)
	}
	if store.closed != 1 {
		t.Errorf("store closed %d times, expected 1", store.closed)
	}
	if !strings.Contains(out.String(), "anna: 0") {
		t.Errorf("output missing standings:\n%s", out.String())
	}
}

func TestRunMatchesClosesStoreOnError(t *testing.T) {
	store := useFakeStore(t)
	var out bytes.Buffer

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runMatches(ctx, testRunOptions(&out), log.New(io.Discard), lang.English(), parseLanding(t))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("runMatches() error = %v, expected context.Canceled", err)
	}
	if store.closed != 1 {
		t.Errorf("store closed %d times, expected 1", store.closed)
	}
	if store.saved != 0 {
		t.Errorf("cancelled match was saved")
	}
	if !strings.Contains(out.String(), "cancelled") {
		t.Errorf("output should report the cancelled match:\n%s", out.String())
	}
}

func TestRunMatchesWithoutStore(t *testing.T) {
	store := useFakeStore(t)
	opts := testRunOptions(io.Discard)
	opts.DBPath = ""
	opts.Quiet = true

	if err := runMatches(context.Background(), opts, log.New(io.Discard), lang.English(), parseLanding(t)); err != nil {
		t.Fatalf("runMatches() failed: %v", err)
	}
	if store.saved != 0 || store.closed != 0 {
		t.Errorf("store used with storage disabled: %+v", store)
	}
}
