package ledger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"rps-lite/config"
)

func newTestSQLite(t *testing.T, limit int) *SQLService {
	t.Helper()
	s, err := NewSQLiteService(filepath.Join(t.TempDir(), "nested", "ledger.db"), limit)
	if err != nil {
		t.Fatalf("NewSQLiteService err: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRecord(id string, ended time.Time) SessionRecord {
	return SessionRecord{
		SessionID:    id,
		Persona:      "counter",
		Reason:       "quit",
		GamesPlayed:  3,
		GamesUserWon: 1,
		Tally:        map[string]int{"Rock": 2, "Paper": 1, "Scissors": 0},
		StartedAt:    ended.Add(-time.Minute),
		EndedAt:      ended,
	}
}

func TestSQLite_RecordAndReadBack(t *testing.T) {
	s := newTestSQLite(t, 10)
	ctx := context.Background()
	ended := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := sampleRecord("sess_a", ended)
	events := []EventItem{
		{Seq: 1, EventType: "sessionStart", EnvelopeB64: "AAA="},
		{Seq: 2, EventType: "round", EnvelopeB64: "BBB="},
		{Seq: 3, EventType: "sessionEnd", EnvelopeB64: "CCC="},
	}

	if err := s.RecordSession(ctx, rec, events); err != nil {
		t.Fatalf("RecordSession err: %v", err)
	}

	recent, err := s.ListRecent(ctx, 0)
	if err != nil {
		t.Fatalf("ListRecent err: %v", err)
	}
	if diff := cmp.Diff([]SessionRecord{rec}, recent); diff != "" {
		t.Fatalf("recent mismatch (-want +got):\n%s", diff)
	}

	got, err := s.GetSessionEvents(ctx, "sess_a")
	if err != nil {
		t.Fatalf("GetSessionEvents err: %v", err)
	}
	if diff := cmp.Diff(events, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLite_RecordIsIdempotentPerSession(t *testing.T) {
	s := newTestSQLite(t, 10)
	ctx := context.Background()
	ended := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := s.RecordSession(ctx, sampleRecord("sess_a", ended), []EventItem{{Seq: 1, EventType: "a"}, {Seq: 2, EventType: "b"}}); err != nil {
		t.Fatal(err)
	}
	updated := sampleRecord("sess_a", ended)
	updated.GamesPlayed = 5
	if err := s.RecordSession(ctx, updated, []EventItem{{Seq: 1, EventType: "a"}}); err != nil {
		t.Fatal(err)
	}

	recent, err := s.ListRecent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].GamesPlayed != 5 {
		t.Fatalf("expected a single updated record, got %+v", recent)
	}
	events, err := s.GetSessionEvents(ctx, "sess_a")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("expected events to be replaced, got %d", len(events))
	}
}

func TestSQLite_TrimsToRecentLimit(t *testing.T) {
	s := newTestSQLite(t, 2)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		id := fmt.Sprintf("sess_%d", i)
		if err := s.RecordSession(ctx, sampleRecord(id, base.Add(time.Duration(i)*time.Minute)), []EventItem{{Seq: 1, EventType: "round"}}); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := s.ListRecent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, r := range recent {
		ids = append(ids, r.SessionID)
	}
	if diff := cmp.Diff([]string{"sess_3", "sess_2"}, ids); diff != "" {
		t.Fatalf("recent ids mismatch (-want +got):\n%s", diff)
	}
	if _, err := s.GetSessionEvents(ctx, "sess_0"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected trimmed session to be gone, got %v", err)
	}
}

func TestSQLite_UnknownSessionIsNotFound(t *testing.T) {
	s := newTestSQLite(t, 10)
	if _, err := s.GetSessionEvents(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.RecordSession(context.Background(), SessionRecord{}, nil); err == nil {
		t.Fatalf("expected empty session id to fail")
	}
}

func TestRebind_Postgres(t *testing.T) {
	s := &SQLService{dialect: dialectPostgres}
	got := s.rebind(`SELECT a FROM t WHERE b = ? AND c = ?`)
	if got != `SELECT a FROM t WHERE b = $1 AND c = $2` {
		t.Fatalf("unexpected rebind: %s", got)
	}
	s.dialect = dialectSQLite
	if s.rebind(`x = ?`) != `x = ?` {
		t.Fatalf("sqlite queries must not be rewritten")
	}
}

func TestNewServiceFromConfig(t *testing.T) {
	svc, mode, err := NewServiceFromConfig(config.Config{LedgerMode: config.LedgerModeMemory})
	if err != nil || mode != "memory-noop" {
		t.Fatalf("memory mode: mode=%s err=%v", mode, err)
	}
	if _, err := svc.GetSessionEvents(context.Background(), "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("noop ledger should report not found, got %v", err)
	}

	svc, mode, err = NewServiceFromConfig(config.Config{
		LedgerMode:  config.LedgerModeSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "cfg.db"),
		RecentLimit: 5,
	})
	if err != nil || mode != "sqlite" {
		t.Fatalf("sqlite mode: mode=%s err=%v", mode, err)
	}
	_ = svc.Close()

	if _, _, err := NewServiceFromConfig(config.Config{LedgerMode: "redis"}); err == nil {
		t.Fatalf("expected unknown mode to fail")
	}
}
