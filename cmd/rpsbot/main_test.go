package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"rps-lite/config"
	"rps-lite/ledger"
)

func TestPlay_RecordsSessionToLedger(t *testing.T) {
	cfg := config.Config{
		LedgerMode:  config.LedgerModeSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "rps.db"),
		Persona:     "counter",
		RecentLimit: 10,
	}
	personas, err := loadPersonas(cfg)
	if err != nil {
		t.Fatalf("loadPersonas err: %v", err)
	}
	persona, engineCfg, err := selectPersona(personas, cfg.Persona)
	if err != nil {
		t.Fatalf("selectPersona err: %v", err)
	}
	led, _, err := ledger.NewServiceFromConfig(cfg)
	if err != nil {
		t.Fatalf("ledger err: %v", err)
	}
	defer led.Close()

	var out bytes.Buffer
	if err := play(context.Background(), persona, engineCfg, led, strings.NewReader("rock\nrock\nquit\n"), &out); err != nil {
		t.Fatalf("play err: %v", err)
	}
	if !strings.Contains(out.String(), "You played 2 games, and won 0 of them.") {
		t.Fatalf("missing summary in transcript:\n%s", out.String())
	}

	recent, err := led.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecent err: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected one recorded session, got %d", len(recent))
	}
	got := recent[0]
	if got.Persona != "counter" || got.GamesPlayed != 2 || got.GamesUserWon != 0 || got.Tally["Rock"] != 2 {
		t.Fatalf("unexpected record: %+v", got)
	}
	events, err := led.GetSessionEvents(context.Background(), got.SessionID)
	if err != nil {
		t.Fatalf("GetSessionEvents err: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("expected start + 2 rounds + end, got %d", len(events))
	}
}

func TestRun_UnknownPersonaFailsBeforePlaying(t *testing.T) {
	t.Setenv("RPS_LEDGER_MODE", "memory")
	var stdout, stderr bytes.Buffer
	code := run([]string{"-persona", "nobody"}, strings.NewReader("rock\n"), &stdout, &stderr)
	if code == 0 {
		t.Fatalf("expected non-zero exit for unknown persona")
	}
	if !strings.Contains(stderr.String(), `unknown persona "nobody"`) {
		t.Fatalf("expected error on stderr, got %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("game must not start, got transcript:\n%s", stdout.String())
	}
}

func TestRun_QuitExitsCleanly(t *testing.T) {
	t.Setenv("RPS_LEDGER_MODE", "memory")
	var stdout, stderr bytes.Buffer
	code := run([]string{"-persona", "origami"}, strings.NewReader("scissors\nquit\n"), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr=%q)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Goodbye!") {
		t.Fatalf("missing goodbye:\n%s", stdout.String())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"canceled", fmt.Errorf("wrapped: %w", context.Canceled), 0},
		{"input failure", errors.New("read move: broken pipe"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Fatalf("%s: exitCode = %d, want %d", tt.name, got, tt.want)
		}
	}
}
