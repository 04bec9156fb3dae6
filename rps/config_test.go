package rps

import (
	"errors"
	"testing"

	"rps-lite/move"
)

func TestParseTieBreak(t *testing.T) {
	tb, err := ParseTieBreak([]string{"paper", " Rock", "SCISSORS"})
	if err != nil {
		t.Fatalf("ParseTieBreak err: %v", err)
	}
	if tb != (TieBreak{move.Paper, move.Rock, move.Scissors}) {
		t.Fatalf("unexpected order: %s", tb)
	}
	if tb.String() != "Paper,Rock,Scissors" {
		t.Fatalf("unexpected String(): %s", tb)
	}

	if _, err := ParseTieBreak([]string{"paper", "paper", "rock"}); err == nil {
		t.Fatalf("expected duplicate entries to fail")
	}
	var cfgErr InvalidConfigError
	if _, err := ParseTieBreak([]string{"paper", "rock"}); !errors.As(err, &cfgErr) {
		t.Fatalf("expected InvalidConfigError for short order, got %v", err)
	}
	if _, err := ParseTieBreak([]string{"paper", "rock", "lizard"}); err == nil {
		t.Fatalf("expected unknown move to fail")
	}
}

func TestConfig_ZeroValueUsesDefault(t *testing.T) {
	e, err := NewEngine(Config{})
	if err != nil {
		t.Fatal(err)
	}
	if e.TieBreak() != DefaultTieBreak {
		t.Fatalf("expected default tie-break, got %s", e.TieBreak())
	}
}
