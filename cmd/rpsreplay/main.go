package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"rps-lite/config"
	"rps-lite/ledger"
	"rps-lite/replay"
	"rps-lite/rps/npc"
)

type generateResponse struct {
	OK    bool                `json:"ok"`
	Tape  *replay.WireTape    `json:"tape,omitempty"`
	Error *replay.ReplayError `json:"error,omitempty"`
}

type decodedEvent struct {
	Seq       uint64         `json:"seq"`
	EventType string         `json:"eventType"`
	Payload   map[string]any `json:"payload"`
}

func main() {
	fs := flag.CommandLine
	var (
		list      = fs.Bool("list", false, "List recent sessions from the ledger")
		sessionID = fs.String("session", "", "Dump decoded events for a recorded session")
		moves     = fs.String("moves", "", "Comma-separated human moves to replay offline")
		tieBreak  = fs.String("tie-break", "", "Comma-separated tie-break order for -moves")
		limit     = fs.Int("limit", 20, "Maximum sessions for -list")
	)
	cfg, err := config.Parse(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "rpsreplay: %v\n", err)
		os.Exit(2)
	}
	if !cfg.Debug {
		log.SetOutput(io.Discard)
	}

	ctx := context.Background()
	switch {
	case *moves != "":
		var personas *npc.PersonaRegistry
		if personas, err = loadPersonas(cfg); err == nil {
			err = writeGenerated(os.Stdout, *moves, *tieBreak, cfg.Persona, personas)
		}
	case *list || *sessionID != "":
		err = withLedger(cfg, func(led ledger.Service) error {
			if *sessionID != "" {
				return writeSessionEvents(ctx, os.Stdout, led, *sessionID)
			}
			return writeRecent(ctx, os.Stdout, led, *limit)
		})
	default:
		fs.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "rpsreplay: %v\n", err)
		os.Exit(1)
	}
}

func withLedger(cfg config.Config, fn func(ledger.Service) error) error {
	led, mode, err := ledger.NewServiceFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init ledger: %w", err)
	}
	defer led.Close()
	log.Printf("[Replay] Ledger mode: %s", mode)
	return fn(led)
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func loadPersonas(cfg config.Config) (*npc.PersonaRegistry, error) {
	reg, err := npc.NewDefaultRegistry()
	if err != nil {
		return nil, err
	}
	if cfg.PersonasFile != "" {
		if err := reg.LoadFromFile(cfg.PersonasFile); err != nil {
			return nil, fmt.Errorf("load personas: %w", err)
		}
	}
	return reg, nil
}

// writeGenerated prints the tape for an offline session played by persona.
// Replay failures are reported inside the JSON response, not as an error.
func writeGenerated(w io.Writer, moves, tieBreak, persona string, personas *npc.PersonaRegistry) error {
	spec, err := replay.SessionSpec{
		Persona:  persona,
		TieBreak: splitList(tieBreak),
		Moves:    splitList(moves),
	}.WithPersona(personas)
	var tape *replay.Tape
	if err == nil {
		tape, err = replay.GenerateTape(spec)
	}
	resp := generateResponse{OK: err == nil, Tape: replay.ToWireTape(tape)}
	if err != nil {
		var replayErr *replay.ReplayError
		if !errors.As(err, &replayErr) {
			replayErr = &replay.ReplayError{StepIndex: -1, Reason: "replay_generation_failed", Message: err.Error()}
		}
		resp.Error = replayErr
	}
	return writeJSON(w, resp)
}

func writeRecent(ctx context.Context, w io.Writer, led ledger.Service, limit int) error {
	items, err := led.ListRecent(ctx, limit)
	if err != nil {
		return err
	}
	return writeJSON(w, items)
}

func writeSessionEvents(ctx context.Context, w io.Writer, led ledger.Service, sessionID string) error {
	items, err := led.GetSessionEvents(ctx, sessionID)
	if errors.Is(err, ledger.ErrNotFound) {
		return fmt.Errorf("session %q not found", sessionID)
	}
	if err != nil {
		return err
	}
	out := make([]decodedEvent, 0, len(items))
	for _, item := range items {
		payload, err := replay.DecodeEnvelope(item.EnvelopeB64)
		if err != nil {
			return fmt.Errorf("event seq=%d: %w", item.Seq, err)
		}
		out = append(out, decodedEvent{Seq: item.Seq, EventType: item.EventType, Payload: payload})
	}
	return writeJSON(w, out)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
