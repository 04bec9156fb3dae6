package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rps-lite/config"
	"rps-lite/console"
	"rps-lite/ledger"
	"rps-lite/replay"
	"rps-lite/rps"
	"rps-lite/rps/npc"
	"rps-lite/session"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rpsbot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg, err := config.Parse(fs, args)
	if err != nil {
		fmt.Fprintf(stderr, "rpsbot: %v\n", err)
		return 2
	}
	log.SetPrefix("rpsbot ")
	if cfg.Debug {
		log.SetOutput(stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	personas, err := loadPersonas(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "rpsbot: %v\n", err)
		return 1
	}
	persona, engineCfg, err := selectPersona(personas, cfg.Persona)
	if err != nil {
		fmt.Fprintf(stderr, "rpsbot: %v\n", err)
		return 1
	}
	ledgerService, ledgerMode, err := ledger.NewServiceFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "rpsbot: init ledger: %v\n", err)
		return 1
	}
	defer ledgerService.Close()
	log.Printf("[Bot] Ledger mode: %s", ledgerMode)

	err = play(ctx, persona, engineCfg, ledgerService, stdin, stdout)
	code := exitCode(err)
	if code != 0 {
		fmt.Fprintf(stderr, "rpsbot: %v\n", err)
	}
	return code
}

// exitCode maps a session error to a process status. Interrupts end the game
// like "quit" does.
func exitCode(err error) int {
	if err == nil || errors.Is(err, context.Canceled) {
		return 0
	}
	return 1
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

func selectPersona(personas *npc.PersonaRegistry, id string) (*npc.NPCPersona, rps.Config, error) {
	persona := personas.Get(id)
	if persona == nil {
		return nil, rps.Config{}, fmt.Errorf("unknown persona %q", id)
	}
	engineCfg, err := persona.EngineConfig()
	if err != nil {
		return nil, rps.Config{}, fmt.Errorf("persona %s: %w", id, err)
	}
	return persona, engineCfg, nil
}

// play runs one console session and stores its tape in the ledger.
func play(ctx context.Context, persona *npc.NPCPersona, engineCfg rps.Config, led ledger.Service, r io.Reader, w io.Writer) error {
	con := console.New(r, w)
	s, err := session.New(session.Config{Persona: persona.ID, Engine: engineCfg}, con, con)
	if err != nil {
		return err
	}
	rec := replay.Attach(s)

	con.Welcome(persona.Tagline)
	summary, runErr := s.Run(ctx)

	tape, err := rec.Tape()
	if err != nil {
		log.Printf("[Bot] Tape unavailable: session=%s err=%v", summary.SessionID, err)
		return runErr
	}
	// The session already ended; a canceled ctx must not drop the record.
	if err := led.RecordSession(context.WithoutCancel(ctx), ledger.NewSessionRecord(summary), ledger.EventItemsFromTape(tape)); err != nil {
		log.Printf("[Bot] Failed to record session=%s: %v", summary.SessionID, err)
	}
	return runErr
}
