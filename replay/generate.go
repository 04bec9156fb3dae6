package replay

import (
	"context"
	"time"

	"rps-lite/move"
	"rps-lite/rps"
	"rps-lite/rps/npc"
	"rps-lite/session"
)

const defaultSessionID = "replay_local"

// GenerateTape plays the scripted human moves in spec against a fresh engine
// and returns the resulting tape. The same spec always yields the same tape.
func GenerateTape(spec SessionSpec) (*Tape, error) {
	cfg := rps.Config{TieBreak: rps.DefaultTieBreak}
	if len(spec.TieBreak) > 0 {
		tb, err := rps.ParseTieBreak(spec.TieBreak)
		if err != nil {
			return nil, &ReplayError{StepIndex: -1, Reason: "invalid_tie_break", Message: err.Error()}
		}
		cfg.TieBreak = tb
	}

	moves, idx, err := move.ParseList(spec.Moves)
	if err != nil {
		return nil, &ReplayError{StepIndex: int32(idx), Reason: "invalid_move", Message: err.Error()}
	}

	id := spec.SessionID
	if id == "" {
		id = defaultSessionID
	}
	epoch := time.Unix(0, 0).UTC()
	s, err := session.New(session.Config{
		ID:      id,
		Persona: spec.Persona,
		Engine:  cfg,
		Clock:   func() time.Time { return epoch },
	}, session.NewScriptedInput(moves...), session.Discard)
	if err != nil {
		return nil, &ReplayError{StepIndex: -1, Reason: "session_init_failed", Message: err.Error()}
	}

	rec := Attach(s)
	if _, err := s.Run(context.Background()); err != nil {
		return nil, &ReplayError{StepIndex: -1, Reason: "session_run_failed", Message: err.Error()}
	}
	tape, err := rec.Tape()
	if err != nil {
		return nil, &ReplayError{StepIndex: -1, Reason: "tape_encode_failed", Message: err.Error()}
	}
	return tape, nil
}

// WithPersona resolves spec.Persona against reg and, when spec has no
// explicit tie-break, copies the persona's so the tape plays like a live
// session with that persona.
func (spec SessionSpec) WithPersona(reg *npc.PersonaRegistry) (SessionSpec, error) {
	if spec.Persona == "" || reg == nil {
		return spec, nil
	}
	persona := reg.Get(spec.Persona)
	if persona == nil {
		return spec, &ReplayError{StepIndex: -1, Reason: "unknown_persona", Message: "unknown persona " + spec.Persona}
	}
	if len(spec.TieBreak) == 0 && len(persona.TieBreak) > 0 {
		spec.TieBreak = append([]string{}, persona.TieBreak...)
	}
	return spec, nil
}
