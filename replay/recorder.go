package replay

import (
	"errors"
	"log"

	"rps-lite/move"
	"rps-lite/rps"
	"rps-lite/session"
)

type tapeBuilder struct {
	tape Tape
	seq  uint64
}

func newTapeBuilder(sessionID, persona string) *tapeBuilder {
	return &tapeBuilder{
		tape: Tape{
			TapeVersion: TapeVersion,
			SessionID:   sessionID,
			Persona:     persona,
			Events:      []Event{},
		},
	}
}

func (b *tapeBuilder) add(eventType string, payload map[string]any) error {
	b.seq++
	env, err := newEnvelope(eventType, b.seq, payload)
	if err != nil {
		return err
	}
	encoded, err := encodeEnvelope(env)
	if err != nil {
		return err
	}
	b.tape.Events = append(b.tape.Events, Event{
		Type:        eventType,
		Seq:         b.seq,
		Value:       env,
		EnvelopeB64: encoded,
	})
	return nil
}

// Recorder captures a live session as a replay tape through session hooks.
type Recorder struct {
	builder  *tapeBuilder
	tieBreak rps.TieBreak
	err      error
	ended    bool
}

// Attach starts recording s. It must be called before s.Run.
func Attach(s *session.Session) *Recorder {
	snap := s.Snapshot()
	r := &Recorder{
		builder:  newTapeBuilder(snap.SessionID, snap.Persona),
		tieBreak: snap.Engine.TieBreak,
	}
	r.record(EventSessionStart, map[string]any{
		"sessionId": snap.SessionID,
		"persona":   snap.Persona,
		"tieBreak":  stringList(snap.Engine.TieBreak.List().Strings()),
		"opening":   snap.Engine.Next.String(),
	})
	s.AddRoundEndHook(r.onRound)
	s.AddEndHook(r.onEnd)
	return r
}

func (r *Recorder) onRound(res session.RoundResult) {
	r.record(EventRound, map[string]any{
		"round":   res.Round,
		"bot":     res.Bot.String(),
		"human":   res.Human.String(),
		"outcome": res.Outcome.String(),
		"tally":   res.Tally.AsMap(),
		"next":    move.Beats(res.Tally.Modal(r.tieBreak)).String(),
	})
}

func (r *Recorder) onEnd(sum session.Summary) {
	r.record(EventSessionEnd, map[string]any{
		"reason":       string(sum.Reason),
		"gamesPlayed":  sum.Stats.GamesPlayed,
		"gamesUserWon": sum.Stats.GamesUserWon,
		"tally":        sum.Tally.AsMap(),
	})
	r.ended = true
}

func (r *Recorder) record(eventType string, payload map[string]any) {
	if r.err != nil {
		return
	}
	if err := r.builder.add(eventType, payload); err != nil {
		log.Printf("[Replay] record %s failed: session=%s err=%v", eventType, r.builder.tape.SessionID, err)
		r.err = err
	}
}

// Tape returns the recorded tape once the session has ended.
func (r *Recorder) Tape() (*Tape, error) {
	if r.err != nil {
		return nil, r.err
	}
	if !r.ended {
		return nil, errors.New("session still running")
	}
	tape := r.builder.tape
	tape.Events = append([]Event{}, r.builder.tape.Events...)
	return &tape, nil
}
