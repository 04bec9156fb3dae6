package ledger

import (
	"rps-lite/move"
	"rps-lite/replay"
	"rps-lite/session"
)

// NewSessionRecord flattens a finished session summary into a ledger row.
func NewSessionRecord(sum session.Summary) SessionRecord {
	tally := make(map[string]int, move.Count)
	for _, m := range move.All {
		tally[m.String()] = sum.Tally.Count(m)
	}
	return SessionRecord{
		SessionID:    sum.SessionID,
		Persona:      sum.Persona,
		Reason:       string(sum.Reason),
		GamesPlayed:  sum.Stats.GamesPlayed,
		GamesUserWon: sum.Stats.GamesUserWon,
		Tally:        tally,
		StartedAt:    sum.StartedAt.UTC(),
		EndedAt:      sum.EndedAt.UTC(),
	}
}

func EventItemsFromTape(tape *replay.Tape) []EventItem {
	if tape == nil {
		return nil
	}
	items := make([]EventItem, 0, len(tape.Events))
	for _, e := range tape.Events {
		items = append(items, EventItem{
			Seq:         e.Seq,
			EventType:   e.Type,
			EnvelopeB64: e.EnvelopeB64,
		})
	}
	return items
}
