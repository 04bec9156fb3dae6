package rps

import "rps-lite/move"

type Snapshot struct {
	Tally    Tally
	TieBreak TieBreak
	// Next is what ProposeMove would return right now.
	Next move.Move
}

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Tally:    e.tally,
		TieBreak: e.cfg.TieBreak,
		Next:     e.ProposeMove(),
	}
}
