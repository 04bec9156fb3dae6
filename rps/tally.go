package rps

import "rps-lite/move"

// Tally counts observed opponent moves, indexed by move.Index().
type Tally [move.Count]int

func (t Tally) Count(m move.Move) int {
	if !m.Valid() {
		return 0
	}
	return t[m.Index()]
}

func (t Tally) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Modal returns the most frequent move. Ties, including the all-zero tally,
// resolve to whichever tied move comes first in order.
func (t Tally) Modal(order TieBreak) move.Move {
	best := order[0]
	for _, m := range order[1:] {
		if t.Count(m) > t.Count(best) {
			best = m
		}
	}
	return best
}

// AsMap is the structpb-friendly form used by replay envelopes.
func (t Tally) AsMap() map[string]any {
	out := make(map[string]any, move.Count)
	for _, m := range move.All {
		out[m.String()] = t.Count(m)
	}
	return out
}
