package rps

import (
	"fmt"

	"rps-lite/move"
)

// TieBreak is the priority order used when several moves share the highest
// tally count. Earlier entries win.
type TieBreak [move.Count]move.Move

// DefaultTieBreak prefers Rock, then Paper, then Scissors. With an empty
// tally the engine therefore opens with Paper.
var DefaultTieBreak = TieBreak{move.Rock, move.Paper, move.Scissors}

// ParseTieBreak reads an order such as "paper,rock,scissors".
func ParseTieBreak(names []string) (TieBreak, error) {
	list, idx, err := move.ParseList(names)
	if err != nil {
		return TieBreak{}, fmt.Errorf("tie-break entry %d: %w", idx, err)
	}
	if !list.IsPermutation() {
		return TieBreak{}, ErrInvalidConfig(fmt.Sprintf("tie-break %q must name each move exactly once", list.String()))
	}
	var tb TieBreak
	copy(tb[:], list)
	return tb, nil
}

func (tb TieBreak) List() move.List {
	return append(move.List{}, tb[:]...)
}

func (tb TieBreak) String() string {
	return tb.List().String()
}

type Config struct {
	// Zero value selects DefaultTieBreak.
	TieBreak TieBreak
}

func (c Config) withDefaults() Config {
	if c.TieBreak == (TieBreak{}) {
		c.TieBreak = DefaultTieBreak
	}
	return c
}

func (c Config) validate() error {
	if !c.TieBreak.List().IsPermutation() {
		return ErrInvalidConfig(fmt.Sprintf("tie-break %s must name each move exactly once", c.TieBreak))
	}
	return nil
}
