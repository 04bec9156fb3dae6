package rps

import "rps-lite/move"

// Engine is the adaptive counter-strategy: it tallies the opponent's moves
// and proposes the counter to the modal one. An Engine belongs to exactly one
// session and is not safe for concurrent use.
type Engine struct {
	cfg   Config
	tally Tally
}

func NewEngine(cfg Config) (*Engine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Record adds one observed opponent move to the tally.
func (e *Engine) Record(m move.Move) error {
	if !m.Valid() {
		return ErrInvalidMove
	}
	e.tally[m.Index()]++
	return nil
}

// ProposeMove returns the move that beats the opponent's most frequent move
// so far. It does not mutate the engine.
func (e *Engine) ProposeMove() move.Move {
	return move.Beats(e.tally.Modal(e.cfg.TieBreak))
}

// Tally returns a copy of the current counts.
func (e *Engine) Tally() Tally { return e.tally }

func (e *Engine) TieBreak() TieBreak { return e.cfg.TieBreak }

// Judge compares a human move against the bot's move. Both moves must be
// valid; an Invalid human move falls through to OutcomeHumanWins.
func Judge(human, bot move.Move) Outcome {
	switch {
	case human == bot:
		return OutcomeTie
	case move.Beats(human) == bot:
		return OutcomeBotWins
	default:
		return OutcomeHumanWins
	}
}
