package session

import (
	"context"

	"rps-lite/move"
)

// ScriptedInput replays a fixed list of moves and then terminates.
type ScriptedInput struct {
	moves []move.Move
	next  int
}

func NewScriptedInput(moves ...move.Move) *ScriptedInput {
	return &ScriptedInput{moves: append([]move.Move{}, moves...)}
}

func (in *ScriptedInput) NextMove(ctx context.Context) (move.Move, bool, error) {
	if err := ctx.Err(); err != nil {
		return move.Invalid, false, err
	}
	if in.next >= len(in.moves) {
		return move.Invalid, false, nil
	}
	m := in.moves[in.next]
	in.next++
	return m, true, nil
}
