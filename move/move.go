package move

import (
	"fmt"
	"strings"
)

// Move is one of the three hand shapes. The zero value is Invalid so an
// uninitialized Move never reaches the engine by accident.
type Move byte

const (
	Invalid Move = iota
	Rock
	Paper
	Scissors
)

// Count is the number of valid moves.
const Count = 3

// All lists the valid moves in their canonical order.
var All = [Count]Move{Rock, Paper, Scissors}

var MoveNameDictionary = map[Move]string{
	Rock:     "Rock",
	Paper:    "Paper",
	Scissors: "Scissors",
}

// beatenBy[m] is the move that defeats m.
var beatenBy = [Count + 1]Move{
	Invalid:  Invalid,
	Rock:     Paper,
	Paper:    Scissors,
	Scissors: Rock,
}

func (m Move) String() string {
	if name, ok := MoveNameDictionary[m]; ok {
		return name
	}
	return "Invalid"
}

// Valid reports whether m is Rock, Paper or Scissors.
func (m Move) Valid() bool {
	return m >= Rock && m <= Scissors
}

// Index maps a valid move to 0..Count-1 for array-backed tables.
func (m Move) Index() int {
	return int(m) - 1
}

// Beats returns the move that defeats m. Invalid maps to Invalid.
func Beats(m Move) Move {
	if !m.Valid() {
		return Invalid
	}
	return beatenBy[m]
}

// Parse converts user text such as "rock", " Paper ", "SCISSORS" into a Move.
func Parse(raw string) (Move, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "rock":
		return Rock, nil
	case "paper":
		return Paper, nil
	case "scissors":
		return Scissors, nil
	default:
		return Invalid, fmt.Errorf("invalid move %q", raw)
	}
}
