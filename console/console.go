// Package console is the terminal front end for a session: it reads and
// sanitizes moves from a reader and renders results to a writer.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"rps-lite/move"
	"rps-lite/rps"
	"rps-lite/session"
)

const (
	Prompt        = "What's your move? "
	QuitWord      = "quit"
	Separator     = "-----"
	Goodbye       = "Goodbye!"
	NotUnderstood = "Sorry, I didn't get that."
)

var helpLines = []string{
	`You can play by typing "Rock", "Paper", or "Scissors".`,
	`You can also type "Quit" at any time to leave.`,
}

var outcomeLines = map[rps.Outcome]string{
	rps.OutcomeTie:       "It's a tie!",
	rps.OutcomeBotWins:   "I won!",
	rps.OutcomeHumanWins: "You win!",
}

// Console implements session.Input and session.Output over plain text.
type Console struct {
	scanner *bufio.Scanner
	w       io.Writer
}

func New(r io.Reader, w io.Writer) *Console {
	return &Console{
		scanner: bufio.NewScanner(r),
		w:       w,
	}
}

// Welcome prints the greeting and usage lines.
func (c *Console) Welcome(greeting string) {
	if strings.TrimSpace(greeting) != "" {
		c.println(greeting)
	}
	for _, line := range helpLines {
		c.println(line)
	}
}

// NextMove prompts until it reads a valid move, "quit" or end of input.
// Blank and unknown entries re-prompt with the help text.
func (c *Console) NextMove(ctx context.Context) (move.Move, bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return move.Invalid, false, err
		}
		c.print(Prompt)
		if !c.scanner.Scan() {
			if err := c.scanner.Err(); err != nil {
				return move.Invalid, false, fmt.Errorf("read input: %w", err)
			}
			// EOF behaves like quit.
			c.println("")
			return move.Invalid, false, nil
		}
		raw := c.scanner.Text()
		if strings.EqualFold(strings.TrimSpace(raw), QuitWord) {
			return move.Invalid, false, nil
		}
		m, err := move.Parse(raw)
		if err == nil {
			return m, true, nil
		}
		log.Printf("[Console] Rejected input %q", raw)
		c.println(NotUnderstood)
		for _, line := range helpLines {
			c.println(line)
		}
	}
}

func (c *Console) RoundResult(r session.RoundResult) {
	c.println(fmt.Sprintf("I chose %s.", strings.ToLower(r.Bot.String())))
	c.println(outcomeLines[r.Outcome])
	c.println(Separator)
}

func (c *Console) SessionSummary(s session.Summary) {
	c.println(fmt.Sprintf("You played %d games, and won %d of them.", s.Stats.GamesPlayed, s.Stats.GamesUserWon))
	c.println(Goodbye)
}

func (c *Console) print(s string) {
	if _, err := io.WriteString(c.w, s); err != nil {
		log.Printf("[Console] write failed: %v", err)
	}
}

func (c *Console) println(s string) {
	c.print(s + "\n")
}
