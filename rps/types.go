package rps

// Outcome is the result of one round from the bot's point of view.
type Outcome byte

const (
	OutcomeTie       Outcome = 0
	OutcomeBotWins   Outcome = 1
	OutcomeHumanWins Outcome = 2
)

var OutcomeDictionary = map[Outcome]string{
	OutcomeTie:       "tie",
	OutcomeBotWins:   "bot_wins",
	OutcomeHumanWins: "human_wins",
}

func (o Outcome) String() string {
	if name, ok := OutcomeDictionary[o]; ok {
		return name
	}
	return "unknown"
}
