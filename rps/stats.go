package rps

// Stats is per-session bookkeeping. GamesUserWon never exceeds GamesPlayed.
type Stats struct {
	GamesPlayed  int
	GamesUserWon int
}

// Add counts one completed round.
func (s *Stats) Add(o Outcome) {
	s.GamesPlayed++
	if o == OutcomeHumanWins {
		s.GamesUserWon++
	}
}
