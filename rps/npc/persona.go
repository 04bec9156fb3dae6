package npc

import "rps-lite/rps"

// NPCPersona is a named bot identity. It picks the tie-break priority and the
// greeting; the counter strategy itself is the same for every persona.
type NPCPersona struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Tagline  string   `json:"tagline"`
	TieBreak []string `json:"tieBreak"` // e.g. ["rock","paper","scissors"]; empty = default
}

// EngineConfig turns the persona into an engine config.
func (p *NPCPersona) EngineConfig() (rps.Config, error) {
	if len(p.TieBreak) == 0 {
		return rps.Config{TieBreak: rps.DefaultTieBreak}, nil
	}
	tb, err := rps.ParseTieBreak(p.TieBreak)
	if err != nil {
		return rps.Config{}, err
	}
	return rps.Config{TieBreak: tb}, nil
}
