package replay

import "google.golang.org/protobuf/types/known/structpb"

const (
	TapeVersion = 1

	EventSessionStart = "sessionStart"
	EventRound        = "round"
	EventSessionEnd   = "sessionEnd"
)

// SessionSpec describes an offline session to replay deterministically.
type SessionSpec struct {
	SessionID string   `json:"session_id,omitempty"`
	Persona   string   `json:"persona,omitempty"`
	TieBreak  []string `json:"tie_break,omitempty"`
	Moves     []string `json:"moves"`
}

type Tape struct {
	TapeVersion int     `json:"tape_version"`
	SessionID   string  `json:"session_id"`
	Persona     string  `json:"persona"`
	Events      []Event `json:"events"`
}

type Event struct {
	Type        string           `json:"type"`
	Seq         uint64           `json:"seq"`
	Value       *structpb.Struct `json:"value,omitempty"`
	EnvelopeB64 string           `json:"envelope_b64,omitempty"`
}
