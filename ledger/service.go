package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rps-lite/config"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

var ErrNotFound = errors.New("not found")

// Service is a write-mostly audit log of finished sessions. Nothing in the
// game reads it back into an engine; every session starts from a zero tally.
type Service interface {
	Close() error
	RecordSession(ctx context.Context, rec SessionRecord, events []EventItem) error
	ListRecent(ctx context.Context, limit int) ([]SessionRecord, error)
	GetSessionEvents(ctx context.Context, sessionID string) ([]EventItem, error)
}

type SessionRecord struct {
	SessionID    string         `json:"session_id"`
	Persona      string         `json:"persona"`
	Reason       string         `json:"reason"`
	GamesPlayed  int            `json:"games_played"`
	GamesUserWon int            `json:"games_user_won"`
	Tally        map[string]int `json:"tally"`
	StartedAt    time.Time      `json:"started_at"`
	EndedAt      time.Time      `json:"ended_at"`
}

type EventItem struct {
	Seq         uint64 `json:"seq"`
	EventType   string `json:"event_type"`
	EnvelopeB64 string `json:"envelope_b64"`
}

type noopService struct{}

func (n *noopService) Close() error { return nil }

func (n *noopService) RecordSession(_ context.Context, _ SessionRecord, _ []EventItem) error {
	return nil
}

func (n *noopService) ListRecent(_ context.Context, _ int) ([]SessionRecord, error) {
	return []SessionRecord{}, nil
}

func (n *noopService) GetSessionEvents(_ context.Context, _ string) ([]EventItem, error) {
	return nil, ErrNotFound
}

// NewServiceFromConfig selects the backend named by cfg.LedgerMode and
// returns it along with a label for logging.
func NewServiceFromConfig(cfg config.Config) (Service, string, error) {
	switch cfg.LedgerMode {
	case config.LedgerModeMemory, "":
		return &noopService{}, "memory-noop", nil
	case config.LedgerModeSQLite:
		service, err := NewSQLiteService(cfg.SQLitePath, cfg.RecentLimit)
		if err != nil {
			return nil, "", err
		}
		return service, "sqlite", nil
	case config.LedgerModePostgres:
		service, err := NewPostgresService(cfg.DatabaseURL, cfg.RecentLimit)
		if err != nil {
			return nil, "", err
		}
		return service, "postgres", nil
	default:
		return nil, "", fmt.Errorf("invalid ledger mode %q", cfg.LedgerMode)
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
