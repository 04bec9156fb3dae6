package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// SQLService stores sessions in SQLite or Postgres. Both share one schema.
type SQLService struct {
	db          *sql.DB
	dialect     dialect
	recentLimit int
}

func (s *SQLService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *SQLService) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLService) RecordSession(ctx context.Context, rec SessionRecord, events []EventItem) error {
	if strings.TrimSpace(rec.SessionID) == "" {
		return errors.New("empty session id")
	}
	tallyJSON, err := json.Marshal(rec.Tally)
	if err != nil {
		return fmt.Errorf("marshal tally: %w", err)
	}
	nowMs := time.Now().UTC().UnixMilli()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.rebind(`
INSERT INTO rps_sessions (
    session_id, persona, reason, games_played, games_user_won, tally_json,
    started_at_ms, ended_at_ms, created_at_ms
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (session_id) DO UPDATE SET
    persona = excluded.persona,
    reason = excluded.reason,
    games_played = excluded.games_played,
    games_user_won = excluded.games_user_won,
    tally_json = excluded.tally_json,
    started_at_ms = excluded.started_at_ms,
    ended_at_ms = excluded.ended_at_ms
`), rec.SessionID, rec.Persona, rec.Reason, rec.GamesPlayed, rec.GamesUserWon, string(tallyJSON),
		rec.StartedAt.UTC().UnixMilli(), rec.EndedAt.UTC().UnixMilli(), nowMs); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM rps_session_events WHERE session_id = ?`), rec.SessionID); err != nil {
		return fmt.Errorf("clear session events: %w", err)
	}
	for _, e := range events {
		if _, err := tx.ExecContext(ctx, s.rebind(`
INSERT INTO rps_session_events (session_id, seq, event_type, envelope_b64)
VALUES (?, ?, ?, ?)
`), rec.SessionID, int64(e.Seq), e.EventType, e.EnvelopeB64); err != nil {
			return fmt.Errorf("insert event seq=%d: %w", e.Seq, err)
		}
	}

	if err := s.trimLocked(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("[Ledger] recorded session=%s rounds=%d events=%d", rec.SessionID, rec.GamesPlayed, len(events))
	return nil
}

// trimLocked keeps only the newest recentLimit sessions.
func (s *SQLService) trimLocked(ctx context.Context, tx *sql.Tx) error {
	if s.recentLimit <= 0 {
		return nil
	}
	limitClause := "LIMIT -1 OFFSET ?"
	if s.dialect == dialectPostgres {
		limitClause = "OFFSET ?"
	}
	stale := `SELECT session_id FROM rps_sessions ORDER BY ended_at_ms DESC, id DESC ` + limitClause
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM rps_session_events WHERE session_id IN (`+stale+`)`), s.recentLimit); err != nil {
		return fmt.Errorf("trim events: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM rps_sessions WHERE session_id IN (`+stale+`)`), s.recentLimit); err != nil {
		return fmt.Errorf("trim sessions: %w", err)
	}
	return nil
}

func (s *SQLService) ListRecent(ctx context.Context, limit int) ([]SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
SELECT session_id, persona, reason, games_played, games_user_won, tally_json, started_at_ms, ended_at_ms
FROM rps_sessions
ORDER BY ended_at_ms DESC, id DESC
LIMIT ?
`), clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]SessionRecord, 0)
	for rows.Next() {
		var (
			rec                SessionRecord
			tallyJSON          string
			startedMs, endedMs int64
		)
		if err := rows.Scan(&rec.SessionID, &rec.Persona, &rec.Reason, &rec.GamesPlayed, &rec.GamesUserWon, &tallyJSON, &startedMs, &endedMs); err != nil {
			return nil, err
		}
		if tallyJSON != "" {
			if err := json.Unmarshal([]byte(tallyJSON), &rec.Tally); err != nil {
				log.Printf("[Ledger] bad tally json: session=%s err=%v", rec.SessionID, err)
			}
		}
		rec.StartedAt = time.UnixMilli(startedMs).UTC()
		rec.EndedAt = time.UnixMilli(endedMs).UTC()
		items = append(items, rec)
	}
	return items, rows.Err()
}

func (s *SQLService) GetSessionEvents(ctx context.Context, sessionID string) ([]EventItem, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM rps_sessions WHERE session_id = ?`), sessionID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(`
SELECT seq, event_type, envelope_b64
FROM rps_session_events
WHERE session_id = ?
ORDER BY seq ASC
`), sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]EventItem, 0)
	for rows.Next() {
		var (
			e   EventItem
			seq int64
		)
		if err := rows.Scan(&seq, &e.EventType, &e.EnvelopeB64); err != nil {
			return nil, err
		}
		e.Seq = uint64(seq)
		events = append(events, e)
	}
	return events, rows.Err()
}

func ensureSchema(ctx context.Context, db *sql.DB, d dialect) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if d == dialectPostgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
	}
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS rps_sessions (
    ` + idColumn + `,
    session_id TEXT NOT NULL UNIQUE,
    persona TEXT NOT NULL DEFAULT '',
    reason TEXT NOT NULL DEFAULT '',
    games_played INTEGER NOT NULL DEFAULT 0,
    games_user_won INTEGER NOT NULL DEFAULT 0,
    tally_json TEXT NOT NULL DEFAULT '{}',
    started_at_ms BIGINT NOT NULL,
    ended_at_ms BIGINT NOT NULL,
    created_at_ms BIGINT NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_rps_sessions_recent ON rps_sessions(ended_at_ms DESC, id DESC)`,
		`
CREATE TABLE IF NOT EXISTS rps_session_events (
    session_id TEXT NOT NULL,
    seq BIGINT NOT NULL,
    event_type TEXT NOT NULL,
    envelope_b64 TEXT NOT NULL,
    PRIMARY KEY (session_id, seq)
)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure ledger schema: %w", err)
		}
	}
	return nil
}
