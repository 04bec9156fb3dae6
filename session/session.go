package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"rps-lite/move"
	"rps-lite/rps"
)

// Input supplies validated human moves. ok=false means the human asked to
// stop; Input implementations never hand back an unrecognized token.
type Input interface {
	NextMove(ctx context.Context) (m move.Move, ok bool, err error)
}

// Output renders round results and the closing summary.
type Output interface {
	RoundResult(r RoundResult)
	SessionSummary(s Summary)
}

type EndReason string

const (
	EndReasonQuit       EndReason = "quit"
	EndReasonCanceled   EndReason = "canceled"
	EndReasonInputError EndReason = "input_error"
)

// RoundResult describes one completed round.
type RoundResult struct {
	SessionID string
	Round     int
	Bot       move.Move
	Human     move.Move
	Outcome   rps.Outcome
	// Tally after the human move was recorded.
	Tally rps.Tally
}

// Summary is emitted once when a session ends.
type Summary struct {
	SessionID string
	Persona   string
	Stats     rps.Stats
	Tally     rps.Tally
	Reason    EndReason
	StartedAt time.Time
	EndedAt   time.Time
}

// RoundEndHook is invoked after every completed round.
type RoundEndHook func(r RoundResult)

// EndHook is invoked once after the session summary is rendered.
type EndHook func(s Summary)

type Config struct {
	// Empty ID generates a random one.
	ID      string
	Persona string
	Engine  rps.Config
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Session drives one interactive game: propose, read, judge, record, report.
// It owns its engine and stats; nothing is shared between sessions.
type Session struct {
	ID      string
	Persona string

	engine *rps.Engine
	stats  rps.Stats
	round  int

	in  Input
	out Output
	now func() time.Time

	started   bool
	closed    bool
	startedAt time.Time

	roundHooks []RoundEndHook
	endHooks   []EndHook
}

func New(cfg Config, in Input, out Output) (*Session, error) {
	if in == nil {
		return nil, errors.New("session input is required")
	}
	if out == nil {
		out = Discard
	}
	engine, err := rps.NewEngine(cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	id := cfg.ID
	if id == "" {
		id = "sess_" + uuid.NewString()
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &Session{
		ID:      id,
		Persona: cfg.Persona,
		engine:  engine,
		in:      in,
		out:     out,
		now:     now,
	}, nil
}

// AddRoundEndHook registers a callback invoked after each round.
func (s *Session) AddRoundEndHook(hook RoundEndHook) {
	if hook == nil {
		return
	}
	s.roundHooks = append(s.roundHooks, hook)
}

// AddEndHook registers a callback invoked when the session ends.
func (s *Session) AddEndHook(hook EndHook) {
	if hook == nil {
		return
	}
	s.endHooks = append(s.endHooks, hook)
}

// Run plays rounds until the input terminates, the context is canceled or
// the input fails. A session can be run only once.
func (s *Session) Run(ctx context.Context) (Summary, error) {
	if s.closed || s.started {
		return Summary{}, ErrSessionClosed
	}
	s.started = true
	s.startedAt = s.now()
	log.Printf("[Session %s] Started (persona=%s tie-break=%s)", s.ID, s.Persona, s.engine.TieBreak())

	var (
		reason = EndReasonQuit
		runErr error
	)
	for {
		if err := ctx.Err(); err != nil {
			reason, runErr = EndReasonCanceled, err
			break
		}
		_, ok, err := s.playRound(ctx)
		if err != nil {
			if ctx.Err() != nil {
				reason, runErr = EndReasonCanceled, ctx.Err()
			} else {
				reason, runErr = EndReasonInputError, err
			}
			break
		}
		if !ok {
			break
		}
	}

	summary := s.finish(reason)
	return summary, runErr
}

// playRound runs one round. ok=false means the input asked to stop.
func (s *Session) playRound(ctx context.Context) (RoundResult, bool, error) {
	bot := s.engine.ProposeMove()

	human, ok, err := s.in.NextMove(ctx)
	if err != nil {
		return RoundResult{}, false, fmt.Errorf("read move: %w", err)
	}
	if !ok {
		return RoundResult{}, false, nil
	}

	if err := s.engine.Record(human); err != nil {
		return RoundResult{}, false, fmt.Errorf("record %v: %w", human, err)
	}
	outcome := rps.Judge(human, bot)
	s.stats.Add(outcome)
	s.round++

	res := RoundResult{
		SessionID: s.ID,
		Round:     s.round,
		Bot:       bot,
		Human:     human,
		Outcome:   outcome,
		Tally:     s.engine.Tally(),
	}
	s.out.RoundResult(res)
	for _, hook := range s.roundHooks {
		hook(res)
	}
	return res, true, nil
}

func (s *Session) finish(reason EndReason) Summary {
	s.closed = true
	summary := Summary{
		SessionID: s.ID,
		Persona:   s.Persona,
		Stats:     s.stats,
		Tally:     s.engine.Tally(),
		Reason:    reason,
		StartedAt: s.startedAt,
		EndedAt:   s.now(),
	}
	s.out.SessionSummary(summary)
	for _, hook := range s.endHooks {
		hook(summary)
	}
	log.Printf("[Session %s] Ended (%s): played=%d userWon=%d", s.ID, reason, s.stats.GamesPlayed, s.stats.GamesUserWon)
	return summary
}

type Snapshot struct {
	SessionID string
	Persona   string
	Round     int
	Stats     rps.Stats
	Engine    rps.Snapshot
	Closed    bool
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		SessionID: s.ID,
		Persona:   s.Persona,
		Round:     s.round,
		Stats:     s.stats,
		Engine:    s.engine.Snapshot(),
		Closed:    s.closed,
	}
}

type discardOutput struct{}

func (discardOutput) RoundResult(RoundResult) {}
func (discardOutput) SessionSummary(Summary)  {}

// Discard is an Output that renders nothing.
var Discard Output = discardOutput{}
