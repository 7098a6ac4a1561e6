package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/mathblocks/internal/core"
)

// ErrSessionNotFound is returned when a tutor session ID is unknown.
var ErrSessionNotFound = errors.New("storage: tutor session not found")

// TutorSession is one stored tutor problem attempt.
type TutorSession struct {
	ID            string
	PlayerSession string
	GameID        string
	Category      string
	Num1          int
	Num2          int
	Answer        int
	Mistakes      int
	Score         int
	Aborted       bool
	StartedAt     time.Time
	EndedAt       time.Time
}

// Duration returns how long the problem took.
func (t TutorSession) Duration() time.Duration {
	return t.EndedAt.Sub(t.StartedAt)
}

// SaveProblemResult stores r and its steps in one transaction and returns
// the new tutor session ID.
func (s *Store) SaveProblemResult(r core.ProblemResult) (string, error) {
	id := uuid.NewString()

	if r.EndedAt.IsZero() {
		r.EndedAt = time.Now()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = r.EndedAt
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	_, err = tx.Exec(
		`INSERT INTO tutor_sessions
		 (id, player_session, game_id, category, num1, num2, answer, mistakes, score, aborted, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.SessionID, r.GameID, r.Category, r.Num1, r.Num2, r.Answer,
		r.Mistakes, r.Score, r.Aborted,
		r.StartedAt.UTC().Format(timestampLayout),
		r.EndedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save tutor session: %w", err)
	}

	for _, st := range r.Steps {
		_, err = tx.Exec(
			`INSERT INTO tutor_steps
			 (session_id, place_index, place_label, interaction, digit1, digit2, result_digit, carried, moves, attempts, explanation)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, st.PlaceIndex, st.PlaceLabel, st.Interaction, st.Digit1, st.Digit2,
			st.ResultDigit, st.Carried, st.Moves, st.Attempts, st.Explanation,
		)
		if err != nil {
			return "", fmt.Errorf("storage: cannot save tutor step %s: %w", st.PlaceLabel, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit tutor session: %w", err)
	}
	return id, nil
}

const sessionColumns = `id, player_session, game_id, category, num1, num2, answer,
	mistakes, score, aborted, started_at, ended_at`

func scanSession(sc interface{ Scan(...any) error }) (TutorSession, error) {
	var t TutorSession
	var started, ended string
	err := sc.Scan(&t.ID, &t.PlayerSession, &t.GameID, &t.Category, &t.Num1, &t.Num2,
		&t.Answer, &t.Mistakes, &t.Score, &t.Aborted, &started, &ended)
	if err != nil {
		return TutorSession{}, err
	}
	t.StartedAt = parseTimestamp(started)
	t.EndedAt = parseTimestamp(ended)
	return t, nil
}

// RecentSessions returns the latest limit tutor sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]TutorSession, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.querySessions(
		`SELECT `+sessionColumns+` FROM tutor_sessions ORDER BY ended_at DESC LIMIT ?`,
		limit,
	)
}

// PlayerSessions returns tutor sessions recorded under one player session.
func (s *Store) PlayerSessions(playerSession string) ([]TutorSession, error) {
	return s.querySessions(
		`SELECT `+sessionColumns+` FROM tutor_sessions WHERE player_session = ? ORDER BY ended_at`,
		playerSession,
	)
}

func (s *Store) querySessions(query string, args ...any) ([]TutorSession, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query tutor sessions: %w", err)
	}
	defer rows.Close()

	var out []TutorSession
	for rows.Next() {
		t, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan tutor session: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// Session returns one tutor session by ID.
func (s *Store) Session(id string) (TutorSession, error) {
	row := s.db.QueryRow(`SELECT `+sessionColumns+` FROM tutor_sessions WHERE id = ?`, id)
	t, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return TutorSession{}, ErrSessionNotFound
	}
	if err != nil {
		return TutorSession{}, fmt.Errorf("storage: cannot query tutor session: %w", err)
	}
	return t, nil
}

// SessionSteps returns the steps of a tutor session, ones place first.
func (s *Store) SessionSteps(id string) ([]core.ProblemStep, error) {
	rows, err := s.db.Query(
		`SELECT place_index, place_label, interaction, digit1, digit2, result_digit,
		        carried, moves, attempts, explanation
		 FROM tutor_steps
		 WHERE session_id = ?
		 ORDER BY place_index`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query tutor steps: %w", err)
	}
	defer rows.Close()

	var steps []core.ProblemStep
	for rows.Next() {
		var st core.ProblemStep
		if err := rows.Scan(&st.PlaceIndex, &st.PlaceLabel, &st.Interaction, &st.Digit1, &st.Digit2,
			&st.ResultDigit, &st.Carried, &st.Moves, &st.Attempts, &st.Explanation); err != nil {
			return nil, fmt.Errorf("storage: cannot scan tutor step: %w", err)
		}
		steps = append(steps, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return steps, nil
}

// Sink returns a core.ResultSink that saves problems to s and logs
// failures instead of returning them.
func (s *Store) Sink(logger *log.Logger) core.ResultSink {
	return core.ResultSinkFunc(func(r core.ProblemResult) {
		id, err := s.SaveProblemResult(r)
		if err != nil {
			logger.Error("cannot save tutor session", "problem", fmt.Sprintf("%d+%d", r.Num1, r.Num2), "err", err)
			return
		}
		logger.Debug("tutor session saved", "id", id, "answer", r.Answer, "mistakes", r.Mistakes)
	})
}
