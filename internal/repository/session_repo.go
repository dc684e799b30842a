package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"verbclash/internal/database"
	"verbclash/internal/models"
)

const sessionColumns = `id, challenger_id, challenged_id, name, verbs, units, custom_params,
		       highest_unit, max_changes, practice_reps_per_verb, countdown, time_limit,
		       status, challenger_score, challenged_score, created_at`

// SessionRepository handles drill session rows
type SessionRepository struct {
	db database.DBTX
}

// NewSessionRepository creates a session repository over a connection or transaction
func NewSessionRepository(db database.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateSession inserts a session with both scores at zero and returns its id
func (r *SessionRepository) CreateSession(ctx context.Context, s *models.Session) (int64, error) {
	query := `
		INSERT INTO sessions (challenger_id, challenged_id, name, verbs, units, custom_params,
		                      highest_unit, max_changes, practice_reps_per_verb, countdown, time_limit,
		                      status, challenger_score, challenged_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		s.ChallengerID,
		nullInt64(s.ChallengedID),
		s.Name,
		idsToString(s.VerbIDs),
		unitsToString(s.Units),
		s.CustomParams,
		nullInt(s.HighestUnit),
		nullInt(s.MaxChanges),
		nullInt(s.PracticeRepsPerVerb),
		s.Countdown,
		nullInt(s.TimeLimit),
		int(models.SessionActive),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// GetSession retrieves a session by ID; nil when there is none
func (r *SessionRepository) GetSession(ctx context.Context, id int64) (*models.Session, error) {
	return r.getSession(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)
}

// GetSessionForUpdate retrieves a session and, where the dialect supports
// it, locks the row until the surrounding transaction ends
func (r *SessionRepository) GetSessionForUpdate(ctx context.Context, id int64) (*models.Session, error) {
	query := "SELECT " + sessionColumns + " FROM sessions WHERE id = ?" + r.db.GetDialect().ForUpdate()
	return r.getSession(ctx, query, id)
}

func (r *SessionRepository) getSession(ctx context.Context, query string, id int64) (*models.Session, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// ListSessionsForUser returns the sessions userID plays in, newest first
func (r *SessionRepository) ListSessionsForUser(ctx context.Context, userID int64) ([]models.Session, error) {
	query := "SELECT " + sessionColumns + `
		FROM sessions
		WHERE challenger_id = ? OR challenged_id = ?
		ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, userID, userID)
}

// ListSessions returns every session ordered by id
func (r *SessionRepository) ListSessions(ctx context.Context) ([]models.Session, error) {
	return r.list(ctx, "SELECT "+sessionColumns+" FROM sessions ORDER BY id")
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// AddToScore adds delta to one side's score
func (r *SessionRepository) AddToScore(ctx context.Context, sessionID int64, side models.Side, delta int) error {
	column := "challenger_score"
	if side == models.SideChallenged {
		column = "challenged_score"
	}
	query := "UPDATE sessions SET " + column + " = " + column + " + ? WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, delta, sessionID); err != nil {
		return fmt.Errorf("failed to update score: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	var (
		s                                        models.Session
		challenged                               sql.NullInt64
		verbs, units                             string
		highestUnit, maxChanges, reps, timeLimit sql.NullInt64
		status                                   int
	)
	err := row.Scan(
		&s.ID,
		&s.ChallengerID,
		&challenged,
		&s.Name,
		&verbs,
		&units,
		&s.CustomParams,
		&highestUnit,
		&maxChanges,
		&reps,
		&s.Countdown,
		&timeLimit,
		&status,
		&s.ChallengerScore,
		&s.ChallengedScore,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.ChallengedID = int64FromNull(challenged)
	s.VerbIDs = parseIDString(verbs)
	s.Units = parseUnitString(units)
	s.HighestUnit = intFromNull(highestUnit)
	s.MaxChanges = intFromNull(maxChanges)
	s.PracticeRepsPerVerb = intFromNull(reps)
	s.TimeLimit = intFromNull(timeLimit)
	s.Status = models.SessionStatus(status)
	return &s, nil
}
