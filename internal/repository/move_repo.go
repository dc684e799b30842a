package repository

import (
	"context"
	"database/sql"
	"fmt"

	"verbclash/internal/database"
	"verbclash/internal/models"
)

const moveColumns = `id, session_id, ask_user_id, answer_user_id, verb_id, person, number, tense, voice, mood,
		       answer, correct_answer, is_correct, time, timed_out, mf_pressed, ask_timestamp, answer_timestamp`

// MoveRepository handles the per-session move ledger. Moves are only
// ever inserted unanswered and answered once; nothing is deleted.
type MoveRepository struct {
	db database.DBTX
}

// NewMoveRepository creates a move repository over a connection or transaction
func NewMoveRepository(db database.DBTX) *MoveRepository {
	return &MoveRepository{db: db}
}

// InsertAskMove appends an unanswered move and returns its id
func (r *MoveRepository) InsertAskMove(ctx context.Context, m *models.Move) (int64, error) {
	query := `
		INSERT INTO moves (session_id, ask_user_id, verb_id, person, number, tense, voice, mood, ask_timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		m.SessionID,
		nullInt64(m.AskUserID),
		m.Form.VerbID,
		int(m.Form.Person),
		int(m.Form.Number),
		int(m.Form.Tense),
		int(m.Form.Voice),
		int(m.Form.Mood),
		m.AskTimestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert move: %w", err)
	}
	return id, nil
}

// GetLastMove returns the most recently asked move; nil for an empty ledger
func (r *MoveRepository) GetLastMove(ctx context.Context, sessionID int64) (*models.Move, error) {
	moves, err := r.GetLastMoves(ctx, sessionID, 1)
	if err != nil || len(moves) == 0 {
		return nil, err
	}
	return &moves[0], nil
}

// GetLastMoves returns up to n moves, newest first
func (r *MoveRepository) GetLastMoves(ctx context.Context, sessionID int64, n int) ([]models.Move, error) {
	query := "SELECT " + moveColumns + `
		FROM moves
		WHERE session_id = ?
		ORDER BY ask_timestamp DESC
		LIMIT ?`
	return r.list(ctx, query, sessionID, n)
}

// ListMoves returns the whole ledger, newest first
func (r *MoveRepository) ListMoves(ctx context.Context, sessionID int64) ([]models.Move, error) {
	query := "SELECT " + moveColumns + `
		FROM moves
		WHERE session_id = ?
		ORDER BY ask_timestamp DESC`
	return r.list(ctx, query, sessionID)
}

// GetAskHistory returns the verb id of every ask, newest first
func (r *MoveRepository) GetAskHistory(ctx context.Context, sessionID int64) ([]int64, error) {
	query := "SELECT verb_id FROM moves WHERE session_id = ? ORDER BY ask_timestamp DESC"
	return r.ids(ctx, query, sessionID)
}

// GetUsedVerbIDs returns the distinct verbs that appear in the ledger
func (r *MoveRepository) GetUsedVerbIDs(ctx context.Context, sessionID int64) ([]int64, error) {
	query := "SELECT DISTINCT verb_id FROM moves WHERE session_id = ?"
	return r.ids(ctx, query, sessionID)
}

// UpdateAnswer fills in the answer fields of an unanswered move. It
// returns false when the move was already answered, so a racing second
// answer cannot overwrite the first.
func (r *MoveRepository) UpdateAnswer(ctx context.Context, moveID int64, rec models.AnswerRecord) (bool, error) {
	query := `
		UPDATE moves
		SET answer_user_id = ?, answer = ?, correct_answer = ?, is_correct = ?,
		    time = ?, timed_out = ?, mf_pressed = ?, answer_timestamp = ?
		WHERE id = ? AND is_correct IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		rec.AnswerUserID,
		rec.Answer,
		rec.CorrectAnswer,
		rec.IsCorrect,
		rec.Time,
		rec.TimedOut,
		rec.MFPressed,
		rec.AnswerTimestamp,
		moveID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record answer: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to record answer: %w", err)
	}
	return n == 1, nil
}

func (r *MoveRepository) ids(ctx context.Context, query string, sessionID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query verb ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan verb id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *MoveRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Move, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query moves: %w", err)
	}
	defer rows.Close()

	var moves []models.Move
	for rows.Next() {
		m, err := scanMove(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		moves = append(moves, *m)
	}
	return moves, rows.Err()
}

func scanMove(row rowScanner) (*models.Move, error) {
	var (
		m                                  models.Move
		askUser, answerUser, answerTS      sql.NullInt64
		person, number, tense, voice, mood int
		answer, correctAnswer, elapsed     sql.NullString
		isCorrect, timedOut, mfPressed     sql.NullBool
	)
	err := row.Scan(
		&m.ID,
		&m.SessionID,
		&askUser,
		&answerUser,
		&m.Form.VerbID,
		&person,
		&number,
		&tense,
		&voice,
		&mood,
		&answer,
		&correctAnswer,
		&isCorrect,
		&elapsed,
		&timedOut,
		&mfPressed,
		&m.AskTimestamp,
		&answerTS,
	)
	if err != nil {
		return nil, err
	}

	m.AskUserID = int64FromNull(askUser)
	m.AnswerUserID = int64FromNull(answerUser)
	m.Form.Person = models.Person(person)
	m.Form.Number = models.Number(number)
	m.Form.Tense = models.Tense(tense)
	m.Form.Voice = models.Voice(voice)
	m.Form.Mood = models.Mood(mood)
	m.Answer = stringFromNull(answer)
	m.CorrectAnswer = stringFromNull(correctAnswer)
	m.IsCorrect = boolFromNull(isCorrect)
	m.Time = stringFromNull(elapsed)
	m.TimedOut = boolFromNull(timedOut)
	m.MFPressed = boolFromNull(mfPressed)
	m.AnswerTimestamp = int64FromNull(answerTS)
	return &m, nil
}
