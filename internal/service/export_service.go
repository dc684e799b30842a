package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"verbclash/internal/database"
	"verbclash/internal/logger"
	"verbclash/internal/models"
)

// ExportVersion is bumped when the dump layout changes
const ExportVersion = "1.0"

// ExportData is a complete dump of users, sessions and moves
type ExportData struct {
	Version      string          `json:"version"`
	ExportedAt   time.Time       `json:"exported_at"`
	DatabaseType string          `json:"database_type"`
	Users        []models.User   `json:"users"`
	Sessions     []SessionExport `json:"sessions"`
}

// SessionExport is one session with its ledger
type SessionExport struct {
	ID                  int64         `json:"id"`
	ChallengerID        int64         `json:"challenger_id"`
	ChallengedID        *int64        `json:"challenged_id"`
	Name                string        `json:"name"`
	VerbIDs             []int64       `json:"verbs"`
	Units               []int         `json:"units"`
	CustomParams        string        `json:"custom_params"`
	HighestUnit         *int          `json:"highest_unit"`
	MaxChanges          *int          `json:"max_changes"`
	PracticeRepsPerVerb *int          `json:"practice_reps_per_verb"`
	Countdown           bool          `json:"countdown"`
	TimeLimit           *int          `json:"time_limit"`
	Status              int           `json:"status"`
	ChallengerScore     int           `json:"challenger_score"`
	ChallengedScore     int           `json:"challenged_score"`
	CreatedAt           time.Time     `json:"created_at"`
	Moves               []models.Move `json:"moves"`
}

// ExportService dumps the database for backups and analysis
type ExportService struct {
	db  *database.DB
	log *logger.Logger
}

// NewExportService creates a new export service
func NewExportService(db *database.DB, log *logger.Logger) *ExportService {
	if log == nil {
		log = logger.Discard()
	}
	return &ExportService{db: db, log: log}
}

// ExportToFile writes the dump to outputPath
func (s *ExportService) ExportToFile(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.Export(ctx, file); err != nil {
		return err
	}
	s.log.Entry().WithField("path", outputPath).Info("Database exported")
	return nil
}

// Export writes the dump as indented JSON
func (s *ExportService) Export(ctx context.Context, w io.Writer) error {
	data, err := s.collect(ctx)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	moves := 0
	for _, session := range data.Sessions {
		moves += len(session.Moves)
	}
	s.log.Entry().WithFields(map[string]interface{}{
		"users":    len(data.Users),
		"sessions": len(data.Sessions),
		"moves":    moves,
	}).Info("Export complete")
	return nil
}

func (s *ExportService) collect(ctx context.Context) (*ExportData, error) {
	r := newRepos(s.db)

	data := &ExportData{
		Version:      ExportVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.Dialect.DriverName(),
		Users:        []models.User{},
		Sessions:     []SessionExport{},
	}

	users, err := r.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	data.Users = append(data.Users, users...)

	sessions, err := r.sessions.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export sessions: %w", err)
	}
	for _, session := range sessions {
		moves, err := r.moves.ListMoves(ctx, session.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to export moves of session %d: %w", session.ID, err)
		}
		if moves == nil {
			moves = []models.Move{}
		}
		data.Sessions = append(data.Sessions, SessionExport{
			ID:                  session.ID,
			ChallengerID:        session.ChallengerID,
			ChallengedID:        session.ChallengedID,
			Name:                session.Name,
			VerbIDs:             session.VerbIDs,
			Units:               session.Units,
			CustomParams:        session.CustomParams,
			HighestUnit:         session.HighestUnit,
			MaxChanges:          session.MaxChanges,
			PracticeRepsPerVerb: session.PracticeRepsPerVerb,
			Countdown:           session.Countdown,
			TimeLimit:           session.TimeLimit,
			Status:              int(session.Status),
			ChallengerScore:     session.ChallengerScore,
			ChallengedScore:     session.ChallengedScore,
			CreatedAt:           session.CreatedAt,
			Moves:               moves,
		})
	}
	return data, nil
}
