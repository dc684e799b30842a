package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"verbclash/internal/models"
)

// AskRequest proposes the next question of a two-player session
type AskRequest struct {
	SessionID int64 `json:"session_id" validate:"required,gt=0"`
	VerbID    int64 `json:"verb" validate:"required,gt=0"`
	Person    int   `json:"person" validate:"min=0,max=3"`
	Number    int   `json:"number" validate:"min=0,max=3"`
	Tense     int   `json:"tense" validate:"min=1,max=7"`
	Voice     int   `json:"voice" validate:"min=1,max=4"`
	Mood      int   `json:"mood" validate:"min=1,max=6"`
	// Timestamp is the client's clock in unix milliseconds; 0 means use the server's
	Timestamp int64 `json:"timestamp" validate:"min=0"`
}

// Form is the grammatical tuple being asked
func (r AskRequest) Form() models.Form {
	return models.Form{
		VerbID: r.VerbID,
		Person: models.Person(r.Person),
		Number: models.Number(r.Number),
		Tense:  models.Tense(r.Tense),
		Voice:  models.Voice(r.Voice),
		Mood:   models.Mood(r.Mood),
	}
}

// AnswerRequest answers (or disputes, for mf) the pending question
type AnswerRequest struct {
	SessionID int64  `json:"session_id" validate:"required,gt=0"`
	Answer    string `json:"answer" validate:"max=255"`
	Time      string `json:"time" validate:"max=32"`
	TimedOut  bool   `json:"timed_out"`
}

// CreateSessionRequest starts a practice session (no opponent) or a contest
type CreateSessionRequest struct {
	Name                string  `json:"name" validate:"max=255"`
	Opponent            string  `json:"opponent" validate:"max=255"`
	VerbIDs             []int64 `json:"verbs" validate:"dive,gt=0"`
	Units               []int   `json:"units" validate:"dive,min=1,max=20"`
	CustomParams        string  `json:"params" validate:"max=1024"`
	HighestUnit         *int    `json:"highest_unit"`
	MaxChanges          *int    `json:"max_changes" validate:"omitempty,min=1,max=5"`
	PracticeRepsPerVerb *int    `json:"practice_reps_per_verb" validate:"omitempty,min=1,max=100"`
	Countdown           bool    `json:"countdown"`
	TimeLimit           *int    `json:"time_limit" validate:"omitempty,min=1"`
}

func validateRequest(v *validator.Validate, req interface{}) error {
	if err := v.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, err)
	}
	return nil
}
