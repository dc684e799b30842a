package models

import "time"

// MoveType is the turn label derived from the ledger
type MoveType int

const (
	MoveTypePractice MoveType = iota
	MoveTypeFirstMoveMyTurn
	MoveTypeFirstMoveTheirTurn
	MoveTypeAskMyTurn
	MoveTypeAskTheirTurn
	MoveTypeAnswerMyTurn
	MoveTypeAnswerTheirTurn
	// MoveTypeGameOver is reserved; no rule produces it yet
	MoveTypeGameOver
)

var moveTypeNames = []string{
	"Practice",
	"FirstMoveMyTurn",
	"FirstMoveTheirTurn",
	"AskMyTurn",
	"AskTheirTurn",
	"AnswerMyTurn",
	"AnswerTheirTurn",
	"GameOver",
}

func (t MoveType) String() string {
	return name(moveTypeNames, int(t))
}

// Turn is the classifier's verdict for one user
type Turn struct {
	MoveType MoveType `json:"move_type"`
	MyTurn   bool     `json:"myturn"`
}

// Response tags
const (
	RespAsk               = "ask"
	RespAnswer            = "answerresponse"
	RespAnswerPractice    = "answerresponsepractice"
	RespMFPressed         = "mfpressedresponse"
	RespMFPressedPractice = "mfpressedresponsepractice"
	RespNewSession        = "newsession"
	RespGetMove           = "getmove"
	RespGetMoves          = "getmoves"
	RespGetSessions       = "getsessions"
)

// SessionState is the read-only view of a session for one user
type SessionState struct {
	SessionID int64 `json:"session_id"`
	Turn
	MyScore       *int         `json:"my_score,omitempty"`
	TheirScore    *int         `json:"their_score,omitempty"`
	StartingForm  *string      `json:"starting_form,omitempty"`
	Current       *Form        `json:"current,omitempty"`
	Previous      *Form        `json:"previous,omitempty"`
	Answer        *string      `json:"answer,omitempty"`
	IsCorrect     *bool        `json:"is_correct,omitempty"`
	CorrectAnswer *string      `json:"correct_answer,omitempty"`
	Time          *string      `json:"time,omitempty"`
	TimedOut      *bool        `json:"timed_out,omitempty"`
	MFPressed     *bool        `json:"mf_pressed,omitempty"`
	Verbs         []VerbOption `json:"verbs,omitempty"`
	ResponseTo    string       `json:"response_to"`
	Success       bool         `json:"success"`
	Mesg          string       `json:"mesg,omitempty"`
}

// SessionSummary is one row of a user's session list
type SessionSummary struct {
	SessionID    int64   `json:"session_id"`
	Name         string  `json:"name"`
	OpponentName *string `json:"opponent_name,omitempty"`
	MyScore      *int    `json:"my_score,omitempty"`
	TheirScore   *int    `json:"their_score,omitempty"`
	Turn
	CreatedAt time.Time `json:"created_at"`
}

// SessionList answers getsessions
type SessionList struct {
	ResponseTo string           `json:"response_to"`
	Sessions   []SessionSummary `json:"sessions"`
}

// MoveList answers getmoves
type MoveList struct {
	ResponseTo string `json:"response_to"`
	SessionID  int64  `json:"session_id"`
	Moves      []Move `json:"moves"`
}

// NewSessionResult answers newsession
type NewSessionResult struct {
	ResponseTo string `json:"response_to"`
	SessionID  int64  `json:"session_id"`
	Success    bool   `json:"success"`
	Mesg       string `json:"mesg,omitempty"`
}
