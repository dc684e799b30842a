package models

// Move is one ask/answer cycle. AskUserID is nil for questions the
// practice scheduler asked. The answer fields stay nil until the single
// Answer or mf check that completes the move.
type Move struct {
	ID              int64   `json:"id"`
	SessionID       int64   `json:"session_id"`
	AskUserID       *int64  `json:"ask_user_id"`
	AnswerUserID    *int64  `json:"answer_user_id"`
	Form            Form    `json:"form"`
	Answer          *string `json:"answer"`
	CorrectAnswer   *string `json:"correct_answer"`
	IsCorrect       *bool   `json:"is_correct"`
	Time            *string `json:"time"`
	TimedOut        *bool   `json:"timed_out"`
	MFPressed       *bool   `json:"mf_pressed"`
	AskTimestamp    int64   `json:"ask_timestamp"`
	AnswerTimestamp *int64  `json:"answer_timestamp"`
}

// IsAnswered reports whether the move has been graded
func (m *Move) IsAnswered() bool {
	return m.IsCorrect != nil
}

// AskedBy reports whether userID asked this move
func (m *Move) AskedBy(userID int64) bool {
	return m.AskUserID != nil && *m.AskUserID == userID
}

// AnsweredBy reports whether userID answered this move
func (m *Move) AnsweredBy(userID int64) bool {
	return m.AnswerUserID != nil && *m.AnswerUserID == userID
}

// AnsweredIncorrectly is true only for graded, wrong answers
func (m *Move) AnsweredIncorrectly() bool {
	return m.IsCorrect != nil && !*m.IsCorrect
}

// AnswerRecord holds the fields written when a move is answered
type AnswerRecord struct {
	AnswerUserID    int64
	Answer          string
	CorrectAnswer   string
	IsCorrect       bool
	Time            string
	TimedOut        bool
	MFPressed       bool
	AnswerTimestamp int64
}

// NextAskTimestamp keeps ask timestamps strictly increasing within a
// session whatever the proposing clock says
func NextAskTimestamp(proposed int64, last *Move) int64 {
	if last != nil && proposed <= last.AskTimestamp {
		return last.AskTimestamp + 1
	}
	return proposed
}
