package models

import "time"

const (
	DefaultRepsPerVerb = 4
	DefaultMaxChanges  = 2
	MinHighestUnit     = 2
	MaxHighestUnit     = 20
)

// SessionStatus of a drill session
type SessionStatus int

const (
	SessionActive SessionStatus = 1
	SessionClosed SessionStatus = 2
)

// Mode tells practice sessions from two-player contests
type Mode int

const (
	ModePractice Mode = iota
	ModeTwoPlayer
)

func (m Mode) String() string {
	if m == ModePractice {
		return "practice"
	}
	return "two_player"
}

// Side names one of the two score columns
type Side int

const (
	SideChallenger Side = iota
	SideChallenged
)

// Session is one drill contest. ChallengedID is nil for solo practice.
// Participants and VerbIDs never change after creation.
type Session struct {
	ID                  int64
	ChallengerID        int64
	ChallengedID        *int64
	Name                string
	VerbIDs             []int64
	Units               []int
	CustomParams        string
	HighestUnit         *int
	MaxChanges          *int
	PracticeRepsPerVerb *int
	Countdown           bool
	TimeLimit           *int
	Status              SessionStatus
	ChallengerScore     int
	ChallengedScore     int
	CreatedAt           time.Time
}

// Mode reports whether the session has an opponent
func (s *Session) Mode() Mode {
	if s.ChallengedID == nil {
		return ModePractice
	}
	return ModeTwoPlayer
}

// IsParticipant reports whether userID plays in this session
func (s *Session) IsParticipant(userID int64) bool {
	return s.ChallengerID == userID || (s.ChallengedID != nil && *s.ChallengedID == userID)
}

// OpponentSide is the score column credited when userID answers wrongly
func (s *Session) OpponentSide(userID int64) Side {
	if userID == s.ChallengerID {
		return SideChallenged
	}
	return SideChallenger
}

// OpponentID returns the other participant, or nil in practice
func (s *Session) OpponentID(userID int64) *int64 {
	if s.ChallengedID == nil {
		return nil
	}
	if userID == s.ChallengerID {
		id := *s.ChallengedID
		return &id
	}
	id := s.ChallengerID
	return &id
}

// Scores returns (mine, theirs) from userID's point of view
func (s *Session) Scores(userID int64) (int, int) {
	if userID == s.ChallengerID {
		return s.ChallengerScore, s.ChallengedScore
	}
	return s.ChallengedScore, s.ChallengerScore
}

// RepsPerVerb is how many questions practice asks on one verb before rotating
func (s *Session) RepsPerVerb() int {
	if s.PracticeRepsPerVerb == nil || *s.PracticeRepsPerVerb < 1 {
		return DefaultRepsPerVerb
	}
	return *s.PracticeRepsPerVerb
}

// MaxFormChanges caps the categories that may differ between consecutive practice questions
func (s *Session) MaxFormChanges() int {
	if s.MaxChanges == nil || *s.MaxChanges < 1 {
		return DefaultMaxChanges
	}
	return *s.MaxChanges
}

// ClampHighestUnit bounds a requested highest unit to the supported range
func ClampHighestUnit(unit int) int {
	if unit < MinHighestUnit {
		return MinHighestUnit
	}
	if unit > MaxHighestUnit {
		return MaxHighestUnit
	}
	return unit
}
