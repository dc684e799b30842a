package service

import "verbclash/internal/models"

// Classify derives whose turn it is and what kind of move comes next
// from the most recent move alone. challengedID is nil for practice.
func Classify(last *models.Move, userID int64, challengedID *int64) models.Turn {
	if challengedID == nil {
		return models.Turn{MoveType: models.MoveTypePractice, MyTurn: true}
	}

	if last == nil {
		// The challenger opens
		if *challengedID == userID {
			return models.Turn{MoveType: models.MoveTypeFirstMoveTheirTurn, MyTurn: false}
		}
		return models.Turn{MoveType: models.MoveTypeFirstMoveMyTurn, MyTurn: true}
	}

	if last.AskedBy(userID) {
		if last.IsAnswered() {
			return models.Turn{MoveType: models.MoveTypeAskTheirTurn, MyTurn: false}
		}
		return models.Turn{MoveType: models.MoveTypeAnswerTheirTurn, MyTurn: false}
	}

	if !last.IsAnswered() {
		return models.Turn{MoveType: models.MoveTypeAnswerMyTurn, MyTurn: true}
	}
	// A wrong answer always sends the answerer to a new verb
	if last.AnsweredIncorrectly() {
		return models.Turn{MoveType: models.MoveTypeFirstMoveMyTurn, MyTurn: true}
	}
	return models.Turn{MoveType: models.MoveTypeAskMyTurn, MyTurn: true}
}
