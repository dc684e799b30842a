package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"verbclash/internal/models"
)

func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }

const (
	alice int64 = 1
	bob   int64 = 2
)

func TestClassify(t *testing.T) {
	challenged := int64Ptr(bob)

	askedByAlice := &models.Move{AskUserID: int64Ptr(alice)}
	rightByBob := &models.Move{AskUserID: int64Ptr(alice), AnswerUserID: int64Ptr(bob), IsCorrect: boolPtr(true)}
	wrongByBob := &models.Move{AskUserID: int64Ptr(alice), AnswerUserID: int64Ptr(bob), IsCorrect: boolPtr(false)}

	tests := []struct {
		name       string
		last       *models.Move
		user       int64
		challenged *int64
		want       models.Turn
	}{
		{"practice without moves", nil, alice, nil, models.Turn{MoveType: models.MoveTypePractice, MyTurn: true}},
		{"practice ignores history", wrongByBob, alice, nil, models.Turn{MoveType: models.MoveTypePractice, MyTurn: true}},
		{"challenger opens", nil, alice, challenged, models.Turn{MoveType: models.MoveTypeFirstMoveMyTurn, MyTurn: true}},
		{"challenged waits for the opening", nil, bob, challenged, models.Turn{MoveType: models.MoveTypeFirstMoveTheirTurn, MyTurn: false}},
		{"asker waits for the answer", askedByAlice, alice, challenged, models.Turn{MoveType: models.MoveTypeAnswerTheirTurn, MyTurn: false}},
		{"other side answers", askedByAlice, bob, challenged, models.Turn{MoveType: models.MoveTypeAnswerMyTurn, MyTurn: true}},
		{"asker waits after a right answer", rightByBob, alice, challenged, models.Turn{MoveType: models.MoveTypeAskTheirTurn, MyTurn: false}},
		{"right answer earns the next ask", rightByBob, bob, challenged, models.Turn{MoveType: models.MoveTypeAskMyTurn, MyTurn: true}},
		{"asker waits after a wrong answer", wrongByBob, alice, challenged, models.Turn{MoveType: models.MoveTypeAskTheirTurn, MyTurn: false}},
		{"wrong answer forces a new verb", wrongByBob, bob, challenged, models.Turn{MoveType: models.MoveTypeFirstMoveMyTurn, MyTurn: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.last, tt.user, tt.challenged))
		})
	}
}

func TestClassifyIsComplementary(t *testing.T) {
	challenged := int64Ptr(bob)
	ledgers := map[string]*models.Move{
		"empty":              nil,
		"alice asked":        {AskUserID: int64Ptr(alice)},
		"bob asked":          {AskUserID: int64Ptr(bob)},
		"bob answered right": {AskUserID: int64Ptr(alice), AnswerUserID: int64Ptr(bob), IsCorrect: boolPtr(true)},
		"bob answered wrong": {AskUserID: int64Ptr(alice), AnswerUserID: int64Ptr(bob), IsCorrect: boolPtr(false)},
		"alice answered":     {AskUserID: int64Ptr(bob), AnswerUserID: int64Ptr(alice), IsCorrect: boolPtr(true)},
	}

	for name, last := range ledgers {
		a := Classify(last, alice, challenged)
		b := Classify(last, bob, challenged)
		assert.NotEqual(t, a.MyTurn, b.MyTurn, "%s: exactly one player may move", name)
	}
}
