package service

import (
	"context"
	"sort"

	"verbclash/internal/models"
	"verbclash/internal/repository"
)

// repos groups the repositories bound to one transaction
type repos struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	moves    *repository.MoveRepository
}

func newRepos(db dbtx) repos {
	return repos{
		users:    repository.NewUserRepository(db),
		sessions: repository.NewSessionRepository(db),
		moves:    repository.NewMoveRepository(db),
	}
}

// assembleState builds userID's view of a session from the session row
// and the two newest moves
func (s *GameService) assembleState(ctx context.Context, r repos, sessionID, userID int64) (*models.SessionState, error) {
	session, err := r.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, storageErr(err)
	}
	if session == nil {
		return nil, ErrNotFound
	}

	moves, err := r.moves.GetLastMoves(ctx, sessionID, 2)
	if err != nil {
		return nil, storageErr(err)
	}

	var last *models.Move
	if len(moves) > 0 {
		last = &moves[0]
	}

	state := &models.SessionState{
		SessionID: session.ID,
		Turn:      Classify(last, userID, session.ChallengedID),
	}

	if session.Mode() == models.ModeTwoPlayer {
		mine, theirs := session.Scores(userID)
		state.MyScore = &mine
		state.TheirScore = &theirs
	}

	if last != nil {
		current := last.Form
		state.Current = &current
		state.Answer = last.Answer
		state.IsCorrect = last.IsCorrect
		state.CorrectAnswer = last.CorrectAnswer
		state.TimedOut = last.TimedOut
		state.MFPressed = last.MFPressed
	}

	if len(moves) == 2 {
		prev := moves[1]
		sameVerb := prev.Form.VerbID == last.Form.VerbID
		if sameVerb {
			state.StartingForm = prev.CorrectAnswer
		}
		if sameVerb && state.MoveType != models.MoveTypeFirstMoveMyTurn {
			prevForm := prev.Form
			state.Previous = &prevForm
			state.Time = prev.Time
		}
	}

	if state.MoveType == models.MoveTypeFirstMoveMyTurn {
		verbs, err := s.availableVerbs(ctx, r, session)
		if err != nil {
			return nil, err
		}
		state.Verbs = verbs
	}

	return state, nil
}

// backfillStartingForm shows the current verb's headword when the
// previous answer cannot serve as the starting point
func (s *GameService) backfillStartingForm(state *models.SessionState) {
	if state.StartingForm != nil || state.Current == nil {
		return
	}
	verb, ok := s.catalog.Verb(state.Current.VerbID)
	if !ok {
		return
	}
	first := verb.PrincipalPart(1)
	state.StartingForm = &first
}

// availableVerbs lists the verbs a player may open a new round with:
// within the session's highest unit and not yet used in it, sorted by
// headword
func (s *GameService) availableVerbs(ctx context.Context, r repos, session *models.Session) ([]models.VerbOption, error) {
	used, err := r.moves.GetUsedVerbIDs(ctx, session.ID)
	if err != nil {
		return nil, storageErr(err)
	}
	seen := make(map[int64]bool, len(used))
	for _, id := range used {
		seen[id] = true
	}

	options := []models.VerbOption{}
	for _, verb := range s.catalog.Verbs() {
		if session.HighestUnit != nil && verb.Unit > *session.HighestUnit {
			continue
		}
		if seen[verb.ID] {
			continue
		}
		options = append(options, models.VerbOption{ID: verb.ID, Headword: verb.Headword()})
	}

	sort.SliceStable(options, func(i, j int) bool {
		return s.morph.Collate(options[i].Headword, options[j].Headword) < 0
	})
	return options, nil
}
