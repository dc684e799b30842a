package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"verbclash/internal/broadcast"
	"verbclash/internal/database"
	"verbclash/internal/logger"
	"verbclash/internal/metrics"
	"verbclash/internal/models"
	"verbclash/internal/morph"
)

type dbtx = database.DBTX

// VerbCatalog is the read side of the verb catalog
type VerbCatalog interface {
	Verb(id int64) (*models.Verb, bool)
	Verbs() []models.Verb
	IDsForUnits(units []int) []int64
}

// GameService runs the ask/answer protocol of drill sessions. Every
// mutating operation is one transaction: it commits only when all
// sequencing checks pass.
type GameService struct {
	db        *database.DB
	catalog   VerbCatalog
	morph     morph.Engine
	scheduler *Scheduler
	publisher broadcast.Publisher
	metrics   *metrics.Metrics
	log       *logger.Logger
	validate  *validator.Validate
	now       func() time.Time
}

// Option configures a GameService
type Option func(*GameService)

// WithScheduler replaces the practice scheduler (tests seed its randomness)
func WithScheduler(sch *Scheduler) Option {
	return func(s *GameService) { s.scheduler = sch }
}

// WithPublisher sets where room events go
func WithPublisher(p broadcast.Publisher) Option {
	return func(s *GameService) { s.publisher = p }
}

// WithMetrics records moves and sessions on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *GameService) { s.metrics = m }
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(s *GameService) { s.log = l }
}

// WithClock sets the server clock
func WithClock(now func() time.Time) Option {
	return func(s *GameService) { s.now = now }
}

// NewGameService creates a new game service
func NewGameService(db *database.DB, catalog VerbCatalog, engine morph.Engine, opts ...Option) *GameService {
	s := &GameService{
		db:        db,
		catalog:   catalog,
		morph:     engine,
		scheduler: NewScheduler(nil),
		publisher: broadcast.Nop{},
		log:       logger.Discard(),
		validate:  validator.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// inTx runs fn in a transaction, committing when it returns nil.
// errRollback rolls back and reports success.
func (s *GameService) inTx(ctx context.Context, fn func(tx dbtx) error) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return storageErr(err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Entry().WithError(rbErr).Warn("Rollback failed")
		}
		if errors.Is(err, errRollback) {
			return nil
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr(err)
	}
	return nil
}

// loadSession fetches a session the acting user plays in. Mutating
// operations lock the row so racing requests on one session serialize.
func (s *GameService) loadSession(ctx context.Context, r repos, sessionID, userID int64, lock bool) (*models.Session, error) {
	var (
		session *models.Session
		err     error
	)
	if lock {
		session, err = r.sessions.GetSessionForUpdate(ctx, sessionID)
	} else {
		session, err = r.sessions.GetSession(ctx, sessionID)
	}
	if err != nil {
		return nil, storageErr(err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}
	if !session.IsParticipant(userID) {
		return nil, fmt.Errorf("%w: user %d does not play in session %d", ErrNotAuthorized, userID, sessionID)
	}
	return session, nil
}

// Ask records a question from userID in a two-player session
func (s *GameService) Ask(ctx context.Context, userID int64, req AskRequest) (*models.SessionState, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	var state *models.SessionState
	err := s.inTx(ctx, func(tx dbtx) error {
		var err error
		state, err = s.ask(ctx, tx, userID, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Move(metrics.MoveAsk)
	s.log.WithSession(userID, req.SessionID).WithField("verb_id", req.VerbID).Debug("Question asked")
	s.notify(ctx, state, userID)
	return state, nil
}

func (s *GameService) ask(ctx context.Context, tx dbtx, userID int64, req AskRequest) (*models.SessionState, error) {
	r := newRepos(tx)

	session, err := s.loadSession(ctx, r, req.SessionID, userID, true)
	if err != nil {
		return nil, err
	}
	if _, ok := s.catalog.Verb(req.VerbID); !ok {
		return nil, fmt.Errorf("%w: unknown verb %d", ErrInvalidArgument, req.VerbID)
	}

	last, err := r.moves.GetLastMove(ctx, session.ID)
	if err != nil {
		return nil, storageErr(err)
	}
	if last != nil {
		switch {
		case last.AskedBy(userID):
			return nil, outOfSequence("you asked the last question")
		case !last.AnsweredBy(userID):
			return nil, outOfSequence("it is not your turn to ask")
		case !last.IsAnswered():
			return nil, outOfSequence("the last question is unanswered")
		}
	}

	proposed := req.Timestamp
	if proposed == 0 {
		proposed = s.now().UnixMilli()
	}
	move := &models.Move{
		SessionID:    session.ID,
		AskUserID:    &userID,
		Form:         req.Form(),
		AskTimestamp: models.NextAskTimestamp(proposed, last),
	}
	if _, err := r.moves.InsertAskMove(ctx, move); err != nil {
		return nil, storageErr(err)
	}

	state, err := s.assembleState(ctx, r, session.ID, userID)
	if err != nil {
		return nil, err
	}
	s.backfillStartingForm(state)
	state.ResponseTo = models.RespAsk
	state.Success = true
	return state, nil
}

// Answer grades userID's answer to the pending question. In practice
// the next question is scheduled in the same transaction.
func (s *GameService) Answer(ctx context.Context, userID int64, req AnswerRequest) (*models.SessionState, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	var state *models.SessionState
	err := s.inTx(ctx, func(tx dbtx) error {
		var err error
		state, err = s.answer(ctx, tx, userID, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	if state.IsCorrect != nil && *state.IsCorrect {
		s.metrics.Move(metrics.MoveAnswerCorrect)
	} else {
		s.metrics.Move(metrics.MoveAnswerIncorrect)
	}
	s.afterAnswer(ctx, state, userID)
	return state, nil
}

func (s *GameService) answer(ctx context.Context, tx dbtx, userID int64, req AnswerRequest) (*models.SessionState, error) {
	r := newRepos(tx)

	session, pending, err := s.pendingMove(ctx, r, req.SessionID, userID)
	if err != nil {
		return nil, err
	}

	canonical := s.canonicalAnswer(pending.Form)
	isCorrect := s.morph.Compare(canonical, req.Answer)
	return s.recordAnswer(ctx, r, session, pending, userID, req, canonical, isCorrect, false)
}

// MF handles a claim that the pending question has more than one right
// answer. A true claim changes nothing; a false one counts as a wrong answer.
func (s *GameService) MF(ctx context.Context, userID int64, req AnswerRequest) (*models.SessionState, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	var state *models.SessionState
	err := s.inTx(ctx, func(tx dbtx) error {
		var err error
		state, err = s.mf(ctx, tx, userID, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	if state.Mesg == mesgNotMultiple {
		s.metrics.Move(metrics.MoveMFSingle)
		s.afterAnswer(ctx, state, userID)
	} else {
		s.metrics.Move(metrics.MoveMFMultiple)
	}
	return state, nil
}

const (
	mesgMultiple    = "verb does have multiple forms"
	mesgNotMultiple = "verb does not have multiple forms"
)

func (s *GameService) mf(ctx context.Context, tx dbtx, userID int64, req AnswerRequest) (*models.SessionState, error) {
	r := newRepos(tx)

	session, pending, err := s.pendingMove(ctx, r, req.SessionID, userID)
	if err != nil {
		return nil, err
	}

	canonical := s.canonicalAnswer(pending.Form)
	if !morph.HasMultipleForms(canonical) {
		return s.recordAnswer(ctx, r, session, pending, userID, req, canonical, false, true)
	}

	state, err := s.assembleState(ctx, r, session.ID, userID)
	if err != nil {
		return nil, err
	}
	s.backfillStartingForm(state)
	state.ResponseTo = responseTag(session.Mode(), true)
	state.Success = true
	state.Mesg = mesgMultiple
	return state, errRollback
}

// pendingMove loads the question userID is about to answer
func (s *GameService) pendingMove(ctx context.Context, r repos, sessionID, userID int64) (*models.Session, *models.Move, error) {
	session, err := s.loadSession(ctx, r, sessionID, userID, true)
	if err != nil {
		return nil, nil, err
	}

	last, err := r.moves.GetLastMove(ctx, session.ID)
	if err != nil {
		return nil, nil, storageErr(err)
	}
	switch {
	case last == nil:
		return nil, nil, outOfSequence("there is no question to answer")
	case last.AskedBy(userID):
		return nil, nil, outOfSequence("you cannot answer your own question")
	case last.IsAnswered():
		return nil, nil, outOfSequence("the question is already answered")
	}
	return session, last, nil
}

// canonicalAnswer renders the asked form; a form the verb lacks is the dash
func (s *GameService) canonicalAnswer(form models.Form) string {
	verb, ok := s.catalog.Verb(form.VerbID)
	if !ok {
		return models.DashPlaceholder
	}
	text, err := s.morph.Render(verb, form)
	if err != nil {
		return models.DashPlaceholder
	}
	return morph.NormalizeDashes(text)
}

func (s *GameService) recordAnswer(ctx context.Context, r repos, session *models.Session, pending *models.Move,
	userID int64, req AnswerRequest, canonical string, isCorrect, mfPressed bool) (*models.SessionState, error) {
	now := s.now()

	updated, err := r.moves.UpdateAnswer(ctx, pending.ID, models.AnswerRecord{
		AnswerUserID:    userID,
		Answer:          req.Answer,
		CorrectAnswer:   canonical,
		IsCorrect:       isCorrect,
		Time:            req.Time,
		TimedOut:        req.TimedOut,
		MFPressed:       mfPressed,
		AnswerTimestamp: now.UnixMilli(),
	})
	if err != nil {
		return nil, storageErr(err)
	}
	if !updated {
		return nil, outOfSequence("the question is already answered")
	}

	mode := session.Mode()
	switch mode {
	case models.ModePractice:
		if err := s.schedulePractice(ctx, r, session, &pending.Form, pending, now); err != nil {
			return nil, err
		}
	case models.ModeTwoPlayer:
		// A wrong answer scores for the other side
		if !isCorrect {
			if err := r.sessions.AddToScore(ctx, session.ID, session.OpponentSide(userID), 1); err != nil {
				return nil, storageErr(err)
			}
		}
	}

	state, err := s.assembleState(ctx, r, session.ID, userID)
	if err != nil {
		return nil, err
	}
	s.backfillStartingForm(state)
	if mode == models.ModePractice {
		state.IsCorrect = &isCorrect
		state.CorrectAnswer = &canonical
	}
	state.ResponseTo = responseTag(mode, mfPressed)
	state.Success = true
	if mfPressed {
		state.Mesg = mesgNotMultiple
	}
	return state, nil
}

func responseTag(mode models.Mode, mf bool) string {
	switch {
	case mf && mode == models.ModePractice:
		return models.RespMFPressedPractice
	case mf:
		return models.RespMFPressed
	case mode == models.ModePractice:
		return models.RespAnswerPractice
	default:
		return models.RespAnswer
	}
}

// schedulePractice appends the next system question of a practice
// session. prev and last are nil when seeding a new session.
func (s *GameService) schedulePractice(ctx context.Context, r repos, session *models.Session, prev *models.Form, last *models.Move, now time.Time) error {
	history, err := r.moves.GetAskHistory(ctx, session.ID)
	if err != nil {
		return storageErr(err)
	}

	var current int64
	if prev != nil {
		current = prev.VerbID
	}
	verbID := s.scheduler.NextVerb(session.VerbIDs, history, session.RepsPerVerb(), current)

	verb, ok := s.catalog.Verb(verbID)
	if !ok {
		return fmt.Errorf("%w: verb %d is not in the catalog", ErrInvalidArgument, verbID)
	}

	from := models.DefaultForm(verbID)
	if prev != nil {
		from = *prev
	}
	form, err := s.morph.RandomForm(verb, from, session.MaxFormChanges(), session.HighestUnit, session.CustomParams)
	if err != nil {
		return fmt.Errorf("%w: cannot pick a form of verb %d: %w", ErrInvalidArgument, verbID, err)
	}

	move := &models.Move{
		SessionID:    session.ID,
		Form:         form,
		AskTimestamp: models.NextAskTimestamp(now.UnixMilli(), last),
	}
	if _, err := r.moves.InsertAskMove(ctx, move); err != nil {
		return storageErr(err)
	}
	return nil
}

// afterAnswer counts the scheduled practice question or tells the opponent
func (s *GameService) afterAnswer(ctx context.Context, state *models.SessionState, userID int64) {
	if state.MoveType == models.MoveTypePractice {
		s.metrics.Move(metrics.MovePracticeAsk)
	}
	entry := s.log.WithSession(userID, state.SessionID)
	if state.IsCorrect != nil {
		entry = entry.WithField("correct", *state.IsCorrect)
	}
	entry.Debug("Answer recorded")
	s.notify(ctx, state, userID)
}

// notify publishes a room event for two-player sessions. Delivery
// failures are logged and never fail the operation.
func (s *GameService) notify(ctx context.Context, state *models.SessionState, userID int64) {
	if state.MoveType == models.MoveTypePractice {
		return
	}
	s.publish(ctx, state.SessionID, state.ResponseTo, userID)
}

func (s *GameService) publish(ctx context.Context, sessionID int64, responseTo string, userID int64) {
	event := broadcast.NewRoomEvent(sessionID, responseTo, userID, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.WithSession(userID, sessionID).WithError(err).Warn("Failed to publish room event")
	}
}

// CreateSession starts a practice session, or a contest against the
// user named in req.Opponent. Practice sessions get their first question.
func (s *GameService) CreateSession(ctx context.Context, userID int64, req CreateSessionRequest) (*models.NewSessionResult, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	var session *models.Session
	err := s.inTx(ctx, func(tx dbtx) error {
		var err error
		session, err = s.createSession(ctx, tx, userID, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	mode := session.Mode()
	s.metrics.SessionCreated(mode.String())
	if mode == models.ModePractice {
		s.metrics.Move(metrics.MovePracticeAsk)
	} else {
		s.publish(ctx, session.ID, models.RespNewSession, userID)
	}
	s.log.WithSession(userID, session.ID).WithFields(logrus.Fields{
		"mode":  mode.String(),
		"verbs": len(session.VerbIDs),
	}).Info("Session created")

	return &models.NewSessionResult{
		ResponseTo: models.RespNewSession,
		SessionID:  session.ID,
		Success:    true,
	}, nil
}

func (s *GameService) createSession(ctx context.Context, tx dbtx, userID int64, req CreateSessionRequest) (*models.Session, error) {
	r := newRepos(tx)

	challenger, err := r.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	if challenger == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	var challengedID *int64
	if handle := strings.TrimSpace(req.Opponent); handle != "" {
		opponent, err := r.users.GetUserByName(ctx, handle)
		if err != nil {
			return nil, storageErr(err)
		}
		if opponent == nil {
			return nil, fmt.Errorf("%w: no user named %q", ErrNotFound, handle)
		}
		if opponent.ID == userID {
			return nil, fmt.Errorf("%w: you cannot challenge yourself", ErrInvalidArgument)
		}
		challengedID = &opponent.ID
	}

	verbIDs, err := s.resolveVerbs(req.VerbIDs, req.Units)
	if err != nil {
		return nil, err
	}

	var highest *int
	if req.HighestUnit != nil {
		h := models.ClampHighestUnit(*req.HighestUnit)
		highest = &h
	}

	session := &models.Session{
		ChallengerID:        userID,
		ChallengedID:        challengedID,
		Name:                strings.TrimSpace(req.Name),
		VerbIDs:             verbIDs,
		Units:               req.Units,
		CustomParams:        req.CustomParams,
		HighestUnit:         highest,
		MaxChanges:          req.MaxChanges,
		PracticeRepsPerVerb: req.PracticeRepsPerVerb,
		Countdown:           req.Countdown,
		TimeLimit:           req.TimeLimit,
		Status:              models.SessionActive,
	}
	id, err := r.sessions.CreateSession(ctx, session)
	if err != nil {
		return nil, storageErr(err)
	}
	session.ID = id

	if session.Mode() == models.ModePractice {
		if err := s.schedulePractice(ctx, r, session, nil, nil, s.now()); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// resolveVerbs merges explicit verb ids with the verbs of the listed
// units, keeping first-seen order
func (s *GameService) resolveVerbs(verbIDs []int64, units []int) ([]int64, error) {
	seen := make(map[int64]bool)
	var ids []int64
	add := func(id int64) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, id := range verbIDs {
		if _, ok := s.catalog.Verb(id); !ok {
			return nil, fmt.Errorf("%w: unknown verb %d", ErrInvalidArgument, id)
		}
		add(id)
	}
	for _, id := range s.catalog.IDsForUnits(units) {
		add(id)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no verbs selected", ErrInvalidArgument)
	}
	return ids, nil
}

// GetState returns userID's view of a session
func (s *GameService) GetState(ctx context.Context, userID, sessionID int64) (*models.SessionState, error) {
	r := newRepos(s.db)
	if _, err := s.loadSession(ctx, r, sessionID, userID, false); err != nil {
		return nil, err
	}

	state, err := s.assembleState(ctx, r, sessionID, userID)
	if err != nil {
		return nil, err
	}
	s.backfillStartingForm(state)
	state.ResponseTo = models.RespGetMove
	state.Success = true
	return state, nil
}

// GetMoves returns a session's ledger, newest first
func (s *GameService) GetMoves(ctx context.Context, userID, sessionID int64) (*models.MoveList, error) {
	r := newRepos(s.db)
	if _, err := s.loadSession(ctx, r, sessionID, userID, false); err != nil {
		return nil, err
	}

	moves, err := r.moves.ListMoves(ctx, sessionID)
	if err != nil {
		return nil, storageErr(err)
	}
	if moves == nil {
		moves = []models.Move{}
	}
	return &models.MoveList{
		ResponseTo: models.RespGetMoves,
		SessionID:  sessionID,
		Moves:      moves,
	}, nil
}

// GetSessions lists the sessions userID plays in, newest first
func (s *GameService) GetSessions(ctx context.Context, userID int64) (*models.SessionList, error) {
	r := newRepos(s.db)

	sessions, err := r.sessions.ListSessionsForUser(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}

	names := make(map[int64]string)
	summaries := make([]models.SessionSummary, 0, len(sessions))
	for i := range sessions {
		session := &sessions[i]

		last, err := r.moves.GetLastMove(ctx, session.ID)
		if err != nil {
			return nil, storageErr(err)
		}

		summary := models.SessionSummary{
			SessionID: session.ID,
			Name:      session.Name,
			Turn:      Classify(last, userID, session.ChallengedID),
			CreatedAt: session.CreatedAt,
		}

		if opponentID := session.OpponentID(userID); opponentID != nil {
			name, ok := names[*opponentID]
			if !ok {
				user, err := r.users.GetUserByID(ctx, *opponentID)
				if err != nil {
					return nil, storageErr(err)
				}
				if user != nil {
					name = user.Name
				}
				names[*opponentID] = name
			}
			mine, theirs := session.Scores(userID)
			summary.OpponentName = &name
			summary.MyScore = &mine
			summary.TheirScore = &theirs
		}

		summaries = append(summaries, summary)
	}

	return &models.SessionList{
		ResponseTo: models.RespGetSessions,
		Sessions:   summaries,
	}, nil
}
