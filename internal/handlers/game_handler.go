package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"verbclash/internal/logger"
	"verbclash/internal/models"
	"verbclash/internal/service"
)

// Game is the session protocol served over HTTP
type Game interface {
	CreateSession(ctx context.Context, userID int64, req service.CreateSessionRequest) (*models.NewSessionResult, error)
	GetSessions(ctx context.Context, userID int64) (*models.SessionList, error)
	GetState(ctx context.Context, userID, sessionID int64) (*models.SessionState, error)
	GetMoves(ctx context.Context, userID, sessionID int64) (*models.MoveList, error)
	Ask(ctx context.Context, userID int64, req service.AskRequest) (*models.SessionState, error)
	Answer(ctx context.Context, userID int64, req service.AnswerRequest) (*models.SessionState, error)
	MF(ctx context.Context, userID int64, req service.AnswerRequest) (*models.SessionState, error)
}

// GameHandler handles drill session requests
type GameHandler struct {
	game Game
	log  *logger.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(game Game, log *logger.Logger) *GameHandler {
	return &GameHandler{game: game, log: log}
}

// CreateSession starts a practice session or a contest
func (h *GameHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, h.log, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var req service.CreateSessionRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.game.CreateSession(r.Context(), userID, req)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, result)
}

// ListSessions lists the caller's sessions
func (h *GameHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, h.log, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	list, err := h.game.GetSessions(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

// GetSession returns the caller's view of a session
func (h *GameHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionRequest(w, r)
	if !ok {
		return
	}

	state, err := h.game.GetState(r.Context(), userID, sessionID)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, state)
}

// GetMoves returns a session's ledger
func (h *GameHandler) GetMoves(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionRequest(w, r)
	if !ok {
		return
	}

	moves, err := h.game.GetMoves(r.Context(), userID, sessionID)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, moves)
}

// Ask records a question
func (h *GameHandler) Ask(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionRequest(w, r)
	if !ok {
		return
	}

	var req service.AskRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.SessionID = sessionID

	state, err := h.game.Ask(r.Context(), userID, req)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, state)
}

// Answer grades an answer
func (h *GameHandler) Answer(w http.ResponseWriter, r *http.Request) {
	h.answer(w, r, h.game.Answer)
}

// MF checks a multiple-forms claim
func (h *GameHandler) MF(w http.ResponseWriter, r *http.Request) {
	h.answer(w, r, h.game.MF)
}

func (h *GameHandler) answer(w http.ResponseWriter, r *http.Request,
	op func(context.Context, int64, service.AnswerRequest) (*models.SessionState, error)) {
	userID, sessionID, ok := h.sessionRequest(w, r)
	if !ok {
		return
	}

	var req service.AnswerRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.SessionID = sessionID

	state, err := op(r.Context(), userID, req)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, state)
}

func (h *GameHandler) sessionRequest(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, h.log, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return 0, 0, false
	}

	sessionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || sessionID <= 0 {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidSessionID, "", nil)
		return 0, 0, false
	}
	return userID, sessionID, true
}

func (h *GameHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidRequest, "Failed to decode request", err)
		return false
	}
	return true
}

// Pinger reports whether a dependency is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Healthz reports whether the database answers
func Healthz(db Pinger, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			respondWithError(w, log, http.StatusServiceUnavailable, ErrServiceUnavailable, "Health check failed", err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
