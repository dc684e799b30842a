package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"verbclash/internal/logger"
	"verbclash/internal/service"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Mesg    string `json:"mesg"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set(contentTypeHeader, contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, log *logger.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil && log != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		entry := log.Entry().WithError(err).WithField("status", status)
		if status >= http.StatusInternalServerError {
			entry.Error(logMsg)
		} else {
			entry.Info(logMsg)
		}
	}

	respondWithJSON(w, status, errorResponse{Success: false, Mesg: userMsg})
}

// statusForError maps service error kinds to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, service.ErrOutOfSequence):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondWithServiceError reports a service failure. Client errors carry
// the error text; anything else is hidden behind a generic message.
func respondWithServiceError(w http.ResponseWriter, log *logger.Logger, err error) {
	status := statusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = ErrInternalServerError
	}
	respondWithError(w, log, status, msg, "Request failed", err)
}
