package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verbclash/internal/logger"
	"verbclash/internal/service"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, nil, 418, "Teapot", "", nil)

	assert.Equal(t, 418, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var body errorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Teapot", body.Mesg)
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	log := logger.Discard()
	log.SetOutput(&buf)
	log.SetLevel(logrus.InfoLevel)

	recorder := httptest.NewRecorder()
	respondWithError(recorder, log, 500, "Internal server error", "", errors.New("boom"))

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Internal server error") {
		t.Fatalf("expected log to include user message, got %q", logOutput)
	}
	if !strings.Contains(logOutput, "boom") {
		t.Fatalf("expected log to include error, got %q", logOutput)
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: user 3", service.ErrNotAuthorized), http.StatusForbidden},
		{fmt.Errorf("%w: already answered", service.ErrOutOfSequence), http.StatusConflict},
		{service.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: no verbs", service.ErrInvalidArgument), http.StatusBadRequest},
		{fmt.Errorf("%w: disk full", service.ErrStorage), http.StatusInternalServerError},
		{errors.New("surprise"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusForError(tt.err), tt.err.Error())
	}
}

func TestRespondWithServiceErrorHidesInternals(t *testing.T) {
	recorder := httptest.NewRecorder()
	respondWithServiceError(recorder, logger.Discard(), fmt.Errorf("%w: connection reset", service.ErrStorage))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "connection reset")

	recorder = httptest.NewRecorder()
	respondWithServiceError(recorder, logger.Discard(), fmt.Errorf("%w: no verbs selected", service.ErrInvalidArgument))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "no verbs selected")
}
