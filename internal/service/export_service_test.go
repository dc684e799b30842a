package service

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verbclash/internal/models"
)

func TestExport(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice, bob, sessionID := h.contest(t)

	_, err := h.svc.Ask(ctx, alice, ask(sessionID, 1, models.PersonFirst, models.NumberSingular, models.VoiceActive))
	require.NoError(t, err)
	_, err = h.svc.Answer(ctx, bob, AnswerRequest{SessionID: sessionID, Answer: "παιδεύω"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewExportService(h.db, nil).Export(ctx, &buf))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, ExportVersion, data.Version)
	assert.Equal(t, "sqlite3", data.DatabaseType)
	require.Len(t, data.Users, 2)
	assert.Equal(t, "alice", data.Users[0].Name)

	require.Len(t, data.Sessions, 1)
	session := data.Sessions[0]
	assert.Equal(t, bob, *session.ChallengedID)
	assert.Equal(t, []int{2, 3}, session.Units)
	require.Len(t, session.Moves, 1)
	assert.True(t, *session.Moves[0].IsCorrect)
}

func TestExportToFile(t *testing.T) {
	h := newHarness(t)
	h.user(t, "alice")

	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, NewExportService(h.db, nil).ExportToFile(context.Background(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var data ExportData
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.Len(t, data.Users, 1)
	assert.Empty(t, data.Sessions)
}
