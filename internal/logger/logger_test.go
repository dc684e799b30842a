package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"info":  logrus.InfoLevel,
		"bogus": logrus.InfoLevel,
		"":      logrus.InfoLevel,
	}
	for level, want := range tests {
		assert.Equal(t, want, NewLogger("verbclash", level).GetLevel(), "level %q", level)
	}
}

func TestWithSessionWritesJSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger("verbclash", "info", &buf)

	l.WithSession(7, 42).Info("answer recorded")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "answer recorded", line["message"])
	assert.Equal(t, "verbclash", line["service"])
	assert.EqualValues(t, 7, line["user_id"])
	assert.EqualValues(t, 42, line["session_id"])
	assert.Contains(t, line, "timestamp")
}
