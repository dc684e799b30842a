package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus logger
type Logger struct {
	*logrus.Logger
	service string
}

// NewLogger creates a JSON logger writing to stdout at the given level
// (debug, info, warn, error; anything else means info)
func NewLogger(serviceName, level string) *Logger {
	return newLogger(serviceName, level, os.Stdout)
}

func newLogger(serviceName, level string, out io.Writer) *Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetOutput(out)

	switch level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return &Logger{Logger: log, service: serviceName}
}

// Entry returns an entry carrying the service name
func (l *Logger) Entry() *logrus.Entry {
	return l.WithField("service", l.service)
}

// WithRequestID adds request ID to logger
func (l *Logger) WithRequestID(requestID string) *logrus.Entry {
	return l.Entry().WithField("request_id", requestID)
}

// WithSession adds the acting user and drill session to logger
func (l *Logger) WithSession(userID, sessionID int64) *logrus.Entry {
	return l.Entry().WithFields(logrus.Fields{
		"user_id":    userID,
		"session_id": sessionID,
	})
}

// Discard returns a logger that drops everything, for tests
func Discard() *Logger {
	return newLogger("test", "error", io.Discard)
}
