package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"verbclash/internal/logger"
	"verbclash/internal/metrics"
	"verbclash/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	UserIDContextKey    ContextKey = "user_id"
	RequestIDContextKey ContextKey = "request_id"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	tokens  *security.TokenIssuer
	limiter *security.RateLimiter
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewMiddleware creates a new middleware instance. limiter and m may be nil.
func NewMiddleware(tokens *security.TokenIssuer, limiter *security.RateLimiter, m *metrics.Metrics, log *logger.Logger) *Middleware {
	return &Middleware{
		tokens:  tokens,
		limiter: limiter,
		metrics: m,
		log:     log,
	}
}

// RequireAuth is middleware that requires a valid bearer token
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			respondWithError(w, m.log, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}

		userID, _, err := m.tokens.ParseToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			respondWithError(w, m.log, http.StatusUnauthorized, ErrUnauthorized, "Rejected token", err)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit throttles each authenticated user, or each client IP before login
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter == nil {
			next(w, r)
			return
		}

		key := "ip:" + security.GetClientIP(r)
		if userID, ok := GetUserIDFromContext(r.Context()); ok {
			key = "user:" + strconv.FormatInt(userID, 10)
		}

		if !m.limiter.Allow(key) {
			respondWithError(w, m.log, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

// Instrument counts requests to one route under its pattern
func (m *Middleware) Instrument(pattern string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		m.metrics.ObserveRequest(r.Method, pattern, rec.status, time.Since(start))
	}
}

// Logging middleware tags each request with an id and logs it
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
		next.ServeHTTP(rec, r.WithContext(ctx))

		m.log.WithRequestID(requestID).WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("HTTP request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// GetUserIDFromContext retrieves the authenticated user id from the request context
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(int64)
	return userID, ok
}
