package handlers

import "net/http"

// RegisterRoutes mounts the session API on mux. Every route requires a
// bearer token and is rate limited per user.
func RegisterRoutes(mux *http.ServeMux, mw *Middleware, game *GameHandler) {
	route := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, mw.Instrument(pattern, mw.RequireAuth(mw.RateLimit(h))))
	}

	route("POST /api/sessions", game.CreateSession)
	route("GET /api/sessions", game.ListSessions)
	route("GET /api/sessions/{id}", game.GetSession)
	route("GET /api/sessions/{id}/moves", game.GetMoves)
	route("POST /api/sessions/{id}/ask", game.Ask)
	route("POST /api/sessions/{id}/answer", game.Answer)
	route("POST /api/sessions/{id}/mf", game.MF)
}
