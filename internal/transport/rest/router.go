package rest

import "net/http"

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Health  *HealthHandler
	Actions *ActionHandler
	Boards  *BoardHandler

	// WrapActions, when set, wraps only the action endpoint (rate limiting).
	WrapActions func(http.Handler) http.Handler
}

// Register mounts every route on mux.
func (h Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	var actions http.Handler = h.Actions
	if h.WrapActions != nil {
		actions = h.WrapActions(actions)
	}
	mux.Handle("POST /api/actions/{name}", actions)

	mux.HandleFunc("GET /api/boards", h.Boards.Boards)
	mux.HandleFunc("GET /api/boards/{id}", h.Boards.Board)
	mux.HandleFunc("GET /api/audit-logs", h.Boards.AuditLogs)
	mux.HandleFunc("GET /api/cards/{id}/audit-logs", h.Boards.CardAuditLogs)
	mux.HandleFunc("GET /api/quota", h.Boards.Quota)
}
