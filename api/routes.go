package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"preset-selector/preset"
	"preset-selector/session"
)

func RegisterRoutes(manager *session.Manager, engine *preset.Engine, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := &handler{manager: manager, engine: engine, logger: logger}

	// Preset files and one-shot selection on the default session
	r.Get("/api/files", h.listFiles)
	r.Post("/api/select", h.selectDefault)

	// Sessions
	r.Get("/api/sessions", h.listSessions)
	r.Post("/api/sessions", h.createSession)
	r.Delete("/api/sessions/{id}", h.killSession)
	r.Post("/api/sessions/{id}/select", h.selectSession)
	r.Post("/api/sessions/{id}/reset", h.resetSession)

	// WebSocket selection stream
	r.Get("/api/sessions/{id}/ws", h.handleWS)

	return r
}

type handler struct {
	manager *session.Manager
	engine  *preset.Engine
	logger  *zap.Logger
}
