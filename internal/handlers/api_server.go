// Package handlers maps the HTTP surface onto engine operations and
// serializes responses. Engine errors pass through unchanged in kind;
// this layer only translates them to status codes and messages.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/ewhitmore/cardtable/internal/engine"
	"github.com/ewhitmore/cardtable/internal/models"
)

// Server holds the engine and serves the JSON API plus the embedded
// frontend.
type Server struct {
	engine  *engine.Engine
	logger  *logrus.Logger
	version string
}

func NewServer(e *engine.Engine, logger *logrus.Logger, version string) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	return &Server{engine: e, logger: logger, version: version}
}

// DrawResponse is the body for solo draws.
type DrawResponse struct {
	Cards map[models.Suit]*models.Card `json:"cards"`
}

// GameResponse is the body for all shared-game operations.
type GameResponse struct {
	GameID string                       `json:"game_id"`
	Cards  map[models.Suit]*models.Card `json:"cards"`
}

// apiError matches the {"detail": "..."} error shape clients expect.
type apiError struct {
	Detail string `json:"detail"`
}

// Router builds the route table.
func (s *Server) Router() *httprouter.Router {
	mux := httprouter.New()

	mux.GET("/api/draw", s.handleSoloDraw)
	mux.POST("/api/games", s.handleCreateGame)
	mux.GET("/api/games/:id", s.handleGetGame)
	mux.POST("/api/games/:id/draw", s.handleDrawGame)
	mux.GET("/api/games/:id/qr", s.handleGameQR)

	mux.GET("/healthz", s.handleHealth)
	mux.GET("/version", s.handleVersion)

	s.registerFrontend(mux)

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		s.logger.WithFields(logrus.Fields{"path": r.URL.Path, "panic": v}).Error("handler panic")
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	}

	return mux
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, apiError{Detail: detail})
}

// respondError translates the engine error taxonomy to HTTP statuses.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidSuit):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrCatalogUnavailable):
		s.writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, engine.ErrStoreUnavailable):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.WithError(err).Error("unclassified handler error")
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("cardtable v" + s.version + "\n"))
}
