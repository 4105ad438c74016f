package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// handleSoloDraw serves GET /api/draw[?suit=S]: a stateless draw of all
// suits, or a single suit when the query parameter is present.
func (s *Server) handleSoloDraw(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	suit := r.URL.Query().Get("suit")
	if suit == "" {
		drawn, err := s.engine.DrawAllSolo(r.Context())
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, DrawResponse{Cards: drawn})
		return
	}

	drawn, err := s.engine.DrawOneSolo(r.Context(), suit)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, DrawResponse{Cards: drawn})
}

// handleCreateGame serves POST /api/games: a fresh shared session with
// all suits unset.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	session, err := s.engine.CreateSession(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, GameResponse{GameID: session.ID, Cards: session.Cards})
}

// handleGetGame serves GET /api/games/:id: the read side of the polling
// convergence loop.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	session, err := s.engine.GetSession(r.Context(), p.ByName("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, GameResponse{GameID: session.ID, Cards: session.Cards})
}

// handleDrawGame serves POST /api/games/:id/draw[?suit=S]: draw-all or
// draw-one into a shared session.
func (s *Server) handleDrawGame(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	id := p.ByName("id")
	suit := r.URL.Query().Get("suit")

	if suit == "" {
		updated, err := s.engine.DrawAll(r.Context(), id)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, GameResponse{GameID: updated.ID, Cards: updated.Cards})
		return
	}

	updated, err := s.engine.DrawOne(r.Context(), id, suit)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, GameResponse{GameID: updated.ID, Cards: updated.Cards})
}
