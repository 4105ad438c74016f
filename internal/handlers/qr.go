package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320 // mobile-friendly

// handleGameQR serves GET /api/games/:id/qr: a PNG QR code pointing at
// the shareable session page, so a second participant can join by
// scanning.
func (s *Server) handleGameQR(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	id := p.ByName("id")

	// Only advertise sessions that actually exist.
	if _, err := s.engine.GetSession(r.Context(), id); err != nil {
		s.respondError(w, err)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	url := scheme + "://" + r.Host + "/?game=" + id

	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		s.logger.WithError(err).Error("qr generation failed")
		s.writeError(w, http.StatusInternalServerError, "qr generation failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
