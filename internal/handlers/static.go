package handlers

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

//go:embed frontend
var frontendFS embed.FS

// registerFrontend serves the embedded single-page frontend: the page
// itself at /, static assets under /assets/.
func (s *Server) registerFrontend(mux *httprouter.Router) {
	assets, err := fs.Sub(frontendFS, "frontend")
	if err != nil {
		// embed guarantees the directory exists at build time
		panic(err)
	}

	mux.GET("/", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		index, err := frontendFS.ReadFile("frontend/index.html")
		if err != nil {
			s.writeError(w, http.StatusNotFound, "frontend build is missing")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(index)
	})

	fileServer := http.FileServer(http.FS(assets))
	mux.GET("/assets/*filepath", func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		r.URL.Path = p.ByName("filepath")
		fileServer.ServeHTTP(w, r)
	})
}
