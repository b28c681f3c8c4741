// Package http provides HTTP routing and middleware configuration
// for the note server.
package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/NoteKeeper/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the note
// server API. It enforces JSON content types, logs every request, and
// mounts the note endpoints under /api.
//
// Routes:
//
//	GET    /api/ping        → liveness probe for client connectivity checks
//	GET    /api/notes       → notesHandler.List
//	POST   /api/notes       → notesHandler.Create
//	PUT    /api/notes/{id}  → notesHandler.Update
//	DELETE /api/notes/{id}  → notesHandler.Delete
func NewRouter(notesHandler *NotesHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", notesHandler.List)
			r.Post("/", notesHandler.Create)
			r.Put("/{id}", notesHandler.Update)
			r.Delete("/{id}", notesHandler.Delete)
		})
	})

	return r
}
