package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/notekeep/notekeep-go/internal/middleware"
	"github.com/notekeep/notekeep-go/internal/service"
)

// NewRouter builds the HTTP API.
func NewRouter(authService *service.AuthService, noteService *service.NoteService, allowedOrigins []string) http.Handler {
	authHandler := NewAuthHandler(authService)
	noteHandler := NewNoteHandler(noteService)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(slog.Default()))
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/auth/signup", authHandler.HandleSignup)
	r.Post("/auth/login", authHandler.HandleLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(authService))

		r.Get("/auth/me", authHandler.HandleMe)
		r.Delete("/auth/me", authHandler.HandleDeleteMe)

		r.Get("/notes", noteHandler.HandleList)
		r.Post("/notes", noteHandler.HandleCreate)
		r.Get("/notes/{note_id}", noteHandler.HandleGet)
		r.Put("/notes/{note_id}", noteHandler.HandleUpdate)
		r.Delete("/notes/{note_id}", noteHandler.HandleDelete)
		r.Get("/notes/{note_id}/pdf", noteHandler.HandleExportPDF)
		r.Get("/notes/{note_id}/export/pdf", noteHandler.HandleExportPDF)
	})

	return r
}
