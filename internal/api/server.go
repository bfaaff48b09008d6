// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/okutan/kitaplik-go/internal/core"
	"github.com/okutan/kitaplik-go/internal/search"
	"github.com/okutan/kitaplik-go/internal/shelf"
)

// Server holds the dependencies for our API.
type Server struct {
	app    *core.App
	shelf  *shelf.Adapter
	search *search.Client
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	return &Server{
		app:    app,
		shelf:  app.Shelf,
		search: search.New(app.Config.Search.BaseURL, app.Config.Search.MaxResults),
	}
}

// Shelf returns the library adapter, mainly for tests.
func (s *Server) Shelf() *shelf.Adapter {
	return s.shelf
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/api/version", s.handleGetVersion)
	r.Get("/api/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/books", s.handleListBooks)
		r.Post("/books", s.handleAddBook)

		r.Route("/books/{title}", func(r chi.Router) {
			r.Get("/", s.handleGetBook)
			r.Put("/", s.handleUpdateBook)
			r.Delete("/", s.handleDeleteBook)

			r.Post("/status", s.handleSetStatus)
			r.Post("/rating", s.handleSetRating)
			r.Post("/progress", s.handleSetProgress)

			r.Get("/fav-images", s.handleListFavImages)
			r.Post("/fav-images", s.handleAddFavImage)
		})

		r.Get("/search", s.handleSearch)
		r.Post("/search/import", s.handleImport)

		r.Get("/covers", s.handleCoverThumbnail)
	})

	// WebSocket route for library change notifications.
	r.Get("/ws/library", func(w http.ResponseWriter, r *http.Request) {
		s.app.WsHub.ServeWs(w, r)
	})

	return r
}
