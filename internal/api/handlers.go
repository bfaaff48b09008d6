package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/okutan/kitaplik-go/internal/models"
	"github.com/okutan/kitaplik-go/internal/shelf"
	"github.com/okutan/kitaplik-go/internal/util"
)

// titleParam extracts and unescapes the {title} path parameter.
func titleParam(r *http.Request) string {
	raw := chi.URLParam(r, "title")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"version": s.app.Version})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.app.DB != nil {
		if err := s.app.DB.Ping(); err != nil {
			RespondWithError(w, http.StatusServiceUnavailable, "Database connection failed")
			return
		}
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListBooks returns the collection, filtered by the query parameters
// and sorted naturally by title. A corrupt blob is logged and served as an
// empty collection so the client keeps working.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.shelf.LoadAll()
	if err != nil {
		var decodeErr *shelf.DecodeError
		if errors.As(err, &decodeErr) {
			log.Printf("Stored collection is corrupt, serving empty library: %v", err)
			RespondWithJSON(w, http.StatusOK, []*models.Book{})
			return
		}
		respondShelfError(w, err)
		return
	}

	spec := models.FilterSpec{
		Name:   r.URL.Query().Get("name"),
		Status: r.URL.Query().Get("status"),
	}
	if ratingStr := r.URL.Query().Get("rating"); ratingStr != "" {
		if rating, err := strconv.ParseFloat(ratingStr, 64); err == nil {
			spec.Rating = rating
		}
	}
	books = shelf.Filter(books, spec)

	sort.SliceStable(books, func(i, j int) bool {
		return util.TitleLess(books[i].Title, books[j].Title)
	})
	RespondWithJSON(w, http.StatusOK, books)
}

// addBookRequest mirrors models.Book but keeps rating optional so the
// historical 2.5 default applies when the field is omitted.
type addBookRequest struct {
	models.Book
	Rating *float64 `json:"rating"`
}

func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request) {
	var payload addBookRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	book := payload.Book
	if payload.Rating != nil {
		book.Rating = shelf.ClampRating(*payload.Rating)
	} else {
		book.Rating = 2.5
	}

	if err := s.shelf.Add(&book); err != nil {
		respondShelfError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, &book)
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	title := titleParam(r)
	books, err := s.shelf.LoadAll()
	if err != nil {
		respondShelfError(w, err)
		return
	}
	for _, b := range books {
		if shelf.TitlesEqual(b.Title, title) {
			RespondWithJSON(w, http.StatusOK, b)
			return
		}
	}
	RespondWithError(w, http.StatusNotFound, "Book not found")
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	var patch models.BookPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	book, err := s.shelf.Update(titleParam(r), patch)
	if err != nil {
		respondShelfError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, book)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := s.shelf.Remove(titleParam(r)); err != nil {
		respondShelfError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status models.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	book, err := s.shelf.SetStatus(titleParam(r), payload.Status)
	if err != nil {
		respondShelfError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, book)
}

func (s *Server) handleSetRating(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Rating float64 `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	book, err := s.shelf.SetRating(titleParam(r), payload.Rating)
	if err != nil {
		respondShelfError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, book)
}

// handleSetProgress updates the current page. The payload value may be a
// number or a numeric string; the adapter coerces either.
func (s *Server) handleSetProgress(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CurrentPage interface{} `json:"currentPage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	book, err := s.shelf.Update(titleParam(r), models.BookPatch{CurrentPage: payload.CurrentPage})
	if err != nil {
		respondShelfError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, book)
}

func (s *Server) handleListFavImages(w http.ResponseWriter, r *http.Request) {
	uris, err := s.shelf.FavPageImages(titleParam(r))
	if err != nil {
		respondShelfError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, uris)
}

func (s *Server) handleAddFavImage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		URI string `json:"uri"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.URI == "" {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	uris, err := s.shelf.AddFavPageImage(titleParam(r), payload.URI)
	if err != nil {
		respondShelfError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, uris)
}
