package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/okutan/kitaplik-go/internal/models"
	"github.com/okutan/kitaplik-go/internal/search"
)

// handleSearch proxies a query to the external volumes API.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		RespondWithError(w, http.StatusBadRequest, "Missing 'q' parameter")
		return
	}

	results, err := s.search.Search(r.Context(), query)
	if err != nil {
		log.Printf("Volume search for %q failed: %v", query, err)
		RespondWithError(w, http.StatusBadGateway, "Book search failed")
		return
	}
	RespondWithJSON(w, http.StatusOK, results)
}

// handleImport turns a selected search result into a new library record.
// A title already in the library is rejected.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var result models.SearchResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	book := search.ToBook(result)
	if err := s.shelf.Add(book); err != nil {
		respondShelfError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, book)
}
