package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/okutan/kitaplik-go/internal/api"
	"github.com/okutan/kitaplik-go/internal/models"
	"github.com/okutan/kitaplik-go/internal/testutil"
)

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBook(t *testing.T, rr *httptest.ResponseRecorder) models.Book {
	t.Helper()
	var b models.Book
	if err := json.Unmarshal(rr.Body.Bytes(), &b); err != nil {
		t.Fatalf("Failed to decode book response: %v\nbody: %s", err, rr.Body.String())
	}
	return b
}

func TestBookEndpoints(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	t.Run("Add Book", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/books", map[string]interface{}{
			"title": "Dune", "author": "Frank Herbert", "status": "to_read",
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", rr.Code, rr.Body.String())
		}
		b := decodeBook(t, rr)
		if b.Rating != 2.5 {
			t.Errorf("Omitted rating should default to 2.5, got %v", b.Rating)
		}
		if b.SaveDate.IsZero() {
			t.Error("saveDate not stamped")
		}
	})

	t.Run("Add Without Status", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/books", map[string]interface{}{
			"title": "No Status",
		})
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected 422, got %d", rr.Code)
		}
	})

	t.Run("Add Duplicate", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/books", map[string]interface{}{
			"title": "DUNE", "status": "read",
		})
		if rr.Code != http.StatusConflict {
			t.Errorf("Case-insensitive duplicate should 409, got %d", rr.Code)
		}
	})

	t.Run("Get Book", func(t *testing.T) {
		rr := doJSON(t, router, "GET", "/api/books/Dune/", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rr.Code)
		}
		if b := decodeBook(t, rr); b.Author != "Frank Herbert" {
			t.Errorf("Author = %q", b.Author)
		}
	})

	t.Run("Get Unknown Book", func(t *testing.T) {
		rr := doJSON(t, router, "GET", "/api/books/Ghost/", nil)
		if rr.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rr.Code)
		}
	})

	t.Run("Update Book", func(t *testing.T) {
		rr := doJSON(t, router, "PUT", "/api/books/Dune/", map[string]interface{}{
			"review": "A classic.",
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		b := decodeBook(t, rr)
		if b.Review != "A classic." {
			t.Errorf("Review not applied: %q", b.Review)
		}
		if b.Author != "Frank Herbert" {
			t.Errorf("Untouched field changed: %q", b.Author)
		}
	})

	t.Run("Set Status", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/books/Dune/status", map[string]string{
			"status": "currently_reading",
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		if b := decodeBook(t, rr); b.Status != models.StatusCurrentlyReading {
			t.Errorf("Status = %q", b.Status)
		}
	})

	t.Run("Set Invalid Status", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/books/Dune/status", map[string]string{
			"status": "paused",
		})
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected 422, got %d", rr.Code)
		}
	})

	t.Run("Set Progress With String Page", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/books/Dune/progress", map[string]interface{}{
			"currentPage": "120",
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		if b := decodeBook(t, rr); b.CurrentPage != 120 {
			t.Errorf("currentPage = %d, want 120", b.CurrentPage)
		}
	})

	t.Run("Set Rating Clamps", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/books/Dune/rating", map[string]float64{
			"rating": 7.3,
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rr.Code)
		}
		if b := decodeBook(t, rr); b.Rating != 5 {
			t.Errorf("Rating = %v, want 5", b.Rating)
		}
	})

	t.Run("Delete Book", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/books", map[string]interface{}{
			"title": "Short Lived", "status": "to_read",
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("Setup add failed: %d", rr.Code)
		}
		rr = doJSON(t, router, "DELETE", "/api/books/Short%20Lived/", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rr.Code)
		}
		rr = doJSON(t, router, "GET", "/api/books/Short%20Lived/", nil)
		if rr.Code != http.StatusNotFound {
			t.Errorf("Deleted book still served: %d", rr.Code)
		}
	})

	t.Run("Fav Images", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/books/Dune/fav-images", map[string]string{
			"uri": "file:///spice.jpg",
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		rr = doJSON(t, router, "GET", "/api/books/Dune/fav-images", nil)
		var uris []string
		if err := json.Unmarshal(rr.Body.Bytes(), &uris); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if len(uris) != 1 || uris[0] != "file:///spice.jpg" {
			t.Errorf("Image list wrong: %v", uris)
		}
	})
}

func TestListBooksFilterAndSort(t *testing.T) {
	server, app := testutil.SetupTestServer(t)
	router := server.Router()

	seed := []*models.Book{
		{Title: "Vol 10", Author: "Ann", Status: models.StatusRead, Rating: 4},
		{Title: "Vol 2", Author: "Ann", Status: models.StatusRead, Rating: 5},
		{Title: "Other", Author: "Bob", Status: models.StatusToRead, Rating: 4},
	}
	for _, b := range seed {
		if err := app.Shelf.Add(b); err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
	}

	list := func(t *testing.T, query string) []models.Book {
		t.Helper()
		rr := doJSON(t, router, "GET", "/api/books"+query, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rr.Code)
		}
		var books []models.Book
		if err := json.Unmarshal(rr.Body.Bytes(), &books); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		return books
	}

	t.Run("Natural Title Sort", func(t *testing.T) {
		books := list(t, "")
		if len(books) != 3 {
			t.Fatalf("Expected 3 books, got %d", len(books))
		}
		if books[0].Title != "Other" || books[1].Title != "Vol 2" || books[2].Title != "Vol 10" {
			t.Errorf("Sort order wrong: %q %q %q", books[0].Title, books[1].Title, books[2].Title)
		}
	})

	t.Run("Filter By Status", func(t *testing.T) {
		if got := len(list(t, "?status=read")); got != 2 {
			t.Errorf("Expected 2 read books, got %d", got)
		}
	})

	t.Run("Filter By Name Matches Author", func(t *testing.T) {
		if got := len(list(t, "?name=bob")); got != 1 {
			t.Errorf("Expected 1 match for author, got %d", got)
		}
	})

	t.Run("Rating Filter Is Exact", func(t *testing.T) {
		books := list(t, "?rating=4")
		if len(books) != 2 {
			t.Fatalf("Expected exactly rating 4, got %d books", len(books))
		}
		for _, b := range books {
			if b.Rating != 4 {
				t.Errorf("Book %q has rating %v", b.Title, b.Rating)
			}
		}
	})
}

func TestListBooksServesEmptyOnCorruptBlob(t *testing.T) {
	server, app := testutil.SetupTestServer(t)
	router := server.Router()

	// Write a malformed blob straight past the adapter.
	if _, err := app.DB.Exec(
		`INSERT INTO kv_store (key, value) VALUES ('books', 'not json')`); err != nil {
		t.Fatalf("Failed to corrupt blob: %v", err)
	}

	rr := doJSON(t, router, "GET", "/api/books", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	var books []models.Book
	if err := json.Unmarshal(rr.Body.Bytes(), &books); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("Expected empty library, got %d books", len(books))
	}
}

func TestVersionAndHealth(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	rr := doJSON(t, router, "GET", "/api/version", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	var v map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil || v["version"] != "test" {
		t.Errorf("Version payload wrong: %s", rr.Body.String())
	}

	rr = doJSON(t, router, "GET", "/api/health", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("Health check failed: %d", rr.Code)
	}
}

func TestSearchEndpoints(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"totalItems":1,"items":[{"id":"v1","volumeInfo":{
			"title":"Dune","authors":["Frank Herbert"],"pageCount":412,
			"imageLinks":{"thumbnail":"http://books.example/d.jpg"}}}]}`)
	}))
	defer upstream.Close()

	app := testutil.SetupTestApp(t)
	app.Config.Search.BaseURL = upstream.URL
	server := api.NewServer(app)
	router := server.Router()

	t.Run("Search", func(t *testing.T) {
		rr := doJSON(t, router, "GET", "/api/search?q="+url.QueryEscape("dune"), nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var results []models.SearchResult
		if err := json.Unmarshal(rr.Body.Bytes(), &results); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if len(results) != 1 || results[0].Title != "Dune" {
			t.Errorf("Results wrong: %+v", results)
		}
	})

	t.Run("Search Without Query", func(t *testing.T) {
		rr := doJSON(t, router, "GET", "/api/search", nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rr.Code)
		}
	})

	t.Run("Import", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/search/import", models.SearchResult{
			Title: "Dune", Author: "Frank Herbert", Pages: 412,
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", rr.Code, rr.Body.String())
		}
		b := decodeBook(t, rr)
		if b.Status != models.StatusToRead {
			t.Errorf("Imported status = %q", b.Status)
		}
		if b.Rating != 0 {
			t.Errorf("Imported rating = %v, want 0", b.Rating)
		}
	})

	t.Run("Import Duplicate", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/search/import", models.SearchResult{
			Title: "dune",
		})
		if rr.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d", rr.Code)
		}
	})
}
