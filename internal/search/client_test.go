package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okutan/kitaplik-go/internal/models"
)

const volumesFixture = `{
  "totalItems": 3,
  "items": [
    {
      "id": "vol1",
      "volumeInfo": {
        "title": "Dune",
        "authors": ["Frank Herbert"],
        "publisher": "Chilton Books",
        "publishedDate": "1965",
        "pageCount": 412,
        "imageLinks": {
          "thumbnail": "http://books.example/dune.jpg?zoom=1&edge=curl"
        }
      }
    },
    {
      "id": "vol2",
      "volumeInfo": {
        "title": "Dune Messiah",
        "authors": ["Frank Herbert", "Someone Else"]
      }
    },
    {
      "id": "vol3",
      "volumeInfo": {}
    }
  ]
}`

func TestSearch(t *testing.T) {
	var gotQuery, gotMax string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/volumes" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		gotMax = r.URL.Query().Get("maxResults")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(volumesFixture))
	}))
	defer srv.Close()

	c := New(srv.URL, 5)
	results, err := c.Search(context.Background(), "dune herbert")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotQuery != "dune herbert" {
		t.Errorf("Query sent as %q", gotQuery)
	}
	if gotMax != "5" {
		t.Errorf("maxResults sent as %q", gotMax)
	}

	// The titleless third item is dropped.
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	first := results[0]
	if first.ID != "vol1" || first.Title != "Dune" {
		t.Errorf("First result wrong: %+v", first)
	}
	if first.Author != "Frank Herbert" {
		t.Errorf("Author = %q", first.Author)
	}
	if first.Pages != 412 || first.Publisher != "Chilton Books" {
		t.Errorf("Metadata wrong: %+v", first)
	}
	if first.CoverURL != "https://books.example/dune.jpg?zoom=1" {
		t.Errorf("Cover URL not secured: %q", first.CoverURL)
	}

	if results[1].Author != "Frank Herbert, Someone Else" {
		t.Errorf("Multi-author join wrong: %q", results[1].Author)
	}
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	if _, err := c.Search(context.Background(), "anything"); err == nil {
		t.Fatal("Expected error on non-200 response")
	}
}

func TestSearchBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	if _, err := c.Search(context.Background(), "anything"); err == nil {
		t.Fatal("Expected decode error")
	}
}

func TestToBook(t *testing.T) {
	b := ToBook(models.SearchResult{
		Title:     "Dune",
		Author:    "Frank Herbert",
		Pages:     412,
		Publisher: "Chilton Books",
		CoverURL:  "https://books.example/dune.jpg",
	})

	if b.Title != "Dune" || b.Author != "Frank Herbert" {
		t.Errorf("Identity fields wrong: %+v", b)
	}
	if b.Pages != "412" {
		t.Errorf("Pages = %q, want \"412\"", b.Pages)
	}
	if b.Status != models.StatusToRead {
		t.Errorf("Status = %q, want %q", b.Status, models.StatusToRead)
	}
	if b.Rating != 0 {
		t.Errorf("Rating = %v, want 0", b.Rating)
	}
	if b.SaveDate.IsZero() {
		t.Error("SaveDate not set")
	}

	if p := ToBook(models.SearchResult{Title: "No Pages"}).Pages; p != "" {
		t.Errorf("Zero page count should map to empty string, got %q", p)
	}
}
