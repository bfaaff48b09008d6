// This file defines the core data structures (models) for our application.
// These structs represent the books in a user's library and the filters
// applied when browsing it.

package models

import (
	"strconv"
	"strings"
	"time"
)

// Status describes how far along the user is with a book.
type Status string

const (
	StatusToRead           Status = "to_read"
	StatusCurrentlyReading Status = "currently_reading"
	StatusRead             Status = "read"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusToRead, StatusCurrentlyReading, StatusRead:
		return true
	}
	return false
}

// UnknownAuthor is the placeholder stored when no author is provided.
const UnknownAuthor = "Unknown author"

// Book represents a single tracked book. The title acts as the unique key
// within the collection; there is no separate id field.
//
// Pages is kept as a string because it arrives from free-form input and is
// only parsed on demand. CurrentPage is only meaningful while the status is
// currently_reading, and Rating only while the status is read, but both are
// retained across status changes.
type Book struct {
	Title        string     `json:"title"`
	Author       string     `json:"author,omitempty"`
	Pages        string     `json:"pages,omitempty"`
	Publication  string     `json:"publication,omitempty"`
	Review       string     `json:"review,omitempty"`
	Rating       float64    `json:"rating"`
	Image        string     `json:"image,omitempty"`
	Status       Status     `json:"status"`
	CurrentPage  PageNumber `json:"currentPage"`
	FavPage      PageNumber `json:"favPage,omitempty"`
	FavPageImage string     `json:"favPageImage,omitempty"`
	SaveDate     time.Time  `json:"saveDate"`
}

// PageNumber is a non-negative page count that tolerates legacy records
// where the value was persisted as a JSON string. Anything unparseable or
// negative decodes to 0.
type PageNumber int

func (p *PageNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(string(data), `"`))
	if s == "" || s == "null" {
		*p = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Some records carry fractional progress; truncate it.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			*p = 0
			return nil
		}
		n = int(f)
	}
	if n < 0 {
		n = 0
	}
	*p = PageNumber(n)
	return nil
}

// BookPatch is a partial book used for merge updates. Nil fields are left
// untouched on the stored record.
//
// CurrentPage is an untyped value on purpose: callers historically send it
// as either a number or a numeric string, and the adapter coerces it.
type BookPatch struct {
	Author       *string     `json:"author,omitempty"`
	Pages        *string     `json:"pages,omitempty"`
	Publication  *string     `json:"publication,omitempty"`
	Review       *string     `json:"review,omitempty"`
	Rating       *float64    `json:"rating,omitempty"`
	Image        *string     `json:"image,omitempty"`
	Status       *Status     `json:"status,omitempty"`
	CurrentPage  interface{} `json:"currentPage,omitempty"`
	FavPage      *PageNumber `json:"favPage,omitempty"`
	FavPageImage *string     `json:"favPageImage,omitempty"`
}

// FilterSpec selects a subsequence of the collection. All present predicates
// must hold. The zero value matches everything.
type FilterSpec struct {
	// Name matches as a case-insensitive substring of title OR author.
	Name string `json:"name,omitempty"`
	// Status matches case-insensitively and exactly.
	Status string `json:"status,omitempty"`
	// Rating is an exact match, not a minimum.
	Rating float64 `json:"rating,omitempty"`
}

// IsZero reports whether no predicate is set.
func (f FilterSpec) IsZero() bool {
	return f.Name == "" && f.Status == "" && f.Rating == 0
}
