package shelf

import (
	"fmt"
	"strings"
)

// The adapter reports failures through a small typed taxonomy so callers can
// translate them into user-visible messaging instead of inspecting strings.

// DecodeError means the persisted collection blob is not valid JSON.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("corrupt collection under key %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// StoreError means the underlying blob store failed to read or write.
type StoreError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ValidationError lists the required fields missing from a book on add.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// DuplicateError means a book with the same title already exists.
type DuplicateError struct {
	Title string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("a book titled %q already exists", e.Title)
}

// NotFoundError means no book with the given title is in the collection.
type NotFoundError struct {
	Title string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no book titled %q", e.Title)
}
