// The library adapter is the single point of truth for reading, validating,
// and writing the book collection. Every caller goes through it; nothing
// else touches the "books" blob.

package shelf

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/okutan/kitaplik-go/internal/models"
	"github.com/okutan/kitaplik-go/internal/storage"
)

// BooksKey is the blob key holding the whole collection as a JSON array.
const BooksKey = "books"

// Adapter mediates all access to the book collection. Mutating operations
// are serialized behind a single mutex: every write is a full read-modify-
// write of the collection, so two unsynchronized writers would silently
// drop each other's changes.
type Adapter struct {
	kv storage.Store
	mu sync.Mutex

	// onChange, when set, is invoked after every successful mutation with
	// the event name and the affected title.
	onChange func(event, title string)
}

// New creates an adapter over the given blob store.
func New(kv storage.Store) *Adapter {
	return &Adapter{kv: kv}
}

// OnChange registers a callback fired after each successful mutation.
// Pass nil to disable notifications.
func (a *Adapter) OnChange(fn func(event, title string)) {
	a.onChange = fn
}

func (a *Adapter) notify(event, title string) {
	if a.onChange != nil {
		a.onChange(event, title)
	}
}

// LoadAll reads the full collection. An absent key yields an empty slice.
// A present-but-malformed blob yields a DecodeError rather than a panic.
func (a *Adapter) LoadAll() ([]*models.Book, error) {
	raw, ok, err := a.kv.Get(BooksKey)
	if err != nil {
		return nil, &StoreError{Op: "read", Err: err}
	}
	if !ok || raw == "" {
		return []*models.Book{}, nil
	}
	var books []*models.Book
	if err := json.Unmarshal([]byte(raw), &books); err != nil {
		return nil, &DecodeError{Key: BooksKey, Err: err}
	}
	return books, nil
}

// SaveAll serializes and writes the full collection, overwriting the stored
// blob. A failed write is surfaced, never swallowed: callers must not assume
// their in-memory state is persisted until SaveAll returns nil.
func (a *Adapter) SaveAll(books []*models.Book) error {
	if books == nil {
		books = []*models.Book{}
	}
	raw, err := json.Marshal(books)
	if err != nil {
		return &StoreError{Op: "write", Err: err}
	}
	if err := a.kv.Set(BooksKey, string(raw)); err != nil {
		return &StoreError{Op: "write", Err: err}
	}
	return nil
}

// Add validates the book, rejects a duplicate title, then appends and
// persists. Title and status are required; a missing author gets the
// placeholder. SaveDate defaults to now.
func (a *Adapter) Add(book *models.Book) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var missing []string
	if strings.TrimSpace(book.Title) == "" {
		missing = append(missing, "title")
	}
	if book.Status == "" {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	if !book.Status.Valid() {
		return &ValidationError{Missing: []string{"status"}}
	}

	books, err := a.LoadAll()
	if err != nil {
		return err
	}
	for _, b := range books {
		if TitlesEqual(b.Title, book.Title) {
			return &DuplicateError{Title: b.Title}
		}
	}

	if strings.TrimSpace(book.Author) == "" {
		book.Author = models.UnknownAuthor
	}
	if book.SaveDate.IsZero() {
		book.SaveDate = time.Now()
	}

	if err := a.SaveAll(append(books, book)); err != nil {
		return err
	}
	a.notify("book_added", book.Title)
	return nil
}

// Update merges the patch over the record with the given title, preserving
// every field the patch leaves nil, and persists the collection. The updated
// record is returned.
func (a *Adapter) Update(title string, patch models.BookPatch) (*models.Book, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	book, err := a.applyUpdate(title, patch)
	if err != nil {
		return nil, err
	}
	a.notify("book_updated", book.Title)
	return book, nil
}

// applyUpdate is Update without the lock or notification, shared by the
// convenience wrappers. Callers must hold a.mu.
func (a *Adapter) applyUpdate(title string, patch models.BookPatch) (*models.Book, error) {
	books, err := a.LoadAll()
	if err != nil {
		return nil, err
	}

	var target *models.Book
	for _, b := range books {
		if TitlesEqual(b.Title, title) {
			target = b
			break
		}
	}
	if target == nil {
		return nil, &NotFoundError{Title: title}
	}

	mergePatch(target, patch)

	if err := a.SaveAll(books); err != nil {
		return nil, err
	}
	updated := *target
	return &updated, nil
}

// Remove filters out the first record whose title matches and persists the
// remainder. Only one record is removed even if the collection holds
// duplicates from a corrupt state.
func (a *Adapter) Remove(title string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	books, err := a.LoadAll()
	if err != nil {
		return err
	}

	idx := -1
	for i, b := range books {
		if TitlesEqual(b.Title, title) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &NotFoundError{Title: title}
	}
	removed := books[idx].Title
	books = append(books[:idx], books[idx+1:]...)

	if err := a.SaveAll(books); err != nil {
		return err
	}
	// The per-book favorite image list goes with the book.
	if err := a.kv.Delete(favPageImagesKey(removed)); err != nil {
		return &StoreError{Op: "write", Err: err}
	}
	a.notify("book_removed", removed)
	return nil
}

// SetStatus changes a book's reading status. As a side effect every record
// in the collection passes through the typed model on the way back out, so
// any legacy string-typed currentPage values are normalized to integers.
func (a *Adapter) SetStatus(title string, status models.Status) (*models.Book, error) {
	if !status.Valid() {
		return nil, &ValidationError{Missing: []string{"status"}}
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	book, err := a.applyUpdate(title, models.BookPatch{Status: &status})
	if err != nil {
		return nil, err
	}
	a.notify("status_changed", book.Title)
	return book, nil
}

// SetRating sets a book's rating, clamped to [0, 5] in half-star steps.
func (a *Adapter) SetRating(title string, rating float64) (*models.Book, error) {
	rating = ClampRating(rating)
	a.mu.Lock()
	defer a.mu.Unlock()

	book, err := a.applyUpdate(title, models.BookPatch{Rating: &rating})
	if err != nil {
		return nil, err
	}
	a.notify("rating_changed", book.Title)
	return book, nil
}

// ClampRating snaps a rating to the nearest half star within [0, 5].
func ClampRating(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	steps := int(r*2 + 0.5)
	return float64(steps) / 2
}

func mergePatch(book *models.Book, patch models.BookPatch) {
	if patch.Author != nil {
		book.Author = *patch.Author
	}
	if patch.Pages != nil {
		book.Pages = *patch.Pages
	}
	if patch.Publication != nil {
		book.Publication = *patch.Publication
	}
	if patch.Review != nil {
		book.Review = *patch.Review
	}
	if patch.Rating != nil {
		book.Rating = *patch.Rating
	}
	if patch.Image != nil {
		book.Image = *patch.Image
	}
	if patch.Status != nil {
		book.Status = *patch.Status
	}
	if patch.CurrentPage != nil {
		book.CurrentPage = CoercePage(patch.CurrentPage)
	}
	if patch.FavPage != nil {
		book.FavPage = *patch.FavPage
	}
	if patch.FavPageImage != nil {
		book.FavPageImage = *patch.FavPageImage
	}
}

// CoercePage normalizes a page value that may arrive as a number or a
// numeric string. Invalid or negative input collapses to 0.
func CoercePage(v interface{}) models.PageNumber {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		if n < 0 {
			return 0
		}
		return models.PageNumber(n)
	case int64:
		if n < 0 {
			return 0
		}
		return models.PageNumber(n)
	case float64:
		if n < 0 {
			return 0
		}
		return models.PageNumber(int(n))
	case models.PageNumber:
		if n < 0 {
			return 0
		}
		return n
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil || i < 0 {
			return 0
		}
		return models.PageNumber(i)
	default:
		return 0
	}
}

// TitlesEqual is the single title comparison used for duplicate detection,
// update and delete alike: case-insensitive exact match on the trimmed
// title.
func TitlesEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
