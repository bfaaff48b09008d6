package shelf

import (
	"encoding/json"
)

// Each book may carry a list of extra favorite-page photos, stored as a JSON
// string array under its own per-book key. The adapter owns these keys too
// so screens don't talk to the blob store directly.

func favPageImagesKey(title string) string {
	return "favPageImages_" + title
}

// FavPageImages returns the favorite-page image URIs attached to a book.
// An absent key yields an empty list.
func (a *Adapter) FavPageImages(title string) ([]string, error) {
	raw, ok, err := a.kv.Get(favPageImagesKey(title))
	if err != nil {
		return nil, &StoreError{Op: "read", Err: err}
	}
	if !ok || raw == "" {
		return []string{}, nil
	}
	var uris []string
	if err := json.Unmarshal([]byte(raw), &uris); err != nil {
		return nil, &DecodeError{Key: favPageImagesKey(title), Err: err}
	}
	return uris, nil
}

// AddFavPageImage appends an image URI to a book's favorite-page list. The
// book must exist in the collection.
func (a *Adapter) AddFavPageImage(title, uri string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	books, err := a.LoadAll()
	if err != nil {
		return nil, err
	}
	found := ""
	for _, b := range books {
		if TitlesEqual(b.Title, title) {
			found = b.Title
			break
		}
	}
	if found == "" {
		return nil, &NotFoundError{Title: title}
	}

	uris, err := a.FavPageImages(found)
	if err != nil {
		return nil, err
	}
	uris = append(uris, uri)

	raw, err := json.Marshal(uris)
	if err != nil {
		return nil, &StoreError{Op: "write", Err: err}
	}
	if err := a.kv.Set(favPageImagesKey(found), string(raw)); err != nil {
		return nil, &StoreError{Op: "write", Err: err}
	}
	a.notify("fav_image_added", found)
	return uris, nil
}
