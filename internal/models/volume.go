package models

// Types for the external volumes search API. The wire format mirrors the
// Google Books "volumes" endpoint that the import flow consumes.

// VolumeList is the top-level response of GET /volumes?q=...
type VolumeList struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// Volume is one search hit.
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo carries the book metadata of a volume.
type VolumeInfo struct {
	Title         string     `json:"title"`
	Authors       []string   `json:"authors"`
	Publisher     string     `json:"publisher"`
	PublishedDate string     `json:"publishedDate"`
	Description   string     `json:"description"`
	PageCount     int        `json:"pageCount"`
	Categories    []string   `json:"categories"`
	ImageLinks    ImageLinks `json:"imageLinks"`
}

// ImageLinks holds the cover art URLs of a volume.
type ImageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}

// SearchResult is the trimmed-down shape returned to our own API clients.
type SearchResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	CoverURL    string `json:"cover_url"`
	Pages       int    `json:"pages"`
	Publisher   string `json:"publisher"`
	Published   string `json:"published"`
	Description string `json:"description"`
}
