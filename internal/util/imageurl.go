package util

import "strings"

// PlaceholderCoverURL is served when a book has no cover image.
const PlaceholderCoverURL = "https://via.placeholder.com/128x192?text=No+Cover"

// SecureImageURL normalizes a cover image URL before it is handed to a
// client: plain http is upgraded to https and the "&edge=curl" flag, which
// breaks rendering of Google Books thumbnails, is stripped. An empty URL
// maps to the placeholder cover.
func SecureImageURL(url string) string {
	if url == "" {
		return PlaceholderCoverURL
	}
	url = strings.Replace(url, "http://", "https://", 1)
	return strings.ReplaceAll(url, "&edge=curl", "")
}
