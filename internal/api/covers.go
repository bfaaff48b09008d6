package api

import (
	"bytes"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nfnt/resize"
	"github.com/okutan/kitaplik-go/internal/util"
)

const (
	defaultCoverWidth = 256
	maxCoverWidth     = 1024
	maxCoverBytes     = 10 << 20
)

var coverClient = &http.Client{Timeout: 30 * time.Second}

// handleCoverThumbnail fetches a remote cover image, downscales it and
// serves it as a JPEG. Remote URLs pass through the same normalization the
// app applies everywhere (http upgraded to https, broken query flags
// stripped).
//
// Query parameters:
//   - url:   (required) the cover image URL
//   - width: (optional) target width in pixels, default 256
func (s *Server) handleCoverThumbnail(w http.ResponseWriter, r *http.Request) {
	coverURL := util.SecureImageURL(r.URL.Query().Get("url"))

	parsed, err := url.Parse(coverURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		RespondWithError(w, http.StatusBadRequest, "Invalid URL")
		return
	}

	width := defaultCoverWidth
	if widthStr := r.URL.Query().Get("width"); widthStr != "" {
		if n, err := strconv.Atoi(widthStr); err == nil && n > 0 && n <= maxCoverWidth {
			width = n
		}
	}

	resp, err := coverClient.Get(coverURL)
	if err != nil {
		log.Printf("Error fetching cover %s: %v", coverURL, err)
		RespondWithError(w, http.StatusBadGateway, "Failed to fetch cover")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		RespondWithError(w, http.StatusBadGateway, "Cover server returned error")
		return
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverBytes))
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Failed to read cover")
		return
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		RespondWithError(w, http.StatusUnsupportedMediaType, "Unsupported image format")
		return
	}

	thumb := resize.Resize(uint(width), 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 75}); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to encode thumbnail")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	// Covers rarely change; let clients cache for a day.
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(buf.Bytes())
}
