// Client for the external volumes search API used to look up and import
// books. The wire format is the Google Books "volumes" list.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okutan/kitaplik-go/internal/models"
	"github.com/okutan/kitaplik-go/internal/util"
)

const defaultMaxResults = 20

// Client talks to a volumes endpoint.
type Client struct {
	client     *http.Client
	baseURL    string
	maxResults int
}

// New creates a search client. maxResults caps every query; values outside
// (0, 40] fall back to the default.
func New(baseURL string, maxResults int) *Client {
	if maxResults <= 0 || maxResults > 40 {
		maxResults = defaultMaxResults
	}
	return &Client{
		client:     &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		maxResults: maxResults,
	}
}

// Search queries the volumes endpoint and maps the hits into search results.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	searchURL := fmt.Sprintf("%s/volumes?q=%s&maxResults=%d",
		c.baseURL, url.QueryEscape(query), c.maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("volumes endpoint returned status %d", resp.StatusCode)
	}

	var list models.VolumeList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode volumes response: %w", err)
	}

	results := make([]models.SearchResult, 0, len(list.Items))
	for _, item := range list.Items {
		vi := item.VolumeInfo
		if vi.Title == "" {
			continue
		}
		results = append(results, models.SearchResult{
			ID:          item.ID,
			Title:       vi.Title,
			Author:      strings.Join(vi.Authors, ", "),
			CoverURL:    util.SecureImageURL(vi.ImageLinks.Thumbnail),
			Pages:       vi.PageCount,
			Publisher:   vi.Publisher,
			Published:   vi.PublishedDate,
			Description: vi.Description,
		})
	}
	return results, nil
}

// ToBook maps a selected search result into a new book record ready for the
// adapter: status defaults to to_read and the rating starts at 0.
func ToBook(r models.SearchResult) *models.Book {
	pages := ""
	if r.Pages > 0 {
		pages = strconv.Itoa(r.Pages)
	}
	return &models.Book{
		Title:       r.Title,
		Author:      r.Author,
		Pages:       pages,
		Publication: r.Publisher,
		Review:      "",
		Rating:      0,
		Image:       r.CoverURL,
		Status:      models.StatusToRead,
		SaveDate:    time.Now(),
	}
}
