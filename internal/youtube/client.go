// Package youtube is a thin client for the YouTube Data API v3. The
// scheduler only needs the id, title, description, and raw duration
// string of a video; the rest of the API's shape stays out of the
// core data model.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/youkebox/youkebox/internal/config"
)

const (
	requestTimeout   = 10 * time.Second
	searchMaxResults = 20
	// music category, matching the search surface the player exposes
	searchCategoryID = "10"
)

// ErrFetchFailed indicates the metadata API could not be reached or
// returned a non-success status
var ErrFetchFailed = errors.New("metadata fetch failed")

// MetadataFetcher fetches metadata for a list of external video ids.
// *Client satisfies it; tests substitute fakes.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, ids []string) ([]VideoMetadata, error)
}

// Client talks to the YouTube Data API
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new metadata API client
func NewClient(cfg *config.YouTubeConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// FetchMetadata returns metadata for the given video ids, in the
// order the API reports them
func (c *Client) FetchMetadata(ctx context.Context, ids []string) ([]VideoMetadata, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := url.Values{}
	q.Set("id", strings.Join(ids, ","))
	q.Set("part", "id,snippet,contentDetails")
	q.Set("key", c.apiKey)

	var resp videoListResponse
	if err := c.getJSON(ctx, "/videos", q, &resp); err != nil {
		return nil, err
	}

	metadata := make([]VideoMetadata, 0, len(resp.Items))
	for _, item := range resp.Items {
		metadata = append(metadata, VideoMetadata{
			ID:          item.ID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			Duration:    item.ContentDetails.Duration,
		})
	}

	return metadata, nil
}

// Search queries the API for videos matching the query and enriches
// the results with their durations via a second lookup, since the
// search endpoint does not return content details
func (c *Client) Search(ctx context.Context, query string) ([]VideoMetadata, error) {
	q := url.Values{}
	q.Set("type", "video")
	q.Set("part", "id,snippet")
	q.Set("maxResults", fmt.Sprintf("%d", searchMaxResults))
	q.Set("videoCategoryId", searchCategoryID)
	q.Set("q", query)
	q.Set("key", c.apiKey)

	var resp searchListResponse
	if err := c.getJSON(ctx, "/search", q, &resp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}

	return c.FetchMetadata(ctx, ids)
}

// getJSON performs a GET against the API and decodes the JSON body
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	reqURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d from %s", ErrFetchFailed, resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: invalid response body: %v", ErrFetchFailed, err)
	}

	return nil
}
