package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/amishk599/matchdeck/internal/model"
	"github.com/amishk599/matchdeck/internal/normalize"
)

// Ensure Client implements the fetcher interfaces.
var (
	_ model.BestMatchFetcher   = (*Client)(nil)
	_ model.PageFetcher        = (*Client)(nil)
	_ model.ExplanationFetcher = (*Client)(nil)
)

// Client talks to the recommendation backend. Items from the best-matches
// endpoint arrive in two shapes (structured objects or encoded strings) and
// are normalized before they leave this package.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a client for the recommendation API rooted at baseURL.
// token is sent as a bearer token on every request.
func NewClient(baseURL, token string, client *http.Client) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  client,
	}
}

// bestMatchesResponse is the best-matches endpoint payload. recommended_jobs
// items are deliberately left raw: the server sometimes serializes them as
// objects and sometimes as opaque encoded strings.
type bestMatchesResponse struct {
	RecommendedJobs []json.RawMessage `json:"recommended_jobs"`
	Explanation     string            `json:"explanation"`
}

// paginatedResponse is the offset-paginated endpoint payload.
type paginatedResponse struct {
	Jobs       []json.RawMessage `json:"jobs"`
	Pagination paginationMeta    `json:"pagination"`
}

type paginationMeta struct {
	TotalJobs int `json:"total_jobs"`
}

type explanationRequest struct {
	JobIDs []int64 `json:"job_ids"`
}

type explanationResponse struct {
	Explanations string `json:"explanations"`
}

// FetchBestMatches retrieves the curated first page and normalizes each item.
// forceRefresh asks the backend to bypass its own server-side result cache.
func (c *Client) FetchBestMatches(ctx context.Context, forceRefresh bool) ([]model.Recommendation, error) {
	q := url.Values{}
	q.Set("force_refresh", strconv.FormatBool(forceRefresh))
	endpoint := fmt.Sprintf("%s/recommendations/best-matches?%s", c.baseURL, q.Encode())

	var resp bestMatchesResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("best matches fetch: %w", err)
	}

	return normalize.Batch(resp.RecommendedJobs), nil
}

// FetchPage retrieves one offset page and the backend's total job count.
func (c *Client) FetchPage(ctx context.Context, page, perPage int) ([]model.Recommendation, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("jobs_per_page", strconv.Itoa(perPage))
	endpoint := fmt.Sprintf("%s/recommendations/paginated?%s", c.baseURL, q.Encode())

	var resp paginatedResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, 0, fmt.Errorf("page %d fetch: %w", page, err)
	}

	return normalize.Batch(resp.Jobs), resp.Pagination.TotalJobs, nil
}

// FetchExplanation retrieves the "why this match" text for one job.
func (c *Client) FetchExplanation(ctx context.Context, jobID int64) (string, error) {
	body, err := json.Marshal(explanationRequest{JobIDs: []int64{jobID}})
	if err != nil {
		return "", fmt.Errorf("explanation fetch for %d: %w", jobID, err)
	}

	endpoint := fmt.Sprintf("%s/recommendations/explanation", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("explanation fetch for %d: %w", jobID, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp explanationResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("explanation fetch for %d: %w", jobID, err)
	}
	return resp.Explanations, nil
}

// getJSON issues a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
