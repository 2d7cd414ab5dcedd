package mlb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// BaseURL of the official MLB Stats API.
	BaseURL = "https://statsapi.mlb.com/api/v1"

	// sportID for Major League Baseball.
	sportID = 1

	requestTimeout = 15 * time.Second
)

// Client queries the official MLB Stats API, the structured fallback when
// scoreboard scraping yields nothing.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a stats-API client with a custom base URL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// NewClient creates a stats-API client with default settings.
func NewClient() *Client {
	return New(BaseURL)
}

// FetchSchedule fetches the schedule for a specific date.
func (c *Client) FetchSchedule(ctx context.Context, date time.Time) (*ScheduleResponse, error) {
	url := fmt.Sprintf("%s/schedule?sportId=%d&date=%s", c.baseURL, sportID, date.Format("01/02/2006"))

	var resp ScheduleResponse
	if err := c.fetch(ctx, url, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchTeams fetches the team directory, keyed by stats-API team id.
// Abbreviations come from here; the schedule payload only carries names.
func (c *Client) FetchTeams(ctx context.Context) (map[int]TeamInfo, error) {
	url := fmt.Sprintf("%s/teams?sportId=%d", c.baseURL, sportID)

	var resp TeamsResponse
	if err := c.fetch(ctx, url, &resp); err != nil {
		return nil, err
	}

	directory := make(map[int]TeamInfo, len(resp.Teams))
	for _, t := range resp.Teams {
		directory[t.ID] = t
	}
	return directory, nil
}

// fetch makes an HTTP GET request and decodes the JSON response into out.
func (c *Client) fetch(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stats api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("stats api status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
