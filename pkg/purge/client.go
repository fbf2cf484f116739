package purge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultAPIBase is the Cloudflare v4 API root
const DefaultAPIBase = "https://api.cloudflare.com/client/v4"

// maxResponseBytes bounds how much of a response body is kept for diagnostics
const maxResponseBytes = 1 << 20

// ErrMissingCredentials is returned when the zone id or API token is empty
var ErrMissingCredentials = errors.New("zone id and API token are required")

// APIMessage is an entry of the errors or messages list in an API response
type APIMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type apiResponse struct {
	Success bool         `json:"success"`
	Errors  []APIMessage `json:"errors"`
}

// APIError reports a failed purge request with the raw response payload
type APIError struct {
	StatusCode int
	Payload    string
	Errors     []APIMessage
	// Batch is the 1-based batch number, 0 for a purge-everything request
	Batch int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cloudflare purge failed (status %d): %s", e.StatusCode, e.Payload)
}

type purgeRequest struct {
	Files           []string `json:"files,omitempty"`
	PurgeEverything bool     `json:"purge_everything,omitempty"`
}

// Client issues cache purge requests for a single zone
type Client struct {
	HTTPClient *http.Client
	APIBase    string
	ZoneID     string
	Token      string
}

// NewClient creates a client for the zone, authenticated with a bearer token
func NewClient(zoneID, token, apiBase string) (*Client, error) {
	if zoneID == "" || token == "" {
		return nil, ErrMissingCredentials
	}
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &Client{
		HTTPClient: http.DefaultClient,
		APIBase:    strings.TrimRight(apiBase, "/"),
		ZoneID:     zoneID,
		Token:      token,
	}, nil
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/zones/%s/purge_cache", c.APIBase, url.PathEscape(c.ZoneID))
}

// PurgeFiles purges the given URLs in a single request
func (c *Client) PurgeFiles(ctx context.Context, files []string) error {
	return c.post(ctx, purgeRequest{Files: files})
}

// PurgeEverything purges all cached content of the zone
func (c *Client) PurgeEverything(ctx context.Context) error {
	return c.post(ctx, purgeRequest{PurgeEverything: true})
}

func (c *Client) post(ctx context.Context, body purgeRequest) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode purge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create purge request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send purge request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read purge response: %w", err)
	}

	var parsed apiResponse
	decodeErr := json.Unmarshal(raw, &parsed)

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok || decodeErr != nil || !parsed.Success {
		return &APIError{
			StatusCode: resp.StatusCode,
			Payload:    string(raw),
			Errors:     parsed.Errors,
		}
	}

	return nil
}
