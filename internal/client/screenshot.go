package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ScreenshotClient calls the external capture API that renders a tool's
// page and returns a hosted image URL.
type ScreenshotClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewScreenshotClient(baseURL, apiKey string) *ScreenshotClient {
	return &ScreenshotClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type captureResponse struct {
	URL string `json:"url"`
}

// Capture requests a fresh screenshot of target and returns the image URL.
func (c *ScreenshotClient) Capture(ctx context.Context, target string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("screenshot API is not configured")
	}

	q := url.Values{}
	q.Set("access_key", c.apiKey)
	q.Set("url", target)
	q.Set("format", "jpeg")
	q.Set("width", "1280")
	q.Set("height", "800")
	q.Set("response_type", "json")

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call screenshot API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("screenshot API returned status %d: %s", resp.StatusCode, string(body))
	}

	var capture captureResponse
	if err := json.NewDecoder(resp.Body).Decode(&capture); err != nil {
		return "", fmt.Errorf("failed to decode screenshot response: %w", err)
	}
	if capture.URL == "" {
		return "", fmt.Errorf("screenshot API returned no image URL")
	}

	return capture.URL, nil
}
