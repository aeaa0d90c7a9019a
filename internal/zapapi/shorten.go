package zapapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"zaplink/internal/models"
)

// Shorten creates a plain short link for url via /api/zaps/shorten.
func (c *Client) Shorten(ctx context.Context, longURL string) (*models.ShortenResult, error) {
	payload, err := json.Marshal(map[string]string{"url": longURL})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/zaps/shorten", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(ctx, "zapapi.Shorten", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	result, err := decodeData[models.ShortenResult](resp)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
