package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"cryptoprices-service/internal/application"
)

// Client issues one-shot JSON GETs and classifies failures into the
// application error taxonomy. Errors are surfaced, never retried here:
// a failed fetch abandons the coin's cycle by contract.
type Client struct {
	HTTP      *http.Client
	APIKey    string
	KeyHeader string
}

func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", application.ErrInvalidRequest, err)
	}
	if c.APIKey != "" && c.KeyHeader != "" {
		req.Header.Set(c.KeyHeader, c.APIKey)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", application.ErrTransientFetch, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", application.ErrTransientFetch, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: status %d", application.ErrInvalidRequest, resp.StatusCode)
	default:
		return fmt.Errorf("%w: unexpected status %d", application.ErrTransientFetch, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", application.ErrParse, err)
	}
	return nil
}
