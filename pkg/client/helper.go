package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/skaut/skautis-gate/internal/api/presenter"
)

// APIError is a structured error response from the gate server. RetryURL
// is set on registration denials and points at the endpoint the caller
// may retry once the underlying rules match.
type APIError struct {
	CorrelationID string
	Message       string
	RetryURL      string
}

func (e APIError) Error() string {
	return fmt.Sprintf("api error: '%s' (correlation: %s)", e.Message, e.CorrelationID)
}

func (c *Client) get(ctx context.Context, url string, result any) (string, error) {
	return c.send(ctx, http.MethodGet, url, nil, result)
}

func (c *Client) post(ctx context.Context, url string, payload, result any) (string, error) {
	return c.send(ctx, http.MethodPost, url, payload, result)
}

// send issues one request and decodes the JSON body into result. The
// returned string is the correlation ID the server stamped on the
// response, available even when the request failed.
func (c *Client) send(ctx context.Context, method, url string, payload, result any) (string, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return "", fmt.Errorf("marshaling payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("connection failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	correlation := resp.Header.Get("X-Correlation-ID")

	if resp.StatusCode >= 400 {
		return correlation, decodeError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return correlation, fmt.Errorf("decoding response: %w", err)
		}
	}
	return correlation, nil
}

func decodeError(resp *http.Response) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("request failed with status %d and unreadable body: %w", resp.StatusCode, err)
	}

	var errResp presenter.ErrorResponse
	if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
		return APIError{
			CorrelationID: errResp.CorrelationID,
			Message:       errResp.Error,
			RetryURL:      errResp.RetryURL,
		}
	}
	return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(raw))
}
