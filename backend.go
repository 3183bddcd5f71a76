package mmad

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// redeemViaBackend POSTs the redeem request to the backend endpoint as JSON
// and decodes the RedeemResult from any 2xx answer. On a non-2xx answer the
// error text is extracted from the body's error/message/details field, with
// "HTTP <status>: <statusText>" as the fallback.
func (c *Client) redeemViaBackend(ctx context.Context, endpoint string, req *RedeemRequest) (*RedeemResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal redeem request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create redeem request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("redeem request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read redeem response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, backendError(resp.StatusCode, responseBody)
	}

	var result RedeemResult
	if err := json.Unmarshal(responseBody, &result); err != nil {
		return nil, fmt.Errorf("malformed redeem response (%d): %s", resp.StatusCode, string(responseBody))
	}
	return &result, nil
}

// backendError extracts a usable error from a non-2xx backend response.
// A JSON-RPC style rejection code in the body is preserved so the caller's
// classification still recognizes "user said no".
func backendError(status int, body []byte) error {
	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err == nil {
		text := firstString(envelope, "error", "message", "details")
		if code, ok := envelope["code"].(float64); ok && int(code) == ProviderCodeUserRejected {
			if text == "" {
				text = http.StatusText(status)
			}
			return &ProviderError{Code: ProviderCodeUserRejected, Message: text}
		}
		if text != "" {
			return fmt.Errorf("%s", text)
		}
	}
	return fmt.Errorf("HTTP %d: %s", status, http.StatusText(status))
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any, []any:
			if b, err := json.Marshal(v); err == nil {
				return string(b)
			}
		}
	}
	return ""
}
