package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// LegacyClient writes orders through the REST backend, the write path the
// system used before it gained the direct database sink. Kept selectable so
// either sink can serve as the system of record.
type LegacyClient struct {
	baseURL string
	http    *http.Client
}

func NewLegacyClient(baseURL string, httpClient *http.Client) *LegacyClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &LegacyClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    httpClient,
	}
}

func (c *LegacyClient) Configured() bool {
	return c.baseURL != ""
}

// SubmitOrder posts the order to the backend. Same contract as the direct
// sink: all failure modes become a Result.
func (c *LegacyClient) SubmitOrder(ctx context.Context, order Order) Result {
	if !c.Configured() {
		return failure("backend endpoint not configured", 0)
	}

	body, err := json.Marshal(order)
	if err != nil {
		return failure(fmt.Sprintf("encoding payload: %v", err), 0)
	}

	endpoint := c.baseURL + "/api/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return failure(err.Error(), 0)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "network error"
		}
		return failure(msg, 0)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := extractBackendDetail(resp)
		return failure(fmt.Sprintf("%s (%s)", msg, endpoint), resp.StatusCode)
	}

	return Result{}
}

// extractBackendDetail reads the backend envelope's detail field, falling
// back the same way the direct sink does.
func extractBackendDetail(resp *http.Response) string {
	fallback := strings.TrimSpace(fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return fallback
	}

	var decoded map[string]any
	if json.Unmarshal(raw, &decoded) == nil {
		for _, field := range []string{"detail", "message"} {
			if v, ok := decoded[field].(string); ok && v != "" {
				return v
			}
		}
	}
	return string(bytes.TrimSpace(raw))
}
