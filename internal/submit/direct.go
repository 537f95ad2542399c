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

	"github.com/onepctclub/storefront/pkg/config"
)

const (
	restPathSegment = "/rest/v1"

	TableSelections      = "selections"
	TableShippingDetails = "shipping_details"
)

// DirectClient inserts rows straight into the database-REST endpoint,
// scoped to a named schema and authenticated with the configured API key.
type DirectClient struct {
	restBase string
	key      string
	schema   string
	http     *http.Client
}

// NewDirectClient builds the direct sink. A client with no endpoint or key
// stays usable but fails every insert fast with a not-configured result.
func NewDirectClient(cfg config.DatabaseConfig, httpClient *http.Client) *DirectClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	schema := strings.TrimSpace(cfg.Schema)
	if schema == "" {
		schema = "public"
	}
	return &DirectClient{
		restBase: normalizeRESTBase(cfg.URL),
		key:      strings.TrimSpace(cfg.Key),
		schema:   schema,
		http:     httpClient,
	}
}

// normalizeRESTBase trims trailing slashes and ensures the base ends in the
// REST API path segment.
func normalizeRESTBase(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		return ""
	}
	if strings.HasSuffix(base, restPathSegment) {
		return base
	}
	return base + restPathSegment
}

// Configured reports whether inserts can be attempted at all.
func (c *DirectClient) Configured() bool {
	return c.restBase != "" && c.key != ""
}

// Insert writes one row into table. Every failure mode is converted into a
// Result; nothing is retried.
func (c *DirectClient) Insert(ctx context.Context, table string, payload any) Result {
	if !c.Configured() {
		return failure("database endpoint not configured", 0)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return failure(fmt.Sprintf("encoding payload: %v", err), 0)
	}

	endpoint := c.restBase + "/" + table
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return failure(err.Error(), 0)
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Profile", c.schema)
	req.Header.Set("Accept-Profile", c.schema)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

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
		msg := extractRejectionMessage(resp)
		return failure(fmt.Sprintf("%s (%s)", msg, endpoint), resp.StatusCode)
	}

	return Result{}
}

// SubmitOrder writes the order into the shipping_details table.
func (c *DirectClient) SubmitOrder(ctx context.Context, order Order) Result {
	return c.Insert(ctx, TableShippingDetails, order)
}

// RecordSelection writes a product-selection event.
func (c *DirectClient) RecordSelection(ctx context.Context, sel Selection) Result {
	return c.Insert(ctx, TableSelections, sel)
}

// extractRejectionMessage pulls the most human-readable detail out of a
// non-success response: JSON message, error, or hint in that order, then the
// raw body, then the HTTP status line.
func extractRejectionMessage(resp *http.Response) string {
	fallback := strings.TrimSpace(fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return fallback
	}

	var decoded map[string]any
	if json.Unmarshal(raw, &decoded) == nil {
		for _, field := range []string{"message", "error", "hint"} {
			if v, ok := decoded[field].(string); ok && v != "" {
				return v
			}
		}
	}
	return string(bytes.TrimSpace(raw))
}
