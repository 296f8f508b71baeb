// Package ocr extracts a best-effort expense draft from a receipt image.
// Extraction is feature-flagged: when disabled, or when the remote call
// fails, the caller falls back to an empty draft and manual entry.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"truckbooks/internal/core"
)

// Draft is the pre-filled expense form produced from a receipt image. Any
// field the service could not read stays empty.
type Draft struct {
	Vendor   string             `json:"vendor"`
	Amount   string             `json:"amount"`
	Date     core.Date          `json:"date"`
	Category core.Category      `json:"category"`
	Items    []core.ExpenseItem `json:"items,omitempty"`
}

type Extractor interface {
	ExtractReceipt(ctx context.Context, image []byte) (Draft, error)
}

// Disabled is the extractor used when the OCR feature flag is off. It yields
// an empty draft so the form opens for manual entry.
type Disabled struct{}

func (Disabled) ExtractReceipt(ctx context.Context, _ []byte) (Draft, error) {
	slog.DebugContext(ctx, "Receipt scanning disabled, returning empty draft")
	return Draft{}, nil
}

// Client calls a hosted receipt-parsing API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		httpClient: http.DefaultClient,
		endpoint:   endpoint,
		apiKey:     apiKey,
	}
}

func (c *Client) ExtractReceipt(ctx context.Context, image []byte) (Draft, error) {
	payload := struct {
		Image string `json:"image"`
	}{Image: base64.StdEncoding.EncodeToString(image)}

	body, err := json.Marshal(payload)
	if err != nil {
		return Draft{}, fmt.Errorf("encode receipt request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Draft{}, fmt.Errorf("build receipt request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Draft{}, fmt.Errorf("scan receipt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Draft{}, fmt.Errorf("scan receipt: service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var draft Draft
	if err := json.NewDecoder(resp.Body).Decode(&draft); err != nil {
		return Draft{}, fmt.Errorf("decode receipt response: %w", err)
	}

	// The service's category guess may not be one of ours.
	if draft.Category != "" && !draft.Category.Valid() {
		draft.Category = core.CategoryOther
	}

	slog.InfoContext(ctx, "Receipt scanned",
		"vendor", draft.Vendor,
		"amount", draft.Amount,
		"category", string(draft.Category))
	return draft, nil
}
