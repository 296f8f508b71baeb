// Package notify delivers invoice notifications through a transactional
// e-mail service. The Notifier is an optional capability: when no service is
// configured the server carries a no-op implementation instead of probing
// for one at call time.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Notice is the payload handed to the mail service for one invoice.
type Notice struct {
	Recipient     string `json:"recipient"`
	InvoiceNumber string `json:"invoiceNumber"`
	LoadNumber    string `json:"loadNumber"`
	Amount        string `json:"amount"`
	CustomerName  string `json:"customerName"`
}

type Notifier interface {
	SendInvoiceNotice(ctx context.Context, n Notice) error
}

// Noop is the notifier used when no mail service is configured.
type Noop struct{}

func (Noop) SendInvoiceNotice(ctx context.Context, n Notice) error {
	slog.DebugContext(ctx, "Notifier disabled, dropping notice",
		"invoice_number", n.InvoiceNumber,
		"recipient", n.Recipient)
	return nil
}

// EmailClient posts notices to an EmailJS-style HTTP endpoint.
type EmailClient struct {
	httpClient *http.Client
	endpoint   string
	serviceID  string
	templateID string
	userID     string
}

func NewEmailClient(endpoint, serviceID, templateID, userID string) *EmailClient {
	return &EmailClient{
		httpClient: http.DefaultClient,
		endpoint:   endpoint,
		serviceID:  serviceID,
		templateID: templateID,
		userID:     userID,
	}
}

func (c *EmailClient) SendInvoiceNotice(ctx context.Context, n Notice) error {
	if strings.TrimSpace(n.Recipient) == "" {
		return fmt.Errorf("send notice: empty recipient")
	}

	payload := struct {
		ServiceID      string `json:"service_id"`
		TemplateID     string `json:"template_id"`
		UserID         string `json:"user_id"`
		TemplateParams Notice `json:"template_params"`
	}{
		ServiceID:      c.serviceID,
		TemplateID:     c.templateID,
		UserID:         c.userID,
		TemplateParams: n,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode notice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notice request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send notice: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send notice: service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	slog.InfoContext(ctx, "Invoice notice sent",
		"invoice_number", n.InvoiceNumber,
		"recipient", n.Recipient)
	return nil
}
