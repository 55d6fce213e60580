package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.stripe.com"

// Gateway-level payment statuses as Stripe reports them.
const (
	SessionPaid   = "paid"
	SessionUnpaid = "unpaid"
)

var (
	// ErrBadSignature is returned for missing, malformed or forged webhook signatures.
	ErrBadSignature = errors.New("webhook signature verification failed")
)

// SessionRequest describes a hosted checkout session to create.
type SessionRequest struct {
	Amount     float64
	Currency   string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// Session is a created hosted checkout session.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// SessionStatus is the live state of a checkout session.
type SessionStatus struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// WebhookEvent is a verified event delivered to the webhook endpoint.
type WebhookEvent struct {
	Type          string
	SessionID     string
	PaymentStatus string
}

// StripeClient talks to the Stripe checkout API. It applies no internal
// retries; failures propagate to the caller.
type StripeClient struct {
	apiKey        string
	webhookSecret string
	baseURL       string
	httpClient    *http.Client
}

// NewStripeClient creates a client authenticated with the given secret key.
func NewStripeClient(apiKey, webhookSecret string) *StripeClient {
	return &StripeClient{
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetBaseURL overrides the API host. Used by tests.
func (c *StripeClient) SetBaseURL(base string) {
	c.baseURL = strings.TrimSuffix(base, "/")
}

// CreateSession creates a hosted checkout session for a single charge of the
// given amount. The success URL is passed through verbatim so the
// {CHECKOUT_SESSION_ID} placeholder reaches the gateway unexpanded.
func (c *StripeClient) CreateSession(ctx context.Context, req *SessionRequest) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", req.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(toMinorUnits(req.Amount), 10))
	form.Set("line_items[0][price_data][product_data][name]", "Order payment")
	for k, v := range req.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var session Session
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSession retrieves the live status of a checkout session.
func (c *StripeClient) GetSession(ctx context.Context, sessionID string) (*SessionStatus, error) {
	var status SessionStatus
	path := "/v1/checkout/sessions/" + url.PathEscape(sessionID)
	if err := c.do(ctx, http.MethodGet, path, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *StripeClient) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, truncate(data, 256))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}

// VerifyWebhook checks the Stripe-Signature header (t=...,v1=... scheme) over
// the raw payload and, on success, extracts the checkout session event.
func (c *StripeClient) VerifyWebhook(payload []byte, sigHeader string) (*WebhookEvent, error) {
	if err := c.checkSignature(payload, sigHeader, time.Now()); err != nil {
		return nil, err
	}

	var event struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID            string `json:"id"`
				PaymentStatus string `json:"payment_status"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}

	return &WebhookEvent{
		Type:          event.Type,
		SessionID:     event.Data.Object.ID,
		PaymentStatus: event.Data.Object.PaymentStatus,
	}, nil
}

const signatureTolerance = 5 * time.Minute

func (c *StripeClient) checkSignature(payload []byte, sigHeader string, now time.Time) error {
	var timestamp string
	var signatures []string

	for _, part := range strings.Split(sigHeader, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}

	if timestamp == "" || len(signatures) == 0 {
		return ErrBadSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrBadSignature
	}
	if delta := now.Sub(time.Unix(ts, 0)); delta > signatureTolerance || delta < -signatureTolerance {
		return ErrBadSignature
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return ErrBadSignature
}

// SignPayload produces a valid Stripe-Signature header for a payload. Used by
// tests to exercise the webhook path end to end.
func (c *StripeClient) SignPayload(payload []byte, at time.Time) string {
	timestamp := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
