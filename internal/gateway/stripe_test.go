package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	var gotForm map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_abc","url":"https://checkout.stripe.com/pay/cs_test_abc"}`))
	}))
	defer srv.Close()

	client := NewStripeClient("sk_test_123", "whsec_test")
	client.SetBaseURL(srv.URL)

	session, err := client.CreateSession(context.Background(), &SessionRequest{
		Amount:     246.00,
		Currency:   "usd",
		SuccessURL: "https://shop.example/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  "https://shop.example/checkout/cancel",
		Metadata:   map[string]string{"order_id": "order-123"},
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_abc", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_abc", session.URL)

	// Amounts go over the wire as integer cents, the placeholder untouched.
	assert.Equal(t, "24600", gotForm["line_items[0][price_data][unit_amount]"][0])
	assert.Equal(t, "https://shop.example/checkout/success?session_id={CHECKOUT_SESSION_ID}", gotForm["success_url"][0])
	assert.Equal(t, "order-123", gotForm["metadata[order_id]"][0])
}

func TestGetSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/checkout/sessions/cs_test_abc", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_abc","status":"complete","payment_status":"paid"}`))
	}))
	defer srv.Close()

	client := NewStripeClient("sk_test_123", "whsec_test")
	client.SetBaseURL(srv.URL)

	status, err := client.GetSession(context.Background(), "cs_test_abc")
	require.NoError(t, err)
	assert.Equal(t, SessionPaid, status.PaymentStatus)
}

func TestGatewayErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"card declined"}}`))
	}))
	defer srv.Close()

	client := NewStripeClient("sk_test_123", "whsec_test")
	client.SetBaseURL(srv.URL)

	_, err := client.GetSession(context.Background(), "cs_test_abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
}

func TestVerifyWebhook(t *testing.T) {
	client := NewStripeClient("sk_test_123", "whsec_test")
	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{"id":"cs_test_abc","payment_status":"paid"}}}`)

	event, err := client.VerifyWebhook(payload, client.SignPayload(payload, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "checkout.session.completed", event.Type)
	assert.Equal(t, "cs_test_abc", event.SessionID)
	assert.Equal(t, SessionPaid, event.PaymentStatus)
}

func TestVerifyWebhookRejectsForgery(t *testing.T) {
	client := NewStripeClient("sk_test_123", "whsec_test")
	forger := NewStripeClient("sk_test_123", "whsec_other")
	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{"id":"cs_test_abc","payment_status":"paid"}}}`)

	_, err := client.VerifyWebhook(payload, forger.SignPayload(payload, time.Now()))
	assert.ErrorIs(t, err, ErrBadSignature)

	_, err = client.VerifyWebhook(payload, "garbage")
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyWebhookRejectsStaleTimestamp(t *testing.T) {
	client := NewStripeClient("sk_test_123", "whsec_test")
	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{"id":"cs_test_abc","payment_status":"paid"}}}`)

	_, err := client.VerifyWebhook(payload, client.SignPayload(payload, time.Now().Add(-time.Hour)))
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(8900), toMinorUnits(89.00))
	assert.Equal(t, int64(3500), toMinorUnits(35.00))
	assert.Equal(t, int64(1999), toMinorUnits(19.99))
	assert.Equal(t, int64(10), toMinorUnits(0.1))
}
