package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"

	"github.com/scraperite/storefront-backend/pkg/logger"
	"github.com/scraperite/storefront-backend/pkg/metrics"
)

const testSigningSecret = "whsec_test_secret"

type fakeWebhookService struct {
	events []string
	err    error
}

func (f *fakeWebhookService) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event.ID)
	return nil
}

type fakeGuard struct {
	seen    map[string]bool
	deleted []string
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{seen: map[string]bool{}}
}

func (f *fakeGuard) CheckAndMark(ctx context.Context, eventID string) (bool, error) {
	if f.seen[eventID] {
		return true, nil
	}
	f.seen[eventID] = true
	return false, nil
}

func (f *fakeGuard) Delete(ctx context.Context, eventID string) error {
	f.deleted = append(f.deleted, eventID)
	delete(f.seen, eventID)
	return nil
}

type fakeStripeClient struct{}

func (fakeStripeClient) SigningSecret() string { return testSigningSecret }

func signPayload(t *testing.T, payload []byte, secret string) string {
	t.Helper()
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	_, err := fmt.Fprintf(mac, "%d.%s", ts, payload)
	require.NoError(t, err)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func checkoutCompletedPayload(t *testing.T, eventID string) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"id":          eventID,
		"object":      "event",
		"api_version": stripe.APIVersion,
		"type":        "checkout.session.completed",
		"data": map[string]any{
			"object": map[string]any{"id": "cs_test_1", "object": "checkout.session"},
		},
	})
	require.NoError(t, err)
	return payload
}

func postWebhook(handler http.HandlerFunc, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestStripeWebhookProcessesSignedEvent(t *testing.T) {
	svc := &fakeWebhookService{}
	guard := newFakeGuard()
	handler := StripeWebhook(svc, fakeStripeClient{}, guard, metrics.NewWebhookMetrics(nil), testLogger())

	payload := checkoutCompletedPayload(t, "evt_1")
	rec := postWebhook(handler, payload, signPayload(t, payload, testSigningSecret))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"received": true}, decodeBody(t, rec))
	assert.Equal(t, []string{"evt_1"}, svc.events)
}

func TestStripeWebhookDuplicateEventSkipsHandler(t *testing.T) {
	svc := &fakeWebhookService{}
	guard := newFakeGuard()
	handler := StripeWebhook(svc, fakeStripeClient{}, guard, metrics.NewWebhookMetrics(nil), testLogger())

	payload := checkoutCompletedPayload(t, "evt_2")
	signature := signPayload(t, payload, testSigningSecret)

	rec := postWebhook(handler, payload, signature)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postWebhook(handler, payload, signature)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"received": true}, decodeBody(t, rec))

	assert.Len(t, svc.events, 1, "handler must run once per event id")
}

func TestStripeWebhookRejectsInvalidSignature(t *testing.T) {
	svc := &fakeWebhookService{}
	handler := StripeWebhook(svc, fakeStripeClient{}, newFakeGuard(), metrics.NewWebhookMetrics(nil), testLogger())

	payload := checkoutCompletedPayload(t, "evt_3")
	rec := postWebhook(handler, payload, signPayload(t, payload, "whsec_wrong_secret"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"error": "Webhook handler failed"}, decodeBody(t, rec))
	assert.Empty(t, svc.events)
}

func TestStripeWebhookMissingSignature(t *testing.T) {
	handler := StripeWebhook(&fakeWebhookService{}, fakeStripeClient{}, newFakeGuard(), metrics.NewWebhookMetrics(nil), testLogger())

	rec := postWebhook(handler, checkoutCompletedPayload(t, "evt_4"), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStripeWebhookHandlerFailureClearsIdempotencyMark(t *testing.T) {
	svc := &fakeWebhookService{err: errors.New("database unavailable")}
	guard := newFakeGuard()
	handler := StripeWebhook(svc, fakeStripeClient{}, guard, metrics.NewWebhookMetrics(nil), testLogger())

	payload := checkoutCompletedPayload(t, "evt_5")
	rec := postWebhook(handler, payload, signPayload(t, payload, testSigningSecret))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"error": "Webhook handler failed"}, decodeBody(t, rec))
	assert.Equal(t, []string{"evt_5"}, guard.deleted, "retry must be able to reach the handler")
}
