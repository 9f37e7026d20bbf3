package stripewebhook

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"

	"github.com/scraperite/storefront-backend/internal/mail"
	"github.com/scraperite/storefront-backend/internal/notifications"
	"github.com/scraperite/storefront-backend/pkg/db/models"
	"github.com/scraperite/storefront-backend/pkg/logger"
)

type fakeRecorder struct {
	recorded  []string
	succeeded []string
	failed    []string
	err       error
}

func (f *fakeRecorder) RecordFromSession(ctx context.Context, sessionID string) (*models.Order, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	f.recorded = append(f.recorded, sessionID)
	return &models.Order{ID: uuid.New(), StripeSessionID: sessionID, CustomerEmail: "anna@example.se"}, true, nil
}

func (f *fakeRecorder) MarkPaymentSucceeded(ctx context.Context, paymentIntentID string) error {
	f.succeeded = append(f.succeeded, paymentIntentID)
	return nil
}

func (f *fakeRecorder) MarkPaymentFailed(ctx context.Context, paymentIntentID string) error {
	f.failed = append(f.failed, paymentIntentID)
	return nil
}

type fakeNotifier struct {
	notified []string
}

func (f *fakeNotifier) NotifyOrder(ctx context.Context, order *models.Order) notifications.Outcome {
	f.notified = append(f.notified, order.StripeSessionID)
	return notifications.Outcome{
		Admin:    &mail.Result{Success: true, Method: "emailit_api"},
		Customer: &mail.Result{Success: true, Method: "emailit_api"},
	}
}

func newWebhookService(t *testing.T, recorder orderRecorder, notifier orderNotifier) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Recorder: recorder,
		Notifier: notifier,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc
}

func rawEvent(t *testing.T, eventType stripe.EventType, object any) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(object)
	require.NoError(t, err)
	return &stripe.Event{
		ID:   "evt_" + uuid.NewString(),
		Type: eventType,
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestHandleCheckoutCompleted(t *testing.T) {
	recorder := &fakeRecorder{}
	notifier := &fakeNotifier{}
	svc := newWebhookService(t, recorder, notifier)

	event := rawEvent(t, stripe.EventTypeCheckoutSessionCompleted, map[string]string{"id": "cs_test_1"})
	require.NoError(t, svc.HandleEvent(context.Background(), event))

	assert.Equal(t, []string{"cs_test_1"}, recorder.recorded)
	assert.Equal(t, []string{"cs_test_1"}, notifier.notified)
}

func TestHandlePaymentIntentEvents(t *testing.T) {
	recorder := &fakeRecorder{}
	svc := newWebhookService(t, recorder, &fakeNotifier{})
	ctx := context.Background()

	require.NoError(t, svc.HandleEvent(ctx, rawEvent(t, stripe.EventTypePaymentIntentSucceeded, map[string]string{"id": "pi_ok"})))
	require.NoError(t, svc.HandleEvent(ctx, rawEvent(t, stripe.EventTypePaymentIntentPaymentFailed, map[string]string{"id": "pi_bad"})))

	assert.Equal(t, []string{"pi_ok"}, recorder.succeeded)
	assert.Equal(t, []string{"pi_bad"}, recorder.failed)
}

func TestHandleEventIgnoresUnknownTypes(t *testing.T) {
	recorder := &fakeRecorder{}
	notifier := &fakeNotifier{}
	svc := newWebhookService(t, recorder, notifier)

	event := rawEvent(t, "customer.created", map[string]string{"id": "cus_1"})
	require.NoError(t, svc.HandleEvent(context.Background(), event))
	assert.Empty(t, recorder.recorded)
	assert.Empty(t, notifier.notified)
}

func TestHandleEventRequiresData(t *testing.T) {
	svc := newWebhookService(t, &fakeRecorder{}, &fakeNotifier{})

	assert.Error(t, svc.HandleEvent(context.Background(), nil))
	assert.Error(t, svc.HandleEvent(context.Background(), &stripe.Event{ID: "evt_1"}))
}

type memoryIdempotencyStore struct {
	data map[string]string
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{data: map[string]string{}}
}

func (s *memoryIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	return s.data[key], nil
}

func (s *memoryIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, exists := s.data[key]; exists {
		return false, nil
	}
	s.data[key] = "1"
	return true, nil
}

func (s *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "scraperite:idempotency:" + scope + ":" + id
}

func (s *memoryIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func TestIdempotencyGuard(t *testing.T) {
	store := newMemoryIdempotencyStore()
	guard, err := NewIdempotencyGuard(store, time.Hour, "stripe_event")
	require.NoError(t, err)
	ctx := context.Background()

	seen, err := guard.CheckAndMark(ctx, "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = guard.CheckAndMark(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, seen)

	require.NoError(t, guard.Delete(ctx, "evt_1"))
	seen, err = guard.CheckAndMark(ctx, "evt_1")
	require.NoError(t, err)
	assert.False(t, seen, "cleared event must be processable again")

	_, err = guard.CheckAndMark(ctx, "")
	assert.Error(t, err)
}

func TestNewIdempotencyGuardValidation(t *testing.T) {
	_, err := NewIdempotencyGuard(nil, time.Hour, "stripe_event")
	assert.Error(t, err)

	_, err = NewIdempotencyGuard(newMemoryIdempotencyStore(), time.Hour, "")
	assert.Error(t, err)
}
