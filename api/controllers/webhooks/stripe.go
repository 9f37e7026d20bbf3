package webhooks

import (
	"context"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"

	"github.com/scraperite/storefront-backend/api/responses"
	"github.com/scraperite/storefront-backend/pkg/logger"
	"github.com/scraperite/storefront-backend/pkg/metrics"
)

type StripeWebhookService interface {
	HandleEvent(ctx context.Context, event *stripe.Event) error
}

type stripeWebhookGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

type stripeClient interface {
	SigningSecret() string
}

// webhookFailedBody is the exact failure payload Stripe's dashboard shows the
// merchant, so it bypasses the standard error envelope.
var (
	webhookFailedBody   = map[string]string{"error": "Webhook handler failed"}
	webhookReceivedBody = map[string]bool{"received": true}
)

// StripeWebhook verifies and routes checkout and payment intent events.
func StripeWebhook(svc StripeWebhookService, client stripeClient, guard stripeWebhookGuard, m *metrics.WebhookMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil || client == nil || guard == nil {
			responses.WriteRaw(w, http.StatusBadRequest, webhookFailedBody)
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			if logg != nil {
				logg.Error(ctx, "webhook body read failed", err)
			}
			responses.WriteRaw(w, http.StatusBadRequest, webhookFailedBody)
			return
		}

		sigHeader := r.Header.Get("Stripe-Signature")
		event, err := webhook.ConstructEvent(payload, sigHeader, client.SigningSecret())
		if err != nil {
			if logg != nil {
				logg.Error(ctx, "webhook signature verification failed", err)
			}
			responses.WriteRaw(w, http.StatusBadRequest, webhookFailedBody)
			return
		}

		eventType := string(event.Type)
		m.IncReceived(eventType)

		alreadyProcessed, err := guard.CheckAndMark(ctx, event.ID)
		if err != nil {
			if logg != nil {
				logg.Error(ctx, "webhook idempotency check failed", err)
			}
			m.IncFailed(eventType)
			responses.WriteRaw(w, http.StatusBadRequest, webhookFailedBody)
			return
		}
		if alreadyProcessed {
			m.IncDuplicate(eventType)
			if logg != nil {
				logg.Info(ctx, "stripe event "+event.ID+" already processed")
			}
			responses.WriteRaw(w, http.StatusOK, webhookReceivedBody)
			return
		}

		if err := svc.HandleEvent(ctx, &event); err != nil {
			// clear the redis mark so Stripe's retry can reach the handler;
			// the order table's unique session constraint keeps it idempotent
			_ = guard.Delete(ctx, event.ID)
			if logg != nil {
				logg.Error(ctx, "stripe event "+event.ID+" handler failed", err)
			}
			m.IncFailed(eventType)
			responses.WriteRaw(w, http.StatusBadRequest, webhookFailedBody)
			return
		}

		if logg != nil {
			logg.Info(ctx, "stripe event "+event.ID+" processed")
		}
		responses.WriteRaw(w, http.StatusOK, webhookReceivedBody)
	}
}
