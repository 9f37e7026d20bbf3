package stripewebhook

import (
	"context"
	"encoding/json"

	"github.com/stripe/stripe-go/v84"

	"github.com/scraperite/storefront-backend/internal/notifications"
	"github.com/scraperite/storefront-backend/pkg/db/models"
	pkgerrors "github.com/scraperite/storefront-backend/pkg/errors"
	"github.com/scraperite/storefront-backend/pkg/logger"
)

type orderRecorder interface {
	RecordFromSession(ctx context.Context, sessionID string) (*models.Order, bool, error)
	MarkPaymentSucceeded(ctx context.Context, paymentIntentID string) error
	MarkPaymentFailed(ctx context.Context, paymentIntentID string) error
}

type orderNotifier interface {
	NotifyOrder(ctx context.Context, order *models.Order) notifications.Outcome
}

type ServiceParams struct {
	Recorder orderRecorder
	Notifier orderNotifier
	Logger   *logger.Logger
}

// Service routes verified Stripe events to order recording and notification.
type Service struct {
	recorder orderRecorder
	notifier orderNotifier
	logg     *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Recorder == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order recorder required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order notifier required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		recorder: params.Recorder,
		notifier: params.Notifier,
		logg:     params.Logger,
	}, nil
}

func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
		}
		return s.handleCheckoutCompleted(ctx, session.ID)

	case stripe.EventTypePaymentIntentSucceeded:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode payment intent event")
		}
		return s.recorder.MarkPaymentSucceeded(ctx, intent.ID)

	case stripe.EventTypePaymentIntentPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode payment intent event")
		}
		return s.recorder.MarkPaymentFailed(ctx, intent.ID)

	default:
		return nil
	}
}

func (s *Service) handleCheckoutCompleted(ctx context.Context, sessionID string) error {
	order, _, err := s.recorder.RecordFromSession(ctx, sessionID)
	if err != nil {
		return err
	}

	// delivery failures are logged inside the dispatcher; Stripe must not
	// retry the event over a mail problem
	outcome := s.notifier.NotifyOrder(ctx, order)
	if outcome.Admin != nil && !outcome.Admin.Success {
		s.logg.Warn(ctx, "admin order notification not delivered")
	}
	if outcome.Customer != nil && !outcome.Customer.Success {
		s.logg.Warn(ctx, "customer order notification not delivered")
	}
	return nil
}
