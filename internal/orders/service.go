package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/scraperite/storefront-backend/pkg/db/models"
	"github.com/scraperite/storefront-backend/pkg/enums"
	pkgerrors "github.com/scraperite/storefront-backend/pkg/errors"
	"github.com/scraperite/storefront-backend/pkg/logger"
	"github.com/scraperite/storefront-backend/pkg/pagination"
	"github.com/scraperite/storefront-backend/pkg/types"
)

// SessionFetcher retrieves a checkout session with expanded line items.
type SessionFetcher interface {
	FetchSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
}

// Service records completed checkout sessions as orders and tracks payment state.
type Service struct {
	repo     Repository
	sessions SessionFetcher
	logg     *logger.Logger
}

type ServiceParams struct {
	Repo     Repository
	Sessions SessionFetcher
	Logger   *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repository required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session fetcher required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		repo:     params.Repo,
		sessions: params.Sessions,
		logg:     params.Logger,
	}, nil
}

// RecordFromSession persists the order behind a completed checkout session.
// Redelivered events resolve to the already-stored row; the bool reports
// whether this call inserted it.
func (s *Service) RecordFromSession(ctx context.Context, sessionID string) (*models.Order, bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	ctx = s.logg.WithCheckoutSession(ctx, sessionID)

	session, err := s.sessions.FetchSession(ctx, sessionID)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch checkout session")
	}

	order := buildOrder(session)
	stored, created, err := s.repo.CreateIdempotent(ctx, order)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	if created {
		s.logg.Info(ctx, "order recorded")
	} else {
		s.logg.Info(ctx, "order already recorded, skipping insert")
	}
	return stored, created, nil
}

// MarkPaymentSucceeded flips the order's payment status once the intent settles.
func (s *Service) MarkPaymentSucceeded(ctx context.Context, paymentIntentID string) error {
	return s.markPayment(ctx, paymentIntentID, enums.PaymentStatusPaid)
}

// MarkPaymentFailed records a failed payment intent against the order.
func (s *Service) MarkPaymentFailed(ctx context.Context, paymentIntentID string) error {
	return s.markPayment(ctx, paymentIntentID, enums.PaymentStatusFailed)
}

func (s *Service) markPayment(ctx context.Context, paymentIntentID string, status enums.PaymentStatus) error {
	if strings.TrimSpace(paymentIntentID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment intent id is required")
	}

	order, err := s.repo.FindByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// payment_intent events can outrun checkout.session.completed;
			// the status lands when the session event arrives later
			s.logg.Warn(ctx, "no order found for payment intent "+paymentIntentID)
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order by payment intent")
	}

	if order.PaymentStatus == status {
		return nil
	}

	// a failed intent also cancels the order
	if status == enums.PaymentStatusFailed {
		if err := s.repo.CancelForFailedPayment(ctx, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order for failed payment")
		}
		return nil
	}

	if err := s.repo.UpdatePaymentStatus(ctx, order.ID, status); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
	}
	return nil
}

// ListCustomerOrders returns the order history for one customer email.
func (s *Service) ListCustomerOrders(ctx context.Context, email string, params pagination.Params) (*ListResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	rows, next, err := s.repo.ListByCustomerEmail(ctx, email, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, NewView(&rows[i]))
	}
	return &ListResult{Orders: views, NextCursor: next}, nil
}

// GetCustomerOrder returns one order, scoped to the customer email Stripe
// collected at checkout. An order belonging to a different customer reads as
// not found.
func (s *Service) GetCustomerOrder(ctx context.Context, email string, orderID uuid.UUID) (*View, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
	}
	if order.CustomerEmail != email {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	view := NewView(order)
	return &view, nil
}

func buildOrder(session *stripe.CheckoutSession) *models.Order {
	order := &models.Order{
		StripeSessionID: session.ID,
		Currency:        strings.ToLower(string(session.Currency)),
		Subtotal:        session.AmountSubtotal,
		Total:           session.AmountTotal,
		Status:          enums.OrderStatusProcessing,
		PaymentStatus:   paymentStatusFromSession(session),
	}

	if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
		id := session.PaymentIntent.ID
		order.StripePaymentIntentID = &id
	}

	if session.TotalDetails != nil {
		order.ShippingCost = session.TotalDetails.AmountShipping
	}

	if details := session.CustomerDetails; details != nil {
		order.CustomerEmail = strings.ToLower(details.Email)
		if details.Name != "" {
			name := details.Name
			order.CustomerName = &name
		}
		order.BillingAddress = addressFromStripe(details.Address, details.Name)
	}

	if collected := session.CollectedInformation; collected != nil && collected.ShippingDetails != nil {
		order.ShippingAddress = addressFromStripe(collected.ShippingDetails.Address, collected.ShippingDetails.Name)
	}

	if session.LineItems != nil {
		items := make(models.OrderItems, 0, len(session.LineItems.Data))
		for _, line := range session.LineItems.Data {
			item := models.OrderItem{
				Name:     line.Description,
				Quantity: line.Quantity,
				Total:    line.AmountTotal,
			}
			if line.Price != nil {
				item.UnitAmount = line.Price.UnitAmount
			}
			items = append(items, item)
		}
		order.Items = items
	}
	if order.Items == nil {
		order.Items = models.OrderItems{}
	}

	if len(session.Metadata) > 0 {
		meta := types.JSONMap{}
		for k, v := range session.Metadata {
			meta[k] = v
		}
		order.Metadata = meta
	}

	return order
}

func paymentStatusFromSession(session *stripe.CheckoutSession) enums.PaymentStatus {
	switch session.PaymentStatus {
	case stripe.CheckoutSessionPaymentStatusPaid, stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		return enums.PaymentStatusPaid
	default:
		return enums.PaymentStatusPending
	}
}

func addressFromStripe(addr *stripe.Address, name string) *types.Address {
	if addr == nil {
		return nil
	}
	converted := &types.Address{
		Name:       name,
		Line1:      addr.Line1,
		Line2:      addr.Line2,
		PostalCode: addr.PostalCode,
		City:       addr.City,
		State:      addr.State,
		Country:    addr.Country,
	}
	if converted.IsZero() {
		return nil
	}
	return converted
}
