package notifications

import (
	"context"

	"github.com/scraperite/storefront-backend/internal/mail"
	"github.com/scraperite/storefront-backend/internal/orders"
	"github.com/scraperite/storefront-backend/pkg/config"
	"github.com/scraperite/storefront-backend/pkg/db/models"
	"github.com/scraperite/storefront-backend/pkg/enums"
	pkgerrors "github.com/scraperite/storefront-backend/pkg/errors"
	"github.com/scraperite/storefront-backend/pkg/logger"
)

type sender interface {
	Send(ctx context.Context, msg mail.Message) mail.Result
}

// Service emails both parties about a recorded order. The per-recipient sent
// flags on the order row are consulted before sending and updated after, so a
// redelivered webhook never double-notifies.
type Service struct {
	dispatcher sender
	repo       orders.Repository
	cfg        config.MailConfig
	logg       *logger.Logger
}

type ServiceParams struct {
	Dispatcher sender
	OrdersRepo orders.Repository
	Config     config.MailConfig
	Logger     *logger.Logger
}

// Outcome reports which notifications went out for one order.
type Outcome struct {
	Admin    *mail.Result `json:"admin,omitempty"`
	Customer *mail.Result `json:"customer,omitempty"`
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Dispatcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "mail dispatcher required")
	}
	if params.OrdersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repository required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		dispatcher: params.Dispatcher,
		repo:       params.OrdersRepo,
		cfg:        params.Config,
		logg:       params.Logger,
	}, nil
}

// NotifyOrder sends the admin alert and customer confirmation for an order.
// Delivery failures are reported in the outcome, never returned as errors;
// the order is already persisted and the webhook must not be retried for a
// mail problem.
func (s *Service) NotifyOrder(ctx context.Context, order *models.Order) Outcome {
	ctx = s.logg.WithCheckoutSession(ctx, order.StripeSessionID)
	data := mail.NewOrderEmailData(order)

	var outcome Outcome

	if s.cfg.AdminEmail != "" && !order.AdminEmailSent {
		outcome.Admin = s.sendAdmin(ctx, order, data)
	}

	if order.CustomerEmail != "" && !order.CustomerEmailSent {
		outcome.Customer = s.sendCustomer(ctx, order, data)
	}

	return outcome
}

func (s *Service) sendAdmin(ctx context.Context, order *models.Order, data mail.OrderEmailData) *mail.Result {
	subject, html, text, err := mail.RenderAdminOrderEmail(data)
	if err != nil {
		s.logg.Error(ctx, "render admin order email", err)
		return &mail.Result{Success: false, Error: err.Error()}
	}

	result := s.dispatcher.Send(ctx, mail.Message{
		To:      s.cfg.AdminEmail,
		Subject: subject,
		HTML:    html,
		Text:    text,
	})
	if result.Success {
		if err := s.repo.MarkAdminEmailSent(ctx, order.ID); err != nil {
			s.logg.Error(ctx, "mark admin email sent", err)
		}
	}
	return &result
}

func (s *Service) sendCustomer(ctx context.Context, order *models.Order, data mail.OrderEmailData) *mail.Result {
	subject, html, text, err := mail.RenderCustomerOrderEmail(data, orderLanguage(order))
	if err != nil {
		s.logg.Error(ctx, "render customer order email", err)
		return &mail.Result{Success: false, Error: err.Error()}
	}

	result := s.dispatcher.Send(ctx, mail.Message{
		To:      order.CustomerEmail,
		Subject: subject,
		HTML:    html,
		Text:    text,
	})
	if result.Success {
		if err := s.repo.MarkCustomerEmailSent(ctx, order.ID); err != nil {
			s.logg.Error(ctx, "mark customer email sent", err)
		}
	}
	return &result
}

func orderLanguage(order *models.Order) enums.Language {
	if order.Metadata == nil {
		return enums.LanguageEnglish
	}
	raw, _ := order.Metadata["lang"].(string)
	return enums.Language(raw).OrDefault()
}
