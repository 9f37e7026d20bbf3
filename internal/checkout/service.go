package checkout

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/scraperite/storefront-backend/pkg/config"
	pkgerrors "github.com/scraperite/storefront-backend/pkg/errors"
	"github.com/scraperite/storefront-backend/pkg/logger"
)

var minorUnitsFactor = decimal.NewFromInt(100)

// Service builds Stripe checkout sessions from submitted cart lines.
type Service struct {
	sessions SessionClient
	cfg      config.CheckoutConfig
	logg     *logger.Logger
}

type ServiceParams struct {
	Sessions SessionClient
	Config   config.CheckoutConfig
	Logger   *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stripe session client required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		sessions: params.Sessions,
		cfg:      params.Config,
		logg:     params.Logger,
	}, nil
}

// CreateSession starts a hosted checkout for the submitted items.
func (s *Service) CreateSession(ctx context.Context, input SessionInput) (*SessionOutput, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no items provided")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes:       stripe.StringSlice(s.cfg.PaymentMethodTypes),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		SuccessURL:               stripe.String(input.SuccessURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:                stripe.String(input.CancelURL),
		LineItems:                s.buildLineItems(input.Items),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(s.cfg.AllowedCountries),
		},
		ShippingOptions: s.buildShippingOptions(),
	}

	if input.Lang != "" {
		params.Metadata = map[string]string{"lang": input.Lang}
	}

	session, err := s.sessions.Create(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}

	s.logg.Info(s.logg.WithCheckoutSession(ctx, session.ID), "checkout session created")
	return &SessionOutput{SessionID: session.ID}, nil
}

func (s *Service) buildLineItems(items []ItemInput) []*stripe.CheckoutSessionLineItemParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Description != "" {
			productData.Description = stripe.String(item.Description)
		}
		if item.Image != "" {
			productData.Images = stripe.StringSlice([]string{item.Image})
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(s.cfg.Currency),
				ProductData: productData,
				UnitAmount:  stripe.Int64(toMinorUnits(item.Price)),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}
	return lineItems
}

func (s *Service) buildShippingOptions() []*stripe.CheckoutSessionShippingOptionParams {
	return []*stripe.CheckoutSessionShippingOptionParams{
		{
			ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
				Type: stripe.String("fixed_amount"),
				FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
					Amount:   stripe.Int64(s.cfg.ShippingAmount),
					Currency: stripe.String(s.cfg.Currency),
				},
				DisplayName: stripe.String(s.cfg.ShippingName),
				DeliveryEstimate: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateParams{
					Minimum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMinimumParams{
						Unit:  stripe.String("business_day"),
						Value: stripe.Int64(s.cfg.ShippingMinDays),
					},
					Maximum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMaximumParams{
						Unit:  stripe.String("business_day"),
						Value: stripe.Int64(s.cfg.ShippingMaxDays),
					},
				},
			},
		},
	}
}

// toMinorUnits converts a major-unit price to minor units, rounding halves up
// so 299.005 becomes 29901 rather than drifting on float math.
func toMinorUnits(price decimal.Decimal) int64 {
	return price.Mul(minorUnitsFactor).Round(0).IntPart()
}
