package checkout

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"

	"github.com/scraperite/storefront-backend/pkg/config"
	pkgerrors "github.com/scraperite/storefront-backend/pkg/errors"
	"github.com/scraperite/storefront-backend/pkg/logger"
)

type fakeSessionClient struct {
	params *stripe.CheckoutSessionParams
	err    error
}

func (f *fakeSessionClient) Create(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.CheckoutSession{ID: "cs_test_123"}, nil
}

func (f *fakeSessionClient) FetchSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	return &stripe.CheckoutSession{ID: sessionID}, nil
}

func testCheckoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		Currency:           "sek",
		AllowedCountries:   []string{"SE", "NO", "DK", "FI"},
		ShippingName:       "Standard shipping",
		ShippingAmount:     4900,
		ShippingMinDays:    3,
		ShippingMaxDays:    5,
		PaymentMethodTypes: []string{"card"},
	}
}

func newTestService(t *testing.T, client SessionClient) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Sessions: client,
		Config:   testCheckoutConfig(),
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc
}

func TestCreateSessionBuildsStripeParams(t *testing.T) {
	client := &fakeSessionClient{}
	svc := newTestService(t, client)

	out, err := svc.CreateSession(context.Background(), SessionInput{
		Items: []ItemInput{
			{
				Name:        "Plastic Razor Blades 100-pack",
				Description: "General purpose blades",
				Image:       "https://cdn.example.com/blades.jpg",
				Price:       decimal.NewFromInt(299),
				Quantity:    2,
			},
		},
		SuccessURL: "https://scraperite.se/checkout/success",
		CancelURL:  "https://scraperite.se/checkout/cancel",
		Lang:       "sv",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", out.SessionID)

	params := client.params
	require.NotNil(t, params)
	assert.Equal(t, string(stripe.CheckoutSessionModePayment), *params.Mode)
	assert.Equal(t, "required", *params.BillingAddressCollection)
	assert.Equal(t, "https://scraperite.se/checkout/success?session_id={CHECKOUT_SESSION_ID}", *params.SuccessURL)
	assert.Equal(t, "https://scraperite.se/checkout/cancel", *params.CancelURL)
	assert.Equal(t, map[string]string{"lang": "sv"}, params.Metadata)

	require.Len(t, params.LineItems, 1)
	line := params.LineItems[0]
	assert.EqualValues(t, 2, *line.Quantity)
	assert.Equal(t, "sek", *line.PriceData.Currency)
	assert.EqualValues(t, 29900, *line.PriceData.UnitAmount)
	assert.Equal(t, "Plastic Razor Blades 100-pack", *line.PriceData.ProductData.Name)

	require.Len(t, params.ShippingOptions, 1)
	rate := params.ShippingOptions[0].ShippingRateData
	assert.Equal(t, "fixed_amount", *rate.Type)
	assert.EqualValues(t, 4900, *rate.FixedAmount.Amount)
	assert.EqualValues(t, 3, *rate.DeliveryEstimate.Minimum.Value)
	assert.EqualValues(t, 5, *rate.DeliveryEstimate.Maximum.Value)
}

func TestCreateSessionRejectsEmptyCart(t *testing.T) {
	svc := newTestService(t, &fakeSessionClient{})

	_, err := svc.CreateSession(context.Background(), SessionInput{
		SuccessURL: "https://scraperite.se/s",
		CancelURL:  "https://scraperite.se/c",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "no items provided", typed.Message())
}

func TestCreateSessionOmitsMetadataWithoutLang(t *testing.T) {
	client := &fakeSessionClient{}
	svc := newTestService(t, client)

	_, err := svc.CreateSession(context.Background(), SessionInput{
		Items:      []ItemInput{{Name: "Blade", Price: decimal.NewFromFloat(49.50), Quantity: 1}},
		SuccessURL: "https://scraperite.se/s",
		CancelURL:  "https://scraperite.se/c",
	})
	require.NoError(t, err)
	assert.Nil(t, client.params.Metadata)
	assert.EqualValues(t, 4950, *client.params.LineItems[0].PriceData.UnitAmount)
}

func TestToMinorUnitsRounding(t *testing.T) {
	assert.EqualValues(t, 29900, toMinorUnits(decimal.NewFromInt(299)))
	assert.EqualValues(t, 29950, toMinorUnits(decimal.RequireFromString("299.50")))
	assert.EqualValues(t, 29901, toMinorUnits(decimal.RequireFromString("299.005")))
}
