package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/scraperite/storefront-backend/pkg/db/models"
	"github.com/scraperite/storefront-backend/pkg/enums"
	"github.com/scraperite/storefront-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  stripe_session_id TEXT NOT NULL UNIQUE,
  stripe_payment_intent_id TEXT,
  customer_email TEXT NOT NULL,
  customer_name TEXT,
  shipping_address TEXT,
  billing_address TEXT,
  items TEXT NOT NULL,
  subtotal INTEGER NOT NULL,
  shipping_cost INTEGER NOT NULL DEFAULT 0,
  total INTEGER NOT NULL,
  currency TEXT NOT NULL DEFAULT 'sek',
  status TEXT NOT NULL DEFAULT 'processing',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  admin_email_sent INTEGER NOT NULL DEFAULT 0,
  customer_email_sent INTEGER NOT NULL DEFAULT 0,
  metadata TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	return db
}

func newOrder(sessionID, email string) *models.Order {
	intentID := "pi_" + sessionID
	return &models.Order{
		ID:                    uuid.New(),
		StripeSessionID:       sessionID,
		StripePaymentIntentID: &intentID,
		CustomerEmail:         email,
		Items: models.OrderItems{
			{Name: "Plastic Razor Blades 100-pack", Quantity: 2, UnitAmount: 29900, Total: 59800},
		},
		Subtotal:      59800,
		ShippingCost:  4900,
		Total:         64700,
		Currency:      "sek",
		Status:        enums.OrderStatusProcessing,
		PaymentStatus: enums.PaymentStatusPaid,
	}
}

func TestCreateIdempotent(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	first := newOrder("cs_test_1", "anna@example.se")
	stored, created, err := repo.CreateIdempotent(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, first.ID, stored.ID)

	// webhook redelivery carries the same session id
	replay := newOrder("cs_test_1", "anna@example.se")
	stored, created, err = repo.CreateIdempotent(ctx, replay)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, stored.ID, "replay must resolve to the original row")

	var count int64
	require.NoError(t, repo.(*repository).db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFindByStripeSessionID(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	order := newOrder("cs_test_2", "anna@example.se")
	_, _, err := repo.CreateIdempotent(ctx, order)
	require.NoError(t, err)

	found, err := repo.FindByStripeSessionID(ctx, "cs_test_2")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = repo.FindByStripeSessionID(ctx, "cs_missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindByPaymentIntentID(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	order := newOrder("cs_test_3", "anna@example.se")
	_, _, err := repo.CreateIdempotent(ctx, order)
	require.NoError(t, err)

	found, err := repo.FindByPaymentIntentID(ctx, "pi_cs_test_3")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
}

func TestUpdatePaymentStatus(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	order := newOrder("cs_test_4", "anna@example.se")
	order.PaymentStatus = enums.PaymentStatusPending
	_, _, err := repo.CreateIdempotent(ctx, order)
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePaymentStatus(ctx, order.ID, enums.PaymentStatusPaid))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, found.PaymentStatus)

	err = repo.UpdatePaymentStatus(ctx, uuid.New(), enums.PaymentStatusPaid)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCancelForFailedPayment(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	order := newOrder("cs_test_6", "anna@example.se")
	order.PaymentStatus = enums.PaymentStatusPending
	_, _, err := repo.CreateIdempotent(ctx, order)
	require.NoError(t, err)

	require.NoError(t, repo.CancelForFailedPayment(ctx, order.ID))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusFailed, found.PaymentStatus)
	assert.Equal(t, enums.OrderStatusCancelled, found.Status)

	err = repo.CancelForFailedPayment(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMarkEmailFlags(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	order := newOrder("cs_test_5", "anna@example.se")
	_, _, err := repo.CreateIdempotent(ctx, order)
	require.NoError(t, err)

	require.NoError(t, repo.MarkAdminEmailSent(ctx, order.ID))
	require.NoError(t, repo.MarkCustomerEmailSent(ctx, order.ID))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, found.AdminEmailSent)
	assert.True(t, found.CustomerEmailSent)
}

func TestListByCustomerEmailPagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		order := newOrder("cs_page_"+uuid.NewString(), "anna@example.se")
		order.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(order).Error)
	}
	other := newOrder("cs_other", "bob@example.com")
	require.NoError(t, db.Create(other).Error)

	page, next, err := repo.ListByCustomerEmail(ctx, "anna@example.se", pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotEmpty(t, next)
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt), "newest first")

	rest, next, err := repo.ListByCustomerEmail(ctx, "anna@example.se", pagination.Params{Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Empty(t, next)

	for _, row := range append(page, rest...) {
		assert.Equal(t, "anna@example.se", row.CustomerEmail)
	}
}
