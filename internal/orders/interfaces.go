package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scraperite/storefront-backend/pkg/db/models"
	"github.com/scraperite/storefront-backend/pkg/enums"
	"github.com/scraperite/storefront-backend/pkg/pagination"
)

// Repository defines persistence operations for storefront orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// CreateIdempotent inserts the order unless a row with the same Stripe
	// session id already exists. The second return reports whether a row
	// was actually inserted.
	CreateIdempotent(ctx context.Context, order *models.Order) (*models.Order, bool, error)

	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByStripeSessionID(ctx context.Context, sessionID string) (*models.Order, error)
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error)
	ListByCustomerEmail(ctx context.Context, email string, params pagination.Params) ([]models.Order, string, error)

	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) error

	// CancelForFailedPayment marks the payment failed and cancels the order
	// in a single update.
	CancelForFailedPayment(ctx context.Context, id uuid.UUID) error

	MarkAdminEmailSent(ctx context.Context, id uuid.UUID) error
	MarkCustomerEmailSent(ctx context.Context, id uuid.UUID) error
}
