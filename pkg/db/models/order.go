package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/scraperite/storefront-backend/pkg/enums"
	"github.com/scraperite/storefront-backend/pkg/types"
)

// Order is the persisted record of one completed Stripe checkout session.
// StripeSessionID carries a unique constraint; it is the idempotency key that
// keeps webhook redelivery from inserting duplicates.
type Order struct {
	ID                    uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID                *uuid.UUID          `gorm:"column:user_id;type:uuid"`
	StripeSessionID       string              `gorm:"column:stripe_session_id;not null;uniqueIndex:uq_orders_stripe_session_id"`
	StripePaymentIntentID *string             `gorm:"column:stripe_payment_intent_id"`
	CustomerEmail         string              `gorm:"column:customer_email;not null"`
	CustomerName          *string             `gorm:"column:customer_name"`
	ShippingAddress       *types.Address      `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	BillingAddress        *types.Address      `gorm:"column:billing_address;type:jsonb;serializer:json"`
	Items                 OrderItems          `gorm:"column:items;type:jsonb;serializer:json;not null"`
	Subtotal              int64               `gorm:"column:subtotal;not null"`
	ShippingCost          int64               `gorm:"column:shipping_cost;not null;default:0"`
	Total                 int64               `gorm:"column:total;not null"`
	Currency              string              `gorm:"column:currency;not null;default:'sek'"`
	Status                enums.OrderStatus   `gorm:"column:status;not null;default:'processing'"`
	PaymentStatus         enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'"`
	AdminEmailSent        bool                `gorm:"column:admin_email_sent;not null;default:false"`
	CustomerEmailSent     bool                `gorm:"column:customer_email_sent;not null;default:false"`
	Metadata              types.JSONMap       `gorm:"column:metadata;type:jsonb;serializer:json"`
	CreatedAt             time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is the denormalized snapshot of one purchased line item.
type OrderItem struct {
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
	UnitAmount int64  `json:"unitAmount"`
	Total      int64  `json:"total"`
}

// OrderItems is stored as a jsonb array on the order row.
type OrderItems []OrderItem
