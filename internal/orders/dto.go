package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/scraperite/storefront-backend/pkg/db/models"
	"github.com/scraperite/storefront-backend/pkg/enums"
	"github.com/scraperite/storefront-backend/pkg/types"
)

// View is the API-facing projection of an order row.
type View struct {
	ID              uuid.UUID           `json:"id"`
	StripeSessionID string              `json:"stripeSessionId"`
	CustomerEmail   string              `json:"customerEmail"`
	CustomerName    *string             `json:"customerName,omitempty"`
	ShippingAddress *types.Address      `json:"shippingAddress,omitempty"`
	Items           []ItemView          `json:"items"`
	Subtotal        int64               `json:"subtotal"`
	ShippingCost    int64               `json:"shippingCost"`
	Total           int64               `json:"total"`
	Currency        string              `json:"currency"`
	Status          enums.OrderStatus   `json:"status"`
	PaymentStatus   enums.PaymentStatus `json:"paymentStatus"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// ItemView is one purchased line in an order view.
type ItemView struct {
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
	UnitAmount int64  `json:"unitAmount"`
	Total      int64  `json:"total"`
}

// ListResult wraps a page of orders plus the cursor for the next page.
type ListResult struct {
	Orders     []View `json:"orders"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// NewView maps a persisted order into its API projection.
func NewView(order *models.Order) View {
	items := make([]ItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemView{
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitAmount: item.UnitAmount,
			Total:      item.Total,
		})
	}
	return View{
		ID:              order.ID,
		StripeSessionID: order.StripeSessionID,
		CustomerEmail:   order.CustomerEmail,
		CustomerName:    order.CustomerName,
		ShippingAddress: order.ShippingAddress,
		Items:           items,
		Subtotal:        order.Subtotal,
		ShippingCost:    order.ShippingCost,
		Total:           order.Total,
		Currency:        order.Currency,
		Status:          order.Status,
		PaymentStatus:   order.PaymentStatus,
		CreatedAt:       order.CreatedAt,
	}
}
