package checkout

import "github.com/shopspring/decimal"

// ItemInput is one cart line submitted to checkout. Price is in major
// currency units (e.g. 299 or 299.50 SEK).
type ItemInput struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Quantity    int64           `json:"quantity" validate:"required,gt=0"`
}

// SessionInput is the request body for creating a checkout session. Lang is
// stamped into the session metadata so order emails use the right locale.
type SessionInput struct {
	Items      []ItemInput `json:"items" validate:"dive"`
	SuccessURL string      `json:"successUrl" validate:"required,url"`
	CancelURL  string      `json:"cancelUrl" validate:"required,url"`
	Lang       string      `json:"lang" validate:"omitempty,oneof=en sv"`
}

// SessionOutput carries the created session id back to the storefront client.
type SessionOutput struct {
	SessionID string `json:"sessionId"`
}
