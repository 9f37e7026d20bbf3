package products

import (
	"github.com/stripe/stripe-go/v84"

	"github.com/scraperite/storefront-backend/pkg/db/models"
	"github.com/scraperite/storefront-backend/pkg/types"
)

// PriceView is the default price attached to a catalog product.
type PriceView struct {
	ID         string `json:"id"`
	UnitAmount int64  `json:"unitAmount"`
	Currency   string `json:"currency"`
}

// View merges the Stripe product with its localized copy. Title and
// Description come from the metadata table when present, falling back to the
// Stripe product fields.
type View struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Images         []string      `json:"images,omitempty"`
	DefaultPrice   *PriceView    `json:"defaultPrice,omitempty"`
	Features       []string      `json:"features,omitempty"`
	Specifications types.JSONMap `json:"specifications,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// MetadataInput is the payload for creating or replacing localized copy.
type MetadataInput struct {
	ProductID      string        `json:"productId" validate:"required"`
	Lang           string        `json:"lang" validate:"required,oneof=en sv"`
	Title          string        `json:"title" validate:"required,max=300"`
	Description    string        `json:"description" validate:"required"`
	Features       []string      `json:"features"`
	Specifications types.JSONMap `json:"specifications"`
}

func newView(product *stripe.Product, localized *models.ProductMetadata) View {
	view := View{
		ID:          product.ID,
		Name:        product.Name,
		Title:       product.Name,
		Description: product.Description,
		Images:      product.Images,
		Metadata:    product.Metadata,
	}
	if product.DefaultPrice != nil {
		view.DefaultPrice = &PriceView{
			ID:         product.DefaultPrice.ID,
			UnitAmount: product.DefaultPrice.UnitAmount,
			Currency:   string(product.DefaultPrice.Currency),
		}
	}
	if localized != nil {
		view.Title = localized.Title
		view.Description = localized.Description
		view.Features = localized.Features
		view.Specifications = localized.Specifications
	}
	return view
}
