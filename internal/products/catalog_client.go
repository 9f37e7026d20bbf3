package products

import (
	"context"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/product"

	pkgstripe "github.com/scraperite/storefront-backend/pkg/stripe"
)

// CatalogClient exposes the subset of Stripe catalog reads the storefront needs.
type CatalogClient interface {
	ListProducts(ctx context.Context) ([]*stripe.Product, error)
	GetProduct(ctx context.Context, id string) (*stripe.Product, error)
}

type catalogClientWrapper struct{}

// NewCatalogClient wraps the initialized Stripe client so the product service
// can be tested against a fake.
func NewCatalogClient(api *pkgstripe.Client) CatalogClient {
	if api == nil {
		return nil
	}
	return &catalogClientWrapper{}
}

func (w *catalogClientWrapper) ListProducts(ctx context.Context) ([]*stripe.Product, error) {
	params := &stripe.ProductListParams{
		Active: stripe.Bool(true),
	}
	params.Context = ctx
	params.AddExpand("data.default_price")

	var result []*stripe.Product
	iter := product.List(params)
	for iter.Next() {
		result = append(result, iter.Product())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (w *catalogClientWrapper) GetProduct(ctx context.Context, id string) (*stripe.Product, error) {
	params := &stripe.ProductParams{}
	params.Context = ctx
	params.AddExpand("default_price")
	return product.Get(id, params)
}
