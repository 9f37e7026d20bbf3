package mail

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scraperite/storefront-backend/pkg/db/models"
	"github.com/scraperite/storefront-backend/pkg/enums"
)

func sampleOrder() *models.Order {
	name := "Anna Andersson"
	return &models.Order{
		ID:            uuid.New(),
		CustomerEmail: "anna@example.se",
		CustomerName:  &name,
		Items: models.OrderItems{
			{Name: "Plastic Razor Blades 100-pack", Quantity: 2, UnitAmount: 29900, Total: 59800},
		},
		Subtotal:     59800,
		ShippingCost: 4900,
		Total:        64700,
		Currency:     "sek",
	}
}

func TestRenderAdminOrderEmail(t *testing.T) {
	order := sampleOrder()
	data := NewOrderEmailData(order)

	subject, html, text, err := RenderAdminOrderEmail(data)
	require.NoError(t, err)

	assert.Contains(t, subject, order.ID.String())
	assert.Contains(t, html, "New order received")
	assert.Contains(t, html, "Plastic Razor Blades 100-pack")
	assert.Contains(t, html, "647.00 SEK")
	assert.Contains(t, text, "anna@example.se")
}

func TestRenderCustomerOrderEmailByLanguage(t *testing.T) {
	data := NewOrderEmailData(sampleOrder())

	subject, html, _, err := RenderCustomerOrderEmail(data, enums.LanguageSwedish)
	require.NoError(t, err)
	assert.Contains(t, subject, "Orderbekräftelse")
	assert.Contains(t, html, "Tack för din beställning")
	assert.Contains(t, html, "Frakt: 49.00 SEK")

	subject, html, _, err = RenderCustomerOrderEmail(data, enums.LanguageEnglish)
	require.NoError(t, err)
	assert.Contains(t, subject, "Order confirmation")
	assert.Contains(t, html, "Thank you for your order")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "299.00 SEK", formatAmount(29900, "sek"))
	assert.Equal(t, "0.05 SEK", formatAmount(5, "sek"))
}
