package mail

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/scraperite/storefront-backend/pkg/db/models"
	"github.com/scraperite/storefront-backend/pkg/enums"
	pkgerrors "github.com/scraperite/storefront-backend/pkg/errors"
)

// OrderEmailData is the rendering context for order notification templates.
type OrderEmailData struct {
	OrderID       string
	CustomerName  string
	CustomerEmail string
	Items         []OrderEmailItem
	Subtotal      string
	Shipping      string
	Total         string
}

type OrderEmailItem struct {
	Name     string
	Quantity int64
	Total    string
}

var adminOrderTemplate = template.Must(template.New("admin_order").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>New order received</h2>
  <p>Order <strong>{{.OrderID}}</strong> from {{if .CustomerName}}{{.CustomerName}} ({{.CustomerEmail}}){{else}}{{.CustomerEmail}}{{end}}.</p>
  <table cellpadding="6" cellspacing="0" border="0">
    <tr><th align="left">Item</th><th align="right">Qty</th><th align="right">Total</th></tr>
    {{range .Items}}<tr><td>{{.Name}}</td><td align="right">{{.Quantity}}</td><td align="right">{{.Total}}</td></tr>
    {{end}}
  </table>
  <p>Subtotal: {{.Subtotal}}<br>Shipping: {{.Shipping}}<br><strong>Total: {{.Total}}</strong></p>
</body>
</html>`))

var customerOrderTemplateEN = template.Must(template.New("customer_order_en").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>Thank you for your order{{if .CustomerName}}, {{.CustomerName}}{{end}}!</h2>
  <p>We have received your order <strong>{{.OrderID}}</strong> and are getting it ready for shipment.</p>
  <table cellpadding="6" cellspacing="0" border="0">
    <tr><th align="left">Item</th><th align="right">Qty</th><th align="right">Total</th></tr>
    {{range .Items}}<tr><td>{{.Name}}</td><td align="right">{{.Quantity}}</td><td align="right">{{.Total}}</td></tr>
    {{end}}
  </table>
  <p>Subtotal: {{.Subtotal}}<br>Shipping: {{.Shipping}}<br><strong>Total: {{.Total}}</strong></p>
  <p>You will receive another email when your order ships.</p>
</body>
</html>`))

var customerOrderTemplateSV = template.Must(template.New("customer_order_sv").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>Tack för din beställning{{if .CustomerName}}, {{.CustomerName}}{{end}}!</h2>
  <p>Vi har tagit emot din beställning <strong>{{.OrderID}}</strong> och förbereder den för leverans.</p>
  <table cellpadding="6" cellspacing="0" border="0">
    <tr><th align="left">Produkt</th><th align="right">Antal</th><th align="right">Summa</th></tr>
    {{range .Items}}<tr><td>{{.Name}}</td><td align="right">{{.Quantity}}</td><td align="right">{{.Total}}</td></tr>
    {{end}}
  </table>
  <p>Delsumma: {{.Subtotal}}<br>Frakt: {{.Shipping}}<br><strong>Totalt: {{.Total}}</strong></p>
  <p>Du får ett nytt mejl när din beställning har skickats.</p>
</body>
</html>`))

// NewOrderEmailData maps a stored order into the template context.
func NewOrderEmailData(order *models.Order) OrderEmailData {
	data := OrderEmailData{
		OrderID:       order.ID.String(),
		CustomerEmail: order.CustomerEmail,
		Subtotal:      formatAmount(order.Subtotal, order.Currency),
		Shipping:      formatAmount(order.ShippingCost, order.Currency),
		Total:         formatAmount(order.Total, order.Currency),
	}
	if order.CustomerName != nil {
		data.CustomerName = *order.CustomerName
	}
	for _, item := range order.Items {
		data.Items = append(data.Items, OrderEmailItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Total:    formatAmount(item.Total, order.Currency),
		})
	}
	return data
}

// RenderAdminOrderEmail produces the internal new-order alert.
func RenderAdminOrderEmail(data OrderEmailData) (subject, html, text string, err error) {
	var buf strings.Builder
	if err := adminOrderTemplate.Execute(&buf, data); err != nil {
		return "", "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render admin order email")
	}
	subject = fmt.Sprintf("New order %s", data.OrderID)
	text = fmt.Sprintf("New order %s from %s. Total: %s", data.OrderID, data.CustomerEmail, data.Total)
	return subject, buf.String(), text, nil
}

// RenderCustomerOrderEmail produces the confirmation in the customer's language.
func RenderCustomerOrderEmail(data OrderEmailData, lang enums.Language) (subject, html, text string, err error) {
	tmpl := customerOrderTemplateEN
	subject = fmt.Sprintf("Order confirmation %s", data.OrderID)
	text = fmt.Sprintf("Thank you for your order %s. Total: %s", data.OrderID, data.Total)
	if lang == enums.LanguageSwedish {
		tmpl = customerOrderTemplateSV
		subject = fmt.Sprintf("Orderbekräftelse %s", data.OrderID)
		text = fmt.Sprintf("Tack för din beställning %s. Totalt: %s", data.OrderID, data.Total)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render customer order email")
	}
	return subject, buf.String(), text, nil
}

func formatAmount(minor int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", minor/100, minor%100, strings.ToUpper(currency))
}
