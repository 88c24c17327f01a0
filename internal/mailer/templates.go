package mailer

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/steadybroo69-afk/gym/internal/domain"
)

var orderConfirmationTmpl = template.Must(template.New("order").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; background: #0a0a0a; color: #fff; padding: 40px 20px; margin: 0;">
  <div style="max-width: 600px; margin: 0 auto; background: #111; border-radius: 12px; padding: 40px;">
    <div style="text-align: center; margin-bottom: 32px;">
      <h1 style="font-size: 32px; font-weight: 800; letter-spacing: 4px; margin: 0;">RAZE</h1>
      <p style="color: #4A9FF5; font-size: 12px; letter-spacing: 2px; margin-top: 4px;">BUILT BY DISCIPLINE</p>
    </div>
    <h2 style="font-size: 24px; margin: 0 0 8px 0;">Order Confirmed</h2>
    <p style="color: #888; margin: 0 0 24px 0;">Thanks for your order, {{.FirstName}}!</p>
    <div style="background: #1a1a1a; border-radius: 8px; padding: 20px; margin-bottom: 24px;">
      <p style="margin: 0 0 8px 0; color: #888; font-size: 14px;">Order Number</p>
      <p style="margin: 0; font-size: 18px; font-weight: 600;">{{.OrderNumber}}</p>
    </div>
    <table style="width: 100%; border-collapse: collapse; margin-bottom: 24px;">
      <thead>
        <tr style="background: #1a1a1a;">
          <th style="padding: 12px; text-align: left;">Item</th>
          <th style="padding: 12px; text-align: left;">Variant</th>
          <th style="padding: 12px; text-align: left;">Qty</th>
          <th style="padding: 12px; text-align: left;">Price</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}<tr>
          <td style="padding: 12px; border-bottom: 1px solid #333;">{{.Name}}</td>
          <td style="padding: 12px; border-bottom: 1px solid #333;">{{.Variant}}</td>
          <td style="padding: 12px; border-bottom: 1px solid #333;">{{.Quantity}}</td>
          <td style="padding: 12px; border-bottom: 1px solid #333;">{{.Price}}</td>
        </tr>{{end}}
      </tbody>
    </table>
    <div style="border-top: 1px solid #333; padding-top: 16px;">
      <p style="color: #888; margin: 0 0 8px 0;">Subtotal: {{.Subtotal}}</p>
      {{if .Discount}}<p style="color: #4A9FF5; margin: 0 0 8px 0;">Discount: -{{.Discount}}</p>{{end}}
      <p style="color: #888; margin: 0 0 8px 0;">Shipping: {{.ShippingCost}}</p>
      <p style="font-size: 18px; font-weight: 600; margin: 12px 0 0 0;">Total: {{.Total}}</p>
    </div>
    <div style="margin-top: 32px; padding: 20px; background: #1a1a1a; border-radius: 8px;">
      <h3 style="margin: 0 0 12px 0; font-size: 16px;">Shipping Address</h3>
      <p style="margin: 0; color: #888; line-height: 1.6;">
        {{.FirstName}} {{.LastName}}<br>
        {{.AddressLine1}}<br>
        {{.City}}, {{.State}} {{.PostalCode}}<br>
        {{.Country}}
      </p>
    </div>
    <p style="text-align: center; color: #666; font-size: 14px; margin-top: 32px;">
      We'll notify you when your order ships.<br>
      Questions? Reply to this email.
    </p>
  </div>
</body>
</html>`))

var waitlistTmpl = template.Must(template.New("waitlist").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; background: #0a0a0a; color: #ffffff; padding: 40px;">
  <h1 style="color: #4A9FF5; margin-bottom: 20px;">You're In!</h1>
  <p style="font-size: 16px; line-height: 1.6;">
    You've secured spot <strong>#{{.Position}}</strong> on the waitlist for the next drop.
  </p>
  <div style="background: #1a1a1a; padding: 20px; border-radius: 10px; margin: 20px 0;">
    <p style="margin: 0 0 10px;"><strong>Your Item:</strong> {{.ProductName}} - {{.Variant}}</p>
    <p style="margin: 0 0 10px;"><strong>Size:</strong> {{.Size}}</p>
    <p style="margin: 0;"><strong>Access Code:</strong> <span style="color: #4A9FF5; font-family: monospace;">{{.AccessCode}}</span></p>
  </div>
  <p style="font-size: 14px; color: #888;">
    Save this code — you'll need it at checkout on drop day.
  </p>
  <p style="font-size: 14px; margin-top: 30px;">— Team RAZE</p>
</div>`))

type orderEmailItem struct {
	Name     string
	Variant  string
	Quantity int
	Price    string
}

type orderEmailData struct {
	OrderNumber  string
	FirstName    string
	LastName     string
	AddressLine1 string
	City         string
	State        string
	PostalCode   string
	Country      string
	Items        []orderEmailItem
	Subtotal     string
	Discount     string
	ShippingCost string
	Total        string
}

// OrderConfirmation renders the confirmation message for a confirmed order.
func OrderConfirmation(from string, order domain.Order) Message {
	data := orderEmailData{
		OrderNumber:  order.OrderNumber,
		FirstName:    order.Shipping.FirstName,
		LastName:     order.Shipping.LastName,
		AddressLine1: order.Shipping.AddressLine1,
		City:         order.Shipping.City,
		State:        order.Shipping.State,
		PostalCode:   order.Shipping.PostalCode,
		Country:      order.Shipping.Country,
		Subtotal:     domain.NewMoney(order.Subtotal).Display(),
		ShippingCost: domain.NewMoney(order.ShippingCost).Display(),
		Total:        domain.NewMoney(order.Total).Display(),
	}
	if order.Discount.IsPositive() {
		data.Discount = domain.NewMoney(order.Discount).Display()
	}
	for _, item := range order.Items {
		data.Items = append(data.Items, orderEmailItem{
			Name:     item.ProductName,
			Variant:  item.Color + " / " + item.Size,
			Quantity: item.Quantity,
			Price:    domain.NewMoney(item.Price).Display(),
		})
	}

	var buf strings.Builder
	_ = orderConfirmationTmpl.Execute(&buf, data)

	return Message{
		From:    from,
		To:      []string{order.Shipping.Email},
		Subject: fmt.Sprintf("Order Confirmed - %s", order.OrderNumber),
		HTML:    buf.String(),
	}
}

// WaitlistConfirmation renders the waitlist welcome message.
func WaitlistConfirmation(from string, entry domain.WaitlistEntry) Message {
	var buf strings.Builder
	_ = waitlistTmpl.Execute(&buf, entry)

	return Message{
		From:    from,
		To:      []string{entry.Email},
		Subject: "You're on the RAZE Waitlist!",
		HTML:    buf.String(),
	}
}
