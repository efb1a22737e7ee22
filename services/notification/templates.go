package notification

import (
	"bytes"
	"html/template"
)

var checkoutTemplate = template.Must(template.New("checkout").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>{{.HotelName}}</h2>
  <p>{{.Greeting}}</p>
  <p>Your stay at <strong>{{.PropertyName}}</strong> from {{.CheckIn}} to {{.CheckOut}} is now complete.
  {{if .HasInvoice}}Your invoice is attached to this email.{{else}}Your invoice will follow in a separate email.{{end}}</p>
  <p>We would love to hear about your experience:</p>
  <p><a href="{{.ReviewURL}}" style="background: #2f6f4e; color: #fff; padding: 10px 18px; text-decoration: none; border-radius: 4px;">Leave a review</a></p>
  <p style="font-size: 12px; color: #888;">This link is valid until {{.ExpiresOn}} and can be used once.</p>
</body>
</html>`))

var paymentTemplate = template.Must(template.New("payment").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>{{.HotelName}}</h2>
  <p>A payment of <strong>{{.Amount}}</strong> was received for booking #{{.BookingID}}.</p>
  <table cellpadding="4">
    <tr><td>Guest</td><td>{{.GuestName}}</td></tr>
    <tr><td>Property</td><td>{{.PropertyName}}</td></tr>
    <tr><td>Stay</td><td>{{.CheckIn}} to {{.CheckOut}}</td></tr>
    <tr><td>Reference</td><td>{{.Reference}}</td></tr>
    <tr><td>Total paid</td><td>{{.TotalPaid}}</td></tr>
    <tr><td>Payment status</td><td>{{.PaymentStatus}}</td></tr>
  </table>
</body>
</html>`))

type checkoutView struct {
	HotelName    string
	Greeting     string
	PropertyName string
	CheckIn      string
	CheckOut     string
	HasInvoice   bool
	ReviewURL    string
	ExpiresOn    string
}

type paymentView struct {
	HotelName     string
	BookingID     uint
	GuestName     string
	PropertyName  string
	CheckIn       string
	CheckOut      string
	Amount        string
	Reference     string
	TotalPaid     string
	PaymentStatus string
}

func execute(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
