package notification

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"villa-booking/logger"
	reviewModel "villa-booking/models/review"
	settingModel "villa-booking/models/setting"
	staffModel "villa-booking/models/staff"
	"villa-booking/services/document"
	"villa-booking/services/greeting"
	"villa-booking/services/mail"
	"villa-booking/services/property"
	"villa-booking/services/settings"
	"villa-booking/utils"
)

// TokenIssuer creates review tokens for a booking
type TokenIssuer interface {
	Issue(ctx context.Context, bookingID uint) (*reviewModel.ReviewToken, error)
}

// Dispatcher sends guest and staff emails. Its methods report success as a
// boolean and never return errors.
type Dispatcher struct {
	Directory  Directory
	Properties property.Resolver
	Tokens     TokenIssuer
	Mailer     mail.Mailer
	Settings   settings.Source
	Greeter    greeting.Greeter

	BaseURL        string
	HotelName      string
	CurrencySymbol string
	Timeout        time.Duration
}

// SendCheckoutConfirmation emails the guest a thank-you with a review link
// and the invoice document when one is given.
func (d *Dispatcher) SendCheckoutConfirmation(ctx context.Context, bookingID uint, doc *document.Document) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("Checkout email for booking %d panicked", bookingID), fmt.Errorf("%v", r))
			ok = false
		}
	}()

	b, err := d.Directory.FindBooking(ctx, bookingID)
	if err != nil {
		logger.Error(fmt.Sprintf("Checkout email: booking %d lookup failed", bookingID), err)
		return false
	}
	if strings.TrimSpace(b.GuestEmail) == "" {
		logger.Warning(fmt.Sprintf("Checkout email: booking %d has no guest email", bookingID))
		return false
	}

	ref := property.RefOf(b)
	propertyName := d.propertyName(ctx, ref)
	hotel := d.Settings.Get(ctx, settingModel.KeyHotelName, d.HotelName)

	token, err := d.Tokens.Issue(ctx, b.ID)
	if err != nil {
		logger.Error(fmt.Sprintf("Checkout email: review token for booking %d failed", bookingID), err)
		return false
	}

	greet := greeting.Fallback(greeting.Stay{GuestName: b.GuestName, PropertyName: propertyName, HotelName: hotel})
	if d.Greeter != nil {
		greet = d.Greeter.Greeting(ctx, greeting.Stay{
			GuestName:    b.GuestName,
			PropertyName: propertyName,
			HotelName:    hotel,
			Nights:       utils.NightsBetween(b.CheckInDate, b.CheckOutDate),
		})
	}

	html, err := execute(checkoutTemplate, checkoutView{
		HotelName:    hotel,
		Greeting:     greet,
		PropertyName: propertyName,
		CheckIn:      document.FormatDate(b.CheckInDate),
		CheckOut:     document.FormatDate(b.CheckOutDate),
		HasInvoice:   doc != nil && len(doc.Bytes) > 0,
		ReviewURL:    ReviewLink(d.Settings.Get(ctx, settingModel.KeyAppBaseURL, d.BaseURL), token.Token, ref),
		ExpiresOn:    document.FormatDate(token.ExpiresAt),
	})
	if err != nil {
		logger.Error("Checkout email: template failed", err)
		return false
	}

	msg := mail.Message{
		To:      []string{b.GuestEmail},
		Subject: fmt.Sprintf("Thank you for staying at %s", propertyName),
		HTML:    html,
	}
	if doc != nil && len(doc.Bytes) > 0 {
		msg.Attachments = []mail.Attachment{{Filename: doc.Filename, ContentType: "application/pdf", Data: doc.Bytes}}
	}

	return d.send(ctx, msg, fmt.Sprintf("checkout confirmation for booking %d", bookingID))
}

// SendPaymentConfirmation notifies the guest and every active staff member
// assigned to the booking's property.
func (d *Dispatcher) SendPaymentConfirmation(ctx context.Context, bookingID uint, amount float64, reference string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("Payment email for booking %d panicked", bookingID), fmt.Errorf("%v", r))
			ok = false
		}
	}()

	b, err := d.Directory.FindBooking(ctx, bookingID)
	if err != nil {
		logger.Error(fmt.Sprintf("Payment email: booking %d lookup failed", bookingID), err)
		return false
	}

	ref := property.RefOf(b)
	staff, err := d.Directory.FindActiveStaff(ctx)
	if err != nil {
		logger.Warning(fmt.Sprintf("Payment email: staff lookup failed, notifying guest only: %v", err))
	}

	to := Recipients(b.GuestEmail, staff, ref.Key())
	if len(to) == 0 {
		logger.Warning(fmt.Sprintf("Payment email: booking %d has no recipients", bookingID))
		return false
	}

	html, err := execute(paymentTemplate, paymentView{
		HotelName:     d.Settings.Get(ctx, settingModel.KeyHotelName, d.HotelName),
		BookingID:     b.ID,
		GuestName:     b.GuestName,
		PropertyName:  d.propertyName(ctx, ref),
		CheckIn:       document.FormatDate(b.CheckInDate),
		CheckOut:      document.FormatDate(b.CheckOutDate),
		Amount:        document.FormatCurrency(d.CurrencySymbol, amount),
		Reference:     reference,
		TotalPaid:     document.FormatCurrency(d.CurrencySymbol, b.Paid()),
		PaymentStatus: string(b.PaymentStatus),
	})
	if err != nil {
		logger.Error("Payment email: template failed", err)
		return false
	}

	return d.send(ctx, mail.Message{
		To:      to,
		Subject: fmt.Sprintf("Payment received for booking #%d", b.ID),
		HTML:    html,
	}, fmt.Sprintf("payment confirmation for booking %d", bookingID))
}

func (d *Dispatcher) send(ctx context.Context, msg mail.Message, what string) bool {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	id, err := d.Mailer.Send(ctx, msg)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send %s", what), err)
		return false
	}
	logger.Success(fmt.Sprintf("Sent %s (%s)", what, id))
	return true
}

func (d *Dispatcher) propertyName(ctx context.Context, ref property.Ref) string {
	if d.Properties == nil {
		return d.HotelName
	}
	p, err := d.Properties.Resolve(ctx, ref)
	if err != nil {
		logger.Warning(fmt.Sprintf("Property %s not resolved for email: %v", ref.Key(), err))
		return d.HotelName
	}
	return p.DisplayName
}

// ReviewLink builds the guest-facing review URL for a token.
func ReviewLink(baseURL, token string, ref property.Ref) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("property", strconv.FormatUint(uint64(ref.ID), 10))
	q.Set("type", string(ref.Kind))
	return strings.TrimRight(baseURL, "/") + "/review?" + q.Encode()
}

// Recipients returns the guest plus the staff assigned to propertyKey,
// deduplicated case-insensitively in first-seen order.
func Recipients(guestEmail string, staff []staffModel.Staff, propertyKey string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(addr string) {
		addr = strings.TrimSpace(addr)
		key := strings.ToLower(addr)
		if addr == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, addr)
	}

	add(guestEmail)
	for i := range staff {
		s := &staff[i]
		if !s.IsActive || s.DeletedAt != nil || !s.Manages(propertyKey) {
			continue
		}
		add(s.Email)
	}
	return out
}
