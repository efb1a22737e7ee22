package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	bookingModel "villa-booking/models/booking"
	paymentService "villa-booking/services/payment"

	"github.com/gofiber/fiber/v2"
)

type fakeConfirmer struct {
	notified bool
	paid     float64
}

func (f *fakeConfirmer) Confirm(_ context.Context, bookingID uint, amount float64, _, _ string) (*paymentService.Outcome, error) {
	if bookingID != 7 {
		return nil, paymentService.ErrBookingNotFound
	}
	f.paid += amount
	paid := f.paid
	return &paymentService.Outcome{
		Booking:  &bookingModel.Booking{ID: 7, AmountPaid: &paid, PaymentStatus: bookingModel.PaymentStatusFor(paid, 317.9)},
		Owed:     317.9,
		Notified: f.notified,
	}, nil
}

func confirm(t *testing.T, app *fiber.App, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestConfirmPayment(t *testing.T) {
	pc := NewPaymentController(&fakeConfirmer{notified: true}, false)
	app := fiber.New()
	app.Post("/booking/:id/payments/confirm", pc.Confirm)

	status, body := confirm(t, app, "/booking/7/payments/confirm", `{"amount":100,"reference":"TXN-1"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d: %v", status, body)
	}
	booking := body["data"].(map[string]interface{})["booking"].(map[string]interface{})
	if booking["payment_status"] != "partial" {
		t.Errorf("payment status = %v", booking["payment_status"])
	}

	_, body = confirm(t, app, "/booking/7/payments/confirm", `{"amount":217.9,"reference":"TXN-2"}`)
	booking = body["data"].(map[string]interface{})["booking"].(map[string]interface{})
	if booking["payment_status"] != "paid" {
		t.Errorf("payment status = %v", booking["payment_status"])
	}
}

func TestConfirmPaymentErrors(t *testing.T) {
	app := fiber.New()
	app.Post("/booking/:id/payments/confirm", NewPaymentController(&fakeConfirmer{}, false).Confirm)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"missing booking", "/booking/8/payments/confirm", `{"amount":10,"reference":"x"}`, http.StatusNotFound},
		{"zero amount", "/booking/7/payments/confirm", `{"amount":0,"reference":"x"}`, http.StatusBadRequest},
		{"missing reference", "/booking/7/payments/confirm", `{"amount":10}`, http.StatusBadRequest},
		{"bad id", "/booking/x/payments/confirm", `{"amount":10,"reference":"x"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status, _ := confirm(t, app, tt.path, tt.body); status != tt.want {
				t.Errorf("status = %d, want %d", status, tt.want)
			}
		})
	}
}

func TestConfirmPaymentReportsFailedNotification(t *testing.T) {
	app := fiber.New()
	app.Post("/booking/:id/payments/confirm", NewPaymentController(&fakeConfirmer{notified: false}, false).Confirm)

	status, body := confirm(t, app, "/booking/7/payments/confirm", `{"amount":10,"reference":"x"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body["message"].(string), "notification email failed") {
		t.Errorf("message = %v", body["message"])
	}
}
