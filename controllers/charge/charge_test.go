package charge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chargeModel "villa-booking/models/charge"
	chargeService "villa-booking/services/charge"
	chargeTypes "villa-booking/types/charge"

	"github.com/gofiber/fiber/v2"
)

type memoryCharges struct {
	closed  bool
	charges []chargeModel.BookingExtraCharge
}

func (m *memoryCharges) List(_ context.Context, bookingID uint) ([]chargeModel.BookingExtraCharge, error) {
	if bookingID != 7 {
		return nil, chargeService.ErrBookingNotFound
	}
	return m.charges, nil
}

func (m *memoryCharges) Create(_ context.Context, bookingID uint, req chargeTypes.ExtraChargeCreateRequest, createdBy string) (*chargeModel.BookingExtraCharge, error) {
	if bookingID != 7 {
		return nil, chargeService.ErrBookingNotFound
	}
	if m.closed {
		return nil, chargeService.ErrChargesClosed
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	ec := chargeModel.BookingExtraCharge{
		ID:         uint(len(m.charges) + 1),
		BookingID:  bookingID,
		Name:       req.Name,
		Amount:     req.Amount,
		Quantity:   qty,
		ChargeType: chargeModel.NormalizeExtraChargeType(req.ChargeType),
		CreatedBy:  createdBy,
	}
	m.charges = append(m.charges, ec)
	return &ec, nil
}

func (m *memoryCharges) UpdateQuantity(_ context.Context, bookingID, chargeID uint, quantity int) (*chargeModel.BookingExtraCharge, error) {
	for i := range m.charges {
		if m.charges[i].ID == chargeID && m.charges[i].BookingID == bookingID {
			m.charges[i].Quantity = quantity
			return &m.charges[i], nil
		}
	}
	return nil, chargeService.ErrExtraChargeNotFound
}

func newApp(store *memoryCharges) *fiber.App {
	cc := NewChargeController(store, false)
	app := fiber.New()
	app.Get("/booking/:id/extra-charges", cc.List)
	app.Post("/booking/:bookingId/extra-charges", cc.Create)
	app.Put("/booking/:bookingId/extra-charges/:chargeId", cc.UpdateQuantity)
	return app
}

func send(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func TestCreateExtraCharge(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     int
		wantType chargeModel.ExtraChargeType
	}{
		{"fixed", `{"name":"Minibar","amount":12.5,"quantity":2,"chargeType":"fixed"}`, http.StatusCreated, chargeModel.ExtraChargeFixed},
		{"percentage", `{"name":"Service","amount":5,"chargeType":"percentage"}`, http.StatusCreated, chargeModel.ExtraChargePercentage},
		{"unknown type defaults to fixed", `{"name":"Late checkout","amount":30,"chargeType":"hourly"}`, http.StatusCreated, chargeModel.ExtraChargeFixed},
		{"missing name", `{"amount":30}`, http.StatusBadRequest, ""},
		{"non-positive amount", `{"name":"Refund","amount":0}`, http.StatusBadRequest, ""},
		{"malformed body", `{"name":`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := send(t, newApp(&memoryCharges{}), http.MethodPost, "/booking/7/extra-charges", tt.body)
			if status != tt.want {
				t.Fatalf("status = %d, want %d: %s", status, tt.want, body)
			}
			if tt.wantType == "" {
				return
			}
			var env struct {
				Data chargeModel.BookingExtraCharge `json:"data"`
			}
			if err := json.Unmarshal(body, &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Data.ChargeType != tt.wantType {
				t.Errorf("charge type = %q, want %q", env.Data.ChargeType, tt.wantType)
			}
		})
	}
}

func TestCreateExtraChargeErrors(t *testing.T) {
	if status, _ := send(t, newApp(&memoryCharges{}), http.MethodPost, "/booking/8/extra-charges", `{"name":"x","amount":1}`); status != http.StatusNotFound {
		t.Errorf("missing booking: status = %d", status)
	}
	if status, _ := send(t, newApp(&memoryCharges{closed: true}), http.MethodPost, "/booking/7/extra-charges", `{"name":"x","amount":1}`); status != http.StatusBadRequest {
		t.Errorf("closed booking: status = %d", status)
	}
}

func TestUpdateQuantity(t *testing.T) {
	store := &memoryCharges{charges: []chargeModel.BookingExtraCharge{
		{ID: 1, BookingID: 7, Name: "Minibar", Amount: 10, Quantity: 1, ChargeType: chargeModel.ExtraChargeFixed},
	}}
	app := newApp(store)

	status, _ := send(t, app, http.MethodPut, "/booking/7/extra-charges/1", `{"quantity":3,"amount":999}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if store.charges[0].Quantity != 3 || store.charges[0].Amount != 10 {
		t.Errorf("only quantity should change: %+v", store.charges[0])
	}

	if status, _ := send(t, app, http.MethodPut, "/booking/7/extra-charges/1", `{"quantity":0}`); status != http.StatusBadRequest {
		t.Errorf("zero quantity: status = %d", status)
	}
	if status, _ := send(t, app, http.MethodPut, "/booking/7/extra-charges/9", `{"quantity":2}`); status != http.StatusNotFound {
		t.Errorf("missing charge: status = %d", status)
	}
}

func TestListExtraCharges(t *testing.T) {
	store := &memoryCharges{charges: []chargeModel.BookingExtraCharge{{ID: 1, BookingID: 7, Name: "Minibar"}}}
	status, body := send(t, newApp(store), http.MethodGet, "/booking/7/extra-charges", "")
	if status != http.StatusOK || !strings.Contains(string(body), "Minibar") {
		t.Errorf("status = %d body = %s", status, body)
	}
}
