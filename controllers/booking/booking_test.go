package booking

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	bookingModel "villa-booking/models/booking"

	"github.com/gofiber/fiber/v2"
)

type fakeHistory struct {
	events []bookingModel.BookingStatusEvent
	err    error
}

func (f fakeHistory) History(_ context.Context, _ uint) ([]bookingModel.BookingStatusEvent, error) {
	return f.events, f.err
}

func get(t *testing.T, bc *BookingController, path string) (int, map[string]interface{}) {
	t.Helper()
	app := fiber.New()
	app.Get("/booking/:id/status-history", bc.StatusHistory)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestStatusHistory(t *testing.T) {
	bc := NewBookingController(fakeHistory{events: []bookingModel.BookingStatusEvent{
		{ID: 1, BookingID: 4, FromStatus: bookingModel.BookingStatusCheckIn, Status: bookingModel.BookingStatusCheckOut, CreatedBy: "desk"},
	}}, false)

	status, body := get(t, bc, "/booking/4/status-history")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	events := body["data"].([]interface{})
	if len(events) != 1 || events[0].(map[string]interface{})["status"] != string(bookingModel.BookingStatusCheckOut) {
		t.Errorf("events = %v", events)
	}
}

func TestStatusHistoryEmptyIsList(t *testing.T) {
	status, body := get(t, NewBookingController(fakeHistory{}, false), "/booking/4/status-history")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if events, ok := body["data"].([]interface{}); !ok || len(events) != 0 {
		t.Errorf("data = %#v, want empty list", body["data"])
	}
}

func TestStatusHistoryErrors(t *testing.T) {
	status, _ := get(t, NewBookingController(fakeHistory{}, false), "/booking/abc/status-history")
	if status != http.StatusBadRequest {
		t.Errorf("bad id status = %d", status)
	}

	status, body := get(t, NewBookingController(fakeHistory{err: errors.New("db down")}, true), "/booking/4/status-history")
	if status != http.StatusInternalServerError {
		t.Errorf("status = %d", status)
	}
	if _, leaked := body["data"]; leaked {
		t.Errorf("production response leaked details: %v", body)
	}
}
