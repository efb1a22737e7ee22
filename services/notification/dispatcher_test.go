package notification

import (
	"context"
	"errors"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	bookingModel "villa-booking/models/booking"
	reviewModel "villa-booking/models/review"
	settingModel "villa-booking/models/setting"
	staffModel "villa-booking/models/staff"
	"villa-booking/services/document"
	"villa-booking/services/mail"
	"villa-booking/services/property"
	"villa-booking/services/settings"
)

type fakeDirectory struct {
	booking  *bookingModel.Booking
	staff    []staffModel.Staff
	staffErr error
}

func (f *fakeDirectory) FindBooking(_ context.Context, id uint) (*bookingModel.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, ErrBookingNotFound
	}
	return f.booking, nil
}

func (f *fakeDirectory) FindActiveStaff(context.Context) ([]staffModel.Staff, error) {
	return f.staff, f.staffErr
}

type fakeTokens struct {
	issued int
	err    error
}

func (f *fakeTokens) Issue(_ context.Context, bookingID uint) (*reviewModel.ReviewToken, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.issued++
	return &reviewModel.ReviewToken{
		BookingID: bookingID,
		Token:     strings.Repeat("ab", 32),
		ExpiresAt: time.Date(2025, time.January, 23, 0, 0, 0, 0, time.UTC),
	}, nil
}

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return "<id@test>", nil
}

type fakeResolver struct{}

func (fakeResolver) Resolve(_ context.Context, ref property.Ref) (*property.Resolved, error) {
	return &property.Resolved{Ref: ref, NightlyRate: 100, DisplayName: "Villa Sol"}, nil
}

func testBooking() *bookingModel.Booking {
	return &bookingModel.Booking{
		ID:            7,
		PropertyType:  bookingModel.PropertyTypeVilla,
		PropertyID:    3,
		GuestName:     "Ana Silva",
		GuestEmail:    "ana@example.com",
		CheckInDate:   time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC),
		CheckOutDate:  time.Date(2025, time.January, 9, 0, 0, 0, 0, time.UTC),
		PaymentStatus: bookingModel.PaymentStatusPaid,
	}
}

func newDispatcher(dir *fakeDirectory, tokens *fakeTokens, mailer *fakeMailer) *Dispatcher {
	return &Dispatcher{
		Directory:      dir,
		Properties:     fakeResolver{},
		Tokens:         tokens,
		Mailer:         mailer,
		Settings:       settings.Static{settingModel.KeyAppBaseURL: "https://stay.example.com/"},
		BaseURL:        "http://localhost:3000",
		HotelName:      "Seaside",
		CurrencySymbol: "$",
	}
}

func TestSendCheckoutConfirmationWithAttachment(t *testing.T) {
	mailer := &fakeMailer{}
	tokens := &fakeTokens{}
	d := newDispatcher(&fakeDirectory{booking: testBooking()}, tokens, mailer)

	doc := &document.Document{Filename: "invoice-INV-7-20250109.pdf", Bytes: []byte("%PDF-1.3")}
	if !d.SendCheckoutConfirmation(context.Background(), 7, doc) {
		t.Fatal("expected success")
	}
	if tokens.issued != 1 {
		t.Errorf("issued %d tokens, want 1", tokens.issued)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(mailer.sent))
	}

	msg := mailer.sent[0]
	if !reflect.DeepEqual(msg.To, []string{"ana@example.com"}) {
		t.Errorf("To = %v", msg.To)
	}
	if len(msg.Attachments) != 1 || msg.Attachments[0].Filename != doc.Filename {
		t.Errorf("attachments = %+v", msg.Attachments)
	}
	if !strings.Contains(msg.HTML, "https://stay.example.com/review?") {
		t.Errorf("review link missing from body")
	}
	if !strings.Contains(msg.HTML, "Villa Sol") {
		t.Errorf("property name missing from body")
	}
}

func TestSendCheckoutConfirmationWithoutDocument(t *testing.T) {
	mailer := &fakeMailer{}
	d := newDispatcher(&fakeDirectory{booking: testBooking()}, &fakeTokens{}, mailer)

	if !d.SendCheckoutConfirmation(context.Background(), 7, nil) {
		t.Fatal("missing attachment should be tolerated")
	}
	if len(mailer.sent[0].Attachments) != 0 {
		t.Error("no attachment expected")
	}
}

func TestSendCheckoutConfirmationFailures(t *testing.T) {
	noEmail := testBooking()
	noEmail.GuestEmail = " "

	tests := []struct {
		name   string
		dir    *fakeDirectory
		tokens *fakeTokens
		mailer *fakeMailer
	}{
		{"booking missing", &fakeDirectory{}, &fakeTokens{}, &fakeMailer{}},
		{"guest email missing", &fakeDirectory{booking: noEmail}, &fakeTokens{}, &fakeMailer{}},
		{"token failure", &fakeDirectory{booking: testBooking()}, &fakeTokens{err: errors.New("db down")}, &fakeMailer{}},
		{"mail failure", &fakeDirectory{booking: testBooking()}, &fakeTokens{}, &fakeMailer{err: errors.New("smtp down")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDispatcher(tt.dir, tt.tokens, tt.mailer)
			if d.SendCheckoutConfirmation(context.Background(), 7, nil) {
				t.Fatal("expected failure")
			}
		})
	}
}

func TestSendCheckoutConfirmationRecoversPanics(t *testing.T) {
	d := newDispatcher(&fakeDirectory{booking: testBooking()}, &fakeTokens{}, &fakeMailer{})
	d.Mailer = nil
	if d.SendCheckoutConfirmation(context.Background(), 7, nil) {
		t.Fatal("expected failure")
	}
}

func TestSendPaymentConfirmationRecipients(t *testing.T) {
	now := time.Now()
	staff := []staffModel.Staff{
		{ID: 1, Email: "boss@example.com", Role: staffModel.RoleAdmin, IsActive: true},
		{ID: 2, Email: "mgr@example.com", Role: staffModel.RoleManager, IsActive: true, Properties: staffModel.StringSlice{"villa:3"}},
		{ID: 3, Email: "other@example.com", Role: staffModel.RoleManager, IsActive: true, Properties: staffModel.StringSlice{"villa:4"}},
		{ID: 4, Email: "desk@example.com", Role: staffModel.RoleFrontDesk, IsActive: false, Properties: staffModel.StringSlice{"villa:3"}},
		{ID: 5, Email: "MGR@example.com", Role: staffModel.RoleFrontDesk, IsActive: true, Properties: staffModel.StringSlice{"villa:3"}},
		{ID: 6, Email: "gone@example.com", Role: staffModel.RoleAdmin, IsActive: true, DeletedAt: &now},
	}
	mailer := &fakeMailer{}
	d := newDispatcher(&fakeDirectory{booking: testBooking(), staff: staff}, &fakeTokens{}, mailer)

	if !d.SendPaymentConfirmation(context.Background(), 7, 150, "TXN-1") {
		t.Fatal("expected success")
	}
	want := []string{"ana@example.com", "boss@example.com", "mgr@example.com"}
	if !reflect.DeepEqual(mailer.sent[0].To, want) {
		t.Errorf("To = %v, want %v", mailer.sent[0].To, want)
	}
	if !strings.Contains(mailer.sent[0].HTML, "$150.00") || !strings.Contains(mailer.sent[0].HTML, "TXN-1") {
		t.Error("amount or reference missing from body")
	}
}

func TestSendPaymentConfirmationStaffLookupFails(t *testing.T) {
	mailer := &fakeMailer{}
	d := newDispatcher(&fakeDirectory{booking: testBooking(), staffErr: errors.New("boom")}, &fakeTokens{}, mailer)

	if !d.SendPaymentConfirmation(context.Background(), 7, 10, "x") {
		t.Fatal("guest should still be notified")
	}
	if len(mailer.sent[0].To) != 1 {
		t.Errorf("To = %v", mailer.sent[0].To)
	}
}

func TestReviewLink(t *testing.T) {
	link := ReviewLink("https://stay.example.com/", "abc", property.Ref{Kind: bookingModel.PropertyTypeRoom, ID: 12})
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Path != "/review" {
		t.Errorf("path = %q", u.Path)
	}
	q := u.Query()
	if q.Get("token") != "abc" || q.Get("property") != "12" || q.Get("type") != "room" {
		t.Errorf("query = %v", q)
	}
}
