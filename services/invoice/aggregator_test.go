package invoice

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingModel "villa-booking/models/booking"
	chargeModel "villa-booking/models/charge"
	"villa-booking/models/special_period"
	"villa-booking/services/property"
	"villa-booking/services/rating"
)

type fakeRepo struct {
	booking *bookingModel.Booking
	charges []RatedCharge
	periods []special_period.SpecialPeriod
	extras  []chargeModel.BookingExtraCharge
}

func (f *fakeRepo) FindBooking(_ context.Context, id uint) (*bookingModel.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, ErrBookingNotFound
	}
	b := *f.booking
	return &b, nil
}

func (f *fakeRepo) FindRatedCharges(context.Context, uint) ([]RatedCharge, error) {
	return f.charges, nil
}

func (f *fakeRepo) FindSpecialPeriods(context.Context, time.Time, time.Time) ([]special_period.SpecialPeriod, error) {
	return f.periods, nil
}

func (f *fakeRepo) FindExtraCharges(context.Context, uint) ([]chargeModel.BookingExtraCharge, error) {
	return f.extras, nil
}

type fakeResolver struct {
	rate float64
	err  error
}

func (f fakeResolver) Resolve(_ context.Context, ref property.Ref) (*property.Resolved, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &property.Resolved{Ref: ref, NightlyRate: f.rate, DisplayName: "Sunset Villa", LocationKey: "Seminyak"}, nil
}

func date(month time.Month, day int) time.Time {
	return time.Date(2025, month, day, 0, 0, 0, 0, time.UTC)
}

func newTestAggregator(repo *fakeRepo, rate float64) *Aggregator {
	a := NewAggregator(repo, fakeResolver{rate: rate}, rating.DefaultPolicy())
	a.Now = func() time.Time { return time.Date(2025, time.January, 9, 10, 0, 0, 0, time.UTC) }
	return a
}

func sampleBooking() *bookingModel.Booking {
	return &bookingModel.Booking{
		ID:           7,
		PropertyType: bookingModel.PropertyTypeVilla,
		PropertyID:   3,
		GuestName:    "Ana Guest",
		GuestEmail:   "ana@example.com",
		CheckInDate:  date(time.January, 6),
		CheckOutDate: date(time.January, 9),
		Adults:       2,
	}
}

func TestComputeEndToEndExample(t *testing.T) {
	repo := &fakeRepo{
		booking: sampleBooking(),
		charges: []RatedCharge{
			{ID: 1, Category: chargeModel.CategoryAdditional, Name: "Cleaning", UnitType: chargeModel.UnitFixed, UnitPrice: 20, Quantity: 2},
		},
		periods: []special_period.SpecialPeriod{
			{ID: 4, Name: "Low season", StartDate: date(time.January, 1), EndDate: date(time.January, 31), DiscountPercentage: 15, IsActive: true},
		},
	}

	snap, err := newTestAggregator(repo, 100).Compute(context.Background(), 7)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	checks := []struct {
		name      string
		got, want float64
	}{
		{"accommodation", snap.Accommodation.Total, 300},
		{"charges", snap.ChargesTotal, 40},
		{"subtotal", snap.Subtotal, 340},
		{"discount", snap.DiscountAmount, 51},
		{"total after discount", snap.TotalAfterDiscount, 289},
		{"tax", snap.TaxAmount, 28.9},
		{"grand total", snap.GrandTotal, 317.9},
		{"balance due", snap.BalanceDue, 317.9},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if snap.Stay.Nights != 3 {
		t.Errorf("nights = %d, want 3", snap.Stay.Nights)
	}
	if snap.InvoiceNumber != "INV-7-20250109" {
		t.Errorf("invoice number = %q", snap.InvoiceNumber)
	}
	if snap.Discount.SpecialPeriodID == nil || *snap.Discount.SpecialPeriodID != 4 {
		t.Errorf("expected discount from period 4, got %+v", snap.Discount)
	}
	if snap.Customer.Email != "ana@example.com" || snap.Stay.PropertyName != "Sunset Villa" {
		t.Errorf("unexpected customer/stay: %+v %+v", snap.Customer, snap.Stay)
	}
}

func TestComputeWithExtraChargesAndPayment(t *testing.T) {
	b := sampleBooking()
	paid := 100.0
	b.AmountPaid = &paid

	repo := &fakeRepo{
		booking: b,
		extras: []chargeModel.BookingExtraCharge{
			{ID: 1, Name: "Minibar", Amount: 12.5, Quantity: 2, ChargeType: chargeModel.ExtraChargeFixed},
			{ID: 2, Name: "Service", Amount: 5, Quantity: 1, ChargeType: chargeModel.ExtraChargePercentage},
		},
	}

	snap, err := newTestAggregator(repo, 100).Compute(context.Background(), 7)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	// 300 accommodation, no discount, 30 tax, extras 25 + 15
	if snap.ExtraChargesTotal != 40 {
		t.Errorf("extras total = %v, want 40", snap.ExtraChargesTotal)
	}
	if snap.GrandTotal != 370 {
		t.Errorf("grand total = %v, want 370", snap.GrandTotal)
	}
	if snap.BalanceDue != 270 {
		t.Errorf("balance due = %v, want 270", snap.BalanceDue)
	}
	if snap.ExtraCharges[1].Total != 15 {
		t.Errorf("percentage extra total = %v, want 15", snap.ExtraCharges[1].Total)
	}
}

func TestComputeGrandTotalIdentity(t *testing.T) {
	repo := &fakeRepo{
		booking: sampleBooking(),
		charges: []RatedCharge{
			{ID: 1, UnitType: chargeModel.UnitPerPerson, UnitPrice: 13.37, Quantity: 1},
			{ID: 2, UnitType: chargeModel.UnitPerKm, UnitPrice: 1.1, Quantity: 1},
		},
		periods: []special_period.SpecialPeriod{
			{ID: 1, StartDate: date(time.January, 1), EndDate: date(time.January, 7), DiscountPercentage: 12.5, IsActive: true},
		},
		extras: []chargeModel.BookingExtraCharge{{ID: 1, Amount: 9.99, Quantity: 3, ChargeType: chargeModel.ExtraChargeFixed}},
	}

	snap, err := newTestAggregator(repo, 87.45).Compute(context.Background(), 7)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if got, want := snap.Subtotal, rating.Round2(snap.Accommodation.Total+snap.ChargesTotal); got != want {
		t.Errorf("subtotal = %v, want accommodation+charges = %v", got, want)
	}
	raw := 87.45*3 + 13.37*2 + 1.1*10
	want := rating.Round2((raw-raw*0.125)*1.10 + 9.99*3)
	if snap.GrandTotal != want {
		t.Errorf("grand total = %v, want %v", snap.GrandTotal, want)
	}
}

func TestComputeBookingNotFound(t *testing.T) {
	_, err := newTestAggregator(&fakeRepo{}, 100).Compute(context.Background(), 99)
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestComputePropertyLookupFails(t *testing.T) {
	a := NewAggregator(&fakeRepo{booking: sampleBooking()}, fakeResolver{err: property.ErrPropertyNotFound}, rating.DefaultPolicy())
	_, err := a.Compute(context.Background(), 7)
	if !errors.Is(err, property.ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
	if IsNotFound(err) {
		t.Error("property failure must not look like a missing booking")
	}
}

func TestSelectDiscount(t *testing.T) {
	periods := []special_period.SpecialPeriod{
		{ID: 1, StartDate: date(time.January, 1), EndDate: date(time.January, 10), DiscountPercentage: 20, IsActive: true},
		{ID: 2, StartDate: date(time.January, 5), EndDate: date(time.January, 15), DiscountPercentage: 30, IsActive: true},
		{ID: 3, StartDate: date(time.February, 1), EndDate: date(time.February, 5), DiscountPercentage: 60, IsActive: true},
		{ID: 4, StartDate: date(time.January, 1), EndDate: date(time.January, 31), DiscountPercentage: 50, IsActive: false},
	}

	best := SelectDiscount(periods, date(time.January, 6), date(time.January, 8))
	if best == nil || best.ID != 2 {
		t.Fatalf("expected period 2 (30%%), got %+v", best)
	}

	if got := SelectDiscount(periods, date(time.March, 1), date(time.March, 3)); got != nil {
		t.Errorf("expected no discount outside every period, got %+v", got)
	}
}

func TestSelectDiscountTieBreaksOnLowestID(t *testing.T) {
	periods := []special_period.SpecialPeriod{
		{ID: 8, StartDate: date(time.January, 1), EndDate: date(time.January, 31), DiscountPercentage: 25, IsActive: true},
		{ID: 5, StartDate: date(time.January, 1), EndDate: date(time.January, 31), DiscountPercentage: 25, IsActive: true},
	}
	best := SelectDiscount(periods, date(time.January, 6), date(time.January, 8))
	if best == nil || best.ID != 5 {
		t.Fatalf("expected period 5, got %+v", best)
	}
}
