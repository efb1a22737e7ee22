package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"villa-booking/models/special_period"
	"villa-booking/services/property"
	"villa-booking/services/rating"
	invoiceTypes "villa-booking/types/invoice"
	"villa-booking/utils"
)

// Aggregator computes invoice snapshots for bookings
type Aggregator struct {
	Repo       Repository
	Properties property.Resolver
	Policy     rating.Policy
	Now        func() time.Time
}

func NewAggregator(repo Repository, properties property.Resolver, policy rating.Policy) *Aggregator {
	return &Aggregator{
		Repo:       repo,
		Properties: properties,
		Policy:     policy,
		Now:        time.Now,
	}
}

// Compute builds the invoice snapshot for a booking. It returns
// ErrBookingNotFound when the booking does not exist.
func (a *Aggregator) Compute(ctx context.Context, bookingID uint) (*invoiceTypes.Snapshot, error) {
	b, err := a.Repo.FindBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	prop, err := a.Properties.Resolve(ctx, property.RefOf(b))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve property for booking %d: %w", bookingID, err)
	}

	nights := utils.NightsBetween(b.CheckInDate, b.CheckOutDate)
	accommodationTotal := prop.NightlyRate * float64(nights)

	rated, err := a.Repo.FindRatedCharges(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	rctx := rating.Context{
		AccommodationSubtotal: accommodationTotal,
		Nights:                nights,
		Occupants:             b.Occupants(),
	}
	chargeLines := make([]invoiceTypes.ChargeLine, 0, len(rated))
	chargesTotal := 0.0
	for _, rc := range rated {
		amount := a.Policy.Rate(rating.Item{
			UnitType:      rc.UnitType,
			UnitPrice:     rc.UnitPrice,
			Quantity:      rc.Quantity,
			MinimumCharge: rc.MinimumCharge,
		}, rctx)
		chargesTotal += amount
		chargeLines = append(chargeLines, invoiceTypes.ChargeLine{
			ID:          rc.ID,
			Category:    string(rc.Category),
			ReferenceID: rc.ReferenceID,
			Name:        rc.Name,
			UnitType:    string(rc.UnitType),
			UnitPrice:   rc.UnitPrice,
			Quantity:    rc.Quantity,
			AppliedDate: rc.AppliedDate,
			Amount:      rating.Round2(amount),
		})
	}

	subtotal := accommodationTotal + chargesTotal

	from, to := utils.StayBounds(b.CheckInDate, b.CheckOutDate)
	periods, err := a.Repo.FindSpecialPeriods(ctx, from, to)
	if err != nil {
		return nil, err
	}
	discount := invoiceTypes.Discount{}
	if best := SelectDiscount(periods, from, to); best != nil {
		id := best.ID
		discount.SpecialPeriodID = &id
		discount.Name = best.Name
		discount.Percentage = best.DiscountPercentage
	}
	discountAmount := subtotal * discount.Percentage / 100
	discount.Amount = rating.Round2(discountAmount)

	total := subtotal - discountAmount
	taxAmount := a.Policy.Tax(total)

	extras, err := a.Repo.FindExtraCharges(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	extraLines := make([]invoiceTypes.ExtraChargeLine, 0, len(extras))
	extrasTotal := 0.0
	for _, ec := range extras {
		amount := rating.RateExtra(ec.ChargeType, ec.Amount, ec.Quantity, accommodationTotal)
		extrasTotal += amount
		extraLines = append(extraLines, invoiceTypes.ExtraChargeLine{
			ID:          ec.ID,
			Name:        ec.Name,
			Description: ec.Description,
			ChargeType:  string(ec.ChargeType),
			Amount:      ec.Amount,
			Quantity:    ec.Quantity,
			Total:       rating.Round2(amount),
		})
	}

	grandTotal := total + taxAmount + extrasTotal
	generated := a.Now()

	return &invoiceTypes.Snapshot{
		InvoiceNumber: utils.InvoiceNumber(b.ID, generated),
		InvoiceDate:   generated,
		BookingID:     b.ID,
		Customer: invoiceTypes.Customer{
			Name:  b.GuestName,
			Email: b.GuestEmail,
			Phone: b.GuestPhone,
		},
		Stay: invoiceTypes.Stay{
			PropertyType: string(prop.Ref.Kind),
			PropertyID:   prop.Ref.ID,
			PropertyName: prop.DisplayName,
			Location:     prop.LocationKey,
			CheckInDate:  b.CheckInDate,
			CheckOutDate: b.CheckOutDate,
			Nights:       nights,
			Adults:       b.Adults,
			Children:     b.Children,
		},
		Accommodation: invoiceTypes.Accommodation{
			NightlyRate: prop.NightlyRate,
			Nights:      nights,
			Total:       rating.Round2(accommodationTotal),
		},
		Charges:            chargeLines,
		Discount:           discount,
		ExtraCharges:       extraLines,
		ChargesTotal:       rating.Round2(chargesTotal),
		Subtotal:           rating.Round2(subtotal),
		DiscountAmount:     rating.Round2(discountAmount),
		TotalAfterDiscount: rating.Round2(total),
		TaxRate:            a.Policy.TaxRate,
		TaxAmount:          rating.Round2(taxAmount),
		ExtraChargesTotal:  rating.Round2(extrasTotal),
		GrandTotal:         rating.Round2(grandTotal),
		AmountPaid:         rating.Round2(b.Paid()),
		BalanceDue:         rating.Round2(grandTotal - b.Paid()),
	}, nil
}

// SelectDiscount returns the active period overlapping [from, to] with the
// highest discount. Ties go to the lowest id. Periods never stack.
func SelectDiscount(periods []special_period.SpecialPeriod, from, to time.Time) *special_period.SpecialPeriod {
	var best *special_period.SpecialPeriod
	for i := range periods {
		p := &periods[i]
		if !p.IsActive || !p.Overlaps(from, to) {
			continue
		}
		if best == nil ||
			p.DiscountPercentage > best.DiscountPercentage ||
			(p.DiscountPercentage == best.DiscountPercentage && p.ID < best.ID) {
			best = p
		}
	}
	return best
}

// IsNotFound reports whether err means the booking is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBookingNotFound)
}
