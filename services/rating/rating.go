// Package rating prices booking line items according to their unit type.
//
// Functions here return unrounded amounts; callers round once when they
// present a figure so that sums do not accumulate rounding error.
package rating

import (
	"math"

	"villa-booking/models/charge"
)

// Policy holds the pricing constants shared by every booking.
type Policy struct {
	TaxRate       float64
	PerKmDistance float64
}

// DefaultPolicy is 10% tax and a 10 km transfer distance.
func DefaultPolicy() Policy {
	return Policy{TaxRate: 0.10, PerKmDistance: 10}
}

// Item is a catalog price applied to a booking.
type Item struct {
	UnitType      charge.UnitType
	UnitPrice     float64
	Quantity      int
	MinimumCharge *float64
}

// Context carries the booking figures some unit types depend on.
type Context struct {
	AccommodationSubtotal float64
	Nights                int
	Occupants             int
}

// Rate prices a catalog item.
func (p Policy) Rate(item Item, ctx Context) float64 {
	qty := float64(item.Quantity)

	switch item.UnitType {
	case charge.UnitFixed:
		return item.UnitPrice * qty
	case charge.UnitPercentage:
		return (ctx.AccommodationSubtotal * item.UnitPrice / 100) * qty
	case charge.UnitPerDay:
		return item.UnitPrice * float64(ctx.Nights) * qty
	case charge.UnitPerPerson:
		return item.UnitPrice * float64(ctx.Occupants) * qty
	case charge.UnitPerKm:
		amount := item.UnitPrice * p.PerKmDistance * qty
		minimum := 0.0
		if item.MinimumCharge != nil {
			minimum = *item.MinimumCharge
		}
		return math.Max(amount, minimum)
	default:
		return item.UnitPrice * qty
	}
}

// RateExtra prices a free-form extra charge.
func RateExtra(chargeType charge.ExtraChargeType, amount float64, quantity int, accommodationSubtotal float64) float64 {
	if chargeType == charge.ExtraChargePercentage {
		return (accommodationSubtotal * amount / 100) * float64(quantity)
	}
	return amount * float64(quantity)
}

// Tax returns the tax due on a discounted total.
func (p Policy) Tax(total float64) float64 {
	return total * p.TaxRate
}

// Round2 rounds a monetary amount to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
