package booking

// BookingStatus is the lifecycle status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusCheckIn   BookingStatus = "check-in"
	BookingStatusCheckOut  BookingStatus = "check-out"
	BookingStatusCancelled BookingStatus = "cancelled"
)

func (bs BookingStatus) String() string {
	return string(bs)
}

func (bs BookingStatus) IsValid() bool {
	switch bs {
	case BookingStatusPending, BookingStatusCheckIn, BookingStatusCheckOut, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// IsCompleted returns true once the guest has departed or the booking was cancelled
func (bs BookingStatus) IsCompleted() bool {
	return bs == BookingStatusCheckOut || bs == BookingStatusCancelled
}

// CanAccrueCharges returns true while extra charges may still be added to the stay
func (bs BookingStatus) CanAccrueCharges() bool {
	return bs == BookingStatusPending || bs == BookingStatusCheckIn
}

// GetAllBookingStatuses returns all valid booking statuses
func GetAllBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusPending,
		BookingStatusCheckIn,
		BookingStatusCheckOut,
		BookingStatusCancelled,
	}
}

// PaymentStatus tracks how much of the booking total has been captured
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// PaymentStatusFor derives the payment status from the captured amount and the amount owed.
func PaymentStatusFor(paid, owed float64) PaymentStatus {
	switch {
	case paid <= 0:
		return PaymentStatusUnpaid
	case paid+0.005 < owed:
		return PaymentStatusPartial
	default:
		return PaymentStatusPaid
	}
}

// PropertyType tags which rate table a booking's property lives in
type PropertyType string

const (
	PropertyTypeVilla PropertyType = "villa"
	PropertyTypeRoom  PropertyType = "room"
)

func (pt PropertyType) IsValid() bool {
	return pt == PropertyTypeVilla || pt == PropertyTypeRoom
}
