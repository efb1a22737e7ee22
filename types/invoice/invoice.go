package invoice

import "time"

// Customer identifies the guest on the invoice
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Stay describes the booked property and dates
type Stay struct {
	PropertyType string    `json:"property_type"`
	PropertyID   uint      `json:"property_id"`
	PropertyName string    `json:"property_name"`
	Location     string    `json:"location"`
	CheckInDate  time.Time `json:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date"`
	Nights       int       `json:"nights"`
	Adults       int       `json:"adults"`
	Children     int       `json:"children"`
}

// Accommodation is the nightly-rate portion of the invoice
type Accommodation struct {
	NightlyRate float64 `json:"nightly_rate"`
	Nights      int     `json:"nights"`
	Total       float64 `json:"total"`
}

// ChargeLine is one rated catalog charge
type ChargeLine struct {
	ID          uint      `json:"id"`
	Category    string    `json:"category"`
	ReferenceID uint      `json:"reference_id"`
	Name        string    `json:"name"`
	UnitType    string    `json:"unit_type"`
	UnitPrice   float64   `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	AppliedDate time.Time `json:"applied_date"`
	Amount      float64   `json:"amount"`
}

// Discount is the special-period discount applied to the subtotal
type Discount struct {
	SpecialPeriodID *uint   `json:"special_period_id,omitempty"`
	Name            string  `json:"name,omitempty"`
	Percentage      float64 `json:"percentage"`
	Amount          float64 `json:"amount"`
}

// ExtraChargeLine is one free-form charge added during the stay
type ExtraChargeLine struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ChargeType  string  `json:"charge_type"`
	Amount      float64 `json:"amount"`
	Quantity    int     `json:"quantity"`
	Total       float64 `json:"total"`
}

// Snapshot is the computed, not-yet-persisted breakdown of a booking's charges and totals
type Snapshot struct {
	InvoiceNumber string    `json:"invoice_number"`
	InvoiceDate   time.Time `json:"invoice_date"`
	BookingID     uint      `json:"booking_id"`

	Customer      Customer          `json:"customer"`
	Stay          Stay              `json:"stay"`
	Accommodation Accommodation     `json:"accommodation"`
	Charges       []ChargeLine      `json:"charges"`
	Discount      Discount          `json:"discount"`
	ExtraCharges  []ExtraChargeLine `json:"extra_charges"`

	ChargesTotal       float64 `json:"charges_total"`
	Subtotal           float64 `json:"subtotal"`
	DiscountAmount     float64 `json:"discount_amount"`
	TotalAfterDiscount float64 `json:"total_after_discount"`
	TaxRate            float64 `json:"tax_rate"`
	TaxAmount          float64 `json:"tax_amount"`
	ExtraChargesTotal  float64 `json:"extra_charges_total"`
	GrandTotal         float64 `json:"grand_total"`
	AmountPaid         float64 `json:"amount_paid"`
	BalanceDue         float64 `json:"balance_due"`
}
