package charge

// ExtraChargeCreateRequest is the body of POST /booking/:bookingId/extra-charges
type ExtraChargeCreateRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"max=2000"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Quantity    int     `json:"quantity" validate:"omitempty,min=1"`
	ChargeType  string  `json:"chargeType"`
}

// ExtraChargeUpdateRequest is the body of PUT /booking/:bookingId/extra-charges/:chargeId
type ExtraChargeUpdateRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}
