package payment

// ConfirmRequest reports an amount captured by the payment gateway
type ConfirmRequest struct {
	Amount    float64 `json:"amount" validate:"gt=0"`
	Reference string  `json:"reference" validate:"required,max=255"`
}
