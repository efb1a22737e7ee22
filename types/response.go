package types

type ApiResponse struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Data    interface{} `json:"data,omitempty"`
}

// CheckoutDetails names which checkout steps succeeded
type CheckoutDetails struct {
	StatusUpdated  bool   `json:"statusUpdated"`
	InvoiceCreated bool   `json:"invoiceCreated"`
	PdfGenerated   bool   `json:"pdfGenerated"`
	EmailSent      bool   `json:"emailSent"`
	DeliveryQueued bool   `json:"deliveryQueued,omitempty"`
	InvoiceError   string `json:"invoiceError,omitempty"`
	PdfError       string `json:"pdfError,omitempty"`
	EmailError     string `json:"emailError,omitempty"`
}

// CheckoutResponse is the body of POST /booking/:id/finalize-checkout
type CheckoutResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Details CheckoutDetails `json:"details"`
	Invoice interface{}     `json:"invoice"`
}
