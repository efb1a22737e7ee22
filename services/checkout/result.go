package checkout

import (
	"net/http"
	"strings"

	invoiceModel "villa-booking/models/invoice"
	"villa-booking/types"
)

type Details = types.CheckoutDetails

// Result reports which checkout steps succeeded
type Result struct {
	Details Details
	Invoice *invoiceModel.Invoice
}

// Complete is true when every step succeeded or the delivery was queued.
func (r *Result) Complete() bool {
	d := r.Details
	if !d.StatusUpdated || !d.InvoiceCreated {
		return false
	}
	return d.DeliveryQueued || (d.PdfGenerated && d.EmailSent)
}

// HTTPStatus maps the outcome to 200, 207 or 500.
func (r *Result) HTTPStatus() int {
	switch {
	case !r.Details.StatusUpdated:
		return http.StatusInternalServerError
	case r.Complete():
		return http.StatusOK
	default:
		return http.StatusMultiStatus
	}
}

// FailedSteps names the steps that did not succeed, in pipeline order.
func (r *Result) FailedSteps() []string {
	d := r.Details
	var failed []string
	if !d.InvoiceCreated {
		failed = append(failed, "invoice")
	}
	if !d.StatusUpdated {
		failed = append(failed, "status")
	}
	if d.DeliveryQueued {
		return failed
	}
	if !d.PdfGenerated {
		failed = append(failed, "pdf")
	}
	if !d.EmailSent {
		failed = append(failed, "email")
	}
	return failed
}

func (r *Result) Message() string {
	switch {
	case !r.Details.StatusUpdated:
		return "Checkout failed: booking status could not be updated"
	case r.Details.DeliveryQueued && r.Complete():
		return "Checkout completed, invoice delivery queued"
	case r.Complete():
		return "Checkout completed successfully"
	default:
		return "Checkout completed with errors: " + strings.Join(r.FailedSteps(), ", ") + " failed"
	}
}

// Response builds the finalize-checkout body.
func (r *Result) Response() types.CheckoutResponse {
	resp := types.CheckoutResponse{
		Success: r.Complete(),
		Message: r.Message(),
		Details: r.Details,
	}
	if r.Invoice != nil {
		resp.Invoice = r.Invoice
	}
	return resp
}
