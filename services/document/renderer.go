package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	invoiceTypes "villa-booking/types/invoice"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

var ErrRenderTimeout = errors.New("invoice rendering timed out")

// Document is a rendered invoice
type Document struct {
	Filename string
	Bytes    []byte
	Pages    int
}

// Renderer lays invoices out on A4 pages
type Renderer struct {
	HotelName      string
	CurrencySymbol string
	// VerifyURL, when set, is encoded as a QR code on the first page
	VerifyURL func(snap *invoiceTypes.Snapshot) string

	uncompressed bool
}

func NewRenderer(hotelName, currencySymbol string) *Renderer {
	return &Renderer{HotelName: hotelName, CurrencySymbol: currencySymbol}
}

// RenderContext renders in the background and gives up when ctx is done.
func (r *Renderer) RenderContext(ctx context.Context, snap *invoiceTypes.Snapshot) (*Document, error) {
	type result struct {
		doc *Document
		err error
	}
	done := make(chan result, 1)
	go func() {
		doc, err := r.Render(snap)
		done <- result{doc, err}
	}()

	select {
	case res := <-done:
		return res.doc, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrRenderTimeout, ctx.Err())
	}
}

// Render produces the PDF for a snapshot. The snapshot is only read.
func (r *Renderer) Render(snap *invoiceTypes.Snapshot) (doc *Document, err error) {
	if snap == nil {
		return nil, errors.New("nil invoice snapshot")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("invoice rendering panicked: %v", rec)
		}
	}()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(!r.uncompressed)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(snap.InvoiceNumber, true)
	pdf.SetAuthor(r.HotelName, true)
	pdf.AliasNbPages("")
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("%s  |  Page %d of {nb}", snap.InvoiceNumber, pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	r.header(pdf, tr, snap)
	r.parties(pdf, tr, snap)
	r.lines(pdf, tr, snap)
	r.totals(pdf, tr, snap)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to lay out invoice: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write invoice PDF: %w", err)
	}

	return &Document{
		Filename: fmt.Sprintf("invoice-%s.pdf", snap.InvoiceNumber),
		Bytes:    buf.Bytes(),
		Pages:    pdf.PageNo(),
	}, nil
}

func (r *Renderer) money(v float64) string {
	return FormatCurrency(r.CurrencySymbol, v)
}

func (r *Renderer) header(pdf *gofpdf.Fpdf, tr func(string) string, snap *invoiceTypes.Snapshot) {
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(120, 10, tr(r.HotelName))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(120, 6, "INVOICE "+snap.InvoiceNumber)
	pdf.Ln(6)
	pdf.Cell(120, 6, "Issued: "+FormatDate(snap.InvoiceDate))
	pdf.Ln(10)

	if r.VerifyURL == nil {
		return
	}
	png, err := qrcode.Encode(r.VerifyURL(snap), qrcode.Medium, 256)
	if err != nil {
		pdf.SetError(fmt.Errorf("failed to generate QR code: %w", err))
		return
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("verify-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("verify-qr", 165, 10, 30, 30, false, opts, 0, "")
}

func (r *Renderer) parties(pdf *gofpdf.Fpdf, tr func(string) string, snap *invoiceTypes.Snapshot) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(95, 7, "Billed to", "B", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Stay", "B", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	left := []string{snap.Customer.Name, snap.Customer.Email, snap.Customer.Phone}
	right := []string{
		snap.Stay.PropertyName,
		snap.Stay.Location,
		fmt.Sprintf("%s - %s (%d nights)", FormatDate(snap.Stay.CheckInDate), FormatDate(snap.Stay.CheckOutDate), snap.Stay.Nights),
		fmt.Sprintf("%d adults, %d children", snap.Stay.Adults, snap.Stay.Children),
	}
	for i := 0; i < len(right); i++ {
		l := ""
		if i < len(left) {
			l = left[i]
		}
		pdf.CellFormat(95, 6, tr(l), "", 0, "L", false, 0, "")
		pdf.CellFormat(95, 6, tr(right[i]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

var columnWidths = []float64{90, 30, 20, 50}

func (r *Renderer) tableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range []string{"Description", "Unit price", "Qty", "Amount"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(columnWidths[i], 8, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
}

func (r *Renderer) row(pdf *gofpdf.Fpdf, tr func(string) string, desc, unit, qty, amount string) {
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+7 > pageHeight-bottom-20 {
		pdf.AddPage()
		r.tableHeader(pdf)
	}
	pdf.CellFormat(columnWidths[0], 7, tr(truncate(desc, 55)), "1", 0, "L", false, 0, "")
	pdf.CellFormat(columnWidths[1], 7, tr(unit), "1", 0, "R", false, 0, "")
	pdf.CellFormat(columnWidths[2], 7, qty, "1", 0, "R", false, 0, "")
	pdf.CellFormat(columnWidths[3], 7, tr(amount), "1", 1, "R", false, 0, "")
}

func (r *Renderer) lines(pdf *gofpdf.Fpdf, tr func(string) string, snap *invoiceTypes.Snapshot) {
	r.tableHeader(pdf)

	acc := snap.Accommodation
	r.row(pdf, tr, "Accommodation - "+snap.Stay.PropertyName, r.money(acc.NightlyRate), fmt.Sprintf("%d", acc.Nights), r.money(acc.Total))

	for _, c := range snap.Charges {
		desc := c.Name
		if c.UnitType != "" {
			desc = fmt.Sprintf("%s (%s)", c.Name, strings.ReplaceAll(c.UnitType, "_", " "))
		}
		r.row(pdf, tr, desc, r.money(c.UnitPrice), fmt.Sprintf("%d", c.Quantity), r.money(c.Amount))
	}

	if len(snap.ExtraCharges) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(190, 7, "Extra charges", "1", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
	}
	for _, e := range snap.ExtraCharges {
		unit := r.money(e.Amount)
		if e.ChargeType == "percentage" {
			unit = fmt.Sprintf("%.2f%%", e.Amount)
		}
		r.row(pdf, tr, e.Name, unit, fmt.Sprintf("%d", e.Quantity), r.money(e.Total))
	}
	pdf.Ln(4)
}

func (r *Renderer) totals(pdf *gofpdf.Fpdf, tr func(string) string, snap *invoiceTypes.Snapshot) {
	type line struct {
		label string
		value string
		bold  bool
	}
	rows := []line{{"Subtotal", r.money(snap.Subtotal), false}}
	if snap.DiscountAmount > 0 {
		rows = append(rows, line{fmt.Sprintf("Discount (%.2f%%)", snap.Discount.Percentage), r.money(-snap.DiscountAmount), false})
	}
	rows = append(rows,
		line{fmt.Sprintf("Tax (%.0f%%)", snap.TaxRate*100), r.money(snap.TaxAmount), false},
	)
	if snap.ExtraChargesTotal > 0 {
		rows = append(rows, line{"Extra charges", r.money(snap.ExtraChargesTotal), false})
	}
	rows = append(rows,
		line{"Grand total", r.money(snap.GrandTotal), true},
		line{"Amount paid", r.money(snap.AmountPaid), false},
		line{"Balance due", r.money(snap.BalanceDue), true},
	)

	for _, l := range rows {
		style := ""
		if l.bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(140, 7, l.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(50, 7, tr(l.value), "", 1, "R", false, 0, "")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
