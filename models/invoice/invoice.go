package invoice

import (
	"time"

	"gorm.io/datatypes"
)

// Status of the invoice document itself
type Status string

const (
	StatusIssued Status = "issued"
	StatusPaid   Status = "paid"
	StatusVoid   Status = "void"
)

// DeliveryStatus tracks the PDF and email side effects of checkout
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliveryQueued  DeliveryStatus = "queued"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

// Invoice is the once-created financial summary of a booking
type Invoice struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID     uint      `gorm:"not null;uniqueIndex:idx_invoices_booking_id" json:"booking_id"`
	InvoiceNumber string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"invoice_number"`
	InvoiceDate   time.Time `gorm:"not null" json:"invoice_date"`

	Subtotal       float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	TaxAmount      float64 `gorm:"type:decimal(10,2);not null" json:"tax_amount"`
	DiscountAmount float64 `gorm:"type:decimal(10,2);not null;default:0" json:"discount_amount"`
	TotalAmount    float64 `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status         Status  `gorm:"type:varchar(20);not null;default:'issued'" json:"status"`

	// Full computed breakdown at the time of issue
	Snapshot datatypes.JSON `gorm:"type:jsonb" json:"snapshot,omitempty"`

	PdfStatus   DeliveryStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"pdf_status"`
	EmailStatus DeliveryStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"email_status"`
	LastError   string         `gorm:"type:text" json:"last_error,omitempty"`

	CreatedBy string    `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
