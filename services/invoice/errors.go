package invoice

import (
	"errors"
	"fmt"

	invoiceModel "villa-booking/models/invoice"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrInvoiceExists   = errors.New("invoice already exists for this booking")
)

// ExistsError carries the invoice that blocked a second creation
type ExistsError struct {
	Existing *invoiceModel.Invoice
}

func (e *ExistsError) Error() string {
	if e.Existing == nil {
		return ErrInvoiceExists.Error()
	}
	return fmt.Sprintf("%s: %s", ErrInvoiceExists.Error(), e.Existing.InvoiceNumber)
}

func (e *ExistsError) Unwrap() error {
	return ErrInvoiceExists
}

const uniqueViolation = "23505"

// IsUniqueViolation detects PostgreSQL 23505 from either driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
