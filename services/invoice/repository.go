package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingModel "villa-booking/models/booking"
	chargeModel "villa-booking/models/charge"
	"villa-booking/models/special_period"

	"gorm.io/gorm"
)

// RatedCharge is a booking charge joined with its catalog price
type RatedCharge struct {
	ID            uint
	Category      chargeModel.Category
	ReferenceID   uint
	Name          string
	UnitPrice     float64
	UnitType      chargeModel.UnitType
	MinimumCharge *float64
	Quantity      int
	AppliedDate   time.Time
}

// Repository loads the inputs of an invoice computation
type Repository interface {
	FindBooking(ctx context.Context, bookingID uint) (*bookingModel.Booking, error)
	FindRatedCharges(ctx context.Context, bookingID uint) ([]RatedCharge, error)
	FindSpecialPeriods(ctx context.Context, from, to time.Time) ([]special_period.SpecialPeriod, error)
	FindExtraCharges(ctx context.Context, bookingID uint) ([]chargeModel.BookingExtraCharge, error)
}

// GormRepository reads invoice inputs from PostgreSQL
type GormRepository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) FindBooking(ctx context.Context, bookingID uint) (*bookingModel.Booking, error) {
	var b bookingModel.Booking
	err := r.DB.WithContext(ctx).Where("deleted_at IS NULL").First(&b, bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %d: %w", bookingID, err)
	}
	return &b, nil
}

// FindRatedCharges resolves each booking charge against the catalog table its
// category points to. Charges whose catalog row is gone are skipped.
func (r *GormRepository) FindRatedCharges(ctx context.Context, bookingID uint) ([]RatedCharge, error) {
	var rows []RatedCharge
	err := r.DB.WithContext(ctx).Raw(`
		SELECT bc.id, bc.charge_type AS category, bc.reference_id, bc.quantity, bc.applied_date,
		       COALESCE(mp.name, t.name, ac.name) AS name,
		       COALESCE(mp.price, t.price, ac.price) AS unit_price,
		       COALESCE(mp.unit_type, t.unit_type, ac.unit_type) AS unit_type,
		       t.minimum_charge
		FROM booking_charges bc
		LEFT JOIN meal_plans mp ON bc.charge_type = ? AND mp.id = bc.reference_id
		LEFT JOIN transportations t ON bc.charge_type = ? AND t.id = bc.reference_id
		LEFT JOIN additional_charges ac ON bc.charge_type = ? AND ac.id = bc.reference_id
		WHERE bc.booking_id = ?
		  AND COALESCE(mp.id, t.id, ac.id) IS NOT NULL
		ORDER BY bc.applied_date, bc.id`,
		chargeModel.CategoryMealPlan, chargeModel.CategoryTransportation, chargeModel.CategoryAdditional, bookingID,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load charges for booking %d: %w", bookingID, err)
	}
	return rows, nil
}

func (r *GormRepository) FindSpecialPeriods(ctx context.Context, from, to time.Time) ([]special_period.SpecialPeriod, error) {
	var periods []special_period.SpecialPeriod
	err := r.DB.WithContext(ctx).
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, to, from).
		Order("discount_percentage DESC, id ASC").
		Find(&periods).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load special periods: %w", err)
	}
	return periods, nil
}

func (r *GormRepository) FindExtraCharges(ctx context.Context, bookingID uint) ([]chargeModel.BookingExtraCharge, error) {
	var extras []chargeModel.BookingExtraCharge
	err := r.DB.WithContext(ctx).Where("booking_id = ?", bookingID).Order("created_at, id").Find(&extras).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load extra charges for booking %d: %w", bookingID, err)
	}
	return extras, nil
}
