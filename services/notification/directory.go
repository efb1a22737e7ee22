package notification

import (
	"context"
	"errors"
	"fmt"

	bookingModel "villa-booking/models/booking"
	staffModel "villa-booking/models/staff"

	"gorm.io/gorm"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrStaffNotFound   = errors.New("staff member not found")
)

// Directory looks up the people a notification goes to
type Directory interface {
	FindBooking(ctx context.Context, bookingID uint) (*bookingModel.Booking, error)
	FindActiveStaff(ctx context.Context) ([]staffModel.Staff, error)
}

type GormDirectory struct {
	DB *gorm.DB
}

func NewDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{DB: db}
}

func (d *GormDirectory) FindBooking(ctx context.Context, bookingID uint) (*bookingModel.Booking, error) {
	var b bookingModel.Booking
	err := d.DB.WithContext(ctx).Where("deleted_at IS NULL").First(&b, bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %d: %w", bookingID, err)
	}
	return &b, nil
}

func (d *GormDirectory) FindActiveStaff(ctx context.Context) ([]staffModel.Staff, error) {
	var staff []staffModel.Staff
	err := d.DB.WithContext(ctx).
		Where("is_active = ? AND deleted_at IS NULL", true).
		Where("role IN ?", []staffModel.Role{staffModel.RoleAdmin, staffModel.RoleManager, staffModel.RoleFrontDesk}).
		Order("id ASC").
		Find(&staff).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load staff: %w", err)
	}
	return staff, nil
}

// FindStaff loads a staff member by the uuid carried in their token.
func (d *GormDirectory) FindStaff(ctx context.Context, uuid string) (*staffModel.Staff, error) {
	var s staffModel.Staff
	err := d.DB.WithContext(ctx).Where("uuid = ? AND deleted_at IS NULL", uuid).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load staff %s: %w", uuid, err)
	}
	return &s, nil
}
