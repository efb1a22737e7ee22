package property

import (
	"context"
	"errors"
	"fmt"

	bookingModel "villa-booking/models/booking"
	propertyModel "villa-booking/models/property"

	"gorm.io/gorm"
)

var (
	ErrPropertyNotFound    = errors.New("property not found")
	ErrUnknownPropertyType = errors.New("unknown property type")
)

// Ref points at either a villa or a room
type Ref struct {
	Kind bookingModel.PropertyType
	ID   uint
}

// RefOf returns the property reference of a booking.
func RefOf(b *bookingModel.Booking) Ref {
	return Ref{Kind: b.PropertyType, ID: b.PropertyID}
}

// Key is the "kind:id" form used for staff assignments.
func (r Ref) Key() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

// Resolved is everything pricing and notification need from a property
type Resolved struct {
	Ref         Ref
	NightlyRate float64
	DisplayName string
	LocationKey string
}

// Resolver looks properties up by reference
type Resolver interface {
	Resolve(ctx context.Context, ref Ref) (*Resolved, error)
}

// GormResolver resolves properties from the villas and rooms tables
type GormResolver struct {
	DB *gorm.DB
}

func NewResolver(db *gorm.DB) *GormResolver {
	return &GormResolver{DB: db}
}

func (r *GormResolver) Resolve(ctx context.Context, ref Ref) (*Resolved, error) {
	switch ref.Kind {
	case bookingModel.PropertyTypeVilla:
		var villa propertyModel.Villa
		if err := r.DB.WithContext(ctx).First(&villa, ref.ID).Error; err != nil {
			return nil, wrapLookup(ref, err)
		}
		return FromVilla(&villa), nil
	case bookingModel.PropertyTypeRoom:
		var room propertyModel.Room
		if err := r.DB.WithContext(ctx).First(&room, ref.ID).Error; err != nil {
			return nil, wrapLookup(ref, err)
		}
		return FromRoom(&room), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPropertyType, ref.Kind)
	}
}

func wrapLookup(ref Ref, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrPropertyNotFound, ref.Key())
	}
	return fmt.Errorf("failed to load %s: %w", ref.Key(), err)
}

// FromVilla converts a villa row into its resolved form.
func FromVilla(v *propertyModel.Villa) *Resolved {
	return &Resolved{
		Ref:         Ref{Kind: bookingModel.PropertyTypeVilla, ID: v.ID},
		NightlyRate: v.PricePerNight,
		DisplayName: v.Name,
		LocationKey: v.Location,
	}
}

// FromRoom converts a room row into its resolved form.
func FromRoom(r *propertyModel.Room) *Resolved {
	return &Resolved{
		Ref:         Ref{Kind: bookingModel.PropertyTypeRoom, ID: r.ID},
		NightlyRate: r.PricePerNight,
		DisplayName: fmt.Sprintf("Room %s (%s)", r.RoomNumber, r.RoomType),
		LocationKey: r.Building,
	}
}
