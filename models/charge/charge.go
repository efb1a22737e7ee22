package charge

import (
	"time"

	"gorm.io/datatypes"
)

// UnitType controls how a catalog price is applied to a booking
type UnitType string

const (
	UnitFixed      UnitType = "fixed"
	UnitPercentage UnitType = "percentage"
	UnitPerDay     UnitType = "per_day"
	UnitPerPerson  UnitType = "per_person"
	UnitPerKm      UnitType = "per_km"
)

// Category identifies which catalog table a booking charge references
type Category string

const (
	CategoryMealPlan       Category = "meal_plan"
	CategoryTransportation Category = "transportation"
	CategoryAdditional     Category = "additional"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryMealPlan, CategoryTransportation, CategoryAdditional:
		return true
	default:
		return false
	}
}

// MealPlan is a board option priced per unit type (usually per_person or per_day)
type MealPlan struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;unique" json:"name"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	UnitType  UnitType  `gorm:"type:varchar(20);not null;default:'per_person'" json:"unit_type"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Transportation is a transfer option; per_km options honour MinimumCharge
type Transportation struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null;unique" json:"name"`
	Price         float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	UnitType      UnitType  `gorm:"type:varchar(20);not null;default:'fixed'" json:"unit_type"`
	MinimumCharge *float64  `gorm:"type:decimal(10,2)" json:"minimum_charge,omitempty"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName keeps the plural the rest of the schema expects
func (Transportation) TableName() string {
	return "transportations"
}

// AdditionalCharge is an ad-hoc catalog fee (cleaning, late checkout, ...)
type AdditionalCharge struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;unique" json:"name"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	UnitType  UnitType  `gorm:"type:varchar(20);not null;default:'fixed'" json:"unit_type"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BookingCharge links a catalog option to a booking with a quantity
type BookingCharge struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID   uint           `gorm:"not null;index" json:"booking_id"`
	ChargeType  Category       `gorm:"type:varchar(20);not null" json:"charge_type"`
	ReferenceID uint           `gorm:"not null" json:"reference_id"`
	Quantity    int            `gorm:"type:int;not null;default:1" json:"quantity"`
	AppliedDate time.Time      `gorm:"type:date;not null" json:"applied_date"`
	Metadata    datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// ExtraChargeType is the pricing mode of a free-form extra charge
type ExtraChargeType string

const (
	ExtraChargeFixed      ExtraChargeType = "fixed"
	ExtraChargePercentage ExtraChargeType = "percentage"
)

// NormalizeExtraChargeType maps anything outside the allowed set to fixed.
func NormalizeExtraChargeType(v string) ExtraChargeType {
	if ExtraChargeType(v) == ExtraChargePercentage {
		return ExtraChargePercentage
	}
	return ExtraChargeFixed
}

// BookingExtraCharge is a free-form charge added during the stay
type BookingExtraCharge struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID   uint            `gorm:"not null;index" json:"booking_id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Amount      float64         `gorm:"type:decimal(10,2);not null" json:"amount"`
	Quantity    int             `gorm:"type:int;not null;default:1" json:"quantity"`
	ChargeType  ExtraChargeType `gorm:"type:varchar(20);not null;default:'fixed'" json:"charge_type"`
	CreatedBy   string          `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
