package staff

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Role of a staff member
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleFrontDesk Role = "front_desk"
)

// Staff is an employee who may receive payment notifications
type Staff struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid     string `gorm:"type:varchar(255);not null;unique" json:"uuid"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);not null;unique" json:"email"`
	Role     Role   `gorm:"type:varchar(20);not null" json:"role"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	// Managed properties as "villa:3" / "room:12"; admins cover every property
	Properties  StringSlice `gorm:"type:json" json:"properties"`
	Permissions StringSlice `gorm:"type:json" json:"permissions"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName sets the table name for the Staff model
func (Staff) TableName() string {
	return "staff"
}

// Manages reports whether the staff member is assigned to the property key.
func (s *Staff) Manages(propertyKey string) bool {
	if s.Role == RoleAdmin {
		return true
	}
	for _, p := range s.Properties {
		if p == propertyKey {
			return true
		}
	}
	return false
}

// StringSlice stores a list of strings in a JSON column
type StringSlice []string

// Scan implements the Scanner interface for database deserialization
func (ss *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*ss = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, ss)
	case string:
		return json.Unmarshal([]byte(v), ss)
	default:
		return errors.New("type assertion to []byte failed")
	}
}

// Value implements the driver Valuer interface for database serialization
func (ss StringSlice) Value() (driver.Value, error) {
	if ss == nil {
		return nil, nil
	}
	return json.Marshal(ss)
}
