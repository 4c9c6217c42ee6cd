package holiday

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Holiday is one company non-working day. UnionOnly holidays count only for
// union members.
type Holiday struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_holiday_company_date"`

	HolidayDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_holiday_company_date"`
	Name        string    `gorm:"type:varchar(120);not null"`
	UnionOnly   bool      `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_holidays_deleted_at"`
}

func (Holiday) TableName() string {
	return "holidays"
}
