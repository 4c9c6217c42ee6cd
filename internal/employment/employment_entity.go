package employment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_employments_company"`

	EmployeeNumber string `gorm:"type:varchar(20);not null;uniqueIndex:uq_employment_number"`
	FullName       string `gorm:"type:varchar(120);not null"`
	Email          string `gorm:"type:varchar(120);uniqueIndex:uq_employment_email"`
	Phone          string `gorm:"type:varchar(30)"`

	HireDate time.Time `gorm:"type:date;not null"`
	// SeniorityStartDate overrides HireDate for entitlement math when set;
	// rehired employees keep their original seniority.
	SeniorityStartDate *time.Time `gorm:"type:date"`

	// Payroll flags read by the timeclock engine.
	IsDriver         bool `gorm:"not null;default:false"`
	CountAllOvertime bool `gorm:"not null;default:false"`
	UnionMember      bool `gorm:"not null;default:false"`

	EmploymentStatus string     `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	TerminationDate  *time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_employments_deleted_at"`
}

func (Employment) TableName() string {
	return "employments"
}
