package schedule

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkSchedule is one weekday row of an employee's recurring schedule.
// Times are local wall-clock values ("08:00"); overnight shifts have
// EndTime earlier than StartTime and spill into the next day.
type WorkSchedule struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_schedule_employee_weekday"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_schedule_employee_weekday"`

	// Weekday follows time.Weekday: 0 is Sunday.
	Weekday   int    `gorm:"not null;uniqueIndex:uq_schedule_employee_weekday"`
	StartTime string `gorm:"type:varchar(5);not null"`
	EndTime   string `gorm:"type:varchar(5);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_schedules_deleted_at"`
}

func (WorkSchedule) TableName() string {
	return "work_schedules"
}
