package schedule

import (
	"context"
	"database/sql"

	"go-hrpay/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=schedule_repo.go -destination=mock/schedule_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, s *WorkSchedule) error
	FindByEmployee(ctx context.Context, companyID, employeeID string) ([]WorkSchedule, error)
	FindByEmployeeAndWeekday(ctx context.Context, companyID, employeeID string, weekday int) (*WorkSchedule, error)
	Delete(ctx context.Context, companyID, employeeID string, weekday int) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Upsert(ctx context.Context, s *WorkSchedule) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "employee_id"}, {Name: "weekday"}},
			DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "updated_at"}),
		}).
		Create(s).Error
}

func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID string) ([]WorkSchedule, error) {
	var rows []WorkSchedule
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("weekday ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByEmployeeAndWeekday(ctx context.Context, companyID, employeeID string, weekday int) (*WorkSchedule, error) {
	var s WorkSchedule
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("weekday = ?", weekday).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Delete(ctx context.Context, companyID, employeeID string, weekday int) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("weekday = ?", weekday).
		Delete(&WorkSchedule{}).Error
}
