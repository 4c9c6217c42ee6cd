package holiday

import (
	"context"
	"database/sql"
	"time"

	"go-hrpay/internal/tenant"
	"go-hrpay/internal/workcal"

	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_repo.go -destination=mock/holiday_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, h *Holiday) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Holiday, error)
	Delete(ctx context.Context, companyID, id string) error

	// HolidaySet implements workcal.HolidaySource.
	HolidaySet(ctx context.Context, companyID string, start, end time.Time, employeeID string) (map[string]struct{}, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

var _ workcal.HolidaySource = (*repository)(nil)

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Holiday, error) {
	var rows []Holiday
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("holiday_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Holiday{}, "id = ?", id).Error
}

// HolidaySet returns the holiday dates inside [start, end] as a lookup set.
// Union-only holidays are included only when the employee is a union member.
func (r *repository) HolidaySet(ctx context.Context, companyID string, start, end time.Time, employeeID string) (map[string]struct{}, error) {
	q := r.db.WithContext(ctx).
		Model(&Holiday{}).
		Select("holiday_date").
		Scopes(tenant.Scope(companyID)).
		Where("holiday_date BETWEEN ? AND ?", start.Format("2006-01-02"), end.Format("2006-01-02"))

	if employeeID != "" {
		q = q.Where(
			"union_only = false OR EXISTS (SELECT 1 FROM employments e WHERE e.id = ? AND e.union_member AND e.deleted_at IS NULL)",
			employeeID,
		)
	} else {
		q = q.Where("union_only = false")
	}

	var dates []time.Time
	if err := q.Pluck("holiday_date", &dates).Error; err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[workcal.DateKey(d)] = struct{}{}
	}
	return set, nil
}
