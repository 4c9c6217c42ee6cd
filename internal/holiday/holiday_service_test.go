package holiday_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-hrpay/internal/holiday"
	holidayerrors "go-hrpay/internal/holiday/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	createFn func(ctx context.Context, h *holiday.Holiday) error
	rows     []holiday.Holiday
}

func (f *fakeRepo) WithTx(tx *sql.Tx) holiday.Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, h *holiday.Holiday) error {
	if f.createFn != nil {
		return f.createFn(ctx, h)
	}
	return nil
}

func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]holiday.Holiday, error) {
	return f.rows, nil
}

func (f *fakeRepo) Delete(ctx context.Context, companyID, id string) error { return nil }

func (f *fakeRepo) HolidaySet(ctx context.Context, companyID string, start, end time.Time, employeeID string) (map[string]struct{}, error) {
	return nil, nil
}

func TestHolidayCreate(t *testing.T) {
	companyID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		var created *holiday.Holiday
		repo := &fakeRepo{
			createFn: func(_ context.Context, h *holiday.Holiday) error {
				created = h
				return nil
			},
		}
		svc := holiday.NewService(repo)

		resp, err := svc.Create(context.Background(), companyID, holiday.CreateHolidayRequest{
			HolidayDate: "2026-12-25",
			Name:        "Christmas Day",
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "2026-12-25", resp.HolidayDate)
		assert.False(t, created.UnionOnly)
	})

	t.Run("negative malformed date", func(t *testing.T) {
		svc := holiday.NewService(&fakeRepo{})

		_, err := svc.Create(context.Background(), companyID, holiday.CreateHolidayRequest{
			HolidayDate: "25/12/2026",
			Name:        "Christmas Day",
		})
		assert.ErrorIs(t, err, holidayerrors.ErrInvalidHolidayDate)
	})

	t.Run("negative duplicate date maps to conflict", func(t *testing.T) {
		repo := &fakeRepo{
			createFn: func(context.Context, *holiday.Holiday) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "uq_holiday_company_date"}
			},
		}
		svc := holiday.NewService(repo)

		_, err := svc.Create(context.Background(), companyID, holiday.CreateHolidayRequest{
			HolidayDate: "2026-12-25",
			Name:        "Christmas Day",
		})
		assert.ErrorIs(t, err, holidayerrors.ErrHolidayAlreadyExists)
	})
}

func TestHolidayGetAll(t *testing.T) {
	repo := &fakeRepo{
		rows: []holiday.Holiday{
			{
				ID:          uuid.New(),
				CompanyID:   uuid.New(),
				HolidayDate: time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC),
				Name:        "Labour Day",
				UnionOnly:   true,
			},
		},
	}
	svc := holiday.NewService(repo)

	resp, err := svc.GetAll(context.Background(), uuid.NewString())
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "2026-05-01", resp[0].HolidayDate)
	assert.True(t, resp[0].UnionOnly)
}
