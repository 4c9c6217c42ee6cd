package attendance

import (
	"context"
	"database/sql"
	"testing"
	"time"

	attendanceerrors "go-hrpay/internal/attendance/errors"
	"go-hrpay/internal/employment"
	"go-hrpay/internal/messaging/kafka"
	"go-hrpay/internal/schedule"
	"go-hrpay/internal/timeclock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn func(ctx context.Context, a *Attendance) error
	findFn   func(ctx context.Context, companyID, employeeID string, date time.Time) (*Attendance, error)
	updateFn func(ctx context.Context, a *Attendance) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, a *Attendance) error {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return nil
}

func (f *fakeRepo) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Attendance, error) {
	if f.findFn != nil {
		return f.findFn(ctx, companyID, employeeID, date)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]Attendance, error) {
	return nil, nil
}

func (f *fakeRepo) FindAllByCompanyAndEmployee(ctx context.Context, companyID, employeeID string) ([]Attendance, error) {
	return nil, nil
}

func (f *fakeRepo) Update(ctx context.Context, a *Attendance) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, a)
	}
	return nil
}

type fakeSchedules struct {
	windowFn   func(ctx context.Context, companyID, employeeID string, workDate time.Time) (*schedule.DayWindow, error)
	baselineFn func(ctx context.Context, companyID, employeeID string, workDate time.Time) (*time.Time, error)
}

func (f *fakeSchedules) DayWindow(ctx context.Context, companyID, employeeID string, workDate time.Time) (*schedule.DayWindow, error) {
	if f.windowFn != nil {
		return f.windowFn(ctx, companyID, employeeID, workDate)
	}
	return nil, nil
}

func (f *fakeSchedules) WeekdayBaselineStart(ctx context.Context, companyID, employeeID string, workDate time.Time) (*time.Time, error) {
	if f.baselineFn != nil {
		return f.baselineFn(ctx, companyID, employeeID, workDate)
	}
	return nil, nil
}

type fakeFlags struct {
	flags employment.PayFlags
}

func (f *fakeFlags) PayFlags(ctx context.Context, companyID, employmentID string) (employment.PayFlags, error) {
	return f.flags, nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error { return nil }

func officeWindow(workDate time.Time) *schedule.DayWindow {
	return &schedule.DayWindow{
		Start: time.Date(workDate.Year(), workDate.Month(), workDate.Day(), 8, 0, 0, 0, time.UTC),
		End:   time.Date(workDate.Year(), workDate.Month(), workDate.Day(), 17, 0, 0, 0, time.UTC),
	}
}

func TestClockIn(t *testing.T) {
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	ctx := context.Background()

	t.Run("success rounds the punch", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		var created *Attendance
		repo := &fakeRepo{
			createFn: func(_ context.Context, a *Attendance) error {
				created = a
				return nil
			},
		}
		schedules := &fakeSchedules{
			windowFn: func(_ context.Context, _, _ string, workDate time.Time) (*schedule.DayWindow, error) {
				return officeWindow(workDate), nil
			},
		}

		svc := NewService(db, repo, schedules, &fakeFlags{}, &fakeOutbox{})
		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.ClockIn(ctx, companyID, employeeID, ClockInRequest{})
		require.NoError(t, err)
		require.NotNil(t, created)

		expected := timeclock.RoundCheckIn(&created.RawClockIn)
		assert.True(t, created.ClockIn.Equal(*expected))
		assert.Zero(t, created.ClockIn.Second())
		assert.Contains(t, []string{statusPresent, statusLate}, resp.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative duplicate day", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := &fakeRepo{
			findFn: func(context.Context, string, string, time.Time) (*Attendance, error) {
				return &Attendance{ID: uuid.New()}, nil
			},
		}

		svc := NewService(db, repo, &fakeSchedules{}, &fakeFlags{}, &fakeOutbox{})
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err = svc.ClockIn(ctx, companyID, employeeID, ClockInRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyClockedIn)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestClockOut(t *testing.T) {
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	ctx := context.Background()

	t.Run("negative without clock in", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		svc := NewService(db, &fakeRepo{}, &fakeSchedules{}, &fakeFlags{}, &fakeOutbox{})
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err = svc.ClockOut(ctx, companyID, employeeID, ClockOutRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrNoOpenAttendance)
	})

	t.Run("negative double clock out", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		out := time.Now().UTC()
		repo := &fakeRepo{
			findFn: func(context.Context, string, string, time.Time) (*Attendance, error) {
				return &Attendance{ID: uuid.New(), RawClockOut: &out}, nil
			},
		}

		svc := NewService(db, repo, &fakeSchedules{}, &fakeFlags{}, &fakeOutbox{})
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err = svc.ClockOut(ctx, companyID, employeeID, ClockOutRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyClockedOut)
	})

	t.Run("success computes hours and queues event", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		now := time.Now().UTC()
		today := now.Truncate(24 * time.Hour)

		var updated *Attendance
		open := &Attendance{
			ID:             uuid.New(),
			CompanyID:      uuid.MustParse(companyID),
			EmployeeID:     uuid.MustParse(employeeID),
			AttendanceDate: today,
			RawClockIn:     today.Add(7*time.Hour + 58*time.Minute),
			ClockIn:        today.Add(8 * time.Hour),
		}
		repo := &fakeRepo{
			findFn: func(context.Context, string, string, time.Time) (*Attendance, error) {
				return open, nil
			},
			updateFn: func(_ context.Context, a *Attendance) error {
				updated = a
				return nil
			},
		}
		schedules := &fakeSchedules{
			windowFn: func(_ context.Context, _, _ string, workDate time.Time) (*schedule.DayWindow, error) {
				return officeWindow(workDate), nil
			},
		}
		outbox := &fakeOutbox{}

		svc := NewService(db, repo, schedules, &fakeFlags{}, outbox)
		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.ClockOut(ctx, companyID, employeeID, ClockOutRequest{})
		require.NoError(t, err)
		require.NotNil(t, updated)
		require.NotNil(t, updated.RawClockOut)
		require.NotNil(t, updated.ClockOut)

		window := officeWindow(today)
		want := computeExpected(t, updated, window)
		assert.Equal(t, want.Regular, resp.RegularHours)
		assert.Equal(t, want.Overtime, resp.OvertimeHours)

		require.Len(t, outbox.created, 1)
		assert.Equal(t, "attendance_hours_computed", outbox.created[0].EventType)
		assert.Equal(t, "hr.attendance.hours.v1", outbox.created[0].Topic)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// computeExpected mirrors the production pipeline on a captured row so the
// test stays valid no matter what wall-clock time it runs at.
func computeExpected(t *testing.T, row *Attendance, window *schedule.DayWindow) timeclock.HoursResult {
	t.Helper()
	return timeclock.ComputeHours(timeclock.DayInput{
		CheckIn:       timeclock.RoundCheckIn(&row.RawClockIn),
		CheckOut:      timeclock.RoundCheckOut(row.RawClockOut),
		ScheduleStart: &window.Start,
		ScheduleEnd:   &window.End,
		WorkDate:      row.AttendanceDate,
	})
}

func TestRecalculate(t *testing.T) {
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	ctx := context.Background()

	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	t.Run("success reapplies rounding and the overtime rule", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		in := monday.Add(7*time.Hour + 58*time.Minute)
		out := monday.Add(18*time.Hour + 2*time.Minute)

		var updated *Attendance
		repo := &fakeRepo{
			findFn: func(context.Context, string, string, time.Time) (*Attendance, error) {
				return &Attendance{
					ID:             uuid.New(),
					CompanyID:      uuid.MustParse(companyID),
					EmployeeID:     uuid.MustParse(employeeID),
					AttendanceDate: monday,
					RawClockIn:     in,
					RawClockOut:    &out,
				}, nil
			},
			updateFn: func(_ context.Context, a *Attendance) error {
				updated = a
				return nil
			},
		}
		schedules := &fakeSchedules{
			windowFn: func(_ context.Context, _, _ string, workDate time.Time) (*schedule.DayWindow, error) {
				return officeWindow(workDate), nil
			},
		}

		svc := NewService(db, repo, schedules, &fakeFlags{}, &fakeOutbox{})
		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Recalculate(ctx, companyID, RecalculateRequest{
			EmployeeID:     employeeID,
			AttendanceDate: "2026-03-02",
		})
		require.NoError(t, err)
		require.NotNil(t, updated)

		// 07:58 rounds to 08:00 and 18:02 to 18:00; the 08:00-17:00 window
		// gives 9h regular and the spill past 17:00 gives 1h overtime.
		assert.Equal(t, 9.0, resp.RegularHours)
		assert.Equal(t, 1.0, resp.OvertimeHours)
		assert.Zero(t, resp.WeekendOvertimeHours)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("weekend day lands in weekend overtime", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		saturday := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
		in := saturday.Add(7 * time.Hour)
		out := saturday.Add(13 * time.Hour)

		repo := &fakeRepo{
			findFn: func(context.Context, string, string, time.Time) (*Attendance, error) {
				return &Attendance{
					ID:             uuid.New(),
					CompanyID:      uuid.MustParse(companyID),
					EmployeeID:     uuid.MustParse(employeeID),
					AttendanceDate: saturday,
					RawClockIn:     in,
					RawClockOut:    &out,
				}, nil
			},
		}
		baseline := saturday.Add(8 * time.Hour)
		schedules := &fakeSchedules{
			baselineFn: func(context.Context, string, string, time.Time) (*time.Time, error) {
				return &baseline, nil
			},
		}

		svc := NewService(db, repo, schedules, &fakeFlags{}, &fakeOutbox{})
		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Recalculate(ctx, companyID, RecalculateRequest{
			EmployeeID:     employeeID,
			AttendanceDate: "2026-03-07",
		})
		require.NoError(t, err)

		// The 07:00 arrival is clamped to the 08:00 weekday baseline.
		assert.Zero(t, resp.RegularHours)
		assert.Zero(t, resp.OvertimeHours)
		assert.Equal(t, 5.0, resp.WeekendOvertimeHours)
	})

	t.Run("negative open day", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := &fakeRepo{
			findFn: func(context.Context, string, string, time.Time) (*Attendance, error) {
				return &Attendance{ID: uuid.New(), RawClockIn: monday.Add(8 * time.Hour)}, nil
			},
		}

		svc := NewService(db, repo, &fakeSchedules{}, &fakeFlags{}, &fakeOutbox{})
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err = svc.Recalculate(ctx, companyID, RecalculateRequest{
			EmployeeID:     employeeID,
			AttendanceDate: "2026-03-02",
		})
		assert.ErrorIs(t, err, attendanceerrors.ErrDayNotComplete)
	})

	t.Run("negative malformed date", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		svc := NewService(db, &fakeRepo{}, &fakeSchedules{}, &fakeFlags{}, &fakeOutbox{})

		_, err = svc.Recalculate(ctx, companyID, RecalculateRequest{
			EmployeeID:     employeeID,
			AttendanceDate: "02-03-2026",
		})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidDateFormat)
	})
}
