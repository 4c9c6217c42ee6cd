package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	scheduleerrors "go-hrpay/internal/schedule/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DayWindow is an employee's scheduled span anchored to a concrete date.
// End is on the same date even for overnight shifts; the hours calculation
// wraps it past midnight.
type DayWindow struct {
	Start time.Time
	End   time.Time
}

//go:generate mockgen -source=schedule_service.go -destination=mock/schedule_service_mock.go -package=mock
type Service interface {
	Upsert(ctx context.Context, companyID string, req UpsertScheduleRequest) (ScheduleResponse, error)
	GetForEmployee(ctx context.Context, companyID, employeeID string) ([]ScheduleResponse, error)
	Delete(ctx context.Context, companyID, employeeID string, weekday int) error

	// DayWindow resolves the schedule for one work date; nil when the
	// employee has no row for that weekday.
	DayWindow(ctx context.Context, companyID, employeeID string, workDate time.Time) (*DayWindow, error)
	// WeekdayBaselineStart is the employee's usual weekday start, used to
	// clamp early arrivals on weekend shifts.
	WeekdayBaselineStart(ctx context.Context, companyID, employeeID string, workDate time.Time) (*time.Time, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("schedule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedule.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Upsert(ctx context.Context, companyID string, req UpsertScheduleRequest) (ScheduleResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return ScheduleResponse{}, scheduleerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return ScheduleResponse{}, scheduleerrors.ErrInvalidEmployeeID
	}
	if req.Weekday < 0 || req.Weekday > 6 {
		return ScheduleResponse{}, scheduleerrors.ErrInvalidWeekday
	}
	if _, _, err := parseClock(req.StartTime); err != nil {
		return ScheduleResponse{}, err
	}
	if _, _, err := parseClock(req.EndTime); err != nil {
		return ScheduleResponse{}, err
	}

	row := &WorkSchedule{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		Weekday:    req.Weekday,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		s.logger.Error("upsert schedule failed",
			zap.String("employee_id", req.EmployeeID),
			zap.Int("weekday", req.Weekday),
			zap.Error(err),
		)
		return ScheduleResponse{}, err
	}

	s.logger.Info("schedule upserted",
		zap.String("employee_id", req.EmployeeID),
		zap.Int("weekday", req.Weekday),
		zap.String("start_time", req.StartTime),
		zap.String("end_time", req.EndTime),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetForEmployee(ctx context.Context, companyID, employeeID string) ([]ScheduleResponse, error) {
	rows, err := s.repo.FindByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	resp := make([]ScheduleResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp, nil
}

func (s *service) Delete(ctx context.Context, companyID, employeeID string, weekday int) error {
	if weekday < 0 || weekday > 6 {
		return scheduleerrors.ErrInvalidWeekday
	}
	return s.repo.Delete(ctx, companyID, employeeID, weekday)
}

func (s *service) DayWindow(ctx context.Context, companyID, employeeID string, workDate time.Time) (*DayWindow, error) {
	row, err := s.repo.FindByEmployeeAndWeekday(ctx, companyID, employeeID, int(workDate.Weekday()))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return anchor(row, workDate)
}

func (s *service) WeekdayBaselineStart(ctx context.Context, companyID, employeeID string, workDate time.Time) (*time.Time, error) {
	for weekday := int(time.Monday); weekday <= int(time.Friday); weekday++ {
		row, err := s.repo.FindByEmployeeAndWeekday(ctx, companyID, employeeID, weekday)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		h, m, err := parseClock(row.StartTime)
		if err != nil {
			return nil, err
		}
		t := atClock(workDate, h, m)
		return &t, nil
	}
	return nil, nil
}

func anchor(row *WorkSchedule, workDate time.Time) (*DayWindow, error) {
	sh, sm, err := parseClock(row.StartTime)
	if err != nil {
		return nil, err
	}
	eh, em, err := parseClock(row.EndTime)
	if err != nil {
		return nil, err
	}
	return &DayWindow{
		Start: atClock(workDate, sh, sm),
		End:   atClock(workDate, eh, em),
	}, nil
}

func parseClock(v string) (hour, minute int, err error) {
	if _, perr := fmt.Sscanf(v, "%d:%d", &hour, &minute); perr != nil {
		return 0, 0, scheduleerrors.ErrInvalidClockTime
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, scheduleerrors.ErrInvalidClockTime
	}
	return hour, minute, nil
}

func atClock(d time.Time, hour, minute int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, d.Location())
}

func mapToResponse(row WorkSchedule) ScheduleResponse {
	return ScheduleResponse{
		ID:         row.ID.String(),
		CompanyID:  row.CompanyID.String(),
		EmployeeID: row.EmployeeID.String(),
		Weekday:    row.Weekday,
		StartTime:  row.StartTime,
		EndTime:    row.EndTime,
	}
}
