package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	attendanceerrors "go-hrpay/internal/attendance/errors"
	"go-hrpay/internal/employment"
	"go-hrpay/internal/events"
	"go-hrpay/internal/messaging/kafka"
	"go-hrpay/internal/schedule"
	"go-hrpay/internal/shared/contextutil"
	"go-hrpay/internal/timeclock"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	statusPresent = "PRESENT"
	statusLate    = "LATE"
)

// ScheduleSource resolves an employee's scheduled window for a work date.
// schedule.Service satisfies it.
type ScheduleSource interface {
	DayWindow(ctx context.Context, companyID, employeeID string, workDate time.Time) (*schedule.DayWindow, error)
	WeekdayBaselineStart(ctx context.Context, companyID, employeeID string, workDate time.Time) (*time.Time, error)
}

// PayFlagsSource resolves the per-employee overtime switches.
// employment.Service satisfies it.
type PayFlagsSource interface {
	PayFlags(ctx context.Context, companyID, employmentID string) (employment.PayFlags, error)
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest) (AttendanceResponse, error)
	Recalculate(ctx context.Context, companyID string, req RecalculateRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context, companyID, actorID string, canReadAll bool) ([]AttendanceResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	schedules ScheduleSource
	flags     PayFlagsSource
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	schedules ScheduleSource,
	flags PayFlagsSource,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		schedules: schedules,
		flags:     flags,
		outbox:    outboxRepo,
		logger:    l,
	}
}

func (s *service) ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("clock in requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("clock in begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	existing, err := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if err == nil && existing != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
	}

	rounded := timeclock.RoundCheckIn(&now)

	status := statusPresent
	window, err := s.schedules.DayWindow(ctx, companyID, employeeID, today)
	if err != nil {
		s.logger.Error("clock in schedule lookup failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if window != nil && rounded.After(window.Start) {
		status = statusLate
	}

	source := req.Source
	if source == "" {
		source = "MANUAL"
	}

	row := &Attendance{
		ID:             uuid.New(),
		CompanyID:      uuid.MustParse(companyID),
		EmployeeID:     uuid.MustParse(employeeID),
		AttendanceDate: today,
		RawClockIn:     now,
		ClockIn:        *rounded,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Status:         status,
		Source:         source,
		Notes:          req.Notes,
	}

	if err := qtx.Create(ctx, row); err != nil {
		s.logger.Error("clock in persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock in recorded",
		zap.String("request_id", rid),
		zap.String("attendance_id", row.ID.String()),
		zap.String("status", status),
	)
	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("clock out requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("clock out begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	row, err := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNoOpenAttendance
		}
		return AttendanceResponse{}, err
	}
	if row.RawClockOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedOut
	}

	row.RawClockOut = &now
	if req.Latitude != nil {
		row.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		row.Longitude = req.Longitude
	}
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := s.computeDay(ctx, companyID, row); err != nil {
		return AttendanceResponse{}, err
	}

	if err := qtx.Update(ctx, row); err != nil {
		s.logger.Error("clock out persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	if err := s.queueHoursEvent(ctx, tx, rid, row); err != nil {
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock out recorded",
		zap.String("request_id", rid),
		zap.String("attendance_id", row.ID.String()),
		zap.Float64("regular_hours", row.RegularHours),
		zap.Float64("overtime_hours", row.OvertimeHours),
		zap.Float64("weekend_overtime_hours", row.WeekendOvertimeHours),
	)
	return mapToResponse(*row), nil
}

// Recalculate re-derives the rounded punches and hours split for a closed
// day, picking up schedule or pay-flag changes made after the fact.
func (s *service) Recalculate(ctx context.Context, companyID string, req RecalculateRequest) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	day, err := time.Parse("2006-01-02", req.AttendanceDate)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDateFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("recalculate begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByEmployeeAndDate(ctx, companyID, req.EmployeeID, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrAttendanceNotFound
		}
		return AttendanceResponse{}, err
	}
	if row.RawClockOut == nil {
		return AttendanceResponse{}, attendanceerrors.ErrDayNotComplete
	}

	if err := s.computeDay(ctx, companyID, row); err != nil {
		return AttendanceResponse{}, err
	}

	if err := qtx.Update(ctx, row); err != nil {
		s.logger.Error("recalculate persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	if err := s.queueHoursEvent(ctx, tx, rid, row); err != nil {
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("attendance recalculated",
		zap.String("request_id", rid),
		zap.String("attendance_id", row.ID.String()),
		zap.String("attendance_date", req.AttendanceDate),
	)
	return mapToResponse(*row), nil
}

// computeDay rounds the raw punches and fills the hours split in place.
func (s *service) computeDay(ctx context.Context, companyID string, row *Attendance) error {
	employeeID := row.EmployeeID.String()

	roundedIn := timeclock.RoundCheckIn(&row.RawClockIn)
	roundedOut := timeclock.RoundCheckOut(row.RawClockOut)
	row.ClockIn = *roundedIn
	row.ClockOut = roundedOut

	window, err := s.schedules.DayWindow(ctx, companyID, employeeID, row.AttendanceDate)
	if err != nil {
		s.logger.Error("compute day schedule lookup failed", zap.Error(err))
		return err
	}
	var schedStart, schedEnd *time.Time
	if window != nil {
		schedStart = &window.Start
		schedEnd = &window.End
	}

	var baseline *time.Time
	weekday := row.AttendanceDate.Weekday()
	if weekday == time.Saturday || weekday == time.Sunday {
		baseline, err = s.schedules.WeekdayBaselineStart(ctx, companyID, employeeID, row.AttendanceDate)
		if err != nil {
			s.logger.Error("compute day baseline lookup failed", zap.Error(err))
			return err
		}
	}

	flags, err := s.flags.PayFlags(ctx, companyID, employeeID)
	if err != nil {
		s.logger.Error("compute day pay flags lookup failed", zap.Error(err))
		return err
	}

	result := timeclock.ComputeHours(timeclock.DayInput{
		CheckIn:              roundedIn,
		CheckOut:             roundedOut,
		ScheduleStart:        schedStart,
		ScheduleEnd:          schedEnd,
		WorkDate:             row.AttendanceDate,
		WeekdayBaselineStart: baseline,
		IsDriver:             flags.IsDriver,
		CountAllOT:           flags.CountAllOvertime,
	})

	row.RegularHours = result.Regular
	row.OvertimeHours = result.Overtime
	row.WeekendOvertimeHours = result.WeekendOvertime
	return nil
}

func (s *service) queueHoursEvent(ctx context.Context, tx *sql.Tx, rid string, row *Attendance) error {
	if s.outbox == nil {
		return nil
	}

	event := events.AttendanceHoursComputedEvent{
		EventType:            "attendance_hours_computed",
		RequestID:            rid,
		AttendanceID:         row.ID.String(),
		CompanyID:            row.CompanyID.String(),
		EmployeeID:           row.EmployeeID.String(),
		WorkDate:             row.AttendanceDate.Format("2006-01-02"),
		RegularHours:         row.RegularHours,
		OvertimeHours:        row.OvertimeHours,
		WeekendOvertimeHours: row.WeekendOvertimeHours,
		OccurredAt:           time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal hours event failed", zap.Error(err))
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "attendance",
		AggregateID:   row.ID.String(),
		EventType:     event.EventType,
		Topic:         events.AttendanceHoursComputedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("hours event outbox persist failed",
			zap.String("attendance_id", row.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) GetAll(ctx context.Context, companyID, actorID string, canReadAll bool) ([]AttendanceResponse, error) {
	var (
		rows []Attendance
		err  error
	)
	if canReadAll {
		rows, err = s.repo.FindAllByCompany(ctx, companyID)
	} else {
		if _, parseErr := uuid.Parse(actorID); parseErr != nil {
			return nil, attendanceerrors.ErrInvalidActorID
		}
		rows, err = s.repo.FindAllByCompanyAndEmployee(ctx, companyID, actorID)
	}
	if err != nil {
		return nil, err
	}
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:                   a.ID.String(),
		CompanyID:            a.CompanyID.String(),
		EmployeeID:           a.EmployeeID.String(),
		AttendanceDate:       a.AttendanceDate.Format("2006-01-02"),
		ClockIn:              a.ClockIn.Format(time.RFC3339),
		RawClockIn:           a.RawClockIn.Format(time.RFC3339),
		RegularHours:         a.RegularHours,
		OvertimeHours:        a.OvertimeHours,
		WeekendOvertimeHours: a.WeekendOvertimeHours,
		Latitude:             a.Latitude,
		Longitude:            a.Longitude,
		Status:               a.Status,
		Source:               a.Source,
		ExternalRef:          a.ExternalRef,
		Notes:                a.Notes,
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.FullName
	}
	if a.ClockOut != nil {
		v := a.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &v
	}
	if a.RawClockOut != nil {
		v := a.RawClockOut.Format(time.RFC3339)
		resp.RawClockOut = &v
	}
	return resp
}
