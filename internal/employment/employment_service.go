package employment

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	employmenterrors "go-hrpay/internal/employment/errors"
	"go-hrpay/internal/events"
	"go-hrpay/internal/leave"
	"go-hrpay/internal/messaging/kafka"
	"go-hrpay/internal/shared/contextutil"
	"go-hrpay/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const serviceDatesKeyPrefix = "employments:dates:"

func serviceDatesKey(companyID, employmentID string) string {
	return serviceDatesKeyPrefix + companyID + ":" + employmentID
}

//go:generate mockgen -source=employment_service.go -destination=mock/employment_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateEmploymentRequest) (EmploymentResponse, error)
	GetAll(ctx context.Context, companyID string) ([]EmploymentResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmploymentResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmploymentRequest) (EmploymentResponse, error)
	Delete(ctx context.Context, companyID, id string) error

	// ServiceDates feeds the leave balance engine.
	ServiceDates(ctx context.Context, companyID, employmentID string) (leave.ServiceDates, error)
	// PayFlags feeds the timeclock hours split.
	PayFlags(ctx context.Context, companyID, employmentID string) (PayFlags, error)
}

// PayFlags are the per-employee switches the hours calculation reads.
type PayFlags struct {
	IsDriver         bool
	CountAllOvertime bool
	UnionMember      bool
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employment.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateEmploymentRequest) (EmploymentResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employment requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("email", req.Email),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmploymentResponse{}, employmenterrors.ErrInvalidCompanyID
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		s.logger.Warn("create employment invalid hire_date", zap.String("hire_date", req.HireDate))
		return EmploymentResponse{}, employmenterrors.ErrInvalidHireDate
	}

	var seniorityStart *time.Time
	if req.SeniorityStartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.SeniorityStartDate)
		if err != nil {
			return EmploymentResponse{}, employmenterrors.ErrInvalidSeniorityDate
		}
		seniorityStart = &parsed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employment begin tx failed", zap.Error(err))
		return EmploymentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if req.EmployeeNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, companyID, "employee_number")
		if err != nil {
			s.logger.Error("create employment generate number failed", zap.Error(err))
			return EmploymentResponse{}, err
		}
		req.EmployeeNumber = fmt.Sprintf("EMP-%06d", nextVal)
	}

	e := &Employment{
		ID:                 uuid.New(),
		CompanyID:          companyUUID,
		EmployeeNumber:     req.EmployeeNumber,
		FullName:           req.FullName,
		Email:              req.Email,
		Phone:              req.Phone,
		HireDate:           hireDate,
		SeniorityStartDate: seniorityStart,
		IsDriver:           req.IsDriver,
		CountAllOvertime:   req.CountAllOvertime,
		UnionMember:        req.UnionMember,
		EmploymentStatus:   "ACTIVE",
	}

	if err := qtx.Create(ctx, e); err != nil {
		s.logger.Error("create employment persist failed", zap.Error(err))
		return EmploymentResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.EmploymentCreatedEvent{
			EventType:    "employment_created",
			RequestID:    rid,
			EmploymentID: e.ID.String(),
			CompanyID:    companyID,
			HireDate:     req.HireDate,
			OccurredAt:   time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal employment event failed", zap.Error(err))
			return EmploymentResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "employment",
			AggregateID:   e.ID.String(),
			EventType:     event.EventType,
			Topic:         events.EmploymentCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create employment outbox persist failed", zap.Error(err))
			return EmploymentResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employment commit failed", zap.Error(err))
		return EmploymentResponse{}, err
	}

	s.logger.Info("create employment success",
		zap.String("request_id", rid),
		zap.String("employment_id", e.ID.String()),
		zap.String("employee_number", e.EmployeeNumber),
	)
	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]EmploymentResponse, error) {
	records, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get all employments failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(records), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (EmploymentResponse, error) {
	e, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmploymentResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateEmploymentRequest) (EmploymentResponse, error) {
	s.logger.Debug("update employment requested",
		zap.String("company_id", companyID),
		zap.String("employment_id", id),
	)

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return EmploymentResponse{}, employmenterrors.ErrInvalidHireDate
	}

	var seniorityStart *time.Time
	if req.SeniorityStartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.SeniorityStartDate)
		if err != nil {
			return EmploymentResponse{}, employmenterrors.ErrInvalidSeniorityDate
		}
		seniorityStart = &parsed
	}

	var terminationDate *time.Time
	if req.TerminationDate != "" {
		parsed, err := time.Parse("2006-01-02", req.TerminationDate)
		if err != nil {
			return EmploymentResponse{}, employmenterrors.ErrInvalidHireDate
		}
		terminationDate = &parsed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employment begin tx failed", zap.Error(err))
		return EmploymentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmploymentResponse{}, mapRepositoryError(err)
	}

	e.FullName = req.FullName
	e.Email = req.Email
	e.Phone = req.Phone
	e.HireDate = hireDate
	e.SeniorityStartDate = seniorityStart
	e.IsDriver = req.IsDriver
	e.CountAllOvertime = req.CountAllOvertime
	e.UnionMember = req.UnionMember
	if req.EmploymentStatus != "" {
		e.EmploymentStatus = req.EmploymentStatus
	}
	e.TerminationDate = terminationDate

	if err := qtx.Update(ctx, e); err != nil {
		s.logger.Error("update employment persist failed", zap.Error(err))
		return EmploymentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employment commit failed", zap.Error(err))
		return EmploymentResponse{}, err
	}

	s.invalidateDatesCache(ctx, companyID, id)
	s.logger.Info("update employment success", zap.String("employment_id", id))
	return mapToResponse(*e), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employment begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, companyID, id); err != nil {
		s.logger.Error("delete employment failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employment commit failed", zap.Error(err))
		return err
	}

	s.invalidateDatesCache(ctx, companyID, id)
	s.logger.Info("delete employment success", zap.String("employment_id", id))
	return nil
}

// ServiceDates returns hire/seniority dates for the balance engine. The pair
// changes rarely, so it sits in redis for an hour with singleflight guarding
// the refill.
func (s *service) ServiceDates(ctx context.Context, companyID, employmentID string) (leave.ServiceDates, error) {
	cacheKey := serviceDatesKey(companyID, employmentID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var dto serviceDatesDTO
			if json.Unmarshal([]byte(cached), &dto) == nil {
				return dto.toServiceDates(), nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		e, err := s.repo.FindByIDAndCompany(ctx, companyID, employmentID)
		if err != nil {
			return leave.ServiceDates{}, mapRepositoryError(err)
		}

		hire := e.HireDate
		dates := leave.ServiceDates{
			HireDate:           &hire,
			SeniorityStartDate: e.SeniorityStartDate,
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(newServiceDatesDTO(dates)); err == nil {
				s.rdb.Set(ctx, cacheKey, payload, time.Hour)
			}
		}
		return dates, nil
	})
	if err != nil {
		return leave.ServiceDates{}, err
	}
	return v.(leave.ServiceDates), nil
}

func (s *service) PayFlags(ctx context.Context, companyID, employmentID string) (PayFlags, error) {
	e, err := s.repo.FindByIDAndCompany(ctx, companyID, employmentID)
	if err != nil {
		return PayFlags{}, mapRepositoryError(err)
	}
	return PayFlags{
		IsDriver:         e.IsDriver,
		CountAllOvertime: e.CountAllOvertime,
		UnionMember:      e.UnionMember,
	}, nil
}

func (s *service) invalidateDatesCache(ctx context.Context, companyID, employmentID string) {
	if s.rdb == nil {
		return
	}
	key := serviceDatesKey(companyID, employmentID)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.logger.Error("invalidate service dates cache failed", zap.String("key", key), zap.Error(err))
	}
}

type serviceDatesDTO struct {
	HireDate           *string `json:"hire_date"`
	SeniorityStartDate *string `json:"seniority_start_date"`
}

func newServiceDatesDTO(d leave.ServiceDates) serviceDatesDTO {
	var dto serviceDatesDTO
	if d.HireDate != nil {
		v := d.HireDate.Format("2006-01-02")
		dto.HireDate = &v
	}
	if d.SeniorityStartDate != nil {
		v := d.SeniorityStartDate.Format("2006-01-02")
		dto.SeniorityStartDate = &v
	}
	return dto
}

func (dto serviceDatesDTO) toServiceDates() leave.ServiceDates {
	var dates leave.ServiceDates
	if dto.HireDate != nil {
		if t, err := time.Parse("2006-01-02", *dto.HireDate); err == nil {
			dates.HireDate = &t
		}
	}
	if dto.SeniorityStartDate != nil {
		if t, err := time.Parse("2006-01-02", *dto.SeniorityStartDate); err == nil {
			dates.SeniorityStartDate = &t
		}
	}
	return dates
}

func mapToResponse(e Employment) EmploymentResponse {
	resp := EmploymentResponse{
		ID:               e.ID.String(),
		CompanyID:        e.CompanyID.String(),
		EmployeeNumber:   e.EmployeeNumber,
		FullName:         e.FullName,
		Email:            e.Email,
		Phone:            e.Phone,
		HireDate:         e.HireDate.Format("2006-01-02"),
		IsDriver:         e.IsDriver,
		CountAllOvertime: e.CountAllOvertime,
		UnionMember:      e.UnionMember,
		EmploymentStatus: e.EmploymentStatus,
	}
	if e.SeniorityStartDate != nil {
		v := e.SeniorityStartDate.Format("2006-01-02")
		resp.SeniorityStartDate = &v
	}
	if e.TerminationDate != nil {
		v := e.TerminationDate.Format("2006-01-02")
		resp.TerminationDate = &v
	}
	return resp
}

func mapToListResponse(records []Employment) []EmploymentResponse {
	resp := make([]EmploymentResponse, len(records))
	for i, e := range records {
		resp[i] = mapToResponse(e)
	}
	return resp
}
