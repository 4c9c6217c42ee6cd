package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-hrpay/internal/events"
	leaveerrors "go-hrpay/internal/leave/errors"
	"go-hrpay/internal/messaging/kafka"
	"go-hrpay/internal/shared/apperror"
	"go-hrpay/internal/shared/contextutil"
	"go-hrpay/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusSubmitted = "SUBMITTED"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCanceled  = "CANCELLED"
)

const balanceCacheKeyPrefix = "leave:balance:"

func balanceCacheKey(companyID, employeeID string) string {
	return balanceCacheKeyPrefix + companyID + ":" + employeeID
}

// EmploymentSource resolves the employment dates the balance engine needs.
type EmploymentSource interface {
	ServiceDates(ctx context.Context, companyID, employeeID string) (ServiceDates, error)
}

// DaysCounter counts working days in a span (weekends and company holidays
// excluded). workcal.Calculator satisfies it.
type DaysCounter interface {
	Count(ctx context.Context, start, end time.Time, companyID, employeeID string) (float64, error)
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, companyID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error)
	Submit(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (LeaveResponse, error)
	Cancel(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error)
	Balance(ctx context.Context, companyID, employeeID string, asOf time.Time) (BalanceResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	engine     *BalanceEngine
	employment EmploymentSource
	days       DaysCounter
	counter    counter.Repository
	outbox     kafka.OutboxRepository
	rdb        *redis.Client
	sf         *singleflight.Group
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	engine *BalanceEngine,
	employment EmploymentSource,
	days DaysCounter,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		engine:     engine,
		employment: employment,
		days:       days,
		counter:    counterRepo,
		outbox:     outboxRepo,
		rdb:        rdb,
		sf:         &singleflight.Group{},
		logger:     l,
	}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	companyUUID, employeeUUID, createdByUUID, startDate, endDate, err := validateCreateRequest(companyID, actorID, req)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	dates, err := s.employment.ServiceDates(ctx, companyID, req.EmployeeID)
	if err != nil {
		s.logger.Error("create leave employment lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	totalDays, err := s.days.Count(ctx, startDate, endDate, companyID, req.EmployeeID)
	if err != nil {
		s.logger.Error("create leave working days count failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	decision, err := s.engine.CanApprove(ctx, ApprovalRequest{
		CompanyID:  companyID,
		EmployeeID: req.EmployeeID,
		LeaveType:  req.LeaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		Days:       totalDays,
		Dates:      dates,
		AsOf:       time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("create leave balance check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !decision.OK {
		s.logger.Warn("create leave rejected by balance check",
			zap.String("company_id", companyID),
			zap.String("employee_id", req.EmployeeID),
			zap.String("reason", decision.Reason),
		)
		return LeaveResponse{}, rejectError(decision.Reason)
	}

	nextVal, err := s.counter.GetNextValue(ctx, companyID, "leave_request")
	if err != nil {
		s.logger.Error("create leave generate request number failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l := &Leave{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		EmployeeID:    employeeUUID,
		RequestNumber: fmt.Sprintf("LV-%06d", nextVal),
		LeaveType:     req.LeaveType,
		StartDate:     startDate,
		EndDate:       endDate,
		TotalDays:     totalDays,
		Reason:        req.Reason,
		Status:        StatusPending,
		CreatedBy:     createdByUUID,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.invalidateBalanceCache(ctx, companyID, req.EmployeeID)
	s.logger.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("request_number", l.RequestNumber),
		zap.Float64("total_days", totalDays),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) Submit(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error) {
	return s.transition(ctx, companyID, actorID, id, StatusSubmitted, nil)
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error) {
	return s.transition(ctx, companyID, actorID, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (LeaveResponse, error) {
	return s.transition(ctx, companyID, actorID, id, StatusRejected, &rejectionReason)
}

func (s *service) Cancel(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error) {
	return s.transition(ctx, companyID, actorID, id, StatusCanceled, nil)
}

func (s *service) transition(ctx context.Context, companyID, actorID, id, targetStatus string, rejectionReason *string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("leave status transition requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("target_status", targetStatus),
	)

	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave transition begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if !isAllowedStatusTransition(l.Status, targetStatus) {
		s.logger.Warn("leave transition invalid",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", targetStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	var remaining float64
	if targetStatus == StatusApproved {
		// The balance may have moved since the request was created; the
		// approval re-runs the gate against current history, skipping the
		// request's own row in the overlap check.
		dates, err := s.employment.ServiceDates(ctx, companyID, l.EmployeeID.String())
		if err != nil {
			s.logger.Error("leave approve employment lookup failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		excludeID := l.ID.String()
		decision, err := s.engine.CanApprove(ctx, ApprovalRequest{
			CompanyID:      companyID,
			EmployeeID:     l.EmployeeID.String(),
			LeaveType:      l.LeaveType,
			StartDate:      l.StartDate,
			EndDate:        l.EndDate,
			Days:           l.TotalDays,
			Dates:          dates,
			AsOf:           time.Now().UTC(),
			ExcludeLeaveID: &excludeID,
		})
		if err != nil {
			s.logger.Error("leave approve balance check failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if !decision.OK {
			s.logger.Warn("leave approve rejected by balance check",
				zap.String("leave_id", id),
				zap.String("reason", decision.Reason),
			)
			return LeaveResponse{}, rejectError(decision.Reason)
		}
		remaining = decision.Remaining
	}

	l.Status = targetStatus
	switch targetStatus {
	case StatusApproved:
		l.ApprovedBy = &actorUUID
		now := time.Now().UTC()
		l.ApprovedAt = &now
		l.RejectionReason = nil
	case StatusRejected:
		if rejectionReason == nil || *rejectionReason == "" {
			return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
		}
		l.ApprovedBy = nil
		l.ApprovedAt = nil
		l.RejectionReason = rejectionReason
	default:
		l.ApprovedBy = nil
		l.ApprovedAt = nil
		l.RejectionReason = nil
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("leave transition persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if s.outbox != nil && (targetStatus == StatusApproved || targetStatus == StatusRejected) {
		if err := s.queueDecisionEvent(ctx, tx, rid, l, remaining); err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave transition commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.invalidateBalanceCache(ctx, companyID, l.EmployeeID.String())
	s.logger.Info("leave transition success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*l), nil
}

func (s *service) queueDecisionEvent(ctx context.Context, tx *sql.Tx, rid string, l *Leave, remaining float64) error {
	event := events.LeaveDecisionRecordedEvent{
		EventType:  "leave_decision_recorded",
		RequestID:  rid,
		LeaveID:    l.ID.String(),
		CompanyID:  l.CompanyID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		Decision:   l.Status,
		Remaining:  remaining,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal leave decision event failed", zap.Error(err))
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave",
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveDecisionTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("leave decision outbox persist failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) Balance(ctx context.Context, companyID, employeeID string, asOf time.Time) (BalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return BalanceResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	cacheable := workDateEqual(asOf, time.Now().UTC())
	cacheKey := balanceCacheKey(companyID, employeeID)

	if cacheable && s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp BalanceResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey+asOf.Format("2006-01-02"), func() (interface{}, error) {
		dates, err := s.employment.ServiceDates(ctx, companyID, employeeID)
		if err != nil {
			return BalanceResponse{}, err
		}

		sick, err := s.engine.SickRemaining(ctx, companyID, employeeID, dates, asOf)
		if err != nil {
			return BalanceResponse{}, err
		}
		vac, err := s.engine.VacationRemaining(ctx, companyID, employeeID, dates, asOf)
		if err != nil {
			return BalanceResponse{}, err
		}

		resp := BalanceResponse{
			EmployeeID:        employeeID,
			AsOf:              asOf.Format("2006-01-02"),
			SickRemaining:     sick,
			VacationRemaining: vac,
		}

		if cacheable && s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, payload, 10*time.Minute)
			}
		}
		return resp, nil
	})
	if err != nil {
		return BalanceResponse{}, err
	}
	return v.(BalanceResponse), nil
}

func (s *service) invalidateBalanceCache(ctx context.Context, companyID, employeeID string) {
	if s.rdb == nil {
		return
	}
	key := balanceCacheKey(companyID, employeeID)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.logger.Error("invalidate balance cache failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	if currentStatus == targetStatus {
		return currentStatus == StatusPending
	}

	switch currentStatus {
	case StatusPending:
		return targetStatus == StatusSubmitted || targetStatus == StatusCanceled
	case StatusSubmitted:
		return targetStatus == StatusApproved || targetStatus == StatusRejected || targetStatus == StatusCanceled
	default:
		return false
	}
}

// rejectError converts a balance-check rejection into the error surfaced to
// the caller; the reason string is shown verbatim.
func rejectError(reason string) error {
	return apperror.New(apperror.CodeConflict, reason, http.StatusConflict)
}

func validateCreateRequest(companyID, actorID string, req CreateLeaveRequest) (uuid.UUID, uuid.UUID, uuid.UUID, time.Time, time.Time, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidEmployeeID
	}
	createdByUUID, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidActorID
	}
	if !IsKnownLeaveType(req.LeaveType) {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrUnknownLeaveType
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return companyUUID, employeeUUID, createdByUUID, startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func workDateEqual(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:            l.ID.String(),
		CompanyID:     l.CompanyID.String(),
		EmployeeID:    l.EmployeeID.String(),
		RequestNumber: l.RequestNumber,
		LeaveType:     l.LeaveType,
		StartDate:     l.StartDate.Format("2006-01-02"),
		EndDate:       l.EndDate.Format("2006-01-02"),
		TotalDays:     l.TotalDays,
		Reason:        l.Reason,
		Status:        l.Status,
		CreatedBy:     l.CreatedBy.String(),
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	resp.RejectionReason = l.RejectionReason
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
