package holiday

import (
	"context"
	"errors"
	"strings"
	"time"

	holidayerrors "go-hrpay/internal/holiday/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateHolidayRequest) (HolidayResponse, error)
	GetAll(ctx context.Context, companyID string) ([]HolidayResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateHolidayRequest) (HolidayResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidCompanyID
	}

	day, err := time.Parse("2006-01-02", req.HolidayDate)
	if err != nil {
		s.logger.Warn("create holiday invalid date", zap.String("holiday_date", req.HolidayDate))
		return HolidayResponse{}, holidayerrors.ErrInvalidHolidayDate
	}

	h := &Holiday{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		HolidayDate: day,
		Name:        req.Name,
		UnionOnly:   req.UnionOnly,
	}
	if err := s.repo.Create(ctx, h); err != nil {
		s.logger.Error("create holiday persist failed", zap.Error(err))
		return HolidayResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("holiday created",
		zap.String("company_id", companyID),
		zap.String("holiday_date", req.HolidayDate),
		zap.Bool("union_only", req.UnionOnly),
	)
	return mapToResponse(*h), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]HolidayResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]HolidayResponse, len(rows))
	for i, h := range rows {
		resp[i] = mapToResponse(h)
	}
	return resp, nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		s.logger.Error("delete holiday failed", zap.String("holiday_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}
	s.logger.Info("holiday deleted", zap.String("holiday_id", id))
	return nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return holidayerrors.ErrHolidayNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return holidayerrors.ErrHolidayAlreadyExists
	}
	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return holidayerrors.ErrHolidayAlreadyExists
	}
	return err
}

func mapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:          h.ID.String(),
		CompanyID:   h.CompanyID.String(),
		HolidayDate: h.HolidayDate.Format("2006-01-02"),
		Name:        h.Name,
		UnionOnly:   h.UnionOnly,
	}
}
