package rbac

import (
	"errors"
	"net/http"

	"go-hrpay/internal/domain"
	"go-hrpay/internal/shared/apperror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrRoleNotFound = apperror.New(
		apperror.CodeNotFound,
		"Role not found",
		http.StatusNotFound,
	)
	ErrRoleNameTaken = apperror.New(
		apperror.CodeConflict,
		"Role name already exists in this company",
		http.StatusConflict,
	)
)

// ManagementService covers the role and permission administration surface.
// Enforcement itself stays on Service.
type ManagementService interface {
	ListRoles(companyID string) ([]domain.RoleResponse, error)
	GetRole(companyID, id string) (domain.RoleResponse, error)
	CreateRole(companyID string, req domain.CreateRoleRequest) (domain.RoleResponse, error)
	UpdateRole(companyID, id string, req domain.UpdateRoleRequest) (domain.RoleResponse, error)
	DeleteRole(companyID, id string) error
	ListPermissions() ([]domain.PermissionResponse, error)
}

type managementService struct {
	repo   Repository
	logger *zap.Logger
}

func NewManagementService(repo Repository, logger ...*zap.Logger) ManagementService {
	l := zap.L().Named("rbac.management")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.management")
	}
	return &managementService{repo: repo, logger: l}
}

func (s *managementService) ListRoles(companyID string) ([]domain.RoleResponse, error) {
	rows, err := s.repo.ListRoles(companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.RoleResponse, 0, len(rows))
	for _, row := range rows {
		role, err := s.toRoleResponse(row)
		if err != nil {
			return nil, err
		}
		resp = append(resp, role)
	}
	return resp, nil
}

func (s *managementService) GetRole(companyID, id string) (domain.RoleResponse, error) {
	row, err := s.findCompanyRole(companyID, id)
	if err != nil {
		return domain.RoleResponse{}, err
	}
	return s.toRoleResponse(*row)
}

func (s *managementService) CreateRole(companyID string, req domain.CreateRoleRequest) (domain.RoleResponse, error) {
	if existing, err := s.repo.GetRoleByName(companyID, req.Name); err == nil && existing != nil {
		return domain.RoleResponse{}, ErrRoleNameTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RoleResponse{}, err
	}

	row := &RoleRow{
		CompanyID:   companyID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.CreateRole(row); err != nil {
		s.logger.Error("create role failed", zap.String("name", req.Name), zap.Error(err))
		return domain.RoleResponse{}, err
	}

	if len(req.Permissions) > 0 {
		if err := s.repo.UpdateRolePermissions(row.ID, req.Permissions); err != nil {
			s.logger.Error("assign role permissions failed", zap.String("role_id", row.ID), zap.Error(err))
			return domain.RoleResponse{}, err
		}
	}

	s.logger.Info("role created",
		zap.String("role_id", row.ID),
		zap.String("company_id", companyID),
		zap.String("name", req.Name),
	)
	return s.toRoleResponse(*row)
}

func (s *managementService) UpdateRole(companyID, id string, req domain.UpdateRoleRequest) (domain.RoleResponse, error) {
	row, err := s.findCompanyRole(companyID, id)
	if err != nil {
		return domain.RoleResponse{}, err
	}

	if req.Name != "" {
		row.Name = req.Name
	}
	if req.Description != "" {
		row.Description = req.Description
	}
	if err := s.repo.UpdateRole(row); err != nil {
		s.logger.Error("update role failed", zap.String("role_id", id), zap.Error(err))
		return domain.RoleResponse{}, err
	}

	if req.Permissions != nil {
		if err := s.repo.UpdateRolePermissions(row.ID, req.Permissions); err != nil {
			s.logger.Error("update role permissions failed", zap.String("role_id", id), zap.Error(err))
			return domain.RoleResponse{}, err
		}
	}

	return s.toRoleResponse(*row)
}

func (s *managementService) DeleteRole(companyID, id string) error {
	if _, err := s.findCompanyRole(companyID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteRole(id); err != nil {
		s.logger.Error("delete role failed", zap.String("role_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("role deleted", zap.String("role_id", id), zap.String("company_id", companyID))
	return nil
}

func (s *managementService) ListPermissions() ([]domain.PermissionResponse, error) {
	rows, err := s.repo.ListPermissions()
	if err != nil {
		return nil, err
	}
	resp := make([]domain.PermissionResponse, len(rows))
	for i, row := range rows {
		resp[i] = domain.PermissionResponse{
			ID:       row.ID,
			Resource: row.Resource,
			Action:   row.Action,
			Label:    row.Label,
			Category: row.Category,
		}
	}
	return resp, nil
}

// findCompanyRole loads a role and rejects cross-company access.
func (s *managementService) findCompanyRole(companyID, id string) (*RoleRow, error) {
	row, err := s.repo.GetRoleByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	if row.CompanyID != companyID {
		return nil, ErrRoleNotFound
	}
	return row, nil
}

func (s *managementService) toRoleResponse(row RoleRow) (domain.RoleResponse, error) {
	perms, err := s.repo.GetPermissionsByRoleID(row.ID)
	if err != nil {
		return domain.RoleResponse{}, err
	}
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = p.Resource + ":" + p.Action
	}
	return domain.RoleResponse{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Permissions: names,
	}, nil
}
