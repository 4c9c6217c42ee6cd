package rbac

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hrpay/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type mockService struct{}

func (m *mockService) LoadCompanyPolicy(companyID string) error {
	return nil
}

func (m *mockService) Enforce(req domain.EnforceRequest) (bool, error) {
	if req.Resource == "attendance" && req.Action == "read" {
		return true, nil
	}
	return false, nil
}

type mockManagement struct {
	roles []domain.RoleResponse
}

func (m *mockManagement) ListRoles(companyID string) ([]domain.RoleResponse, error) {
	return m.roles, nil
}
func (m *mockManagement) GetRole(companyID, id string) (domain.RoleResponse, error) {
	return domain.RoleResponse{}, ErrRoleNotFound
}
func (m *mockManagement) CreateRole(companyID string, req domain.CreateRoleRequest) (domain.RoleResponse, error) {
	return domain.RoleResponse{ID: "role-1", Name: req.Name}, nil
}
func (m *mockManagement) UpdateRole(companyID, id string, req domain.UpdateRoleRequest) (domain.RoleResponse, error) {
	return domain.RoleResponse{ID: id, Name: req.Name}, nil
}
func (m *mockManagement) DeleteRole(companyID, id string) error { return nil }
func (m *mockManagement) ListPermissions() ([]domain.PermissionResponse, error) {
	return nil, nil
}

func TestHandler_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(&mockService{}, &mockManagement{})

	router := gin.New()
	router.POST("/rbac/enforce", handler.Enforce)

	body := domain.EnforceRequest{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Resource:   "attendance",
		Action:     "read",
	}
	jsonBody, _ := json.Marshal(body)

	req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"allowed":true`)
}

func TestHandler_Enforce_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(&mockService{}, &mockManagement{})
	router := gin.New()
	router.POST("/rbac/enforce", handler.Enforce)

	req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBufferString(`{"employee_id":"  "}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Roles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mgmt := &mockManagement{
		roles: []domain.RoleResponse{
			{ID: "role-1", Name: "HR", Permissions: []string{"leave:approve"}},
		},
	}
	handler := NewHandler(&mockService{}, mgmt)

	t.Run("list roles", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/rbac/roles", nil)
		c.Set("company_id", "company-1")

		handler.ListRoles(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "leave:approve")
	})

	t.Run("get role not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/rbac/roles/missing", nil)
		c.Params = []gin.Param{{Key: "id", Value: "missing"}}
		c.Set("company_id", "company-1")

		handler.GetRole(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("create role", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"name":"Supervisor","permissions":["perm-1"]}`
		c.Request = httptest.NewRequest(http.MethodPost, "/rbac/roles", bytes.NewBufferString(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("company_id", "company-1")

		handler.CreateRole(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "Supervisor")
	})
}

// mockService bukan domain enforcement asli; lihat rbac_service_test.go untuk
// pengujian enforcer.
var _ Service = (*mockService)(nil)
var _ ManagementService = (*mockManagement)(nil)
