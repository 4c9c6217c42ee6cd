package attendance_test

import (
	"context"
	"errors"
	"go-hrpay/internal/attendance"
	attendanceerrors "go-hrpay/internal/attendance/errors"
	"go-hrpay/internal/shared/apperror"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAttendanceService struct {
	ClockInFn     func(ctx context.Context, companyID, employeeID string, req attendance.ClockInRequest) (attendance.AttendanceResponse, error)
	ClockOutFn    func(ctx context.Context, companyID, employeeID string, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error)
	RecalculateFn func(ctx context.Context, companyID string, req attendance.RecalculateRequest) (attendance.AttendanceResponse, error)
	GetAllFn      func(ctx context.Context, companyID, actorID string, canReadAll bool) ([]attendance.AttendanceResponse, error)
}

func (f *fakeAttendanceService) ClockIn(ctx context.Context, companyID, employeeID string, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	return f.ClockInFn(ctx, companyID, employeeID, req)
}
func (f *fakeAttendanceService) ClockOut(ctx context.Context, companyID, employeeID string, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	return f.ClockOutFn(ctx, companyID, employeeID, req)
}
func (f *fakeAttendanceService) Recalculate(ctx context.Context, companyID string, req attendance.RecalculateRequest) (attendance.AttendanceResponse, error) {
	return f.RecalculateFn(ctx, companyID, req)
}
func (f *fakeAttendanceService) GetAll(ctx context.Context, companyID, actorID string, canReadAll bool) ([]attendance.AttendanceResponse, error) {
	return f.GetAllFn(ctx, companyID, actorID, canReadAll)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestAttendanceHandler_ClockIn(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		companyID := uuid.New().String()
		employeeID := uuid.New().String()

		svc := &fakeAttendanceService{
			ClockInFn: func(ctx context.Context, cid, eid string, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, employeeID, eid)
				return attendance.AttendanceResponse{
					ID:         uuid.New().String(),
					CompanyID:  cid,
					EmployeeID: eid,
					Status:     "PRESENT",
				}, nil
			},
		}

		h := attendance.NewHandler(svc)
		c, w := newTestContext(t)

		req := httptest.NewRequest(http.MethodPost, "/attendances/clock-in", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		// Simulasi data dari middleware
		c.Set("company_id", companyID)
		c.Set("employee_id", employeeID)

		h.ClockIn(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "PRESENT")
	})

	t.Run("falls back to validated user id", func(t *testing.T) {
		companyID := uuid.New().String()
		userID := uuid.New().String()

		svc := &fakeAttendanceService{
			ClockInFn: func(ctx context.Context, cid, eid string, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
				assert.Equal(t, userID, eid)
				return attendance.AttendanceResponse{ID: uuid.New().String()}, nil
			},
		}

		h := attendance.NewHandler(svc)
		c, w := newTestContext(t)

		req := httptest.NewRequest(http.MethodPost, "/attendances/clock-in", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set("company_id", companyID)
		c.Set("user_id_validated", userID)

		h.ClockIn(c)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("already clocked in returns conflict", func(t *testing.T) {
		svc := &fakeAttendanceService{
			ClockInFn: func(ctx context.Context, cid, eid string, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
				return attendance.AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
			},
		}

		h := attendance.NewHandler(svc)
		c, w := newTestContext(t)

		req := httptest.NewRequest(http.MethodPost, "/attendances/clock-in", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set("company_id", uuid.New().String())
		c.Set("employee_id", uuid.New().String())

		h.ClockIn(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeConflict)
	})

	t.Run("service error", func(t *testing.T) {
		svc := &fakeAttendanceService{
			ClockInFn: func(ctx context.Context, cid, eid string, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
				return attendance.AttendanceResponse{}, errors.New("database connection failed")
			},
		}

		h := attendance.NewHandler(svc)
		c, w := newTestContext(t)

		req := httptest.NewRequest(http.MethodPost, "/attendances/clock-in", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set("company_id", uuid.New().String())
		c.Set("employee_id", uuid.New().String())

		h.ClockIn(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAttendanceHandler_ClockOut(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		companyID := uuid.New().String()
		employeeID := uuid.New().String()

		svc := &fakeAttendanceService{
			ClockOutFn: func(ctx context.Context, cid, eid string, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
				return attendance.AttendanceResponse{
					ID:            uuid.New().String(),
					RegularHours:  8,
					OvertimeHours: 1,
				}, nil
			},
		}

		h := attendance.NewHandler(svc)
		c, w := newTestContext(t)

		req := httptest.NewRequest(http.MethodPost, "/attendances/clock-out", strings.NewReader(`{"notes":"selesai"}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set("company_id", companyID)
		c.Set("employee_id", employeeID)

		h.ClockOut(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "regular_hours")
	})

	t.Run("no open attendance returns not found", func(t *testing.T) {
		svc := &fakeAttendanceService{
			ClockOutFn: func(ctx context.Context, cid, eid string, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
				return attendance.AttendanceResponse{}, attendanceerrors.ErrNoOpenAttendance
			},
		}

		h := attendance.NewHandler(svc)
		c, w := newTestContext(t)

		req := httptest.NewRequest(http.MethodPost, "/attendances/clock-out", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set("company_id", uuid.New().String())
		c.Set("employee_id", uuid.New().String())

		h.ClockOut(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAttendanceHandler_Recalculate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		companyID := uuid.New().String()
		employeeID := uuid.New().String()

		svc := &fakeAttendanceService{
			RecalculateFn: func(ctx context.Context, cid string, req attendance.RecalculateRequest) (attendance.AttendanceResponse, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, employeeID, req.EmployeeID)
				assert.Equal(t, "2026-03-02", req.AttendanceDate)
				return attendance.AttendanceResponse{
					ID:           uuid.New().String(),
					RegularHours: 9,
				}, nil
			},
		}

		h := attendance.NewHandler(svc)
		c, w := newTestContext(t)

		body := `{"employee_id":"` + employeeID + `","attendance_date":"2026-03-02"}`
		req := httptest.NewRequest(http.MethodPost, "/attendances/recalculate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set("company_id", companyID)

		h.Recalculate(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		h := attendance.NewHandler(&fakeAttendanceService{})
		c, w := newTestContext(t)

		// employee_id wajib uuid, body kosong memicu 400
		req := httptest.NewRequest(http.MethodPost, "/attendances/recalculate", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set("company_id", uuid.New().String())

		h.Recalculate(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("open day returns invalid state", func(t *testing.T) {
		employeeID := uuid.New().String()
		svc := &fakeAttendanceService{
			RecalculateFn: func(ctx context.Context, cid string, req attendance.RecalculateRequest) (attendance.AttendanceResponse, error) {
				return attendance.AttendanceResponse{}, attendanceerrors.ErrDayNotComplete
			},
		}

		h := attendance.NewHandler(svc)
		c, w := newTestContext(t)

		body := `{"employee_id":"` + employeeID + `","attendance_date":"2026-03-02"}`
		req := httptest.NewRequest(http.MethodPost, "/attendances/recalculate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set("company_id", uuid.New().String())

		h.Recalculate(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAttendanceHandler_GetAll(t *testing.T) {
	t.Run("admin with read all sees company scope", func(t *testing.T) {
		companyID := uuid.New().String()
		actorID := uuid.New().String()

		svc := &fakeAttendanceService{
			GetAllFn: func(ctx context.Context, cid, aid string, canReadAll bool) ([]attendance.AttendanceResponse, error) {
				assert.Equal(t, companyID, cid)
				assert.True(t, canReadAll)
				return []attendance.AttendanceResponse{
					{ID: uuid.New().String(), EmployeeName: "John Doe"},
					{ID: uuid.New().String(), EmployeeName: "Jane Doe"},
				}, nil
			},
		}

		h := attendance.NewHandler(svc)
		c, w := newTestContext(t)

		c.Request = httptest.NewRequest(http.MethodGet, "/attendances", nil)
		c.Set("company_id", companyID)
		c.Set("employee_id", actorID)
		c.Set("role", "ADMIN")
		c.Set("has_read_all", true)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "John Doe")
		assert.Contains(t, w.Body.String(), "Jane Doe")
	})

	t.Run("employee only sees own rows", func(t *testing.T) {
		companyID := uuid.New().String()
		actorID := uuid.New().String()

		svc := &fakeAttendanceService{
			GetAllFn: func(ctx context.Context, cid, aid string, canReadAll bool) ([]attendance.AttendanceResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.False(t, canReadAll)
				return []attendance.AttendanceResponse{{ID: uuid.New().String(), EmployeeID: aid}}, nil
			},
		}

		h := attendance.NewHandler(svc)
		c, w := newTestContext(t)

		c.Request = httptest.NewRequest(http.MethodGet, "/attendances", nil)
		c.Set("company_id", companyID)
		c.Set("employee_id", actorID)
		c.Set("role", "EMPLOYEE")

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), actorID)
	})

	t.Run("pagination slices the result", func(t *testing.T) {
		companyID := uuid.New().String()

		svc := &fakeAttendanceService{
			GetAllFn: func(ctx context.Context, cid, aid string, canReadAll bool) ([]attendance.AttendanceResponse, error) {
				return []attendance.AttendanceResponse{
					{ID: "1", EmployeeName: "First"},
					{ID: "2", EmployeeName: "Second"},
					{ID: "3", EmployeeName: "Third"},
				}, nil
			},
		}

		h := attendance.NewHandler(svc)
		c, w := newTestContext(t)

		c.Request = httptest.NewRequest(http.MethodGet, "/attendances?page=2&page_size=2", nil)
		c.Set("company_id", companyID)
		c.Set("employee_id", uuid.New().String())
		c.Set("role", "HR")
		c.Set("has_read_all", true)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Third")
		assert.NotContains(t, w.Body.String(), "First")
	})

	t.Run("service error", func(t *testing.T) {
		svc := &fakeAttendanceService{
			GetAllFn: func(ctx context.Context, cid, aid string, canReadAll bool) ([]attendance.AttendanceResponse, error) {
				return nil, errors.New("database error")
			},
		}

		h := attendance.NewHandler(svc)
		c, w := newTestContext(t)

		c.Request = httptest.NewRequest(http.MethodGet, "/attendances", nil)
		c.Set("company_id", uuid.New().String())
		c.Set("employee_id", uuid.New().String())
		c.Set("role", "ADMIN")
		c.Set("has_read_all", true)

		h.GetAll(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
