package employee_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mehmetcc/device-assignment-service/internal/employee"
	"github.com/mehmetcc/device-assignment-service/internal/store"
	"github.com/mehmetcc/device-assignment-service/internal/validation"
)

type fakeEmployeeService struct {
	ListFn   func(ctx context.Context) ([]employee.EmployeeSummary, error)
	GetFn    func(ctx context.Context, id uint) (*employee.EmployeeDetailResponse, error)
	CreateFn func(ctx context.Context, req employee.EmployeeRequest) (uint, error)
	UpdateFn func(ctx context.Context, id uint, req employee.EmployeeRequest) (uint, error)
	DeleteFn func(ctx context.Context, id uint) error
}

func (f *fakeEmployeeService) List(ctx context.Context) ([]employee.EmployeeSummary, error) {
	return f.ListFn(ctx)
}

func (f *fakeEmployeeService) Get(ctx context.Context, id uint) (*employee.EmployeeDetailResponse, error) {
	return f.GetFn(ctx, id)
}

func (f *fakeEmployeeService) Create(ctx context.Context, req employee.EmployeeRequest) (uint, error) {
	return f.CreateFn(ctx, req)
}

func (f *fakeEmployeeService) Update(ctx context.Context, id uint, req employee.EmployeeRequest) (uint, error) {
	return f.UpdateFn(ctx, id, req)
}

func (f *fakeEmployeeService) Delete(ctx context.Context, id uint) error {
	return f.DeleteFn(ctx, id)
}

func setupEmployeeRouter(svc employee.EmployeeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")
	employee.NewEmployeeHandler(api, api, svc, validation.New(), zap.NewNop())
	return router
}

func send(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const employeeBody = `{
	"firstName":"Jane","lastName":"Doe","email":"jane@example.com",
	"salary":4200.5,"positionId":1,"hireDate":"2023-06-01T00:00:00Z"
}`

func TestHandler_Create(t *testing.T) {
	svc := &fakeEmployeeService{CreateFn: func(_ context.Context, req employee.EmployeeRequest) (uint, error) {
		assert.Equal(t, "Jane", req.FirstName)
		assert.Equal(t, "4200.5", req.Salary.String())
		assert.Nil(t, req.MiddleName)
		return 5, nil
	}}
	router := setupEmployeeRouter(svc)

	w := send(router, http.MethodPost, "/api/employees", employeeBody)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":5}`, w.Body.String())

	w = send(router, http.MethodPost, "/api/employees",
		`{"firstName":"","lastName":"Doe","email":"not-an-email","salary":-1,"positionId":0}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body validation.ValidationError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	properties := map[string]bool{}
	for _, fe := range body.Errors {
		properties[fe.PropertyName] = true
	}
	for _, name := range []string{"firstName", "email", "salary", "positionId", "hireDate"} {
		assert.True(t, properties[name], "expected an error for %s", name)
	}
}

func TestHandler_Get(t *testing.T) {
	svc := &fakeEmployeeService{GetFn: func(_ context.Context, id uint) (*employee.EmployeeDetailResponse, error) {
		if id != 5 {
			return nil, store.ErrNotFound
		}
		return &employee.EmployeeDetailResponse{
			Person:   employee.PersonResponse{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"},
			Salary:   json.Number("4200.50"),
			Position: employee.PositionResponse{ID: 1, Name: "Engineer"},
			HireDate: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		}, nil
	}}
	router := setupEmployeeRouter(svc)

	w := send(router, http.MethodGet, "/api/employees/5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"person":{"firstName":"Jane","middleName":null,"lastName":"Doe","email":"jane@example.com","phoneNumber":"","passportNumber":""},
		"salary":4200.50,
		"position":{"id":1,"name":"Engineer"},
		"hireDate":"2023-06-01T00:00:00Z"
	}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, send(router, http.MethodGet, "/api/employees/6", "").Code)
}

func TestHandler_ListUpdateDelete(t *testing.T) {
	svc := &fakeEmployeeService{
		ListFn: func(context.Context) ([]employee.EmployeeSummary, error) {
			return []employee.EmployeeSummary{{ID: 5, FullName: "Jane Doe"}}, nil
		},
		UpdateFn: func(_ context.Context, id uint, _ employee.EmployeeRequest) (uint, error) {
			return id, nil
		},
		DeleteFn: func(_ context.Context, id uint) error {
			if id != 5 {
				return store.ErrNotFound
			}
			return nil
		},
	}
	router := setupEmployeeRouter(svc)

	w := send(router, http.MethodGet, "/api/employees", "")
	assert.JSONEq(t, `[{"id":5,"fullName":"Jane Doe"}]`, w.Body.String())

	w = send(router, http.MethodPut, "/api/employees/5", employeeBody)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":5}`, w.Body.String())

	assert.Equal(t, http.StatusNoContent, send(router, http.MethodDelete, "/api/employees/5", "").Code)
	assert.Equal(t, http.StatusNotFound, send(router, http.MethodDelete, "/api/employees/9", "").Code)
}
