package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mehmetcc/device-assignment-service/internal/server"
	"github.com/mehmetcc/device-assignment-service/internal/store"
	"github.com/mehmetcc/device-assignment-service/internal/store/storetest"
	"github.com/mehmetcc/device-assignment-service/internal/utils"
)

const testKey = "0123456789abcdef0123456789abcdef"

type harness struct {
	t         *testing.T
	router    *gin.Engine
	store     *store.Store
	tokens    *utils.TokenService
	employees []*store.Employee
	position  *store.Position
}

// newHarness seeds seven employees; the fifth is Jane Doe.
func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := storetest.New(t)
	hasher, err := utils.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := utils.NewTokenService(utils.JWTConfig{
		Issuer: "device-api", Audience: "device-clients", Key: testKey, ValidInMinutes: 5,
	})
	require.NoError(t, err)

	position := storetest.Position(t, s, "Engineer")
	names := [][2]string{
		{"Adam", "Nowak"}, {"Beth", "Kowalska"}, {"Carl", "Wisniewski"}, {"Dana", "Wojcik"},
		{"Jane", "Doe"}, {"Fred", "Kaminski"}, {"Gina", "Lewandowska"},
	}
	employees := make([]*store.Employee, 0, len(names))
	for _, n := range names {
		employees = append(employees, storetest.Employee(t, s, position.ID, n[0], n[1]))
	}

	router := server.NewRouter(server.Deps{
		Store:  s,
		Hasher: hasher,
		Tokens: tokens,
		Logger: zap.NewNop(),
	})
	return &harness{t: t, router: router, store: s, tokens: tokens, employees: employees, position: position}
}

func (h *harness) token(role string) string {
	h.t.Helper()
	token, err := h.tokens.Issue(h.employees[0].ID, "operator", role)
	require.NoError(h.t, err)
	return token
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestRegisterAndAuthenticate(t *testing.T) {
	h := newHarness(t)
	register := map[string]any{"username": "alice", "password": "Abcdef12!xyz", "employeeId": 7}

	w := h.do(http.MethodPost, "/api/accounts", "", register)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(http.MethodPost, "/api/auth", "", map[string]any{"username": "alice", "password": "Abcdef12!xyz"})
	require.Equal(t, http.StatusOK, w.Code)
	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &auth))
	assert.NotEmpty(t, auth.Token)

	w = h.do(http.MethodGet, "/api/accounts/me", auth.Token, nil)
	assert.JSONEq(t, `{"employeeId":7,"username":"alice","role":"User"}`, w.Body.String())

	w = h.do(http.MethodPost, "/api/accounts", "", register)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.do(http.MethodPost, "/api/auth", "", map[string]any{"username": "alice", "password": "wrong-Password1!"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid credentials."}`, w.Body.String())

	w = h.do(http.MethodPost, "/api/auth", "", map[string]any{"username": "nobody", "password": "Abcdef12!xyz"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid credentials."}`, w.Body.String())
}

func TestWeakPasswordRejected(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/accounts", "", map[string]any{"username": "bob", "password": "short", "employeeId": 1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"propertyName":"password"`)
}

func TestMultibytePasswordOverByteLimitRejected(t *testing.T) {
	h := newHarness(t)

	// 44 runes but 84 bytes once encoded
	password := "Ab1!" + strings.Repeat("ż", 40)
	w := h.do(http.MethodPost, "/api/accounts", "", map[string]any{"username": "bob", "password": password, "employeeId": 1})

	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"propertyName":"password"`)
	assert.Contains(t, w.Body.String(), "72 bytes or fewer")
}

func TestDeviceCRUD(t *testing.T) {
	h := newHarness(t)
	storetest.DeviceType(t, h.store, "Laptop")
	token := h.token(store.RoleUser)

	w := h.do(http.MethodPost, "/api/devices", token, map[string]any{
		"name": "Dell", "isEnabled": true, "deviceTypeName": "Laptop",
		"additionalProperties": map[string]any{"cpu": "x86"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":1}`, w.Body.String())

	w = h.do(http.MethodGet, "/api/devices/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"name":"Dell","deviceTypeName":"Laptop","isEnabled":true,
		"additionalProperties":{"cpu":"x86"},"employee":null
	}`, w.Body.String())

	w = h.do(http.MethodGet, "/api/devices", token, nil)
	assert.JSONEq(t, `[{"id":1,"name":"Dell"}]`, w.Body.String())

	w = h.do(http.MethodPut, "/api/devices/1", token, map[string]any{
		"name": "Dell XPS", "isEnabled": false, "deviceTypeName": "Laptop",
		"additionalProperties": []any{1, 2},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1}`, w.Body.String())

	assert.Equal(t, http.StatusNoContent, h.do(http.MethodDelete, "/api/devices/1", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/api/devices/1", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodDelete, "/api/devices/1", token, nil).Code)
}

func TestUnknownDeviceType(t *testing.T) {
	h := newHarness(t)
	storetest.DeviceType(t, h.store, "Laptop")

	w := h.do(http.MethodPost, "/api/devices", h.token(store.RoleUser), map[string]any{
		"name": "Dell", "isEnabled": true, "deviceTypeName": "Toaster",
		"additionalProperties": map[string]any{},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Toaster")
}

func TestAdminGate(t *testing.T) {
	h := newHarness(t)
	payload := map[string]any{
		"firstName": "Ewa", "lastName": "Zielinska", "salary": 3000,
		"positionId": h.position.ID, "hireDate": "2024-02-01T00:00:00Z",
	}

	assert.Equal(t, http.StatusForbidden, h.do(http.MethodPost, "/api/employees", h.token(store.RoleUser), payload).Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPost, "/api/employees", "", payload).Code)

	w := h.do(http.MethodPost, "/api/employees", h.token(store.RoleAdmin), payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	path := fmt.Sprintf("/api/employees/%d", created.ID)

	w = h.do(http.MethodGet, path, h.token(store.RoleUser), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"firstName":"Ewa"`)

	assert.Equal(t, http.StatusForbidden, h.do(http.MethodDelete, path, h.token(store.RoleUser), nil).Code)
	assert.Equal(t, http.StatusNoContent, h.do(http.MethodDelete, path, h.token(store.RoleAdmin), nil).Code)
}

func TestDateOnlyHireDateRejected(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/employees", h.token(store.RoleAdmin), map[string]any{
		"firstName": "Ewa", "lastName": "Zielinska", "salary": 3000,
		"positionId": h.position.ID, "hireDate": "2024-02-01",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"propertyName":"hireDate"`)
	assert.Contains(t, w.Body.String(), "must be a valid timestamp")
}

func TestCurrentHolderProjection(t *testing.T) {
	h := newHarness(t)
	laptop := storetest.DeviceType(t, h.store, "Laptop")
	device := storetest.Device(t, h.store, "Dell", &laptop.ID)
	jane := h.employees[4]
	require.Equal(t, uint(5), jane.ID)
	token := h.token(store.RoleUser)
	ctx := context.Background()

	assignment := &store.DeviceEmployee{DeviceID: device.ID, EmployeeID: jane.ID, IssueDate: time.Now().UTC().Add(-time.Hour)}
	require.NoError(t, h.store.Assignments().Create(ctx, assignment))

	w := h.do(http.MethodGet, "/api/devices/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"employee":{"id":5,"name":"Jane Doe"}`)

	require.NoError(t, h.store.Assignments().Close(ctx, assignment.ID, time.Now().UTC()))

	w = h.do(http.MethodGet, "/api/devices/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"employee":null`)
}

func TestAssignmentEndpoints(t *testing.T) {
	h := newHarness(t)
	device := storetest.Device(t, h.store, "Dell", nil)
	token := h.token(store.RoleUser)
	path := fmt.Sprintf("/api/devices/%d", device.ID)

	w := h.do(http.MethodPost, path+"/assignments", token, map[string]any{"employeeId": 5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(http.MethodPost, path+"/assignments", token, map[string]any{"employeeId": 6})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.do(http.MethodPost, path+"/assignments", token, map[string]any{"employeeId": 99})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, path+"/return", token, map[string]any{"returnDate": "2000-01-01T00:00:00Z"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusOK, h.do(http.MethodPost, path+"/return", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPost, path+"/return", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPost, "/api/devices/999/assignments", token, map[string]any{"employeeId": 5}).Code)
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/api/devices", "/api/employees", "/api/accounts/me"} {
		w := h.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Empty(t, w.Body.String(), path)
	}
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSwaggerBehindBasicAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := server.NewRouter(server.Deps{
		Store:   storetest.New(t),
		Logger:  zap.NewNop(),
		Swagger: utils.SwaggerConfig{Username: "docs", Password: "secret"},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.SetBasicAuth("docs", "secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
