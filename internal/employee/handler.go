package employee

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mehmetcc/device-assignment-service/internal/response"
	"github.com/mehmetcc/device-assignment-service/internal/validation"
)

type EmployeeHandler struct {
	service   EmployeeService
	validator *validation.Validator
	logger    *zap.Logger
}

// NewEmployeeHandler registers reads on authenticated and writes on admin.
func NewEmployeeHandler(authenticated, admin *gin.RouterGroup, service EmployeeService, validator *validation.Validator, logger *zap.Logger) *EmployeeHandler {
	h := &EmployeeHandler{service: service, validator: validator, logger: logger}
	authenticated.GET("/employees", h.List)
	authenticated.GET("/employees/:id", h.Get)
	admin.POST("/employees", h.Create)
	admin.PUT("/employees/:id", h.Update)
	admin.DELETE("/employees/:id", h.Delete)
	return h
}

// List godoc
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   EmployeeSummary
// @Failure      401
// @Failure      500  {object}  response.Problem
// @Router       /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.service.List(c.Request.Context())
	if err != nil {
		response.WriteError(c, h.logger, err, "Failed to retrieve employees.")
		return
	}
	c.JSON(http.StatusOK, employees)
}

// Get godoc
// @Summary      Employee detail
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Employee ID"
// @Success      200  {object}  EmployeeDetailResponse
// @Failure      401
// @Failure      404
// @Failure      500  {object}  response.Problem
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	employee, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, h.logger, err, "Failed to retrieve employee.")
		return
	}
	c.JSON(http.StatusOK, employee)
}

// Create godoc
// @Summary      Create employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      EmployeeRequest  true  "Employee"
// @Success      201      {object}  response.ID
// @Failure      400      {object}  validation.ValidationError
// @Failure      401
// @Failure      403
// @Failure      500      {object}  response.Problem
// @Router       /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req EmployeeRequest
	if err := h.validator.BindJSON(c, &req); err != nil {
		response.WriteError(c, h.logger, err, "Failed to create employee.")
		return
	}
	id, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, h.logger, err, "Failed to create employee.")
		return
	}
	c.JSON(http.StatusCreated, response.ID{ID: id})
}

// Update godoc
// @Summary      Update employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int              true  "Employee ID"
// @Param        payload  body      EmployeeRequest  true  "Employee"
// @Success      200      {object}  response.ID
// @Failure      400      {object}  validation.ValidationError
// @Failure      401
// @Failure      403
// @Failure      404
// @Failure      500      {object}  response.Problem
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	var req EmployeeRequest
	if err := h.validator.BindJSON(c, &req); err != nil {
		response.WriteError(c, h.logger, err, "Failed to update employee.")
		return
	}
	updated, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.WriteError(c, h.logger, err, "Failed to update employee.")
		return
	}
	c.JSON(http.StatusOK, response.ID{ID: updated})
}

// Delete godoc
// @Summary      Delete employee
// @Tags         employees
// @Security     BearerAuth
// @Param        id   path  int  true  "Employee ID"
// @Success      204
// @Failure      401
// @Failure      403
// @Failure      404
// @Failure      500  {object}  response.Problem
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.WriteError(c, h.logger, err, "Failed to delete employee.")
		return
	}
	c.Status(http.StatusNoContent)
}
