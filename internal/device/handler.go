package device

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mehmetcc/device-assignment-service/internal/response"
	"github.com/mehmetcc/device-assignment-service/internal/validation"
)

type DeviceHandler struct {
	router    *gin.RouterGroup
	service   DeviceService
	validator *validation.Validator
	logger    *zap.Logger
}

// NewDeviceHandler registers the device endpoints on an authenticated group.
func NewDeviceHandler(router *gin.RouterGroup, service DeviceService, validator *validation.Validator, logger *zap.Logger) *DeviceHandler {
	h := &DeviceHandler{router: router, service: service, validator: validator, logger: logger}
	h.router.GET("/devices", h.List)
	h.router.GET("/devices/:id", h.Get)
	h.router.POST("/devices", h.Create)
	h.router.PUT("/devices/:id", h.Update)
	h.router.DELETE("/devices/:id", h.Delete)
	h.router.POST("/devices/:id/assignments", h.Assign)
	h.router.POST("/devices/:id/return", h.Return)
	return h
}

// List godoc
// @Summary      List devices
// @Tags         devices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   DeviceSummary
// @Failure      401
// @Failure      500  {object}  response.Problem
// @Router       /devices [get]
func (h *DeviceHandler) List(c *gin.Context) {
	devices, err := h.service.List(c.Request.Context())
	if err != nil {
		response.WriteError(c, h.logger, err, "Failed to retrieve devices.")
		return
	}
	c.JSON(http.StatusOK, devices)
}

// Get godoc
// @Summary      Device detail
// @Description  Device with its type, properties and current holder
// @Tags         devices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Device ID"
// @Success      200  {object}  DeviceDetailResponse
// @Failure      401
// @Failure      404
// @Failure      500  {object}  response.Problem
// @Router       /devices/{id} [get]
func (h *DeviceHandler) Get(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	device, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, h.logger, err, "Failed to retrieve device.")
		return
	}
	c.JSON(http.StatusOK, device)
}

// Create godoc
// @Summary      Create device
// @Tags         devices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      DeviceRequest  true  "Device"
// @Success      201      {object}  response.ID
// @Failure      400      {object}  validation.ValidationError
// @Failure      401
// @Failure      500      {object}  response.Problem
// @Router       /devices [post]
func (h *DeviceHandler) Create(c *gin.Context) {
	var req DeviceRequest
	if err := h.validator.BindJSON(c, &req); err != nil {
		response.WriteError(c, h.logger, err, "Failed to create device.")
		return
	}
	id, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, h.logger, err, "Failed to create device.")
		return
	}
	c.JSON(http.StatusCreated, response.ID{ID: id})
}

// Update godoc
// @Summary      Update device
// @Tags         devices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int            true  "Device ID"
// @Param        payload  body      DeviceRequest  true  "Device"
// @Success      200      {object}  response.ID
// @Failure      400      {object}  validation.ValidationError
// @Failure      401
// @Failure      404
// @Failure      500      {object}  response.Problem
// @Router       /devices/{id} [put]
func (h *DeviceHandler) Update(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	var req DeviceRequest
	if err := h.validator.BindJSON(c, &req); err != nil {
		response.WriteError(c, h.logger, err, "Failed to update device.")
		return
	}
	updated, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.WriteError(c, h.logger, err, "Failed to update device.")
		return
	}
	c.JSON(http.StatusOK, response.ID{ID: updated})
}

// Delete godoc
// @Summary      Delete device
// @Description  Deletes the device and its assignment history
// @Tags         devices
// @Security     BearerAuth
// @Param        id   path  int  true  "Device ID"
// @Success      204
// @Failure      401
// @Failure      404
// @Failure      500  {object}  response.Problem
// @Router       /devices/{id} [delete]
func (h *DeviceHandler) Delete(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.WriteError(c, h.logger, err, "Failed to delete device.")
		return
	}
	c.Status(http.StatusNoContent)
}

// Assign godoc
// @Summary      Issue device
// @Description  Opens an assignment of the device to an employee
// @Tags         devices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int            true  "Device ID"
// @Param        payload  body      AssignRequest  true  "Assignment"
// @Success      201      {object}  response.ID
// @Failure      400      {object}  validation.ValidationError
// @Failure      401
// @Failure      404
// @Failure      409      {object}  response.Message
// @Failure      500      {object}  response.Problem
// @Router       /devices/{id}/assignments [post]
func (h *DeviceHandler) Assign(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	var req AssignRequest
	if err := h.validator.BindJSON(c, &req); err != nil {
		response.WriteError(c, h.logger, err, "Failed to issue device.")
		return
	}
	assignmentID, err := h.service.Assign(c.Request.Context(), id, req)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, response.ID{ID: assignmentID})
	case errors.Is(err, ErrAlreadyAssigned):
		response.WriteMessage(c, http.StatusConflict, "Device is already assigned.")
	default:
		response.WriteError(c, h.logger, err, "Failed to issue device.")
	}
}

// Return godoc
// @Summary      Return device
// @Description  Closes the open assignment of the device
// @Tags         devices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int            true   "Device ID"
// @Param        payload  body      ReturnRequest  false  "Return"
// @Success      200      {object}  response.ID
// @Failure      400      {object}  validation.ValidationError
// @Failure      401
// @Failure      404
// @Failure      500      {object}  response.Problem
// @Router       /devices/{id}/return [post]
func (h *DeviceHandler) Return(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	var req ReturnRequest
	if c.Request.ContentLength != 0 {
		if err := h.validator.BindJSON(c, &req); err != nil {
			response.WriteError(c, h.logger, err, "Failed to return device.")
			return
		}
	}
	assignmentID, err := h.service.Return(c.Request.Context(), id, req)
	if err != nil {
		response.WriteError(c, h.logger, err, "Failed to return device.")
		return
	}
	c.JSON(http.StatusOK, response.ID{ID: assignmentID})
}
