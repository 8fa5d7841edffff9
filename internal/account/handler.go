package account

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mehmetcc/device-assignment-service/internal/authentication"
	"github.com/mehmetcc/device-assignment-service/internal/response"
	"github.com/mehmetcc/device-assignment-service/internal/validation"
)

// MeResponse echoes the identity carried by the caller's token.
type MeResponse struct {
	EmployeeID uint   `json:"employeeId"`
	Username   string `json:"username"`
	Role       string `json:"role"`
}

type AccountHandler struct {
	service   AccountService
	validator *validation.Validator
	logger    *zap.Logger
}

// NewAccountHandler registers registration on public and the caller lookup on
// authenticated.
func NewAccountHandler(public, authenticated *gin.RouterGroup, service AccountService, validator *validation.Validator, logger *zap.Logger) *AccountHandler {
	h := &AccountHandler{service: service, validator: validator, logger: logger}
	public.POST("/accounts", h.Register)
	authenticated.GET("/accounts/me", h.Me)
	return h
}

// Register godoc
// @Summary      Register account
// @Description  Create an account with the User role for an existing employee
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        payload  body      RegisterAccountRequest  true  "Account"
// @Success      201      {object}  response.Message
// @Failure      400      {object}  validation.ValidationError
// @Failure      409      {object}  response.Message
// @Failure      500      {object}  response.Problem
// @Router       /accounts [post]
func (h *AccountHandler) Register(c *gin.Context) {
	var req RegisterAccountRequest
	if err := h.validator.BindJSON(c, &req); err != nil {
		response.WriteError(c, h.logger, err, "Failed to register account.")
		return
	}
	_, err := h.service.Register(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, response.Message{Message: "Account created."})
	case errors.Is(err, ErrUsernameTaken):
		response.WriteMessage(c, http.StatusConflict, "Username already exists.")
	default:
		response.WriteError(c, h.logger, err, "Failed to register account.")
	}
}

// Me godoc
// @Summary      Current account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MeResponse
// @Failure      401
// @Router       /accounts/me [get]
func (h *AccountHandler) Me(c *gin.Context) {
	identity, ok := authentication.CurrentIdentity(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, MeResponse{
		EmployeeID: identity.EmployeeID,
		Username:   identity.Username,
		Role:       identity.Role,
	})
}
