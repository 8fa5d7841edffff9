package authentication

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mehmetcc/device-assignment-service/internal/response"
	"github.com/mehmetcc/device-assignment-service/internal/validation"
)

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries the bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// AuthHandler handles authentication-related HTTP endpoints.
type AuthHandler struct {
	router    *gin.RouterGroup
	service   AuthenticationService
	validator *validation.Validator
	logger    *zap.Logger
}

// NewAuthHandler registers auth endpoints on the given router group.
func NewAuthHandler(router *gin.RouterGroup, service AuthenticationService, validator *validation.Validator, logger *zap.Logger) *AuthHandler {
	h := &AuthHandler{router: router, service: service, validator: validator, logger: logger}
	h.router.POST("/auth", h.Login)
	return h
}

// Login godoc
// @Summary      Login
// @Description  Authenticate an account and issue a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      LoginRequest  true  "Login credentials"
// @Success      200      {object}  TokenResponse
// @Failure      400      {object}  validation.ValidationError
// @Failure      401      {object}  response.Message
// @Failure      500      {object}  response.Problem
// @Router       /auth [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := h.validator.BindJSON(c, &req); err != nil {
		response.WriteError(c, h.logger, err, "Failed to authenticate.")
		return
	}
	token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, TokenResponse{Token: token})
	case errors.Is(err, ErrInvalidCredentials):
		response.WriteMessage(c, http.StatusUnauthorized, "Invalid credentials.")
	default:
		response.WriteError(c, h.logger, err, "Failed to authenticate.")
	}
}
