// Package server assembles the HTTP surface: middleware chains, route groups
// and the handlers of every feature package.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/mehmetcc/device-assignment-service/internal/account"
	"github.com/mehmetcc/device-assignment-service/internal/authentication"
	"github.com/mehmetcc/device-assignment-service/internal/device"
	"github.com/mehmetcc/device-assignment-service/internal/employee"
	"github.com/mehmetcc/device-assignment-service/internal/response"
	"github.com/mehmetcc/device-assignment-service/internal/store"
	"github.com/mehmetcc/device-assignment-service/internal/utils"
	"github.com/mehmetcc/device-assignment-service/internal/validation"
)

// Deps is everything NewRouter wires together.
type Deps struct {
	Store   *store.Store
	Hasher  *utils.PasswordHasher
	Tokens  *utils.TokenService
	Logger  *zap.Logger
	Swagger utils.SwaggerConfig
	// AuthRateLimit is requests per second per client IP on anonymous endpoints.
	AuthRateLimit float64
}

func NewRouter(deps Deps) *gin.Engine {
	logger := deps.Logger
	validator := validation.New()

	router := gin.New()
	router.Use(RequestLogger(logger), response.Recovery(logger))

	router.GET("/health", health(deps.Store))

	if deps.Swagger.Enabled() {
		swaggerGroup := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			deps.Swagger.Username: deps.Swagger.Password,
		}))
		swaggerGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := router.Group("/api")

	anonymous := api.Group("")
	anonymous.Use(authentication.RateLimitMiddleware(deps.AuthRateLimit))

	authenticated := api.Group("")
	authenticated.Use(authentication.AuthMiddleware(deps.Tokens, logger))

	admin := authenticated.Group("")
	admin.Use(authentication.RoleMiddleware(store.RoleAdmin, logger))

	authService := authentication.NewAuthenticationService(deps.Store, deps.Hasher, deps.Tokens, logger)
	authentication.NewAuthHandler(anonymous, authService, validator, logger)

	accountService := account.NewAccountService(deps.Store, deps.Hasher, logger)
	account.NewAccountHandler(anonymous, authenticated, accountService, validator, logger)

	deviceService := device.NewDeviceService(deps.Store, logger)
	device.NewDeviceHandler(authenticated, deviceService, validator, logger)

	employeeService := employee.NewEmployeeService(deps.Store, logger)
	employee.NewEmployeeHandler(authenticated, admin, employeeService, validator, logger)

	return router
}

func health(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
