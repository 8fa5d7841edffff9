package authentication

import (
	"net/http"
	"strings"

	"github.com/didip/tollbooth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mehmetcc/device-assignment-service/internal/response"
	"github.com/mehmetcc/device-assignment-service/internal/utils"
)

const ContextIdentityKey = "identity"

// TokenValidator turns a bearer token into the caller's identity.
type TokenValidator interface {
	Validate(token string) (*utils.Identity, error)
}

// CurrentIdentity returns the identity AuthMiddleware attached to the request.
func CurrentIdentity(c *gin.Context) (*utils.Identity, bool) {
	raw, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil, false
	}
	identity, ok := raw.(*utils.Identity)
	return identity, ok
}

// AuthMiddleware rejects requests without a valid bearer token with an empty 401.
func AuthMiddleware(tokens TokenValidator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		identity, err := tokens.Validate(parts[1])
		if err != nil {
			logger.Debug("access token rejected", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// RoleMiddleware must run after AuthMiddleware.
func RoleMiddleware(requiredRole string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if identity.Role != requiredRole {
			logger.Info("role check failed",
				zap.String("username", identity.Username),
				zap.String("role", identity.Role),
				zap.String("required", requiredRole),
			)
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

// RateLimitMiddleware allows perSecond requests per client IP. A limit <= 0
// disables it.
func RateLimitMiddleware(perSecond float64) gin.HandlerFunc {
	if perSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	lmt := tollbooth.NewLimiter(perSecond, nil)
	return func(c *gin.Context) {
		if httpErr := tollbooth.LimitByRequest(lmt, c.Writer, c.Request); httpErr != nil {
			response.WriteMessage(c, httpErr.StatusCode, httpErr.Message)
			return
		}
		c.Next()
	}
}
