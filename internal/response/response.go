// Package response renders the error bodies shared by every handler.
package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mehmetcc/device-assignment-service/internal/store"
	"github.com/mehmetcc/device-assignment-service/internal/validation"
)

const problemContentType = "application/problem+json"

// Problem follows RFC 7807.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Message is the short body used by 401, 409 and domain 400 responses.
type Message struct {
	Message string `json:"message"`
}

// ID is returned by create and update endpoints.
type ID struct {
	ID uint `json:"id"`
}

func WriteProblem(c *gin.Context, status int, detail string) {
	body := Problem{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
	c.Render(status, problemRender{body: body})
	c.Abort()
}

func WriteMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Message{Message: msg})
}

func WriteValidation(c *gin.Context, err *validation.ValidationError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, err)
}

// WriteError maps a service error to a status. detail is used for 500s and
// should describe the failed operation, never the underlying error.
func WriteError(c *gin.Context, logger *zap.Logger, err error, detail string) {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteValidation(c, verr)
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatus(http.StatusNotFound)
	case errors.Is(err, store.ErrConflict):
		WriteMessage(c, http.StatusConflict, "The request conflicts with the current state of the resource.")
	case errors.Is(err, store.ErrInvariant):
		WriteMessage(c, http.StatusBadRequest, "The request references missing or inconsistent data.")
	case errors.Is(err, store.ErrTransient):
		logger.Warn("database unavailable", zap.String("path", c.FullPath()), zap.Error(err))
		WriteProblem(c, http.StatusServiceUnavailable, "The database is temporarily unavailable.")
	default:
		logger.Error(detail, zap.String("path", c.FullPath()), zap.Error(err))
		WriteProblem(c, http.StatusInternalServerError, detail)
	}
}

// Recovery renders recovered panics as a 500 problem.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
		)
		WriteProblem(c, http.StatusInternalServerError, "An unexpected error occurred.")
	})
}

// PathID parses the :id route parameter. Non-numeric ids answer 404, the
// same as ids that do not exist.
func PathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return 0, false
	}
	return uint(id), true
}
