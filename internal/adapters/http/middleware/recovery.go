package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/playforge/gamewallet/internal/adapters/http/common"
)

// RecoveryConfig tunes the panic-recovery middleware.
type RecoveryConfig struct {
	Logger           *slog.Logger
	EnableStackTrace bool
}

// Recovery catches panics in handlers, logs them with the request context and
// answers 500 with the standard envelope.
func Recovery(config *RecoveryConfig) gin.HandlerFunc {
	if config == nil {
		config = &RecoveryConfig{Logger: slog.Default(), EnableStackTrace: true}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				attrs := []any{
					"error", fmt.Sprintf("%v", err),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"request_id", common.GetRequestID(c),
					"client_ip", c.ClientIP(),
				}
				if config.EnableStackTrace {
					attrs = append(attrs, "stack", string(debug.Stack()))
				}
				logger.Error("panic recovered", attrs...)

				common.Fail(c, http.StatusInternalServerError, "an unexpected error occurred")
				c.Abort()
			}
		}()

		c.Next()
	}
}
