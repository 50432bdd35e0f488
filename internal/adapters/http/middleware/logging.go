package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/playforge/gamewallet/internal/adapters/http/common"
)

// LoggingConfig tunes the request logger.
type LoggingConfig struct {
	Logger    *slog.Logger
	SkipPaths []string // paths logged at no level, e.g. probes
}

// Logging writes one structured line per request with latency and status.
func Logging(config *LoggingConfig) gin.HandlerFunc {
	if config == nil {
		config = &LoggingConfig{Logger: slog.Default()}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	skip := make(map[string]struct{}, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"client_ip", c.ClientIP(),
			"request_id", common.GetRequestID(c),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			logger.Error("request", attrs...)
		case status >= 400:
			logger.Warn("request", attrs...)
		default:
			logger.Info("request", attrs...)
		}
	}
}
