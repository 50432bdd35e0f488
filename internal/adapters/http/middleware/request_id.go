// Package middleware contains the HTTP middleware chain: recovery, request
// ids, CORS, logging, rate limiting and metrics.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/playforge/gamewallet/internal/adapters/http/common"
)

// RequestIDHeader is the header carrying the request id.
const RequestIDHeader = "X-Request-ID"

// RequestID attaches a unique id to every request. A client-supplied
// X-Request-ID is honored; otherwise a fresh UUID is generated. The id is
// echoed in the response headers and carried in the gin context for logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(common.RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
