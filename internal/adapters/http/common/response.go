// Package common holds the response envelope and the domain-error-to-HTTP
// mapping shared by all handlers. It lives in its own package to avoid
// import cycles between handlers and the router package.
package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/playforge/gamewallet/internal/domain/errors"
)

// APIResponse is the uniform envelope of every endpoint.
type APIResponse struct {
	Success            bool   `json:"success"`
	Data               any    `json:"data,omitempty"`
	Error              string `json:"error,omitempty"`
	IsIdempotentReplay *bool  `json:"isIdempotentReplay,omitempty"`
}

// RequestIDKey is the gin context key carrying the request id.
const RequestIDKey = "request_id"

// GetRequestID returns the request id set by the middleware, if any.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// Success writes a successful envelope.
func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, APIResponse{Success: true, Data: data})
}

// SuccessWithReplay writes a successful write-flow envelope. Fresh executions
// answer 201, idempotent replays 200.
func SuccessWithReplay(c *gin.Context, data any, isReplay bool) {
	status := http.StatusCreated
	if isReplay {
		status = http.StatusOK
	}
	c.JSON(status, APIResponse{Success: true, Data: data, IsIdempotentReplay: &isReplay})
}

// Fail writes an error envelope.
func Fail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{Success: false, Error: message})
}

// HandleDomainError maps an engine error to the status-code table:
//
//	validation / bad input            400
//	AssetNotFound / WalletNotFound    404
//	duplicates / TransactionConflict  409
//	InsufficientBalance               422
//	anything else                     500
func HandleDomainError(c *gin.Context, err error) {
	switch {
	case domainErrors.IsValidation(err):
		Fail(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, domainErrors.ErrInvalidTransfer),
		errors.Is(err, domainErrors.ErrAssetMismatch),
		errors.Is(err, domainErrors.ErrAmountExceedsLimit),
		errors.Is(err, domainErrors.ErrWalletInactive):
		Fail(c, http.StatusBadRequest, err.Error())

	case domainErrors.IsNotFound(err):
		Fail(c, http.StatusNotFound, err.Error())

	case errors.Is(err, domainErrors.ErrInsufficientBalance):
		Fail(c, http.StatusUnprocessableEntity, err.Error())

	case domainErrors.IsConflict(err):
		Fail(c, http.StatusConflict, err.Error())

	default:
		// Never leak store internals to the client.
		Fail(c, http.StatusInternalServerError, "an unexpected error occurred")
	}
}
