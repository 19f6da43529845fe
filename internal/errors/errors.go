package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError is the body of every non-2xx response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

type codeInfo struct {
	status         int
	defaultMessage string
}

var codes = map[string]codeInfo{
	ErrCodeUnauthorized:       {http.StatusUnauthorized, "Authentication required"},
	ErrCodeForbidden:          {http.StatusForbidden, "Access denied"},
	ErrCodeInvalidInput:       {http.StatusBadRequest, "Invalid request"},
	ErrCodeNotFound:           {http.StatusNotFound, "Resource not found"},
	ErrCodeConflict:           {http.StatusConflict, "Resource conflict"},
	ErrCodeTooManyRequests:    {http.StatusTooManyRequests, "Too many requests"},
	ErrCodeInternalError:      {http.StatusInternalServerError, "Internal server error"},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, "Service temporarily unavailable"},
}

// Respond aborts the chain with the envelope for code. An empty message uses
// the code's default.
func Respond(c *gin.Context, code, message string, details interface{}) {
	info, ok := codes[code]
	if !ok {
		code, info = ErrCodeInternalError, codes[ErrCodeInternalError]
	}
	if message == "" {
		message = info.defaultMessage
	}
	c.AbortWithStatusJSON(info.status, &APIError{Code: code, Message: message, Details: details})
}

func Unauthorized(c *gin.Context, message string) {
	Respond(c, ErrCodeUnauthorized, message, nil)
}

func Forbidden(c *gin.Context, message string) {
	Respond(c, ErrCodeForbidden, message, nil)
}

func NotFound(c *gin.Context, message string) {
	Respond(c, ErrCodeNotFound, message, nil)
}

func BadRequest(c *gin.Context, message string) {
	Respond(c, ErrCodeInvalidInput, message, nil)
}

// BadRequestWithDetails sends a 400 whose details name the offending input
func BadRequestWithDetails(c *gin.Context, message string, details interface{}) {
	Respond(c, ErrCodeInvalidInput, message, details)
}

func Conflict(c *gin.Context, message string) {
	Respond(c, ErrCodeConflict, message, nil)
}

func TooManyRequests(c *gin.Context, message string) {
	Respond(c, ErrCodeTooManyRequests, message, nil)
}

// InternalError never echoes internal details; callers log them instead
func InternalError(c *gin.Context, message string) {
	Respond(c, ErrCodeInternalError, message, nil)
}

func ServiceUnavailable(c *gin.Context, message string) {
	Respond(c, ErrCodeServiceUnavailable, message, nil)
}
