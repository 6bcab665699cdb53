package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same code and message so predefined values work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Wrap returns a copy of e carrying err as its cause.
func (e *Error) Wrap(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func Validation(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

func Unauthenticated(message string) *Error {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, message, nil)
}

// Upstream reports a failed call to a peer service.
func Upstream(message string, err error) *Error {
	return New(http.StatusBadGateway, message, err)
}

// Internal hides err behind a generic message; the cause is only logged.
func Internal(err error) *Error {
	return New(http.StatusInternalServerError, "Internal server error", err)
}

// Common error types
var (
	ErrUnauthorized  = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrRouteNotFound = New(http.StatusNotFound, "Route not found", nil)
)

// Authentication error types
var (
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid email or password", nil)
	ErrMissingToken       = New(http.StatusUnauthorized, "Access token is missing", nil)
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid or expired token", nil)
)

// Business logic error types
var (
	ErrInsufficientStock = New(http.StatusBadRequest, "Insufficient stock", nil)
	ErrInvalidProduct    = New(http.StatusBadRequest, "Invalid product", nil)
	ErrInvalidOrderState = New(http.StatusBadRequest, "Order is not in pending state", nil)
	ErrInvalidTransition = New(http.StatusConflict, "Invalid status transition", nil)
)

// As converts any error into an *Error, falling back to an internal error.
func As(err error) *Error {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// ErrorMiddleware renders the last error attached with c.Error.
func ErrorMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := As(c.Errors.Last().Err)
		if appErr.Code >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("path", c.FullPath()),
				zap.String("request_id", c.GetString("request_id")),
				zap.Int("status", appErr.Code),
				zap.Error(appErr),
			)
		}

		c.AbortWithStatusJSON(appErr.Code, gin.H{"error": appErr.Message})
	}
}

// NoRoute answers unknown paths.
func NoRoute(c *gin.Context) {
	c.JSON(ErrRouteNotFound.Code, gin.H{"error": ErrRouteNotFound.Message})
}
