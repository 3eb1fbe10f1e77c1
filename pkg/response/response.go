package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ksred/liquidity-api/internal/types"
	"gorm.io/gorm"
)

// Response represents a standardized API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents an error response
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeExpiredQuote       = "EXPIRED_QUOTE"
	ErrCodeTransferFailed     = "TRANSFER_FAILED"
	ErrCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	ErrCodeDuplicateResource  = "DUPLICATE_RESOURCE"
)

// Handle maps the core error taxonomy to HTTP responses. Errors reach this
// boundary undecorated; this is the only place they turn into status codes.
func Handle(c *gin.Context, data interface{}, err error) {
	if err == nil {
		Success(c, data)
		return
	}
	fail(c, nil, err)
}

// HandleWith is Handle for failures that still carry a partial payload, such
// as the id of a trade left in Created after a failed execution.
func HandleWith(c *gin.Context, data interface{}, err error) {
	if err == nil {
		Success(c, data)
		return
	}
	fail(c, data, err)
}

func fail(c *gin.Context, data interface{}, err error) {
	switch {
	case errors.Is(err, types.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		respond(c, http.StatusNotFound, data, ErrCodeNotFound, err.Error())
	case errors.Is(err, types.ErrUnsupportedPair), errors.Is(err, types.ErrTrade):
		respond(c, http.StatusBadRequest, data, ErrCodeBadRequest, err.Error())
	case errors.Is(err, types.ErrExpiredQuote):
		respond(c, http.StatusGone, data, ErrCodeExpiredQuote, err.Error())
	case errors.Is(err, types.ErrTransfer):
		respond(c, http.StatusBadGateway, data, ErrCodeTransferFailed, err.Error())
	case errors.Is(err, types.ErrPersistence):
		respond(c, http.StatusServiceUnavailable, data, ErrCodeStorageUnavailable, err.Error())
	default:
		respond(c, http.StatusInternalServerError, data, ErrCodeInternalError, "An unexpected error has occurred")
	}
}

func respond(c *gin.Context, status int, data interface{}, code, message string) {
	c.JSON(status, Response{
		Success: false,
		Data:    data,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

// Success sends a successful response
func Success(c *gin.Context, data interface{}) {
	status := http.StatusOK
	if c.Request.Method == "POST" {
		status = http.StatusCreated
	}

	c.JSON(status, Response{
		Success: true,
		Data:    data,
	})
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, nil, ErrCodeNotFound, message)
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, nil, ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	respond(c, http.StatusUnauthorized, nil, ErrCodeUnauthorized, message)
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	respond(c, http.StatusForbidden, nil, ErrCodeForbidden, message)
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	respond(c, http.StatusInternalServerError, nil, ErrCodeInternalError, message)
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	respond(c, http.StatusConflict, nil, ErrCodeDuplicateResource, message)
}
