// Package response maps service errors onto HTTP responses.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hostelcare/backend/internal/apperrors"
)

// Error is an HTTP-ready failure: status code plus the reason string returned
// to the client.
type Error struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
}

// ResolveError maps a service error to its HTTP representation. Unknown errors
// become a generic 500 so internal detail never leaks to clients.
func ResolveError(err error) Error {
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return Error{Code: http.StatusUnauthorized, Message: err.Error()}
	case errors.Is(err, apperrors.ErrForbidden):
		return Error{Code: http.StatusForbidden, Message: err.Error()}
	case errors.Is(err, apperrors.ErrQuotaExceeded):
		return Error{Code: http.StatusConflict, Message: err.Error()}
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return Error{Code: http.StatusConflict, Message: err.Error()}
	case errors.Is(err, apperrors.ErrNotFound):
		return Error{Code: http.StatusNotFound, Message: err.Error()}
	case errors.Is(err, apperrors.ErrValidation):
		return Error{Code: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, apperrors.ErrStore):
		return Error{Code: http.StatusInternalServerError, Message: "storage failure"}
	default:
		return Error{Code: http.StatusInternalServerError, Message: "internal error"}
	}
}

// HandleError writes the resolved error and aborts the request.
func HandleError(err error, c *gin.Context) {
	resolved := ResolveError(err)
	c.AbortWithStatusJSON(resolved.Code, resolved)
}
