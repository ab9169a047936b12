package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/repository"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/service"
)

// Error codes returned in the "error" field.
const (
	CodeInvalidDate        = "invalid_date"
	CodeInvalidRequest     = "invalid_request"
	CodeValidation         = "validation_failed"
	CodeMissingUser        = "missing_user"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeServiceUnavailable = "service_unavailable"
	CodeInternal           = "internal_error"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorBody{Error: code, Message: message})
}

// writeError maps a use-case error onto a status and code.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		svcErr  *app.ServiceError
		dateErr *jst.InvalidDateError
	)
	switch {
	case errors.As(err, &svcErr):
		abort(c, http.StatusServiceUnavailable, CodeServiceUnavailable, "the report store is unavailable, try again later")
	case errors.As(err, &dateErr):
		abort(c, http.StatusBadRequest, CodeInvalidDate, err.Error())
	case errors.Is(err, domain.ErrValidation):
		abort(c, http.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		abort(c, http.StatusForbidden, CodeForbidden, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		abort(c, http.StatusNotFound, CodeNotFound, err.Error())
	default:
		abort(c, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}
