// Package handlers exposes records, analysis and export over HTTP.
package handlers

import (
	"errors"
	"time"

	"github.com/creasty/defaults"
	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/neuralpath/backend/internal/apierror"
	"github.com/JonnyWalker81/neuralpath/backend/internal/export"
	"github.com/JonnyWalker81/neuralpath/backend/internal/logger"
	"github.com/JonnyWalker81/neuralpath/backend/internal/middleware"
	"github.com/JonnyWalker81/neuralpath/backend/internal/service"
)

// windowQuery is the date range accepted by list, analysis and export routes.
// Dates are RFC 3339 timestamps or plain YYYY-MM-DD days.
type windowQuery struct {
	Days      int    `form:"days" binding:"omitempty,min=1"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// currentUser returns the authenticated user, writing a 401 when there is none
func currentUser(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.ContextUserID)
	if id == "" {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
		return "", false
	}
	return id, true
}

// bindQuery binds query parameters into req, fills `default` tags and reports
// any problem to the client
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := defaults.Set(req); err != nil {
		writeError(c, err)
		return false
	}
	if err := c.ShouldBindQuery(req); err != nil {
		if fieldErrors, ok := apierror.FieldErrorsFrom(err); ok {
			apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), fieldErrors))
			return false
		}
		apierror.WriteProblem(c, apierror.NewBadRequestError(apierror.GetRequestID(c), err.Error(), "Invalid query parameters"))
		return false
	}
	return true
}

func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, &service.FieldError{Field: field, Message: "must be an RFC 3339 timestamp or YYYY-MM-DD date"}
	}
	return &t, nil
}

// resolveWindow turns q into a Window under policy
func resolveWindow(q windowQuery, policy service.WindowPolicy, now time.Time) (service.Window, error) {
	start, err := parseDate("start_date", q.StartDate)
	if err != nil {
		return service.Window{}, err
	}
	end, err := parseDate("end_date", q.EndDate)
	if err != nil {
		return service.Window{}, err
	}
	return policy.Resolve(now, q.Days, start, end)
}

// writeError maps service errors onto problem responses. Anything it does
// not recognize is logged and reported as a 500.
func writeError(c *gin.Context, err error) {
	requestID := apierror.GetRequestID(c)

	var (
		fieldErr     *service.FieldError
		insufficient *service.InsufficientDataError
	)
	switch {
	case errors.As(err, &fieldErr):
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{{
			Field:   fieldErr.Field,
			Message: fieldErr.Message,
			Code:    "invalid_value",
		}}))
	case errors.As(err, &insufficient):
		apierror.WriteProblem(c, apierror.NewInsufficientDataError(requestID, insufficient.Available, insufficient.Required))
	case errors.Is(err, service.ErrFutureTimestamp):
		apierror.WriteProblem(c, apierror.NewFutureTimestampError(requestID, "timestamp"))
	case errors.Is(err, service.ErrRecordNotFound):
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, "Record", c.Param("id")))
	case errors.Is(err, service.ErrRecordConflict):
		apierror.WriteProblem(c, apierror.NewConflictError(requestID, "A record with this ID already exists"))
	case errors.Is(err, service.ErrInvalidDateRange):
		apierror.WriteProblem(c, apierror.NewInvalidDateRangeError(requestID, err.Error()))
	case errors.Is(err, export.ErrUnsupportedFormat):
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Choose csv, json or xlsx"))
	default:
		logger.FromContext(c.Request.Context()).Error("request failed",
			logger.String("route", c.FullPath()),
			logger.Err(err),
		)
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
	}
}
