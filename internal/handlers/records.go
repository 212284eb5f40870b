package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/neuralpath/backend/internal/apierror"
	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
	"github.com/JonnyWalker81/neuralpath/backend/internal/service"
)

type RecordHandler struct {
	recordService service.RecordService
	windows       service.WindowPolicy
	now           func() time.Time
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(recordService service.RecordService, windows service.WindowPolicy) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
		windows:       windows,
		now:           time.Now,
	}
}

// CreateRecord handles POST /api/v1/records
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		if fieldErrors, ok := apierror.FieldErrorsFrom(err); ok {
			apierror.WriteProblem(c, apierror.NewValidationError(requestID, fieldErrors))
			return
		}
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	record, created, err := h.recordService.CreateRecord(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidUUID) || errors.Is(err, service.ErrNotUUIDv7) {
			apierror.WriteProblem(c, apierror.NewInvalidUUIDError(apierror.GetRequestID(c), "id", *req.ID))
			return
		}
		writeError(c, err)
		return
	}

	// 201 for new records, 200 when a retry found the stored copy
	if created {
		c.JSON(http.StatusCreated, record)
	} else {
		c.JSON(http.StatusOK, record)
	}
}

// ListRecords handles GET /api/v1/records
func (h *RecordHandler) ListRecords(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var q windowQuery
	if !bindQuery(c, &q) {
		return
	}
	window, err := resolveWindow(q, h.windows, h.now())
	if err != nil {
		writeError(c, err)
		return
	}

	records, err := h.recordService.ListRecords(c.Request.Context(), userID, window)
	if err != nil {
		writeError(c, err)
		return
	}
	if records == nil {
		records = []models.SymptomRecord{}
	}

	c.JSON(http.StatusOK, gin.H{
		"records":    records,
		"count":      len(records),
		"start_date": window.Start,
		"end_date":   window.End,
	})
}

// GetRecord handles GET /api/v1/records/:id
func (h *RecordHandler) GetRecord(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	record, err := h.recordService.GetRecord(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// UpdateRecord handles PATCH /api/v1/records/:id
func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(apierror.GetRequestID(c), err.Error(), "Invalid JSON format"))
		return
	}

	record, err := h.recordService.UpdateRecord(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// DeleteRecord handles DELETE /api/v1/records/:id
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.recordService.DeleteRecord(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
