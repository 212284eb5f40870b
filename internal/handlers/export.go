package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/neuralpath/backend/internal/export"
	"github.com/JonnyWalker81/neuralpath/backend/internal/service"
)

type ExportHandler struct {
	exportService service.ExportService
	windows       service.WindowPolicy
	now           func() time.Time
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService service.ExportService, windows service.WindowPolicy) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		windows:       windows,
		now:           time.Now,
	}
}

type exportQuery struct {
	windowQuery
	Format string `form:"format" default:"csv"`
}

// Export handles GET /api/v1/export?format=csv|json|xlsx
func (h *ExportHandler) Export(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var q exportQuery
	if !bindQuery(c, &q) {
		return
	}
	format, err := export.ParseFormat(q.Format)
	if err != nil {
		writeError(c, err)
		return
	}
	now := h.now()
	window, err := resolveWindow(q.windowQuery, h.windows, now)
	if err != nil {
		writeError(c, err)
		return
	}

	// Buffered so a failed export still gets a problem response
	var buf bytes.Buffer
	if err := h.exportService.Export(c.Request.Context(), userID, string(format), window, &buf); err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(now)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
