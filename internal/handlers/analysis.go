package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/neuralpath/backend/internal/service"
)

type AnalysisHandler struct {
	analysisService service.AnalysisService
	windows         service.WindowPolicy
	now             func() time.Time
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService service.AnalysisService, windows service.WindowPolicy) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		windows:         windows,
		now:             time.Now,
	}
}

// prepare authenticates the caller and resolves the window from q
func (h *AnalysisHandler) prepare(c *gin.Context, q *windowQuery) (string, service.Window, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return "", service.Window{}, false
	}
	if !bindQuery(c, q) {
		return "", service.Window{}, false
	}
	window, err := resolveWindow(*q, h.windows, h.now())
	if err != nil {
		writeError(c, err)
		return "", service.Window{}, false
	}
	return userID, window, true
}

func respond(c *gin.Context, result interface{}, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSummary handles GET /api/v1/analysis/summary
func (h *AnalysisHandler) GetSummary(c *gin.Context) {
	var q windowQuery
	userID, window, ok := h.prepare(c, &q)
	if !ok {
		return
	}
	summary, err := h.analysisService.Summary(c.Request.Context(), userID, window)
	respond(c, summary, err)
}

// GetTrend handles GET /api/v1/analysis/trend
func (h *AnalysisHandler) GetTrend(c *gin.Context) {
	var q windowQuery
	userID, window, ok := h.prepare(c, &q)
	if !ok {
		return
	}
	trend, err := h.analysisService.Trend(c.Request.Context(), userID, window)
	respond(c, trend, err)
}

// GetMedication handles GET /api/v1/analysis/medications/:name
func (h *AnalysisHandler) GetMedication(c *gin.Context) {
	var q windowQuery
	userID, window, ok := h.prepare(c, &q)
	if !ok {
		return
	}
	result, err := h.analysisService.Medication(c.Request.Context(), userID, c.Param("name"), window)
	respond(c, result, err)
}

// GetMedications handles GET /api/v1/analysis/medications?names=a,b. Without
// names every medication taken in the window is analyzed.
func (h *AnalysisHandler) GetMedications(c *gin.Context) {
	var q windowQuery
	userID, window, ok := h.prepare(c, &q)
	if !ok {
		return
	}

	var names []string
	for _, name := range strings.Split(c.Query("names"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}

	results, err := h.analysisService.Medications(c.Request.Context(), userID, names, window)
	respond(c, results, err)
}

// GetSubstance handles GET /api/v1/analysis/substances/:name
func (h *AnalysisHandler) GetSubstance(c *gin.Context) {
	var q windowQuery
	userID, window, ok := h.prepare(c, &q)
	if !ok {
		return
	}
	result, err := h.analysisService.Substance(c.Request.Context(), userID, c.Param("name"), window)
	respond(c, result, err)
}

// GetFactors handles GET /api/v1/analysis/factors
func (h *AnalysisHandler) GetFactors(c *gin.Context) {
	var q windowQuery
	userID, window, ok := h.prepare(c, &q)
	if !ok {
		return
	}
	result, err := h.analysisService.Factors(c.Request.Context(), userID, window)
	respond(c, result, err)
}

// GetStreaks handles GET /api/v1/analysis/streaks
func (h *AnalysisHandler) GetStreaks(c *gin.Context) {
	var q windowQuery
	userID, window, ok := h.prepare(c, &q)
	if !ok {
		return
	}
	streaks, err := h.analysisService.Streaks(c.Request.Context(), userID, window)
	respond(c, streaks, err)
}

// GetWeekdays handles GET /api/v1/analysis/weekdays
func (h *AnalysisHandler) GetWeekdays(c *gin.Context) {
	var q windowQuery
	userID, window, ok := h.prepare(c, &q)
	if !ok {
		return
	}
	pattern, err := h.analysisService.Weekdays(c.Request.Context(), userID, window)
	respond(c, pattern, err)
}
