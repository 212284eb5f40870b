package handlers

import "github.com/gin-gonic/gin"

// Handlers bundles everything RegisterRoutes mounts
type Handlers struct {
	Records  *RecordHandler
	Analysis *AnalysisHandler
	Export   *ExportHandler
}

// RegisterRoutes mounts the authenticated API on api. heavy runs before the
// analysis and export routes only.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, heavy ...gin.HandlerFunc) {
	records := api.Group("/records")
	{
		records.POST("", h.Records.CreateRecord)
		records.GET("", h.Records.ListRecords)
		records.GET("/:id", h.Records.GetRecord)
		records.PATCH("/:id", h.Records.UpdateRecord)
		records.DELETE("/:id", h.Records.DeleteRecord)
	}

	analysis := api.Group("/analysis", heavy...)
	{
		analysis.GET("/summary", h.Analysis.GetSummary)
		analysis.GET("/trend", h.Analysis.GetTrend)
		analysis.GET("/medications", h.Analysis.GetMedications)
		analysis.GET("/medications/:name", h.Analysis.GetMedication)
		analysis.GET("/substances/:name", h.Analysis.GetSubstance)
		analysis.GET("/factors", h.Analysis.GetFactors)
		analysis.GET("/streaks", h.Analysis.GetStreaks)
		analysis.GET("/weekdays", h.Analysis.GetWeekdays)
	}

	api.Group("/export", heavy...).GET("", h.Export.Export)
}
