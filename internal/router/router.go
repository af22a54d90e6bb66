package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"orderscan/internal/handler"
	"orderscan/internal/metrics"
	"orderscan/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	scanH *handler.ScanHandler,
	healthH *handler.HealthHandler,
	m *metrics.Metrics,
	corsOrigins []string,
	log *zap.Logger,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log, m))
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	v1 := r.Group("/api/v1")

	scans := v1.Group("/scans")
	scans.POST("", scanH.Upload)
	scans.GET("", scanH.List)
	scans.GET("/:id", scanH.Get)
	scans.GET("/:id/records", scanH.Records)
	scans.GET("/:id/anomalies", scanH.Anomalies)
	scans.GET("/:id/report", scanH.Report)
	scans.GET("/:id/export.csv", scanH.ExportCSV)
	scans.GET("/:id/export.xlsx", scanH.ExportXLSX)

	return r
}
