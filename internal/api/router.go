package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jengzang/records-drivecost/internal/config"
	"github.com/jengzang/records-drivecost/internal/handler"
	"github.com/jengzang/records-drivecost/internal/metrics"
	"github.com/jengzang/records-drivecost/internal/middleware"
	"github.com/jengzang/records-drivecost/internal/service"
)

// Deps are the collaborators of the report API
type Deps struct {
	Reports  *service.ReportService
	Recorder *metrics.Recorder
	Gatherer prometheus.Gatherer
}

// SetupRouter 设置路由
func SetupRouter(ctx context.Context, cfg *config.Config, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(deps.Recorder))
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(ctx, cfg.Server.RateLimit, cfg.Server.RateWindow)))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "drivecost report API is running",
		})
	})

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	reportHandler := handler.NewReportHandler(deps.Reports)
	eventHandler := handler.NewEventHandler(deps.Reports)

	// API 路由组
	v1 := r.Group("/api/v1")
	if cfg.Auth.JWTSecret != "" {
		v1.Use(middleware.RequireToken(cfg.Auth.JWTSecret))
	}
	{
		v1.GET("/report", reportHandler.GetReport)

		events := v1.Group("/events")
		{
			events.GET("", eventHandler.GetEvents)
			events.GET("/weekdays", eventHandler.GetWeekdaySummary)
		}
	}

	return r
}
