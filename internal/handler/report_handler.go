package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/records-drivecost/internal/service"
	"github.com/jengzang/records-drivecost/pkg/response"
)

// ReportHandler handles HTTP requests for the generated report
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// GetReport handles GET /api/v1/report
func (h *ReportHandler) GetReport(c *gin.Context) {
	report, err := h.service.GetReport()
	if errors.Is(err, service.ErrNoReport) {
		response.NotFound(c, "Report not generated yet")
		return
	}
	if err != nil {
		response.InternalError(c, "Failed to get report", err)
		return
	}

	response.Success(c, report)
}
