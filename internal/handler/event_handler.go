package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/records-drivecost/internal/models"
	"github.com/jengzang/records-drivecost/internal/service"
	"github.com/jengzang/records-drivecost/pkg/response"
)

// EventHandler handles HTTP requests for indexed events
type EventHandler struct {
	service *service.ReportService
}

// NewEventHandler creates a new event handler
func NewEventHandler(service *service.ReportService) *EventHandler {
	return &EventHandler{service: service}
}

// GetEvents handles GET /api/v1/events
func (h *EventHandler) GetEvents(c *gin.Context) {
	var filter models.EventFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}
	if filter.Category != "" && filter.Category != string(models.CategoryVisit) && filter.Category != string(models.CategoryActivity) {
		response.BadRequest(c, "Invalid category", fmt.Errorf("unknown category %q", filter.Category))
		return
	}

	events, err := h.service.GetEvents(c.Request.Context(), filter)
	if err != nil {
		response.InternalError(c, "Failed to get events", err)
		return
	}

	response.Success(c, events)
}

// GetWeekdaySummary handles GET /api/v1/events/weekdays
func (h *EventHandler) GetWeekdaySummary(c *gin.Context) {
	summary, err := h.service.GetWeekdaySummary(c.Request.Context())
	if err != nil {
		response.InternalError(c, "Failed to get weekday summary", err)
		return
	}

	response.Success(c, summary)
}
