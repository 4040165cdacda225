package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jengzang/records-drivecost/internal/models"
	"github.com/jengzang/records-drivecost/internal/repository"
)

// ErrNoReport is returned before the first report has been published
var ErrNoReport = errors.New("no report generated yet")

// ReportService serves the last generated report and its indexed events
type ReportService struct {
	repo *repository.EventRepository

	mu     sync.RWMutex
	report *models.Report
}

// NewReportService creates a new report service
func NewReportService(repo *repository.EventRepository) *ReportService {
	return &ReportService{repo: repo}
}

// Publish indexes the events of a run and makes its report current
func (s *ReportService) Publish(ctx context.Context, report *models.Report, events []models.Event) error {
	if err := s.repo.ReplaceEvents(ctx, events); err != nil {
		return err
	}

	s.mu.Lock()
	s.report = report
	s.mu.Unlock()

	log.Info().
		Str("component", "service").
		Str("report_id", report.ID).
		Int("events", len(events)).
		Msg("Report published")
	return nil
}

// GetReport returns the current report
func (s *ReportService) GetReport() (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return nil, ErrNoReport
	}
	return s.report, nil
}

// GetEvents retrieves indexed events with filtering and pagination
func (s *ReportService) GetEvents(ctx context.Context, filter models.EventFilter) (*models.EventsResponse, error) {
	events, total, err := s.repo.GetEvents(ctx, filter)
	if err != nil {
		return nil, err
	}

	page, pageSize := repository.NormalizePage(filter.Page, filter.PageSize)
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &models.EventsResponse{
		Data:       events,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// GetWeekdaySummary aggregates indexed events per weekday
func (s *ReportService) GetWeekdaySummary(ctx context.Context) ([]models.WeekdaySummary, error) {
	return s.repo.WeekdaySummary(ctx)
}
