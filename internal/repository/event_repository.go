package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/records-drivecost/internal/database"
	"github.com/jengzang/records-drivecost/internal/models"
)

var weekdays = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// EventRepository handles the in-memory index of flattened events
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// ReplaceEvents swaps the indexed sequence for events, keeping their order
func (r *EventRepository) ReplaceEvents(ctx context.Context, events []models.Event) error {
	return database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM events"); err != nil {
			return fmt.Errorf("failed to clear events: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO events (
			seq, category, semantic_type, start_time, end_time, day_index, day_of_week,
			duration_seconds, distance_meters, top_candidate_type, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, e := range events {
			payload, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to encode event %d: %w", i, err)
			}

			var dayIndex sql.NullInt64
			if e.StartTime != nil {
				dayIndex = sql.NullInt64{Int64: int64(e.StartTime.Weekday()), Valid: true}
			}

			_, err = stmt.ExecContext(ctx,
				i, string(e.Category), nullString(e.SemanticType),
				unixOrNull(e.StartTime), unixOrNull(e.EndTime), dayIndex, nullString(e.DayOfWeek),
				nullInt64(e.DurationSeconds), nullFloat(e.DistanceMeters), nullString(e.TopCandidateType),
				string(payload),
			)
			if err != nil {
				return fmt.Errorf("failed to insert event %d: %w", i, err)
			}
		}
		return nil
	})
}

// GetEvents retrieves events with filtering and pagination, in sequence order
func (r *EventRepository) GetEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.SemanticType != "" {
		conditions = append(conditions, "semantic_type = ?")
		args = append(args, filter.SemanticType)
	}
	if filter.DayOfWeek != "" {
		conditions = append(conditions, "day_of_week = ?")
		args = append(args, filter.DayOfWeek)
	}
	if filter.StartTime > 0 {
		conditions = append(conditions, "start_time >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "end_time <= ?")
		args = append(args, filter.EndTime)
	}
	if filter.MinDuration > 0 {
		conditions = append(conditions, "duration_seconds >= ?")
		args = append(args, filter.MinDuration)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	page, pageSize := NormalizePage(filter.Page, filter.PageSize)
	query := "SELECT payload FROM events" + where + " ORDER BY seq ASC LIMIT ? OFFSET ?"
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, 0, fmt.Errorf("failed to scan event: %w", err)
		}
		var e models.Event
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			return nil, 0, fmt.Errorf("failed to decode event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, total, nil
}

// WeekdaySummary aggregates events by the weekday of their start, Sunday first.
// Events without a start time are not attributed to any day.
func (r *EventRepository) WeekdaySummary(ctx context.Context) ([]models.WeekdaySummary, error) {
	query := `SELECT day_index,
			SUM(CASE WHEN category = ? THEN 1 ELSE 0 END),
			SUM(CASE WHEN category = ? THEN 1 ELSE 0 END),
			COALESCE(SUM(duration_seconds), 0),
			COALESCE(SUM(distance_meters), 0)
		FROM events
		WHERE day_index IS NOT NULL
		GROUP BY day_index
		ORDER BY day_index`

	rows, err := r.db.QueryContext(ctx, query, string(models.CategoryVisit), string(models.CategoryActivity))
	if err != nil {
		return nil, fmt.Errorf("failed to query weekday summary: %w", err)
	}
	defer rows.Close()

	summary := make([]models.WeekdaySummary, 0, len(weekdays))
	for rows.Next() {
		var day int
		var s models.WeekdaySummary
		if err := rows.Scan(&day, &s.Visits, &s.Activities, &s.DurationSeconds, &s.DistanceMeters); err != nil {
			return nil, fmt.Errorf("failed to scan weekday summary: %w", err)
		}
		if day < 0 || day >= len(weekdays) {
			continue
		}
		s.DayOfWeek = weekdays[day]
		summary = append(summary, s)
	}
	return summary, rows.Err()
}

// Count returns the number of indexed events
func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}

// NormalizePage applies the default and maximum page size
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 100
	}
	if pageSize > 1000 {
		pageSize = 1000
	}
	return page, pageSize
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func unixOrNull(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}
