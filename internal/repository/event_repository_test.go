package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jengzang/records-drivecost/internal/database"
	"github.com/jengzang/records-drivecost/internal/ingest"
	"github.com/jengzang/records-drivecost/internal/models"
)

func ptr[T any](v T) *T { return &v }

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), database.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testEvents() []models.Event {
	pdt := time.FixedZone("PDT", -7*3600)
	monday := time.Date(2024, 3, 4, 8, 0, 0, 0, pdt)
	at := func(d time.Duration) *time.Time { t := monday.Add(d); return &t }

	events := []models.Event{
		{Category: models.CategoryVisit, SemanticType: ptr("HOME"), StartTime: at(0), EndTime: at(time.Hour)},
		{Category: models.CategoryActivity, SemanticType: ptr(models.TypeInPassengerVehicle), TopCandidateType: ptr(models.TypeInPassengerVehicle),
			StartTime: at(time.Hour), EndTime: at(90 * time.Minute), DistanceMeters: ptr(12000.0)},
		{Category: models.CategoryVisit, SemanticType: ptr("INFERRED_WORK"), StartTime: at(90 * time.Minute), EndTime: at(9 * time.Hour)},
		{Category: models.CategoryActivity, SemanticType: ptr(models.TypeWalking), TopCandidateType: ptr(models.TypeWalking),
			StartTime: at(25 * time.Hour), EndTime: at(25*time.Hour + 10*time.Minute), DistanceMeters: ptr(800.0)},
		{Category: models.CategoryVisit},
	}
	return ingest.Enrich(events)
}

func TestReplaceAndGetEvents(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(openTestDB(t))

	if err := repo.ReplaceEvents(ctx, testEvents()); err != nil {
		t.Fatalf("replace: %v", err)
	}

	all, total, err := repo.GetEvents(ctx, models.EventFilter{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if total != 5 || len(all) != 5 {
		t.Fatalf("expected 5 events, got %d/%d", len(all), total)
	}
	if *all[1].SemanticType != models.TypeInPassengerVehicle || *all[1].DistanceMeters != 12000 {
		t.Fatalf("event order or payload lost: %+v", all[1])
	}
	if _, offset := all[0].StartTime.Zone(); offset != -7*3600 {
		t.Fatalf("start offset not preserved: %d", offset)
	}

	visits, total, err := repo.GetEvents(ctx, models.EventFilter{Category: "visit"})
	if err != nil {
		t.Fatalf("get visits: %v", err)
	}
	if total != 3 || len(visits) != 3 {
		t.Fatalf("expected 3 visits, got %d", total)
	}

	page, total, err := repo.GetEvents(ctx, models.EventFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	if total != 5 || len(page) != 2 || *page[0].SemanticType != "INFERRED_WORK" {
		t.Fatalf("pagination mismatch: total %d len %d", total, len(page))
	}

	long, _, err := repo.GetEvents(ctx, models.EventFilter{MinDuration: 3600, DayOfWeek: "Monday"})
	if err != nil {
		t.Fatalf("get long: %v", err)
	}
	if len(long) != 2 {
		t.Fatalf("expected 2 hour-long Monday events, got %d", len(long))
	}
}

func TestReplaceEventsDropsPrevious(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(openTestDB(t))

	if err := repo.ReplaceEvents(ctx, testEvents()); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := repo.ReplaceEvents(ctx, testEvents()[:2]); err != nil {
		t.Fatalf("replace: %v", err)
	}
	n, err := repo.Count(ctx)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 events after replace, got %d (%v)", n, err)
	}
}

func TestWeekdaySummary(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(openTestDB(t))
	if err := repo.ReplaceEvents(ctx, testEvents()); err != nil {
		t.Fatalf("replace: %v", err)
	}

	summary, err := repo.WeekdaySummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("expected Monday and Tuesday, got %+v", summary)
	}

	mon, tue := summary[0], summary[1]
	if mon.DayOfWeek != "Monday" || mon.Visits != 2 || mon.Activities != 1 {
		t.Fatalf("monday mismatch: %+v", mon)
	}
	if mon.DurationSeconds != 9*3600 || mon.DistanceMeters != 12000 {
		t.Fatalf("monday totals mismatch: %+v", mon)
	}
	if tue.DayOfWeek != "Tuesday" || tue.Activities != 1 || tue.DurationSeconds != 600 {
		t.Fatalf("tuesday mismatch: %+v", tue)
	}
}

func TestNormalizePage(t *testing.T) {
	cases := []struct{ page, size, wantPage, wantSize int }{
		{0, 0, 1, 100},
		{3, 50, 3, 50},
		{1, 5000, 1, 1000},
	}
	for _, c := range cases {
		p, s := NormalizePage(c.page, c.size)
		if p != c.wantPage || s != c.wantSize {
			t.Fatalf("NormalizePage(%d, %d) = %d, %d", c.page, c.size, p, s)
		}
	}
}
