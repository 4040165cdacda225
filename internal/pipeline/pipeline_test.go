package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jengzang/records-drivecost/internal/config"
	"github.com/jengzang/records-drivecost/internal/cost"
	"github.com/jengzang/records-drivecost/internal/metrics"
)

const tripExport = `{
  "semanticSegments": [
    {
      "startTime": "2024-03-01T08:00:00.000-08:00",
      "endTime": "2024-03-01T09:00:00.000-08:00",
      "visit": {"topCandidate": {"semanticType": "HOME", "placeLocation": {"latLng": "37.7749°, -122.4194°"}}}
    },
    {
      "startTime": "2024-03-01T09:00:00.000-08:00",
      "endTime": "2024-03-01T10:30:00.000-08:00",
      "activity": {
        "start": {"latLng": "37.7749°, -122.4194°"},
        "end": {"latLng": "38.5816°, -121.4944°"},
        "distanceMeters": 160000,
        "topCandidate": {"type": "IN_PASSENGER_VEHICLE", "probability": 0.95}
      }
    },
    {
      "startTime": "2024-03-11T09:30:00.000-07:00",
      "endTime": "2024-03-11T11:00:00.000-07:00",
      "visit": {"topCandidate": {"semanticType": "INFERRED_WORK"}}
    }
  ]
}`

func writeInputs(t *testing.T, withInflation bool) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Input.TimelinePath = filepath.Join(dir, "location-history.json")
	cfg.Input.InflationPath = filepath.Join(dir, "inflation_rate_year.csv")

	if err := os.WriteFile(cfg.Input.TimelinePath, []byte(tripExport), 0o644); err != nil {
		t.Fatal(err)
	}
	if withInflation {
		if err := os.WriteFile(cfg.Input.InflationPath, []byte("year,rate\n2024,0.029\n2025,0.027\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return cfg
}

func newTestPipeline(cfg *config.Config) *Pipeline {
	p := New(cfg, metrics.New(prometheus.NewRegistry()))
	p.now = func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestRunProducesFullReport(t *testing.T) {
	cfg := writeInputs(t, true)

	out, err := newTestPipeline(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	report := out.Report

	if report.ID == "" {
		t.Fatalf("expected report id")
	}
	if len(report.Failures) != 0 {
		t.Fatalf("unexpected failures: %v", report.Failures)
	}
	if len(out.Events) != 3 || report.Ingest.TotalEvents != 3 || report.Ingest.UniqueDrives != 1 {
		t.Fatalf("ingest mismatch: %+v", report.Ingest)
	}
	if report.Ingest.FirstStart == nil || report.Ingest.LastEnd == nil ||
		report.Ingest.LastEnd.Sub(*report.Ingest.FirstStart) != 10*24*time.Hour+2*time.Hour {
		t.Fatalf("span mismatch: %+v", report.Ingest)
	}

	if report.Sequence == nil || report.Sequence.TotalConsecutiveVisits != 2 || report.Sequence.TotalConsecutiveActivities != 1 {
		t.Fatalf("sequence mismatch: %+v", report.Sequence)
	}
	if report.Emissions == nil || report.Emissions.MilesDriven != 100 || report.Emissions.DaysSpanned != 10 {
		t.Fatalf("emissions mismatch: %+v", report.Emissions)
	}
	if report.Payment == nil || report.Payment.Branch != cost.BranchFallback {
		t.Fatalf("payment mismatch: %+v", report.Payment)
	}
	if report.Fees == nil || report.Fees.AnnualInsuranceCost != 600 {
		t.Fatalf("fees mismatch: %+v", report.Fees)
	}
	if report.Totals == nil || report.Totals.DaysUsed != 10 || report.Totals.PerMileCost <= 0 {
		t.Fatalf("totals mismatch: %+v", report.Totals)
	}
	if d := out.Events[1].DisplacementMeters; d == nil || *d < 100000 {
		t.Fatalf("expected drive displacement to be enriched, got %v", d)
	}
}

func TestRunWithoutInflationTableSkipsPayment(t *testing.T) {
	cfg := writeInputs(t, false)

	out, err := newTestPipeline(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	report := out.Report

	if report.Payment != nil || report.Totals != nil {
		t.Fatalf("payment and totals must be absent without inflation data")
	}
	if report.Emissions == nil || report.Sequence == nil {
		t.Fatalf("event analyses should still run")
	}
	if len(report.Failures) != 1 || !strings.HasPrefix(report.Failures[0], StagePayment) {
		t.Fatalf("expected one payment failure, got %v", report.Failures)
	}
}

func TestRunWithMissingExport(t *testing.T) {
	cfg := writeInputs(t, true)
	cfg.Input.TimelinePath = filepath.Join(t.TempDir(), "absent.json")

	out, err := newTestPipeline(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	report := out.Report

	if report.Sequence != nil || report.Emissions != nil || report.Totals != nil {
		t.Fatalf("event stages must be skipped without an export")
	}
	if report.Payment == nil {
		t.Fatalf("payment depends only on configuration and should be present")
	}
	if len(report.Failures) != 1 || !strings.Contains(report.Failures[0], "missing_file") {
		t.Fatalf("expected a missing file failure, got %v", report.Failures)
	}
}

func TestRunRejectsInvalidCutoff(t *testing.T) {
	cfg := writeInputs(t, true)
	cfg.Input.Cutoff = "yesterday"

	if _, err := newTestPipeline(cfg).Run(context.Background()); err == nil {
		t.Fatalf("expected cutoff parse error")
	}
}

func TestRunCancelled(t *testing.T) {
	cfg := writeInputs(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestPipeline(cfg).Run(ctx); err == nil {
		t.Fatalf("expected cancellation error")
	}
}
