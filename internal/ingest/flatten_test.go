package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jengzang/records-drivecost/internal/failure"
	"github.com/jengzang/records-drivecost/internal/models"
	"github.com/jengzang/records-drivecost/internal/timeutil"
)

const sampleExport = `{
  "semanticSegments": [
    {
      "startTime": "2024-01-15T08:00:00.000-08:00",
      "endTime": "2024-01-15T09:00:00.000-08:00",
      "visit": {"topCandidate": {"semanticType": "HOME"}}
    },
    {
      "startTime": "2024-02-05T08:00:00.000-08:00",
      "endTime": "2024-02-05T08:30:00.000-08:00",
      "startTimeTimezoneUtcOffsetMinutes": -480,
      "activity": {
        "start": {"latLng": "37.7749°, -122.4194°"},
        "end": {"latLng": "37.8044°, -122.2712°"},
        "distanceMeters": 16093.4,
        "probability": 0.97,
        "topCandidate": {"type": "IN_PASSENGER_VEHICLE", "probability": 0.91},
        "parking": {"location": {"latLng": "37.8045°, -122.2711°"}, "startTime": "2024-02-05T08:31:00.000-08:00"}
      }
    },
    {
      "startTime": "2024-02-05T08:30:00.000-08:00",
      "endTime": "2024-02-05T17:00:00.000-08:00",
      "visit": {
        "hierarchyLevel": 0,
        "probability": 0.8,
        "topCandidate": {
          "placeId": "ChIJwork",
          "semanticType": "INFERRED_WORK",
          "probability": 0.7,
          "placeLocation": {"latLng": "37.8044°, -122.2712°"}
        }
      }
    },
    {
      "startTime": "2024-02-05T17:00:00.000-08:00",
      "endTime": "2024-02-05T18:00:00.000-08:00",
      "timelinePath": [{"point": "37.8°, -122.3°", "time": "2024-02-05T17:10:00.000-08:00"}]
    },
    {
      "startTime": "2024-02-05T18:00:00.000-08:00",
      "activity": {"topCandidate": {"type": "WALKING"}}
    }
  ]
}`

func flattenSample(t *testing.T) *Result {
	t.Helper()
	export, err := DecodeExport([]byte(sampleExport))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	res, err := NewFlattener(timeutil.MustParse(DefaultCutoff)).Process(export)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	return res
}

func TestProcessSkipsBeforeCutoffAndCollectsPaths(t *testing.T) {
	res := flattenSample(t)

	if res.Summary.Skipped != 1 {
		t.Fatalf("skipped mismatch: got %d want 1", res.Summary.Skipped)
	}
	if res.Summary.TotalEvents != 3 || len(res.Events) != 3 {
		t.Fatalf("events mismatch: got %d want 3", res.Summary.TotalEvents)
	}
	if res.Summary.TotalPaths != 1 || len(res.Paths) != 1 {
		t.Fatalf("paths mismatch: got %d want 1", res.Summary.TotalPaths)
	}
}

func TestProcessCutoffIsExclusive(t *testing.T) {
	tests := []struct {
		start string
		kept  bool
	}{
		{"2024-02-01T06:00:00.000-07:00", false},
		{"2024-02-01T13:00:00Z", false},
		{"2024-02-01T05:59:59.999-07:00", false},
		{"2024-02-01T06:00:00.001-07:00", true},
	}
	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			export, err := DecodeExport([]byte(`{"semanticSegments": [{"startTime": "` + tt.start + `", "visit": {"topCandidate": {"semanticType": "HOME"}}}]}`))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			res, err := NewFlattener(timeutil.MustParse(DefaultCutoff)).Process(export)
			if err != nil {
				t.Fatalf("process: %v", err)
			}
			if kept := len(res.Events) == 1; kept != tt.kept {
				t.Fatalf("kept = %v, want %v (skipped %d)", kept, tt.kept, res.Summary.Skipped)
			}
			if !tt.kept && res.Summary.Skipped != 1 {
				t.Fatalf("skipped mismatch: got %d want 1", res.Summary.Skipped)
			}
		})
	}
}

func TestProcessKeepsCategoryAndSemanticTypeApart(t *testing.T) {
	res := flattenSample(t)

	drive := res.Events[0]
	if drive.Category != models.CategoryActivity {
		t.Fatalf("expected activity, got %s", drive.Category)
	}
	if drive.TopCandidateType == nil || *drive.TopCandidateType != models.TypeInPassengerVehicle {
		t.Fatalf("expected passenger vehicle candidate")
	}
	if drive.DistanceMeters == nil || *drive.DistanceMeters != 16093.4 {
		t.Fatalf("distance mismatch: %v", drive.DistanceMeters)
	}
	if drive.ParkingStartTime == nil || drive.ParkingLatLng == nil {
		t.Fatalf("expected parking fields")
	}
	if drive.StartTimeTimezoneUtcOffsetMinutes == nil || *drive.StartTimeTimezoneUtcOffsetMinutes != -480 {
		t.Fatalf("expected start offset -480")
	}

	work := res.Events[1]
	if work.Category != models.CategoryVisit {
		t.Fatalf("visit relabeled: got category %s", work.Category)
	}
	if work.SemanticType == nil || *work.SemanticType != "INFERRED_WORK" {
		t.Fatalf("semantic type mismatch: %v", work.SemanticType)
	}
	if work.PlaceID == nil || *work.PlaceID != "ChIJwork" || work.HierarchyLevel == nil {
		t.Fatalf("expected visit place fields")
	}
}

func TestProcessLeavesAbsentFieldsNil(t *testing.T) {
	res := flattenSample(t)

	walk := res.Events[2]
	if walk.EndTime != nil {
		t.Fatalf("expected nil end time")
	}
	if walk.DistanceMeters != nil || walk.ActivityProbability != nil || walk.TopCandidateProbability != nil {
		t.Fatalf("expected absent numeric fields to stay nil")
	}
	if walk.StartLatLng != nil || walk.ParkingLatLng != nil {
		t.Fatalf("expected absent coordinates to stay nil")
	}
}

func TestProcessMalformedStartTime(t *testing.T) {
	export, err := DecodeExport([]byte(`{"semanticSegments":[{"startTime":"not a time","visit":{}}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	_, err = NewFlattener(timeutil.MustParse(DefaultCutoff)).Process(export)
	if !errors.Is(err, failure.ErrMalformedFile) {
		t.Fatalf("expected malformed error, got %v", err)
	}
}

func TestEnrichAndMissingTimes(t *testing.T) {
	res := flattenSample(t)
	events := Enrich(res.Events)

	drive := events[0]
	if drive.DurationSeconds == nil || *drive.DurationSeconds != 1800 {
		t.Fatalf("duration mismatch: %v", drive.DurationSeconds)
	}
	if drive.DayOfWeek == nil || *drive.DayOfWeek != "Monday" {
		t.Fatalf("weekday mismatch: %v", drive.DayOfWeek)
	}
	if drive.DisplacementMeters == nil || *drive.DisplacementMeters < 13000 || *drive.DisplacementMeters > 14000 {
		t.Fatalf("displacement out of range: %v", drive.DisplacementMeters)
	}
	if events[1].DisplacementMeters != nil {
		t.Fatalf("visits carry no displacement")
	}

	walk := events[2]
	if walk.DurationSeconds != nil {
		t.Fatalf("expected no duration without end time")
	}
	if walk.DayOfWeek == nil {
		t.Fatalf("expected weekday from start time")
	}

	missing := MissingTimes(events)
	if len(missing) != 1 || missing[0] != 2 {
		t.Fatalf("missing times mismatch: %v", missing)
	}
}

func TestLoadExportFailureKinds(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	_, err := LoadExport(ctx, filepath.Join(dir, "absent.json"))
	if failure.KindOf(err) != failure.KindMissingFile {
		t.Fatalf("expected missing file, got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"semanticSegments": [`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadExport(ctx, bad)
	if failure.KindOf(err) != failure.KindMalformedFile {
		t.Fatalf("expected malformed file, got %v", err)
	}

	noKey := filepath.Join(dir, "nokey.json")
	if err := os.WriteFile(noKey, []byte(`{"timelineObjects": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadExport(ctx, noKey)
	if failure.KindOf(err) != failure.KindMalformedFile {
		t.Fatalf("expected malformed file for missing key, got %v", err)
	}

	good := filepath.Join(dir, "good.json")
	if err := os.WriteFile(good, []byte(sampleExport), 0o644); err != nil {
		t.Fatal(err)
	}
	export, err := LoadExport(ctx, good)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(export.SemanticSegments) != 5 {
		t.Fatalf("segments mismatch: got %d", len(export.SemanticSegments))
	}
}
