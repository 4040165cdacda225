package behavior

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/jengzang/records-drivecost/internal/analysis"
	"github.com/jengzang/records-drivecost/internal/config"
	"github.com/jengzang/records-drivecost/internal/models"
	"github.com/jengzang/records-drivecost/internal/stats"
)

// AnalyzerName is the registry key of the sequence analyzer
const AnalyzerName = "sequence"

// SequenceAnalyzer implements visit/activity streak detection
// Detects runs of consecutive same-category events and the gaps between activity runs
type SequenceAnalyzer struct {
	*analysis.BaseAnalyzer
}

// NewSequenceAnalyzer creates a new sequence analyzer
func NewSequenceAnalyzer(_ *config.Config) analysis.Analyzer {
	return &SequenceAnalyzer{
		BaseAnalyzer: analysis.NewBaseAnalyzer(AnalyzerName),
	}
}

// Analyze run-length encodes the event categories
func (a *SequenceAnalyzer) Analyze(ctx context.Context, events []models.Event) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := AnalyzeSequence(events)

	log.Info().
		Str("component", "analysis").
		Str("analyzer", a.GetName()).
		Int("events", len(events)).
		Int("boundaries", len(result.VisitRuns)).
		Msg("Sequence analysis completed")
	return result, nil
}

// AnalyzeSequence computes streak totals and averages over the category sequence
func AnalyzeSequence(events []models.Event) *models.SequenceAnalysis {
	sequence := lo.Map(events, func(e models.Event, _ int) models.Category {
		return e.Category
	})
	visits, activities := CountConsecutiveGroups(sequence)

	return &models.SequenceAnalysis{
		TotalConsecutiveVisits:       stats.SumInts(visits),
		TotalConsecutiveActivities:   stats.SumInts(activities),
		AverageActivitiesInGroups:    AverageActivities(activities),
		AverageGapsBetweenActivities: AverageGaps(activities),
		VisitRuns:                    visits,
		ActivityRuns:                 activities,
	}
}

// CountConsecutiveGroups walks the sequence and closes a boundary at every change
// of category. The walk starts from an empty category, so the first element always
// closes a leading (0, 0) boundary. Each boundary holds the run length of the
// category that just ended and zero for the other one; the open run is closed
// after the walk.
func CountConsecutiveGroups(sequence []models.Category) (visits, activities []int) {
	var last models.Category
	visitCount, activityCount := 0, 0

	for _, item := range sequence {
		if item != last {
			visits = append(visits, visitCount)
			activities = append(activities, activityCount)
			visitCount, activityCount = 0, 0
			last = item
		}

		switch item {
		case models.CategoryVisit:
			visitCount++
		case models.CategoryActivity:
			activityCount++
		}
	}

	visits = append(visits, visitCount)
	activities = append(activities, activityCount)
	return visits, activities
}

// AverageActivities is the mean of the non-empty activity runs, nil if there are none
func AverageActivities(activities []int) *float64 {
	return stats.MeanInts(lo.Filter(activities, func(a int, _ int) bool {
		return a > 0
	}))
}

// AverageGaps is the mean length of the zero runs lying between two non-empty
// activity runs. Leading and trailing zero runs separate nothing and are ignored.
func AverageGaps(activities []int) *float64 {
	var gaps []int
	zeroCount := 0
	seenActivity := false

	for _, a := range activities {
		if a == 0 {
			if seenActivity {
				zeroCount++
			}
			continue
		}
		if zeroCount > 0 {
			gaps = append(gaps, zeroCount)
			zeroCount = 0
		}
		seenActivity = true
	}

	return stats.MeanInts(gaps)
}

// FilterPassengerVehicle keeps the activities classified as driving
func FilterPassengerVehicle(events []models.Event) []models.Event {
	return FilterByCandidate(events, models.TypeInPassengerVehicle)
}

// FilterByCandidate keeps the activities whose top candidate type matches
func FilterByCandidate(events []models.Event, candidate string) []models.Event {
	return lo.Filter(events, func(e models.Event, _ int) bool {
		return e.IsActivity() && e.TopCandidateType != nil && *e.TopCandidateType == candidate
	})
}

// Register the analyzer
func init() {
	analysis.RegisterAnalyzer(AnalyzerName, NewSequenceAnalyzer)
}
