package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/jengzang/records-drivecost/internal/analysis"
	"github.com/jengzang/records-drivecost/internal/analysis/behavior"
	"github.com/jengzang/records-drivecost/internal/analysis/emissions"
	"github.com/jengzang/records-drivecost/internal/config"
	"github.com/jengzang/records-drivecost/internal/cost"
	"github.com/jengzang/records-drivecost/internal/failure"
	"github.com/jengzang/records-drivecost/internal/ingest"
	"github.com/jengzang/records-drivecost/internal/metrics"
	"github.com/jengzang/records-drivecost/internal/models"
	"github.com/jengzang/records-drivecost/internal/timeutil"
)

// Stage names used in failures, logs and metrics
const (
	StageIngest    = "ingest"
	StageSequence  = behavior.AnalyzerName
	StageEmissions = emissions.AnalyzerName
	StagePayment   = "payment"
	StageFees      = "fees"
	StageTotals    = "totals"
)

// Output is one pipeline run
type Output struct {
	Report *models.Report
	Events []models.Event
	Paths  []models.RawSegment
}

// Pipeline wires ingestion, the event analyzers and the cost engine into a report
type Pipeline struct {
	cfg      *config.Config
	recorder *metrics.Recorder
	now      func() time.Time
}

// New creates a pipeline; recorder may be nil
func New(cfg *config.Config, recorder *metrics.Recorder) *Pipeline {
	return &Pipeline{cfg: cfg, recorder: recorder, now: time.Now}
}

// Run executes every stage. A failing stage leaves its section of the report nil
// and is listed in Report.Failures; stages depending on it are skipped. Only
// cancellation and an invalid cutoff abort the run.
func (p *Pipeline) Run(ctx context.Context) (*Output, error) {
	cutoff, err := time.Parse(time.RFC3339Nano, p.cfg.Input.Cutoff)
	if err != nil {
		return nil, fmt.Errorf("parse cutoff: %w", err)
	}

	report := &models.Report{
		ID:          uuid.NewString(),
		GeneratedAt: p.now(),
		Car:         p.cfg.Car,
	}
	out := &Output{Report: report}

	log.Info().
		Str("component", "pipeline").
		Str("report_id", report.ID).
		Str("timeline", p.cfg.Input.TimelinePath).
		Msg("Report generation started")

	// ingest
	start := time.Now()
	res, err := p.ingest(ctx, cutoff)
	p.observe(StageIngest, start)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.fail(report, StageIngest, err)
	} else {
		out.Events, out.Paths = res.Events, res.Paths
		report.Ingest = res.Summary
	}

	// sequence and emissions run side by side over the same events
	if res != nil {
		outcomes, err := analysis.RunAll(ctx, p.cfg, []string{behavior.AnalyzerName, emissions.AnalyzerName}, out.Events)
		if err != nil {
			return nil, err
		}
		if o := outcomes[behavior.AnalyzerName]; o.Err != nil {
			p.fail(report, StageSequence, o.Err)
		} else {
			report.Sequence, _ = o.Result.(*models.SequenceAnalysis)
		}
		if o := outcomes[emissions.AnalyzerName]; o.Err != nil {
			p.fail(report, StageEmissions, o.Err)
		} else {
			report.Emissions, _ = o.Result.(*models.EmissionsReport)
		}
	}

	// payment needs only configuration and the inflation table
	start = time.Now()
	report.Payment, err = p.payment(ctx)
	p.observe(StagePayment, start)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.fail(report, StagePayment, err)
	}

	report.Fees, err = cost.FeesInsurance(p.cfg.Insurance, p.cfg.Fees)
	if err != nil {
		p.fail(report, StageFees, err)
	}

	if report.Emissions != nil && report.Payment != nil && report.Fees != nil {
		report.Totals, err = cost.PerMileCost(cost.TotalsInput{
			DaysUsed:             report.Emissions.DaysSpanned,
			MilesDriven:          report.Emissions.MilesDriven,
			WearCost:             report.Emissions.WearCost,
			MonthlyAmortizedCost: report.Payment.MonthlyAmortizedCost,
			YearsOwned:           p.cfg.Car.YearsOwned,
			Fees:                 *report.Fees,
		})
		if err != nil {
			p.fail(report, StageTotals, err)
		}
	}

	p.recordValues(report)

	log.Info().
		Str("component", "pipeline").
		Str("report_id", report.ID).
		Int("events", report.Ingest.TotalEvents).
		Int("failures", len(report.Failures)).
		Msg("Report generation completed")
	return out, nil
}

func (p *Pipeline) ingest(ctx context.Context, cutoff time.Time) (*ingest.Result, error) {
	export, err := ingest.LoadExport(ctx, p.cfg.Input.TimelinePath)
	if err != nil {
		return nil, err
	}

	res, err := ingest.NewFlattener(cutoff).Process(export)
	if err != nil {
		return nil, err
	}

	res.Events = ingest.Enrich(res.Events)
	res.Summary.MissingTimes = len(ingest.MissingTimes(res.Events))
	res.Summary.UniqueDrives = timeutil.CountUniqueDays(behavior.FilterByCandidate(res.Events, p.cfg.Emissions.PassengerVehicleType))
	res.Summary.FirstStart, res.Summary.LastEnd = coveredSpan(res.Events)

	if p.recorder != nil {
		for _, c := range []models.Category{models.CategoryVisit, models.CategoryActivity} {
			p.recorder.RecordEvents(string(c), lo.CountBy(res.Events, func(e models.Event) bool {
				return e.Category == c
			}))
		}
		p.recorder.RecordSkipped(res.Summary.Skipped)
	}
	return res, nil
}

// coveredSpan is the first known start and the last known end in export order
func coveredSpan(events []models.Event) (first, last *time.Time) {
	for i := range events {
		if events[i].StartTime != nil {
			first = events[i].StartTime
			break
		}
	}
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].EndTime != nil {
			last = events[i].EndTime
			break
		}
	}
	return first, last
}

func (p *Pipeline) payment(ctx context.Context) (*models.CarPayment, error) {
	table, err := cost.LoadInflationTable(ctx, p.cfg.Input.InflationPath)
	if err != nil {
		return nil, err
	}
	engine := cost.NewEngine(cost.ConstantsFromConfig(p.cfg.Pricing), table)
	engine.Now = p.now
	return engine.Determine(p.cfg.Car)
}

func (p *Pipeline) fail(report *models.Report, stage string, err error) {
	kind := failure.KindOf(err)
	report.Failures = append(report.Failures, fmt.Sprintf("%s: %v", stage, err))

	log.Error().
		Err(err).
		Str("component", "pipeline").
		Str("stage", stage).
		Str("kind", kind.String()).
		Msg("Stage failed")

	if p.recorder != nil {
		p.recorder.RecordFailure(stage, kind.String())
	}
}

func (p *Pipeline) observe(stage string, start time.Time) {
	if p.recorder != nil {
		p.recorder.RecordLatency(stage, time.Since(start).Seconds())
	}
}

func (p *Pipeline) recordValues(report *models.Report) {
	if p.recorder == nil {
		return
	}
	if report.Emissions != nil {
		p.recorder.RecordValue("miles_driven", report.Emissions.MilesDriven)
		p.recorder.RecordValue("co2_tons", report.Emissions.CO2TonsReleased)
		p.recorder.RecordValue("wear_cost", report.Emissions.WearCost)
	}
	if report.Payment != nil {
		p.recorder.RecordValue("monthly_amortized_cost", report.Payment.MonthlyAmortizedCost)
	}
	if report.Totals != nil {
		p.recorder.RecordValue("per_mile_cost", report.Totals.PerMileCost)
	}
}
