package emissions

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/jengzang/records-drivecost/internal/analysis"
	"github.com/jengzang/records-drivecost/internal/config"
	"github.com/jengzang/records-drivecost/internal/models"
	"github.com/jengzang/records-drivecost/internal/stats"
	"github.com/jengzang/records-drivecost/internal/timeutil"
)

// AnalyzerName is the registry key of the emissions estimator
const AnalyzerName = "emissions"

const (
	metersPerKm   = 1000.0
	kgPerTon      = 1000.0
	mgPerKg       = 1e6
	poundsPerKg   = 2.2
	daysPerYear   = 365.0
	monthsPerYear = 12.0
)

// Params are the vehicle, emission and wear constants of one estimate
type Params struct {
	MPG             float64
	MilesCorrection float64
	FuelPrice       float64
	Emissions       config.EmissionsConfig
	Wear            config.WearConfig
}

// ParamsFromConfig collects the estimator inputs from the application config
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		MPG:             cfg.Vehicle.MPG,
		MilesCorrection: cfg.Vehicle.MilesCorrection,
		FuelPrice:       cfg.FuelPrice(),
		Emissions:       cfg.Emissions,
		Wear:            cfg.Wear,
	}
}

// EmissionsAnalyzer estimates fuel, CO2, particulates and wear cost of driving
type EmissionsAnalyzer struct {
	*analysis.BaseAnalyzer
	params Params
}

// NewEmissionsAnalyzer creates a new emissions analyzer
func NewEmissionsAnalyzer(cfg *config.Config) analysis.Analyzer {
	return &EmissionsAnalyzer{
		BaseAnalyzer: analysis.NewBaseAnalyzer(AnalyzerName),
		params:       ParamsFromConfig(cfg),
	}
}

// Analyze estimates emissions over the full event sequence
func (a *EmissionsAnalyzer) Analyze(ctx context.Context, events []models.Event) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := Estimate(events, a.params)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("component", "analysis").
		Str("analyzer", a.GetName()).
		Float64("miles", result.MilesDriven).
		Int("days", result.DaysSpanned).
		Msg("Emissions estimate completed")
	return result, nil
}

// Estimate computes driven miles, emissions and wear cost. Driving is the passenger
// vehicle activities; the elapsed time spans the whole sequence.
func Estimate(events []models.Event, p Params) (*models.EmissionsReport, error) {
	miles := DrivenMiles(events, p.Emissions.PassengerVehicleType, p.Emissions.KilometersPerMile, p.MilesCorrection)

	days, err := spannedDays(events)
	if err != nil {
		return nil, err
	}
	fraction := float64(days) / daysPerYear

	gallons := miles / p.MPG
	regionalMiles := p.Emissions.RegionalMilesPerYear * fraction
	regionalGallons := regionalMiles / p.MPG

	return &models.EmissionsReport{
		MilesDriven:        stats.Round(miles, 0),
		GallonsBurned:      stats.Round(gallons, 2),
		CO2TonsReleased:    stats.Round(co2Tons(gallons, p.Emissions), 2),
		DustPoundsReleased: stats.Round(dustPounds(miles, p.Emissions), 2),
		WearCost:           stats.Round(WearCost(miles, p), 2),
		FractionOfYear:     stats.Round(fraction, 2),
		DaysSpanned:        days,
		RegionalMiles:      stats.Round(regionalMiles, 0),
		RegionalGallons:    stats.Round(regionalGallons, 2),
		RegionalCO2Tons:    stats.Round(co2Tons(regionalGallons, p.Emissions), 2),
		RegionalDustPounds: stats.Round(dustPounds(regionalMiles, p.Emissions), 2),
	}, nil
}

// DrivenMiles sums the distance of activities of the given transport type.
// Activities without a distance are left out of the sum.
func DrivenMiles(events []models.Event, vehicleType string, kmPerMile, correction float64) float64 {
	meters := lo.SumBy(events, func(e models.Event) float64 {
		if !e.IsActivity() || e.TopCandidateType == nil || *e.TopCandidateType != vehicleType || e.DistanceMeters == nil {
			return 0
		}
		return *e.DistanceMeters
	})
	return meters / metersPerKm / kmPerMile * correction
}

// WearCost is maintenance, tire, brake, fuel and parking cost for the driven miles
func WearCost(miles float64, p Params) float64 {
	w := p.Wear
	maintenance := miles / w.ReferenceMilesPerYear * w.MaintenancePerYear
	tires := miles / w.TireLifeMiles * w.TireCost
	brakes := miles / w.BrakeLifeMiles * w.BrakeCost
	fuel := miles / p.MPG * p.FuelPrice
	parking := miles / w.ReferenceMilesPerYear * w.ParkingPerMonth * monthsPerYear
	return maintenance + tires + brakes + fuel + parking
}

func co2Tons(gallons float64, e config.EmissionsConfig) float64 {
	return gallons * e.CO2KgPerGallon / kgPerTon
}

func dustPounds(miles float64, e config.EmissionsConfig) float64 {
	mg := miles * (e.BrakeParticulatesMg + e.TireParticulatesMg)
	return mg / mgPerKg / poundsPerKg
}

// spannedDays is the number of whole days between the first start and last end.
// A sequence whose ends are unknown spans zero days.
func spannedDays(events []models.Event) (int, error) {
	min, max, err := timeutil.MinMaxSpan(events)
	if err != nil {
		return 0, err
	}
	if min == nil || max == nil {
		log.Warn().
			Str("component", "analysis").
			Str("analyzer", AnalyzerName).
			Msg("Sequence span unknown, using zero elapsed days")
		return 0, nil
	}
	return timeutil.DaysBetween(*min, *max), nil
}

// Register the analyzer
func init() {
	analysis.RegisterAnalyzer(AnalyzerName, NewEmissionsAnalyzer)
}
