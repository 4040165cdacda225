package cost

import (
	"github.com/jengzang/records-drivecost/internal/config"
	"github.com/jengzang/records-drivecost/internal/failure"
)

// Constants are the national price and payment averages the engine falls back on
type Constants struct {
	UsedBasePrice      float64
	NewBasePrice       float64
	UsedAveragePayment float64
	NewAveragePayment  float64
	FallbackShare      float64
	MinModelYear       int
	ReconcileTolerance float64
}

// ConstantsFromConfig copies the pricing section of the config
func ConstantsFromConfig(p config.PricingConfig) Constants {
	return Constants{
		UsedBasePrice:      p.UsedBasePrice,
		NewBasePrice:       p.NewBasePrice,
		UsedAveragePayment: p.UsedAveragePayment,
		NewAveragePayment:  p.NewAveragePayment,
		FallbackShare:      p.FallbackShare,
		MinModelYear:       p.MinModelYear,
		ReconcileTolerance: p.ReconcileTolerance,
	}
}

// DefaultConstants are the 2024 US averages
func DefaultConstants() Constants {
	return ConstantsFromConfig(config.Default().Pricing)
}

func (c Constants) basePrice(used bool) float64 {
	if used {
		return c.UsedBasePrice
	}
	return c.NewBasePrice
}

func (c Constants) averagePayment(used bool) float64 {
	if used {
		return c.UsedAveragePayment
	}
	return c.NewAveragePayment
}

// HistoricalPrice estimates what a car of the given model year cost when new (or
// used) by deflating today's average price one year at a time, from the year
// before currentYear back to the model year. Years missing from the table are
// skipped. The result is not rounded.
func (c Constants) HistoricalPrice(modelYear int, used bool, table InflationTable, currentYear int) (float64, error) {
	if modelYear < c.MinModelYear || modelYear > currentYear {
		return 0, failure.Newf(failure.KindOutOfDomain, "historical price",
			"model year %d outside [%d, %d]", modelYear, c.MinModelYear, currentYear)
	}

	price := c.basePrice(used)
	for y := currentYear - 1; y >= modelYear; y-- {
		if rate, ok := table[y]; ok {
			price /= 1 + rate
		}
	}
	return price, nil
}
