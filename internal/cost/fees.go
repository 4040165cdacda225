package cost

import (
	"github.com/jengzang/records-drivecost/internal/config"
	"github.com/jengzang/records-drivecost/internal/failure"
	"github.com/jengzang/records-drivecost/internal/models"
	"github.com/jengzang/records-drivecost/internal/stats"
)

// CoverageMax selects full-coverage insurance when no premium is given
const CoverageMax = "max"

// FeesInsurance computes the annual insurance share and registration fee. Without
// a premium the average for the coverage type is used; a missing or zero
// registration fee falls back to the configured default.
func FeesInsurance(p models.InsuranceParams, fees config.FeesConfig) (*models.FeesInsurance, error) {
	if p.PeopleSplit < 1 {
		return nil, failure.Newf(failure.KindOutOfDomain, "fees insurance", "people split must be at least 1, got %d", p.PeopleSplit)
	}

	monthly := fees.MinCoverageMonthly
	if p.CoverageType == CoverageMax {
		monthly = fees.FullCoverageMonthly
	}
	if p.MonthlyPremium != nil {
		monthly = *p.MonthlyPremium
	}

	registration := fees.RegistrationFee
	if p.RegistrationFee != nil && *p.RegistrationFee != 0 {
		registration = *p.RegistrationFee
	}

	return &models.FeesInsurance{
		AnnualInsuranceCost: stats.Round(monthly/float64(p.PeopleSplit)*12, 2),
		RegistrationFee:     stats.Round(registration, 2),
	}, nil
}
