package cost

import (
	"github.com/jengzang/records-drivecost/internal/failure"
	"github.com/jengzang/records-drivecost/internal/models"
	"github.com/jengzang/records-drivecost/internal/stats"
)

// TotalsInput gathers what the per-mile cost needs from the other stages
type TotalsInput struct {
	DaysUsed             int
	MilesDriven          float64
	WearCost             float64
	MonthlyAmortizedCost float64
	YearsOwned           float64
	Fees                 models.FeesInsurance
}

// PerMileCost annualizes miles and wear over the observed days and adds the
// per-mile share of wear, ownership and fees
func PerMileCost(in TotalsInput) (*models.TotalCosts, error) {
	const op = "per mile cost"
	if in.DaysUsed <= 0 {
		return nil, failure.Newf(failure.KindOutOfDomain, op, "no elapsed days in the history")
	}
	if in.MilesDriven <= 0 {
		return nil, failure.Newf(failure.KindOutOfDomain, op, "no driven miles in the history")
	}
	if in.YearsOwned <= 0 {
		return nil, failure.Newf(failure.KindOutOfDomain, op, "years owned must be positive")
	}

	years := float64(in.DaysUsed) / 365.0
	annualMiles := in.MilesDriven / years
	annualWear := in.WearCost / years

	wearPerMile := annualWear / annualMiles
	ownershipPerMile := in.MonthlyAmortizedCost * 12 * in.YearsOwned / (annualMiles * in.YearsOwned)
	feesPerMile := (in.Fees.AnnualInsuranceCost + in.Fees.RegistrationFee) / annualMiles

	return &models.TotalCosts{
		DaysUsed:          in.DaysUsed,
		AnnualMilesDriven: stats.Round(annualMiles, 2),
		AnnualWearCost:    stats.Round(annualWear, 2),
		WearCostPerMile:   stats.Round(wearPerMile, 2),
		OwnershipPerMile:  stats.Round(ownershipPerMile, 2),
		FeesPerMile:       stats.Round(feesPerMile, 2),
		PerMileCost:       stats.Round(wearPerMile+ownershipPerMile+feesPerMile, 2),
	}, nil
}
