package cost

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jengzang/records-drivecost/internal/failure"
	"github.com/jengzang/records-drivecost/internal/models"
	"github.com/jengzang/records-drivecost/internal/stats"
)

// Branches of the payment decision, in evaluation order
const (
	BranchPaidOffPrice   = "paid_off_price"
	BranchPaidOffPayment = "paid_off_payment"
	BranchPaidOffHistory = "paid_off_historical_price"
	BranchPayment        = "provided_payment"
	BranchAverage        = "national_average_payment"
	BranchPurchasePrice  = "purchase_price"
	BranchFallback       = "fallback_average_share"
)

// Engine resolves a car's total, monthly and amortized monthly cost
type Engine struct {
	Constants Constants
	Inflation InflationTable
	Now       func() time.Time
}

// NewEngine creates an engine; a nil table makes every Determine call fail
func NewEngine(c Constants, table InflationTable) *Engine {
	return &Engine{
		Constants: c,
		Inflation: table,
		Now:       time.Now,
	}
}

// MonthlyPayment is the amortizing-loan payment for a principal at an annual rate
// over termYears. A zero rate degenerates to an even split.
func MonthlyPayment(principal, annualRate float64, termYears int) float64 {
	n := float64(termYears * 12)
	if n <= 0 {
		return 0
	}
	r := annualRate / 12
	if r == 0 {
		return principal / n
	}
	growth := math.Pow(1+r, n)
	return principal * r * growth / (growth - 1)
}

type costState struct {
	total     float64
	monthly   float64
	amortized float64
}

// Determine runs the payment decision procedure. The first matching branch wins,
// then a provided payment is reconciled against the annuity payment implied by
// the purchase price. Monetary values are rounded to cents on return.
func (e *Engine) Determine(p models.CarParams) (*models.CarPayment, error) {
	const op = "determine car payment"

	if e.Inflation == nil {
		return nil, failure.Newf(failure.KindMissingFile, op, "inflation table unavailable")
	}
	if err := checkParams(p); err != nil {
		return nil, err
	}

	currentYear := e.Now().Year()
	months := float64(p.LoanTerm * 12)
	ownedMonths := p.YearsOwned * 12

	paidOff := p.PaidOff
	if p.PurchaseYear != nil && p.LoanTerm > 0 {
		paidOff = currentYear-*p.PurchaseYear >= p.LoanTerm
	}

	fromPayment := func(monthly float64) costState {
		total := monthly * months
		return costState{total: total, monthly: monthly, amortized: total / ownedMonths}
	}
	fromTotal := func(total float64) costState {
		return costState{total: total, monthly: total / months, amortized: total / ownedMonths}
	}

	var (
		st     costState
		branch string
	)
	switch {
	case paidOff && p.PurchasePrice != nil:
		st, branch = fromTotal(*p.PurchasePrice), BranchPaidOffPrice
	case paidOff && p.PaymentProvided != nil:
		st, branch = fromPayment(*p.PaymentProvided), BranchPaidOffPayment
	case paidOff:
		if p.ModelYear == nil {
			return nil, failure.Newf(failure.KindOutOfDomain, op, "paid-off car without price or payment needs a model year")
		}
		price, err := e.Constants.HistoricalPrice(*p.ModelYear, p.Used, e.Inflation, currentYear)
		if err != nil {
			return nil, err
		}
		st, branch = fromTotal(price), BranchPaidOffHistory
	case p.PaymentProvided != nil:
		st, branch = fromPayment(*p.PaymentProvided), BranchPayment
	case p.HasMonthlyPayment:
		st, branch = fromPayment(e.Constants.averagePayment(p.Used)), BranchAverage
	case p.PurchasePrice != nil && p.ModelYear != nil:
		if p.Financed {
			st = fromPayment(MonthlyPayment(*p.PurchasePrice, p.InterestRate, p.LoanTerm))
		} else {
			st = fromTotal(*p.PurchasePrice)
		}
		branch = BranchPurchasePrice
	default:
		st, branch = fromPayment(e.Constants.FallbackShare*e.Constants.averagePayment(p.Used)), BranchFallback
	}

	var warnings []string
	if p.PurchasePrice != nil && *p.PurchasePrice != 0 &&
		p.PaymentProvided != nil && *p.PaymentProvided != 0 && p.InterestRate != 0 {
		calculated := MonthlyPayment(*p.PurchasePrice, p.InterestRate, p.LoanTerm)
		if math.Abs(calculated-*p.PaymentProvided) > e.Constants.ReconcileTolerance {
			msg := fmt.Sprintf("provided monthly payment %.2f does not match %.2f computed from price and rate", *p.PaymentProvided, calculated)
			warnings = append(warnings, msg)
			log.Warn().
				Str("component", "cost").
				Float64("provided", *p.PaymentProvided).
				Float64("calculated", calculated).
				Msg("Provided monthly payment doesn't match calculated payment")
			st = fromPayment(math.Max(calculated, *p.PaymentProvided))
		}
	}

	if !finite(st.total) || !finite(st.monthly) || !finite(st.amortized) {
		return nil, failure.Newf(failure.KindOutOfDomain, op, "%s produced a non-finite cost", branch)
	}

	log.Debug().
		Str("component", "cost").
		Str("branch", branch).
		Bool("paid_off", paidOff).
		Msg("Car payment determined")

	return &models.CarPayment{
		TotalCost:            stats.Round(st.total, 2),
		MonthlyPayment:       stats.Round(st.monthly, 2),
		MonthlyAmortizedCost: stats.Round(st.amortized, 2),
		PaidOff:              paidOff,
		Branch:               branch,
		Warnings:             warnings,
	}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func checkParams(p models.CarParams) error {
	const op = "determine car payment"
	switch {
	case p.LoanTerm <= 0:
		return failure.Newf(failure.KindOutOfDomain, op, "loan term must be positive, got %d", p.LoanTerm)
	case p.YearsOwned <= 0:
		return failure.Newf(failure.KindOutOfDomain, op, "years owned must be positive, got %v", p.YearsOwned)
	case p.InterestRate < 0:
		return failure.Newf(failure.KindOutOfDomain, op, "interest rate must not be negative, got %v", p.InterestRate)
	case p.PurchasePrice != nil && *p.PurchasePrice < 0:
		return failure.Newf(failure.KindOutOfDomain, op, "purchase price must not be negative")
	case p.PaymentProvided != nil && *p.PaymentProvided < 0:
		return failure.Newf(failure.KindOutOfDomain, op, "monthly payment must not be negative")
	}
	return nil
}
