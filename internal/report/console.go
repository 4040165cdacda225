package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jengzang/records-drivecost/internal/models"
	"github.com/jengzang/records-drivecost/internal/timeutil"
)

func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func whole(v float64) string {
	return humanize.FormatFloat("#,###.", v)
}

func hundredths(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// WriteConsole renders the report as plain text
func WriteConsole(w io.Writer, r *models.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Report %s\n", r.ID)
	fmt.Fprintf(&b, "  Events: %s (skipped %d, paths %d, missing times %d, drive days %d)\n",
		humanize.Comma(int64(r.Ingest.TotalEvents)), r.Ingest.Skipped, r.Ingest.TotalPaths, r.Ingest.MissingTimes, r.Ingest.UniqueDrives)
	if r.Ingest.FirstStart != nil && r.Ingest.LastEnd != nil {
		fmt.Fprintf(&b, "  Span: %s to %s\n", stamp(*r.Ingest.FirstStart), stamp(*r.Ingest.LastEnd))
	}

	if s := r.Sequence; s != nil {
		b.WriteString("\nActivity Sequence Analysis:\n")
		fmt.Fprintf(&b, "  Total Consecutive Visits: %d\n", s.TotalConsecutiveVisits)
		fmt.Fprintf(&b, "  Total Consecutive Activities: %d\n", s.TotalConsecutiveActivities)
		fmt.Fprintf(&b, "  Average Activities In Groups: %s\n", optional(s.AverageActivitiesInGroups))
		fmt.Fprintf(&b, "  Average Gaps Between Activities: %s\n", optional(s.AverageGapsBetweenActivities))
	}

	if e := r.Emissions; e != nil {
		b.WriteString("\nEmissions and Costs Data:\n")
		fmt.Fprintf(&b, "  Miles Driven: %s\n", whole(e.MilesDriven))
		fmt.Fprintf(&b, "  Gallons of Fuel Burned: %.2f\n", e.GallonsBurned)
		fmt.Fprintf(&b, "  CO2 Emissions: %.2f metric tons\n", e.CO2TonsReleased)
		fmt.Fprintf(&b, "  Particulate Matter Released: %.2f pounds\n", e.DustPoundsReleased)
		fmt.Fprintf(&b, "  Wear Cost: %s\n", money(e.WearCost))

		b.WriteString("\nComparison to Regional Average:\n")
		fmt.Fprintf(&b, "  Average Miles: %s\n", whole(e.RegionalMiles))
		fmt.Fprintf(&b, "  Average Gallons Burned: %.2f\n", e.RegionalGallons)
		fmt.Fprintf(&b, "  Average CO2 Emissions: %.2f metric tons\n", e.RegionalCO2Tons)
		fmt.Fprintf(&b, "  Average Particulate Matter: %.2f pounds\n", e.RegionalDustPounds)
	}

	if p := r.Payment; p != nil {
		b.WriteString("\nCar Payment Details:\n")
		if r.Car.ModelYear != nil {
			fmt.Fprintf(&b, "  Model Year: %d\n", *r.Car.ModelYear)
		}
		fmt.Fprintf(&b, "  Car Type: %s\n", carType(r.Car.Used))
		fmt.Fprintf(&b, "  Payment Status: %s\n", paymentStatus(p.PaidOff))
		fmt.Fprintf(&b, "  Years Owned: %g\n", r.Car.YearsOwned)
		fmt.Fprintf(&b, "  Total Cost: %s\n", money(p.TotalCost))
		fmt.Fprintf(&b, "  Monthly Payment: %s\n", money(p.MonthlyPayment))
		fmt.Fprintf(&b, "  Monthly Amortized Cost: %s\n", money(p.MonthlyAmortizedCost))
		for _, w := range p.Warnings {
			fmt.Fprintf(&b, "  Warning: %s\n", w)
		}
		if p.PaidOff {
			b.WriteString("\nNote: This car is paid off. The monthly payment shown is the equivalent cost spread over the ownership period.\n")
		}
	}

	if f := r.Fees; f != nil {
		b.WriteString("\nFees and Insurance:\n")
		fmt.Fprintf(&b, "  Annual Insurance: %s\n", money(f.AnnualInsuranceCost))
		fmt.Fprintf(&b, "  Registration Fee: %s\n", money(f.RegistrationFee))
	}

	if t := r.Totals; t != nil {
		b.WriteString("\nTotal Costs:\n")
		fmt.Fprintf(&b, "  Days Used: %d\n", t.DaysUsed)
		fmt.Fprintf(&b, "  Annual Miles Driven: %s\n", hundredths(t.AnnualMilesDriven))
		fmt.Fprintf(&b, "  Annual Wear Cost: %s\n", money(t.AnnualWearCost))
		fmt.Fprintf(&b, "  Per Mile Cost: %s\n", money(t.PerMileCost))
	}

	if len(r.Failures) > 0 {
		b.WriteString("\nFailures:\n")
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "  %s\n", f)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func stamp(t time.Time) string {
	weekday, date, clock := timeutil.DateTimeInfo(t)
	return weekday + " " + date + " " + clock
}

func optional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

func carType(used bool) string {
	if used {
		return "Used"
	}
	return "New"
}

func paymentStatus(paidOff bool) string {
	if paidOff {
		return "Paid off"
	}
	return "Financed"
}
