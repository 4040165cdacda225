package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jengzang/records-drivecost/internal/models"
)

func TestWriteConsole(t *testing.T) {
	avg := 3.0
	year := 2017
	first := time.Date(2024, 2, 10, 7, 5, 0, 0, time.UTC)
	last := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)
	r := &models.Report{
		ID:       "r1",
		Ingest:   models.IngestSummary{TotalEvents: 1234, FirstStart: &first, LastEnd: &last},
		Sequence: &models.SequenceAnalysis{TotalConsecutiveVisits: 3, TotalConsecutiveActivities: 3, AverageActivitiesInGroups: &avg},
		Emissions: &models.EmissionsReport{
			MilesDriven: 10250, RegionalMiles: 12500, GallonsBurned: 420.08, CO2TonsReleased: 4.68, WearCost: 2345.5,
		},
		Car:      models.CarParams{ModelYear: &year, YearsOwned: 7},
		Payment:  &models.CarPayment{TotalCost: 23500, MonthlyPayment: 391.67, MonthlyAmortizedCost: 279.76, PaidOff: true},
		Fees:     &models.FeesInsurance{AnnualInsuranceCost: 1092, RegistrationFee: 289},
		Totals:   &models.TotalCosts{DaysUsed: 120, AnnualMilesDriven: 31177.5, AnnualWearCost: 7134.5, PerMileCost: 0.5},
		Failures: []string{"payment: out_of_domain"},
	}

	var buf bytes.Buffer
	if err := WriteConsole(&buf, r); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Events: 1,234",
		"Span: Saturday 2024-02-10 07:05 to Friday 2024-03-01 18:30",
		"Average Activities In Groups: 3.00",
		"Average Gaps Between Activities: n/a",
		"Miles Driven: 10,250",
		"Average Miles: 12,500\n",
		"Wear Cost: $2,345.50",
		"Model Year: 2017",
		"Payment Status: Paid off",
		"Total Cost: $23,500.00",
		"Note: This car is paid off.",
		"Annual Miles Driven: 31,177.50",
		"Per Mile Cost: $0.50",
		"payment: out_of_domain",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteConsoleSkipsMissingSections(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteConsole(&buf, &models.Report{ID: "empty"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if strings.Contains(buf.String(), "Car Payment Details") || strings.Contains(buf.String(), "Total Costs") {
		t.Fatalf("absent sections rendered:\n%s", buf.String())
	}
}
