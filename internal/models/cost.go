package models

// CarParams are the ownership inputs of the cost amortization engine. Pointer fields
// are optional; nil means "not provided".
type CarParams struct {
	ModelYear         *int     `json:"modelYear,omitempty" yaml:"model_year"`
	Used              bool     `json:"used" yaml:"used"`
	PaidOff           bool     `json:"paidOff" yaml:"paid_off"`
	PaymentProvided   *float64 `json:"paymentProvided,omitempty" yaml:"payment_provided"`
	HasMonthlyPayment bool     `json:"hasMonthlyPayment" yaml:"has_monthly_payment"`
	PurchasePrice     *float64 `json:"purchasePrice,omitempty" yaml:"purchase_price"`
	YearsOwned        float64  `json:"yearsOwned" yaml:"years_owned" default:"5" validate:"gt=0"`
	InterestRate      float64  `json:"interestRate" yaml:"interest_rate" default:"0.05" validate:"gte=0"`
	Financed          bool     `json:"financed" yaml:"financed" default:"true"`
	LoanTerm          int      `json:"loanTerm" yaml:"loan_term" default:"5" validate:"gt=0"`
	PurchaseYear      *int     `json:"purchaseYear,omitempty" yaml:"purchase_year"`
}

// CarPayment is the resolved cost profile
type CarPayment struct {
	TotalCost            float64  `json:"totalCost"`
	MonthlyPayment       float64  `json:"monthlyPayment"`
	MonthlyAmortizedCost float64  `json:"monthlyAmortizedCost"`
	PaidOff              bool     `json:"paidOff"`
	Branch               string   `json:"branch"`
	Warnings             []string `json:"warnings,omitempty"`
}

// InsuranceParams are the inputs of the fees/insurance calculation
type InsuranceParams struct {
	MonthlyPremium  *float64 `json:"monthlyPremium,omitempty" yaml:"monthly_premium"`
	CoverageType    string   `json:"coverageType" yaml:"coverage_type" default:"min" validate:"oneof=min max"`
	PeopleSplit     int      `json:"peopleSplit" yaml:"people_split" default:"1" validate:"gte=1"`
	RegistrationFee *float64 `json:"registrationFee,omitempty" yaml:"registration_fee"`
}

// FeesInsurance is the annual insurance and registration cost
type FeesInsurance struct {
	AnnualInsuranceCost float64 `json:"annualInsuranceCost"`
	RegistrationFee     float64 `json:"registrationFee"`
}

// TotalCosts is the per-mile ownership cost
type TotalCosts struct {
	DaysUsed          int     `json:"daysUsed"`
	AnnualMilesDriven float64 `json:"annualMilesDriven"`
	AnnualWearCost    float64 `json:"annualWearCost"`
	WearCostPerMile   float64 `json:"wearCostPerMile"`
	OwnershipPerMile  float64 `json:"ownershipCostPerMile"`
	FeesPerMile       float64 `json:"feesCostPerMile"`
	PerMileCost       float64 `json:"perMileCost"`
}
