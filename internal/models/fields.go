package models

// FieldKind tells the form template how to draw a field.
type FieldKind string

const (
	KindNumber FieldKind = "number"
	KindSlider FieldKind = "slider"
	KindSelect FieldKind = "select"
)

// Field names shared by the renderer, the report download and the form.
const (
	FieldAge             = "age"
	FieldMaritalStatus   = "marital_status"
	FieldDependents      = "dependents"
	FieldAnnualIncome    = "annual_income"
	FieldMonthlyExpenses = "monthly_expenses"
	FieldCurrentCoverage = "current_coverage"
	FieldAnnualPremium   = "annual_premium"
	FieldAccidentCover   = "accident_cover"
	FieldCriticalIllness = "critical_illness"
	FieldHomeLoan        = "home_loan"
	FieldOtherDebts      = "other_debts"
	FieldInflationRate   = "inflation_rate"
)

// Field describes one input control of the advisor form.
type Field struct {
	Name    string
	Label   string
	Kind    FieldKind
	Default string
	Min     string
	Max     string
	Step    string
	Options []string
}

// DefaultFields is the advisor form in display order. Defaults match what
// the analysis engine assumes for an absent value.
func DefaultFields() []Field {
	return []Field{
		{Name: FieldAge, Label: "Age", Kind: KindSlider, Default: "32", Min: "18", Max: "70", Step: "1"},
		{Name: FieldMaritalStatus, Label: "Marital Status", Kind: KindSelect, Default: "Single", Options: []string{"Single", "Married", "Divorced", "Widowed"}},
		{Name: FieldDependents, Label: "Number of Dependents", Kind: KindNumber, Default: "2", Min: "0", Max: "10", Step: "1"},
		{Name: FieldAnnualIncome, Label: "Annual Income (₹)", Kind: KindNumber, Default: "800000", Min: "0", Step: "10000"},
		{Name: FieldMonthlyExpenses, Label: "Monthly Expenses (₹)", Kind: KindNumber, Default: "40000", Min: "0", Step: "1000"},
		{Name: FieldCurrentCoverage, Label: "Current Life Cover (₹)", Kind: KindNumber, Default: "5000000", Min: "0", Step: "100000"},
		{Name: FieldAnnualPremium, Label: "Annual Premium (₹)", Kind: KindNumber, Default: "25000", Min: "0", Step: "1000"},
		{Name: FieldAccidentCover, Label: "Accidental Death Cover (₹)", Kind: KindNumber, Default: "1000000", Min: "0", Step: "100000"},
		{Name: FieldCriticalIllness, Label: "Critical Illness Cover (₹)", Kind: KindNumber, Default: "500000", Min: "0", Step: "100000"},
		{Name: FieldHomeLoan, Label: "Home Loan Outstanding (₹)", Kind: KindNumber, Default: "2000000", Min: "0", Step: "100000"},
		{Name: FieldOtherDebts, Label: "Other Debts (₹)", Kind: KindNumber, Default: "0", Min: "0", Step: "10000"},
		{Name: FieldInflationRate, Label: "Expected Inflation Rate", Kind: KindSlider, Default: "6.5", Min: "2", Max: "12", Step: "0.5"},
	}
}

// WithDefaults returns a copy of fields with Default replaced for every
// name present in overrides. Unknown names are ignored.
func WithDefaults(fields []Field, overrides map[string]string) []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	for i := range out {
		if v, ok := overrides[out[i].Name]; ok {
			out[i].Default = v
		}
	}
	return out
}

// SliderDisplay is the label shown next to a slider for value.
func SliderDisplay(field, value string) string {
	if field == FieldInflationRate {
		return value + "%"
	}
	return value
}
