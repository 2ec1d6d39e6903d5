package views

import (
	"fmt"
	"math"

	"github.com/rahul4469/coverage-advisor/internal/models"
)

// Styling levels for status labels and alerts.
const (
	LevelWarning  = "warning"
	LevelPositive = "positive"
)

// Overall score labels.
const (
	LabelExcellent        = "Excellent"
	LabelGood             = "Good"
	LabelNeedsImprovement = "Needs Improvement"
)

// RenderedView holds every display value of the results section.
// It is built in one go; a failed render yields no view at all.
type RenderedView struct {
	Coverage        CoveragePanel
	Premium         PremiumPanel
	Riders          RiderPanel
	Scores          ScorePanel
	Metrics         MetricsPanel
	Recommendations []Recommendation
	Projection      ProjectionPanel
}

type CoveragePanel struct {
	CurrentCoverage string
	Multiplier      string
	RecommendedMin  string
	CoverageGap     string
	Status          string
	StatusIcon      string
	StatusLevel     string
	Alert           Alert
}

// Alert is the highlighted message under the coverage figures.
type Alert struct {
	Level string
	Title string
	Body  string
}

type PremiumPanel struct {
	CurrentPremium     string
	Percentage         string
	MaxAffordable      string
	AdditionalCapacity string
	Affordability      string
	Advice             string
}

type RiderPanel struct {
	CriticalIllnessCurrent     string
	CriticalIllnessRecommended string
	AccidentCurrent            string
	CriticalIllnessGap         string
}

type ScorePanel struct {
	Coverage     string
	Premium      string
	Debt         string
	Savings      string
	Overall      string
	OverallLabel string
}

type MetricsPanel struct {
	MonthlySavings string
	SavingsRate    string
	DebtToIncome   string
}

// Recommendation is one numbered line of advice. Text may carry the
// engine's **bold** markup.
type Recommendation struct {
	Number int
	Text   string
}

type ProjectionPanel struct {
	CurrentExpenses string
	FutureExpenses  string
	ExpenseIncrease string
}

// ResultRenderer maps an engine assessment onto display values.
type ResultRenderer struct {
	format *Formatter
}

func NewResultRenderer(format *Formatter) *ResultRenderer {
	return &ResultRenderer{format: format}
}

// Render builds the results view for result and the form that produced it.
// It has no side effects and returns the same view for the same inputs.
func (rr *ResultRenderer) Render(result *models.AnalysisResult, snapshot models.FormSnapshot) (*RenderedView, error) {
	if err := result.Validate(); err != nil {
		return nil, err
	}

	view := &RenderedView{
		Coverage:        rr.coverage(result, snapshot),
		Premium:         rr.premium(result, snapshot),
		Riders:          rr.riders(result, snapshot),
		Scores:          scores(result),
		Metrics:         rr.metrics(result),
		Recommendations: recommendations(result.Recommendations),
		Projection:      rr.projection(result),
	}
	return view, nil
}

func (rr *ResultRenderer) coverage(result *models.AnalysisResult, snapshot models.FormSnapshot) CoveragePanel {
	panel := CoveragePanel{
		CurrentCoverage: rr.snapshotCurrency(snapshot, models.FieldCurrentCoverage),
		Multiplier:      coverageMultiplier(snapshot),
		RecommendedMin:  rr.format.Currency(result.RecommendedMin),
		CoverageGap:     rr.format.Currency(result.CoverageGap),
	}

	if result.IsUnderinsured {
		panel.Status = "Underinsured"
		panel.StatusIcon = "⚠️"
		panel.StatusLevel = LevelWarning
		panel.Alert = Alert{
			Level: LevelWarning,
			Title: "⚠️ Coverage Gap Alert:",
			Body: fmt.Sprintf("You are underinsured by %s. Consider increasing your coverage to protect your family's financial future.",
				rr.format.Currency(result.CoverageGap)),
		}
	} else {
		panel.Status = "Adequate"
		panel.StatusIcon = "✅"
		panel.StatusLevel = LevelPositive
		panel.Alert = Alert{
			Level: LevelPositive,
			Title: "✅ Coverage Status:",
			Body:  "Your current coverage is adequate based on the 10x income rule.",
		}
	}
	return panel
}

func (rr *ResultRenderer) premium(result *models.AnalysisResult, snapshot models.FormSnapshot) PremiumPanel {
	capacity := rr.format.Currency(result.AdditionalPremiumCapacity)
	return PremiumPanel{
		CurrentPremium:     rr.snapshotCurrency(snapshot, models.FieldAnnualPremium),
		Percentage:         Decimal(result.PremiumPercentage) + "% of income",
		MaxAffordable:      rr.format.Currency(result.MaxAffordablePremium),
		AdditionalCapacity: capacity,
		Affordability:      result.AffordabilityStatus,
		Advice:             fmt.Sprintf("You can afford an additional %s in annual premiums for enhanced coverage.", capacity),
	}
}

func (rr *ResultRenderer) riders(result *models.AnalysisResult, snapshot models.FormSnapshot) RiderPanel {
	return RiderPanel{
		CriticalIllnessCurrent:     rr.snapshotCurrency(snapshot, models.FieldCriticalIllness),
		CriticalIllnessRecommended: rr.format.Currency(result.RecommendedCI),
		AccidentCurrent:            rr.snapshotCurrency(snapshot, models.FieldAccidentCover),
		CriticalIllnessGap:         rr.format.Currency(result.CIGap),
	}
}

func scores(result *models.AnalysisResult) ScorePanel {
	return ScorePanel{
		Coverage:     outOfTen(result.CoverageScore),
		Premium:      outOfTen(result.PremiumScore),
		Debt:         outOfTen(result.DebtScore),
		Savings:      outOfTen(result.SavingsScore),
		Overall:      outOfTen(result.OverallScore),
		OverallLabel: OverallLabel(result.OverallScore),
	}
}

func (rr *ResultRenderer) metrics(result *models.AnalysisResult) MetricsPanel {
	return MetricsPanel{
		MonthlySavings: rr.format.Currency(MonthlySavings(result.NetSavings)),
		SavingsRate:    Decimal(result.SavingsRate) + "%",
		DebtToIncome:   Decimal(result.DebtToIncome) + "x",
	}
}

func recommendations(recs []string) []Recommendation {
	out := make([]Recommendation, len(recs))
	for i, text := range recs {
		out[i] = Recommendation{Number: i + 1, Text: text}
	}
	return out
}

func (rr *ResultRenderer) projection(result *models.AnalysisResult) ProjectionPanel {
	return ProjectionPanel{
		CurrentExpenses: rr.format.Currency(result.AnnualExpenses),
		FutureExpenses:  rr.format.Currency(result.FutureExpenses10Y),
		ExpenseIncrease: expenseIncrease(result.AnnualExpenses, result.FutureExpenses10Y),
	}
}

// OverallLabel names the band an overall score falls into.
func OverallLabel(score float64) string {
	switch {
	case score >= 8:
		return LabelExcellent
	case score >= 6:
		return LabelGood
	default:
		return LabelNeedsImprovement
	}
}

// MonthlySavings spreads annual net savings over twelve months.
func MonthlySavings(netSavings float64) float64 {
	return netSavings / 12
}

func outOfTen(score float64) string {
	return Decimal(score) + "/10"
}

// ratio divides num by den, refusing a zero or non-finite result.
func ratio(num, den float64) (float64, error) {
	if den == 0 {
		return 0, models.ErrUndefinedRatio
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, models.ErrUndefinedRatio
	}
	return r, nil
}

func coverageMultiplier(snapshot models.FormSnapshot) string {
	coverage, err := snapshot.Float(models.FieldCurrentCoverage)
	if err != nil {
		return NotAvailable
	}
	income, err := snapshot.Float(models.FieldAnnualIncome)
	if err != nil {
		return NotAvailable
	}
	m, err := ratio(coverage, income)
	if err != nil {
		return NotAvailable
	}
	return Decimal(m) + "x income"
}

func expenseIncrease(annual, future float64) string {
	r, err := ratio(future, annual)
	if err != nil {
		return NotAvailable
	}
	pct := (r - 1) * 100
	if pct < 0 {
		return Decimal(pct) + "%"
	}
	return "+" + Decimal(pct) + "%"
}

func (rr *ResultRenderer) snapshotCurrency(snapshot models.FormSnapshot, field string) string {
	v, err := snapshot.Float(field)
	if err != nil {
		return NotAvailable
	}
	return rr.format.Currency(v)
}
