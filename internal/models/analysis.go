package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-json"
)

// AnalysisResult is the assessment returned by the analysis engine.
// It is read-only once decoded.
type AnalysisResult struct {
	IsUnderinsured bool `json:"is_underinsured"`

	// Monetary figures
	RecommendedMin            float64 `json:"recommended_min"`
	RecommendedMax            float64 `json:"recommended_max,omitempty"`
	CoverageGap               float64 `json:"coverage_gap"`
	MaxAffordablePremium      float64 `json:"max_affordable_premium"`
	AdditionalPremiumCapacity float64 `json:"additional_premium_capacity"`
	AnnualExpenses            float64 `json:"annual_expenses"`
	FutureExpenses10Y         float64 `json:"future_expenses_10y"`
	NetSavings                float64 `json:"net_savings"`
	TotalDebts                float64 `json:"total_debts,omitempty"`

	// Percentages and ratios
	PremiumPercentage float64 `json:"premium_percentage"`
	SavingsRate       float64 `json:"savings_rate"`
	DebtToIncome      float64 `json:"debt_to_income"`

	// Health scores, 0-10
	CoverageScore float64 `json:"coverage_score"`
	PremiumScore  float64 `json:"premium_score"`
	DebtScore     float64 `json:"debt_score"`
	SavingsScore  float64 `json:"savings_score"`
	OverallScore  float64 `json:"overall_score"`

	AffordabilityStatus string `json:"affordability_status"`

	// Critical illness rider
	RecommendedCI float64 `json:"recommended_ci"`
	CIGap         float64 `json:"ci_gap"`

	Recommendations []string `json:"recommendations"`
}

// requiredAnalysisKeys lists the keys the results view cannot do without.
var requiredAnalysisKeys = []string{
	"is_underinsured",
	"recommended_min",
	"coverage_gap",
	"max_affordable_premium",
	"additional_premium_capacity",
	"annual_expenses",
	"future_expenses_10y",
	"net_savings",
	"premium_percentage",
	"savings_rate",
	"debt_to_income",
	"coverage_score",
	"premium_score",
	"debt_score",
	"savings_score",
	"overall_score",
	"affordability_status",
	"recommended_ci",
	"ci_gap",
	"recommendations",
}

// DecodeAnalysisResult decodes the analysis object of an engine response.
// Missing or null required keys fail with ErrMalformedResult.
func DecodeAnalysisResult(raw []byte) (*AnalysisResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: analysis is null", ErrMalformedResult)
	}

	var missing []string
	for _, key := range requiredAnalysisKeys {
		v, ok := fields[key]
		if !ok || string(v) == "null" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedResult, strings.Join(missing, ", "))
	}

	var result AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

// Validate checks what the renderer relies on.
func (r *AnalysisResult) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: no analysis", ErrMalformedResult)
	}
	if r.Recommendations == nil {
		return fmt.Errorf("%w: missing recommendations", ErrMalformedResult)
	}

	figures := map[string]float64{
		"recommended_min":             r.RecommendedMin,
		"coverage_gap":                r.CoverageGap,
		"max_affordable_premium":      r.MaxAffordablePremium,
		"additional_premium_capacity": r.AdditionalPremiumCapacity,
		"annual_expenses":             r.AnnualExpenses,
		"future_expenses_10y":         r.FutureExpenses10Y,
		"net_savings":                 r.NetSavings,
		"premium_percentage":          r.PremiumPercentage,
		"savings_rate":                r.SavingsRate,
		"debt_to_income":              r.DebtToIncome,
		"coverage_score":              r.CoverageScore,
		"premium_score":               r.PremiumScore,
		"debt_score":                  r.DebtScore,
		"savings_score":               r.SavingsScore,
		"overall_score":               r.OverallScore,
		"recommended_ci":              r.RecommendedCI,
		"ci_gap":                      r.CIGap,
	}
	for name, v := range figures {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrMalformedResult, name)
		}
	}

	if r.OverallScore < 0 || r.OverallScore > 10 {
		return fmt.Errorf("%w: overall_score %.2f outside 0-10", ErrMalformedResult, r.OverallScore)
	}
	return nil
}
