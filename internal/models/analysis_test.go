package models

import (
	"errors"
	"strings"
	"testing"
)

const validAnalysis = `{
	"is_underinsured": true,
	"recommended_min": 8000000,
	"recommended_max": 12000000,
	"coverage_gap": 3000000,
	"max_affordable_premium": 80000,
	"additional_premium_capacity": 55000,
	"annual_expenses": 480000,
	"future_expenses_10y": 624000,
	"net_savings": 120000,
	"total_debts": 2000000,
	"premium_percentage": 3.1,
	"savings_rate": 15,
	"debt_to_income": 2.5,
	"coverage_score": 6,
	"premium_score": 9,
	"debt_score": 5,
	"savings_score": 7,
	"overall_score": 6.8,
	"affordability_status": "Affordable",
	"recommended_ci": 1000000,
	"ci_gap": 500000,
	"recommendations": ["**Increase** term cover", "Build an emergency fund"]
}`

func TestDecodeAnalysisResult(t *testing.T) {
	result, err := DecodeAnalysisResult([]byte(validAnalysis))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.IsUnderinsured {
		t.Error("expected underinsured")
	}
	if result.CoverageGap != 3000000 {
		t.Errorf("coverage gap: got %v", result.CoverageGap)
	}
	if result.OverallScore != 6.8 {
		t.Errorf("overall score: got %v", result.OverallScore)
	}
	if len(result.Recommendations) != 2 || result.Recommendations[1] != "Build an emergency fund" {
		t.Errorf("recommendations: got %v", result.Recommendations)
	}
}

func TestDecodeAnalysisResult_OptionalKeys(t *testing.T) {
	raw := strings.Replace(validAnalysis, `"recommended_max": 12000000,`, "", 1)
	raw = strings.Replace(raw, `"total_debts": 2000000,`, "", 1)

	result, err := DecodeAnalysisResult([]byte(raw))
	if err != nil {
		t.Fatalf("optional keys should not be required: %v", err)
	}
	if result.RecommendedMax != 0 || result.TotalDebts != 0 {
		t.Fatalf("expected zero optional values, got %v and %v", result.RecommendedMax, result.TotalDebts)
	}
}

func TestDecodeAnalysisResult_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `nope`},
		{"null", `null`},
		{"array", `[]`},
		{"missing coverage gap", strings.Replace(validAnalysis, `"coverage_gap": 3000000,`, "", 1)},
		{"null recommendations", strings.Replace(validAnalysis, `"recommendations": ["**Increase** term cover", "Build an emergency fund"]`, `"recommendations": null`, 1)},
		{"score out of range", strings.Replace(validAnalysis, `"overall_score": 6.8`, `"overall_score": 11`, 1)},
		{"wrong type", strings.Replace(validAnalysis, `"net_savings": 120000`, `"net_savings": "lots"`, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DecodeAnalysisResult([]byte(tt.raw))
			if !errors.Is(err, ErrMalformedResult) {
				t.Fatalf("expected ErrMalformedResult, got %v", err)
			}
			if result != nil {
				t.Fatal("no partial result expected")
			}
		})
	}
}

func TestDecodeAnalysisResult_ReportsMissingKeys(t *testing.T) {
	raw := strings.Replace(validAnalysis, `"ci_gap": 500000,`, "", 1)
	_, err := DecodeAnalysisResult([]byte(raw))
	if err == nil || !strings.Contains(err.Error(), "ci_gap") {
		t.Fatalf("error should name the missing key, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	var nilResult *AnalysisResult
	if !errors.Is(nilResult.Validate(), ErrMalformedResult) {
		t.Fatal("nil result should be malformed")
	}

	r := &AnalysisResult{Recommendations: []string{}, OverallScore: 10}
	if err := r.Validate(); err != nil {
		t.Fatalf("empty recommendations and score 10 are valid: %v", err)
	}

	r.NetSavings = -50000
	if err := r.Validate(); err != nil {
		t.Fatalf("negative savings are valid: %v", err)
	}

	r.OverallScore = -0.1
	if !errors.Is(r.Validate(), ErrMalformedResult) {
		t.Fatal("negative overall score should be malformed")
	}
}
