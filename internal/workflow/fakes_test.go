package workflow

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/rahul4469/coverage-advisor/internal/models"
	"github.com/rahul4469/coverage-advisor/internal/views"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRenderer(t *testing.T) *views.ResultRenderer {
	t.Helper()
	f, err := views.NewFormatter("en-US", "$")
	if err != nil {
		t.Fatalf("formatter: %v", err)
	}
	return views.NewResultRenderer(f)
}

func validResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		IsUnderinsured:    true,
		RecommendedMin:    10000000,
		CoverageGap:       5000000,
		AnnualExpenses:    480000,
		FutureExpenses10Y: 624000,
		NetSavings:        120000,
		OverallScore:      7,
		Recommendations:   []string{"Increase term cover"},
	}
}

func formSnapshot(age string) models.FormSnapshot {
	return models.NewSnapshot(
		models.FieldAge, age,
		models.FieldAnnualIncome, "1000000",
		models.FieldCurrentCoverage, "5000000",
	)
}

// stubAnalyzer returns a fixed outcome. When gate is set every call waits
// for a value on it after announcing itself on started; a cancelled ctx
// ends the wait the way an HTTP client would.
type stubAnalyzer struct {
	result *models.AnalysisResult
	err    error

	started chan struct{}
	gate    chan struct{}

	mu    sync.Mutex
	calls int
}

func (a *stubAnalyzer) Analyze(ctx context.Context, snapshot models.FormSnapshot) (*models.AnalysisResult, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	if a.gate != nil {
		a.started <- struct{}{}
		select {
		case <-a.gate:
		case <-ctx.Done():
			return nil, &models.TransportError{Op: "analyze", Err: ctx.Err()}
		}
	}
	return a.result, a.err
}

func (a *stubAnalyzer) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func blockingAnalyzer(result *models.AnalysisResult, err error) *stubAnalyzer {
	return &stubAnalyzer{
		result:  result,
		err:     err,
		started: make(chan struct{}, 1),
		gate:    make(chan struct{}),
	}
}

// stubReporter hands out texts in order, then keeps returning the last one.
type stubReporter struct {
	texts []string
	err   error

	started chan struct{}
	gate    chan struct{}

	mu    sync.Mutex
	calls int
}

func (r *stubReporter) GenerateReport(ctx context.Context, snapshot models.FormSnapshot) (string, error) {
	r.mu.Lock()
	i := r.calls
	r.calls++
	r.mu.Unlock()
	if r.gate != nil {
		r.started <- struct{}{}
		select {
		case <-r.gate:
		case <-ctx.Done():
			return "", &models.TransportError{Op: "generate report", Err: ctx.Err()}
		}
	}
	if r.err != nil {
		return "", r.err
	}
	if i >= len(r.texts) {
		i = len(r.texts) - 1
	}
	return r.texts[i], nil
}

func blockingReporter(texts ...string) *stubReporter {
	return &stubReporter{
		texts:   texts,
		started: make(chan struct{}, 1),
		gate:    make(chan struct{}),
	}
}
