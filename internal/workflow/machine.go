package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/rahul4469/coverage-advisor/internal/models"
	"github.com/rahul4469/coverage-advisor/internal/views"
)

// ErrSuperseded is returned when a response arrives for a request that a
// Reset has orphaned. Its result is dropped.
var ErrSuperseded = errors.New("request superseded")

// State is the composite interaction state derived from the view flags.
type State string

const (
	StateIdle             State = "idle"
	StateSubmitting       State = "submitting"
	StateResultsShown     State = "results_shown"
	StateReportGenerating State = "report_generating"
	StateReportShown      State = "report_shown"
)

// Control labels, scroll anchors and fixed notices.
const (
	ReportButtonLabel     = "📄 Generate Detailed Summary Report"
	ReportButtonBusyLabel = "⏳ Generating..."

	ScrollResults = "results"
	ScrollReport  = "detailed-report"

	NoticeNoArtifact = "Please generate a report first"
)

// Analyzer submits a snapshot to the analysis engine.
type Analyzer interface {
	Analyze(ctx context.Context, snapshot models.FormSnapshot) (*models.AnalysisResult, error)
}

// Renderer maps an assessment onto display values.
type Renderer interface {
	Render(result *models.AnalysisResult, snapshot models.FormSnapshot) (*views.RenderedView, error)
}

// View is everything the page needs to draw the current state.
type View struct {
	Snapshot models.FormSnapshot

	LoadingVisible bool
	SubmitDisabled bool

	ResultsVisible bool
	Results        *views.RenderedView

	ReportVisible        bool
	ReportText           string
	ReportButtonLabel    string
	ReportButtonDisabled bool

	// One-shot effects, cleared by Present.
	Notice       string
	ScrollTarget string
}

// Machine is the interaction state machine of one advisor session. The
// analysis and report tracks run independently; each allows one request
// in flight. The lock is never held across a remote call.
type Machine struct {
	analyzer Analyzer
	renderer Renderer
	reports  *ReportController
	logger   *slog.Logger

	mu          sync.Mutex
	view        View
	submitting  bool
	analysisSeq uint64
}

func NewMachine(analyzer Analyzer, renderer Renderer, reports *ReportController, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		analyzer: analyzer,
		renderer: renderer,
		reports:  reports,
		logger:   logger,
		view:     initialView(),
	}
}

func initialView() View {
	return View{ReportButtonLabel: ReportButtonLabel}
}

// Submit runs the analysis track for snapshot. On any failure the panels
// return to their visibility before the submit and a notice is set; the
// loading indicator is cleared on every path. Cancelling ctx does not stop
// the engine call; the engine client's timeout bounds it.
func (m *Machine) Submit(ctx context.Context, snapshot models.FormSnapshot) error {
	ctx = context.WithoutCancel(ctx)
	m.mu.Lock()
	if m.submitting {
		m.mu.Unlock()
		return models.ErrInFlight
	}
	m.submitting = true
	m.analysisSeq++
	seq := m.analysisSeq
	priorResults, priorReport := m.view.ResultsVisible, m.view.ReportVisible

	m.view.Snapshot = snapshot
	m.view.LoadingVisible = true
	m.view.SubmitDisabled = true
	m.view.ResultsVisible = false
	m.view.ReportVisible = false
	m.view.ScrollTarget = ""
	m.mu.Unlock()

	m.logger.Debug("analysis submitted", "seq", seq)

	result, err := m.analyzer.Analyze(ctx, snapshot)
	var rendered *views.RenderedView
	if err == nil {
		rendered, err = m.renderer.Render(result, snapshot)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitting = false
	m.view.LoadingVisible = false
	m.view.SubmitDisabled = false

	if seq != m.analysisSeq {
		m.logger.Debug("analysis response discarded", "seq", seq, "current", m.analysisSeq)
		return ErrSuperseded
	}
	if err != nil {
		m.logger.Warn("analysis failed", "seq", seq, "error", err)
		m.view.ResultsVisible = priorResults
		m.view.ReportVisible = priorReport
		m.view.Notice = Notice(err)
		return err
	}

	m.view.Results = rendered
	m.view.ResultsVisible = true
	m.view.ScrollTarget = ScrollResults
	return nil
}

// GenerateReport runs the report track for snapshot. The report button is
// disabled while the request runs and restored on every path. Like Submit,
// it outlives a cancelled ctx.
func (m *Machine) GenerateReport(ctx context.Context, snapshot models.FormSnapshot) error {
	ctx = context.WithoutCancel(ctx)
	m.mu.Lock()
	if m.reports.InFlight() {
		m.mu.Unlock()
		return models.ErrInFlight
	}
	m.view.ReportButtonDisabled = true
	m.view.ReportButtonLabel = ReportButtonBusyLabel
	m.mu.Unlock()

	artifact, err := m.reports.Request(ctx, snapshot)
	if errors.Is(err, models.ErrInFlight) {
		// Lost the race to another request; that one restores the button.
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.view.ReportButtonDisabled = false
	m.view.ReportButtonLabel = ReportButtonLabel

	if errors.Is(err, ErrSuperseded) {
		return err
	}
	if err != nil {
		m.logger.Warn("report generation failed", "error", err)
		m.view.Notice = Notice(err)
		return err
	}

	m.view.ReportVisible = true
	m.view.ReportText = artifact.Text
	m.view.ScrollTarget = ScrollReport
	return nil
}

// Download packages the current report. Without one it fails with
// models.ErrNoArtifact and sets a notice; nothing else changes.
func (m *Machine) Download(snapshot models.FormSnapshot) (*Download, error) {
	d, err := m.reports.Download(snapshot)
	if err != nil {
		m.mu.Lock()
		m.view.Notice = Notice(err)
		m.mu.Unlock()
		return nil, err
	}
	return d, nil
}

// SliderChanged returns the label for a slider's new value.
func (m *Machine) SliderChanged(field, value string) string {
	return models.SliderDisplay(field, value)
}

// View returns a copy of the current view.
func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// Present returns the current view and clears its one-shot effects.
func (m *Machine) Present() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.view
	m.view.Notice = ""
	m.view.ScrollTarget = ""
	return v
}

// State derives the interaction state. A running request wins over the
// visible panels, and the analysis track wins over the report track.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.submitting:
		return StateSubmitting
	case m.reports.InFlight():
		return StateReportGenerating
	case m.view.ReportVisible:
		return StateReportShown
	case m.view.ResultsVisible:
		return StateResultsShown
	default:
		return StateIdle
	}
}

// Reset returns the session to its initial state. Responses to requests
// already in flight are discarded when they arrive.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analysisSeq++
	m.reports.Discard()

	m.view = initialView()
	m.view.SubmitDisabled = m.submitting
	if m.reports.InFlight() {
		m.view.ReportButtonDisabled = true
		m.view.ReportButtonLabel = ReportButtonBusyLabel
	}
}

// Notice is the user-facing message for a failed action.
func Notice(err error) string {
	var rejected *models.RejectedError
	var transport *models.TransportError
	switch {
	case errors.As(err, &rejected):
		return "Error: " + rejected.Reason
	case errors.As(err, &transport):
		return "An error occurred: " + transport.UserMessage()
	case errors.Is(err, models.ErrNoArtifact):
		return NoticeNoArtifact
	default:
		return "An error occurred: " + err.Error()
	}
}
