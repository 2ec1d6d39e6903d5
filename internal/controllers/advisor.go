package controllers

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/rahul4469/coverage-advisor/internal/middleware"
	"github.com/rahul4469/coverage-advisor/internal/models"
	"github.com/rahul4469/coverage-advisor/internal/views"
	"github.com/rahul4469/coverage-advisor/internal/workflow"
)

// AdvisorController maps browser actions on the advisor page to events of
// the session's interaction state machine.
type AdvisorController struct {
	fields    []models.Field
	templates AdvisorTemplates
	logger    *slog.Logger
}

// AdvisorTemplates holds the templates for the advisor page.
type AdvisorTemplates struct {
	Page *views.Template
}

// NewAdvisorController creates a new AdvisorController.
func NewAdvisorController(fields []models.Field, templates AdvisorTemplates, logger *slog.Logger) *AdvisorController {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdvisorController{
		fields:    fields,
		templates: templates,
		logger:    logger,
	}
}

// FieldView is a form field with the value to show in it.
type FieldView struct {
	models.Field
	Value string
}

// AdvisorData holds data for the advisor template.
type AdvisorData struct {
	Fields []FieldView
	View   workflow.View
}

// GetAdvisor renders the form and whatever the session currently shows.
func (c *AdvisorController) GetAdvisor(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustCurrentSession(r)
	view := session.Machine.Present()

	data := &views.TemplateData{
		Title:     "Financial Advisor",
		CSRFField: csrf.TemplateField(r),
		Error:     view.Notice,
		Data: AdvisorData{
			Fields: c.fieldViews(view.Snapshot),
			View:   view,
		},
	}
	c.templates.Page.ExecuteHTTP(w, r, data)
}

// PostAnalyze submits the form to the analysis engine.
func (c *AdvisorController) PostAnalyze(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := c.snapshot(w, r)
	if !ok {
		return
	}
	session := middleware.MustCurrentSession(r)

	if err := session.Machine.Submit(r.Context(), snapshot); err != nil {
		c.logOutcome("analyze", err)
	}
	c.redirectToView(w, r, session)
}

// PostReport asks the engine for the narrative report.
func (c *AdvisorController) PostReport(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := c.snapshot(w, r)
	if !ok {
		return
	}
	session := middleware.MustCurrentSession(r)

	if err := session.Machine.GenerateReport(r.Context(), snapshot); err != nil {
		c.logOutcome("generate report", err)
	}
	c.redirectToView(w, r, session)
}

// PostDownload sends the current report as a markdown attachment.
func (c *AdvisorController) PostDownload(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := c.snapshot(w, r)
	if !ok {
		return
	}
	session := middleware.MustCurrentSession(r)

	download, err := session.Machine.Download(snapshot)
	if err != nil {
		// The notice is on the view; go back and show it.
		http.Redirect(w, r, "/advisor", http.StatusSeeOther)
		return
	}

	w.Header().Set("ETag", strconv.Quote(download.ArtifactID))
	w.Header().Set("Last-Modified", download.GeneratedAt.UTC().Format(http.TimeFormat))
	w.Header().Set("Content-Type", download.ContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": download.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(download.Body)))
	w.WriteHeader(http.StatusOK)
	w.Write(download.Body)
}

// PostReset starts the session over. Requests still running finish
// without touching the page.
func (c *AdvisorController) PostReset(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustCurrentSession(r)
	session.Machine.Reset()
	http.Redirect(w, r, "/advisor", http.StatusSeeOther)
}

// GetSlider returns the display label for a slider value.
// GET /advisor/slider?field=inflation_rate&value=7
func (c *AdvisorController) GetSlider(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustCurrentSession(r)
	field := r.URL.Query().Get("field")
	if field == "" {
		http.Error(w, "field is required", http.StatusBadRequest)
		return
	}

	label := session.Machine.SliderChanged(field, r.URL.Query().Get("value"))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(label))
}

// redirectToView sends the browser back to the advisor page, scrolled to
// the panel the last action revealed.
func (c *AdvisorController) redirectToView(w http.ResponseWriter, r *http.Request, session *workflow.Session) {
	target := "/advisor"
	if anchor := session.Machine.View().ScrollTarget; anchor != "" {
		target += "#" + anchor
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (c *AdvisorController) snapshot(w http.ResponseWriter, r *http.Request) (models.FormSnapshot, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return models.FormSnapshot{}, false
	}
	return models.ExtractSnapshot(r.PostForm, c.fields), true
}

// fieldViews fills the form from the last snapshot, or from the field
// defaults before the first action.
func (c *AdvisorController) fieldViews(snapshot models.FormSnapshot) []FieldView {
	out := make([]FieldView, len(c.fields))
	for i, f := range c.fields {
		value := f.Default
		if v, ok := snapshot.Get(f.Name); ok {
			value = v
		}
		out[i] = FieldView{Field: f, Value: value}
	}
	return out
}

func (c *AdvisorController) logOutcome(action string, err error) {
	switch {
	case errors.Is(err, models.ErrInFlight):
		c.logger.Info("duplicate request ignored", "action", action)
	case errors.Is(err, workflow.ErrSuperseded):
		c.logger.Info("stale response dropped", "action", action)
	default:
		c.logger.Warn("advisor action failed", "action", action, "error", err)
	}
}
