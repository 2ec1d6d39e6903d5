package views

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rahul4469/coverage-advisor/internal/models"
)

// Template wraps a parsed template with helper methods for rendering.
type Template struct {
	tmpl   *template.Template
	logger *slog.Logger
}

// TemplateData is the standard data structure passed to all templates.
type TemplateData struct {
	// CSRF field for forms
	CSRFField template.HTML

	// Flash messages
	Error   string
	Success string
	Warning string
	Info    string

	// Page-specific data
	Data interface{}

	Title       string
	Description string

	// Request info (useful for active nav highlighting)
	CurrentPath string
}

// DefaultFuncMap returns the default template functions available in all templates.
func DefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"trim":  strings.TrimSpace,

		"levelClass":    levelClass,
		"inlineMarkup":  inlineMarkup,
		"sliderDisplay": models.SliderDisplay,
	}
}

// ParseFS parses the base layout, every partial and the given pages from
// fsys. Pages define their own "content" block.
func ParseFS(fsys fs.FS, logger *slog.Logger, patterns ...string) (*Template, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tmpl := template.New("").Funcs(DefaultFuncMap())

	baseContent, err := fs.ReadFile(fsys, "layouts/base.gohtml")
	if err != nil {
		return nil, fmt.Errorf("failed to read base template: %w", err)
	}
	tmpl, err = tmpl.Parse(string(baseContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base template: %w", err)
	}

	partialMatches, err := fs.Glob(fsys, "partials/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("failed to glob partials: %w", err)
	}
	for _, match := range partialMatches {
		content, err := fs.ReadFile(fsys, match)
		if err != nil {
			return nil, fmt.Errorf("failed to read partial %s: %w", match, err)
		}
		tmpl, err = tmpl.Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse partial %s: %w", match, err)
		}
	}

	for _, pattern := range patterns {
		content, err := fs.ReadFile(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", pattern, err)
		}
		tmpl, err = tmpl.Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", pattern, err)
		}
	}

	return &Template{tmpl: tmpl, logger: logger}, nil
}

// MustParseFS is like ParseFS but panics on error.
// Use this during initialization when templates must be valid.
func MustParseFS(fsys fs.FS, logger *slog.Logger, patterns ...string) *Template {
	tmpl, err := ParseFS(fsys, logger, patterns...)
	if err != nil {
		panic(fmt.Sprintf("failed to parse templates: %v", err))
	}
	return tmpl
}

// Execute renders the template to the given writer with the provided data.
func (t *Template) Execute(w io.Writer, data *TemplateData) error {
	return t.tmpl.ExecuteTemplate(w, "base", data)
}

// ExecuteHTTP renders the template as an HTTP response.
func (t *Template) ExecuteHTTP(w http.ResponseWriter, r *http.Request, data *TemplateData) {
	t.ExecuteHTTPWithStatus(w, r, http.StatusOK, data)
}

// ExecuteHTTPWithStatus renders the template with a custom HTTP status code.
// Output is buffered so a template error never sends a half page.
func (t *Template) ExecuteHTTPWithStatus(w http.ResponseWriter, r *http.Request, status int, data *TemplateData) {
	if data != nil {
		data.CurrentPath = r.URL.Path
	}

	buf := &bytes.Buffer{}
	if err := t.Execute(buf, data); err != nil {
		t.logger.Error("template execution failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func levelClass(level string) string {
	switch level {
	case LevelWarning:
		return "warning"
	case LevelPositive:
		return "recommendation"
	default:
		return "info"
	}
}

var (
	boldPattern  = regexp.MustCompile(`\*\*(.+?)\*\*`)
	markupPolicy = newMarkupPolicy()
)

func newMarkupPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("strong", "em")
	return p
}

// inlineMarkup turns the engine's **bold** spans into <strong> and drops
// any other markup.
func inlineMarkup(s string) template.HTML {
	escaped := html.EscapeString(s)
	marked := boldPattern.ReplaceAllString(escaped, "<strong>$1</strong>")
	return template.HTML(markupPolicy.Sanitize(marked))
}
