package controllers

import (
	"net/http"

	"github.com/rahul4469/coverage-advisor/internal/views"
)

// StaticController handles static pages like home, about, etc.
type StaticController struct {
	templates StaticTemplates
}

// StaticTemplates holds templates for static pages.
type StaticTemplates struct {
	Home *views.Template
}

// NewStaticController creates a new StaticController.
func NewStaticController(templates StaticTemplates) *StaticController {
	return &StaticController{
		templates: templates,
	}
}

// HomeData holds data for the home page template.
type HomeData struct {
	Features []Feature
}

// Feature is a card on the home page.
type Feature struct {
	Title       string
	Description string
	Link        string
}

// GetHome renders the home page.
func (c *StaticController) GetHome(w http.ResponseWriter, r *http.Request) {
	features := []Feature{
		{
			Title:       "Financial Advisor",
			Description: "Check whether your life cover, premiums and riders fit your income, and see where the gaps are.",
			Link:        "/advisor",
		},
		{
			Title:       "Detailed Summary Report",
			Description: "Generate a written action plan from your figures and download it as a markdown file.",
			Link:        "/advisor#detailed-report",
		},
	}

	data := &views.TemplateData{
		Title:       "Financial Wellness - Insurance Self-Assessment",
		Description: "Assess insurance coverage, premium affordability and financial health.",
		Data: HomeData{
			Features: features,
		},
	}

	c.templates.Home.ExecuteHTTP(w, r, data)
}

// HealthCheck returns a simple health status for monitoring.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
