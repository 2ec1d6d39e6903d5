package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/rahul4469/coverage-advisor/internal/config"
	"github.com/rahul4469/coverage-advisor/internal/controllers"
	"github.com/rahul4469/coverage-advisor/internal/logger"
	"github.com/rahul4469/coverage-advisor/internal/middleware"
	"github.com/rahul4469/coverage-advisor/internal/models"
	"github.com/rahul4469/coverage-advisor/internal/services"
	"github.com/rahul4469/coverage-advisor/internal/views"
	"github.com/rahul4469/coverage-advisor/internal/workflow"
	"github.com/rahul4469/coverage-advisor/templates"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Warn("invalid log level", "error", err)
	}
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	// Setup Services ---------------
	formatter, err := views.NewFormatter(cfg.Display.Locale, cfg.Display.CurrencySymbol)
	if err != nil {
		return fmt.Errorf("display config: %w", err)
	}
	renderer := views.NewResultRenderer(formatter)

	engine := services.NewEngineClient(cfg.Engine.BaseURL, cfg.Engine.Timeout, log)
	analysisClient := services.NewAnalysisClient(engine, cfg.Engine.AnalyzePath)
	reportClient := services.NewReportClient(engine, cfg.Engine.ReportPath)

	sessionStore := workflow.NewSessionStore(cfg.Security.SessionDuration, func() *workflow.Machine {
		return workflow.NewMachine(
			analysisClient,
			renderer,
			workflow.NewReportController(reportClient),
			log,
		)
	})

	// Setup Controllers ---------------
	fields := models.WithDefaults(models.DefaultFields(), cfg.Form.Defaults)

	staticCtrl := controllers.NewStaticController(controllers.StaticTemplates{
		Home: views.MustParseFS(templates.FS, log, "pages/home.gohtml"),
	})
	advisorCtrl := controllers.NewAdvisorController(
		fields,
		controllers.AdvisorTemplates{
			Page: views.MustParseFS(templates.FS, log, "pages/advisor.gohtml"),
		},
		log,
	)

	csrfMw := csrf.Protect(
		[]byte(cfg.Security.CSRFSecret),
		csrf.Secure(cfg.Security.SecureCookies),
		csrf.Path("/"),
	)
	smw := middleware.NewSessionMiddleware(
		sessionStore,
		cfg.Security.SessionCookieName,
		cfg.Security.SecureCookies,
		log,
	)

	// Setup router and routes
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", controllers.HealthCheck)

	r.Group(func(r chi.Router) {
		if !cfg.Security.SecureCookies {
			r.Use(plaintextHTTP)
		}
		r.Use(csrfMw)
		r.Use(smw.SetSession)

		r.Get("/", staticCtrl.GetHome)

		r.Route("/advisor", func(r chi.Router) {
			r.Get("/", advisorCtrl.GetAdvisor)
			r.Post("/analyze", advisorCtrl.PostAnalyze)
			r.Post("/report", advisorCtrl.PostReport)
			r.Post("/report/download", advisorCtrl.PostDownload)
			r.Post("/reset", advisorCtrl.PostReset)
			r.Get("/slider", advisorCtrl.GetSlider)
		})
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
		// Engine calls are bounded by their own timeout; leave headroom.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Engine.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", srv.Addr, "env", cfg.Server.Environment, "engine", cfg.Engine.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// plaintextHTTP tells the CSRF layer that requests arrive over plain HTTP,
// which is how the server runs outside production.
func plaintextHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
