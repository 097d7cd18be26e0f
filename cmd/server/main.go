package main

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"

	"sentinel/application"
	"sentinel/database"
	"sentinel/infrastructure/config"
	"sentinel/infrastructure/knowledge"
	"sentinel/infrastructure/llm"
	"sentinel/infrastructure/repositories"
	"sentinel/interfaces/web/handlers"
	"sentinel/interfaces/web/presenters"
	templates "sentinel/interfaces/web/templates"
	"sentinel/logging"
	"sentinel/platform/clock"
	"sentinel/platform/events"
	"sentinel/platform/notifications"
)

func main() {
	// Create app-wide context for graceful shutdown
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// Initialize configuration
	loadEnvironment()
	cfg := config.LoadAppConfigFromEnv()

	// Initialize logging
	logger := initializeLogging(cfg)

	// Initialize database
	db := initializeDatabase(cfg, logger)
	defer db.Close()

	// Build dependencies with app context
	deps := buildDependencies(appCtx, cfg, db, logger)

	// Setup routes and start server
	router := setupRoutes(deps, cfg)
	startServer(router, cfg.HTTPAddr, logger, deps, appCancel)
}

// ApplicationServices holds application services.
type ApplicationServices struct {
	AnalysisService application.AnalysisService
	EventBus        *events.AnalysisEventBus
}

// PresentationLayer groups all presentation components
type PresentationLayer struct {
	AnalysisPresenter *presenters.AnalysisPresenter
	Toasts            *notifications.ToastManager

	AnalysisHandlers *handlers.AnalysisHandlers
	ToastHandlers    *handlers.ToastHandlers
	SystemHandlers   *handlers.SystemHandlers
	SSEManager       *handlers.SSEManager
}

// Dependencies holds all application dependencies organized by layer
type Dependencies struct {
	DB     *database.Database
	Logger *logging.Logger

	Services     *ApplicationServices
	Presentation *PresentationLayer
}

func loadEnvironment() {
	if err := godotenv.Load(); err != nil {
		println("No .env file found, using environment variables")
	} else {
		println("Loaded configuration from .env file")
	}
}

func initializeLogging(cfg *config.AppConfig) *logging.Logger {
	logger := logging.NewLogger(cfg.Logging)
	logging.SetDefault(logger)

	logger.Info("Application starting",
		"version", "1.0.0",
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format,
		"db_path", cfg.Database.Path,
		"model", cfg.LLM.Model,
		"knowledge_base", cfg.Knowledge.Dir,
	)

	if cfg.LLM.APIKey == "" {
		logger.Warn("LLM_API_KEY is empty, model requests are sent without authorization")
	}

	return logger
}

func initializeDatabase(cfg *config.AppConfig, logger *logging.Logger) *database.Database {
	db, err := database.New(*cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	return db
}

// buildApplicationServices creates the analysis pipeline and its event bus.
func buildApplicationServices(cfg *config.AppConfig, db *database.Database, logger *logging.Logger) *ApplicationServices {
	eventBus := events.NewAnalysisEventBus()

	analysisRepo := repositories.NewSqliteAnalysisRepository(db)
	knowledgeBase := knowledge.Load(*cfg.Knowledge, logger)
	llmClient := llm.NewClient(*cfg.LLM, nil)

	analysisService := application.NewAnalysisService(
		analysisRepo,
		knowledgeBase,
		llmClient,
		eventBus,
		clock.Real(),
	)

	return &ApplicationServices{
		AnalysisService: analysisService,
		EventBus:        eventBus,
	}
}

// buildPresentationLayer creates presenters, the toast manager and handlers
func buildPresentationLayer(appCtx context.Context, cfg *config.AppConfig, db *database.Database, services *ApplicationServices) *PresentationLayer {
	var sanitizer *presenters.ReportSanitizer
	if cfg.Report.Sanitize {
		sanitizer = presenters.NewReportSanitizer()
	}
	analysisPresenter := presenters.NewAnalysisPresenter(sanitizer)

	// Toasts are rendered server-side and pushed to every page over SSE
	sseManager := handlers.NewSSEManager(appCtx)
	toasts := notifications.NewToastManager(sseManager, clock.Real())
	toasts.SetDefaultDuration(cfg.Toast.DefaultDuration)

	setupEventHandlers(services, toasts, sseManager)

	return &PresentationLayer{
		AnalysisPresenter: analysisPresenter,
		Toasts:            toasts,
		AnalysisHandlers:  handlers.NewAnalysisHandlers(services.AnalysisService, analysisPresenter, toasts),
		ToastHandlers:     handlers.NewToastHandlers(toasts),
		SystemHandlers:    handlers.NewSystemHandlers(db),
		SSEManager:        sseManager,
	}
}

// buildDependencies creates all application dependencies
func buildDependencies(appCtx context.Context, cfg *config.AppConfig, db *database.Database, logger *logging.Logger) *Dependencies {
	services := buildApplicationServices(cfg, db, logger)
	presentation := buildPresentationLayer(appCtx, cfg, db, services)

	return &Dependencies{
		DB:           db,
		Logger:       logger,
		Services:     services,
		Presentation: presentation,
	}
}

func setupRoutes(deps *Dependencies, cfg *config.AppConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	setupHTTPLogging(r, deps, cfg)
	r.Use(middleware.Recoverer)

	// Static assets
	mountStaticAssets(r)

	// System endpoints
	setupSystemRoutes(r, deps)

	// Analyzer page and API
	setupAnalysisRoutes(r, deps)

	return r
}

func setupHTTPLogging(r *chi.Mux, deps *Dependencies, cfg *config.AppConfig) {
	if cfg.HTTPLogPath == "" {
		return
	}

	logFile, err := os.OpenFile(cfg.HTTPLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		deps.Logger.Error("Failed to open HTTP log file", "error", err, "path", cfg.HTTPLogPath)
		return
	}
	// logFile stays open for the server lifetime

	httpLogger := httplog.NewLogger("sentinel", httplog.Options{
		Writer: logFile,
		JSON:   true,
	})
	r.Use(httplog.RequestLogger(httpLogger))

	deps.Logger.Info("HTTP request logging enabled", "path", cfg.HTTPLogPath)
}

func mountStaticAssets(r chi.Router) {
	sub, _ := fs.Sub(templates.FS, "assets")
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))
}

func setupSystemRoutes(r *chi.Mux, deps *Dependencies) {
	r.Get("/api/health", deps.Presentation.SystemHandlers.Health)
	r.Get("/events", deps.Presentation.SSEManager.HandleSSEConnection)
}

func setupAnalysisRoutes(r *chi.Mux, deps *Dependencies) {
	h := deps.Presentation.AnalysisHandlers

	// Pages
	r.Get("/", h.Home)
	r.Get("/partials/stats", h.StatsPanel)

	// JSON API
	r.Get("/api/sample", h.Sample)
	r.Post("/api/analyze", h.Analyze)
	r.Get("/api/stats", h.Stats)
	r.Get("/api/reports/latest/download", h.DownloadLatestReport)
	r.Get("/api/runs/{runID}", h.GetRun)
	r.Post("/api/toasts", deps.Presentation.ToastHandlers.Create)
}

func startServer(router *chi.Mux, addr string, logger *logging.Logger, deps *Dependencies, appCancel context.CancelFunc) {
	// WriteTimeout stays unset: SSE streams are long-lived.
	server := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sig
		logger.Info("Shutdown signal received")

		logger.Info("Cancelling app context...")
		appCancel()

		// Close SSE connections immediately so Shutdown does not wait on them
		logger.Info("Closing SSE connections...")
		deps.Presentation.SSEManager.CloseAll()

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				logger.Error("Graceful shutdown timed out, forcing exit")
				os.Exit(1)
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			os.Exit(1)
		}
		serverStopCtx()
	}()

	logger.Info("Server starting", "address", addr)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}

	<-serverCtx.Done()
	logger.Info("Server stopped")
}

// setupEventHandlers turns analysis events into toasts and dashboard refreshes
func setupEventHandlers(services *ApplicationServices, toasts *notifications.ToastManager, sseManager *handlers.SSEManager) {
	notificationHandlers := events.NewNotificationEventHandlers(toasts, sseManager)
	notificationHandlers.RegisterHandlers(services.EventBus)
}
