package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sentinel/application"
	"sentinel/domain/contracts"
	"sentinel/domain/notifications"
	"sentinel/interfaces/web/presenters"
	"sentinel/interfaces/web/templates/pages"
	"sentinel/logging"
)

// ServiceName identifies the service in health responses and page titles.
const ServiceName = "ThreatRAG Sentinel"

// Toaster shows toast notifications. *notifications.ToastManager satisfies it.
type Toaster interface {
	Notify(message string, severity notifications.Severity, duration time.Duration)
	NotifyAs(message string, severity notifications.Severity)
	Success(message string)
	Warning(message string)
	Error(message string)
}

// AnalysisHandlers serves the analyzer page and its JSON API. Handlers stay
// thin; pipeline rules live in the service and view logic in the presenter.
type AnalysisHandlers struct {
	service   application.AnalysisService
	presenter presenters.AnalysisPresenterInterface
	toasts    Toaster
	logger    *logging.Logger
}

// NewAnalysisHandlers creates the analysis handlers.
func NewAnalysisHandlers(
	service application.AnalysisService,
	presenter presenters.AnalysisPresenterInterface,
	toasts Toaster,
) *AnalysisHandlers {
	return &AnalysisHandlers{
		service:   service,
		presenter: presenter,
		toasts:    toasts,
		logger:    logging.Default().WithComponent("analysis_handler"),
	}
}

type analyzeRequest struct {
	Logs *string `json:"logs"`
}

type analyzeResponse struct {
	Success   bool                           `json:"success"`
	Timestamp string                         `json:"timestamp"`
	Results   *presenters.AnalysisResultView `json:"results"`
}

// Home renders the analyzer page.
func (h *AnalysisHandlers) Home(w http.ResponseWriter, r *http.Request) {
	view := pages.AnalyzerPageView{Title: ServiceName, Stats: h.currentStats(r)}
	RenderResponse(r.Context(), w, r, pages.AnalyzerPage(view))
}

// StatsPanel renders the counters partial requested on stats-updated.
// Plain browser requests are sent to the full page.
func (h *AnalysisHandlers) StatsPanel(w http.ResponseWriter, r *http.Request) {
	if !IsHTMXRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	RenderResponse(r.Context(), w, r, pages.StatsPanel(h.currentStats(r)))
}

func (h *AnalysisHandlers) currentStats(r *http.Request) pages.StatsView {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.WithContext(r.Context()).Error("Failed to load stats for page", "error", err)
	}
	return h.presenter.ToStatsView(stats)
}

// Sample returns the demonstration access log.
func (h *AnalysisHandlers) Sample(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"sample_logs": h.service.SampleLogs()})
	h.toasts.Success("Sample logs loaded successfully")
}

// Analyze runs the pipeline over the submitted logs.
func (h *AnalysisHandlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Logs == nil {
		writeError(w, http.StatusBadRequest, `Field "logs" is required`)
		h.toasts.Warning("Please enter some logs to analyze")
		return
	}

	run, err := h.service.Analyze(r.Context(), *req.Logs)
	switch {
	case errors.Is(err, application.ErrEmptyLogs):
		writeError(w, http.StatusBadRequest, "Logs cannot be empty")
		h.toasts.Warning("Please enter some logs to analyze")
		return
	case errors.Is(err, application.ErrAnalysisInProgress):
		writeError(w, http.StatusConflict, "Analysis already in progress")
		h.toasts.Warning("Analysis already in progress")
		return
	case err != nil:
		// The failure toast comes from the AnalysisFailed event.
		h.logger.WithContext(r.Context()).Error("Analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing logs: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Success:   true,
		Timestamp: time.Now().Format(time.RFC3339),
		Results:   h.presenter.ToResultView(run),
	})
}

// Stats returns the dashboard counters with knowledge base and model info.
func (h *AnalysisHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.WithContext(r.Context()).Error("Failed to load stats", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error(), "status": "error"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type runResponse struct {
	Status      string                         `json:"status"`
	Error       string                         `json:"error,omitempty"`
	StartedAt   time.Time                      `json:"started_at"`
	CompletedAt *time.Time                     `json:"completed_at,omitempty"`
	Results     *presenters.AnalysisResultView `json:"results"`
}

// GetRun returns a stored run, including failed ones and their partial results.
func (h *AnalysisHandlers) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	run, err := h.service.GetRun(r.Context(), runID)
	if errors.Is(err, contracts.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "Analysis run not found")
		return
	}
	if err != nil {
		h.logger.WithContext(r.Context()).Error("Failed to load analysis run", "error", err, "run_id", runID)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, runResponse{
		Status:      string(run.Status),
		Error:       run.Error,
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
		Results:     h.presenter.ToResultView(run),
	})
}

// DownloadLatestReport sends the most recent report as a text attachment.
func (h *AnalysisHandlers) DownloadLatestReport(w http.ResponseWriter, r *http.Request) {
	run, err := h.service.LatestRun(r.Context())
	if errors.Is(err, contracts.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "No report available yet")
		h.toasts.Warning("No report available to download")
		return
	}
	if err != nil {
		h.logger.WithContext(r.Context()).Error("Failed to load latest report", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, h.presenter.ReportFilename(run)))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(run.Result.AnalysisReport))

	h.toasts.Success("Report downloaded successfully")
}
