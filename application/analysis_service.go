package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"sentinel/domain/analysis"
	"sentinel/domain/contracts"
	"sentinel/domain/events"
	"sentinel/infrastructure/knowledge"
	"sentinel/infrastructure/llm"
	"sentinel/logging"
	"sentinel/platform/clock"
)

var (
	// ErrEmptyLogs is returned when the submitted logs are blank.
	ErrEmptyLogs = errors.New("no logs provided")

	// ErrAnalysisInProgress is returned while another analysis is running.
	ErrAnalysisInProgress = errors.New("an analysis is already in progress")
)

// Retriever finds knowledge base documents relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]knowledge.Document, error)
	Dir() string
	Len() int
	TopK() int
}

// Completer sends a prompt to the language model.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Model() string
}

// Stats is the dashboard summary.
type Stats struct {
	LogsAnalyzed       int64  `json:"logs_analyzed"`
	ThreatsDetected    int64  `json:"threats_detected"`
	FailedRuns         int64  `json:"failed_runs"`
	KnowledgeBasePath  string `json:"knowledge_base_path"`
	KnowledgeDocuments int    `json:"knowledge_documents"`
	Model              string `json:"model"`
	Status             string `json:"status"`
}

// AnalysisService defines the operations used by the web handlers.
type AnalysisService interface {
	Analyze(ctx context.Context, rawLogs string) (*analysis.Run, error)
	Stats(ctx context.Context) (*Stats, error)
	SampleLogs() string
	LatestRun(ctx context.Context) (*analysis.Run, error)
	GetRun(ctx context.Context, id string) (*analysis.Run, error)
}

// AnalysisServiceImpl runs the triage, retrieval and report pipeline. One
// analysis runs at a time; concurrent requests are rejected, not queued.
type AnalysisServiceImpl struct {
	repo      contracts.AnalysisRepository
	retriever Retriever
	completer Completer
	publisher events.AnalysisEventPublisher
	clock     clock.Clock
	busy      atomic.Bool
	logger    *logging.Logger
}

// NewAnalysisService creates the analysis service.
func NewAnalysisService(
	repo contracts.AnalysisRepository,
	retriever Retriever,
	completer Completer,
	publisher events.AnalysisEventPublisher,
	clk clock.Clock,
) *AnalysisServiceImpl {
	return &AnalysisServiceImpl{
		repo:      repo,
		retriever: retriever,
		completer: completer,
		publisher: publisher,
		clock:     clk,
		logger:    logging.Default().WithComponent("analysis_service"),
	}
}

// Analyze runs the full pipeline over rawLogs and persists the outcome.
// The returned run is completed on success. On failure the run (if one was
// created) is marked failed and an AnalysisFailed event is published.
func (s *AnalysisServiceImpl) Analyze(ctx context.Context, rawLogs string) (*analysis.Run, error) {
	if strings.TrimSpace(rawLogs) == "" {
		return nil, ErrEmptyLogs
	}
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrAnalysisInProgress
	}
	defer s.busy.Store(false)

	run := analysis.NewRun(uuid.NewString(), len(rawLogs), s.clock.Now())
	if err := s.repo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record analysis run: %w", err)
	}
	s.logger.Analysis("Analysis started", run.ID, slog.Int("raw_chars", run.RawChars))

	triage := analysis.Preprocess(rawLogs)
	run.Result.CleanedLogs = triage.CleanedLogs
	run.Result.SuspiciousCount = triage.SuspiciousCount()
	s.logger.Analysis("Logs preprocessed", run.ID, slog.Int("suspicious_lines", run.Result.SuspiciousCount))
	if run.Result.SuspiciousCount > 0 {
		s.logger.Security("Suspicious log lines detected", "run_id", run.ID, "count", run.Result.SuspiciousCount)
	}

	docs, err := s.retriever.Retrieve(ctx, analysis.RetrievalQuery(triage.CleanedLogs), s.retriever.TopK())
	if err != nil {
		return nil, s.fail(ctx, run, fmt.Errorf("knowledge retrieval failed: %w", err))
	}
	run.Result.RetrievedContext = knowledge.FormatContext(docs)

	requested := s.clock.Now()
	report, err := s.completer.Complete(ctx, llm.AnalystSystemPrompt,
		llm.AnalystUserMessage(run.Result.CleanedLogs, run.Result.RetrievedContext))
	s.logger.Performance("report_generation", s.clock.Now().Sub(requested), slog.String("run_id", run.ID))
	if err != nil {
		return nil, s.fail(ctx, run, fmt.Errorf("report generation failed: %w", err))
	}

	result := run.Result
	result.AnalysisReport = report
	if err := run.Complete(result, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Complete(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to save analysis run %s: %w", run.ID, err)
	}

	s.logger.Analysis("Analysis completed", run.ID,
		slog.Int("suspicious_lines", run.Result.SuspiciousCount),
		slog.Int("documents", len(docs)),
		slog.Int64("duration_ms", run.Duration().Milliseconds()))
	s.publisher.PublishAnalysisCompleted(events.AnalysisCompletedEvent{Run: run, Timestamp: *run.CompletedAt})

	return run, nil
}

func (s *AnalysisServiceImpl) fail(ctx context.Context, run *analysis.Run, cause error) error {
	s.logger.AnalysisError("Analysis failed", cause, run.ID)

	if err := run.Fail(cause.Error(), s.clock.Now()); err != nil {
		return cause
	}
	// The store is a context-independent record; a cancelled request
	// still gets its run marked failed.
	if err := s.repo.Fail(context.WithoutCancel(ctx), run); err != nil {
		s.logger.AnalysisError("Failed to save failed run", err, run.ID)
	}
	s.publisher.PublishAnalysisFailed(events.AnalysisFailedEvent{
		Run:       run,
		Error:     "Analysis failed: " + cause.Error(),
		Timestamp: *run.CompletedAt,
	})
	return cause
}

// Stats returns the counters along with knowledge base and model details.
func (s *AnalysisServiceImpl) Stats(ctx context.Context) (*Stats, error) {
	counters, err := s.repo.Counters(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		LogsAnalyzed:       counters.Analyzed,
		ThreatsDetected:    counters.Threats,
		FailedRuns:         counters.Failed,
		KnowledgeBasePath:  s.retriever.Dir(),
		KnowledgeDocuments: s.retriever.Len(),
		Model:              s.completer.Model(),
		Status:             "operational",
	}, nil
}

// SampleLogs returns a demonstration access log.
func (s *AnalysisServiceImpl) SampleLogs() string {
	return analysis.SampleLogs
}

// LatestRun returns the most recent completed run.
func (s *AnalysisServiceImpl) LatestRun(ctx context.Context) (*analysis.Run, error) {
	return s.repo.Latest(ctx)
}

// GetRun returns a run by ID.
func (s *AnalysisServiceImpl) GetRun(ctx context.Context, id string) (*analysis.Run, error) {
	return s.repo.Get(ctx, id)
}
