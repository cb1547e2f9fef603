// Package analysis turns raw document text into a structured
// DocumentAnalysis by sequencing staged completion calls. Every stage except
// TLDR absorbs its own failures, so a run that starts always produces a
// structurally valid result unless the TLDR transport fails past its retry
// budget.
package analysis

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/insight-cli/internal/model"
	"github.com/sells-group/insight-cli/internal/resilience"
	"github.com/sells-group/insight-cli/pkg/completion"
)

// Config tunes per-run behavior. Zero values fall back to defaults.
type Config struct {
	// TLDRRetry is the retry policy for the TLDR stage, the only stage whose
	// transport failure aborts the run.
	TLDRRetry resilience.RetryConfig

	// SectionThreshold is the content length (chars) below which a section's
	// summary is its content verbatim, with no completion call.
	SectionThreshold int

	// MaxRecommendations caps the visualization recommendation list.
	MaxRecommendations int
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		TLDRRetry:          resilience.DefaultRetryConfig(),
		SectionThreshold:   80,
		MaxRecommendations: 5,
	}
}

func (c Config) withDefaults() Config {
	if c.SectionThreshold <= 0 {
		c.SectionThreshold = 80
	}
	if c.MaxRecommendations <= 0 {
		c.MaxRecommendations = 5
	}
	return c
}

// Analyzer drives the analysis pipeline. It holds no per-run state and is
// safe for concurrent Analyze calls.
type Analyzer struct {
	client completion.Client
	cfg    Config
}

// New creates an Analyzer using the given completion client.
func New(client completion.Client, cfg Config) *Analyzer {
	return &Analyzer{client: client, cfg: cfg.withDefaults()}
}

// Analyze runs the full pipeline over doc. onProgress may be nil; when set
// it is invoked synchronously at each step transition with monotonically
// non-decreasing percentages ending at 100. The section walker writes
// Summary/Keywords on doc's sections in place.
//
// The only error path is TLDR transport failure after retries; every other
// stage degrades to a deterministic fallback.
func (a *Analyzer) Analyze(ctx context.Context, doc *model.Document, onProgress ProgressFunc) (*model.DocumentAnalysis, error) {
	start := time.Now()
	log := zap.L().With(zap.String("document", doc.ID))
	log.Info("analysis: starting", zap.Int("words", doc.CountWords()), zap.Int("sections", doc.CountSections()))

	usage := newUsageTracker()
	emit := func(step string, percent int, message string, partial *model.DocumentAnalysis) {
		if onProgress != nil {
			onProgress(ProgressEvent{Step: step, Percent: percent, Message: message, Partial: partial})
		}
	}

	emit(StepInit, 5, "starting analysis", nil)
	emit(StepPriority, 10, "generating summaries", nil)

	// Wave 1: TLDR + executive summary. TLDR failure is fatal; the summary
	// stage always returns a value.
	var tldr string
	var execSummary model.ExecutiveSummary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := a.generateTLDR(gctx, doc, usage)
		if err != nil {
			return err
		}
		tldr = t
		return nil
	})
	g.Go(func() error {
		execSummary = a.executiveSummary(gctx, doc, usage)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "analysis: priority stage")
	}

	emit(StepEarlyResults, 30, "summaries ready", &model.DocumentAnalysis{
		DocumentID:       doc.ID,
		TLDR:             tldr,
		ExecutiveSummary: execSummary,
	})

	// Wave 2: entities + signals, jointly awaited.
	emit(StepDetailed, 35, "extracting entities and signals", nil)

	var entities []model.Entity
	var signals model.SignalAnalysis

	g2, g2ctx := errgroup.WithContext(ctx)
	g2.Go(func() error {
		entities = a.extractEntities(g2ctx, doc, usage)
		return nil
	})
	g2.Go(func() error {
		signals = a.analyzeSignals(g2ctx, doc, usage)
		return nil
	})
	_ = g2.Wait()

	// Relationships depend on extracted entities; zero entities means the
	// stage is skipped entirely.
	emit(StepRelationships, 50, "detecting relationships", nil)
	relationships := a.detectRelationships(ctx, doc, entities, usage)
	reconciliation := reconcileRelationships(entities, relationships)

	emit(StepSections, 65, "summarizing sections", nil)
	a.summarizeSections(ctx, doc, usage)

	emit(StepRecommendations, 85, "building recommendations", nil)
	metrics := model.AnalysisMetrics{
		WordCount:         doc.CountWords(),
		SectionCount:      doc.CountSections(),
		EntityCount:       len(entities),
		RelationshipCount: len(relationships),
	}
	recommendations := a.recommendVisualizations(ctx, doc, signals, metrics, usage)

	tokens, models := usage.Totals()
	result := &model.DocumentAnalysis{
		DocumentID:       doc.ID,
		TLDR:             tldr,
		ExecutiveSummary: execSummary,
		Entities:         entities,
		Relationships:    relationships,
		Signals:          signals,
		Metrics:          metrics,
		Recommendations:  recommendations,
		Reconciliation:   reconciliation,
		Metadata: model.AnalysisMetadata{
			TokensUsed:  tokens,
			Models:      models,
			DurationMS:  time.Since(start).Milliseconds(),
			CompletedAt: time.Now().UTC(),
		},
	}

	emit(StepComplete, 100, "analysis complete", result)

	log.Info("analysis: complete",
		zap.Int("entities", len(entities)),
		zap.Int("relationships", len(relationships)),
		zap.Int("tokens", tokens),
		zap.Strings("models", models),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}

// callStage issues one completion call for a non-TLDR stage and records its
// usage. Transport errors surface to the caller for local fallback handling.
func (a *Analyzer) callStage(ctx context.Context, key completion.TemplateKey, input string, usage *usageTracker) (*completion.Result, error) {
	res, err := a.client.CallWithFallback(ctx, key, input)
	if err != nil {
		return nil, err
	}
	usage.Record(res.TokensUsed, res.Model)
	return res, nil
}

// truncate cuts s to at most limit bytes. Stage inputs are budgeted in
// characters to bound prompt cost.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
