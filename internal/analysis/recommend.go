package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/insight-cli/internal/model"
	"github.com/sells-group/insight-cli/pkg/completion"
)

const recommendationCharBudget = 1000

const structuredViewRationale = "Baseline structured reading view"

type recommendationsResponse struct {
	Recommendations []model.VisualizationRecommendation `json:"recommendations"`
}

// recommendVisualizations runs strictly after signals, entities, and
// relationships. The returned list always leads with exactly one
// structured-view entry and never exceeds the configured cap.
func (a *Analyzer) recommendVisualizations(ctx context.Context, doc *model.Document, signals model.SignalAnalysis, metrics model.AnalysisMetrics, usage *usageTracker) []model.VisualizationRecommendation {
	log := zap.L().With(zap.String("document", doc.ID))

	statsJSON, err := json.Marshal(struct {
		model.AnalysisMetrics
		Signals model.SignalAnalysis `json:"signals"`
	}{AnalysisMetrics: metrics, Signals: signals})
	if err != nil {
		log.Warn("recommendations: marshal context", zap.Error(err))
		return fallbackRecommendations()
	}

	input := fmt.Sprintf("Statistics:\n%s\n\nSample:\n%s", statsJSON, truncate(doc.Content, recommendationCharBudget))

	res, callErr := a.callStage(ctx, completion.TemplateVisualization, input, usage)
	if callErr != nil {
		log.Warn("recommendations: transport failed, using fallback pair", zap.Error(callErr))
		return fallbackRecommendations()
	}

	parsed, perr := completion.ParseJSON[recommendationsResponse](res.Content)
	if perr != nil {
		log.Warn("recommendations: unparseable completion, using fallback pair", zap.Error(perr))
		return fallbackRecommendations()
	}

	return normalizeRecommendations(parsed.Recommendations, a.cfg.MaxRecommendations)
}

// normalizeRecommendations enforces the output invariants: exactly one
// structured-view entry (inserted with score 1.0 if the parsed list lacks
// one), placed first, with at most max entries total.
func normalizeRecommendations(recs []model.VisualizationRecommendation, max int) []model.VisualizationRecommendation {
	structured := model.VisualizationRecommendation{
		Type:      model.VizStructuredView,
		Score:     1.0,
		Rationale: structuredViewRationale,
	}

	found := false
	others := make([]model.VisualizationRecommendation, 0, len(recs))
	for _, r := range recs {
		if strings.TrimSpace(r.Type) == "" {
			continue
		}
		if r.Type == model.VizStructuredView {
			// Keep the first structured-view entry the completion produced;
			// duplicates are dropped.
			if !found {
				structured = r
				found = true
			}
			continue
		}
		others = append(others, r)
	}
	if structured.Rationale == "" {
		structured.Rationale = structuredViewRationale
	}

	out := append([]model.VisualizationRecommendation{structured}, others...)
	if len(out) > max {
		out = out[:max]
	}
	return out
}

// fallbackRecommendations is the fixed pair returned when the stage cannot
// produce a parsed list.
func fallbackRecommendations() []model.VisualizationRecommendation {
	return []model.VisualizationRecommendation{
		{Type: model.VizStructuredView, Score: 1.0, Rationale: structuredViewRationale},
		{Type: model.VizMindMap, Score: 0.6, Rationale: "General-purpose overview of document themes"},
	}
}
