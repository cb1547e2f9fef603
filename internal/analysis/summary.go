package analysis

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/insight-cli/internal/model"
	"github.com/sells-group/insight-cli/pkg/completion"
)

const execSummaryCharBudget = 6000

// execSummaryFallbackIdeaLimit is how much raw completion text survives as
// the single key idea of the fallback summary.
const execSummaryFallbackIdeaLimit = 200

// rawKPI tolerates whatever the completion put in the value slot; filtering
// decides what survives.
type rawKPI struct {
	Label string `json:"label"`
	Value any    `json:"value"`
	Unit  string `json:"unit"`
}

type execSummaryResponse struct {
	Headline      string   `json:"headline"`
	KeyIdeas      []string `json:"key_ideas"`
	KPIs          []rawKPI `json:"kpis"`
	Risks         []string `json:"risks"`
	Opportunities []string `json:"opportunities"`
	CallToAction  string   `json:"call_to_action"`
}

// executiveSummary always returns a value: transport and parse failures
// degrade to the deterministic fallback summary.
func (a *Analyzer) executiveSummary(ctx context.Context, doc *model.Document, usage *usageTracker) model.ExecutiveSummary {
	log := zap.L().With(zap.String("document", doc.ID))

	res, err := a.callStage(ctx, completion.TemplateExecutiveSummary, truncate(doc.Content, execSummaryCharBudget), usage)
	if err != nil {
		log.Warn("executive summary: transport failed, using fallback", zap.Error(err))
		return execSummaryFallback("")
	}

	parsed, perr := completion.ParseJSON[execSummaryResponse](res.Content)
	if perr != nil {
		log.Warn("executive summary: unparseable completion, using fallback", zap.Error(perr))
		return execSummaryFallback(res.Content)
	}

	summary := model.ExecutiveSummary{
		Headline:      strings.TrimSpace(parsed.Headline),
		KeyIdeas:      compactStrings(parsed.KeyIdeas),
		KPIs:          filterKPIs(parsed.KPIs),
		Risks:         compactStrings(parsed.Risks),
		Opportunities: compactStrings(parsed.Opportunities),
		CallToAction:  strings.TrimSpace(parsed.CallToAction),
	}
	if summary.Headline == "" {
		summary.Headline = "Document Summary"
	}
	return summary
}

// filterKPIs keeps only records with a finite numeric value and non-empty
// label and unit. Malformed KPIs are dropped silently.
func filterKPIs(raw []rawKPI) []model.KPI {
	kpis := make([]model.KPI, 0, len(raw))
	for _, k := range raw {
		value, ok := toFloat64(k.Value)
		if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		label := strings.TrimSpace(k.Label)
		unit := strings.TrimSpace(k.Unit)
		if label == "" || unit == "" {
			continue
		}
		kpis = append(kpis, model.KPI{Label: label, Value: value, Unit: unit})
	}
	return kpis
}

func execSummaryFallback(raw string) model.ExecutiveSummary {
	keyIdeas := []string{}
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		keyIdeas = append(keyIdeas, truncate(trimmed, execSummaryFallbackIdeaLimit))
	}
	return model.ExecutiveSummary{
		Headline:      "Document Summary",
		KeyIdeas:      keyIdeas,
		KPIs:          []model.KPI{},
		Risks:         []string{},
		Opportunities: []string{},
		CallToAction:  "Review the document for details",
	}
}

// toFloat64 converts JSON-decoded numeric values.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// compactStrings trims entries and drops empty ones, never returning nil.
func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
