package analysis

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/insight-cli/internal/model"
	"github.com/sells-group/insight-cli/pkg/completion"
)

const signalCharBudget = 3000

// analyzeSignals scores the document's qualitative signals, clamping every
// parsed score to [0,1]. Any failure yields the fixed default vector.
func (a *Analyzer) analyzeSignals(ctx context.Context, doc *model.Document, usage *usageTracker) model.SignalAnalysis {
	log := zap.L().With(zap.String("document", doc.ID))

	res, err := a.callStage(ctx, completion.TemplateSignalAnalysis, truncate(doc.Content, signalCharBudget), usage)
	if err != nil {
		log.Warn("signals: transport failed, using default vector", zap.Error(err))
		return model.DefaultSignals()
	}

	parsed, perr := completion.ParseJSON[model.SignalAnalysis](res.Content)
	if perr != nil {
		log.Warn("signals: unparseable completion, using default vector", zap.Error(perr))
		return model.DefaultSignals()
	}
	return parsed.Clamp()
}
