package analysis

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/insight-cli/internal/model"
	"github.com/sells-group/insight-cli/internal/resilience"
	"github.com/sells-group/insight-cli/pkg/completion"
)

const tldrCharBudget = 4000

// tldrFallbackLimit bounds the raw-content fallback when the completion
// does not parse.
const tldrFallbackLimit = 400

type tldrResponse struct {
	TLDR string `json:"tldr"`
}

// generateTLDR is the only stage with a retry budget and the only stage
// whose transport failure aborts the run. Parse failures are still absorbed
// locally: the raw completion text stands in for the summary.
func (a *Analyzer) generateTLDR(ctx context.Context, doc *model.Document, usage *usageTracker) (string, error) {
	retry := a.cfg.TLDRRetry
	if retry.ShouldRetry == nil {
		// Any transport failure on this stage is worth the retry budget;
		// transient-or-not classification only matters for stages that can
		// fall back instead.
		retry.ShouldRetry = func(error) bool { return true }
	}
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger("tldr")
	}

	res, err := resilience.Do(ctx, retry, func(ctx context.Context) (*completion.Result, error) {
		return a.client.CallWithFallback(ctx, completion.TemplateTLDR, truncate(doc.Content, tldrCharBudget))
	})
	if err != nil {
		return "", eris.Wrap(err, "tldr: transport failed after retries")
	}
	usage.Record(res.TokensUsed, res.Model)

	parsed, perr := completion.ParseJSON[tldrResponse](res.Content)
	if perr != nil || strings.TrimSpace(parsed.TLDR) == "" {
		zap.L().Warn("tldr: unparseable completion, using raw content",
			zap.String("document", doc.ID),
			zap.Error(perr),
		)
		return truncate(strings.TrimSpace(res.Content), tldrFallbackLimit), nil
	}
	return strings.TrimSpace(parsed.TLDR), nil
}
