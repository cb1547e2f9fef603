package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/insight-cli/internal/analysis"
	"github.com/sells-group/insight-cli/internal/cost"
	"github.com/sells-group/insight-cli/internal/model"
	"github.com/sells-group/insight-cli/pkg/completion"
)

var (
	analyzeFile   string
	analyzeFormat string
	analyzeID     string
	analyzeNoSave bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a single document",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		doc, err := loadDocument(analyzeFile, analyzeFormat, analyzeID)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		client := completion.NewClient(cfg.Anthropic.Key,
			completion.WithModels(cfg.Anthropic.Model, cfg.Anthropic.FallbackModel),
			completion.WithMaxTokens(int64(cfg.Anthropic.MaxTokens)),
			completion.WithRequestsPerMinute(cfg.Anthropic.RequestsPerMinute),
		)

		analyzerCfg := analysis.DefaultConfig()
		analyzerCfg.SectionThreshold = cfg.Analysis.SectionThreshold
		analyzerCfg.MaxRecommendations = cfg.Analysis.MaxRecommendations
		if cfg.Analysis.TLDRRetryAttempts > 0 {
			analyzerCfg.TLDRRetry.MaxAttempts = cfg.Analysis.TLDRRetryAttempts
		}
		analyzer := analysis.New(client, analyzerCfg)

		var run *model.Run
		if !analyzeNoSave {
			run, err = st.CreateRun(ctx, doc.ID)
			if err != nil {
				return eris.Wrap(err, "create run")
			}
		}

		onProgress := func(ev analysis.ProgressEvent) {
			fmt.Fprintf(os.Stderr, "[%3d%%] %s: %s\n", ev.Percent, ev.Step, ev.Message)
		}

		result, err := analyzer.Analyze(ctx, doc, onProgress)
		if err != nil {
			if run != nil {
				if ferr := st.FailRun(ctx, run.ID, err.Error()); ferr != nil {
					zap.L().Warn("record run failure", zap.Error(ferr))
				}
			}
			return eris.Wrap(err, "analyze")
		}

		if run != nil {
			if serr := st.CompleteRun(ctx, run.ID, result); serr != nil {
				zap.L().Warn("persist run result", zap.Error(serr))
			}
		}

		logEstimatedCost(result.Metadata.TokensUsed, result.Metadata.Models)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// logEstimatedCost prices the run's token total against configured rates.
// Token totals are not split by model, so the whole total is priced against
// the first model in the run's sorted model list.
func logEstimatedCost(tokens int, models []string) {
	rates := cost.DefaultRates()
	if len(cfg.Pricing.Anthropic) > 0 {
		rates.Anthropic = make(map[string]cost.ModelRate, len(cfg.Pricing.Anthropic))
		for m, p := range cfg.Pricing.Anthropic {
			rates.Anthropic[m] = cost.ModelRate{Input: p.Input, Output: p.Output}
		}
	}
	if len(models) == 0 {
		return
	}
	calc := cost.NewCalculator(rates)
	zap.L().Info("analysis cost estimate",
		zap.Int("tokens", tokens),
		zap.Strings("models", models),
		zap.Float64("usd", calc.Blended(models[0], tokens)),
	)
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "path to document (required)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "", "input format: md, yaml, or txt (default inferred from extension)")
	analyzeCmd.Flags().StringVar(&analyzeID, "id", "", "document ID (default derived from filename)")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false, "skip persisting the run")
	_ = analyzeCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(analyzeCmd)
}
