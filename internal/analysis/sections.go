package analysis

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/insight-cli/internal/model"
	"github.com/sells-group/insight-cli/pkg/completion"
)

const (
	sectionCharBudget = 2000

	// sectionFanout limits concurrent sibling summarization at each tree level.
	sectionFanout = 4

	// sectionFallbackLimit bounds the truncated-content summary used when a
	// section's completion does not parse.
	sectionFallbackLimit = 200
)

type sectionSummaryResponse struct {
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
}

// summarizeSections walks the document's section tree, writing Summary and
// Keywords in place. The tree shape is never changed. Siblings at each level
// run concurrently and are joined before the stage completes; each goroutine
// only ever touches its own disjoint subtree.
func (a *Analyzer) summarizeSections(ctx context.Context, doc *model.Document, usage *usageTracker) {
	a.walkSections(ctx, doc.Sections, usage)
}

func (a *Analyzer) walkSections(ctx context.Context, nodes []*model.Section, usage *usageTracker) {
	if len(nodes) == 0 {
		return
	}

	// One group per level: nested levels get their own group, so the fanout
	// limit never deadlocks on recursive Go calls.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sectionFanout)
	for _, section := range nodes {
		g.Go(func() error {
			a.summarizeSection(gctx, section, usage)
			a.walkSections(gctx, section.Children, usage)
			return nil
		})
	}
	_ = g.Wait()
}

// summarizeSection fills one node. Content below the threshold is its own
// summary; no completion call is made for it.
func (a *Analyzer) summarizeSection(ctx context.Context, section *model.Section, usage *usageTracker) {
	if len(section.Content) <= a.cfg.SectionThreshold {
		section.Summary = section.Content
		return
	}

	res, err := a.callStage(ctx, completion.TemplateSectionSummary, truncate(section.Content, sectionCharBudget), usage)
	if err != nil {
		zap.L().Warn("sections: transport failed, using truncated content",
			zap.String("section", section.ID),
			zap.Error(err),
		)
		section.Summary = truncate(section.Content, sectionFallbackLimit)
		section.Keywords = []string{}
		return
	}

	parsed, perr := completion.ParseJSON[sectionSummaryResponse](res.Content)
	if perr != nil || parsed.Summary == "" {
		zap.L().Warn("sections: unparseable completion, using truncated content",
			zap.String("section", section.ID),
			zap.Error(perr),
		)
		section.Summary = truncate(section.Content, sectionFallbackLimit)
		section.Keywords = []string{}
		return
	}

	section.Summary = parsed.Summary
	section.Keywords = compactStrings(parsed.Keywords)
}
