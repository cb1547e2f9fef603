package analysis

import (
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/sells-group/insight-cli/internal/model"
)

// reconcileRelationships cross-checks relationship endpoints against the
// known entity IDs. Endpoints that instead match an entity's display text
// are classified separately: that pattern means the completion echoed names
// where IDs were asked for. Nothing is rewritten or dropped here; correction
// is a downstream concern.
func reconcileRelationships(entities []model.Entity, relationships []model.Relationship) *model.ReconcileReport {
	report := &model.ReconcileReport{Checked: len(relationships)}
	if len(relationships) == 0 {
		return report
	}

	fold := cases.Fold()
	ids := make(map[string]struct{}, len(entities))
	texts := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		ids[e.ID] = struct{}{}
		texts[fold.String(e.Text)] = struct{}{}
	}

	classify := func(endpoint string) string {
		if _, ok := ids[endpoint]; ok {
			return ""
		}
		if _, ok := texts[fold.String(endpoint)]; ok {
			return model.MismatchTextForID
		}
		return model.MismatchUnknown
	}

	for _, rel := range relationships {
		if kind := classify(rel.Source); kind != "" {
			report.Mismatches = append(report.Mismatches, model.EndpointMismatch{
				Field: "source", Endpoint: rel.Source, RelType: rel.Type, Kind: kind,
			})
		}
		if kind := classify(rel.Target); kind != "" {
			report.Mismatches = append(report.Mismatches, model.EndpointMismatch{
				Field: "target", Endpoint: rel.Target, RelType: rel.Type, Kind: kind,
			})
		}
	}

	if len(report.Mismatches) > 0 {
		sample := report.Mismatches[0]
		msg := "relationship endpoint does not match any entity id"
		if sample.Kind == model.MismatchTextForID {
			msg = "relationship endpoint is using text instead of id"
		}
		zap.L().Warn("reconcile: "+msg,
			zap.Int("mismatches", len(report.Mismatches)),
			zap.Int("checked", report.Checked),
			zap.String("sample_field", sample.Field),
			zap.String("sample_endpoint", sample.Endpoint),
			zap.String("sample_kind", sample.Kind),
		)
	}

	return report
}
