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

const (
	entityCharBudget       = 5000
	relationshipCharBudget = 4000
)

type entitiesResponse struct {
	Entities []model.Entity `json:"entities"`
}

type relationshipsResponse struct {
	Relationships []model.Relationship `json:"relationships"`
}

// extractEntities returns the parsed entity list, or an empty list on any
// transport or parse failure. Entities without display text are dropped;
// missing IDs are synthesized so relationships have something to point at.
func (a *Analyzer) extractEntities(ctx context.Context, doc *model.Document, usage *usageTracker) []model.Entity {
	log := zap.L().With(zap.String("document", doc.ID))

	res, err := a.callStage(ctx, completion.TemplateEntityExtraction, truncate(doc.Content, entityCharBudget), usage)
	if err != nil {
		log.Warn("entities: transport failed, continuing without entities", zap.Error(err))
		return []model.Entity{}
	}

	parsed, perr := completion.ParseJSON[entitiesResponse](res.Content)
	if perr != nil {
		log.Warn("entities: unparseable completion, continuing without entities", zap.Error(perr))
		return []model.Entity{}
	}

	entities := make([]model.Entity, 0, len(parsed.Entities))
	for i, e := range parsed.Entities {
		e.Text = strings.TrimSpace(e.Text)
		if e.Text == "" {
			continue
		}
		if strings.TrimSpace(e.ID) == "" {
			e.ID = fmt.Sprintf("e%d", i+1)
		}
		entities = append(entities, e)
	}
	return entities
}

// detectRelationships runs strictly after entity extraction. Zero entities
// means zero relationships with no completion call at all; any failure
// degrades to the empty list.
func (a *Analyzer) detectRelationships(ctx context.Context, doc *model.Document, entities []model.Entity, usage *usageTracker) []model.Relationship {
	if len(entities) == 0 {
		return []model.Relationship{}
	}

	log := zap.L().With(zap.String("document", doc.ID))

	entityList, err := json.Marshal(entities)
	if err != nil {
		log.Warn("relationships: marshal entity list", zap.Error(err))
		return []model.Relationship{}
	}

	input := fmt.Sprintf("Entities:\n%s\n\nDocument excerpt:\n%s",
		entityList, truncate(doc.Content, relationshipCharBudget))

	res, callErr := a.callStage(ctx, completion.TemplateRelationships, input, usage)
	if callErr != nil {
		log.Warn("relationships: transport failed, continuing without relationships", zap.Error(callErr))
		return []model.Relationship{}
	}

	parsed, perr := completion.ParseJSON[relationshipsResponse](res.Content)
	if perr != nil {
		log.Warn("relationships: unparseable completion, continuing without relationships", zap.Error(perr))
		return []model.Relationship{}
	}

	relationships := make([]model.Relationship, 0, len(parsed.Relationships))
	for _, r := range parsed.Relationships {
		r.Source = strings.TrimSpace(r.Source)
		r.Target = strings.TrimSpace(r.Target)
		if r.Source == "" || r.Target == "" {
			continue
		}
		relationships = append(relationships, r)
	}
	return relationships
}
