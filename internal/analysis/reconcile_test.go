package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/insight-cli/internal/model"
)

func TestReconcileRelationships_AllValid(t *testing.T) {
	entities := []model.Entity{
		{ID: "e1", Text: "Acme Corp", Type: "organization"},
		{ID: "e2", Text: "Jane Smith", Type: "person"},
	}
	rels := []model.Relationship{
		{Source: "e1", Target: "e2", Type: "employs"},
	}

	report := reconcileRelationships(entities, rels)

	assert.Equal(t, 1, report.Checked)
	assert.Empty(t, report.Mismatches)
}

func TestReconcileRelationships_TextInsteadOfID(t *testing.T) {
	entities := []model.Entity{
		{ID: "e1", Text: "Acme Corp", Type: "organization"},
		{ID: "e2", Text: "Jane Smith", Type: "person"},
	}
	rels := []model.Relationship{
		{Source: "acme corp", Target: "e2", Type: "employs"},
	}

	report := reconcileRelationships(entities, rels)

	require.Len(t, report.Mismatches, 1)
	m := report.Mismatches[0]
	assert.Equal(t, "source", m.Field)
	assert.Equal(t, "acme corp", m.Endpoint)
	assert.Equal(t, model.MismatchTextForID, m.Kind)
}

func TestReconcileRelationships_UnknownEndpoint(t *testing.T) {
	entities := []model.Entity{{ID: "e1", Text: "Acme Corp", Type: "organization"}}
	rels := []model.Relationship{
		{Source: "e1", Target: "e99", Type: "acquired"},
	}

	report := reconcileRelationships(entities, rels)

	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, "target", report.Mismatches[0].Field)
	assert.Equal(t, model.MismatchUnknown, report.Mismatches[0].Kind)
}

func TestReconcileRelationships_BothEndpointsChecked(t *testing.T) {
	entities := []model.Entity{{ID: "e1", Text: "Acme Corp", Type: "organization"}}
	rels := []model.Relationship{
		{Source: "Acme Corp", Target: "nobody", Type: "mentions"},
	}

	report := reconcileRelationships(entities, rels)

	require.Len(t, report.Mismatches, 2)
	assert.Equal(t, model.MismatchTextForID, report.Mismatches[0].Kind)
	assert.Equal(t, model.MismatchUnknown, report.Mismatches[1].Kind)
}

func TestReconcileRelationships_NeverRewrites(t *testing.T) {
	entities := []model.Entity{{ID: "e1", Text: "Acme Corp", Type: "organization"}}
	rels := []model.Relationship{
		{Source: "Acme Corp", Target: "e1", Type: "self"},
	}

	_ = reconcileRelationships(entities, rels)

	assert.Equal(t, "Acme Corp", rels[0].Source)
	assert.Equal(t, "e1", rels[0].Target)
}

func TestReconcileRelationships_Empty(t *testing.T) {
	report := reconcileRelationships(nil, nil)
	assert.Equal(t, 0, report.Checked)
	assert.Empty(t, report.Mismatches)
}
