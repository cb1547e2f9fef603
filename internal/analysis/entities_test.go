package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/insight-cli/internal/model"
	"github.com/sells-group/insight-cli/pkg/completion"
)

func TestExtractEntities_SynthesizesMissingIDs(t *testing.T) {
	client := &mockCompletionClient{}
	client.On("CallWithFallback", mock.Anything, completion.TemplateEntityExtraction, mock.Anything).
		Return(okResult(`{"entities":[
			{"text":"Acme Corp","type":"organization"},
			{"id":"custom","text":"Jane Smith","type":"person"},
			{"id":"e3","text":"   ","type":"noise"}
		]}`), nil).Once()

	a := New(client, testConfig())
	entities := a.extractEntities(context.Background(), testDocument(), newUsageTracker())

	require.Len(t, entities, 2)
	assert.Equal(t, "e1", entities[0].ID)
	assert.Equal(t, "Acme Corp", entities[0].Text)
	assert.Equal(t, "custom", entities[1].ID)
}

func TestExtractEntities_TransportFailureReturnsEmpty(t *testing.T) {
	client := &mockCompletionClient{}
	client.On("CallWithFallback", mock.Anything, completion.TemplateEntityExtraction, mock.Anything).
		Return(nil, errors.New("unavailable")).Once()

	a := New(client, testConfig())
	entities := a.extractEntities(context.Background(), testDocument(), newUsageTracker())

	assert.NotNil(t, entities)
	assert.Empty(t, entities)
}

func TestDetectRelationships_ZeroEntitiesNoCall(t *testing.T) {
	client := &mockCompletionClient{}

	a := New(client, testConfig())
	rels := a.detectRelationships(context.Background(), testDocument(), nil, newUsageTracker())

	assert.NotNil(t, rels)
	assert.Empty(t, rels)
	client.AssertNotCalled(t, "CallWithFallback", mock.Anything, mock.Anything, mock.Anything)
}

func TestDetectRelationships_DropsEmptyEndpoints(t *testing.T) {
	client := &mockCompletionClient{}
	client.On("CallWithFallback", mock.Anything, completion.TemplateRelationships, mock.Anything).
		Return(okResult(`{"relationships":[
			{"source":"e1","target":"e2","type":"employs"},
			{"source":"","target":"e2","type":"broken"},
			{"source":"e1","target":"  ","type":"broken"}
		]}`), nil).Once()

	entities := []model.Entity{{ID: "e1", Text: "Acme"}, {ID: "e2", Text: "Jane"}}
	a := New(client, testConfig())
	rels := a.detectRelationships(context.Background(), testDocument(), entities, newUsageTracker())

	require.Len(t, rels, 1)
	assert.Equal(t, "employs", rels[0].Type)
}

func TestDetectRelationships_ParseFailureReturnsEmpty(t *testing.T) {
	client := &mockCompletionClient{}
	client.On("CallWithFallback", mock.Anything, completion.TemplateRelationships, mock.Anything).
		Return(okResult("no json here"), nil).Once()

	entities := []model.Entity{{ID: "e1", Text: "Acme"}}
	a := New(client, testConfig())
	rels := a.detectRelationships(context.Background(), testDocument(), entities, newUsageTracker())

	assert.Empty(t, rels)
}
