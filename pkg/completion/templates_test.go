package completion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_AppendsInput(t *testing.T) {
	tmpl := promptTemplate{Body: "Summarize this:"}
	out := tmpl.Render("the document text")

	assert.True(t, strings.HasPrefix(out, "Summarize this:"))
	assert.True(t, strings.HasSuffix(out, "the document text"))
}

func TestLookupTemplate_AllStagesRegistered(t *testing.T) {
	keys := []TemplateKey{
		TemplateTLDR,
		TemplateExecutiveSummary,
		TemplateEntityExtraction,
		TemplateSignalAnalysis,
		TemplateRelationships,
		TemplateSectionSummary,
		TemplateVisualization,
	}
	for _, key := range keys {
		tmpl, err := lookupTemplate(key)
		require.NoError(t, err, "template %s", key)
		assert.NotEmpty(t, tmpl.Body, "template %s", key)
		assert.NotEmpty(t, tmpl.System, "template %s", key)
	}
}

func TestLookupTemplate_Unknown(t *testing.T) {
	_, err := lookupTemplate("no-such-template")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown template")
}
