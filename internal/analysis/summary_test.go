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

func TestExecutiveSummary_TransportFallback(t *testing.T) {
	client := &mockCompletionClient{}
	client.On("CallWithFallback", mock.Anything, completion.TemplateExecutiveSummary, mock.Anything).
		Return(nil, errors.New("unavailable")).Once()

	a := New(client, testConfig())
	summary := a.executiveSummary(context.Background(), testDocument(), newUsageTracker())

	assert.Equal(t, "Document Summary", summary.Headline)
	assert.Empty(t, summary.KeyIdeas)
	assert.NotNil(t, summary.KeyIdeas)
	assert.Empty(t, summary.KPIs)
	assert.Equal(t, "Review the document for details", summary.CallToAction)
}

func TestExecutiveSummary_ParseFallbackKeepsRawExcerpt(t *testing.T) {
	client := &mockCompletionClient{}
	client.On("CallWithFallback", mock.Anything, completion.TemplateExecutiveSummary, mock.Anything).
		Return(okResult("The document covers revenue growth but this is not JSON."), nil).Once()

	a := New(client, testConfig())
	summary := a.executiveSummary(context.Background(), testDocument(), newUsageTracker())

	assert.Equal(t, "Document Summary", summary.Headline)
	require.Len(t, summary.KeyIdeas, 1)
	assert.Contains(t, summary.KeyIdeas[0], "revenue growth")
}

func TestExecutiveSummary_DefaultsEmptyHeadline(t *testing.T) {
	client := &mockCompletionClient{}
	client.On("CallWithFallback", mock.Anything, completion.TemplateExecutiveSummary, mock.Anything).
		Return(okResult(`{"headline":"  ","key_ideas":["One"],"call_to_action":"Act"}`), nil).Once()

	a := New(client, testConfig())
	summary := a.executiveSummary(context.Background(), testDocument(), newUsageTracker())

	assert.Equal(t, "Document Summary", summary.Headline)
	assert.Equal(t, []string{"One"}, summary.KeyIdeas)
	assert.Equal(t, "Act", summary.CallToAction)
}

func TestFilterKPIs(t *testing.T) {
	raw := []rawKPI{
		{Label: "Revenue", Value: 12.5, Unit: "%"},
		{Label: "Headcount", Value: float64(240), Unit: "people"},
		{Label: "Bad value", Value: "twelve", Unit: "%"},
		{Label: "", Value: 1.0, Unit: "%"},
		{Label: "No unit", Value: 1.0, Unit: " "},
		{Label: "Null", Value: nil, Unit: "%"},
	}

	kpis := filterKPIs(raw)

	require.Len(t, kpis, 2)
	assert.Equal(t, model.KPI{Label: "Revenue", Value: 12.5, Unit: "%"}, kpis[0])
	assert.Equal(t, model.KPI{Label: "Headcount", Value: 240, Unit: "people"}, kpis[1])
}

func TestCompactStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, compactStrings([]string{" a ", "", "  ", "b"}))
	assert.Empty(t, compactStrings(nil))
	assert.NotNil(t, compactStrings(nil))
}
