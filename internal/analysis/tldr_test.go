package analysis

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/insight-cli/pkg/completion"
)

func TestGenerateTLDR_ParseFailureUsesRawContent(t *testing.T) {
	client := &mockCompletionClient{}
	client.On("CallWithFallback", mock.Anything, completion.TemplateTLDR, mock.Anything).
		Return(okResult("A plain-prose summary with no JSON wrapper."), nil).Once()

	a := New(client, testConfig())
	tldr, err := a.generateTLDR(context.Background(), testDocument(), newUsageTracker())

	require.NoError(t, err)
	assert.Equal(t, "A plain-prose summary with no JSON wrapper.", tldr)
}

func TestGenerateTLDR_EmptyParsedFieldUsesRawContent(t *testing.T) {
	client := &mockCompletionClient{}
	client.On("CallWithFallback", mock.Anything, completion.TemplateTLDR, mock.Anything).
		Return(okResult(`{"tldr":"   "}`), nil).Once()

	a := New(client, testConfig())
	tldr, err := a.generateTLDR(context.Background(), testDocument(), newUsageTracker())

	require.NoError(t, err)
	assert.Equal(t, `{"tldr":"   "}`, tldr)
}

func TestGenerateTLDR_RawFallbackIsBounded(t *testing.T) {
	raw := strings.Repeat("long prose ", 100)

	client := &mockCompletionClient{}
	client.On("CallWithFallback", mock.Anything, completion.TemplateTLDR, mock.Anything).
		Return(okResult(raw), nil).Once()

	a := New(client, testConfig())
	tldr, err := a.generateTLDR(context.Background(), testDocument(), newUsageTracker())

	require.NoError(t, err)
	assert.LessOrEqual(t, len(tldr), tldrFallbackLimit)
}

func TestGenerateTLDR_RecordsUsage(t *testing.T) {
	client := &mockCompletionClient{}
	client.On("CallWithFallback", mock.Anything, completion.TemplateTLDR, mock.Anything).
		Return(okResult(`{"tldr":"Done."}`), nil).Once()

	usage := newUsageTracker()
	a := New(client, testConfig())
	_, err := a.generateTLDR(context.Background(), testDocument(), usage)

	require.NoError(t, err)
	tokens, models := usage.Totals()
	assert.Equal(t, 10, tokens)
	assert.Equal(t, []string{"claude-sonnet-4-5-20250929"}, models)
}

func TestGenerateTLDR_InputIsBudgeted(t *testing.T) {
	doc := testDocument()
	doc.Content = strings.Repeat("z", tldrCharBudget+1000)

	client := &mockCompletionClient{}
	client.On("CallWithFallback", mock.Anything, completion.TemplateTLDR,
		mock.MatchedBy(func(input string) bool { return len(input) == tldrCharBudget })).
		Return(okResult(`{"tldr":"ok"}`), nil).Once()

	a := New(client, testConfig())
	_, err := a.generateTLDR(context.Background(), doc, newUsageTracker())

	require.NoError(t, err)
	client.AssertExpectations(t)
}
