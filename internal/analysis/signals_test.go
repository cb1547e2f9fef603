package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/insight-cli/internal/model"
	"github.com/sells-group/insight-cli/pkg/completion"
)

func TestAnalyzeSignals_ClampsOutOfRangeScores(t *testing.T) {
	client := &mockCompletionClient{}
	client.On("CallWithFallback", mock.Anything, completion.TemplateSignalAnalysis, mock.Anything).
		Return(okResult(`{"structural":1.7,"process":-0.2,"quantitative":0.5}`), nil).Once()

	a := New(client, testConfig())
	signals := a.analyzeSignals(context.Background(), testDocument(), newUsageTracker())

	assert.Equal(t, 1.0, signals.Structural)
	assert.Equal(t, 0.0, signals.Process)
	assert.Equal(t, 0.5, signals.Quantitative)
}

func TestAnalyzeSignals_TransportFailureUsesDefaults(t *testing.T) {
	client := &mockCompletionClient{}
	client.On("CallWithFallback", mock.Anything, completion.TemplateSignalAnalysis, mock.Anything).
		Return(nil, errors.New("unavailable")).Once()

	a := New(client, testConfig())
	signals := a.analyzeSignals(context.Background(), testDocument(), newUsageTracker())

	assert.Equal(t, model.DefaultSignals(), signals)
}

func TestAnalyzeSignals_ParseFailureUsesDefaults(t *testing.T) {
	client := &mockCompletionClient{}
	client.On("CallWithFallback", mock.Anything, completion.TemplateSignalAnalysis, mock.Anything).
		Return(okResult("not json"), nil).Once()

	a := New(client, testConfig())
	signals := a.analyzeSignals(context.Background(), testDocument(), newUsageTracker())

	assert.Equal(t, model.DefaultSignals(), signals)
}
