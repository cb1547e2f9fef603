package analysis

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/insight-cli/pkg/completion"
)

// --- Completion Client Mock ---

type mockCompletionClient struct {
	mock.Mock
}

func (m *mockCompletionClient) CallWithFallback(ctx context.Context, key completion.TemplateKey, input string) (*completion.Result, error) {
	args := m.Called(ctx, key, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*completion.Result), args.Error(1)
}

// okResult wraps content in a completed call with fixed usage attribution.
func okResult(content string) *completion.Result {
	return &completion.Result{
		Content:    content,
		TokensUsed: 10,
		Model:      "claude-sonnet-4-5-20250929",
	}
}
