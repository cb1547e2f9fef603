// Package completion wraps the Anthropic SDK behind the narrow surface the
// analysis pipeline needs: one templated call returning text plus usage.
package completion

import (
	"context"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Result is one completed call: free-form content expected to encode the
// stage's JSON shape, plus usage attribution.
type Result struct {
	Content    string
	TokensUsed int
	Model      string
}

// Client issues templated completion calls. Errors are transport failures;
// content that fails to parse is the caller's concern.
type Client interface {
	CallWithFallback(ctx context.Context, key TemplateKey, input string) (*Result, error)
}

// Option configures the SDK-backed client.
type Option func(*sdkClient)

// WithModels sets the primary and fallback model IDs.
func WithModels(primary, fallback string) Option {
	return func(c *sdkClient) {
		c.model = primary
		c.fallbackModel = fallback
	}
}

// WithMaxTokens caps completion length.
func WithMaxTokens(n int64) Option {
	return func(c *sdkClient) {
		c.maxTokens = n
	}
}

// WithRequestsPerMinute applies client-side pacing across all calls.
func WithRequestsPerMinute(rpm int) Option {
	return func(c *sdkClient) {
		if rpm > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1)
		}
	}
}

const (
	defaultModel         = "claude-sonnet-4-5-20250929"
	defaultFallbackModel = "claude-haiku-4-5-20251001"
	defaultMaxTokens     = 2048
)

// sdkClient implements Client using the official anthropic-sdk-go.
type sdkClient struct {
	client        sdk.Client
	model         string
	fallbackModel string
	maxTokens     int64
	limiter       *rate.Limiter
}

// NewClient creates a completion client backed by the Anthropic SDK.
func NewClient(apiKey string, opts ...Option) Client {
	c := &sdkClient{
		client:        sdk.NewClient(option.WithAPIKey(apiKey)),
		model:         defaultModel,
		fallbackModel: defaultFallbackModel,
		maxTokens:     defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CallWithFallback renders the template for key, calls the primary model,
// and retries once on the fallback model if the primary call fails at the
// transport level. The returned error means both models failed.
func (c *sdkClient) CallWithFallback(ctx context.Context, key TemplateKey, input string) (*Result, error) {
	tmpl, err := lookupTemplate(key)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if waitErr := c.limiter.Wait(ctx); waitErr != nil {
			return nil, eris.Wrapf(waitErr, "completion: rate wait %s", key)
		}
	}

	res, primaryErr := c.call(ctx, c.model, tmpl, input)
	if primaryErr == nil {
		return res, nil
	}

	if c.fallbackModel == "" || c.fallbackModel == c.model || ctx.Err() != nil {
		return nil, eris.Wrapf(primaryErr, "completion: %s", key)
	}

	zap.L().Warn("completion: primary model failed, trying fallback",
		zap.String("template", string(key)),
		zap.String("primary", c.model),
		zap.String("fallback", c.fallbackModel),
		zap.Error(primaryErr),
	)

	res, fallbackErr := c.call(ctx, c.fallbackModel, tmpl, input)
	if fallbackErr != nil {
		return nil, eris.Wrapf(fallbackErr, "completion: %s (fallback after: %v)", key, primaryErr)
	}
	return res, nil
}

func (c *sdkClient) call(ctx context.Context, model string, tmpl promptTemplate, input string) (*Result, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(model),
		MaxTokens: c.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(tmpl.Render(input))),
		},
	}
	if tmpl.System != "" {
		params.System = []sdk.TextBlockParam{{Text: tmpl.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	var content string
	for _, b := range msg.Content {
		if b.Type == "text" {
			content += b.Text
		}
	}

	return &Result{
		Content:    content,
		TokensUsed: int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		Model:      string(msg.Model),
	}, nil
}
