// Package llm wraps the text-generation provider behind a small
// capability interface so the pipeline can run against a deterministic
// stub in tests.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

// callTimeout bounds every provider call; a timeout is handled like any
// other call failure (the caller falls back).
const callTimeout = 30 * time.Second

// TextGenerator is the single capability the pipeline needs from the
// generation provider.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// OpenAIClient is the production TextGenerator. Stateless after
// construction; safe to share across concurrent calls.
type OpenAIClient struct {
	model llms.Model
}

// NewOpenAIClient initializes the client from a validated API key.
func NewOpenAIClient(apiKey, model string) (*OpenAIClient, error) {
	client, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return &OpenAIClient{model: client}, nil
}

// GenerateText runs a single-turn completion at temperature 0.
func (c *OpenAIClient) GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	return llms.GenerateFromSinglePrompt(ctx, c.model, prompt,
		llms.WithTemperature(0),
		llms.WithMaxTokens(maxTokens),
	)
}

// Throttled wraps a TextGenerator with a process-wide rate limiter so
// batched fan-out never exceeds the provider's request budget.
type Throttled struct {
	inner   TextGenerator
	limiter *rate.Limiter
}

// NewThrottled allows requestsPerSec sustained calls with a small burst.
func NewThrottled(inner TextGenerator, requestsPerSec float64) *Throttled {
	return &Throttled{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), int(requestsPerSec)+1),
	}
}

func (t *Throttled) GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return t.inner.GenerateText(ctx, prompt, maxTokens)
}
