package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Client is a stateless completion client against any OpenAI-compatible
// endpoint. It holds no conversation state; each call carries the whole
// prompt.
type Client struct {
	llm     llms.LLM
	timeout time.Duration
}

func New(baseURL, token, model string, timeout time.Duration) (*Client, error) {
	llm, err := openai.New(
		openai.WithToken(token),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &Client{llm: llm, timeout: timeout}, nil
}

// Complete sends one prompt and returns the raw completion. The call is
// bounded by the client timeout; a timeout surfaces as an ordinary error
// for the caller to classify.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	completion, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("generate completion: %w", err)
	}
	return completion, nil
}
