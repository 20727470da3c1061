package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Client is a client for a hosted OpenAI-compatible chat completions API
// (Groq by default). One request per call, no retries, no fallback model.
type Client struct {
	Model  string
	client *openai.Client
}

// NewClient creates a new chat completion client.
// baseURL should point at the provider's OpenAI-compatible root
// (e.g. "https://api.groq.com/openai/v1").
func NewClient(baseURL, apiKey, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		Model:  model,
		client: openai.NewClientWithConfig(cfg),
	}
}

// Complete sends a single synchronous chat completion request and returns the
// first choice's message content. Non-success status or a malformed body
// propagates as an error.
func (c *Client) Complete(ctx context.Context, prompt string, params ChatParams) (string, error) {
	model := params.Model
	if model == "" {
		model = c.Model
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: params.Temperature,
	}
	if params.MaxTokens > 0 {
		req.MaxTokens = params.MaxTokens
	}
	if len(params.Stop) > 0 {
		req.Stop = params.Stop
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
