package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/NeilARaman/Echo/internal/domain"
)

// ChatClient sends (system, user) prompt pairs to an OpenAI-compatible chat
// completion endpoint. Model selection is the caller's concern: the fallback
// chain lives in the invoke use case, one Complete call per candidate.
type ChatClient struct {
	client *openai.Client
	logger *zap.Logger
}

// ChatConfig holds the chat provider settings.
type ChatConfig struct {
	APIKey  string
	BaseURL string
	Logger  *zap.Logger
}

// NewChatClient creates an OpenAI-compatible chat client.
func NewChatClient(cfg *ChatConfig) *ChatClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &ChatClient{
		client: openai.NewClientWithConfig(clientCfg),
		logger: cfg.Logger,
	}
}

// Complete sends the prompt pair to a single model and returns the
// concatenated text of all choices. A 404 from the API is surfaced as
// domain.ErrModelNotFound so the caller can advance its fallback chain.
func (c *ChatClient) Complete(
	ctx context.Context, model, system, user string, temperature float32, maxTokens int,
) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyError(model, err)
	}

	var b strings.Builder
	for _, choice := range resp.Choices {
		b.WriteString(choice.Message.Content)
	}
	return b.String(), nil
}

// classifyError maps provider errors onto domain sentinels.
func classifyError(model string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusNotFound {
		return fmt.Errorf("model %q: %w", model, domain.ErrModelNotFound)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusNotFound {
		return fmt.Errorf("model %q: %w", model, domain.ErrModelNotFound)
	}
	return fmt.Errorf("chat completion with %q: %w", model, err)
}
