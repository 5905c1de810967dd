package llmservice

import (
	"context"
	"errors"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"pdfchat/internal/config"
	"pdfchat/internal/models"
)

// Generator is the generation-backend contract: a rendered prompt in, text
// out. Backends that can classify their own throttling failures should
// return errors implementing RateLimited() bool; the retry layer falls
// back to message inspection otherwise.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient generates through any OpenAI-compatible chat endpoint.
type OpenAIClient struct {
	llm         *openai.LLM
	temperature float64
	maxTokens   int
}

func NewOpenAIClient(cfg *config.LLMConfig) (*OpenAIClient, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, err
	}
	temperature := models.DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	return &OpenAIClient{
		llm:         llm,
		temperature: temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}

	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return resp.Choices[0].Content, nil
}
