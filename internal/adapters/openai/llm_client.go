package openai

import (
	"context"
	"fmt"

	"github.com/mikey/job-tracker/internal/adapters/prompt"
	"github.com/mikey/job-tracker/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ChatCompleter is the subset of the OpenAI client used here
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient suggests application fields using OpenAI chat completions
type OpenAIClient struct {
	client      ChatCompleter
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	prompts     *prompt.Builder
	logger      *zap.Logger
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(
	client ChatCompleter,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	prompts *prompt.Builder,
	logger *zap.Logger,
) *OpenAIClient {
	return &OpenAIClient{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		prompts:     prompts,
		logger:      logger,
	}
}

// SuggestFields asks the model for the company, position and status of an email
func (c *OpenAIClient) SuggestFields(ctx context.Context, email *core.RawEmail) (*core.Suggestion, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompt.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: c.prompts.Build(email),
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	c.logger.Debug("OpenAI response received",
		zap.String("email_id", email.ID),
		zap.String("response_id", resp.ID),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	return prompt.ParseSuggestion(resp.Choices[0].Message.Content, c.modelName)
}
