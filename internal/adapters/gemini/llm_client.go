package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/job-tracker/internal/adapters/prompt"
	"github.com/mikey/job-tracker/internal/core"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// ContentGenerator is the subset of genai.GenerativeModel used here
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiClient suggests application fields using Google Gemini
type GeminiClient struct {
	client    *genai.Client
	model     ContentGenerator
	modelName string
	prompts   *prompt.Builder
	logger    *zap.Logger
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(
	ctx context.Context,
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	prompts *prompt.Builder,
	logger *zap.Logger,
) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(prompt.SystemPrompt)}}

	c := NewGeminiClientWithModel(model, modelName, prompts, logger)
	c.client = client
	return c, nil
}

// NewGeminiClientWithModel wraps an already configured model
func NewGeminiClientWithModel(model ContentGenerator, modelName string, prompts *prompt.Builder, logger *zap.Logger) *GeminiClient {
	return &GeminiClient{
		model:     model,
		modelName: modelName,
		prompts:   prompts,
		logger:    logger,
	}
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// SuggestFields asks the model for the company, position and status of an email
func (c *GeminiClient) SuggestFields(ctx context.Context, email *core.RawEmail) (*core.Suggestion, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(c.prompts.Build(email)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	c.logger.Debug("Gemini response received",
		zap.String("email_id", email.ID),
		zap.String("model", c.modelName))

	return prompt.ParseSuggestion(text, c.modelName)
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
