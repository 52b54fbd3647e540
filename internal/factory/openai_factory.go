package factory

import (
	"context"
	"fmt"

	"github.com/mikey/job-tracker/internal/adapters/openai"
	"github.com/mikey/job-tracker/internal/config"
	"github.com/mikey/job-tracker/internal/core"
	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIFactory creates OpenAI LLM clients
type OpenAIFactory struct {
	cfg         *config.Config
	logger      *zap.Logger
	textFactory *TextProcessorFactory
}

// NewOpenAIFactory creates a new OpenAI factory
func NewOpenAIFactory(cfg *config.Config, logger *zap.Logger, textFactory *TextProcessorFactory) *OpenAIFactory {
	return &OpenAIFactory{
		cfg:         cfg,
		logger:      logger,
		textFactory: textFactory,
	}
}

// CreateLLMClient creates an OpenAI LLM client
func (f *OpenAIFactory) CreateLLMClient(_ context.Context) (core.LLMClient, error) {
	openaiCfg := f.cfg.GetOpenAI()
	if openaiCfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	return openai.NewOpenAIClient(
		goopenai.NewClient(openaiCfg.APIKey),
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		f.textFactory.CreatePromptBuilder(openaiCfg.MaxBodySize),
		f.logger,
	), nil
}
