package factory

import (
	"context"
	"fmt"

	"github.com/mikey/job-tracker/internal/adapters/gemini"
	"github.com/mikey/job-tracker/internal/config"
	"github.com/mikey/job-tracker/internal/core"
	"go.uber.org/zap"
)

// GeminiFactory creates Gemini LLM clients
type GeminiFactory struct {
	cfg         *config.Config
	logger      *zap.Logger
	textFactory *TextProcessorFactory
}

// NewGeminiFactory creates a new Gemini factory
func NewGeminiFactory(cfg *config.Config, logger *zap.Logger, textFactory *TextProcessorFactory) *GeminiFactory {
	return &GeminiFactory{
		cfg:         cfg,
		logger:      logger,
		textFactory: textFactory,
	}
}

// CreateLLMClient creates a Gemini LLM client
func (f *GeminiFactory) CreateLLMClient(ctx context.Context) (core.LLMClient, error) {
	geminiCfg := f.cfg.GetGemini()
	if geminiCfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	return gemini.NewGeminiClient(
		ctx,
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		f.textFactory.CreatePromptBuilder(geminiCfg.MaxBodySize),
		f.logger,
	)
}
