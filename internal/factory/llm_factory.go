package factory

import (
	"context"
	"fmt"
	"strings"

	"github.com/mikey/job-tracker/internal/config"
	"github.com/mikey/job-tracker/internal/core"
	"go.uber.org/zap"
)

// LLMFactory creates LLM clients
type LLMFactory struct {
	cfg         *config.Config
	logger      *zap.Logger
	textFactory *TextProcessorFactory
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, textFactory *TextProcessorFactory) *LLMFactory {
	return &LLMFactory{
		cfg:         cfg,
		logger:      logger,
		textFactory: textFactory,
	}
}

// CreateLLMClient creates a new LLM client based on llm.provider
func (f *LLMFactory) CreateLLMClient(ctx context.Context) (core.LLMClient, error) {
	advisorCfg, err := f.cfg.GetAdvisor()
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(advisorCfg.Provider) {
	case "bedrock":
		return NewBedrockFactory(f.cfg, f.logger, f.textFactory).CreateLLMClient(ctx)
	case "gemini":
		return NewGeminiFactory(f.cfg, f.logger, f.textFactory).CreateLLMClient(ctx)
	case "openai":
		return NewOpenAIFactory(f.cfg, f.logger, f.textFactory).CreateLLMClient(ctx)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", advisorCfg.Provider)
	}
}
