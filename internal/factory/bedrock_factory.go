package factory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/job-tracker/internal/adapters/bedrock"
	"github.com/mikey/job-tracker/internal/config"
	"github.com/mikey/job-tracker/internal/core"
	"go.uber.org/zap"
)

// BedrockFactory creates Bedrock LLM clients
type BedrockFactory struct {
	cfg         *config.Config
	logger      *zap.Logger
	textFactory *TextProcessorFactory
}

// NewBedrockFactory creates a new Bedrock factory
func NewBedrockFactory(cfg *config.Config, logger *zap.Logger, textFactory *TextProcessorFactory) *BedrockFactory {
	return &BedrockFactory{
		cfg:         cfg,
		logger:      logger,
		textFactory: textFactory,
	}
}

// CreateLLMClient creates a Bedrock LLM client
func (f *BedrockFactory) CreateLLMClient(ctx context.Context) (core.LLMClient, error) {
	bedrockCfg := f.cfg.GetBedrock()
	if bedrockCfg.ModelID == "" {
		return nil, fmt.Errorf("bedrock model id is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(bedrockCfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return bedrock.NewBedrockClient(
		bedrockruntime.NewFromConfig(awsCfg),
		bedrockCfg.ModelID,
		bedrockCfg.MaxTokens,
		bedrockCfg.Temperature,
		bedrockCfg.TopP,
		f.textFactory.CreatePromptBuilder(bedrockCfg.MaxBodySize),
		f.logger,
	), nil
}
