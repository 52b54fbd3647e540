package factory

import (
	"github.com/mikey/job-tracker/internal/adapters/prompt"
	"github.com/mikey/job-tracker/internal/utils"
	"go.uber.org/zap"
)

// TextProcessorFactory creates text processors and the prompt builders that use them
type TextProcessorFactory struct {
	logger *zap.Logger
}

// NewTextProcessorFactory creates a new TextProcessorFactory
func NewTextProcessorFactory(logger *zap.Logger) *TextProcessorFactory {
	return &TextProcessorFactory{
		logger: logger,
	}
}

// CreateTextProcessor creates a new TextProcessor
func (f *TextProcessorFactory) CreateTextProcessor() *utils.TextProcessor {
	return utils.NewTextProcessor(f.logger)
}

// CreatePromptBuilder creates a prompt builder truncating bodies to maxBodySize runes
func (f *TextProcessorFactory) CreatePromptBuilder(maxBodySize int) *prompt.Builder {
	return prompt.NewBuilder(f.CreateTextProcessor(), maxBodySize)
}
