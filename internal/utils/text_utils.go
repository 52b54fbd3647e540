package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// TruncationMarker is appended to text cut short by TruncateText
const TruncationMarker = "\n[... truncated ...]"

// TextProcessor prepares email bodies for storage and for LLM prompts
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText cuts text to at most maxSize bytes on a rune boundary
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for len(truncated) > 0 && !utf8.ValidString(truncated) {
		truncated = truncated[:len(truncated)-1]
	}

	tp.logger.Debug("Text truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", maxSize))

	return truncated + TruncationMarker
}

// SanitizeUTF8 drops invalid UTF-8 bytes
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	clean := strings.ToValidUTF8(text, "")
	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(clean)))

	return clean
}

// CollapseWhitespace joins every run of whitespace into a single space
func (tp *TextProcessor) CollapseWhitespace(text string) string {
	return strings.Join(strings.FieldsFunc(text, unicode.IsSpace), " ")
}

// ProcessText sanitizes, collapses and truncates text in one operation
func (tp *TextProcessor) ProcessText(text string, maxSize int) string {
	return tp.TruncateText(tp.CollapseWhitespace(tp.SanitizeUTF8(text)), maxSize)
}
