// Package prompt builds the advisor prompt shared by every LLM adapter and
// parses the model's JSON answer into a suggestion.
package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/job-tracker/internal/core"
	"github.com/mikey/job-tracker/internal/utils"
)

// SystemPrompt is sent as the system message where the provider supports one
const SystemPrompt = "You extract job application details from emails. Respond only with JSON."

const userFormat = `Read the following email a job seeker received and work out which job application it belongs to.
Respond with a JSON object containing:
- company: string (the hiring company, not the ATS or mail relay; empty if unknown)
- position: string (the job title applied for; empty if unknown)
- status: one of "Interview", "Rejected", "Pending"
- confidence: number between 0 and 1
- explanation: string (one short sentence)

Email:
From: %s
Subject: %s
Body:
%s

Respond only with the JSON object and nothing else.`

// Response is the JSON object the model is asked to return
type Response struct {
	Company     string  `json:"company"`
	Position    string  `json:"position"`
	Status      string  `json:"status"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// Builder renders prompts with the email body cleaned and truncated
type Builder struct {
	textProcessor *utils.TextProcessor
	maxBodySize   int
}

// NewBuilder creates a prompt builder
func NewBuilder(textProcessor *utils.TextProcessor, maxBodySize int) *Builder {
	if textProcessor == nil {
		textProcessor = utils.NewTextProcessor(nil)
	}
	return &Builder{textProcessor: textProcessor, maxBodySize: maxBodySize}
}

// Build returns the user prompt for an email
func (b *Builder) Build(email *core.RawEmail) string {
	body := b.textProcessor.ProcessText(email.Content, b.maxBodySize)
	return fmt.Sprintf(userFormat, email.From, email.Subject, body)
}

// ExtractJSON returns the outermost {...} span of text
func ExtractJSON(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return "", errors.New("no JSON object in model response")
	}
	return text[start : end+1], nil
}

// ParseSuggestion decodes a model answer. Unknown status labels become Pending
// and confidence is clamped to [0, 1].
func ParseSuggestion(text, model string) (*core.Suggestion, error) {
	var resp Response
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		obj, extractErr := ExtractJSON(text)
		if extractErr != nil {
			return nil, fmt.Errorf("failed to extract JSON from LLM response: %w", extractErr)
		}
		if err := json.Unmarshal([]byte(obj), &resp); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
		}
	}

	status, _ := core.ParseStatus(resp.Status)
	confidence := resp.Confidence
	switch {
	case confidence < 0:
		confidence = 0
	case confidence > 1:
		confidence = 1
	}

	return &core.Suggestion{
		Company:     strings.TrimSpace(resp.Company),
		Position:    strings.TrimSpace(resp.Position),
		Status:      status,
		Confidence:  confidence,
		Explanation: strings.TrimSpace(resp.Explanation),
		SuggestedAt: time.Now(),
		ModelUsed:   model,
	}, nil
}
