package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/job-tracker/internal/adapters/prompt"
	"github.com/mikey/job-tracker/internal/core"
	"go.uber.org/zap"
)

const anthropicVersion = "bedrock-2023-05-31"

// ModelInvoker is the subset of the Bedrock runtime client used here
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockClient suggests application fields using Amazon Bedrock
type BedrockClient struct {
	client      ModelInvoker
	modelID     string
	maxTokens   int
	temperature float32
	topP        float32
	prompts     *prompt.Builder
	logger      *zap.Logger
}

// NewBedrockClient creates a new Bedrock client
func NewBedrockClient(
	client ModelInvoker,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	prompts *prompt.Builder,
	logger *zap.Logger,
) *BedrockClient {
	return &BedrockClient{
		client:      client,
		modelID:     modelID,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		prompts:     prompts,
		logger:      logger,
	}
}

// SuggestFields asks the model for the company, position and status of an email
func (c *BedrockClient) SuggestFields(ctx context.Context, email *core.RawEmail) (*core.Suggestion, error) {
	payload, err := c.requestBody(c.prompts.Build(email))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	text, err := c.responseText(resp.Body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Bedrock response received",
		zap.String("email_id", email.ID),
		zap.String("model", c.modelID),
		zap.Int("response_size", len(resp.Body)))

	return prompt.ParseSuggestion(text, c.modelID)
}

func (c *BedrockClient) requestBody(userPrompt string) ([]byte, error) {
	switch {
	case c.isAnthropicMessagesModel():
		return json.Marshal(map[string]interface{}{
			"anthropic_version": anthropicVersion,
			"max_tokens":        c.maxTokens,
			"temperature":       c.temperature,
			"top_p":             c.topP,
			"system":            prompt.SystemPrompt,
			"messages": []map[string]string{
				{"role": "user", "content": userPrompt},
			},
		})
	case c.isAnthropicModel():
		return json.Marshal(map[string]interface{}{
			"prompt":               "\n\nHuman: " + prompt.SystemPrompt + "\n\n" + userPrompt + "\n\nAssistant:",
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"top_p":                c.topP,
		})
	case c.isAmazonTitanModel():
		return json.Marshal(map[string]interface{}{
			"inputText": prompt.SystemPrompt + "\n\n" + userPrompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"topP":          c.topP,
			},
		})
	default:
		return json.Marshal(map[string]interface{}{
			"prompt":      prompt.SystemPrompt + "\n\n" + userPrompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}
}

func (c *BedrockClient) responseText(body []byte) (string, error) {
	switch {
	case c.isAnthropicMessagesModel():
		var msgResp struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(body, &msgResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		var sb strings.Builder
		for _, part := range msgResp.Content {
			if part.Type == "text" {
				sb.WriteString(part.Text)
			}
		}
		if sb.Len() == 0 {
			return "", fmt.Errorf("empty response from Claude model")
		}
		return sb.String(), nil
	case c.isAnthropicModel():
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	case c.isAmazonTitanModel():
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	default:
		var genericResp struct {
			Output   string `json:"output"`
			Text     string `json:"text"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(body, &genericResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
		}
		switch {
		case genericResp.Output != "":
			return genericResp.Output, nil
		case genericResp.Text != "":
			return genericResp.Text, nil
		case genericResp.Response != "":
			return genericResp.Response, nil
		default:
			return string(body), nil
		}
	}
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (c *BedrockClient) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude")
}

// isAnthropicMessagesModel checks for Claude models that only speak the Messages API
func (c *BedrockClient) isAnthropicMessagesModel() bool {
	return c.isAnthropicModel() && !strings.HasPrefix(c.modelID, "anthropic.claude-v2") &&
		!strings.HasPrefix(c.modelID, "anthropic.claude-instant")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (c *BedrockClient) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}
