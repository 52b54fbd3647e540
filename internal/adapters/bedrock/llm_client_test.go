package bedrock

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/job-tracker/internal/adapters/prompt"
	"github.com/mikey/job-tracker/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubInvoker struct {
	body    []byte
	gotBody map[string]interface{}
	gotID   string
}

func (s *stubInvoker) InvokeModel(_ context.Context, in *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	s.gotID = *in.ModelId
	if err := json.Unmarshal(in.Body, &s.gotBody); err != nil {
		return nil, err
	}
	return &bedrockruntime.InvokeModelOutput{Body: s.body}, nil
}

const answer = `{"company":"Acme","position":"Data Engineer","status":"Rejected","confidence":0.9}`

func TestSuggestFields_Models(t *testing.T) {
	wrap := func(v interface{}) []byte {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		return b
	}

	tests := []struct {
		name     string
		modelID  string
		body     []byte
		bodyKeys []string
	}{
		{
			name:     "claude messages",
			modelID:  "anthropic.claude-3-haiku-20240307-v1:0",
			body:     wrap(map[string]interface{}{"content": []map[string]string{{"type": "text", "text": answer}}}),
			bodyKeys: []string{"anthropic_version", "messages", "system"},
		},
		{
			name:     "claude text completion",
			modelID:  "anthropic.claude-v2",
			body:     wrap(map[string]string{"completion": " Here you go: " + answer}),
			bodyKeys: []string{"prompt", "max_tokens_to_sample"},
		},
		{
			name:     "titan",
			modelID:  "amazon.titan-text-express-v1",
			body:     wrap(map[string]interface{}{"results": []map[string]string{{"outputText": answer}}}),
			bodyKeys: []string{"inputText", "textGenerationConfig"},
		},
		{
			name:     "generic",
			modelID:  "meta.llama3-8b-instruct-v1:0",
			body:     wrap(map[string]string{"output": answer}),
			bodyKeys: []string{"prompt", "max_tokens"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubInvoker{body: tt.body}
			c := NewBedrockClient(stub, tt.modelID, 300, 0, 0.9, prompt.NewBuilder(nil, 512), zap.NewNop())

			s, err := c.SuggestFields(context.Background(), &core.RawEmail{ID: "e1", Subject: "Update"})
			require.NoError(t, err)
			assert.Equal(t, "Acme", s.Company)
			assert.Equal(t, core.StatusRejected, s.Status)
			assert.Equal(t, tt.modelID, s.ModelUsed)
			assert.Equal(t, tt.modelID, stub.gotID)
			for _, k := range tt.bodyKeys {
				assert.Contains(t, stub.gotBody, k)
			}
		})
	}
}

func TestSuggestFields_EmptyTitan(t *testing.T) {
	stub := &stubInvoker{body: []byte(`{"results":[]}`)}
	c := NewBedrockClient(stub, "amazon.titan-text-lite-v1", 1, 0, 0, prompt.NewBuilder(nil, 0), zap.NewNop())
	_, err := c.SuggestFields(context.Background(), &core.RawEmail{})
	assert.Error(t, err)
}
