package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/job-tracker/internal/adapters/prompt"
	"github.com/mikey/job-tracker/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubModel struct {
	resp  *genai.GenerateContentResponse
	err   error
	parts []genai.Part
}

func (s *stubModel) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	s.parts = parts
	return s.resp, s.err
}

func textResponse(chunks ...string) *genai.GenerateContentResponse {
	parts := make([]genai.Part, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, genai.Text(c))
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestSuggestFields(t *testing.T) {
	stub := &stubModel{resp: textResponse(`{"company":"Acme",`, `"position":"Web Developer","status":"Interview","confidence":0.7}`)}
	c := NewGeminiClientWithModel(stub, "gemini-pro", prompt.NewBuilder(nil, 256), zap.NewNop())

	s, err := c.SuggestFields(context.Background(), &core.RawEmail{ID: "9", Subject: "Chat next week?"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", s.Company)
	assert.Equal(t, "Web Developer", s.Position)
	assert.Equal(t, core.StatusInterview, s.Status)
	require.Len(t, stub.parts, 1)
	assert.Contains(t, string(stub.parts[0].(genai.Text)), "Chat next week?")
	assert.NoError(t, c.Close())
}

func TestSuggestFields_Errors(t *testing.T) {
	c := NewGeminiClientWithModel(&stubModel{err: errors.New("quota")}, "m", prompt.NewBuilder(nil, 0), zap.NewNop())
	_, err := c.SuggestFields(context.Background(), &core.RawEmail{})
	assert.Error(t, err)

	c = NewGeminiClientWithModel(&stubModel{resp: &genai.GenerateContentResponse{}}, "m", prompt.NewBuilder(nil, 0), zap.NewNop())
	_, err = c.SuggestFields(context.Background(), &core.RawEmail{})
	assert.Error(t, err)
}
