package prompt

import (
	"strings"
	"testing"

	"github.com/mikey/job-tracker/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	b := NewBuilder(nil, 10)
	out := b.Build(&core.RawEmail{
		From:    "jobs@greenhouse.io",
		Subject: "Your application",
		Content: "Hello   from\nthe hiring team at Acme",
	})
	assert.Contains(t, out, "From: jobs@greenhouse.io")
	assert.Contains(t, out, "Subject: Your application")
	assert.Contains(t, out, "Hello from")
	assert.NotContains(t, out, "Acme", "body is truncated")
}

func TestParseSuggestion(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantStatus core.Status
		wantConf   float64
		wantErr    bool
	}{
		{
			name:       "plain json",
			text:       `{"company":" Acme ","position":"Data Engineer","status":"interview","confidence":0.8,"explanation":"invite"}`,
			wantStatus: core.StatusInterview,
			wantConf:   0.8,
		},
		{
			name:       "wrapped in prose and fences",
			text:       "Sure!\n```json\n{\"company\":\"Acme\",\"status\":\"Rejected\",\"confidence\":3}\n```",
			wantStatus: core.StatusRejected,
			wantConf:   1,
		},
		{
			name:       "unknown status",
			text:       `{"company":"Acme","status":"Offer","confidence":-2}`,
			wantStatus: core.StatusPending,
			wantConf:   0,
		},
		{name: "no json", text: "I cannot help with that", wantErr: true},
		{name: "broken json", text: "{company: Acme}", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSuggestion(tt.text, "test-model")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Acme", s.Company)
			assert.Equal(t, tt.wantStatus, s.Status)
			assert.InDelta(t, tt.wantConf, s.Confidence, 1e-9)
			assert.Equal(t, "test-model", s.ModelUsed)
			assert.False(t, s.SuggestedAt.IsZero())
		})
	}
}

func TestExtractJSON(t *testing.T) {
	obj, err := ExtractJSON(`noise {"a":{"b":1}} tail`)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obj, "{") && strings.HasSuffix(obj, "}"))

	_, err = ExtractJSON("} backwards {")
	assert.Error(t, err)
}
