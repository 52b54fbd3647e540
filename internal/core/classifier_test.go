package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_DefaultSets(t *testing.T) {
	c := NewClassifier(DefaultKeywordSets())

	tests := []struct {
		name     string
		email    RawEmail
		expected Status
	}{
		{
			name:     "interview invitation",
			email:    RawEmail{Subject: "Interview Invitation - Software Engineer", Content: "We'd like to invite you"},
			expected: StatusInterview,
		},
		{
			name:     "rejection in body",
			email:    RawEmail{Subject: "Re: Software Engineer", Content: "We regret to inform you..."},
			expected: StatusRejected,
		},
		{
			name:     "acknowledgement is pending",
			email:    RawEmail{Subject: "Application Received", Content: "We will review your qualifications."},
			expected: StatusPending,
		},
		{
			name:     "no signal defaults to pending",
			email:    RawEmail{Subject: "Weekly newsletter", Content: "Tech news roundup"},
			expected: StatusPending,
		},
		{
			name:     "empty email",
			email:    RawEmail{},
			expected: StatusPending,
		},
		{
			name:     "case insensitive",
			email:    RawEmail{Subject: "UNFORTUNATELY", Content: ""},
			expected: StatusRejected,
		},
		{
			name:     "typographic apostrophe",
			email:    RawEmail{Content: "I’m excited to tell you more"},
			expected: StatusInterview,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.email))
		})
	}
}

func TestClassifier_RejectedBeatsInterview(t *testing.T) {
	c := NewClassifier(DefaultKeywordSets())

	email := RawEmail{
		Subject: "Fwd: Interview Invitation",
		Content: "Unfortunately we are not moving forward. > We would like to invite you for a video interview",
	}
	status, evidence := c.ClassifyWithEvidence(email)
	assert.Equal(t, StatusRejected, status)
	assert.Equal(t, "not moving forward", evidence)
}

func TestClassifier_SyntheticSets(t *testing.T) {
	c := NewClassifier(KeywordSets{
		Interview: NewPhraseSet("Entrevista"),
		Rejected:  NewPhraseSet("lamentamos"),
		Pending:   NewPhraseSet("recibido"),
	})

	assert.Equal(t, StatusInterview, c.Classify(RawEmail{Content: "Le invitamos a una entrevista"}))
	assert.Equal(t, StatusRejected, c.Classify(RawEmail{Content: "Lamentamos informarle. Entrevista cancelada"}))

	status, evidence := c.ClassifyWithEvidence(RawEmail{Subject: "Hemos recibido su solicitud"})
	assert.Equal(t, StatusPending, status)
	assert.Equal(t, "recibido", evidence)

	// the default phrases are not consulted
	assert.Equal(t, StatusPending, c.Classify(RawEmail{Content: "we regret to inform you"}))
}

func TestClassifier_EmptySetsAlwaysPending(t *testing.T) {
	c := NewClassifier(KeywordSets{})
	for _, e := range []RawEmail{
		{Content: "we regret"},
		{Subject: "interview invitation"},
		{},
	} {
		assert.Equal(t, StatusPending, c.Classify(e))
	}
}

func TestClassifier_EvidenceIsDeterministic(t *testing.T) {
	c := NewClassifier(KeywordSets{
		Rejected: NewPhraseSet("regret", "we regret to inform you", "inform"),
	})
	email := RawEmail{Content: "We regret to inform you"}
	for i := 0; i < 20; i++ {
		_, evidence := c.ClassifyWithEvidence(email)
		assert.Equal(t, "we regret to inform you", evidence)
	}
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus(" rejected ")
	assert.True(t, ok)
	assert.Equal(t, StatusRejected, s)

	s, ok = ParseStatus("offer")
	assert.False(t, ok)
	assert.Equal(t, StatusPending, s)
}
