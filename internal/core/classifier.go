package core

import (
	"sort"
	"strings"
)

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'")

// Classifier assigns a status to an email by keyword matching
type Classifier struct {
	rejected  []string
	interview []string
	pending   []string
}

// NewClassifier creates a classifier over the supplied phrase sets
func NewClassifier(sets KeywordSets) *Classifier {
	return &Classifier{
		rejected:  orderedPhrases(sets.Rejected),
		interview: orderedPhrases(sets.Interview),
		pending:   orderedPhrases(sets.Pending),
	}
}

// orderedPhrases fixes an iteration order, longest first, so evidence is stable
func orderedPhrases(set PhraseSet) []string {
	out := make([]string, 0, len(set))
	for p := range set {
		p = apostrophes.Replace(strings.ToLower(strings.TrimSpace(p)))
		if p != "" {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// Classify returns the status implied by the email text
func (c *Classifier) Classify(email RawEmail) Status {
	status, _ := c.ClassifyWithEvidence(email)
	return status
}

// ClassifyWithEvidence returns the status and the phrase that decided it.
// Rejected wins over Interview, which wins over Pending.
func (c *Classifier) ClassifyWithEvidence(email RawEmail) (Status, string) {
	text := apostrophes.Replace(strings.ToLower(email.Subject + " " + email.Content))

	if p, ok := firstMatch(text, c.rejected); ok {
		return StatusRejected, p
	}
	if p, ok := firstMatch(text, c.interview); ok {
		return StatusInterview, p
	}
	if p, ok := firstMatch(text, c.pending); ok {
		return StatusPending, p
	}
	return StatusPending, ""
}

func firstMatch(text string, phrases []string) (string, bool) {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return p, true
		}
	}
	return "", false
}
