package core

import (
	"strings"
)

// PhraseSet is a set of trigger phrases. Only membership matters.
type PhraseSet map[string]struct{}

// NewPhraseSet builds a set from a list, lowercasing and trimming each phrase.
// Empty phrases are dropped.
func NewPhraseSet(phrases ...string) PhraseSet {
	set := make(PhraseSet, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		set[p] = struct{}{}
	}
	return set
}

// KeywordSets holds one phrase set per status
type KeywordSets struct {
	Interview PhraseSet
	Rejected  PhraseSet
	Pending   PhraseSet
}

// DefaultKeywordSets returns the built-in phrase sets
func DefaultKeywordSets() KeywordSets {
	return KeywordSets{
		Rejected:  NewPhraseSet(DefaultRejectedPhrases...),
		Interview: NewPhraseSet(DefaultInterviewPhrases...),
		Pending:   NewPhraseSet(DefaultPendingPhrases...),
	}
}

var DefaultRejectedPhrases = []string{
	"regret",
	"unfortunately",
	"not moving forward",
	"not selected",
	"unable to proceed",
	"not a match",
	"not the right fit",
	"other candidates",
	"decided to pursue",
	"position has been filled",
	"no longer",
	"will not",
	"cannot",
}

var DefaultInterviewPhrases = []string{
	"progress your application",
	"video interview",
	"happy to invite",
	"excited to move forward",
	"i'm excited",
	"interview invitation",
	"invite you",
	"schedule an interview",
	"schedule a call",
	"phone screen",
	"next round",
	"technical interview",
	"meet with you",
	"your availability",
}

var DefaultPendingPhrases = []string{
	"received your application",
	"application received",
	"thank you for applying",
	"thanks for applying",
	"under review",
	"being reviewed",
	"get back to you",
}

var DefaultJobTitles = []string{
	"Software Developer",
	"Software Engineer",
	"Senior Software Engineer",
	"Staff Software Engineer",
	"Web Developer",
	"Full Stack Developer",
	"Full Stack Engineer",
	"Backend Developer",
	"Backend Engineer",
	"Frontend Developer",
	"Frontend Engineer",
	"Data Engineer",
	"Data Scientist",
	"Data Analyst",
	"Machine Learning Engineer",
	"DevOps Engineer",
	"Site Reliability Engineer",
	"Cloud Engineer",
	"Platform Engineer",
	"Mobile Developer",
	"iOS Developer",
	"Android Developer",
	"Security Engineer",
	"Security Developer",
	"Game Developer",
	"QA Engineer",
	"Test Engineer",
	"Engineering Manager",
	"Product Manager",
	"Product Designer",
	"UX Designer",
	"Technical Writer",
}

var DefaultRelevanceKeywords = []string{
	"application", "job", "position", "career", "vacancy", "applied",
	"opportunity", "employment", "recruiting", "talent", "candidate",
	"resume", "cv", "cover letter", "hiring", "developer", "engineer",
	"interview",
}
