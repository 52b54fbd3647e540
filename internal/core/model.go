package core

import (
	"strings"
	"time"
)

// Status is the application status implied by an email
type Status string

const (
	StatusInterview Status = "Interview"
	StatusRejected  Status = "Rejected"
	StatusPending   Status = "Pending"
)

// Rank orders statuses by severity. Rejected is the most severe.
func (s Status) Rank() int {
	switch s {
	case StatusRejected:
		return 3
	case StatusInterview:
		return 2
	default:
		return 1
	}
}

// Valid reports whether s is one of the three known statuses
func (s Status) Valid() bool {
	return s == StatusInterview || s == StatusRejected || s == StatusPending
}

// ParseStatus converts a case-insensitive label into a Status
func ParseStatus(label string) (Status, bool) {
	for _, s := range []Status{StatusInterview, StatusRejected, StatusPending} {
		if strings.EqualFold(string(s), strings.TrimSpace(label)) {
			return s, true
		}
	}
	return StatusPending, false
}

// RawEmail represents a harvested email message. Content is plain text.
type RawEmail struct {
	ID      string
	Subject string
	From    string
	Date    time.Time
	Content string
}

// ClassifiedEmail is a RawEmail annotated with extracted fields and a status
type ClassifiedEmail struct {
	Source   RawEmail
	Company  string
	Position string
	Status   Status
	// Evidence is the trigger phrase that decided Status, empty for the default.
	Evidence string
}

// ApplicationRecord is the merged view of every email for one company and position
type ApplicationRecord struct {
	Company      string
	Position     string
	Status       Status
	EmailIDs     []string
	Count        int
	Unresolved   bool
	LastActivity time.Time
}

// Stats summarises a set of application records
type Stats struct {
	Total                   int
	CompaniesWithInterviews int
	InterviewCompanies      []string
	Interviews              int
	Rejections              int
	Pending                 int
}

// Percent returns n as a percentage of the total record count
func (s Stats) Percent(n int) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(n) / float64(s.Total) * 100
}

// RunResult is the output of one pipeline run
type RunResult struct {
	Records    []ApplicationRecord
	Stats      Stats
	Classified []ClassifiedEmail
	Excluded   int
	Irrelevant int
	// Duplicates counts emails skipped because their id was already seen.
	Duplicates int
}

// Suggestion is an LLM proposal for an email the extractor could not resolve
type Suggestion struct {
	EmailID     string
	Company     string
	Position    string
	Status      Status
	Confidence  float64
	Explanation string
	SuggestedAt time.Time
	ModelUsed   string
}

// CacheEntry is a cached suggestion keyed by email id
type CacheEntry struct {
	EmailID    string
	Suggestion Suggestion
	LastSeen   time.Time
	ExpiresAt  time.Time
}
