package core

import (
	"strings"

	"go.uber.org/zap"
)

// RelevanceFilter drops emails that do not look job related. The zero value keeps everything.
type RelevanceFilter struct {
	Enabled  bool
	Keywords []string
}

// IsRelevant reports whether an email mentions any relevance keyword
func (r RelevanceFilter) IsRelevant(email RawEmail) bool {
	if !r.Enabled {
		return true
	}
	text := strings.ToLower(email.Subject + " " + email.Content)
	for _, k := range r.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// TrackerService is the core service turning raw emails into application records
type TrackerService struct {
	filter     SenderFilter
	extractor  *Extractor
	classifier *Classifier
	aggregator *Aggregator
	relevance  RelevanceFilter
	logger     *zap.Logger
}

// NewTrackerService creates a new tracker service. A nil filter excludes nothing.
func NewTrackerService(
	filter SenderFilter,
	extractor *Extractor,
	classifier *Classifier,
	aggregator *Aggregator,
	relevance RelevanceFilter,
	logger *zap.Logger,
) *TrackerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackerService{
		filter:     filter,
		extractor:  extractor,
		classifier: classifier,
		aggregator: aggregator,
		relevance:  relevance,
		logger:     logger,
	}
}

// ClassifyEmail extracts fields and assigns a status to a single email
func (s *TrackerService) ClassifyEmail(email RawEmail) ClassifiedEmail {
	company, position := s.extractor.Extract(email)
	status, evidence := s.classifier.ClassifyWithEvidence(email)
	return ClassifiedEmail{
		Source:   email,
		Company:  company,
		Position: position,
		Status:   status,
		Evidence: evidence,
	}
}

// Run executes the pipeline over a fully materialised mailbox
func (s *TrackerService) Run(emails []RawEmail) *RunResult {
	result := &RunResult{
		Classified: make([]ClassifiedEmail, 0, len(emails)),
	}
	seen := make(map[string]struct{}, len(emails))

	for _, email := range emails {
		if email.ID != "" {
			if _, dup := seen[email.ID]; dup {
				result.Duplicates++
				s.logger.Debug("Skipping duplicate email id", zap.String("id", email.ID))
				continue
			}
			seen[email.ID] = struct{}{}
		}
		if s.filter != nil && s.filter.ShouldExclude(email) {
			result.Excluded++
			s.logger.Debug("Excluded email",
				zap.String("id", email.ID),
				zap.String("sender", email.From))
			continue
		}
		if !s.relevance.IsRelevant(email) {
			result.Irrelevant++
			s.logger.Debug("Skipping unrelated email", zap.String("id", email.ID))
			continue
		}

		ce := s.ClassifyEmail(email)
		s.logger.Debug("Classified email",
			zap.String("id", email.ID),
			zap.String("company", ce.Company),
			zap.String("position", ce.Position),
			zap.String("status", string(ce.Status)),
			zap.String("evidence", ce.Evidence))
		result.Classified = append(result.Classified, ce)
	}

	result.Records, result.Stats = s.aggregator.Aggregate(result.Classified)

	s.logger.Info("Tracked applications",
		zap.Int("emails", len(emails)),
		zap.Int("excluded", result.Excluded),
		zap.Int("irrelevant", result.Irrelevant),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("records", result.Stats.Total))

	return result
}

// Unresolved returns classified emails missing a company or a position
func (r *RunResult) Unresolved() []ClassifiedEmail {
	var out []ClassifiedEmail
	for _, ce := range r.Classified {
		if ce.Company == "" || ce.Position == "" {
			out = append(out, ce)
		}
	}
	return out
}
