package core

import (
	"sort"
	"strings"
)

// StatusResolver picks the merged status of one application from its emails
type StatusResolver interface {
	Resolve(members []ClassifiedEmail) Status
}

// SeverityResolver resolves to the most severe status: Rejected > Interview > Pending
type SeverityResolver struct{}

// Resolve implements StatusResolver
func (SeverityResolver) Resolve(members []ClassifiedEmail) Status {
	best := StatusPending
	for _, m := range members {
		if m.Status.Rank() > best.Rank() {
			best = m.Status
		}
	}
	return best
}

// LatestResolver resolves to the status of the most recent email.
// Emails with equal dates fall back to severity.
type LatestResolver struct{}

// Resolve implements StatusResolver
func (LatestResolver) Resolve(members []ClassifiedEmail) Status {
	if len(members) == 0 {
		return StatusPending
	}
	latest := members[0]
	for _, m := range members[1:] {
		switch {
		case m.Source.Date.After(latest.Source.Date):
			latest = m
		case m.Source.Date.Equal(latest.Source.Date) && m.Status.Rank() > latest.Status.Rank():
			latest = m
		}
	}
	return latest.Status
}

// ResolverFor maps a merge policy name to a resolver
func ResolverFor(policy string) (StatusResolver, bool) {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case "", "severity":
		return SeverityResolver{}, true
	case "latest":
		return LatestResolver{}, true
	default:
		return SeverityResolver{}, false
	}
}

type aggregationKey struct {
	company  string
	position string
}

type group struct {
	record  ApplicationRecord
	members []ClassifiedEmail
}

// Aggregator merges classified emails into application records
type Aggregator struct {
	resolver StatusResolver
}

// NewAggregator creates an aggregator. A nil resolver means SeverityResolver.
func NewAggregator(resolver StatusResolver) *Aggregator {
	if resolver == nil {
		resolver = SeverityResolver{}
	}
	return &Aggregator{resolver: resolver}
}

// Aggregate groups emails by case-insensitive (company, position), in first-seen order.
// A non-empty email id already seen is skipped so it never counts towards two records.
// Emails without an id are always kept.
func (a *Aggregator) Aggregate(classified []ClassifiedEmail) ([]ApplicationRecord, Stats) {
	groups := make(map[aggregationKey]*group)
	order := make([]aggregationKey, 0)
	seen := make(map[string]struct{}, len(classified))

	for _, ce := range classified {
		if id := ce.Source.ID; id != "" {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
		}

		key := aggregationKey{
			company:  strings.ToLower(ce.Company),
			position: strings.ToLower(ce.Position),
		}
		g, ok := groups[key]
		if !ok {
			g = &group{record: ApplicationRecord{
				Company:    ce.Company,
				Position:   ce.Position,
				Unresolved: ce.Company == "" && ce.Position == "",
			}}
			groups[key] = g
			order = append(order, key)
		}

		g.members = append(g.members, ce)
		g.record.EmailIDs = append(g.record.EmailIDs, ce.Source.ID)
		g.record.Count = len(g.record.EmailIDs)
		if ce.Source.Date.After(g.record.LastActivity) {
			g.record.LastActivity = ce.Source.Date
		}
	}

	records := make([]ApplicationRecord, 0, len(order))
	for _, key := range order {
		g := groups[key]
		g.record.Status = a.resolver.Resolve(g.members)
		records = append(records, g.record)
	}

	return records, ComputeStats(records)
}

// ComputeStats summarises records. Each record counts once regardless of its email count.
func ComputeStats(records []ApplicationRecord) Stats {
	stats := Stats{Total: len(records)}
	companies := make(map[string]string)

	for _, r := range records {
		switch r.Status {
		case StatusInterview:
			stats.Interviews++
			if r.Company != "" {
				key := strings.ToLower(r.Company)
				if _, ok := companies[key]; !ok {
					companies[key] = r.Company
				}
			}
		case StatusRejected:
			stats.Rejections++
		default:
			stats.Pending++
		}
	}

	stats.CompaniesWithInterviews = len(companies)
	stats.InterviewCompanies = make([]string, 0, len(companies))
	for _, name := range companies {
		stats.InterviewCompanies = append(stats.InterviewCompanies, name)
	}
	sort.Slice(stats.InterviewCompanies, func(i, j int) bool {
		return strings.ToLower(stats.InterviewCompanies[i]) < strings.ToLower(stats.InterviewCompanies[j])
	})
	return stats
}
