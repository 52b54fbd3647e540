// Package exclusion drops emails from unwanted senders before analysis.
//
// A rule is a plain substring matched case-insensitively against the whole
// From field, display name included. There is no anchoring: a rule such as
// "no-reply" also matches "no-reply-bonoreply@x.com" or "Jobs (no-reply)".
//
// Rule files hold one pattern per line. Surrounding whitespace is trimmed,
// so a pattern cannot begin or end with a space.
package exclusion

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mikey/job-tracker/internal/core"
	"go.uber.org/zap"
)

// ShouldExclude reports whether any rule is a case-insensitive substring of the sender
func ShouldExclude(email core.RawEmail, rules []string) bool {
	_, ok := MatchRule(email, rules)
	return ok
}

// MatchRule returns the first rule that excludes the sender. Empty rules never match.
func MatchRule(email core.RawEmail, rules []string) (string, bool) {
	from := strings.ToLower(email.From)
	for _, rule := range rules {
		if rule == "" {
			continue
		}
		if strings.Contains(from, strings.ToLower(rule)) {
			return rule, true
		}
	}
	return "", false
}

// Checker holds a fixed set of exclusion rules for one run
type Checker struct {
	rules  []string
	logger *zap.Logger
}

// NewChecker creates a new exclusion checker. Duplicate rules are dropped.
func NewChecker(rules []string, logger *zap.Logger) *Checker {
	normalized := make([]string, 0, len(rules))
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		r = strings.ToLower(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		normalized = append(normalized, r)
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized exclusion checker", zap.Int("rules", len(normalized)))
	}

	return &Checker{
		rules:  normalized,
		logger: logger,
	}
}

// Rules returns the normalized rules
func (c *Checker) Rules() []string {
	return append([]string(nil), c.rules...)
}

// ShouldExclude implements core.SenderFilter
func (c *Checker) ShouldExclude(email core.RawEmail) bool {
	rule, ok := MatchRule(email, c.rules)
	if ok && c.logger != nil {
		c.logger.Debug("Sender is excluded",
			zap.String("rule", rule),
			zap.String("sender", email.From))
	}
	return ok
}

// ParseRules reads one pattern per line. Blank lines and # comments are ignored.
func ParseRules(r io.Reader) ([]string, error) {
	var rules []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules = append(rules, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read exclusion rules: %w", err)
	}
	return rules, nil
}

// LoadRules reads exclusion rules from a file
func LoadRules(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open exclusion rules: %w", err)
	}
	defer f.Close()
	return ParseRules(f)
}
