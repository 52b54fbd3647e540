package core

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultSubdomainPrefixes are mail-sending labels dropped in front of a company domain
var DefaultSubdomainPrefixes = []string{
	"hr", "mail", "email", "jobs", "careers", "talent", "recruiting",
	"recruitment", "info", "noreply", "no-reply", "notifications", "em", "mg", "www",
}

// DefaultPersonalDomains are webmail providers that never name an employer
var DefaultPersonalDomains = []string{
	"gmail", "googlemail", "hotmail", "outlook", "live", "yahoo", "aol",
	"icloud", "proton", "protonmail",
}

// secondLevelSuffixes sit between the registrable label and a two-letter ccTLD (acme.co.uk)
var secondLevelSuffixes = map[string]struct{}{
	"co": {}, "com": {}, "org": {}, "net": {}, "ac": {}, "gov": {}, "edu": {},
}

// ExtractorOptions configures the field extractor
type ExtractorOptions struct {
	Titles            []string
	BodyScanChars     int
	SubdomainPrefixes []string
	PersonalDomains   []string
}

// DefaultExtractorOptions returns the built-in extractor configuration
func DefaultExtractorOptions() ExtractorOptions {
	return ExtractorOptions{
		Titles:            DefaultJobTitles,
		BodyScanChars:     500,
		SubdomainPrefixes: DefaultSubdomainPrefixes,
		PersonalDomains:   DefaultPersonalDomains,
	}
}

type titlePattern struct {
	title string
	re    *regexp.Regexp
}

// Extractor derives company and position from an email.
//
// Company names come from the sender's domain. Mail relays and hosted
// applicant-tracking systems (sendgrid, mailgun, greenhouse, lever, ...) send
// on behalf of employers, so their names show up as the company; there is no
// general way to tell them apart from a real employer domain.
type Extractor struct {
	titles        []titlePattern
	bodyScanChars int
	prefixes      map[string]struct{}
	personal      map[string]struct{}
}

// NewExtractor creates an extractor
func NewExtractor(opts ExtractorOptions) *Extractor {
	e := &Extractor{
		bodyScanChars: opts.BodyScanChars,
		prefixes:      toSet(opts.SubdomainPrefixes),
		personal:      toSet(opts.PersonalDomains),
	}
	for _, t := range opts.Titles {
		t = strings.Join(strings.Fields(t), " ")
		if t == "" {
			continue
		}
		quoted := strings.ReplaceAll(regexp.QuoteMeta(t), " ", `\s+`)
		e.titles = append(e.titles, titlePattern{
			title: t,
			re:    regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(` + quoted + `)(?:$|[^\p{L}\p{N}])`),
		})
	}
	return e
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = strings.ToLower(strings.TrimSpace(it))
		if it != "" {
			set[it] = struct{}{}
		}
	}
	return set
}

// Extract returns the company and position for an email. Either may be empty.
func (e *Extractor) Extract(email RawEmail) (company, position string) {
	return e.Company(email.From), e.Position(email.Subject, email.Content)
}

// Company derives a display name from the domain of a sender string
func (e *Extractor) Company(from string) string {
	labels := e.domainLabels(from)
	if len(labels) == 0 {
		return ""
	}

	caser := cases.Title(language.English)
	words := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.NewReplacer("-", " ", "_", " ").Replace(l)
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			words = append(words, caser.String(l))
		}
	}
	return strings.Join(words, " ")
}

// domainLabels returns the company-bearing labels of the sender domain
func (e *Extractor) domainLabels(from string) []string {
	at := strings.LastIndex(from, "@")
	if at < 0 {
		return nil
	}
	domain := from[at+1:]
	if cut := strings.IndexAny(domain, "> /:?#;,\t\r\n\"'"); cut >= 0 {
		domain = domain[:cut]
	}
	domain = strings.Trim(strings.ToLower(domain), ".")
	if domain == "" {
		return nil
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return nil
	}
	tld := labels[len(labels)-1]
	labels = labels[:len(labels)-1]
	if len(tld) == 2 && len(labels) > 1 {
		if _, ok := secondLevelSuffixes[labels[len(labels)-1]]; ok {
			labels = labels[:len(labels)-1]
		}
	}

	for len(labels) > 1 {
		if _, ok := e.prefixes[labels[0]]; !ok {
			break
		}
		labels = labels[1:]
	}

	if _, ok := e.personal[labels[len(labels)-1]]; ok {
		return nil
	}
	return labels
}

// Position finds a known job title in the subject, falling back to the start of the body
func (e *Extractor) Position(subject, content string) string {
	if t := e.findTitle(subject); t != "" {
		return t
	}
	return e.findTitle(prefixRunes(content, e.bodyScanChars))
}

// findTitle returns the earliest title in text; ties go to the longest title
func (e *Extractor) findTitle(text string) string {
	best, bestPos := "", -1
	for _, tp := range e.titles {
		loc := tp.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		pos := loc[2]
		if bestPos < 0 || pos < bestPos || (pos == bestPos && len(tp.title) > len(best)) {
			best, bestPos = tp.title, pos
		}
	}
	return best
}

func prefixRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
