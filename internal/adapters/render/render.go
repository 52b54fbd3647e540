// Package render prints tracker results to a terminal with lipgloss styles
// and exports records as CSV.
package render

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mikey/job-tracker/internal/core"
	"github.com/muesli/termenv"
)

// UnresolvedLabel is shown in place of an empty company or position
const UnresolvedLabel = "Unresolved"

// Options controls terminal output
type Options struct {
	NoColor       bool
	SortByCompany bool
	// Verbose adds classified email detail below the summary.
	Verbose bool
}

type styles struct {
	title     lipgloss.Style
	section   lipgloss.Style
	label     lipgloss.Style
	company   lipgloss.Style
	dim       lipgloss.Style
	cell      lipgloss.Style
	header    lipgloss.Style
	border    lipgloss.Style
	interview lipgloss.Style
	rejected  lipgloss.Style
	pending   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:     r.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		section:   r.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		label:     r.NewStyle().Foreground(lipgloss.Color("45")),
		company:   r.NewStyle().Foreground(lipgloss.Color("39")),
		dim:       r.NewStyle().Foreground(lipgloss.Color("245")),
		cell:      r.NewStyle().Padding(0, 1),
		header:    r.NewStyle().Padding(0, 1).Bold(true),
		border:    r.NewStyle().Foreground(lipgloss.Color("238")),
		interview: r.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		rejected:  r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		pending:   r.NewStyle().Foreground(lipgloss.Color("226")),
	}
}

// Printer writes styled reports to w
type Printer struct {
	w      io.Writer
	opts   Options
	styles styles
}

// NewPrinter creates a printer. Colour is detected from w unless NoColor is set.
func NewPrinter(w io.Writer, opts Options) *Printer {
	r := lipgloss.NewRenderer(w)
	if opts.NoColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{w: w, opts: opts, styles: newStyles(r)}
}

func (p *Printer) statusStyle(s core.Status) lipgloss.Style {
	switch s {
	case core.StatusInterview:
		return p.styles.interview
	case core.StatusRejected:
		return p.styles.rejected
	default:
		return p.styles.pending
	}
}

func orUnresolved(s string) string {
	if s == "" {
		return UnresolvedLabel
	}
	return s
}

// CountLabel renders the email count of a record
func CountLabel(n int) string {
	if n > 1 {
		return fmt.Sprintf("(%d emails)", n)
	}
	return strconv.Itoa(n)
}

// SortedByCompany returns a copy of records ordered by company then position
func SortedByCompany(records []core.ApplicationRecord) []core.ApplicationRecord {
	out := make([]core.ApplicationRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := strings.ToLower(out[i].Company), strings.ToLower(out[j].Company)
		if ci != cj {
			return ci < cj
		}
		return strings.ToLower(out[i].Position) < strings.ToLower(out[j].Position)
	})
	return out
}

// Report prints the title, the records table, the summary and the interview list
func (p *Printer) Report(result *core.RunResult) error {
	if len(result.Records) == 0 {
		_, err := fmt.Fprintln(p.w, p.styles.dim.Render("No job application emails found."))
		return err
	}

	records := result.Records
	if p.opts.SortByCompany {
		records = SortedByCompany(records)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(p.styles.title.Render("===== JOB APPLICATION TRACKER ====="))
	b.WriteString("\n\n")
	b.WriteString(p.recordsTable(records))
	b.WriteString("\n\n")
	b.WriteString(p.summary(result))
	if p.opts.Verbose && len(result.Classified) > 0 {
		b.WriteString("\n")
		b.WriteString(p.classifiedTable(result.Classified))
		b.WriteString("\n")
	}

	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p *Printer) recordsTable(records []core.ApplicationRecord) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			orUnresolved(r.Company),
			orUnresolved(r.Position),
			string(r.Status),
			strings.Join(r.EmailIDs, ", "),
			CountLabel(r.Count),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.styles.border).
		Headers("Company", "Position", "Status", "Email IDs", "Count").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.styles.header
			}
			switch col {
			case 0:
				if records[row].Unresolved {
					return p.styles.cell.Inherit(p.styles.dim)
				}
				return p.styles.cell.Inherit(p.styles.company)
			case 2:
				return p.styles.cell.Inherit(p.statusStyle(records[row].Status))
			}
			return p.styles.cell
		})
	return t.Render()
}

func (p *Printer) summary(result *core.RunResult) string {
	s := result.Stats
	var b strings.Builder

	b.WriteString(p.styles.section.Render("Summary"))
	b.WriteString("\n")
	line := func(label, value string) {
		fmt.Fprintf(&b, "  %s %s\n", p.styles.label.Render(label+":"), value)
	}
	line("Total Unique Company-Position Combinations", strconv.Itoa(s.Total))
	line("Companies with Interviews", fmt.Sprintf("%d (%.1f%%)", s.CompaniesWithInterviews, s.Percent(s.CompaniesWithInterviews)))
	line("Total Interview Opportunities", p.styles.interview.Render(fmt.Sprintf("%d (%.1f%%)", s.Interviews, s.Percent(s.Interviews))))
	line("Rejections", p.styles.rejected.Render(fmt.Sprintf("%d (%.1f%%)", s.Rejections, s.Percent(s.Rejections))))
	line("Pending", p.styles.pending.Render(fmt.Sprintf("%d (%.1f%%)", s.Pending, s.Percent(s.Pending))))
	if result.Excluded > 0 || result.Irrelevant > 0 || result.Duplicates > 0 {
		skipped := fmt.Sprintf("%d excluded, %d unrelated", result.Excluded, result.Irrelevant)
		if result.Duplicates > 0 {
			skipped += fmt.Sprintf(", %d duplicate", result.Duplicates)
		}
		line("Skipped", p.styles.dim.Render(skipped))
	}

	if len(s.InterviewCompanies) > 0 {
		b.WriteString("\n")
		b.WriteString(p.styles.section.Render("Companies that invited you for interviews:"))
		b.WriteString("\n")
		for _, c := range s.InterviewCompanies {
			fmt.Fprintf(&b, "  - %s\n", p.styles.interview.Render(c))
		}
	}
	return b.String()
}

func (p *Printer) classifiedTable(classified []core.ClassifiedEmail) string {
	rows := make([][]string, 0, len(classified))
	for _, ce := range classified {
		evidence := ce.Evidence
		if evidence == "" {
			evidence = "-"
		}
		rows = append(rows, []string{
			ce.Source.ID,
			ce.Source.From,
			orUnresolved(ce.Company),
			orUnresolved(ce.Position),
			string(ce.Status),
			evidence,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.styles.border).
		Headers("ID", "From", "Company", "Position", "Status", "Evidence").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.styles.header
			}
			if col == 4 {
				return p.styles.cell.Inherit(p.statusStyle(classified[row].Status))
			}
			return p.styles.cell
		}).
		Render()
}

// Suggestions prints advisory LLM suggestions for unresolved emails
func (p *Printer) Suggestions(suggestions []core.Suggestion) error {
	if len(suggestions) == 0 {
		_, err := fmt.Fprintln(p.w, p.styles.dim.Render("No unresolved emails need suggestions."))
		return err
	}

	rows := make([][]string, 0, len(suggestions))
	for _, s := range suggestions {
		rows = append(rows, []string{
			s.EmailID,
			orUnresolved(s.Company),
			orUnresolved(s.Position),
			string(s.Status),
			fmt.Sprintf("%.2f", s.Confidence),
			s.Explanation,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.styles.border).
		Headers("Email ID", "Company", "Position", "Status", "Confidence", "Explanation").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.styles.header
			}
			if col == 3 {
				return p.styles.cell.Inherit(p.statusStyle(suggestions[row].Status))
			}
			return p.styles.cell
		})

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(p.styles.title.Render("===== SUGGESTIONS (advisory) ====="))
	b.WriteString("\n\n")
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(p.styles.dim.Render(fmt.Sprintf("Model: %s. Suggestions do not change tracked records.", suggestions[0].ModelUsed)))
	b.WriteString("\n")

	_, err := io.WriteString(p.w, b.String())
	return err
}

// Inspection prints how a single email was read
func (p *Printer) Inspection(ce core.ClassifiedEmail, excluded bool) error {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", p.styles.label.Render(fmt.Sprintf("%-10s", label+":")), value)
	}

	b.WriteString("\n")
	b.WriteString(p.styles.section.Render("=== Email Summary ==="))
	b.WriteString("\n")
	field("ID", ce.Source.ID)
	field("From", ce.Source.From)
	field("Subject", ce.Source.Subject)
	if !ce.Source.Date.IsZero() {
		field("Date", ce.Source.Date.Format("2006-01-02 15:04:05"))
	}
	field("Body", fmt.Sprintf("%d bytes", len(ce.Source.Content)))
	if p.opts.Verbose {
		preview := []rune(ce.Source.Content)
		if len(preview) > 500 {
			preview = append(preview[:500], []rune("...")...)
		}
		b.WriteString("\n")
		b.WriteString(p.styles.dim.Render(string(preview)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.styles.section.Render("=== Results ==="))
	b.WriteString("\n")
	if excluded {
		field("Excluded", p.styles.rejected.Render("yes, sender matches an exclusion rule"))
	}
	field("Company", orUnresolved(ce.Company))
	field("Position", orUnresolved(ce.Position))
	field("Status", p.statusStyle(ce.Status).Render(string(ce.Status)))
	evidence := ce.Evidence
	if evidence == "" {
		evidence = "no trigger phrase, default status"
	} else {
		evidence = strconv.Quote(evidence)
	}
	field("Evidence", evidence)

	_, err := io.WriteString(p.w, b.String())
	return err
}
