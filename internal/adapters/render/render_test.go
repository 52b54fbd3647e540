package render

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikey/job-tracker/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *core.RunResult {
	records := []core.ApplicationRecord{
		{Company: "techcorp", Position: "Software Engineer", Status: core.StatusInterview, EmailIDs: []string{"email1", "email2"}, Count: 2},
		{Company: "datasoft", Position: "Data Engineer", Status: core.StatusRejected, EmailIDs: []string{"email3"}, Count: 1},
		{Company: "", Position: "", Status: core.StatusPending, EmailIDs: []string{"email9"}, Count: 1, Unresolved: true},
	}
	return &core.RunResult{
		Records: records,
		Stats:   core.ComputeStats(records),
		Classified: []core.ClassifiedEmail{
			{Source: core.RawEmail{ID: "email1", From: "hr@techcorp.com"}, Company: "techcorp", Position: "Software Engineer", Status: core.StatusInterview, Evidence: "interview"},
		},
		Excluded: 2,
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, Options{NoColor: true})
	require.NoError(t, p.Report(sampleResult()))

	out := buf.String()
	assert.NotContains(t, out, "\x1b[", "no escape sequences without colour")
	assert.Contains(t, out, "===== JOB APPLICATION TRACKER =====")
	for _, h := range []string{"Company", "Position", "Status", "Email IDs", "Count"} {
		assert.Contains(t, out, h)
	}
	assert.Contains(t, out, "email1, email2")
	assert.Contains(t, out, "(2 emails)")
	assert.Contains(t, out, UnresolvedLabel)
	assert.Contains(t, out, "Total Unique Company-Position Combinations: 3")
	assert.Contains(t, out, "Companies with Interviews: 1 (33.3%)")
	assert.Contains(t, out, "Rejections: 1 (33.3%)")
	assert.Contains(t, out, "2 excluded, 0 unrelated")
	assert.Contains(t, out, "Companies that invited you for interviews:")
	assert.Contains(t, out, "  - techcorp")
	assert.NotContains(t, out, "Evidence", "classified detail only when verbose")
}

func TestReport_RecordOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, Options{NoColor: true}).Report(sampleResult()))
	out := buf.String()
	assert.Less(t, strings.Index(out, "techcorp"), strings.Index(out, "datasoft"), "first-seen order is kept")

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, Options{NoColor: true, SortByCompany: true}).Report(sampleResult()))
	out = buf.String()
	assert.Less(t, strings.Index(out, "datasoft"), strings.Index(out, "techcorp"))
}

func TestReport_Verbose(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, Options{NoColor: true, Verbose: true}).Report(sampleResult()))
	assert.Contains(t, buf.String(), "Evidence")
	assert.Contains(t, buf.String(), "hr@techcorp.com")
}

func TestReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, Options{NoColor: true}).Report(&core.RunResult{}))
	assert.Equal(t, "No job application emails found.\n", buf.String())
}

func TestSortedByCompany_DoesNotMutate(t *testing.T) {
	records := sampleResult().Records
	sorted := SortedByCompany(records)
	assert.Equal(t, "techcorp", records[0].Company)
	assert.Equal(t, "", sorted[0].Company)
	assert.Equal(t, "datasoft", sorted[1].Company)
}

func TestCountLabel(t *testing.T) {
	assert.Equal(t, "1", CountLabel(1))
	assert.Equal(t, "(3 emails)", CountLabel(3))
}

func TestSuggestions(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, Options{NoColor: true})
	require.NoError(t, p.Suggestions([]core.Suggestion{
		{EmailID: "email9", Company: "Acme", Position: "", Status: core.StatusInterview, Confidence: 0.75, Explanation: "invite", ModelUsed: "gpt-4o-mini"},
	}))
	out := buf.String()
	assert.Contains(t, out, "email9")
	assert.Contains(t, out, "0.75")
	assert.Contains(t, out, UnresolvedLabel)
	assert.Contains(t, out, "Model: gpt-4o-mini")

	buf.Reset()
	require.NoError(t, p.Suggestions(nil))
	assert.Contains(t, buf.String(), "No unresolved emails")
}

func TestInspection(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, Options{NoColor: true})
	ce := core.ClassifiedEmail{
		Source:  core.RawEmail{ID: "x", From: "jobs@acme.com", Subject: "Next steps", Content: "hello"},
		Company: "acme",
		Status:  core.StatusPending,
	}
	require.NoError(t, p.Inspection(ce, true))
	out := buf.String()
	assert.Contains(t, out, "jobs@acme.com")
	assert.Contains(t, out, "exclusion rule")
	assert.Regexp(t, `Position:\s+`+UnresolvedLabel, out)
	assert.Contains(t, out, "default status")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResult().Records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, []string{"techcorp", "Software Engineer", "Interview", "email1;email2", "2"}, rows[1])
	assert.Equal(t, UnresolvedLabel, rows[3][0])
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "apps.csv")
	require.NoError(t, ExportCSV(path, sampleResult().Records))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "company,position,status,email_ids,email_count\n"))
}

func TestReport_SkippedDuplicates(t *testing.T) {
	result := sampleResult()
	result.Duplicates = 3

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, Options{NoColor: true}).Report(result))
	assert.Contains(t, buf.String(), "2 excluded, 0 unrelated, 3 duplicate")
}
