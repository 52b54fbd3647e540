package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/mikey/job-tracker/internal/adapters/jsonstore"
	"github.com/mikey/job-tracker/internal/secrets"
)

// execute runs the root command with args and returns stdout
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	trackOpts.input, trackOpts.demo, trackOpts.noColor, trackOpts.details = "", false, false, false
	trackOpts.sortBy, trackOpts.export, trackOpts.mergePolicy = "first-seen", "", ""
	trackOpts.exclude, trackOpts.excludeFiles = nil, nil
	secretOpts.provider, secretOpts.username = "", ""
	cliFlags.ConfigFile = filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cliFlags.ConfigFile, []byte("mail:\n  provider: gmail\n"), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--quiet"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
		assert.NotEmpty(t, cmd.Short, cmd.Name())
	}
	for _, want := range []string{"track", "harvest", "suggest", "inspect", "secret"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestDemoMailbox(t *testing.T) {
	emails, err := jsonstore.Decode(demoMailbox())
	require.NoError(t, err)
	assert.Len(t, emails, 11)
	assert.Equal(t, "email1", emails[0].ID)
	assert.Equal(t, 2025, emails[0].Date.Year())
}

func TestTrack_Demo(t *testing.T) {
	out, err := execute(t, "", "track", "--demo", "--no-color", "--exclude", "newsletter")
	require.NoError(t, err)

	assert.Contains(t, out, "===== JOB APPLICATION TRACKER =====")
	assert.Contains(t, out, "Techcorp")
	assert.Contains(t, out, "Datasoft")
	assert.Contains(t, out, "Rejected")
	assert.Contains(t, out, "Companies that invited you for interviews:")
	assert.NotContains(t, out, "email10", "excluded sender never reaches the table")
	assert.NotContains(t, out, "\x1b[")
}

func TestTrack_ExportSorted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps.csv")
	out, err := execute(t, "", "track", "--demo", "--no-color", "--sort", "company", "--export", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Greater(t, len(rows), 2)
	assert.Equal(t, []string{"company", "position", "status", "email_ids", "email_count"}, rows[0])
	for i := 2; i < len(rows); i++ {
		assert.LessOrEqual(t, strings.ToLower(rows[i-1][0]), strings.ToLower(rows[i][0]))
	}
}

func TestTrack_Errors(t *testing.T) {
	_, err := execute(t, "", "track", "--input", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "not found")

	_, err = execute(t, "", "track", "--demo", "--sort", "status")
	assert.ErrorContains(t, err, "unsupported sort order")

	_, err = execute(t, "", "track", "--demo", "--merge-policy", "random")
	assert.ErrorContains(t, err, "unsupported merge policy")
}

func TestTrack_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
	  {"id": "a1", "from": "jobs@acme.com", "subject": "Data Engineer application", "date": "2025-03-01 10:00:00", "content": "Unfortunately we will not be moving forward."}
	]`), 0o600))

	out, err := execute(t, "", "track", "--input", path, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Data Engineer")
	assert.Contains(t, out, "Rejections: 1 (100.0%)")
}

func TestInspect_Stdin(t *testing.T) {
	msg := "From: Talent <talent@innovate.com>\r\nSubject: Next steps for your Software Developer application\r\n\r\nPlease let us know your availability.\r\n"
	out, err := execute(t, msg, "inspect", "-", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Innovate")
	assert.Contains(t, out, "Software Developer")
	assert.Contains(t, out, "Interview")
	assert.Contains(t, out, `"your availability"`)
}

func TestSecret_SetDelete(t *testing.T) {
	keyring.MockInit()

	out, err := execute(t, "app-password\n", "secret", "set", "--username", "me@gmail.com")
	require.NoError(t, err)
	assert.Contains(t, out, "job-tracker:imap:me@gmail.com@imap.gmail.com")

	pw, err := secrets.GetIMAPPassword("job-tracker:imap:me@gmail.com@imap.gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "app-password", pw)

	_, err = execute(t, "", "secret", "delete", "--username", "me@gmail.com")
	require.NoError(t, err)
	_, err = secrets.GetIMAPPassword("job-tracker:imap:me@gmail.com@imap.gmail.com")
	assert.ErrorIs(t, err, secrets.ErrPasswordNotFound)
}

func TestHarvest_RequiresCredentials(t *testing.T) {
	keyring.MockInit()
	t.Setenv("YAHOO_USERNAME", "")
	t.Setenv("YAHOO_APP_PASSWORD", "")

	_, err := execute(t, "", "harvest", "--provider", "yahoo")
	assert.ErrorContains(t, err, "no username")
}
