package inbox

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emersion/go-smtp"
	"github.com/mikey/job-tracker/internal/adapters/jsonstore"
	"github.com/mikey/job-tracker/internal/core"
	"github.com/mikey/job-tracker/internal/exclusion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestReceiver(t *testing.T, rules ...string) (*Receiver, *jsonstore.Store) {
	t.Helper()
	store := jsonstore.NewStore(filepath.Join(t.TempDir(), "output.json"))
	filter := exclusion.NewChecker(rules, zap.NewNop())
	return NewReceiver(store, filter, zap.NewNop(), Options{ListenAddress: "127.0.0.1:0"}), store
}

const interviewMail = "Message-ID: <m1@techcorp.com>\r\n" +
	"From: recruiter@techcorp.com\r\n" +
	"Subject: Interview Invitation for Software Developer Position\r\n" +
	"Date: Mon, 10 Mar 2025 09:30:45 +0000\r\n" +
	"\r\n" +
	"We would like to invite you for an interview.\r\n"

func TestSession_DataStoresEmail(t *testing.T) {
	r, store := newTestReceiver(t)

	sess, err := (&backend{receiver: r}).NewSession(nil)
	require.NoError(t, err)
	require.NoError(t, sess.Mail("recruiter@techcorp.com", nil))
	require.NoError(t, sess.Rcpt("me@example.com", nil))
	require.NoError(t, sess.Data(strings.NewReader(interviewMail)))

	emails, err := store.Load()
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, "m1@techcorp.com", emails[0].ID)
	assert.Equal(t, "recruiter@techcorp.com", emails[0].From)
	assert.Equal(t, "We would like to invite you for an interview.", emails[0].Content)

	// same Message-ID again is a no-op
	require.NoError(t, sess.Data(strings.NewReader(interviewMail)))
	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSession_GeneratesIDAndUsesEnvelopeSender(t *testing.T) {
	r, store := newTestReceiver(t)

	sess, err := (&backend{receiver: r}).NewSession(nil)
	require.NoError(t, err)
	require.NoError(t, sess.Mail("hr@acme.com", nil))
	require.NoError(t, sess.Data(strings.NewReader("Subject: Data Engineer\r\n\r\nThanks for applying\r\n")))

	emails, err := store.Load()
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Len(t, emails[0].ID, 36, "uuid id")
	assert.Equal(t, "hr@acme.com", emails[0].From)
	assert.False(t, emails[0].Date.IsZero())
}

func TestDeliver_ExcludedSender(t *testing.T) {
	r, store := newTestReceiver(t, "no-reply")

	kept, err := r.Deliver(context.Background(), &core.RawEmail{ID: "x", From: "no-reply@cloudtech.com"})
	require.NoError(t, err)
	assert.False(t, kept)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReceiver_EndToEnd(t *testing.T) {
	r, store := newTestReceiver(t)
	require.NoError(t, r.Start())
	defer r.Stop()

	assert.Error(t, r.Start(), "second start fails")

	err := smtp.SendMail(r.Addr(), nil, "recruiter@techcorp.com", []string{"me@example.com"}, strings.NewReader(interviewMail))
	require.NoError(t, err)

	emails, err := store.Load()
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, "Interview Invitation for Software Developer Position", emails[0].Subject)

	require.NoError(t, r.Stop())
	assert.NoError(t, r.Stop())
}
