// Package imapsource harvests emails from an IMAP mailbox over TLS.
package imapsource

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/mikey/job-tracker/internal/adapters/message"
	"github.com/mikey/job-tracker/internal/core"
	"github.com/mikey/job-tracker/internal/ports"
	"go.uber.org/zap"
)

// ProviderHosts maps supported provider names to their IMAP hosts
var ProviderHosts = map[string]string{
	"gmail":   "imap.gmail.com",
	"outlook": "outlook.office365.com",
	"yahoo":   "imap.mail.yahoo.com",
	"aol":     "imap.aol.com",
	"zoho":    "imap.zoho.com",
}

// DefaultPort is the IMAPS port
const DefaultPort = 993

// ResolveServer returns host:port for a provider, or for an explicit host when one is set
func ResolveServer(provider, host string, port int) (string, error) {
	if port <= 0 {
		port = DefaultPort
	}
	if host == "" {
		var ok bool
		host, ok = ProviderHosts[strings.ToLower(strings.TrimSpace(provider))]
		if !ok {
			return "", fmt.Errorf("unsupported email provider %q", provider)
		}
	}
	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}

// Options configures a Source
type Options struct {
	Addr     string
	Username string
	Password string
	Mailbox  string
	Timeout  time.Duration
	// Filter drops excluded senders before their body is parsed; may be nil
	Filter core.SenderFilter
}

// Source reads a mailbox without changing its state
type Source struct {
	opts   Options
	logger *zap.Logger
}

// NewSource creates a new IMAP source
func NewSource(opts Options, logger *zap.Logger) *Source {
	if opts.Mailbox == "" {
		opts.Mailbox = "INBOX"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{opts: opts, logger: logger}
}

var _ ports.EmailSource = (*Source)(nil)

// Fetch pulls messages newest first. Messages are fetched with BODY.PEEK[] so
// the \Seen flag is left alone.
func (s *Source) Fetch(ctx context.Context, fo ports.FetchOptions) ([]core.RawEmail, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	mailbox := fo.Mailbox
	if mailbox == "" {
		mailbox = s.opts.Mailbox
	}

	c, stop, err := s.dialAndLogin(ctx)
	if err != nil {
		return nil, err
	}
	defer stop()
	defer s.logoutAndClose(c)

	if _, err := c.Select(mailbox, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("imap select %s: %w", mailbox, err)
	}

	criteria := &imap.SearchCriteria{}
	if !fo.Since.IsZero() {
		criteria.Since = fo.Since
	}
	searchData, err := c.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap uid search: %w", err)
	}

	uids := newestFirst(searchData.AllUIDs(), fo.Limit)
	if len(uids) == 0 {
		return []core.RawEmail{}, nil
	}
	s.logger.Info("Fetching messages", zap.String("mailbox", mailbox), zap.Int("count", len(uids)))

	bodyAll := &imap.FetchItemBodySection{Specifier: imap.PartSpecifierNone, Peek: true}
	fetchCmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{bodyAll},
	})
	defer fetchCmd.Close()

	byUID := make(map[imap.UID]core.RawEmail, len(uids))
	excluded := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch collect: %w", err)
		}

		email, err := toRawEmail(buf.UID, buf.Envelope, buf.FindBodySection(bodyAll))
		if err != nil {
			s.logger.Warn("Skipping unreadable message", zap.Uint32("uid", uint32(buf.UID)), zap.Error(err))
			continue
		}
		if s.opts.Filter != nil && s.opts.Filter.ShouldExclude(email) {
			excluded++
			continue
		}
		byUID[buf.UID] = email
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}

	// servers may return FETCH responses in any order
	out := make([]core.RawEmail, 0, len(byUID))
	for _, uid := range uids {
		if e, ok := byUID[uid]; ok {
			out = append(out, e)
		}
	}

	s.logger.Info("Fetched messages",
		zap.Int("kept", len(out)),
		zap.Int("excluded", excluded))
	return out, nil
}

// newestFirst reverses ascending UIDs and keeps at most limit of them
func newestFirst(uids []imap.UID, limit int) []imap.UID {
	out := slices.Clone(uids)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// toRawEmail prefers decoded envelope fields and falls back to the parsed headers
func toRawEmail(uid imap.UID, env *imap.Envelope, raw []byte) (core.RawEmail, error) {
	if len(raw) == 0 {
		return core.RawEmail{}, errors.New("empty body section")
	}
	email, err := message.ToRawEmail(raw, strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		return core.RawEmail{}, err
	}
	if env == nil {
		return email, nil
	}
	if email.Subject == "" {
		email.Subject = message.DecodeHeader(env.Subject)
	}
	if email.From == "" {
		email.From = joinAddrs(env.From)
	}
	if email.Date.IsZero() {
		email.Date = env.Date
	}
	return email, nil
}

func joinAddrs(addrs []imap.Address) string {
	parts := make([]string, 0, len(addrs))
	for i := range addrs {
		a := &addrs[i]
		addr := strings.TrimSpace(a.Addr())
		if addr == "" {
			addr = strings.TrimSpace(a.Name)
		}
		if addr != "" {
			parts = append(parts, addr)
		}
	}
	return strings.Join(parts, ", ")
}

func (s *Source) dialAndLogin(ctx context.Context) (*imapclient.Client, func() bool, error) {
	if s.opts.Addr == "" {
		return nil, nil, errors.New("imap address is required")
	}
	if s.opts.Username == "" || s.opts.Password == "" {
		return nil, nil, errors.New("imap username and password are required")
	}

	host, _, err := net.SplitHostPort(s.opts.Addr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid imap address %q: %w", s.opts.Addr, err)
	}

	c, err := imapclient.DialTLS(s.opts.Addr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("imap dial tls: %w", err)
	}

	// unblock pending commands when the caller gives up
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })

	if err := c.Login(s.opts.Username, s.opts.Password).Wait(); err != nil {
		stop()
		_ = c.Close()
		return nil, nil, fmt.Errorf("imap login: %w", err)
	}
	s.logger.Debug("IMAP login succeeded", zap.String("addr", s.opts.Addr), zap.String("user", s.opts.Username))
	return c, stop, nil
}

func (s *Source) logoutAndClose(c *imapclient.Client) {
	if err := c.Logout().Wait(); err != nil {
		s.logger.Debug("IMAP logout failed", zap.Error(err))
	}
	_ = c.Close()
}
