// Package jsonstore persists the email collection as a JSON array of
// {id, subject, from, date, content} objects.
package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mikey/job-tracker/internal/adapters/message"
	"github.com/mikey/job-tracker/internal/core"
)

// DateLayout is the layout dates are written in
const DateLayout = "2006-01-02 15:04:05"

// ErrEmptyMailbox is returned when a mailbox holds no emails
var ErrEmptyMailbox = errors.New("mailbox contains no emails")

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// emailDTO is the on-disk shape of one email
type emailDTO struct {
	ID      flexID `json:"id"`
	Subject string `json:"subject"`
	From    string `json:"from"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

// flexID accepts ids written as JSON strings or numbers
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("email id must be a string or number: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

// ParseDate accepts the stored layout, RFC 3339 and RFC 5322 dates.
// Unparseable or empty input yields the zero time.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if t, err := mail.ParseDate(s); err == nil {
		return t
	}
	return time.Time{}
}

// FormatDate renders t in DateLayout, or "" for the zero time
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func toCore(d emailDTO) core.RawEmail {
	id := strings.TrimSpace(string(d.ID))
	if id == "" {
		id = message.HashID(d.From, d.Subject, d.Date, d.Content)
	}
	return core.RawEmail{
		ID:      id,
		Subject: d.Subject,
		From:    d.From,
		Date:    ParseDate(d.Date),
		Content: d.Content,
	}
}

func fromCore(e core.RawEmail) emailDTO {
	return emailDTO{
		ID:      flexID(e.ID),
		Subject: e.Subject,
		From:    e.From,
		Date:    FormatDate(e.Date),
		Content: e.Content,
	}
}

// Decode reads a JSON mailbox. An empty array yields ErrEmptyMailbox.
func Decode(r io.Reader) ([]core.RawEmail, error) {
	var dtos []emailDTO
	if err := json.NewDecoder(r).Decode(&dtos); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyMailbox
		}
		return nil, fmt.Errorf("invalid mailbox JSON: %w", err)
	}
	if len(dtos) == 0 {
		return nil, ErrEmptyMailbox
	}

	emails := make([]core.RawEmail, 0, len(dtos))
	for _, d := range dtos {
		emails = append(emails, toCore(d))
	}
	return emails, nil
}

// Encode writes emails as an indented JSON array
func Encode(w io.Writer, emails []core.RawEmail) error {
	dtos := make([]emailDTO, 0, len(emails))
	for _, e := range emails {
		dtos = append(dtos, fromCore(e))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(dtos)
}

// Store is a mailbox file guarded by a mutex
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Load returns every stored email in file order
func (s *Store) Load() ([]core.RawEmail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]core.RawEmail, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mailbox %s: %w", s.path, err)
	}
	defer f.Close()

	emails, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return emails, nil
}

// Save replaces the stored collection
func (s *Store) Save(emails []core.RawEmail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(emails)
}

// save writes to a temp file in the same directory and renames it into place
func (s *Store) save(emails []core.RawEmail) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create mailbox directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp mailbox: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, emails); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode mailbox: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write mailbox: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace mailbox: %w", err)
	}
	return nil
}

// Append adds emails whose ids are not yet stored and returns how many were added.
// A missing or empty mailbox file starts a new collection.
func (s *Store) Append(emails ...core.RawEmail) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil && !errors.Is(err, os.ErrNotExist) && !errors.Is(err, ErrEmptyMailbox) {
		return 0, err
	}

	seen := make(map[string]struct{}, len(existing)+len(emails))
	for _, e := range existing {
		seen[e.ID] = struct{}{}
	}

	added := 0
	for _, e := range emails {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		existing = append(existing, e)
		added++
	}

	if added == 0 {
		return 0, nil
	}
	if err := s.save(existing); err != nil {
		return 0, err
	}
	return added, nil
}

// Count returns the number of stored emails, zero when the file does not exist
func (s *Store) Count() (int, error) {
	emails, err := s.Load()
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, ErrEmptyMailbox) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(emails), nil
}
