// Package message turns raw RFC 822 bytes into plain-text emails.
package message

import (
	"bytes"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikey/job-tracker/internal/core"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	maxBodyBytes = 25 << 20
	maxPartBytes = 6 << 20
)

// Parsed holds the fields pulled out of a raw message
type Parsed struct {
	MessageID string
	Subject   string
	From      string
	Date      time.Time
	Text      string
}

// Parse reads a raw message. Unparseable input is treated as a plain-text body.
func Parse(raw []byte) (*Parsed, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty message")
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return &Parsed{Text: CollapseWhitespace(string(raw))}, nil
	}

	p := &Parsed{
		MessageID: strings.Trim(strings.TrimSpace(msg.Header.Get("Message-Id")), "<>"),
		Subject:   DecodeHeader(msg.Header.Get("Subject")),
		From:      DecodeHeader(msg.Header.Get("From")),
	}
	if ds := msg.Header.Get("Date"); ds != "" {
		if t, err := mail.ParseDate(ds); err == nil {
			p.Date = t
		}
	}

	body, err := io.ReadAll(io.LimitReader(msg.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read message body: %w", err)
	}
	p.Text = ExtractText(msg.Header, body)
	return p, nil
}

// ToRawEmail parses raw bytes into a RawEmail. The id is the Message-ID,
// then fallbackID, then a hash of the raw bytes.
func ToRawEmail(raw []byte, fallbackID string) (core.RawEmail, error) {
	p, err := Parse(raw)
	if err != nil {
		return core.RawEmail{}, err
	}

	id := p.MessageID
	if id == "" {
		id = fallbackID
	}
	if id == "" {
		id = HashID(string(raw))
	}

	return core.RawEmail{
		ID:      id,
		Subject: p.Subject,
		From:    p.From,
		Date:    p.Date,
		Content: p.Text,
	}, nil
}

// ExtractText returns the best plain-text rendition of a body.
// text/plain wins over text/html; HTML is converted when it is all there is.
func ExtractText(h mail.Header, body []byte) string {
	plain, htmlPart := extractParts(h.Get("Content-Type"), h.Get("Content-Transfer-Encoding"), body)
	switch {
	case strings.TrimSpace(plain) != "":
		return CollapseWhitespace(plain)
	case strings.TrimSpace(htmlPart) != "":
		return HTMLToText(htmlPart)
	default:
		return CollapseWhitespace(string(body))
	}
}

func extractParts(contentType, cte string, body []byte) (plain, htmlPart string) {
	cte = strings.ToLower(strings.TrimSpace(cte))

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(decodeTransferEncoding(body, cte)), ""
	}
	mediaType = strings.ToLower(mediaType)

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return string(decodeTransferEncoding(body, cte)), ""
		}
		mr := multipart.NewReader(bytes.NewReader(body), boundary)

		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			b, _ := io.ReadAll(io.LimitReader(part, maxPartBytes))
			pl, ht := extractParts(part.Header.Get("Content-Type"), part.Header.Get("Content-Transfer-Encoding"), b)
			if len(pl) > len(plain) {
				plain = pl
			}
			if len(ht) > len(htmlPart) {
				htmlPart = ht
			}
		}
		return plain, htmlPart
	}

	text := decodeCharset(decodeTransferEncoding(body, cte), params["charset"])
	switch {
	case strings.HasPrefix(mediaType, "text/html"):
		return "", text
	case strings.HasPrefix(mediaType, "text/"):
		return text, ""
	default:
		// attachments
		return "", ""
	}
}

func decodeTransferEncoding(b []byte, cte string) []byte {
	switch cte {
	case "base64":
		dec := base64.NewDecoder(base64.StdEncoding, bytes.NewReader(bytes.TrimSpace(b)))
		out, err := io.ReadAll(io.LimitReader(dec, maxPartBytes))
		if err != nil && len(out) == 0 {
			return b
		}
		return out
	case "quoted-printable":
		out, err := io.ReadAll(io.LimitReader(quotedprintable.NewReader(bytes.NewReader(b)), maxPartBytes))
		if err != nil && len(out) == 0 {
			return b
		}
		return out
	default:
		return b
	}
}

// decodeCharset converts b from the named charset to UTF-8, leaving it as is when unknown
func decodeCharset(b []byte, charset string) string {
	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset == "" || charset == "utf-8" || charset == "us-ascii" {
		return strings.ToValidUTF8(string(b), "�")
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	return string(out)
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, err
	}
	return enc.NewDecoder().Reader(input), nil
}

// DecodeHeader decodes RFC 2047 encoded words, returning the input on failure
func DecodeHeader(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	dec := &mime.WordDecoder{CharsetReader: charsetReader}
	out, err := dec.DecodeHeader(s)
	if err != nil {
		return s
	}
	return out
}

// HTMLToText strips markup, scripts and styles and collapses whitespace
func HTMLToText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return CollapseWhitespace(s)
	}
	doc.Find("script, style, head").Remove()
	// block elements would otherwise glue neighbouring words together
	doc.Find("br, p, div, li, tr, td, h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml(" ")
	})
	return CollapseWhitespace(doc.Text())
}

// CollapseWhitespace joins every run of whitespace into a single space
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// HashID derives a stable id from the given parts
func HashID(parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}
