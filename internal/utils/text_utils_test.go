package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(nil)

	assert.Equal(t, "short", tp.TruncateText("short", 10))
	assert.Equal(t, "anything", tp.TruncateText("anything", 0))

	// "é" is two bytes; cutting inside it must back off to a rune boundary
	out := tp.TruncateText("café au lait", 4)
	assert.True(t, strings.HasPrefix(out, "caf"))
	assert.True(t, strings.HasSuffix(out, TruncationMarker))
	assert.True(t, utf8.ValidString(out))
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(nil)
	assert.Equal(t, "ok", tp.SanitizeUTF8("ok"))
	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
}

func TestProcessText(t *testing.T) {
	tp := NewTextProcessor(nil)
	assert.Equal(t, "Hello there friend", tp.ProcessText("  Hello\r\n\tthere   friend \n", 100))
	assert.Equal(t, "Hello"+TruncationMarker, tp.ProcessText("Hello   world", 5))
}
