package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractor_Company(t *testing.T) {
	e := NewExtractor(DefaultExtractorOptions())

	tests := []struct {
		from     string
		expected string
	}{
		{"hr@acme.com", "Acme"},
		{"hr@hr.acme-corp.com", "Acme Corp"},
		{"Acme Recruiting <talent@acme.io>", "Acme"},
		{"careers@datasoft.co.uk", "Datasoft"},
		{"jobs@gaming.dev", "Gaming"},
		{"recruiter@eu.big_co.com", "Eu Big Co"},
		{"someone@gmail.com", ""},
		{"no address here", ""},
		{"broken@", ""},
		{"user@localhost", ""},
		{"hr@ACME.COM:587", "Acme"},
		{"notifications@greenhouse.io", "Greenhouse"},
		{"careers.com@careers.com", "Careers"},
	}

	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.Company(tt.from))
		})
	}
}

func TestExtractor_Position(t *testing.T) {
	e := NewExtractor(DefaultExtractorOptions())

	t.Run("subject match", func(t *testing.T) {
		assert.Equal(t, "Software Engineer", e.Position("Interview Invitation - software engineer", ""))
	})

	t.Run("subject wins over body", func(t *testing.T) {
		assert.Equal(t, "Data Engineer", e.Position("Your application for Data Engineer", "a Product Manager role"))
	})

	t.Run("falls back to body", func(t *testing.T) {
		assert.Equal(t, "Product Manager", e.Position("Next steps", "about the Product Manager role"))
	})

	t.Run("whole phrase only", func(t *testing.T) {
		assert.Equal(t, "", e.Position("Software Engineering culture", ""))
	})

	t.Run("earliest match wins", func(t *testing.T) {
		assert.Equal(t, "Data Scientist", e.Position("Data Scientist or Software Engineer", ""))
	})

	t.Run("longest title at the same position", func(t *testing.T) {
		assert.Equal(t, "Senior Software Engineer", e.Position("Senior Software Engineer opening", ""))
	})

	t.Run("whitespace inside title", func(t *testing.T) {
		assert.Equal(t, "Product Manager", e.Position("Product\n  Manager", ""))
	})

	t.Run("body scan is limited", func(t *testing.T) {
		body := strings.Repeat("x", 600) + " Software Engineer"
		assert.Equal(t, "", e.Position("", body))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Equal(t, "", e.Position("Hello", "world"))
	})
}

func TestExtractor_CustomOptions(t *testing.T) {
	e := NewExtractor(ExtractorOptions{
		Titles:        []string{"C++ Developer"},
		BodyScanChars: 0,
	})
	assert.Equal(t, "C++ Developer", e.Position("Senior c++ developer role", ""))
	assert.Equal(t, "Hr Acme", e.Company("x@hr.acme.com"))
	assert.Equal(t, "Gmail", e.Company("x@gmail.com"))
}

func TestExtractor_Deterministic(t *testing.T) {
	e := NewExtractor(DefaultExtractorOptions())
	email := RawEmail{From: "hr@acme.com", Subject: "Backend Engineer / Frontend Engineer"}
	c1, p1 := e.Extract(email)
	for i := 0; i < 10; i++ {
		c, p := e.Extract(email)
		assert.Equal(t, c1, c)
		assert.Equal(t, p1, p)
	}
	assert.Equal(t, "Acme", c1)
	assert.Equal(t, "Backend Engineer", p1)
}
