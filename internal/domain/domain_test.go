package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"domain property", "sc-domain:example.com", "example.com"},
		{"https with www and slash", "https://www.example.com/", "example.com"},
		{"plain http", "http://example.com", "example.com"},
		{"path is kept", "https://example.com/blog/", "example.com/blog"},
		{"surrounding whitespace", "  https://example.com/  ", "example.com"},
		{"already canonical", "example.com", "example.com"},
		{"subdomain kept", "https://shop.example.com/", "shop.example.com"},
		{"empty", "", ""},
		{"only whitespace", "   ", ""},
		{"nested prefixes", "sc-domain:https://www.www.example.com//", "example.com"},
		{"mixed case host", "https://WWW.Example.COM/", "example.com"},
		{"uppercase scheme", "HTTPS://Example.com", "example.com"},
		{"uppercase domain property", "SC-DOMAIN:Example.com", "example.com"},
		{"path keeps case", "https://Example.com/Blog/", "example.com/Blog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_SamePropertyDifferentForms(t *testing.T) {
	assert.Equal(t, Normalize("sc-domain:example.com"), Normalize("https://www.example.com/"))
	assert.Equal(t, "example.com", Normalize("sc-domain:example.com"))
	assert.Equal(t, Normalize("sc-domain:example.com"), Normalize("https://Example.com/"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"sc-domain:example.com",
		"https://www.example.com/",
		"http://www.www.example.com///",
		" www.https://example.com ",
		"sc-domain:sc-domain:example.com",
		"https://example.com/path/",
		"HTTPS://WWW.Example.com/Path/",
		"SC-DOMAIN:Example.COM",
		"Http://Www.Example.com",
		"www.",
		"/",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestDisplayURL(t *testing.T) {
	assert.Equal(t, "https://example.com", DisplayURL("example.com"))
	assert.Empty(t, DisplayURL(""))
}

func TestFaviconURL(t *testing.T) {
	assert.Equal(
		t,
		"https://www.google.com/s2/favicons?domain=example.com&sz=64",
		FaviconURL("example.com"),
	)
	assert.Empty(t, FaviconURL(""))
}
