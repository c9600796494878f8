package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRedirectSafe(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"/", true},
		{"/dashboard", true},
		{"/websites?sort=ctr&order=asc", true},
		{"", false},
		{"dashboard", false},
		{"//evil.com", false},
		{"/\\evil.com", false},
		{"https://evil.com/", false},
		{"http://localhost:8080/", false},
		{"javascript:alert(1)", false},
		{"/ok\r\nSet-Cookie: x=1", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRedirectSafe(tt.target))
		})
	}
}

func TestSafeRedirect(t *testing.T) {
	assert.Equal(t, "/me", SafeRedirect("/me", "/"))
	assert.Equal(t, "/", SafeRedirect("https://evil.com", "/"))
	assert.Equal(t, "/", SafeRedirect("", "/"))
}
