package util

import (
	"net/url"
	"strings"
)

// IsRedirectSafe reports whether target is a same-origin path that can be
// used as a post-login redirect. Only relative paths starting with a single
// "/" are accepted; anything with a scheme or host is rejected.
func IsRedirectSafe(target string) bool {
	if target == "" || !strings.HasPrefix(target, "/") {
		return false
	}

	// Must not contain newlines or carriage returns (header injection)
	if strings.ContainsAny(target, "\r\n") {
		return false
	}
	// Reject protocol-relative URLs like "//evil.com" and "/\evil.com"
	if strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return false
	}

	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// SafeRedirect returns target when it passes IsRedirectSafe and fallback otherwise
func SafeRedirect(target, fallback string) string {
	if IsRedirectSafe(target) {
		return target
	}
	return fallback
}
