package domain

import (
	"net/url"
	"strings"
)

const faviconEndpoint = "https://www.google.com/s2/favicons"

// Normalize converts a Search Console site identifier into the canonical
// domain used as the leaderboard key.
//
//	Normalize("sc-domain:example.com")    // "example.com"
//	Normalize("https://www.example.com/") // "example.com"
//	Normalize("https://Example.com/Blog") // "example.com/Blog"
//
// Host names are lowercased; a path keeps its case.
// Stripping repeats until nothing changes, so Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	d := strings.TrimSpace(raw)
	for {
		next := strip(d)
		if next == d {
			return d
		}
		d = next
	}
}

func strip(d string) string {
	d = lowerHost(strings.TrimSpace(d))
	d = strings.TrimPrefix(d, "sc-domain:")
	switch {
	case strings.HasPrefix(d, "https://"):
		d = strings.TrimPrefix(d, "https://")
	case strings.HasPrefix(d, "http://"):
		d = strings.TrimPrefix(d, "http://")
	}
	d = strings.TrimPrefix(d, "www.")
	d = strings.TrimRight(d, "/")
	return strings.TrimSpace(d)
}

// lowerHost lowercases everything before the first slash
func lowerHost(d string) string {
	host, path, found := strings.Cut(d, "/")
	if !found {
		return strings.ToLower(d)
	}
	return strings.ToLower(host) + "/" + path
}

// DisplayURL returns a clickable URL for an already normalized domain.
func DisplayURL(domain string) string {
	if domain == "" {
		return ""
	}
	return "https://" + domain
}

// FaviconURL returns the favicon image URL shown next to a leaderboard entry.
func FaviconURL(domain string) string {
	if domain == "" {
		return ""
	}
	q := url.Values{}
	q.Set("domain", domain)
	q.Set("sz", "64")
	return faviconEndpoint + "?" + q.Encode()
}
