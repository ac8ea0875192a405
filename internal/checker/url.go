package checker

import "regexp"

// hostURL is a coarse sanity gate, not an RFC 3986 parser:
// scheme, dotted host with an alphabetic TLD, optional path without spaces.
var hostURL = regexp.MustCompile(`^https?://([a-zA-Z0-9.-]+)(\.[a-zA-Z]{2,})(/[^\s]*)?$`)

// IsValidURL reports whether candidate looks like an absolute http(s) URL.
func IsValidURL(candidate string) bool {
	return hostURL.MatchString(candidate)
}
