package email

import (
	"net/mail"
	"strings"
)

// Valid reports whether s is a single bare address (no display name, no
// surrounding whitespace) whose domain has at least one dot.
func Valid(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	parsed, err := mail.ParseAddress(s)
	if err != nil || parsed.Name != "" || parsed.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at <= 0 {
		return false
	}
	domain := s[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && !strings.HasSuffix(domain, ".")
}

// FormatAddress renders a header value such as `Reģistrācija <noreply@x.lv>`.
// Non-ASCII display names are RFC 2047 encoded.
func FormatAddress(name, address string) string {
	if name == "" {
		return address
	}
	a := mail.Address{Name: name, Address: address}
	return a.String()
}

// Domain returns the part after the last '@', or "" when there is none.
func Domain(address string) string {
	at := strings.LastIndexByte(address, '@')
	if at < 0 {
		return ""
	}
	return address[at+1:]
}
