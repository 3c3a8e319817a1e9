package domain

import (
	"fmt"
	"strings"

	dErrors "registrar/pkg/domain-errors"
)

// About identifies the channel through which a registrant heard of the event.
// Invariant: the value must be one of the four supported channels.
//
// Usage: construct via ParseAbout at trust boundaries; direct casting bypasses
// validation and makes Phrase return an error.
type About string

const (
	AboutSite    About = "site"
	AboutSocial  About = "social"
	AboutFriends About = "friends"
	AboutOther   About = "other"
)

// AllAbout lists the channels in the order the form presents them.
var AllAbout = []About{AboutSite, AboutSocial, AboutFriends, AboutOther}

// ParseAbout normalizes (trim, lower-case) and validates external input.
//
// Errors: returns CodeValidation when the value is empty or unsupported.
func ParseAbout(s string) (About, error) {
	a := About(strings.ToLower(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid about channel")
	}
	return a, nil
}

// IsValid checks if the value is one of the supported channels.
func (a About) IsValid() bool {
	switch a {
	case AboutSite, AboutSocial, AboutFriends, AboutOther:
		return true
	}
	return false
}

// Phrase returns the human-readable Latvian phrase recorded in the ledger and
// shown to the administrator. other interpolates the registrant's own text.
func (a About) Phrase(other string) (string, error) {
	switch a {
	case AboutSite:
		return "Projekta “Skola – kopiena” mājaslapā", nil
	case AboutSocial:
		return "Projekta “Skola – kopiena” sociālajos tīklos (Facebook, Instagram)", nil
	case AboutFriends:
		return "No kolēģiem / draugiem", nil
	case AboutOther:
		return "Cits: " + other, nil
	}
	return "", fmt.Errorf("no phrase for about channel %q", string(a))
}

// String returns the wire value.
func (a About) String() string {
	return string(a)
}
