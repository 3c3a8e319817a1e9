package models

import "registrar/pkg/domain"

// Submission is one registrant's validated form data. It is produced only by
// RegisterRequest.Validate and is not modified afterwards.
//
// Invariants:
//   - every string is trimmed
//   - FullName has at least two characters and Email is a valid address
//   - About is one of the four supported channels
//   - AboutOther is non-empty when About is AboutOther
//   - Consent is true
type Submission struct {
	FullName     string
	Email        string
	Organization string
	Municipality string
	Role         string
	About        domain.About
	AboutOther   string
	Notes        string
	Consent      bool
}

// AboutPhrase is the human-readable channel, with the registrant's own text
// for AboutOther.
func (s *Submission) AboutPhrase() string {
	phrase, err := s.About.Phrase(s.AboutOther)
	if err != nil {
		return string(s.About)
	}
	return phrase
}
