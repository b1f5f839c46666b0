package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Origin labels who contributed an occupancy record. It is a claim made by
// the caller, not an authenticated identity.
type Origin string

const OwnerOrigin Origin = "Owner"

// Canonical trims the label and upper-cases its first letter.
func (o Origin) Canonical() Origin {
	s := strings.TrimSpace(string(o))
	if s == "" {
		return ""
	}
	r, n := utf8.DecodeRuneInString(s)
	return Origin(string(unicode.ToUpper(r)) + strings.ToLower(s[n:]))
}

// Matches reports whether two labels name the same contributor, ignoring case.
func (o Origin) Matches(other Origin) bool {
	a, b := strings.TrimSpace(string(o)), strings.TrimSpace(string(other))
	return a != "" && strings.EqualFold(a, b)
}

func (o Origin) String() string { return string(o) }
