package domain

import "strings"

// Canonical gender ids.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// GenderAliases lists the lower-cased spellings recognized for each
// canonical gender.
var GenderAliases = map[string][]string{
	GenderMale:   {"male", "m", "ذكر", "ذكور"},
	GenderFemale: {"female", "f", "أنثى", "انثى", "إناث", "اناث"},
}

// CanonicalGender maps a raw gender value to GenderMale or GenderFemale, or
// returns "" when it is neither.
func CanonicalGender(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	for g, aliases := range GenderAliases {
		for _, a := range aliases {
			if v == a {
				return g
			}
		}
	}
	return ""
}
