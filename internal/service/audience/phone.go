package audience

import "strings"

// PhoneKey reduces a phone number to its digits, folding Arabic-Indic and
// Extended Arabic-Indic digits to ASCII. Numbers that differ only in
// punctuation, spacing or digit script share a key.
func PhoneKey(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		case r >= '۰' && r <= '۹':
			b.WriteRune('0' + (r - '۰'))
		}
	}
	return b.String()
}
