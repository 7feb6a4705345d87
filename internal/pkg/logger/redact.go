package logger

import "regexp"

var phoneRegex = regexp.MustCompile(`\+?[0-9][0-9 \-]{7,}[0-9]`)

// RedactPhone masks a phone number for safe logging, keeping only the last
// three digits: "+964 770 123 4567" → "***567". Values with three digits or
// fewer are fully masked.
func RedactPhone(phone string) string {
	digits := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			digits = append(digits, phone[i])
		}
	}
	if len(digits) <= 3 {
		return "***"
	}
	return "***" + string(digits[len(digits)-3:])
}
