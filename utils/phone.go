package utils

import (
	"regexp"
)

var (
	nonDigit  = regexp.MustCompile(`\D`)
	e164Regex = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
)

// FormatPhoneE164 normalizes a phone number to E.164. US-centric: a
// bare 10-digit number is assumed to be +1.
func FormatPhoneE164(phone string) string {
	digits := nonDigit.ReplaceAllString(phone, "")

	if len(digits) == 10 {
		return "+1" + digits
	}
	return "+" + digits
}

// IsValidE164 reports whether phone is a well-formed E.164 number.
func IsValidE164(phone string) bool {
	return e164Regex.MatchString(phone)
}

// MaskPhone hides all but the last four digits for logging.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return phone[:len(phone)-4] + "****"
}
