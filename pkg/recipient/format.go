package recipient

import "strings"

// FormatPhoneNumber groups the digits of a phone number as
// "XXX XX XX XX XX". Digits past the last group are appended as is and
// numbers shorter than MinPhoneDigits are returned as bare digits.
func FormatPhoneNumber(s string) string {
	digits := NormalizePhoneNumber(s)
	if len(digits) < MinPhoneDigits {
		return digits
	}
	groups := []int{3, 2, 2, 2, 2}
	var parts []string
	for _, n := range groups {
		if len(digits) == 0 {
			break
		}
		if n > len(digits) {
			n = len(digits)
		}
		parts = append(parts, digits[:n])
		digits = digits[n:]
	}
	if digits != "" {
		parts[len(parts)-1] += digits
	}
	return strings.Join(parts, " ")
}
