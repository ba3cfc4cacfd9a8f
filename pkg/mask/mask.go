// Package mask formats Brazilian postal codes (CEP) and phone numbers for
// display and recovers their canonical digit form.
//
// The canonical value is always the digit-only string; the masked form is a
// pure function of it.
package mask

import "strings"

const (
	cepDigits   = 8
	phoneDigits = 11
)

// Digits strips every non-digit character from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := range len(s) {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// ApplyCEP formats raw input as DDDDD-DDD. Inputs with five digits or fewer
// are returned without the hyphen.
func ApplyCEP(raw string) string {
	d := truncate(Digits(raw), cepDigits)
	if len(d) <= 5 {
		return d
	}
	return d[:5] + "-" + d[5:]
}

// RemoveCEP returns the digits of a masked or unmasked CEP.
func RemoveCEP(display string) string {
	return Digits(display)
}

// IsValidCEP reports whether value holds exactly eight digits.
func IsValidCEP(value string) bool {
	return len(RemoveCEP(value)) == cepDigits
}

// ApplyPhone formats raw input as "(DD) NNNNNNNNN". Landlines (10 digits) and
// mobiles (11 digits) share the same layout.
func ApplyPhone(raw string) string {
	d := truncate(Digits(raw), phoneDigits)
	switch {
	case len(d) == 0:
		return ""
	case len(d) <= 2:
		return "(" + d
	default:
		return "(" + d[:2] + ") " + d[2:]
	}
}

// RemovePhone returns the digits of a masked or unmasked phone number.
func RemovePhone(display string) string {
	return Digits(display)
}

// IsValidPhone reports whether value holds 10 or 11 digits.
func IsValidPhone(value string) bool {
	n := len(RemovePhone(value))
	return n == 10 || n == 11
}
