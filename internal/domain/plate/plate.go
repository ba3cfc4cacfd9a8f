// Package plate normalizes free-typed Brazilian vehicle plates and tells the
// legacy (ABC1234) layout apart from the Mercosul (ABC1D23) one.
package plate

import (
	"regexp"
	"strings"

	"github.com/go-faster/errors"
)

// Length is the number of characters in a complete plate.
const Length = 7

// Format identifies the plate layout.
type Format string

const (
	// FormatLegacy is three letters followed by four digits.
	FormatLegacy Format = "legacy"
	// FormatMercosul is three letters, a digit, a letter and two digits.
	FormatMercosul Format = "mercosul"
)

var (
	// ErrInvalidLength is returned when a plate does not have seven characters.
	ErrInvalidLength = errors.New("plate must have 7 characters (ABC1234 or ABC1D23)")
	// ErrInvalidFormat is returned when a seven character plate does not start
	// with three letters followed by four alphanumerics.
	ErrInvalidFormat = errors.New("invalid plate format: use ABC1234 (legacy) or ABC1D23 (mercosul)")
)

var platePattern = regexp.MustCompile(`^[A-Z]{3}[A-Z0-9]{4}$`)

// Plate is a normalized plate string and its detected layout.
type Plate struct {
	Value  string
	Format Format
}

func (p Plate) String() string { return p.Value }

// Normalize cleans keystrokes into canonical form. It never fails: partial
// input yields a partial plate, which Validate rejects.
func Normalize(raw string) Plate {
	cleaned := strings.ToUpper(keep(raw, isAlnum))
	if len(cleaned) > Length {
		cleaned = cleaned[:Length]
	}

	head, rest := cleaned, ""
	if len(cleaned) > 3 {
		head, rest = cleaned[:3], cleaned[3:]
	}
	letters := keep(head, isUpper)

	format := FormatLegacy
	if len(rest) >= 2 && isDigit(rest[0]) && isUpper(rest[1]) {
		format = FormatMercosul
	}

	return Plate{Value: letters + rest, Format: format}
}

// Validate checks a plate string after dropping spaces and hyphens.
func Validate(s string) error {
	clean := strings.NewReplacer(" ", "", "-", "", "\t", "").Replace(s)
	if len(clean) != Length {
		return ErrInvalidLength
	}
	if !platePattern.MatchString(clean) {
		return ErrInvalidFormat
	}
	return nil
}

// Parse normalizes raw input and validates the result.
func Parse(raw string) (Plate, error) {
	p := Normalize(raw)
	if err := Validate(p.Value); err != nil {
		return Plate{}, err
	}
	return p, nil
}

func keep(s string, ok func(byte) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := range len(s) {
		if ok(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || isUpper(c)
}
