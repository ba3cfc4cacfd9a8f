package mask

// Kind selects the mask applied to a Field.
type Kind string

const (
	KindCEP   Kind = "cep"
	KindPhone Kind = "phone"
)

// ParseKind maps a kind name to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindCEP, KindPhone:
		return Kind(s), true
	default:
		return "", false
	}
}

// Field is a masked form value. Raw holds the canonical digits; the display
// string is derived on demand.
type Field struct {
	Kind Kind
	Raw  string
}

// NewCEP builds a CEP field from user input, truncated to eight digits.
func NewCEP(input string) Field {
	return Field{Kind: KindCEP, Raw: RemoveCEP(ApplyCEP(input))}
}

// NewPhone builds a phone field from user input, truncated to eleven digits.
func NewPhone(input string) Field {
	return Field{Kind: KindPhone, Raw: RemovePhone(ApplyPhone(input))}
}

// New builds a field of the given kind.
func New(kind Kind, input string) Field {
	if kind == KindPhone {
		return NewPhone(input)
	}
	return NewCEP(input)
}

// Display returns the masked representation of the field.
func (f Field) Display() string {
	if f.Kind == KindPhone {
		return ApplyPhone(f.Raw)
	}
	return ApplyCEP(f.Raw)
}

// Valid reports whether the field holds a complete value.
func (f Field) Valid() bool {
	if f.Kind == KindPhone {
		return IsValidPhone(f.Raw)
	}
	return IsValidCEP(f.Raw)
}
