package checkout

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/xenking/autoparts-storefront/pkg/mask"
)

// ValidationError reports a single invalid checkout field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Contact is the delivery form filled in at checkout.
type Contact struct {
	Name    string
	Email   string
	Address string
	CEP     mask.Field
	Phone   mask.Field
}

// NewContact builds a Contact from raw form input, masking CEP and phone.
func NewContact(name, email, address, cep, phone string) Contact {
	return Contact{
		Name:    strings.TrimSpace(name),
		Email:   strings.TrimSpace(email),
		Address: strings.TrimSpace(address),
		CEP:     mask.NewCEP(cep),
		Phone:   mask.NewPhone(phone),
	}
}

// Validate returns the first invalid field as a *ValidationError.
func (c Contact) Validate() error {
	switch {
	case c.Name == "":
		return &ValidationError{Field: "name", Message: "name is required"}
	case c.Email == "":
		return &ValidationError{Field: "email", Message: "email is required"}
	case !validEmail(c.Email):
		return &ValidationError{Field: "email", Message: "invalid email address"}
	case c.Address == "":
		return &ValidationError{Field: "address", Message: "address is required"}
	case !mask.IsValidCEP(c.CEP.Raw):
		return &ValidationError{Field: "cep", Message: "CEP must have 8 digits"}
	case !mask.IsValidPhone(c.Phone.Raw):
		return &ValidationError{Field: "phone", Message: "phone must have 10 or 11 digits"}
	}
	return nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
