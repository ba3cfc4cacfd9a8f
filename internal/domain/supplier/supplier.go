// Package supplier is the self-service console for parts suppliers: their
// profile, their catalog entries and their stock and sales dashboard.
package supplier

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/autoparts-storefront/pkg/mask"
)

// DefaultCountry is assumed when a profile leaves the country blank.
const DefaultCountry = "Brasil"

var (
	// ErrNotFound is returned for unknown suppliers and for users without a
	// supplier profile.
	ErrNotFound = errors.New("supplier not found")
	// ErrAlreadyRegistered is returned when a user registers a second profile.
	ErrAlreadyRegistered = errors.New("supplier already registered")
	// ErrNotOwner is returned when a supplier touches another supplier's product.
	ErrNotOwner = errors.New("product belongs to another supplier")
	// ErrUserRequired is returned when a console call carries no user id.
	ErrUserRequired = errors.New("user id required")
)

// ValidationError reports a single invalid profile field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Supplier is a registered parts supplier.
type Supplier struct {
	ID            string
	Name          string
	Description   string
	Email         string
	Phone         string
	Address       string
	City          string
	State         string
	ZipCode       string
	Country       string
	ContactPerson string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Input is the profile form used to register or update a supplier. Update
// replaces every field.
type Input struct {
	Name          string
	Description   string
	Email         string
	Phone         mask.Field
	Address       string
	City          string
	State         string
	ZipCode       mask.Field
	Country       string
	ContactPerson string
}

// NewInput builds an Input from raw form values, masking phone and CEP.
func NewInput(name, description, email, phone, address, city, state, zipCode, country, contactPerson string) Input {
	in := Input{
		Name:          strings.TrimSpace(name),
		Description:   strings.TrimSpace(description),
		Email:         strings.TrimSpace(email),
		Phone:         mask.NewPhone(phone),
		Address:       strings.TrimSpace(address),
		City:          strings.TrimSpace(city),
		State:         strings.ToUpper(strings.TrimSpace(state)),
		ZipCode:       mask.NewCEP(zipCode),
		Country:       strings.TrimSpace(country),
		ContactPerson: strings.TrimSpace(contactPerson),
	}
	if in.Country == "" {
		in.Country = DefaultCountry
	}
	return in
}

// Validate returns the first invalid field as a *ValidationError. Phone and
// CEP are optional but must be complete when given.
func (in Input) Validate() error {
	switch {
	case in.Name == "":
		return &ValidationError{Field: "name", Message: "name is required"}
	case in.Email == "":
		return &ValidationError{Field: "email", Message: "email is required"}
	case !validEmail(in.Email):
		return &ValidationError{Field: "email", Message: "invalid email address"}
	case in.Phone.Raw != "" && !in.Phone.Valid():
		return &ValidationError{Field: "phone", Message: "phone must have 10 or 11 digits"}
	case in.ZipCode.Raw != "" && !in.ZipCode.Valid():
		return &ValidationError{Field: "zipCode", Message: "CEP must have 8 digits"}
	}
	return nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// Directory is the supplier registry collaborator.
type Directory interface {
	ListSuppliers(ctx context.Context) ([]Supplier, error)
	GetSupplier(ctx context.Context, id string) (*Supplier, error)
	// MySupplier returns the profile owned by userID.
	MySupplier(ctx context.Context, userID string) (*Supplier, error)
	CreateSupplier(ctx context.Context, userID string, in Input) (*Supplier, error)
	UpdateSupplier(ctx context.Context, userID, id string, in Input) (*Supplier, error)
	DeleteSupplier(ctx context.Context, userID, id string) error
}
