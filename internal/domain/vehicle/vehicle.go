// Package vehicle resolves a license plate to vehicle metadata and to the
// catalog brand used for part recommendations.
package vehicle

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/xenking/autoparts-storefront/internal/domain/plate"
)

var (
	// ErrNotFound is returned by a Lookup when no vehicle matches the plate.
	ErrNotFound = errors.New("vehicle not found")
	// ErrUnknownBrand is returned when the vehicle brand has no catalog match.
	ErrUnknownBrand = errors.New("unknown vehicle brand")
)

// UnknownBrandError carries the brand name the catalog does not know.
type UnknownBrandError struct {
	Brand string
}

func (e *UnknownBrandError) Error() string {
	return fmt.Sprintf("brand %q not found in catalog", e.Brand)
}

func (e *UnknownBrandError) Unwrap() error { return ErrUnknownBrand }

// Vehicle is the metadata the vehicle service reports for a plate.
type Vehicle struct {
	Plate    string
	Name     string
	Brand    string
	Model    string
	Year     string
	Color    string
	FuelType string
	Engine   string
	Chassis  string
	Renavam  string
}

// Lookup is the vehicle service collaborator, keyed by canonical plate.
type Lookup interface {
	GetByPlate(ctx context.Context, plate string) (*Vehicle, error)
}

// Match is a resolved plate.
type Match struct {
	Plate   plate.Plate
	Vehicle Vehicle
	// Brand is the catalog brand enum, e.g. MERCEDES_BENZ.
	Brand string
}

// Resolver turns raw plate input into a Match.
type Resolver struct {
	lookup Lookup
}

// NewResolver creates a Resolver backed by lookup.
func NewResolver(lookup Lookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve validates raw, looks the vehicle up and maps its brand. Invalid
// plates fail with plate.ErrInvalidLength or plate.ErrInvalidFormat before
// any lookup is made.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*Match, error) {
	p, err := plate.Parse(raw)
	if err != nil {
		return nil, err
	}

	v, err := r.lookup.GetByPlate(ctx, p.Value)
	if err != nil {
		return nil, errors.Wrapf(err, "lookup plate %s", p.Value)
	}

	brand, ok := BrandEnum(v.Brand)
	if !ok {
		return nil, &UnknownBrandError{Brand: v.Brand}
	}

	return &Match{Plate: p, Vehicle: *v, Brand: brand}, nil
}
