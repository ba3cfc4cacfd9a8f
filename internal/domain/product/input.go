package product

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError reports a single invalid product field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Input is the product form a supplier submits on create and update. Update
// replaces every field.
type Input struct {
	Name           string
	Description    string
	Price          decimal.Decimal
	Stock          int
	Category       Category
	Brand          string
	Model          string
	Year           string
	Images         []string
	Specifications string
	SupplierID     string
	Active         bool
}

// Normalize trims text fields and drops blank image URLs.
func (in Input) Normalize() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Model = strings.TrimSpace(in.Model)
	in.Year = strings.TrimSpace(in.Year)
	images := make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	in.Images = images
	return in
}

// Validate returns the first invalid field as a *ValidationError.
func (in Input) Validate() error {
	switch {
	case in.Name == "":
		return &ValidationError{Field: "name", Message: "name is required"}
	case !in.Price.IsPositive():
		return &ValidationError{Field: "price", Message: "price must be greater than zero"}
	case in.Stock < 0:
		return &ValidationError{Field: "stock", Message: "stock must not be negative"}
	case in.Category == "":
		return &ValidationError{Field: "category", Message: "category is required"}
	case !slices.Contains(Categories(), in.Category):
		return &ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", in.Category)}
	case in.Brand == "":
		return &ValidationError{Field: "brand", Message: "brand is required"}
	}
	return nil
}

// Editor mutates the catalog on behalf of a supplier's user.
type Editor interface {
	CreateProduct(ctx context.Context, userID string, in Input) (*Product, error)
	UpdateProduct(ctx context.Context, userID, id string, in Input) (*Product, error)
	DeleteProduct(ctx context.Context, userID, id string) error
}
