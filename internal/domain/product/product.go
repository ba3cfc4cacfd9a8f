// Package product describes the read-only catalog the storefront browses.
package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase.
type Product struct {
	ID             string
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

// Thumbnail returns the first product image, used as the cart line image.
func (p Product) Thumbnail() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// SortDir is the ordering direction of a listing.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// Filters narrows a catalog listing. Zero values mean "no constraint".
type Filters struct {
	Page       int
	Size       int
	SortBy     string
	SortDir    SortDir
	Category   Category
	Brand      string
	Name       string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SupplierID string
}

// Validate rejects inconsistent filter combinations.
func (f Filters) Validate() error {
	if f.Page < 0 {
		return errors.New("page must not be negative")
	}
	if f.Size < 0 {
		return errors.New("size must not be negative")
	}
	if f.SortDir != "" && f.SortDir != SortAsc && f.SortDir != SortDesc {
		return errors.Errorf("unknown sort direction %q", f.SortDir)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return errors.New("minimum price exceeds maximum price")
	}
	return nil
}

// Page is one page of a catalog listing.
type Page struct {
	Content       []Product
	TotalElements int
	TotalPages    int
	Size          int
	Number        int
	First         bool
	Last          bool
}

// Catalog is the product listing collaborator.
type Catalog interface {
	List(ctx context.Context, f Filters) (*Page, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}
