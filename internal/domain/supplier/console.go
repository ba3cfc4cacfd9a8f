package supplier

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/autoparts-storefront/internal/domain/product"
)

// ProductPageSize is the console's default product listing page size.
const ProductPageSize = 20

// Console serves the supplier self-service screens. Every call acts on the
// profile owned by the calling user; product edits are limited to that
// supplier's own products.
type Console struct {
	directory  Directory
	dashboards Dashboards
	catalog    product.Catalog
	editor     product.Editor
}

// NewConsole creates a Console.
func NewConsole(directory Directory, dashboards Dashboards, catalog product.Catalog, editor product.Editor) *Console {
	return &Console{
		directory:  directory,
		dashboards: dashboards,
		catalog:    catalog,
		editor:     editor,
	}
}

// Suppliers lists every registered supplier.
func (c *Console) Suppliers(ctx context.Context) ([]Supplier, error) {
	return c.directory.ListSuppliers(ctx)
}

// Supplier returns the public profile of one supplier.
func (c *Console) Supplier(ctx context.Context, id string) (*Supplier, error) {
	return c.directory.GetSupplier(ctx, id)
}

// Profile returns the caller's supplier profile, or ErrNotFound when the
// user has not registered one.
func (c *Console) Profile(ctx context.Context, userID string) (*Supplier, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	return c.directory.MySupplier(ctx, userID)
}

// Register creates the caller's supplier profile.
func (c *Console) Register(ctx context.Context, userID string, in Input) (*Supplier, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s, err := c.directory.CreateSupplier(ctx, userID, in)
	if err != nil {
		return nil, errors.Wrap(err, "create supplier")
	}
	zctx.From(ctx).Info("Supplier registered",
		zap.String("supplier_id", s.ID),
		zap.String("user_id", userID),
	)
	return s, nil
}

// UpdateProfile replaces the caller's profile fields.
func (c *Console) UpdateProfile(ctx context.Context, userID string, in Input) (*Supplier, error) {
	me, err := c.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s, err := c.directory.UpdateSupplier(ctx, userID, me.ID, in)
	if err != nil {
		return nil, errors.Wrap(err, "update supplier")
	}
	return s, nil
}

// Unregister deletes the caller's profile.
func (c *Console) Unregister(ctx context.Context, userID string) error {
	me, err := c.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if err := c.directory.DeleteSupplier(ctx, userID, me.ID); err != nil {
		return errors.Wrap(err, "delete supplier")
	}
	zctx.From(ctx).Info("Supplier unregistered", zap.String("supplier_id", me.ID))
	return nil
}

// Dashboard returns the caller's stock and sales statistics.
func (c *Console) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	if _, err := c.Profile(ctx, userID); err != nil {
		return nil, err
	}
	d, err := c.dashboards.Dashboard(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "load dashboard")
	}
	return d, nil
}

// Products lists the caller's catalog entries.
func (c *Console) Products(ctx context.Context, userID string, page, size int) (*product.Page, error) {
	me, err := c.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		size = ProductPageSize
	}
	return c.catalog.List(ctx, product.Filters{Page: page, Size: size, SupplierID: me.ID})
}

// CreateProduct adds a product to the caller's catalog.
func (c *Console) CreateProduct(ctx context.Context, userID string, in product.Input) (*product.Product, error) {
	me, err := c.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	in = in.Normalize()
	in.SupplierID = me.ID
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := c.editor.CreateProduct(ctx, userID, in)
	if err != nil {
		return nil, errors.Wrap(err, "create product")
	}
	zctx.From(ctx).Info("Product created",
		zap.String("supplier_id", me.ID),
		zap.String("product_id", p.ID),
	)
	return p, nil
}

// UpdateProduct replaces one of the caller's products.
func (c *Console) UpdateProduct(ctx context.Context, userID, id string, in product.Input) (*product.Product, error) {
	me, err := c.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	in = in.Normalize()
	in.SupplierID = me.ID
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := c.editor.UpdateProduct(ctx, userID, id, in)
	if err != nil {
		return nil, errors.Wrapf(err, "update product %s", id)
	}
	return p, nil
}

// DeleteProduct removes one of the caller's products.
func (c *Console) DeleteProduct(ctx context.Context, userID, id string) error {
	me, err := c.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := c.editor.DeleteProduct(ctx, userID, id); err != nil {
		return errors.Wrapf(err, "delete product %s", id)
	}
	zctx.From(ctx).Info("Product deleted",
		zap.String("supplier_id", me.ID),
		zap.String("product_id", id),
	)
	return nil
}

// owned returns the caller's profile after checking that product id is theirs.
func (c *Console) owned(ctx context.Context, userID, id string) (*Supplier, error) {
	me, err := c.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := c.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.SupplierID != me.ID {
		return nil, ErrNotOwner
	}
	return me, nil
}
