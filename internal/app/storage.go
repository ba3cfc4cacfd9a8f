package app

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/xenking/autoparts-storefront/internal/domain/coupon"
	"github.com/xenking/autoparts-storefront/internal/domain/order"
	"github.com/xenking/autoparts-storefront/internal/domain/wishlist"
	"github.com/xenking/autoparts-storefront/internal/session"
	"github.com/xenking/autoparts-storefront/internal/storage/memory"
	"github.com/xenking/autoparts-storefront/internal/storage/postgres"
)

// storage bundles the persistence collaborators of the service.
type storage struct {
	wishlists session.StorageFunc
	coupons   coupon.Repository
	receipts  order.Repository
	// pool is nil in memory mode.
	pool *pgxpool.Pool
}

func (s *storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// newMemoryStorage keeps everything in process. Only the built-in coupons
// are available.
func newMemoryStorage() *storage {
	ls := memory.NewLocalStorage()
	return &storage{
		wishlists: func(id string) wishlist.Storage { return ls.Namespace(id) },
		coupons:   coupon.NewStaticRepository(coupon.StorefrontRules()...),
		receipts:  &memory.Receipts{},
	}
}

// newPostgresStorage connects, migrates and builds the repositories. Stored
// coupons sit behind a bloom filter and after the built-in ones.
func newPostgresStorage(ctx context.Context, lg *zap.Logger, cfg *Config) (*storage, error) {
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "create db pool")
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "run migrations")
	}

	stored := postgres.NewCouponRepository(pool)
	codes, err := stored.ListCodes(ctx)
	if err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "list coupon codes")
	}
	filtered := coupon.NewFilteredRepository(stored, codes,
		cfg.Coupons.FilterCapacity, cfg.Coupons.FalsePositiveRate)
	lg.Info("Coupon filter loaded", zap.Int("codes", len(codes)))
	go refreshCouponFilter(ctx, lg, stored, filtered, cfg.Coupons.RefreshInterval)

	ls := postgres.NewLocalStorage(pool)
	return &storage{
		wishlists: func(id string) wishlist.Storage { return ls.Namespace(id) },
		coupons: coupon.ChainRepository{
			coupon.NewStaticRepository(coupon.StorefrontRules()...),
			filtered,
		},
		receipts: postgres.NewOrderRepository(pool),
		pool:     pool,
	}, nil
}

type codeLister interface {
	ListCodes(ctx context.Context) ([]string, error)
}

// refreshCouponFilter adds codes ingested since startup to the filter.
func refreshCouponFilter(ctx context.Context, lg *zap.Logger, src codeLister, dst *coupon.FilteredRepository, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			codes, err := src.ListCodes(ctx)
			if err != nil {
				lg.Warn("Refresh coupon filter", zap.Error(err))
				continue
			}
			for _, code := range codes {
				dst.Add(code)
			}
		}
	}
}
