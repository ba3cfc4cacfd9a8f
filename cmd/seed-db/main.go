// Command seed-db loads demo data for local development: promotional
// coupons and, optionally, a saved wishlist for one session.
package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/xenking/autoparts-storefront/internal/domain/wishlist"
	"github.com/xenking/autoparts-storefront/internal/storage/postgres"
)

type options struct {
	databaseURL     string
	couponsFile     string
	wishlistSession string
	wishlistIDs     string
}

func main() {
	var opts options
	flag.StringVar(&opts.databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&opts.couponsFile, "coupons-file", "db/seed/coupons.json", "path to coupons JSON file")
	flag.StringVar(&opts.wishlistSession, "wishlist-session", "", "session id to seed a wishlist for")
	flag.StringVar(&opts.wishlistIDs, "wishlist", "", "comma-separated product ids for --wishlist-session")
	flag.Parse()

	if opts.databaseURL == "" {
		opts.databaseURL = os.Getenv("DATABASE_URL")
	}

	app.Run(func(ctx context.Context, lg *zap.Logger, _ *app.Telemetry) error {
		return run(ctx, lg, opts)
	})
}

func run(ctx context.Context, lg *zap.Logger, opts options) error {
	if opts.databaseURL == "" {
		return errors.New("database URL is required: set --database-url or DATABASE_URL")
	}

	data, err := os.ReadFile(opts.couponsFile)
	if err != nil {
		return errors.Wrap(err, "read coupons file")
	}
	rules, err := decodeCoupons(data)
	if err != nil {
		return errors.Wrap(err, "parse coupons file")
	}

	lg.Info("Connecting to database")
	pool, err := postgres.NewPool(ctx, opts.databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	lg.Info("Running migrations")
	if err := postgres.Migrate(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := postgres.NewCouponRepository(pool).Upsert(ctx, rules); err != nil {
		return errors.Wrap(err, "seed coupons")
	}
	for _, r := range rules {
		lg.Info("Upserted coupon", zap.String("code", r.Code), zap.String("description", r.Description))
	}

	if opts.wishlistSession == "" {
		return nil
	}
	ids := splitIDs(opts.wishlistIDs)
	storage := postgres.NewLocalStorage(pool).Namespace(opts.wishlistSession)
	if err := storage.Save(ctx, wishlist.StorageKey, wishlist.Encode(ids)); err != nil {
		return errors.Wrap(err, "seed wishlist")
	}
	lg.Info("Seeded wishlist", zap.String("session", opts.wishlistSession), zap.Strings("ids", ids))
	return nil
}

// splitIDs parses a comma-separated id list, dropping blanks.
func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
