// Command coupon-ingest loads partner coupon feeds into the storefront
// database.
//
// Feeds are CSV files, optionally gzip-compressed, with a header naming at
// least the CODE, TYPE and VALUE columns:
//
//	CODE,TYPE,VALUE,MIN_ITEMS,DESCRIPTION,VALID_FROM,VALID_UNTIL,MAX_USES
//	FREIOS15,percentage,15,1,15% off brakes,2026-01-01,2026-12-31,1000
package main

import (
	"context"
	"flag"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/xenking/autoparts-storefront/internal/domain/coupon"
	"github.com/xenking/autoparts-storefront/internal/storage/postgres"
)

const batchSize = 1000

type options struct {
	databaseURL string
	strict      bool
	dryRun      bool
	files       []string
}

func main() {
	var opts options
	flag.StringVar(&opts.databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.BoolVar(&opts.strict, "strict", false, "fail on the first invalid row instead of skipping it")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "parse and validate feeds without writing")
	flag.Parse()
	opts.files = flag.Args()

	if opts.databaseURL == "" {
		opts.databaseURL = os.Getenv("DATABASE_URL")
	}

	app.Run(func(ctx context.Context, lg *zap.Logger, _ *app.Telemetry) error {
		return run(ctx, lg, opts)
	})
}

func run(ctx context.Context, lg *zap.Logger, opts options) error {
	if len(opts.files) == 0 {
		return errors.New("no feed files given")
	}
	if opts.databaseURL == "" && !opts.dryRun {
		return errors.New("database URL is required: set --database-url or DATABASE_URL")
	}

	feeds, err := loadFeeds(ctx, lg, opts.files, opts.strict)
	if err != nil {
		return errors.Wrap(err, "load feeds")
	}
	rules := mergeFeeds(feeds)
	lg.Info("Feeds merged", zap.Int("files", len(feeds)), zap.Int("coupons", len(rules)))

	if opts.dryRun || len(rules) == 0 {
		return nil
	}

	pool, err := postgres.NewPool(ctx, opts.databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}
	return writeCoupons(ctx, lg, postgres.NewCouponRepository(pool), rules)
}

type upserter interface {
	Upsert(ctx context.Context, rules []coupon.Rule) error
}

// writeCoupons upserts rules in batches.
func writeCoupons(ctx context.Context, lg *zap.Logger, repo upserter, rules []coupon.Rule) error {
	for start := 0; start < len(rules); start += batchSize {
		end := min(start+batchSize, len(rules))
		if err := repo.Upsert(ctx, rules[start:end]); err != nil {
			return errors.Wrapf(err, "write coupons %d-%d", start, end)
		}
		lg.Info("Write progress", zap.Int("written", end), zap.Int("total", len(rules)))
	}
	return nil
}
