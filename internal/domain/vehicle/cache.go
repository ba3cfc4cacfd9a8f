package vehicle

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// notFound marks a cached negative lookup.
type notFound struct{}

// CachedLookup memoizes plate lookups and throttles calls that miss the
// cache. Negative answers are cached for at most NegativeTTL.
type CachedLookup struct {
	next    Lookup
	cache   *gocache.Cache
	limiter *rate.Limiter
	ttl     time.Duration
	negTTL  time.Duration
}

var _ Lookup = (*CachedLookup)(nil)

// CacheConfig controls CachedLookup.
type CacheConfig struct {
	TTL         time.Duration
	NegativeTTL time.Duration
	// Rate and Burst bound calls to the wrapped lookup. A zero Rate disables
	// throttling.
	Rate  rate.Limit
	Burst int
}

// NewCachedLookup wraps next with a TTL cache and an outbound rate limit.
func NewCachedLookup(next Lookup, cfg CacheConfig) *CachedLookup {
	if cfg.NegativeTTL <= 0 || cfg.NegativeTTL > cfg.TTL {
		cfg.NegativeTTL = cfg.TTL
	}
	limit := cfg.Rate
	if limit == 0 {
		limit = rate.Inf
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	return &CachedLookup{
		next:    next,
		cache:   gocache.New(cfg.TTL, 2*cfg.TTL),
		limiter: rate.NewLimiter(limit, cfg.Burst),
		ttl:     cfg.TTL,
		negTTL:  cfg.NegativeTTL,
	}
}

// GetByPlate serves cached answers and otherwise waits for a rate limiter
// token before calling the wrapped lookup.
func (c *CachedLookup) GetByPlate(ctx context.Context, plate string) (*Vehicle, error) {
	if v, ok := c.cache.Get(plate); ok {
		switch v := v.(type) {
		case Vehicle:
			return &v, nil
		case notFound:
			return nil, ErrNotFound
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "wait for lookup slot")
	}

	v, err := c.next.GetByPlate(ctx, plate)
	switch {
	case errors.Is(err, ErrNotFound):
		c.cache.Set(plate, notFound{}, c.negTTL)
		return nil, err
	case err != nil:
		return nil, err
	}

	c.cache.Set(plate, *v, c.ttl)
	return v, nil
}

// Forget drops the cached answer for plate.
func (c *CachedLookup) Forget(plate string) {
	c.cache.Delete(plate)
}
