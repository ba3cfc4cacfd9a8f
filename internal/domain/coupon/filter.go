package coupon

import (
	"context"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// FilteredRepository answers "unknown code" from a bloom filter before
// reaching the underlying repository. The filter holds every code the
// repository may know; a negative test is authoritative.
type FilteredRepository struct {
	next Repository

	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

var _ Repository = (*FilteredRepository)(nil)

// NewFilteredRepository builds a filter sized for capacity codes at the given
// false positive rate and seeds it with codes.
func NewFilteredRepository(next Repository, codes []string, capacity uint, fpRate float64) *FilteredRepository {
	if capacity < uint(len(codes)) {
		capacity = uint(len(codes))
	}
	if capacity == 0 {
		capacity = 1
	}
	f := bloom.NewWithEstimates(capacity, fpRate)
	for _, code := range codes {
		f.AddString(NormalizeCode(code))
	}
	return &FilteredRepository{next: next, filter: f}
}

// Add makes code visible through the filter.
func (r *FilteredRepository) Add(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filter.AddString(NormalizeCode(code))
}

func (r *FilteredRepository) mayContain(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter.TestString(NormalizeCode(code))
}

// FindByCode rejects codes absent from the filter without a repository call.
func (r *FilteredRepository) FindByCode(ctx context.Context, code string) (*Rule, error) {
	if !r.mayContain(code) {
		return nil, ErrInvalidCoupon
	}
	return r.next.FindByCode(ctx, code)
}

// IncrementUses passes through to the underlying repository.
func (r *FilteredRepository) IncrementUses(ctx context.Context, code string) error {
	if !r.mayContain(code) {
		return ErrInvalidCoupon
	}
	return r.next.IncrementUses(ctx, code)
}
