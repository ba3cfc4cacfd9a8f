package memory

import (
	"context"
	"sync"

	"github.com/xenking/autoparts-storefront/internal/domain/order"
)

var _ order.Repository = (*Receipts)(nil)

// Receipts journals checkout receipts in memory.
type Receipts struct {
	mu       sync.Mutex
	receipts []order.Receipt
}

// Create appends a copy of r.
func (j *Receipts) Create(_ context.Context, r *order.Receipt) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.receipts = append(j.receipts, *r)
	return nil
}

// ByUser returns the receipts recorded for userID, oldest first.
func (j *Receipts) ByUser(userID string) []order.Receipt {
	j.mu.Lock()
	defer j.mu.Unlock()

	var out []order.Receipt
	for _, r := range j.receipts {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}
