// Package register aggregates scanned items into receipts.
package register

import (
	"fmt"

	"github.com/noah-isme/toko-register/internal/pricing"
	"github.com/noah-isme/toko-register/internal/receipt"
)

// Version of the register model.
const Version = "0.1"

// Register accumulates scanned items into a pending receipt.
// It is not safe for concurrent use; see Service for the synchronised form.
type Register struct {
	pending *receipt.Receipt
	strict  bool
}

// Option customises a Register.
type Option func(*Register)

// WithStrictItems rejects items that fail pricing.Validate at scan time.
func WithStrictItems() Option {
	return func(r *Register) { r.strict = true }
}

// New returns a register with an empty pending receipt.
func New(opts ...Option) *Register {
	r := &Register{pending: receipt.New()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Scan adds an item to the pending receipt. Nil items and items that would push
// the subtotal out of the Money range are always rejected.
func (r *Register) Scan(item pricing.Priceable) error {
	if item == nil {
		return fmt.Errorf("%w: nil item", pricing.ErrInvalidItem)
	}
	if r.strict {
		if err := pricing.Validate(item); err != nil {
			return err
		}
	}
	if _, err := pricing.AddMoney(r.pending.Total(), item.Price()); err != nil {
		return fmt.Errorf("scan %q: %w", item.Name(), err)
	}
	return r.pending.AddItem(item)
}

// Subtotal returns the running total of the pending receipt.
func (r *Register) Subtotal() pricing.Money {
	return r.pending.Total()
}

// Pending returns the number of items on the pending receipt.
func (r *Register) Pending() int {
	return r.pending.Len()
}

// Finalize seals and returns the pending receipt and starts a new empty one.
// The returned receipt is no longer referenced by the register.
func (r *Register) Finalize() *receipt.Receipt {
	done := r.pending
	r.pending = receipt.New()
	done.Seal()
	return done
}
