package receipt

import (
	"errors"
	"math"
	"strings"

	"github.com/noah-isme/toko-register/internal/pricing"
)

const separator = "------------------"

// ErrSealed is returned when adding to a receipt that has already been finalized.
var ErrSealed = errors.New("receipt is sealed")

// Line is a rendered receipt row.
type Line struct {
	Name  string        `json:"name"`
	Price pricing.Money `json:"price"`
}

// Receipt is an ordered list of scanned items.
type Receipt struct {
	items  []pricing.Priceable
	sealed bool
}

// New returns an empty, open receipt.
func New() *Receipt {
	return &Receipt{}
}

// AddItem appends an item. Duplicates are kept as separate lines.
func (r *Receipt) AddItem(item pricing.Priceable) error {
	if r.sealed {
		return ErrSealed
	}
	r.items = append(r.items, item)
	return nil
}

// Seal freezes the receipt. Further AddItem calls fail with ErrSealed.
func (r *Receipt) Seal() {
	r.sealed = true
}

// Sealed reports whether the receipt has been finalized.
func (r *Receipt) Sealed() bool {
	return r.sealed
}

// Len returns the number of lines.
func (r *Receipt) Len() int {
	return len(r.items)
}

// Total sums the price of every item. It is recomputed on each call.
// A sum beyond the Money range saturates at the bound it crossed.
func (r *Receipt) Total() pricing.Money {
	var total pricing.Money
	for _, it := range r.items {
		price := it.Price()
		sum, err := pricing.AddMoney(total, price)
		if err != nil {
			if price > 0 {
				return math.MaxInt64
			}
			return math.MinInt64
		}
		total = sum
	}
	return total
}

// ItemsList returns item names in scan order.
func (r *Receipt) ItemsList() []string {
	names := make([]string, 0, len(r.items))
	for _, it := range r.items {
		names = append(names, it.Name())
	}
	return names
}

// Lines returns name and price for each item in scan order.
func (r *Receipt) Lines() []Line {
	lines := make([]Line, 0, len(r.items))
	for _, it := range r.items {
		lines = append(lines, Line{Name: it.Name(), Price: it.Price()})
	}
	return lines
}

// Output renders the receipt text:
//
//	Receipt:
//	<name>: $<amount>
//	------------------
//	TOTAL: $<amount>
func (r *Receipt) Output() string {
	var b strings.Builder
	b.WriteString("Receipt:\n")
	for _, it := range r.items {
		b.WriteString(it.Name())
		b.WriteString(": $")
		b.WriteString(pricing.FormatUSD(it.Price()))
		b.WriteByte('\n')
	}
	b.WriteString(separator)
	b.WriteString("\nTOTAL: $")
	b.WriteString(pricing.FormatUSD(r.Total()))
	return b.String()
}

// String implements fmt.Stringer.
func (r *Receipt) String() string {
	return r.Output()
}
