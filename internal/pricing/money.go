package pricing

import (
	"errors"
	"math"
	"strconv"
)

// Money represents a monetary value stored in minor units (US cents).
type Money = int64

// MaxAmount bounds any single item price or per-unit rate accepted by validation:
// ten trillion dollars, exactly representable as a float64.
const MaxAmount Money = 1_000_000_000_000_000

// ErrAmountOverflow is returned when a sum of prices leaves the int64 range.
var ErrAmountOverflow = errors.New("amount overflow")

// RoundMinor rounds a fractional minor-unit amount to the nearest unit,
// halves away from zero. Values outside the int64 range saturate; NaN is zero.
func RoundMinor(amount float64) Money {
	switch {
	case math.IsNaN(amount):
		return 0
	case amount >= math.MaxInt64:
		return math.MaxInt64
	case amount <= math.MinInt64:
		return math.MinInt64
	}
	return Money(math.Round(amount))
}

// AddMoney returns a+b, or ErrAmountOverflow when the sum does not fit in Money.
func AddMoney(a, b Money) (Money, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrAmountOverflow
	}
	return sum, nil
}

// FormatUSD renders an amount as dollars with exactly two decimals, e.g. 797 -> "7.97".
func FormatUSD(m Money) string {
	sign := ""
	mag := uint64(m)
	if m < 0 {
		sign = "-"
		mag = uint64(-(m + 1)) + 1
	}
	cents := mag % 100
	out := sign + strconv.FormatUint(mag/100, 10) + "."
	if cents < 10 {
		out += "0"
	}
	return out + strconv.FormatUint(cents, 10)
}
