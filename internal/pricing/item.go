package pricing

// Priceable is anything that can be scanned at a register.
type Priceable interface {
	Name() string
	Price() Money
}

// FixedPriceItem is sold per unit at a fixed price.
type FixedPriceItem struct {
	Label     string `json:"name" validate:"required"`
	UnitPrice Money  `json:"unitPrice" validate:"gte=0,lte=1000000000000000"`
}

// NewFixedPriceItem constructs a fixed price item.
func NewFixedPriceItem(name string, unitPrice Money) FixedPriceItem {
	return FixedPriceItem{Label: name, UnitPrice: unitPrice}
}

// Name implements Priceable.
func (i FixedPriceItem) Name() string { return i.Label }

// Price implements Priceable.
func (i FixedPriceItem) Price() Money { return i.UnitPrice }

// WeighedItem is priced by weight, e.g. produce sold per pound.
type WeighedItem struct {
	Label       string  `json:"name" validate:"required"`
	RatePerUnit Money   `json:"ratePerUnit" validate:"gte=0,lte=1000000000000000"`
	Weight      float64 `json:"weight" validate:"gte=0"`
}

// NewWeighedItem constructs a weighed item from a per-unit rate and a weight.
func NewWeighedItem(name string, ratePerUnit Money, weight float64) WeighedItem {
	return WeighedItem{Label: name, RatePerUnit: ratePerUnit, Weight: weight}
}

// Name implements Priceable.
func (i WeighedItem) Name() string { return i.Label }

// Price returns rate*weight rounded to the nearest cent.
func (i WeighedItem) Price() Money {
	return RoundMinor(float64(i.RatePerUnit) * i.Weight)
}
