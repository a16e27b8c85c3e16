package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/toko-register/internal/catalog"
	"github.com/noah-isme/toko-register/internal/pricing"
	"github.com/noah-isme/toko-register/internal/register"
)

type basketLine struct {
	Code        string         `yaml:"code"`
	Name        string         `yaml:"name"`
	UnitPrice   *pricing.Money `yaml:"unitPrice"`
	RatePerUnit *pricing.Money `yaml:"ratePerUnit"`
	Weight      float64        `yaml:"weight"`
	Qty         int            `yaml:"qty"`
}

type basket struct {
	Items []basketLine `yaml:"items"`
}

func parseBasket(data []byte) (basket, error) {
	var b basket
	if err := yaml.Unmarshal(data, &b); err != nil {
		return basket{}, err
	}
	return b, nil
}

func (l basketLine) resolve(items *catalog.Catalog) (pricing.Priceable, error) {
	if code := strings.TrimSpace(l.Code); code != "" {
		return items.Lookup(code, l.Weight)
	}
	switch {
	case l.UnitPrice != nil && l.RatePerUnit == nil:
		return pricing.NewFixedPriceItem(l.Name, *l.UnitPrice), nil
	case l.RatePerUnit != nil && l.UnitPrice == nil:
		if l.Weight <= 0 {
			return nil, catalog.ErrWeightRequired
		}
		return pricing.NewWeighedItem(l.Name, *l.RatePerUnit, l.Weight), nil
	default:
		return nil, errors.New("need exactly one of code, unitPrice or ratePerUnit")
	}
}

// ringUp scans every basket line, repeating lines with qty > 1.
func ringUp(reg *register.Register, items *catalog.Catalog, b basket, progress io.Writer) error {
	for i, line := range b.Items {
		item, err := line.resolve(items)
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		qty := line.Qty
		if qty <= 0 {
			qty = 1
		}
		for n := 0; n < qty; n++ {
			if err := reg.Scan(item); err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			fmt.Fprintf(progress, "%s\tsubtotal $%s\n", item.Name(), pricing.FormatUSD(reg.Subtotal()))
		}
	}
	return nil
}
