package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/toko-register/internal/pricing"
)

// Kinds of catalog entries.
const (
	KindFixed   = "fixed"
	KindWeighed = "weighed"
)

var (
	// ErrUnknownCode is returned when a code is not in the catalog.
	ErrUnknownCode = errors.New("unknown item code")
	// ErrWeightRequired is returned when a weighed item is scanned without a weight.
	ErrWeightRequired = errors.New("weight is required for weighed items")
)

// Entry describes one SKU in the catalog file.
type Entry struct {
	Code  string        `yaml:"code" json:"code" validate:"required"`
	Name  string        `yaml:"name" json:"name" validate:"required"`
	Kind  string        `yaml:"kind" json:"kind" validate:"omitempty,oneof=fixed weighed"`
	Price pricing.Money `yaml:"price" json:"price" validate:"gte=0"`
}

type fileFormat struct {
	Items []Entry `yaml:"items"`
}

// Catalog maps item codes to their pricing definition.
type Catalog struct {
	entries map[string]Entry
}

// Load reads a YAML catalog from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document of the form
//
//	items:
//	  - code: "4011"
//	    name: Bananas
//	    kind: weighed
//	    price: 69
func Parse(data []byte) (*Catalog, error) {
	var doc fileFormat
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(doc.Items)
}

// New builds a catalog from entries, rejecting duplicates and invalid rows.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{entries: make(map[string]Entry, len(entries))}
	v := pricing.Validator()
	for i, e := range entries {
		e.Code = strings.TrimSpace(e.Code)
		e.Kind = strings.ToLower(strings.TrimSpace(e.Kind))
		if e.Kind == "" {
			e.Kind = KindFixed
		}
		if err := v.Struct(e); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if _, dup := c.entries[e.Code]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate code %q", i, e.Code)
		}
		c.entries[e.Code] = e
	}
	return c, nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns all entries sorted by code.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Get returns the entry for code.
func (c *Catalog) Get(code string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	e, ok := c.entries[strings.TrimSpace(code)]
	return e, ok
}

// Lookup resolves a code into a priceable item. Weight is only used for weighed entries.
func (c *Catalog) Lookup(code string, weight float64) (pricing.Priceable, error) {
	e, ok := c.Get(code)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCode, code)
	}
	if e.Kind == KindWeighed {
		if weight <= 0 {
			return nil, fmt.Errorf("%s: %w", e.Code, ErrWeightRequired)
		}
		return pricing.NewWeighedItem(e.Name, e.Price, weight), nil
	}
	return pricing.NewFixedPriceItem(e.Name, e.Price), nil
}
