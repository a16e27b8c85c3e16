package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-register/internal/catalog"
	"github.com/noah-isme/toko-register/internal/pricing"
)

const sampleCatalog = `
items:
  - code: "0001"
    name: Beans (8oz Can)
    price: 199
  - code: "0002"
    name: Pencil
    kind: fixed
    price: 99
  - code: "4011"
    name: Bananas
    kind: weighed
    price: 899
`

func TestParseAndLookup(t *testing.T) {
	c, err := catalog.Parse([]byte(sampleCatalog))
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	item, err := c.Lookup("0001", 0)
	require.NoError(t, err)
	require.Equal(t, pricing.NewFixedPriceItem("Beans (8oz Can)", 199), item)

	item, err = c.Lookup("4011", 1.5)
	require.NoError(t, err)
	require.Equal(t, pricing.Money(1349), item.Price())
	require.Equal(t, "Bananas", item.Name())

	codes := []string{}
	for _, e := range c.Entries() {
		codes = append(codes, e.Code)
	}
	require.Equal(t, []string{"0001", "0002", "4011"}, codes)
}

func TestLookupErrors(t *testing.T) {
	c, err := catalog.Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	_, err = c.Lookup("9999", 0)
	require.True(t, errors.Is(err, catalog.ErrUnknownCode))

	_, err = c.Lookup("4011", 0)
	require.True(t, errors.Is(err, catalog.ErrWeightRequired))
}

func TestNewRejectsInvalidEntries(t *testing.T) {
	_, err := catalog.New([]catalog.Entry{{Code: "1", Name: "A", Price: 1}, {Code: "1", Name: "B", Price: 2}})
	require.ErrorContains(t, err, "duplicate code")

	_, err = catalog.New([]catalog.Entry{{Code: "1", Name: "A", Kind: "bulk", Price: 1}})
	require.Error(t, err)

	_, err = catalog.New([]catalog.Entry{{Code: "1", Name: "A", Price: -5}})
	require.Error(t, err)

	_, err = catalog.Parse([]byte("items: ["))
	require.ErrorContains(t, err, "parse catalog")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o600))
	c, err := catalog.Load(path)
	require.NoError(t, err)
	_, ok := c.Get("0002")
	require.True(t, ok)

	_, err = catalog.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestNilCatalog(t *testing.T) {
	var c *catalog.Catalog
	require.Equal(t, 0, c.Len())
	_, err := c.Lookup("0001", 0)
	require.True(t, errors.Is(err, catalog.ErrUnknownCode))
}
