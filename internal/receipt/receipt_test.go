package receipt_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-register/internal/pricing"
	"github.com/noah-isme/toko-register/internal/receipt"
)

func TestEmptyReceiptOutput(t *testing.T) {
	r := receipt.New()
	if r.Total() != 0 {
		t.Fatalf("expected zero total, got %d", r.Total())
	}
	want := "Receipt:\n------------------\nTOTAL: $0.00"
	if got := r.Output(); got != want {
		t.Fatalf("unexpected output %q", got)
	}
	require.Empty(t, r.ItemsList())
}

func TestReceiptKeepsOrderAndDuplicates(t *testing.T) {
	r := receipt.New()
	require.NoError(t, r.AddItem(pricing.NewFixedPriceItem("Pencil", 99)))
	require.NoError(t, r.AddItem(pricing.NewWeighedItem("Bananas", 899, 1.5)))
	require.NoError(t, r.AddItem(pricing.NewFixedPriceItem("Pencil", 99)))

	require.Equal(t, []string{"Pencil", "Bananas", "Pencil"}, r.ItemsList())
	require.Equal(t, pricing.Money(99+1349+99), r.Total())
	require.Equal(t, r.Total(), r.Total())
	require.Equal(t, 3, r.Len())
	require.Equal(t, []receipt.Line{
		{Name: "Pencil", Price: 99},
		{Name: "Bananas", Price: 1349},
		{Name: "Pencil", Price: 99},
	}, r.Lines())

	want := "Receipt:\nPencil: $0.99\nBananas: $13.49\nPencil: $0.99\n------------------\nTOTAL: $15.47"
	require.Equal(t, want, r.Output())
}

func TestSealedReceiptRejectsItems(t *testing.T) {
	r := receipt.New()
	require.NoError(t, r.AddItem(pricing.NewFixedPriceItem("Notebook", 1200)))
	r.Seal()
	require.True(t, r.Sealed())

	err := r.AddItem(pricing.NewFixedPriceItem("Pencil", 99))
	require.True(t, errors.Is(err, receipt.ErrSealed))
	require.Equal(t, pricing.Money(1200), r.Total())
	require.Equal(t, "Receipt:\nNotebook: $12.00\n------------------\nTOTAL: $12.00", r.String())
}

func TestItemsListIsACopy(t *testing.T) {
	r := receipt.New()
	require.NoError(t, r.AddItem(pricing.NewFixedPriceItem("Pencil", 99)))
	names := r.ItemsList()
	names[0] = "Eraser"
	require.Equal(t, []string{"Pencil"}, r.ItemsList())
}

func TestTotalSaturatesInsteadOfWrapping(t *testing.T) {
	r := receipt.New()
	require.NoError(t, r.AddItem(pricing.NewFixedPriceItem("Vault", 1<<62)))
	require.NoError(t, r.AddItem(pricing.NewFixedPriceItem("Vault", 1<<62)))
	require.Equal(t, pricing.Money(math.MaxInt64), r.Total())
	require.Contains(t, r.Output(), "TOTAL: $92233720368547758.07")
}
