package register

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-register/internal/pricing"
	"github.com/noah-isme/toko-register/internal/receipt"
)

var (
	beans   = pricing.NewFixedPriceItem("Beans (8oz Can)", 199)
	pencil  = pricing.NewFixedPriceItem("Pencil", 99)
	granola = pricing.NewFixedPriceItem("Granola Bars (Box, 8ct)", 499)
)

func mustScan(t *testing.T, r *Register, items ...pricing.Priceable) {
	t.Helper()
	for _, it := range items {
		if err := r.Scan(it); err != nil {
			t.Fatalf("scan %q: %v", it.Name(), err)
		}
	}
}

func TestOneItem(t *testing.T) {
	r := New()
	mustScan(t, r, beans)
	if r.Subtotal() != 199 {
		t.Fatalf("expected subtotal 199, got %d", r.Subtotal())
	}

	rcpt := r.Finalize()
	require.Equal(t, pricing.Money(199), rcpt.Total())
	require.Equal(t, "Receipt:\nBeans (8oz Can): $1.99\n------------------\nTOTAL: $1.99", rcpt.Output())
}

func TestThreeSameItems(t *testing.T) {
	r := New()
	mustScan(t, r, beans, beans, beans)
	require.Equal(t, pricing.Money(199*3), r.Subtotal())
	require.Equal(t, []string{"Beans (8oz Can)", "Beans (8oz Can)", "Beans (8oz Can)"}, r.Finalize().ItemsList())
}

func TestThreeDifferentItems(t *testing.T) {
	r := New()
	for i, tc := range []struct {
		item pricing.Priceable
		want pricing.Money
	}{
		{beans, 199},
		{pencil, 298},
		{granola, 797},
	} {
		mustScan(t, r, tc.item)
		if got := r.Subtotal(); got != tc.want {
			t.Fatalf("step %d: expected subtotal %d, got %d", i, tc.want, got)
		}
	}

	rcpt := r.Finalize()
	require.Equal(t, pricing.Money(797), rcpt.Total())
	want := "Receipt:\nBeans (8oz Can): $1.99\nPencil: $0.99\nGranola Bars (Box, 8ct): $4.99\n------------------\nTOTAL: $7.97"
	require.Equal(t, want, rcpt.Output())
}

func TestEmptyReceipt(t *testing.T) {
	rcpt := New().Finalize()
	require.Equal(t, pricing.Money(0), rcpt.Total())
	require.Equal(t, "Receipt:\n------------------\nTOTAL: $0.00", rcpt.Output())
}

func TestFinalizeResetsSubtotal(t *testing.T) {
	r := New()
	mustScan(t, r, beans)
	first := r.Finalize()
	require.Equal(t, pricing.Money(0), r.Subtotal())
	require.Equal(t, 0, r.Pending())

	mustScan(t, r, pencil)
	second := r.Finalize()

	require.Equal(t, pricing.Money(199), first.Total())
	require.Equal(t, pricing.Money(99), second.Total())
	require.Equal(t, "Receipt:\nBeans (8oz Can): $1.99\n------------------\nTOTAL: $1.99", first.Output())
	require.Equal(t, "Receipt:\nPencil: $0.99\n------------------\nTOTAL: $0.99", second.Output())
}

func TestFinalizedReceiptIsDetached(t *testing.T) {
	r := New()
	mustScan(t, r, granola)
	done := r.Finalize()

	mustScan(t, r, beans, pencil)
	require.Equal(t, pricing.Money(499), done.Total())
	require.Equal(t, []string{"Granola Bars (Box, 8ct)"}, done.ItemsList())

	err := done.AddItem(pencil)
	require.True(t, errors.Is(err, receipt.ErrSealed))
	require.Equal(t, pricing.Money(298), r.Subtotal())
}

func TestReceiptFormat(t *testing.T) {
	r := New()
	mustScan(t, r, beans, pencil)
	want := "Receipt:\nBeans (8oz Can): $1.99\nPencil: $0.99\n------------------\nTOTAL: $2.98"
	require.Equal(t, want, r.Finalize().Output())
}

func TestLargeTotalAmount(t *testing.T) {
	r := New()
	mustScan(t, r, granola, beans, pencil, pricing.NewFixedPriceItem("Notebook", 1200))
	rcpt := r.Finalize()
	require.Equal(t, pricing.Money(199+99+499+1200), rcpt.Total())
	want := "Receipt:\nGranola Bars (Box, 8ct): $4.99\nBeans (8oz Can): $1.99\nPencil: $0.99\nNotebook: $12.00\n------------------\nTOTAL: $19.97"
	require.Equal(t, want, rcpt.Output())
}

func TestZeroPriceItem(t *testing.T) {
	r := New(WithStrictItems())
	mustScan(t, r, pricing.NewFixedPriceItem("Free Item", 0))
	require.Equal(t, pricing.Money(0), r.Subtotal())
}

func TestWeighedItemOnReceipt(t *testing.T) {
	r := New()
	mustScan(t, r, pricing.NewWeighedItem("Bananas", 899, 1.5))
	require.Equal(t, pricing.Money(1349), r.Subtotal())
	require.Equal(t, "Receipt:\nBananas: $13.49\n------------------\nTOTAL: $13.49", r.Finalize().Output())
}

func TestStrictRegisterRejectsInvalidItems(t *testing.T) {
	r := New(WithStrictItems())
	err := r.Scan(pricing.NewFixedPriceItem("Refund", -100))
	require.True(t, errors.Is(err, pricing.ErrInvalidItem))
	require.Equal(t, 0, r.Pending())

	lenient := New()
	require.NoError(t, lenient.Scan(pricing.NewFixedPriceItem("Refund", -100)))
	require.Equal(t, pricing.Money(-100), lenient.Subtotal())
}

func TestScanRejectsNilItem(t *testing.T) {
	for _, r := range []*Register{New(), New(WithStrictItems())} {
		err := r.Scan(nil)
		require.True(t, errors.Is(err, pricing.ErrInvalidItem))
		require.Equal(t, 0, r.Pending())
		require.Equal(t, pricing.Money(0), r.Subtotal())
		require.Empty(t, r.Finalize().ItemsList())
	}
}

func TestScanRejectsSubtotalOverflow(t *testing.T) {
	r := New()
	require.NoError(t, r.Scan(pricing.NewFixedPriceItem("Vault", 1<<62)))
	err := r.Scan(pricing.NewFixedPriceItem("Vault", 1<<62))
	require.True(t, errors.Is(err, pricing.ErrAmountOverflow))
	require.Equal(t, 1, r.Pending())
	require.Equal(t, pricing.Money(1<<62), r.Subtotal())
}

func TestStrictRegisterRejectsOversizedWeighedItem(t *testing.T) {
	r := New(WithStrictItems())
	err := r.Scan(pricing.NewWeighedItem("Gravel", 100, 1e300))
	require.True(t, errors.Is(err, pricing.ErrInvalidItem))
	require.Equal(t, pricing.Money(0), r.Subtotal())
}
