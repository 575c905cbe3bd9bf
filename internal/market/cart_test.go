package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBySeller(t *testing.T) {
	lines := []CartLine{
		{ID: "c1", SellerID: "s1", ProductName: "Carrots", Quantity: 3, PriceCents: 250},
		{ID: "c2", SellerID: "s1", ProductName: "Potatoes", Quantity: 2, PriceCents: 400},
		{ID: "c3", SellerID: "s2", ProductName: "Honey", Quantity: 1, PriceCents: 12000},
	}

	carts := GroupBySeller(lines)
	require.Len(t, carts, 2)

	// s1: 3x250 + 2x400 = 1550 -> $10 fee tier is passed, $5 tier not reached
	assert.Equal(t, "s1", carts[0].SellerID)
	assert.Len(t, carts[0].Lines, 2)
	assert.Equal(t, 1550, carts[0].SubtotalCents)
	assert.Equal(t, 1000, carts[0].FeeCents)
	assert.Equal(t, 2550, carts[0].TotalCents)

	// s2: $120 order ships free
	assert.Equal(t, "s2", carts[1].SellerID)
	assert.Equal(t, 12000, carts[1].SubtotalCents)
	assert.Equal(t, 0, carts[1].FeeCents)
	assert.Equal(t, 12000, carts[1].TotalCents)
}

func TestGroupBySellerEmpty(t *testing.T) {
	assert.Empty(t, GroupBySeller(nil))
}

func TestGroupBySellerFeePerSeller(t *testing.T) {
	// Fees are computed per seller slice, never across the whole cart.
	lines := []CartLine{
		{ID: "c1", SellerID: "s1", Quantity: 1, PriceCents: 6000},
		{ID: "c2", SellerID: "s2", Quantity: 1, PriceCents: 6000},
	}
	carts := GroupBySeller(lines)
	require.Len(t, carts, 2)
	for _, c := range carts {
		assert.Equal(t, 500, c.FeeCents)
	}
}
