package market

// GuardLines is the catalog guard: it decides whether a per-seller cart slice
// may become an order. It is a pure check over lines already read (and locked)
// inside the checkout transaction, so the stock it sees is the stock the
// decrement will run against. The whole batch is rejected on the first
// violation; there is no partial fulfillment.
func GuardLines(buyerID, sellerID string, lines []CartLine) error {
	if buyerID == sellerID {
		return ErrSelfPurchase
	}
	if len(lines) == 0 {
		return ErrEmptyCart
	}
	for _, l := range lines {
		if l.SellerID == buyerID {
			return ErrSelfPurchase
		}
		if l.Quantity > l.Stock {
			return &InsufficientStockError{
				ProductID:   l.ProductID,
				ProductName: l.ProductName,
				Available:   l.Stock,
				Requested:   l.Quantity,
			}
		}
	}
	return nil
}

// SubtotalCents sums line price x quantity over a seller's cart slice.
func SubtotalCents(lines []CartLine) int {
	total := 0
	for _, l := range lines {
		total += l.PriceCents * l.Quantity
	}
	return total
}
