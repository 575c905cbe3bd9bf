package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CartRepo struct{ DB *pgxpool.Pool }

// Add puts quantity of a product into the buyer's cart, stacking onto an
// existing line for the same product. The product must be active, in stock for
// the requested amount, and not the buyer's own.
func (r *CartRepo) Add(ctx context.Context, buyerID, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrProductGone)
	}

	var stock int
	var sellerID string
	err := r.DB.QueryRow(ctx, `
		SELECT quantity, seller_id FROM products
		WHERE id = $1 AND status = 'active'`, productID).Scan(&stock, &sellerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProductGone
	}
	if err != nil {
		return err
	}
	if sellerID == buyerID {
		return ErrSelfPurchase
	}
	if stock < qty {
		var name string
		_ = r.DB.QueryRow(ctx, `SELECT name FROM products WHERE id=$1`, productID).Scan(&name)
		return &InsufficientStockError{ProductID: productID, ProductName: name, Available: stock, Requested: qty}
	}

	_, err = r.DB.Exec(ctx, `
		INSERT INTO cart (buyer_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (buyer_id, product_id)
		DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity`,
		buyerID, productID, qty)
	return err
}

// UpdateQuantity sets a cart line's quantity after re-checking live stock.
// A line that no longer exists is a no-op: duplicate browser submits after a
// checkout consumed the line must not surface as errors.
func (r *CartRepo) UpdateQuantity(ctx context.Context, buyerID, cartID string, qty int) error {
	if qty <= 0 {
		return r.Remove(ctx, buyerID, cartID)
	}

	var stock int
	var name string
	err := r.DB.QueryRow(ctx, `
		SELECT p.quantity, p.name FROM cart c
		JOIN products p ON c.product_id = p.id
		WHERE c.id = $1 AND c.buyer_id = $2`, cartID, buyerID).Scan(&stock, &name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if stock < qty {
		return &InsufficientStockError{ProductName: name, Available: stock, Requested: qty}
	}

	_, err = r.DB.Exec(ctx, `UPDATE cart SET quantity = $1 WHERE id = $2 AND buyer_id = $3`,
		qty, cartID, buyerID)
	return err
}

// Remove deletes one cart line. Removing an already-gone line is a no-op.
func (r *CartRepo) Remove(ctx context.Context, buyerID, cartID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM cart WHERE id = $1 AND buyer_id = $2`, cartID, buyerID)
	return err
}

// RemoveSeller drops every line in the buyer's cart belonging to one seller.
func (r *CartRepo) RemoveSeller(ctx context.Context, buyerID, sellerID string) error {
	_, err := r.DB.Exec(ctx, `
		DELETE FROM cart c USING products p
		WHERE c.product_id = p.id AND c.buyer_id = $1 AND p.seller_id = $2`,
		buyerID, sellerID)
	return err
}

func (r *CartRepo) Clear(ctx context.Context, buyerID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM cart WHERE buyer_id = $1`, buyerID)
	return err
}

// ListGrouped returns the buyer's cart as per-seller slices with subtotal and
// delivery fee preview, the shape the checkout page renders.
func (r *CartRepo) ListGrouped(ctx context.Context, buyerID string) ([]SellerCart, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT c.id, c.buyer_id, c.product_id, c.quantity, c.added_at,
		       p.name, p.price_cents, p.quantity, p.seller_id
		FROM cart c
		JOIN products p ON c.product_id = p.id
		WHERE c.buyer_id = $1 AND p.status = 'active'
		ORDER BY p.seller_id, p.name`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []CartLine
	for rows.Next() {
		var l CartLine
		if err := rows.Scan(&l.ID, &l.BuyerID, &l.ProductID, &l.Quantity, &l.AddedAt,
			&l.ProductName, &l.PriceCents, &l.Stock, &l.SellerID); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return GroupBySeller(lines), nil
}

// GroupBySeller folds cart lines into per-seller carts with totals. Input is
// expected ordered by seller (as ListGrouped queries it); output preserves
// that order.
func GroupBySeller(lines []CartLine) []SellerCart {
	var out []SellerCart
	idx := map[string]int{}
	for _, l := range lines {
		i, ok := idx[l.SellerID]
		if !ok {
			i = len(out)
			idx[l.SellerID] = i
			out = append(out, SellerCart{SellerID: l.SellerID})
		}
		out[i].Lines = append(out[i].Lines, l)
		out[i].SubtotalCents += l.PriceCents * l.Quantity
	}
	for i := range out {
		out[i].FeeCents = DeliveryFeeCents(out[i].SubtotalCents)
		out[i].TotalCents = out[i].SubtotalCents + out[i].FeeCents
	}
	return out
}
