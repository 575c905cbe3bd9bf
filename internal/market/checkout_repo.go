package market

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CheckoutRepo struct{ DB *pgxpool.Pool }

// CheckoutSellerResult is what one seller's checkout produced, or why it was
// rejected when part of a checkout-all batch.
type CheckoutSellerResult struct {
	SellerID string `json:"seller_id"`
	Order    *Order `json:"order,omitempty"`
	Err      error  `json:"-"`
	ErrMsg   string `json:"error,omitempty"`
}

// CheckoutSeller converts the buyer's cart slice for one seller into an order.
// Everything happens in one transaction: the guard's stock reads run against
// product rows locked FOR UPDATE, so a concurrent checkout racing for the same
// stock blocks until this one commits or rolls back. On any failure nothing is
// persisted: no order, no stock decrement, no cart deletion, no notifications.
func (r *CheckoutRepo) CheckoutSeller(ctx context.Context, buyerID, sellerID, address, phone, notes string) (*Order, error) {
	address = strings.TrimSpace(address)
	phone = strings.TrimSpace(phone)
	notes = strings.TrimSpace(notes)
	if address == "" || phone == "" {
		return nil, ErrMissingDelivery
	}
	if buyerID == sellerID {
		return nil, ErrSelfPurchase
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lines, err := lockSellerLines(ctx, tx, buyerID, sellerID)
	if err != nil {
		return nil, err
	}
	if err := GuardLines(buyerID, sellerID, lines); err != nil {
		return nil, err
	}

	subtotal := SubtotalCents(lines)
	fee := DeliveryFeeCents(subtotal)
	total := subtotal + fee

	order := Order{
		ID:              uuid.NewString(),
		BuyerID:         buyerID,
		SellerID:        sellerID,
		TotalCents:      total,
		DeliveryCents:   fee,
		Status:          StatusPending,
		DeliveryAddress: address,
		PhoneNumber:     phone,
		Notes:           notes,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, buyer_id, seller_id, total_cents, delivery_cents,
		                    status, delivery_address, phone_number, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		order.ID, order.BuyerID, order.SellerID, order.TotalCents, order.DeliveryCents,
		order.Status, order.DeliveryAddress, order.PhoneNumber, order.Notes,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	for _, l := range lines {
		item := OrderItem{
			ID:            uuid.NewString(),
			OrderID:       order.ID,
			ProductID:     l.ProductID,
			ProductName:   l.ProductName,
			Quantity:      l.Quantity,
			PriceCents:    l.PriceCents,
			SubtotalCents: l.PriceCents * l.Quantity,
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price_cents, subtotal_cents)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			item.ID, item.OrderID, item.ProductID, item.Quantity, item.PriceCents, item.SubtotalCents,
		); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)

		// The rows are locked and the guard already passed, but the decrement
		// re-checks anyway so stock can never cross zero.
		ct, err := tx.Exec(ctx, `
			UPDATE products SET quantity = quantity - $2, updated_at = now()
			WHERE id = $1 AND quantity >= $2`, l.ProductID, l.Quantity)
		if err != nil {
			return nil, err
		}
		if ct.RowsAffected() != 1 {
			return nil, &InsufficientStockError{
				ProductID: l.ProductID, ProductName: l.ProductName,
				Available: l.Stock, Requested: l.Quantity,
			}
		}
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM cart c USING products p
		WHERE c.product_id = p.id AND c.buyer_id = $1 AND p.seller_id = $2`,
		buyerID, sellerID,
	); err != nil {
		return nil, err
	}

	sellerTitle, sellerMsg := sellerOrderReceived(order.ID, total)
	if err := insertNotification(ctx, tx, sellerID, NotifOrderReceived, sellerTitle, sellerMsg, order.ID); err != nil {
		return nil, err
	}
	buyerTitle, buyerMsg := buyerOrderPlaced(order.ID, total)
	if err := insertNotification(ctx, tx, buyerID, NotifOrderConfirmed, buyerTitle, buyerMsg, order.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}
	return &order, nil
}

// CheckoutAll runs one independent CheckoutSeller per seller present in the
// cart. One seller's rejection never rolls back another's order.
func (r *CheckoutRepo) CheckoutAll(ctx context.Context, buyerID, address, phone, notes string) ([]CheckoutSellerResult, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT DISTINCT p.seller_id
		FROM cart c JOIN products p ON c.product_id = p.id
		WHERE c.buyer_id = $1 AND p.status = 'active'
		ORDER BY p.seller_id`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sellers []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		sellers = append(sellers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sellers) == 0 {
		return nil, ErrEmptyCart
	}

	out := make([]CheckoutSellerResult, 0, len(sellers))
	for _, sellerID := range sellers {
		res := CheckoutSellerResult{SellerID: sellerID}
		order, err := r.CheckoutSeller(ctx, buyerID, sellerID, address, phone, notes)
		if err != nil {
			res.Err = err
			res.ErrMsg = err.Error()
		} else {
			res.Order = order
		}
		out = append(out, res)
	}
	return out, nil
}

// lockSellerLines reads the buyer's cart lines for one seller with the product
// rows locked, pinning price and stock for the rest of the transaction.
func lockSellerLines(ctx context.Context, tx pgx.Tx, buyerID, sellerID string) ([]CartLine, error) {
	rows, err := tx.Query(ctx, `
		SELECT c.id, c.buyer_id, c.product_id, c.quantity, c.added_at,
		       p.name, p.price_cents, p.quantity, p.seller_id
		FROM cart c
		JOIN products p ON c.product_id = p.id
		WHERE c.buyer_id = $1 AND p.seller_id = $2 AND p.status = 'active'
		ORDER BY p.id
		FOR UPDATE OF p`, buyerID, sellerID)
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
	return lines, rows.Err()
}

func insertNotification(ctx context.Context, tx pgx.Tx, userID string, typ NotificationType, title, msg, orderID string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, order_id)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		uuid.NewString(), userID, typ, title, msg, orderID)
	return err
}
