package market

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo holds the read side: orders, products, notifications, dashboard stats.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) GetOrder(ctx context.Context, orderID, userID string) (*Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, buyer_id, seller_id, total_cents, delivery_cents, status,
		       delivery_address, phone_number, notes, created_at, updated_at
		FROM orders WHERE id = $1`, orderID).Scan(
		&o.ID, &o.BuyerID, &o.SellerID, &o.TotalCents, &o.DeliveryCents, &o.Status,
		&o.DeliveryAddress, &o.PhoneNumber, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.BuyerID != userID && o.SellerID != userID {
		return nil, ErrNotYourOrder
	}

	items, err := r.orderItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *Repo) GetOrderStatus(ctx context.Context, orderID string) (*StatusView, error) {
	var v StatusView
	err := r.DB.QueryRow(ctx,
		`SELECT status, buyer_id, seller_id FROM orders WHERE id=$1`, orderID).Scan(
		&v.Status, &v.BuyerID, &v.SellerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repo) ListOrders(ctx context.Context, userID string, role Role) ([]Order, error) {
	col := "buyer_id"
	if role == RoleSeller {
		col = "seller_id"
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, buyer_id, seller_id, total_cents, delivery_cents, status,
		       delivery_address, phone_number, notes, created_at, updated_at
		FROM orders WHERE `+col+` = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.SellerID, &o.TotalCents, &o.DeliveryCents,
			&o.Status, &o.DeliveryAddress, &o.PhoneNumber, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) orderItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.price_cents, oi.subtotal_cents
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1
		ORDER BY p.name`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.PriceCents, &it.SubtotalCents); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// CountByStatus returns the my-orders page counters for one user and role.
func (r *Repo) CountByStatus(ctx context.Context, userID string, role Role) (map[Status]int, error) {
	col := "buyer_id"
	if role == RoleSeller {
		col = "seller_id"
	}
	rows, err := r.DB.Query(ctx,
		`SELECT status, COUNT(*) FROM orders WHERE `+col+` = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[Status]int{}
	for rows.Next() {
		var s Status
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[s] = n
	}
	return counts, rows.Err()
}

// ListProducts returns active products, optionally restricted to one seller.
func (r *Repo) ListProducts(ctx context.Context, sellerID string) ([]Product, error) {
	q := `SELECT id, seller_id, name, category, price_cents, quantity, status, created_at, updated_at
	      FROM products WHERE status = 'active'`
	args := []any{}
	if sellerID != "" {
		q += ` AND seller_id = $1`
		args = append(args, sellerID)
	}
	q += ` ORDER BY name`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.SellerID, &p.Name, &p.Category, &p.PriceCents,
			&p.Quantity, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Stats computes the dashboard counters. Earnings exclude cancelled orders.
func (r *Repo) Stats(ctx context.Context, userID string) (*Stats, error) {
	var s Stats
	err := r.DB.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products WHERE seller_id = $1),
			(SELECT COUNT(*) FROM orders WHERE seller_id = $1),
			(SELECT COUNT(*) FROM orders WHERE buyer_id = $1),
			(SELECT COALESCE(SUM(total_cents), 0) FROM orders WHERE seller_id = $1 AND status != 'cancelled')`,
		userID).Scan(&s.ProductsListed, &s.TotalSales, &s.TotalPurchases, &s.EarningsCents)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) ListNotifications(ctx context.Context, userID string) ([]Notification, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, type, title, message, COALESCE(order_id::text, ''), is_read, created_at
		FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&n.OrderID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead flips the read flag, the one mutation notifications
// admit. Unknown IDs are a no-op.
func (r *Repo) MarkNotificationRead(ctx context.Context, userID, notifID string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		notifID, userID)
	return err
}
