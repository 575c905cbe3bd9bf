package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// migrations are applied once at deploy time by cmd/migrate. The services
// assume the schema already exists. User IDs are opaque: identity lives in an
// external system, so there is no users table here.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		seller_id UUID NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		price_cents INTEGER NOT NULL CHECK (price_cents >= 0),
		quantity INTEGER NOT NULL CHECK (quantity >= 0),
		status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_seller_id ON products(seller_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_status ON products(status)`,

	`CREATE TABLE IF NOT EXISTS cart (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		buyer_id UUID NOT NULL,
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		quantity INTEGER NOT NULL CHECK (quantity >= 1),
		added_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (buyer_id, product_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cart_buyer_id ON cart(buyer_id)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		buyer_id UUID NOT NULL,
		seller_id UUID NOT NULL,
		total_cents INTEGER NOT NULL CHECK (total_cents >= 0),
		delivery_cents INTEGER NOT NULL DEFAULT 0 CHECK (delivery_cents >= 0),
		status TEXT NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'confirmed', 'shipped', 'delivered', 'cancelled')),
		delivery_address TEXT NOT NULL,
		phone_number TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_buyer_id ON orders(buyer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_seller_id ON orders(seller_id)`,

	`CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id UUID NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL CHECK (quantity >= 1),
		price_cents INTEGER NOT NULL CHECK (price_cents >= 0),
		subtotal_cents INTEGER NOT NULL CHECK (subtotal_cents >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		type TEXT NOT NULL DEFAULT 'general'
			CHECK (type IN ('order_received', 'order_confirmed', 'order_shipped',
			                'order_delivered', 'order_cancelled', 'general')),
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		order_id UUID REFERENCES orders(id) ON DELETE CASCADE,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id)`,
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
