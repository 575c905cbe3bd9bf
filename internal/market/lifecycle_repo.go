package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LifecycleRepo struct{ DB *pgxpool.Pool }

// TransitionResult reports an applied transition for the caller and the event
// publisher.
type TransitionResult struct {
	OrderID  string `json:"order_id"`
	BuyerID  string `json:"buyer_id"`
	SellerID string `json:"seller_id"`
	From     Status `json:"from"`
	To       Status `json:"to"`
	Actor    Role   `json:"actor"`
}

// Transition moves an order to the requested status on behalf of userID.
// Authorization, legality, the status write, stock restoration on
// cancellation, and the counterparty notification all happen in one
// transaction with the order row locked, so a duplicate request observes the
// already-updated status and is rejected as illegal instead of re-applying
// side effects. Stock is therefore never restored twice.
func (r *LifecycleRepo) Transition(ctx context.Context, orderID, userID string, to Status) (*TransitionResult, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var buyerID, sellerID string
	var from Status
	err = tx.QueryRow(ctx, `
		SELECT buyer_id, seller_id, status FROM orders
		WHERE id = $1 FOR UPDATE`, orderID).Scan(&buyerID, &sellerID, &from)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	var actor Role
	switch userID {
	case buyerID:
		actor = RoleBuyer
	case sellerID:
		actor = RoleSeller
	default:
		return nil, ErrNotYourOrder
	}

	if !CanTransition(from, to) {
		return nil, &IllegalTransitionError{From: from, To: to}
	}
	if !ActorMay(from, to, actor) {
		return nil, ErrNotYourOrder
	}

	if _, err := tx.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
		orderID, to); err != nil {
		return nil, err
	}

	if RestocksOn(from, to) {
		if err := restoreStock(ctx, tx, orderID); err != nil {
			return nil, err
		}
	}

	counterparty := sellerID
	if actor == RoleSeller {
		counterparty = buyerID
	}
	title, msg := transitionMessage(orderID, to, actor)
	if err := insertNotification(ctx, tx, counterparty, NotificationFor(from, to), title, msg, orderID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transition: %w", err)
	}
	return &TransitionResult{
		OrderID: orderID, BuyerID: buyerID, SellerID: sellerID,
		From: from, To: to, Actor: actor,
	}, nil
}

// restoreStock returns the exact quantities recorded in the order's items back
// onto their products. Runs only inside the cancelling transaction.
func restoreStock(ctx context.Context, tx pgx.Tx, orderID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE products p SET quantity = p.quantity + oi.quantity, updated_at = now()
		FROM order_items oi
		WHERE oi.product_id = p.id AND oi.order_id = $1`, orderID)
	return err
}
