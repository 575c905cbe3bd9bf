package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderPlacedMessages(t *testing.T) {
	title, msg := sellerOrderReceived("3f2b8c1d-aaaa-bbbb-cccc-000000000000", 2547)
	assert.Equal(t, "New Order Received", title)
	assert.Equal(t, "New order #3f2b8c1d received. Total: $25.47", msg)

	title, msg = buyerOrderPlaced("3f2b8c1d-aaaa-bbbb-cccc-000000000000", 2547)
	assert.Equal(t, "Order Placed", title)
	assert.Equal(t, "Your order #3f2b8c1d has been placed successfully. Total: $25.47", msg)
}

func TestTransitionMessages(t *testing.T) {
	id := "3f2b8c1d-aaaa-bbbb-cccc-000000000000"

	title, msg := transitionMessage(id, StatusConfirmed, RoleSeller)
	assert.Equal(t, "Order Confirmed", title)
	assert.Equal(t, "Your order #3f2b8c1d has been confirmed by the seller.", msg)

	_, msg = transitionMessage(id, StatusShipped, RoleSeller)
	assert.Equal(t, "Your order #3f2b8c1d has been shipped!", msg)

	// Delivered copy depends on who closed the order out.
	title, msg = transitionMessage(id, StatusDelivered, RoleBuyer)
	assert.Equal(t, "Delivery Confirmed", title)
	assert.Equal(t, "Order #3f2b8c1d has been confirmed as delivered by the buyer.", msg)

	title, msg = transitionMessage(id, StatusDelivered, RoleSeller)
	assert.Equal(t, "Order Delivered", title)
	assert.Equal(t, "Your order #3f2b8c1d has been marked as delivered!", msg)

	_, msg = transitionMessage(id, StatusCancelled, RoleBuyer)
	assert.Equal(t, "Order #3f2b8c1d has been cancelled by the buyer.", msg)
	_, msg = transitionMessage(id, StatusCancelled, RoleSeller)
	assert.Equal(t, "Order #3f2b8c1d has been cancelled by the seller.", msg)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "3f2b8c1d", shortID("3f2b8c1d-aaaa-bbbb-cccc-000000000000"))
	assert.Equal(t, "tiny", shortID("tiny"))
}
