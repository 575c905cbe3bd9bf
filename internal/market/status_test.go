package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusShipped},
		{StatusConfirmed, StatusCancelled},
		{StatusShipped, StatusDelivered},
	}
	for _, e := range legal {
		assert.True(t, CanTransition(e.from, e.to), "%s -> %s should be legal", e.from, e.to)
	}

	illegal := []struct{ from, to Status }{
		{StatusPending, StatusShipped},
		{StatusPending, StatusDelivered},
		{StatusConfirmed, StatusDelivered},
		{StatusShipped, StatusCancelled},
		{StatusDelivered, StatusCancelled},
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusCancelled},
		{StatusDelivered, StatusDelivered},
	}
	for _, e := range illegal {
		assert.False(t, CanTransition(e.from, e.to), "%s -> %s should be illegal", e.from, e.to)
	}
}

func TestActorMay(t *testing.T) {
	// Seller drives the fulfilment path.
	assert.True(t, ActorMay(StatusPending, StatusConfirmed, RoleSeller))
	assert.False(t, ActorMay(StatusPending, StatusConfirmed, RoleBuyer))
	assert.True(t, ActorMay(StatusConfirmed, StatusShipped, RoleSeller))
	assert.False(t, ActorMay(StatusConfirmed, StatusShipped, RoleBuyer))

	// Either side may cancel while cancellable.
	assert.True(t, ActorMay(StatusPending, StatusCancelled, RoleBuyer))
	assert.True(t, ActorMay(StatusPending, StatusCancelled, RoleSeller))
	assert.True(t, ActorMay(StatusConfirmed, StatusCancelled, RoleBuyer))
	assert.True(t, ActorMay(StatusConfirmed, StatusCancelled, RoleSeller))

	// Either side may close out a shipped order.
	assert.True(t, ActorMay(StatusShipped, StatusDelivered, RoleBuyer))
	assert.True(t, ActorMay(StatusShipped, StatusDelivered, RoleSeller))

	// Nobody touches an edge that does not exist.
	assert.False(t, ActorMay(StatusDelivered, StatusCancelled, RoleBuyer))
	assert.False(t, ActorMay(StatusCancelled, StatusPending, RoleSeller))
}

func TestRestocksOn(t *testing.T) {
	assert.True(t, RestocksOn(StatusPending, StatusCancelled))
	assert.True(t, RestocksOn(StatusConfirmed, StatusCancelled))
	assert.False(t, RestocksOn(StatusPending, StatusConfirmed))
	assert.False(t, RestocksOn(StatusConfirmed, StatusShipped))
	assert.False(t, RestocksOn(StatusShipped, StatusDelivered))
}

func TestNotificationFor(t *testing.T) {
	assert.Equal(t, NotifOrderConfirmed, NotificationFor(StatusPending, StatusConfirmed))
	assert.Equal(t, NotifOrderShipped, NotificationFor(StatusConfirmed, StatusShipped))
	assert.Equal(t, NotifOrderDelivered, NotificationFor(StatusShipped, StatusDelivered))
	assert.Equal(t, NotifOrderCancelled, NotificationFor(StatusPending, StatusCancelled))
	assert.Equal(t, NotifOrderCancelled, NotificationFor(StatusConfirmed, StatusCancelled))
	assert.Equal(t, NotifGeneral, NotificationFor(StatusDelivered, StatusShipped))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusDelivered))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(StatusConfirmed))
	assert.False(t, IsTerminal(StatusShipped))
}
