package market

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Role of the requesting user relative to an order.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// rule describes one legal edge of the order state machine: who may take it,
// whether stock goes back to the products, and what the counterparty is told.
type rule struct {
	buyer   bool
	seller  bool
	restock bool
	notif   NotificationType
}

var transitions = map[Status]map[Status]rule{
	StatusPending: {
		StatusConfirmed: {seller: true, notif: NotifOrderConfirmed},
		StatusCancelled: {buyer: true, seller: true, restock: true, notif: NotifOrderCancelled},
	},
	StatusConfirmed: {
		StatusShipped:   {seller: true, notif: NotifOrderShipped},
		StatusCancelled: {buyer: true, seller: true, restock: true, notif: NotifOrderCancelled},
	},
	StatusShipped: {
		// The buyer confirms receipt; the seller dashboard may also close out.
		StatusDelivered: {buyer: true, seller: true, notif: NotifOrderDelivered},
	},
	StatusDelivered: {},
	StatusCancelled: {},
}

func CanTransition(from, to Status) bool {
	_, ok := transitions[from][to]
	return ok
}

// ActorMay reports whether a user in the given role may drive from -> to.
func ActorMay(from, to Status, role Role) bool {
	r, ok := transitions[from][to]
	if !ok {
		return false
	}
	switch role {
	case RoleBuyer:
		return r.buyer
	case RoleSeller:
		return r.seller
	}
	return false
}

// RestocksOn reports whether the edge returns order items to product stock.
func RestocksOn(from, to Status) bool {
	return transitions[from][to].restock
}

// NotificationFor returns the notification type sent to the counterparty on
// the edge, or NotifGeneral if the edge does not exist.
func NotificationFor(from, to Status) NotificationType {
	r, ok := transitions[from][to]
	if !ok {
		return NotifGeneral
	}
	return r.notif
}

func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}
