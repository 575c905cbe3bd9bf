package market

import "fmt"

// Notification copy, matching what buyers and sellers see in the UI. Order IDs
// are shortened to the first UUID group to keep the text readable.

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func sellerOrderReceived(orderID string, totalCents int) (title, msg string) {
	return "New Order Received",
		fmt.Sprintf("New order #%s received. Total: $%s", shortID(orderID), Dollars(totalCents))
}

func buyerOrderPlaced(orderID string, totalCents int) (title, msg string) {
	return "Order Placed",
		fmt.Sprintf("Your order #%s has been placed successfully. Total: $%s", shortID(orderID), Dollars(totalCents))
}

// transitionMessage builds the counterparty notification for a status change.
// actor is the role that drove the transition.
func transitionMessage(orderID string, to Status, actor Role) (title, msg string) {
	id := shortID(orderID)
	switch to {
	case StatusConfirmed:
		return "Order Confirmed", fmt.Sprintf("Your order #%s has been confirmed by the seller.", id)
	case StatusShipped:
		return "Order Shipped", fmt.Sprintf("Your order #%s has been shipped!", id)
	case StatusDelivered:
		if actor == RoleBuyer {
			return "Delivery Confirmed", fmt.Sprintf("Order #%s has been confirmed as delivered by the buyer.", id)
		}
		return "Order Delivered", fmt.Sprintf("Your order #%s has been marked as delivered!", id)
	case StatusCancelled:
		return "Order Cancelled", fmt.Sprintf("Order #%s has been cancelled by the %s.", id, actor)
	}
	return "Order Updated", fmt.Sprintf("Order #%s has been updated.", id)
}
