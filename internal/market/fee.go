package market

import "fmt"

// Delivery fee policy, in cents. Free above $100, $5 from $50, $10 below.
const (
	freeDeliveryCents    = 10000
	midDeliveryCents     = 5000
	midDeliveryFeeCents  = 500
	baseDeliveryFeeCents = 1000
)

func DeliveryFeeCents(subtotalCents int) int {
	switch {
	case subtotalCents >= freeDeliveryCents:
		return 0
	case subtotalCents >= midDeliveryCents:
		return midDeliveryFeeCents
	default:
		return baseDeliveryFeeCents
	}
}

// Dollars renders cents as a display amount, e.g. 1547 -> "15.47".
func Dollars(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
