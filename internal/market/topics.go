package market

const (
	TopicOrderPlaced = "farm2door.order.placed"
	TopicOrderStatus = "farm2door.order.status"
)

// Partition key = order_id so every event for one order stays in order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
