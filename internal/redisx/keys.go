package redisx

import "time"

const (
	// Idempotency claim for checkout: idem:checkout:{buyer_id}:{request_key}
	KeyIdemCheckout = "idem:checkout:%s:%s"

	// Cache order status: order_status:{order_id} ->
	// {"status": "...", "buyer_id": "...", "seller_id": "..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing in workers: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
