package market

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type EventItem struct {
	ProductID  string `json:"product_id"`
	Qty        int    `json:"qty"`
	PriceCents int    `json:"price_cents"`
}

type OrderPlacedPayload struct {
	OrderID       string      `json:"order_id"`
	BuyerID       string      `json:"buyer_id"`
	SellerID      string      `json:"seller_id"`
	Items         []EventItem `json:"items"`
	SubtotalCents int         `json:"subtotal_cents"`
	DeliveryCents int         `json:"delivery_cents"`
	TotalCents    int         `json:"total_cents"`
}

type OrderStatusChangedPayload struct {
	OrderID  string `json:"order_id"`
	BuyerID  string `json:"buyer_id"`
	SellerID string `json:"seller_id"`
	From     Status `json:"from"`
	To       Status `json:"to"`
	Actor    Role   `json:"actor"`
}
