package market

import "time"

type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

type Product struct {
	ID         string        `json:"id"`
	SellerID   string        `json:"seller_id"`
	Name       string        `json:"name"`
	Category   string        `json:"category"`
	PriceCents int           `json:"price_cents"`
	Quantity   int           `json:"quantity"`
	Status     ProductStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type CartLine struct {
	ID        string    `json:"id"`
	BuyerID   string    `json:"buyer_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`

	// Joined from products for display and fee preview.
	ProductName string `json:"product_name"`
	PriceCents  int    `json:"price_cents"`
	Stock       int    `json:"stock"`
	SellerID    string `json:"seller_id"`
}

// SellerCart is one seller's slice of a buyer's cart, the unit of checkout.
type SellerCart struct {
	SellerID      string     `json:"seller_id"`
	Lines         []CartLine `json:"lines"`
	SubtotalCents int        `json:"subtotal_cents"`
	FeeCents      int        `json:"fee_cents"`
	TotalCents    int        `json:"total_cents"`
}

type Order struct {
	ID              string      `json:"id"`
	BuyerID         string      `json:"buyer_id"`
	SellerID        string      `json:"seller_id"`
	TotalCents      int         `json:"total_cents"`
	DeliveryCents   int         `json:"delivery_cents"`
	Status          Status      `json:"status"`
	DeliveryAddress string      `json:"delivery_address"`
	PhoneNumber     string      `json:"phone_number"`
	Notes           string      `json:"notes,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Items           []OrderItem `json:"items,omitempty"`
}

// OrderItem rows are immutable: PriceCents and SubtotalCents snapshot the
// product price at purchase time and never track later price changes.
type OrderItem struct {
	ID            string `json:"id"`
	OrderID       string `json:"order_id"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	Quantity      int    `json:"quantity"`
	PriceCents    int    `json:"price_cents"`
	SubtotalCents int    `json:"subtotal_cents"`
}

type NotificationType string

const (
	NotifOrderReceived  NotificationType = "order_received"
	NotifOrderConfirmed NotificationType = "order_confirmed"
	NotifOrderShipped   NotificationType = "order_shipped"
	NotifOrderDelivered NotificationType = "order_delivered"
	NotifOrderCancelled NotificationType = "order_cancelled"
	NotifGeneral        NotificationType = "general"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	OrderID   string           `json:"order_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

// StatusView is the slim order projection kept in the status cache; the party
// IDs let the read path authorize the caller without touching the database.
type StatusView struct {
	Status   Status `json:"status"`
	BuyerID  string `json:"buyer_id"`
	SellerID string `json:"seller_id"`
}

// Stats are the dashboard counters shown to a user acting as buyer and seller.
type Stats struct {
	ProductsListed int `json:"products_listed"`
	TotalSales     int `json:"total_sales"`
	TotalPurchases int `json:"total_purchases"`
	EarningsCents  int `json:"earnings_cents"`
}
