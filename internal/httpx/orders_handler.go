package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	kafkax "github.com/farm2door/farm2door/internal/kafka"
	"github.com/farm2door/farm2door/internal/market"
	"github.com/farm2door/farm2door/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

type OrdersHandler struct {
	Repo           *market.Repo
	Checkout       *market.CheckoutRepo
	Lifecycle      *market.LifecycleRepo
	PlacedProducer *kafkax.Producer
	StatusProducer *kafkax.Producer
	Redis          *redis.Client
	Service        string
}

type checkoutReq struct {
	DeliveryAddress string `json:"delivery_address"`
	PhoneNumber     string `json:"phone_number"`
	Notes           string `json:"notes"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Post("/checkout/{sellerID}", h.checkoutSeller)
		r.Post("/checkout", h.checkoutAll)
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{id}", h.getOrder)
		r.Get("/orders/{id}/status", h.getOrderStatus)
		r.Post("/orders/{id}/confirm", h.transitionTo(market.StatusConfirmed))
		r.Post("/orders/{id}/ship", h.transitionTo(market.StatusShipped))
		r.Post("/orders/{id}/deliver", h.transitionTo(market.StatusDelivered))
		r.Post("/orders/{id}/cancel", h.transitionTo(market.StatusCancelled))
		r.Get("/products", h.listProducts)
		r.Get("/stats", h.stats)
		r.Get("/notifications", h.listNotifications)
		r.Post("/notifications/{id}/read", h.markNotificationRead)
	})
}

func (h *OrdersHandler) checkoutSeller(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	release, dup := h.claimIdempotency(ctx, r)
	if dup {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "duplicate checkout request"})
		return
	}

	order, err := h.Checkout.CheckoutSeller(ctx, userID(r), chi.URLParam(r, "sellerID"),
		req.DeliveryAddress, req.PhoneNumber, req.Notes)
	if err != nil {
		release()
		writeError(w, err)
		return
	}

	h.cacheStatus(ctx, order.ID, &market.StatusView{
		Status: order.Status, BuyerID: order.BuyerID, SellerID: order.SellerID})
	h.publishPlaced(order, r.Header.Get("X-Request-Id"))
	writeJSON(w, http.StatusCreated, order)
}

// claimIdempotency reserves the caller's Idempotency-Key so a double submit
// cannot place the same order twice. The claim is released on a failed
// checkout so the same key may retry; without redis or a key it is a no-op.
func (h *OrdersHandler) claimIdempotency(ctx context.Context, r *http.Request) (release func(), dup bool) {
	k := r.Header.Get("Idempotency-Key")
	if k == "" || h.Redis == nil {
		return func() {}, false
	}
	key := fmt.Sprintf(redisx.KeyIdemCheckout, userID(r), k)
	ok, err := redisx.SetOnce(ctx, h.Redis, key, redisx.TTLIdempotency)
	if err != nil {
		return func() {}, false
	}
	if !ok {
		return func() {}, true
	}
	return func() { _ = h.Redis.Del(ctx, key).Err() }, false
}

func (h *OrdersHandler) checkoutAll(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	// One transaction per seller; a generous budget since sellers settle
	// independently.
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	release, dup := h.claimIdempotency(ctx, r)
	if dup {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "duplicate checkout request"})
		return
	}

	results, err := h.Checkout.CheckoutAll(ctx, userID(r), req.DeliveryAddress, req.PhoneNumber, req.Notes)
	if err != nil {
		release()
		writeError(w, err)
		return
	}

	code := http.StatusCreated
	placed := false
	for _, res := range results {
		if res.Order != nil {
			placed = true
			h.cacheStatus(ctx, res.Order.ID, &market.StatusView{
				Status: res.Order.Status, BuyerID: res.Order.BuyerID, SellerID: res.Order.SellerID})
			h.publishPlaced(res.Order, r.Header.Get("X-Request-Id"))
		} else {
			code = http.StatusMultiStatus
		}
	}
	if !placed {
		release()
	}
	writeJSON(w, code, results)
}

// transitionTo builds the handler for one lifecycle action; the actor's role
// is resolved from the order itself, not the route.
func (h *OrdersHandler) transitionTo(to market.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := h.Lifecycle.Transition(ctx, chi.URLParam(r, "id"), userID(r), to)
		if err != nil {
			writeError(w, err)
			return
		}

		h.cacheStatus(ctx, res.OrderID, &market.StatusView{
			Status: res.To, BuyerID: res.BuyerID, SellerID: res.SellerID})
		h.publishStatusChanged(res, r.Header.Get("X-Request-Id"))
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	order, err := h.Repo.GetOrder(ctx, chi.URLParam(r, "id"), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// getOrderStatus serves the cached status when redis has it; the database
// stays authoritative on a miss. Either way the caller must be a party to
// the order.
func (h *OrdersHandler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		var v market.StatusView
		if json.Unmarshal([]byte(s), &v) == nil && v.BuyerID != "" {
			if uid := userID(r); uid != v.BuyerID && uid != v.SellerID {
				writeError(w, market.ErrNotYourOrder)
				return
			}
			writeJSON(w, http.StatusOK, map[string]market.Status{"status": v.Status})
			return
		}
	}

	v, err := h.Repo.GetOrderStatus(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	if uid := userID(r); uid != v.BuyerID && uid != v.SellerID {
		writeError(w, market.ErrNotYourOrder)
		return
	}
	h.cacheStatus(ctx, orderID, v)
	writeJSON(w, http.StatusOK, map[string]market.Status{"status": v.Status})
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	role := market.RoleBuyer
	if r.URL.Query().Get("role") == string(market.RoleSeller) {
		role = market.RoleSeller
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.Repo.ListOrders(ctx, userID(r), role)
	if err != nil {
		writeError(w, err)
		return
	}
	counts, err := h.Repo.CountByStatus(ctx, userID(r), role)
	if err != nil {
		writeError(w, err)
		return
	}
	if orders == nil {
		orders = []market.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders, "counts": counts})
}

func (h *OrdersHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Repo.ListProducts(ctx, r.URL.Query().Get("seller_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if ps == nil {
		ps = []market.Product{}
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *OrdersHandler) stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	s, err := h.Repo.Stats(ctx, userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *OrdersHandler) listNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ns, err := h.Repo.ListNotifications(ctx, userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if ns == nil {
		ns = []market.Notification{}
	}
	writeJSON(w, http.StatusOK, ns)
}

func (h *OrdersHandler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Repo.MarkNotificationRead(ctx, userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}

// cacheStatus keeps status reads cheap; the database stays the source of
// truth. The cached doc carries the party IDs for the read path's check.
func (h *OrdersHandler) cacheStatus(ctx context.Context, orderID string, v *market.StatusView) {
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	_ = h.Redis.Set(ctx, key, kafkax.MustMarshal(v), redisx.TTLStatusCache).Err()
}

func (h *OrdersHandler) publishPlaced(order *market.Order, traceID string) {
	items := make([]market.EventItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, market.EventItem{ProductID: it.ProductID, Qty: it.Quantity, PriceCents: it.PriceCents})
	}
	ev := market.Envelope{
		EventID:       uuid.NewString(),
		EventType:     market.EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       traceID,
		CorrelationID: order.ID,
		Payload: kafkax.MustMarshal(market.OrderPlacedPayload{
			OrderID:       order.ID,
			BuyerID:       order.BuyerID,
			SellerID:      order.SellerID,
			Items:         items,
			SubtotalCents: order.TotalCents - order.DeliveryCents,
			DeliveryCents: order.DeliveryCents,
			TotalCents:    order.TotalCents,
		}),
	}
	h.PlacedProducer.Publish(market.PartitionKey(order.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(market.EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) publishStatusChanged(res *market.TransitionResult, traceID string) {
	ev := market.Envelope{
		EventID:       uuid.NewString(),
		EventType:     market.EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       traceID,
		CorrelationID: res.OrderID,
		Payload: kafkax.MustMarshal(market.OrderStatusChangedPayload{
			OrderID:  res.OrderID,
			BuyerID:  res.BuyerID,
			SellerID: res.SellerID,
			From:     res.From,
			To:       res.To,
			Actor:    res.Actor,
		}),
	}
	h.StatusProducer.Publish(market.PartitionKey(res.OrderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(market.EventOrderStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
