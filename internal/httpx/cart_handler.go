package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/farm2door/farm2door/internal/market"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	Cart *market.CartRepo
}

type addToCartReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateQtyReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Get("/cart", h.list)
		r.Post("/cart/items", h.add)
		r.Patch("/cart/items/{id}", h.updateQuantity)
		r.Delete("/cart/items/{id}", h.remove)
		r.Delete("/cart/sellers/{sellerID}", h.removeSeller)
		r.Delete("/cart", h.clear)
	})
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	var req addToCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.ProductID == "" || req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_id and a positive quantity are required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Cart.Add(ctx, userID(r), req.ProductID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "product added to cart"})
}

func (h *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQtyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Cart.UpdateQuantity(ctx, userID(r), chi.URLParam(r, "id"), req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "cart updated"})
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Cart.Remove(ctx, userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "item removed from cart"})
}

func (h *CartHandler) removeSeller(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Cart.RemoveSeller(ctx, userID(r), chi.URLParam(r, "sellerID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "seller's products removed from cart"})
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Cart.Clear(ctx, userID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

func (h *CartHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	carts, err := h.Cart.ListGrouped(ctx, userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if carts == nil {
		carts = []market.SellerCart{}
	}
	writeJSON(w, http.StatusOK, carts)
}
