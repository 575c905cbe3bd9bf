package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/farm2door/farm2door/internal/market"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "0b5fca7e-4bb5-4f0e-9e7b-1f6f6e1c0001"

func TestRequireUser(t *testing.T) {
	var seen string
	h := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = userID(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	// No header.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage header.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-User-ID", "not-a-uuid")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid identity lands in the request context.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-User-ID", testUser)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, testUser, seen)
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"not found", market.ErrOrderNotFound, http.StatusNotFound, "order not found"},
		{"not a party", market.ErrNotYourOrder, http.StatusForbidden, "permission"},
		{"illegal transition", &market.IllegalTransitionError{From: market.StatusDelivered, To: market.StatusCancelled},
			http.StatusConflict, "currently delivered"},
		{"insufficient stock", &market.InsufficientStockError{ProductName: "Eggs", Available: 3, Requested: 5},
			http.StatusBadRequest, "only 3 available"},
		{"empty cart", market.ErrEmptyCart, http.StatusBadRequest, "no items in cart"},
		{"storage failure stays generic", errors.New("pq: connection reset"),
			http.StatusInternalServerError, "try again"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			// The raw driver error never leaks to the caller.
			assert.NotContains(t, rec.Body.String(), "pq:")
		})
	}
}

func TestCartHandlerRejectsBadInput(t *testing.T) {
	router := NewRouter()
	h := &CartHandler{Cart: &market.CartRepo{}}
	h.Register(router)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("X-User-ID", testUser)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/cart/items", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodPost, "/cart/items", `{"product_id":"","quantity":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodPost, "/cart/items", `{"product_id":"p1","quantity":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "positive quantity")

	rec = do(http.MethodPatch, "/cart/items/abc", "oops")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutHandlerRejectsBadInput(t *testing.T) {
	router := NewRouter()
	h := &OrdersHandler{Checkout: &market.CheckoutRepo{}}
	// Only the JSON-rejection path is exercised; no storage is reached.
	router.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Post("/checkout/{sellerID}", h.checkoutSeller)
	})

	req := httptest.NewRequest(http.MethodPost, "/checkout/"+testUser, strings.NewReader("{"))
	req.Header.Set("X-User-ID", testUser)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	router := NewRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
