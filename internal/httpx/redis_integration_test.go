package httpx

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/farm2door/farm2door/internal/market"
	"github.com/farm2door/farm2door/internal/redisx"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run against a real redis when TEST_REDIS_ADDR is set. They only
// exercise the paths answered from redis, so no database is wired.

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	c := redisx.New(addr)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCheckoutRejectsDuplicateIdempotencyKey(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	buyer := uuid.NewString()

	h := &OrdersHandler{Redis: rdb}
	router := NewRouter()
	h.Register(router)

	// An earlier submit already claimed this key.
	key := fmt.Sprintf(redisx.KeyIdemCheckout, buyer, "order-submit-1")
	ok, err := redisx.SetOnce(ctx, rdb, key, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	req := httptest.NewRequest(http.MethodPost, "/checkout/"+uuid.NewString(),
		strings.NewReader(`{"delivery_address":"12 Orchard Lane","phone_number":"555-0100"}`))
	req.Header.Set("X-User-ID", buyer)
	req.Header.Set("Idempotency-Key", "order-submit-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "duplicate checkout request")

	// Another buyer's identical key is a distinct claim.
	otherKey := fmt.Sprintf(redisx.KeyIdemCheckout, uuid.NewString(), "order-submit-1")
	ok, err = redisx.SetOnce(ctx, rdb, otherKey, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOrderStatusCacheChecksParty(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	buyer, seller, orderID := uuid.NewString(), uuid.NewString(), uuid.NewString()

	h := &OrdersHandler{Redis: rdb}
	router := NewRouter()
	h.Register(router)

	h.cacheStatus(ctx, orderID, &market.StatusView{
		Status: market.StatusShipped, BuyerID: buyer, SellerID: seller})

	get := func(asUser string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/orders/"+orderID+"/status", nil)
		req.Header.Set("X-User-ID", asUser)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := get(buyer)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"shipped"`)
	// The cached doc's party IDs never reach the response body.
	assert.NotContains(t, rec.Body.String(), seller)

	rec = get(seller)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A stranger gets the same refusal the full order read gives.
	rec = get(uuid.NewString())
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
