package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/team6/oms-dashboard/internal/shop"
)

// memoryCache is a map-backed stand-in for the redis cache.
type memoryCache struct {
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]string)}
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.values[key] = value.(string)
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	return m.values[key], nil
}

func (m *memoryCache) Del(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *memoryCache) GenerateKey(operation, key string) string {
	return "test:" + operation + ":" + key
}

func newTestServer(t *testing.T) (*httptest.Server, *shop.Service) {
	t.Helper()
	svc := shop.NewService()
	srv := httptest.NewServer(NewRouter(NewHandler(svc, nil)))
	t.Cleanup(srv.Close)
	return srv, svc
}

const createBody = `{
	"customer": {"customerId": "CUST-1", "prename": "Ana", "name": "Rossi"},
	"shippingAddress": {"street": "Main 1", "city": "Berlin", "zipCode": "10115", "country": "Germany"},
	"items": [{"productId": "SKU-1", "quantity": 2, "price": 9.99}],
	"totalAmount": 19.98
}`

func decodeOrder(t *testing.T, resp *http.Response) OrderResponse {
	t.Helper()
	var out OrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func bodyText(t *testing.T, resp *http.Response) string {
	t.Helper()
	buf := new(strings.Builder)
	_, err := io.Copy(buf, resp.Body)
	require.NoError(t, err)
	return buf.String()
}

func TestCreateOrderEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/orders", "application/json", strings.NewReader(createBody))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	out := decodeOrder(t, resp)
	assert.True(t, strings.HasPrefix(out.OrderID, "ORD-"))
	assert.Equal(t, "CREATED", out.Status)
	assert.Equal(t, 19.98, out.TotalAmount)
	assert.Equal(t, "Germany", out.ShippingAddress.Country)
}

func TestCreateOrderTotalMismatch(t *testing.T) {
	srv, _ := newTestServer(t)
	body := strings.Replace(createBody, "19.98", "10.00", 1)

	resp, err := http.Post(srv.URL+"/orders", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	assert.Equal(t, "totalAmount mismatch: provided=10.00, calculated=19.98", bodyText(t, resp))
}

func TestCreateOrderInvalidJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/orders", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, bodyText(t, resp), "invalid JSON")
}

func TestListOrdersEndpoint(t *testing.T) {
	srv, svc := newTestServer(t)
	require.NoError(t, svc.Seed())

	resp, err := http.Get(srv.URL + "/orders")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out []OrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 3)
	assert.Equal(t, "ORD-1001", out[0].OrderID)
	assert.Equal(t, "PAID", out[0].Status)
}

func TestListOrdersEmptyIsArray(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/orders")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", strings.TrimSpace(bodyText(t, resp)))
}

func TestGetOrderEndpoint(t *testing.T) {
	srv, svc := newTestServer(t)
	require.NoError(t, svc.Seed())

	resp, err := http.Get(srv.URL + "/orders/ORD-1002")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeOrder(t, resp)
	assert.Equal(t, "ORD-1002", out.OrderID)
	assert.Equal(t, "SHIPPED", out.Status)
}

func TestGetOrderNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/orders/ORD-404")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "order not found: ORD-404", bodyText(t, resp))
}

func TestCancelOrderEndpoint(t *testing.T) {
	srv, svc := newTestServer(t)
	require.NoError(t, svc.Seed())

	resp, err := http.Post(srv.URL+"/orders/ORD-1001/cancel", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "CANCELLED", decodeOrder(t, resp).Status)
}

func TestCancelOrderConflicts(t *testing.T) {
	srv, svc := newTestServer(t)
	require.NoError(t, svc.Seed())

	cases := []struct {
		orderID string
		want    string
	}{
		{"ORD-1002", "order cannot be cancelled after shipment"},
		{"ORD-1003", "order already cancelled"},
	}
	for _, tc := range cases {
		resp, err := http.Post(srv.URL+"/orders/"+tc.orderID+"/cancel", "application/json", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, tc.want, bodyText(t, resp))
		resp.Body.Close()
	}
}

func TestUpdateStatusEndpoint(t *testing.T) {
	srv, svc := newTestServer(t)
	require.NoError(t, svc.Seed())

	resp, err := http.Post(srv.URL+"/orders/ORD-1001/status/shipped", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "SHIPPED", decodeOrder(t, resp).Status, "status text is case-insensitive")
}

func TestUpdateStatusUnknown(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/orders/ORD-1001/status/TELEPORTED", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, bodyText(t, resp), "unknown order status")
}

func TestGetOrderServedFromCache(t *testing.T) {
	svc := shop.NewService()
	require.NoError(t, svc.Seed())
	mem := newMemoryCache()
	srv := httptest.NewServer(NewRouter(NewHandler(svc, mem)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/orders/ORD-1001")
	require.NoError(t, err)
	resp.Body.Close()
	require.Len(t, mem.values, 1, "first read populates the cache")

	// Mutate the store behind the cache's back; the cached read must win.
	_, err = svc.UpdateStatus("ORD-1001", "PACKED")
	require.NoError(t, err)

	resp, err = http.Get(srv.URL + "/orders/ORD-1001")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "PAID", decodeOrder(t, resp).Status)
}

func TestCancelInvalidatesCache(t *testing.T) {
	svc := shop.NewService()
	require.NoError(t, svc.Seed())
	mem := newMemoryCache()
	srv := httptest.NewServer(NewRouter(NewHandler(svc, mem)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/orders/ORD-1001")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Post(srv.URL+"/orders/ORD-1001/cancel", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, mem.values, "write drops the cached read")

	resp, err = http.Get(srv.URL + "/orders/ORD-1001")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "CANCELLED", decodeOrder(t, resp).Status)
}
