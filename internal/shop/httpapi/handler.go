// Package httpapi exposes the shop order store over the JSON/HTTP contract
// the dashboard expects.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/team6/oms-dashboard/internal/domain"
	"github.com/team6/oms-dashboard/internal/pkg/cache"
	"github.com/team6/oms-dashboard/internal/shop"
)

// singleOrderTTL bounds how stale a cached single-order read may be.
const singleOrderTTL = 30 * time.Second

// Handler handles incoming HTTP requests for the order store.
type Handler struct {
	service *shop.Service
	cache   cache.Cache // nil-safe: caching skipped if nil
}

// NewHandler initializes the handler. c may be nil; single-order reads then
// always hit the store.
func NewHandler(service *shop.Service, c cache.Cache) *Handler {
	return &Handler{service: service, cache: c}
}

// ListOrders returns every stored order.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.service.List()
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = mapOrderToResponse(o)
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateOrder stores a new order and returns it with its assigned ID.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	order, err := h.service.Create(mapCreateRequest(req))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "order created",
		"order_id", order.OrderID, "customer_id", order.Customer.CustomerID, "total", order.TotalAmount)
	writeJSON(w, http.StatusCreated, mapOrderToResponse(order))
}

// GetOrder returns a single order, served from the cache when possible.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	if cached, ok := h.cachedOrder(r.Context(), orderID); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	order, err := h.service.Get(orderID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := mapOrderToResponse(order)
	h.cacheOrder(r.Context(), orderID, resp)
	writeJSON(w, http.StatusOK, resp)
}

// CancelOrder cancels an order and returns the updated record.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	order, err := h.service.Cancel(orderID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.dropCachedOrder(r.Context(), orderID)
	slog.InfoContext(r.Context(), "order cancelled", "order_id", orderID)
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// UpdateStatus forces an order into the given status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	status, err := domain.ParseStatus(chi.URLParam(r, "status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.service.UpdateStatus(orderID, status)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.dropCachedOrder(r.Context(), orderID)
	slog.InfoContext(r.Context(), "order status updated", "order_id", orderID, "status", status)
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// writeServiceError maps store errors onto HTTP statuses. The body is the
// bare error text: the dashboard surfaces it verbatim.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var notFound shop.ErrNotFound
	var conflict shop.ErrConflict
	var bad shop.ErrBadRequest
	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &conflict):
		status = http.StatusConflict
	case errors.As(err, &bad):
		status = http.StatusBadRequest
	}
	writeError(w, status, err.Error())
}

func (h *Handler) cachedOrder(ctx context.Context, orderID string) (OrderResponse, bool) {
	if h.cache == nil {
		return OrderResponse{}, false
	}
	raw, err := h.cache.Get(ctx, h.cache.GenerateKey("order", orderID))
	if err != nil || raw == "" {
		return OrderResponse{}, false
	}
	var resp OrderResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return OrderResponse{}, false
	}
	return resp, true
}

func (h *Handler) cacheOrder(ctx context.Context, orderID string, resp OrderResponse) {
	if h.cache == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, h.cache.GenerateKey("order", orderID), string(raw), singleOrderTTL); err != nil {
		slog.WarnContext(ctx, "failed to cache order", "order_id", orderID, "error", err)
	}
}

// dropCachedOrder invalidates a cached read after a write.
func (h *Handler) dropCachedOrder(ctx context.Context, orderID string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Del(ctx, h.cache.GenerateKey("order", orderID)); err != nil {
		slog.WarnContext(ctx, "failed to invalidate cached order", "order_id", orderID, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends the message as plain text so clients can show the body
// as-is.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
