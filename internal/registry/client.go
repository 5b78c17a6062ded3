// Package registry talks to the order backend over its JSON/HTTP contract
// and keeps the client-side view of the order list in sync with it.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/team6/oms-dashboard/internal/domain"
	"github.com/team6/oms-dashboard/internal/draft"
)

const tracerName = "github.com/team6/oms-dashboard/internal/registry"

// Client is the HTTP codec for the order backend. The zero value is not
// usable; construct it with NewClient.
type Client struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
}

// NewClient returns a client for the backend at baseURL. httpClient may be
// nil, in which case a default with a 15 second timeout is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tracer:  otel.Tracer(tracerName),
	}
}

// List fetches every order the backend knows, in the backend's order.
// An empty array is a valid empty result, not an error.
func (c *Client) List(ctx context.Context) ([]domain.Order, error) {
	var out []orderDTO
	if err := c.do(ctx, "registry.list", http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, len(out))
	for i, d := range out {
		orders[i] = mapOrderFromDTO(d)
	}
	return orders, nil
}

// Get fetches a single order by ID.
func (c *Client) Get(ctx context.Context, orderID string) (domain.Order, error) {
	var out orderDTO
	if err := c.do(ctx, "registry.get", http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, &out); err != nil {
		return domain.Order{}, err
	}
	return mapOrderFromDTO(out), nil
}

// Submit sends a validated draft snapshot to the backend and returns the
// created order, ID and status assigned server-side.
func (c *Client) Submit(ctx context.Context, snap draft.Snapshot) (domain.Order, error) {
	var out orderDTO
	req := mapSnapshotToRequest(snap)
	if err := c.do(ctx, "registry.submit", http.MethodPost, "/orders", req, &out); err != nil {
		return domain.Order{}, err
	}
	return mapOrderFromDTO(out), nil
}

// Cancel asks the backend to cancel an order and returns the updated record.
// Whatever status the backend reports back is trusted as-is.
func (c *Client) Cancel(ctx context.Context, orderID string) (domain.Order, error) {
	var out orderDTO
	path := "/orders/" + url.PathEscape(orderID) + "/cancel"
	if err := c.do(ctx, "registry.cancel", http.MethodPost, path, nil, &out); err != nil {
		return domain.Order{}, err
	}
	return mapOrderFromDTO(out), nil
}

// UpdateStatus forces an order into the given status.
func (c *Client) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	var out orderDTO
	path := "/orders/" + url.PathEscape(orderID) + "/status/" + url.PathEscape(string(status))
	if err := c.do(ctx, "registry.update_status", http.MethodPost, path, nil, &out); err != nil {
		return domain.Order{}, err
	}
	return mapOrderFromDTO(out), nil
}

// do performs one request/response cycle. Any non-2xx response becomes an
// *Error carrying the body text verbatim; a 204 (or any empty 2xx body)
// leaves out untouched.
func (c *Client) do(ctx context.Context, spanName, method, path string, in, out any) error {
	ctx, span := c.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return transportError(fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return transportError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// W3C traceparent, so the backend's logs can be joined with ours.
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Message: errorMessage(raw, resp), StatusCode: resp.StatusCode}
	}
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return transportError(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// errorMessage extracts the human-readable failure text: the raw body
// verbatim, unwrapping the structured {"error","message"} shape when a
// backend sends one, falling back to the HTTP status text for empty bodies.
func errorMessage(raw []byte, resp *http.Response) string {
	body := strings.TrimSpace(string(raw))
	if body == "" {
		return resp.Status
	}
	if strings.HasPrefix(body, "{") {
		var er errorResponse
		if err := json.Unmarshal(raw, &er); err == nil {
			if er.Message != "" {
				return er.Message
			}
			if er.Error != "" {
				return er.Error
			}
		}
	}
	return body
}
