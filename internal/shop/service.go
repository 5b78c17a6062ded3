// Package shop implements the backend side of the order contract: an
// in-memory order store with the lifecycle rules the dashboard observes.
package shop

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/team6/oms-dashboard/internal/domain"
)

// Error kinds let the HTTP layer pick a status code; the message itself
// becomes the response body verbatim.

type ErrNotFound string

func (e ErrNotFound) Error() string { return "order not found: " + string(e) }

type ErrConflict string

func (e ErrConflict) Error() string { return string(e) }

type ErrBadRequest string

func (e ErrBadRequest) Error() string { return string(e) }

// Service holds the orders. Safe for concurrent use.
type Service struct {
	mu     sync.RWMutex
	byID   map[string]domain.Order
	idents []string // insertion order, so List is stable
}

func NewService() *Service {
	return &Service{byID: make(map[string]domain.Order)}
}

// Create normalizes and stores an incoming order: at least one valid item,
// a recalculated total that must agree with a provided one, a generated ID
// when none is given, and status defaulting to CREATED.
func (s *Service) Create(in domain.Order) (domain.Order, error) {
	if err := in.Customer.Validate(); err != nil {
		return domain.Order{}, ErrBadRequest(err.Error())
	}
	if err := in.ShippingAddress.Validate(); err != nil {
		return domain.Order{}, ErrBadRequest(err.Error())
	}
	if len(in.Items) == 0 {
		return domain.Order{}, ErrBadRequest("order needs at least one item")
	}
	for _, it := range in.Items {
		if err := it.Validate(); err != nil {
			return domain.Order{}, ErrBadRequest(err.Error())
		}
	}

	calculated := domain.CalculateTotal(in.Items)
	if !in.TotalAmount.IsZero() && !in.TotalAmount.Round(2).Equal(calculated) {
		return domain.Order{}, ErrBadRequest(fmt.Sprintf("totalAmount mismatch: provided=%s, calculated=%s",
			in.TotalAmount.Round(2), calculated))
	}
	in.TotalAmount = calculated

	if strings.TrimSpace(in.OrderID) == "" {
		in.OrderID = generateID()
	}
	if in.Status == "" {
		in.Status = domain.StatusCreated
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[in.OrderID]; exists {
		return domain.Order{}, ErrConflict("order already exists: " + in.OrderID)
	}
	s.byID[in.OrderID] = copyOrder(in)
	s.idents = append(s.idents, in.OrderID)
	return in, nil
}

func (s *Service) Get(orderID string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byID[orderID]
	if !ok {
		return domain.Order{}, ErrNotFound(orderID)
	}
	return copyOrder(o), nil
}

// List returns every order in insertion order.
func (s *Service) List() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Order, 0, len(s.idents))
	for _, id := range s.idents {
		out = append(out, copyOrder(s.byID[id]))
	}
	return out
}

// Cancel moves an order to CANCELLED. Orders that already left the
// cancellable window are refused.
func (s *Service) Cancel(orderID string) (domain.Order, error) {
	return s.mutate(orderID, func(o domain.Order) (domain.Order, error) {
		switch o.Status {
		case domain.StatusCancelled:
			return o, ErrConflict("order already cancelled")
		case domain.StatusShipped, domain.StatusDelivered:
			return o, ErrConflict("order cannot be cancelled after shipment")
		}
		o.Status = domain.StatusCancelled
		return o, nil
	})
}

// UpdateStatus forces an order into any known status. No transition rules;
// this endpoint exists for operating the mock, not for real lifecycles.
func (s *Service) UpdateStatus(orderID string, status domain.OrderStatus) (domain.Order, error) {
	return s.mutate(orderID, func(o domain.Order) (domain.Order, error) {
		o.Status = status
		return o, nil
	})
}

func (s *Service) mutate(orderID string, op func(domain.Order) (domain.Order, error)) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.byID[orderID]
	if !ok {
		return domain.Order{}, ErrNotFound(orderID)
	}
	next, err := op(copyOrder(current))
	if err != nil {
		return domain.Order{}, err
	}
	s.byID[orderID] = copyOrder(next)
	return next, nil
}

// copyOrder detaches the items slice so callers can never alias the store.
func copyOrder(o domain.Order) domain.Order {
	items := make([]domain.LineItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

// generateID produces IDs like ORD-2026-08-31-9F1C04A2.
func generateID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("2006-01-02"), suffix)
}
