package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderStatus is the closed set of lifecycle states the backend reports.
type OrderStatus string

const (
	StatusCreated   OrderStatus = "CREATED"
	StatusReserved  OrderStatus = "RESERVED"
	StatusPaid      OrderStatus = "PAID"
	StatusPacked    OrderStatus = "PACKED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusFailed    OrderStatus = "FAILED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Statuses lists every known status in lifecycle order.
var Statuses = []OrderStatus{
	StatusCreated, StatusReserved, StatusPaid, StatusPacked,
	StatusShipped, StatusDelivered, StatusFailed, StatusCancelled,
}

// Cancellable reports whether a client-initiated cancel is still permitted.
// The backend is the final authority; this only gates the action locally.
func (s OrderStatus) Cancellable() bool {
	switch s {
	case StatusShipped, StatusDelivered, StatusCancelled:
		return false
	}
	return true
}

// ParseStatus maps free-form text onto the closed status set.
func ParseStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

type Customer struct {
	CustomerID string
	Prename    string
	Name       string
}

// Validate requires all three fields to be non-empty after trimming.
func (c Customer) Validate() error {
	if strings.TrimSpace(c.CustomerID) == "" {
		return fmt.Errorf("customer: %w", errBlank("customerId"))
	}
	if strings.TrimSpace(c.Prename) == "" {
		return fmt.Errorf("customer: %w", errBlank("prename"))
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("customer: %w", errBlank("name"))
	}
	return nil
}

// Address is a shipping address. It has no identity of its own; it is owned
// by exactly one order or draft.
type Address struct {
	Street  string
	City    string
	ZipCode string
	Country string
}

func (a Address) Validate() error {
	if strings.TrimSpace(a.Street) == "" {
		return fmt.Errorf("address: %w", errBlank("street"))
	}
	if strings.TrimSpace(a.City) == "" {
		return fmt.Errorf("address: %w", errBlank("city"))
	}
	if strings.TrimSpace(a.ZipCode) == "" {
		return fmt.Errorf("address: %w", errBlank("zipCode"))
	}
	if strings.TrimSpace(a.Country) == "" {
		return fmt.Errorf("address: %w", errBlank("country"))
	}
	return nil
}

type LineItem struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

func (i LineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i LineItem) Validate() error {
	if strings.TrimSpace(i.ProductID) == "" {
		return fmt.Errorf("item: %w", errBlank("productId"))
	}
	if i.Quantity <= 0 {
		return fmt.Errorf("item %s: quantity must be positive", i.ProductID)
	}
	if i.Price.IsNegative() {
		return fmt.Errorf("item %s: price must not be negative", i.ProductID)
	}
	return nil
}

// CalculateTotal sums the item subtotals and rounds half-up to two decimal
// places, the same scale the backend applies.
func CalculateTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total.Round(2)
}

// Order is the backend-confirmed record as the client sees it. OrderID is
// assigned by the backend, never locally.
type Order struct {
	OrderID         string
	Status          OrderStatus
	Customer        Customer
	ShippingAddress Address
	Items           []LineItem
	TotalAmount     decimal.Decimal
}

// ErrBlankField reports a required string field that is empty or
// whitespace-only.
type ErrBlankField string

func errBlank(field string) error { return ErrBlankField(field) }

func (e ErrBlankField) Error() string { return string(e) + " must not be blank" }
