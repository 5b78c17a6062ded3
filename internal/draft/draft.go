// Package draft holds the client-local, not-yet-submitted order: customer
// and address field text plus an ordered list of line-item inputs.
//
// The total and the submittability check are derived on demand from the
// current field values rather than cached, so they can never go stale.
package draft

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/team6/oms-dashboard/internal/domain"
)

// Field defaults mirror what the order form pre-fills.
const (
	customerIDPrefix = "CUST-"
	defaultCountry   = "Germany"
)

var ErrIndexOutOfRange = errors.New("line item index out of range")

// ItemInput is one line item exactly as typed: the numeric fields stay text
// until submission so partial input never has to be rejected.
type ItemInput struct {
	ProductID string
	Quantity  string
	Price     string
}

// blankItem is the state a freshly added row starts in.
func blankItem() ItemInput {
	return ItemInput{Quantity: "1", Price: "0.00"}
}

// Builder is a mutable order draft. It is not safe for concurrent use; the
// dashboard drives it from a single goroutine.
type Builder struct {
	customer domain.Customer
	address  domain.Address
	items    []ItemInput
}

// New returns an empty draft with one blank line item, the customer ID
// prefix pre-filled and the default country set.
func New() *Builder {
	b := &Builder{}
	b.Reset()
	return b
}

// Reset returns the draft to its initial state. Called after every
// successful submission.
func (b *Builder) Reset() {
	b.customer = domain.Customer{CustomerID: customerIDPrefix}
	b.address = domain.Address{Country: defaultCountry}
	b.items = []ItemInput{blankItem()}
}

func (b *Builder) SetCustomerID(v string) { b.customer.CustomerID = v }
func (b *Builder) SetPrename(v string)    { b.customer.Prename = v }
func (b *Builder) SetName(v string)       { b.customer.Name = v }
func (b *Builder) SetStreet(v string)     { b.address.Street = v }
func (b *Builder) SetCity(v string)       { b.address.City = v }
func (b *Builder) SetZipCode(v string)    { b.address.ZipCode = v }
func (b *Builder) SetCountry(v string)    { b.address.Country = v }

func (b *Builder) Customer() domain.Customer { return b.customer }
func (b *Builder) Address() domain.Address   { return b.address }

// Items returns a copy of the line-item inputs in entry order.
func (b *Builder) Items() []ItemInput {
	out := make([]ItemInput, len(b.items))
	copy(out, b.items)
	return out
}

// AddItem appends a blank line item to the end of the list.
func (b *Builder) AddItem() {
	b.items = append(b.items, blankItem())
	b.ensureNotEmpty()
}

// UpdateItem replaces the line item at index i.
func (b *Builder) UpdateItem(i int, in ItemInput) error {
	if i < 0 || i >= len(b.items) {
		return fmt.Errorf("update item %d: %w", i, ErrIndexOutOfRange)
	}
	b.items[i] = in
	b.ensureNotEmpty()
	return nil
}

// RemoveItem removes the line item at index i. Removing the last remaining
// item leaves a single blank one instead of an empty list.
func (b *Builder) RemoveItem(i int) error {
	if i < 0 || i >= len(b.items) {
		return fmt.Errorf("remove item %d: %w", i, ErrIndexOutOfRange)
	}
	b.items = append(b.items[:i], b.items[i+1:]...)
	b.ensureNotEmpty()
	return nil
}

// ensureNotEmpty re-asserts the draft invariant after every item mutation:
// the list always holds at least one line item.
func (b *Builder) ensureNotEmpty() {
	if len(b.items) == 0 {
		b.items = []ItemInput{blankItem()}
	}
}

// Total derives the current order total: the sum of price × quantity over
// all items, rounded to two decimal places. Malformed or empty numeric text
// contributes zero; Total never fails.
func (b *Builder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range b.items {
		sub := coercePrice(it.Price).Mul(decimal.NewFromInt(int64(coerceQuantity(it.Quantity))))
		total = total.Add(sub)
	}
	return total.Round(2)
}

// Validate reports the first reason the draft is not ready for submission.
// Numeric text is coerced with the same rule Total uses, so a quantity that
// does not parse counts as zero and fails the positivity check.
func (b *Builder) Validate() error {
	if err := b.customer.Validate(); err != nil {
		return err
	}
	if err := b.address.Validate(); err != nil {
		return err
	}
	for i, it := range b.items {
		item := domain.LineItem{
			ProductID: strings.TrimSpace(it.ProductID),
			Quantity:  coerceQuantity(it.Quantity),
			Price:     coercePrice(it.Price),
		}
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return nil
}

// Submittable reports whether the draft passes validation.
func (b *Builder) Submittable() bool {
	return b.Validate() == nil
}

// Snapshot is the read-only submission view of a draft: typed values and
// the precomputed total.
type Snapshot struct {
	Customer        domain.Customer
	ShippingAddress domain.Address
	Items           []domain.LineItem
	TotalAmount     decimal.Decimal
}

// Snapshot validates the draft and freezes it for submission.
func (b *Builder) Snapshot() (Snapshot, error) {
	if err := b.Validate(); err != nil {
		return Snapshot{}, err
	}
	items := make([]domain.LineItem, len(b.items))
	for i, it := range b.items {
		items[i] = domain.LineItem{
			ProductID: strings.TrimSpace(it.ProductID),
			Quantity:  coerceQuantity(it.Quantity),
			Price:     coercePrice(it.Price),
		}
	}
	return Snapshot{
		Customer:        b.customer,
		ShippingAddress: b.address,
		Items:           items,
		TotalAmount:     b.Total(),
	}, nil
}

// coerceQuantity parses quantity text; anything that is not a whole number
// counts as zero.
func coerceQuantity(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// coercePrice parses price text; malformed or empty input counts as zero.
func coercePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
