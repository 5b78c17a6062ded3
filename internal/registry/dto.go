package registry

import (
	"github.com/shopspring/decimal"

	"github.com/team6/oms-dashboard/internal/domain"
	"github.com/team6/oms-dashboard/internal/draft"
)

// Wire shapes of the backend's JSON contract. Monetary values travel as
// JSON numbers; the domain keeps them as decimals.

type customerDTO struct {
	CustomerID string `json:"customerId"`
	Prename    string `json:"prename"`
	Name       string `json:"name"`
}

type addressDTO struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type lineItemDTO struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type orderDTO struct {
	OrderID         string        `json:"orderId"`
	Status          string        `json:"status"`
	Customer        customerDTO   `json:"customer"`
	ShippingAddress addressDTO    `json:"shippingAddress"`
	Items           []lineItemDTO `json:"items"`
	TotalAmount     float64       `json:"totalAmount"`
}

type createOrderRequest struct {
	Customer        customerDTO   `json:"customer"`
	Items           []lineItemDTO `json:"items"`
	TotalAmount     float64       `json:"totalAmount"`
	ShippingAddress addressDTO    `json:"shippingAddress"`
}

// errorResponse is the structured error shape some backends send instead of
// plain text.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapSnapshotToRequest(s draft.Snapshot) createOrderRequest {
	items := make([]lineItemDTO, len(s.Items))
	for i, it := range s.Items {
		items[i] = lineItemDTO{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price.InexactFloat64(),
		}
	}
	return createOrderRequest{
		Customer: customerDTO{
			CustomerID: s.Customer.CustomerID,
			Prename:    s.Customer.Prename,
			Name:       s.Customer.Name,
		},
		Items:       items,
		TotalAmount: s.TotalAmount.InexactFloat64(),
		ShippingAddress: addressDTO{
			Street:  s.ShippingAddress.Street,
			City:    s.ShippingAddress.City,
			ZipCode: s.ShippingAddress.ZipCode,
			Country: s.ShippingAddress.Country,
		},
	}
}

func mapOrderFromDTO(d orderDTO) domain.Order {
	items := make([]domain.LineItem, len(d.Items))
	for i, it := range d.Items {
		items[i] = domain.LineItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     decimal.NewFromFloat(it.Price),
		}
	}
	return domain.Order{
		OrderID: d.OrderID,
		Status:  domain.OrderStatus(d.Status),
		Customer: domain.Customer{
			CustomerID: d.Customer.CustomerID,
			Prename:    d.Customer.Prename,
			Name:       d.Customer.Name,
		},
		ShippingAddress: domain.Address{
			Street:  d.ShippingAddress.Street,
			City:    d.ShippingAddress.City,
			ZipCode: d.ShippingAddress.ZipCode,
			Country: d.ShippingAddress.Country,
		},
		Items:       items,
		TotalAmount: decimal.NewFromFloat(d.TotalAmount),
	}
}
