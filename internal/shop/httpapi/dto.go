package httpapi

import (
	"github.com/shopspring/decimal"

	"github.com/team6/oms-dashboard/internal/domain"
)

type CustomerDTO struct {
	CustomerID string `json:"customerId"`
	Prename    string `json:"prename"`
	Name       string `json:"name"`
}

type AddressDTO struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type LineItemDTO struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type CreateOrderRequest struct {
	OrderID         string        `json:"orderId,omitempty"`
	Customer        CustomerDTO   `json:"customer"`
	Items           []LineItemDTO `json:"items"`
	TotalAmount     float64       `json:"totalAmount"`
	ShippingAddress AddressDTO    `json:"shippingAddress"`
}

type OrderResponse struct {
	OrderID         string        `json:"orderId"`
	Status          string        `json:"status"`
	Customer        CustomerDTO   `json:"customer"`
	ShippingAddress AddressDTO    `json:"shippingAddress"`
	Items           []LineItemDTO `json:"items"`
	TotalAmount     float64       `json:"totalAmount"`
}

func mapCreateRequest(req CreateOrderRequest) domain.Order {
	items := make([]domain.LineItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = domain.LineItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     decimal.NewFromFloat(it.Price),
		}
	}
	return domain.Order{
		OrderID: req.OrderID,
		Customer: domain.Customer{
			CustomerID: req.Customer.CustomerID,
			Prename:    req.Customer.Prename,
			Name:       req.Customer.Name,
		},
		ShippingAddress: domain.Address{
			Street:  req.ShippingAddress.Street,
			City:    req.ShippingAddress.City,
			ZipCode: req.ShippingAddress.ZipCode,
			Country: req.ShippingAddress.Country,
		},
		Items:       items,
		TotalAmount: decimal.NewFromFloat(req.TotalAmount),
	}
}

// mapOrderToResponse converts the domain order to the wire format. Monetary
// values travel as JSON numbers rounded to two decimal places.
func mapOrderToResponse(o domain.Order) OrderResponse {
	items := make([]LineItemDTO, len(o.Items))
	for i, it := range o.Items {
		items[i] = LineItemDTO{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price.InexactFloat64(),
		}
	}
	return OrderResponse{
		OrderID: o.OrderID,
		Status:  string(o.Status),
		Customer: CustomerDTO{
			CustomerID: o.Customer.CustomerID,
			Prename:    o.Customer.Prename,
			Name:       o.Customer.Name,
		},
		ShippingAddress: AddressDTO{
			Street:  o.ShippingAddress.Street,
			City:    o.ShippingAddress.City,
			ZipCode: o.ShippingAddress.ZipCode,
			Country: o.ShippingAddress.Country,
		},
		Items:       items,
		TotalAmount: o.TotalAmount.InexactFloat64(),
	}
}
