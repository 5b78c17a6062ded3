package shop

import (
	"github.com/shopspring/decimal"

	"github.com/team6/oms-dashboard/internal/domain"
)

// SampleOrders returns the fixture orders the server seeds on startup so a
// fresh environment is not an empty screen: one paid, one already shipped
// (not cancellable) and one cancelled.
func SampleOrders() []domain.Order {
	return []domain.Order{
		{
			OrderID:  "ORD-1001",
			Status:   domain.StatusPaid,
			Customer: domain.Customer{CustomerID: "CUST-1001", Prename: "Anna", Name: "Mueller"},
			ShippingAddress: domain.Address{
				Street: "Hauptstrasse 12", City: "Stuttgart", ZipCode: "70173", Country: "DE",
			},
			Items: []domain.LineItem{
				item("PRD-101", 1, "1299.00"),
				item("PRD-205", 2, "199.50"),
			},
		},
		{
			OrderID:  "ORD-1002",
			Status:   domain.StatusShipped,
			Customer: domain.Customer{CustomerID: "CUST-1002", Prename: "Bastian", Name: "Schmidt"},
			ShippingAddress: domain.Address{
				Street: "Marktplatz 5", City: "Heidelberg", ZipCode: "69117", Country: "DE",
			},
			Items: []domain.LineItem{
				item("PRD-310", 6, "2.49"),
				item("PRD-311", 2, "4.90"),
				item("PRD-450", 1, "18.75"),
			},
		},
		{
			OrderID:  "ORD-1003",
			Status:   domain.StatusCancelled,
			Customer: domain.Customer{CustomerID: "CUST-1003", Prename: "Carla", Name: "Neumann"},
			ShippingAddress: domain.Address{
				Street: "Bahnhofstrasse 20", City: "Karlsruhe", ZipCode: "76133", Country: "DE",
			},
			Items: []domain.LineItem{
				item("PRD-808", 1, "89.95"),
			},
		},
	}
}

// Seed loads the sample orders into the store, keeping their fixed IDs and
// statuses.
func (s *Service) Seed() error {
	for _, o := range SampleOrders() {
		if _, err := s.Create(o); err != nil {
			return err
		}
	}
	return nil
}

func item(productID string, qty int, price string) domain.LineItem {
	return domain.LineItem{
		ProductID: productID,
		Quantity:  qty,
		Price:     decimal.RequireFromString(price),
	}
}
