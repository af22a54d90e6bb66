package export_test

import (
	"orderscan/internal/domain"
)

func intPtr(v int) *int { return &v }

func sampleRecords() []domain.OrderRecord {
	return []domain.OrderRecord{
		{
			CustomerOrder:  "W123456789",
			PurchaseOrder:  "PO-42",
			OrderDate:      "01/15/2024",
			AddressType:    "Residential",
			CustomerName:   "John Smith",
			StreetAddress:  "123 Main St",
			State:          "CA",
			Zipcode:        "90001",
			Phone:          "555-123-4567",
			ModelNumber:    "12345",
			InternetNumber: "67890",
			Description:    "Widget A",
			QtyShipped:     intPtr(10),
		},
		{
			CustomerOrder: "W987654321",
			CustomerName:  "Jane, Doe",
			StreetAddress: "C/O Jane Doe",
		},
	}
}
