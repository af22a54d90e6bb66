package parser

import "strings"

const (
	// ShipmentAnchor marks the start of the shipment table.
	ShipmentAnchor = "Model Number"
	// shipmentPrefix replaces the anchor at the head of the shipment segment.
	shipmentPrefix = "Model_Number"
)

// Segments is a page's flattened text divided at the shipment anchor.
type Segments struct {
	Order    string
	Shipment string
}

// Split divides text at the first occurrence of ShipmentAnchor. Without the
// anchor the whole input is the order segment and Shipment is empty.
func Split(text string) Segments {
	before, after, found := strings.Cut(text, ShipmentAnchor)
	if !found {
		return Segments{Order: text}
	}
	return Segments{Order: before, Shipment: shipmentPrefix + after}
}
