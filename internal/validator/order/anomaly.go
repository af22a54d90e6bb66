package order

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"orderscan/internal/domain"
)

// CareOfMarker marks a commercial or forwarding address.
const CareOfMarker = "C/O"

// DefaultThreshold is the quantity at which a direct shipment is flagged.
const DefaultThreshold = 10

// LargeQtyDirectShip flags records shipping at least threshold units to an
// address without the care-of marker. A null quantity never matches; a null
// street address counts as empty.
func LargeQtyDirectShip(threshold int) *Rule {
	return &Rule{
		key:      "large_qty_direct_ship",
		name:     "Large Quantity Direct Shipment",
		ruleType: domain.RuleTypeAnomaly,
		sev:      domain.SeverityWarning,
		fn: func(_ context.Context, rec *domain.OrderRecord) []ValidationResult {
			return []ValidationResult{checkLargeQty(rec, threshold)}
		},
	}
}

// IsLargeDirectShipment reports whether rec meets the anomaly condition.
func IsLargeDirectShipment(rec *domain.OrderRecord, threshold int) bool {
	if rec.QtyShipped == nil {
		return false
	}
	return *rec.QtyShipped >= threshold && !strings.Contains(rec.StreetAddress, CareOfMarker)
}

func checkLargeQty(rec *domain.OrderRecord, threshold int) ValidationResult {
	actual := "null"
	if rec.QtyShipped != nil {
		actual = strconv.Itoa(*rec.QtyShipped)
	}
	res := ValidationResult{
		Passed:        !IsLargeDirectShipment(rec, threshold),
		FieldPath:     domain.ColQtyShipped,
		ExpectedValue: fmt.Sprintf("< %d or %s address", threshold, CareOfMarker),
		ActualValue:   actual,
	}
	if res.Passed {
		res.Message = "quantity within limits for address"
	} else {
		res.Message = fmt.Sprintf("%s units shipped directly to %q", actual, rec.StreetAddress)
	}
	return res
}
