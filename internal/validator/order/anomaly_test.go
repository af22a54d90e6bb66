package order_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderscan/internal/domain"
	"orderscan/internal/validator/order"
)

func intPtr(v int) *int { return &v }

func TestIsLargeDirectShipment(t *testing.T) {
	tests := []struct {
		name   string
		street string
		qty    *int
		want   bool
	}{
		{name: "plain address at 15", street: "123 Main St", qty: intPtr(15), want: true},
		{name: "care-of address at 50", street: "C/O Jane Doe", qty: intPtr(50), want: false},
		{name: "below threshold", street: "123 Main St", qty: intPtr(9), want: false},
		{name: "below threshold care-of", street: "C/O Jane Doe", qty: intPtr(9), want: false},
		{name: "exactly threshold", street: "123 Main St", qty: intPtr(10), want: true},
		{name: "null quantity", street: "123 Main St", qty: nil, want: false},
		{name: "null address counts as empty", street: "", qty: intPtr(12), want: true},
		{name: "marker mid-string", street: "1 Dock Rd C/O Acme", qty: intPtr(20), want: false},
		{name: "lowercase marker is not a match", street: "c/o Jane Doe", qty: intPtr(20), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &domain.OrderRecord{StreetAddress: tt.street, QtyShipped: tt.qty}
			assert.Equal(t, tt.want, order.IsLargeDirectShipment(rec, order.DefaultThreshold))
		})
	}
}

func TestLargeQtyDirectShip_Rule(t *testing.T) {
	v := order.LargeQtyDirectShip(25)

	assert.Equal(t, "large_qty_direct_ship", v.RuleKey())
	assert.Equal(t, domain.RuleTypeAnomaly, v.RuleType())
	assert.Equal(t, domain.SeverityWarning, v.Severity())

	t.Run("flagged", func(t *testing.T) {
		res := v.Validate(context.Background(), &domain.OrderRecord{StreetAddress: "9 Elm", QtyShipped: intPtr(30)})
		require.Len(t, res, 1)
		assert.False(t, res[0].Passed)
		assert.Equal(t, domain.ColQtyShipped, res[0].FieldPath)
		assert.Equal(t, "30", res[0].ActualValue)
		assert.Contains(t, res[0].Message, "9 Elm")
	})

	t.Run("custom threshold not reached", func(t *testing.T) {
		res := v.Validate(context.Background(), &domain.OrderRecord{StreetAddress: "9 Elm", QtyShipped: intPtr(24)})
		require.Len(t, res, 1)
		assert.True(t, res[0].Passed)
	})

	t.Run("null quantity", func(t *testing.T) {
		res := v.Validate(context.Background(), &domain.OrderRecord{StreetAddress: "9 Elm"})
		require.Len(t, res, 1)
		assert.True(t, res[0].Passed)
		assert.Equal(t, "null", res[0].ActualValue)
	})
}
