package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderscan/internal/validator"
	"orderscan/internal/validator/order"
)

func TestRegistry_InsertionOrder(t *testing.T) {
	r := validator.NewRegistry()
	r.Register(order.CustomerNamePresent())
	r.Register(order.LargeQtyDirectShip(10))
	r.Register(order.CustomerNamePresent())

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "customer_name_present", all[0].RuleKey())
	assert.Equal(t, "large_qty_direct_ship", all[1].RuleKey())
}

func TestRegistry_Get(t *testing.T) {
	r := validator.NewDefaultRegistry(10)

	assert.NotNil(t, r.Get("large_qty_direct_ship"))
	assert.Nil(t, r.Get("unknown"))
}
