package export_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"orderscan/internal/export"
)

func TestRenderGrid(t *testing.T) {
	records := sampleRecords()
	out := export.RenderGrid(records)

	assert.True(t, strings.HasPrefix(out, "+"))
	assert.Contains(t, out, "| Customer_Order ")
	assert.Contains(t, out, "PO#")
	assert.Contains(t, out, "Tel#")
	for _, rec := range records {
		for _, v := range rec.Values() {
			assert.Contains(t, out, v)
		}
	}
	borders := 0
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if strings.HasPrefix(line, "+") {
			borders++
		}
	}
	// top border, then one under the header and under each row
	assert.Equal(t, 4, borders)
}

func TestRenderGrid_Deterministic(t *testing.T) {
	records := sampleRecords()
	assert.Equal(t, export.RenderGrid(records), export.RenderGrid(records))
}

func TestRenderGrid_Empty(t *testing.T) {
	out := export.RenderGrid(nil)
	assert.Contains(t, out, "Qty_Shipped")
}
