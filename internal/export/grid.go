package export

import (
	"strings"

	"github.com/olekukonko/tablewriter"

	"orderscan/internal/domain"
)

// RenderGrid renders records as a bordered text table with a line between
// rows. Output depends only on the input.
func RenderGrid(records []domain.OrderRecord) string {
	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)
	table.SetHeader(domain.Columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetRowLine(true)
	for i := range records {
		table.Append(records[i].Values())
	}
	table.Render()
	return sb.String()
}
