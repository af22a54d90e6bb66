package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderscan/internal/domain"
	"orderscan/internal/parser"
)

func samplePage(index int) domain.RawPage {
	return domain.RawPage{
		Index: index,
		Text:  samplePageText,
		Tables: []domain.Table{
			{
				{"Ordered By:", "John Smith", "Ship To:", "John Smith\n123 Main St\nCA 90001\n555-123-4567"},
			},
			{
				{"Model Number", "Internet Number", "Item Description", "Qty Shipped"},
				{"12345", "67890", "Widget A", "10"},
				{"Message: thanks", "", "", ""},
			},
		},
	}
}

func TestPageParser_EndToEnd(t *testing.T) {
	out, err := parser.NewPageParser(parser.DefaultHeaderTokens).Parse(samplePage(0))
	require.NoError(t, err)
	require.Len(t, out.Records, 1)

	rec := out.Records[0]
	assert.Equal(t, "W123456789", rec.CustomerOrder)
	assert.Equal(t, "0042-7781", rec.PurchaseOrder)
	assert.Equal(t, "01/15/2024", rec.OrderDate)
	assert.Equal(t, "Residential", rec.AddressType)
	assert.Equal(t, "John Smith", rec.CustomerName)
	assert.Equal(t, "123 Main St", rec.StreetAddress)
	assert.Equal(t, "CA", rec.State)
	assert.Equal(t, "90001", rec.Zipcode)
	assert.Equal(t, "555-123-4567", rec.Phone)
	assert.Equal(t, "12345", rec.ModelNumber)
	assert.Equal(t, "67890", rec.InternetNumber)
	assert.Equal(t, "Widget A", rec.Description)
	require.NotNil(t, rec.QtyShipped)
	assert.Equal(t, 10, *rec.QtyShipped)
	assert.Equal(t, 1, out.HeaderBlocks)
}

func TestPageParser_NoShipmentTableYieldsHeaderOnlyRecord(t *testing.T) {
	page := domain.RawPage{
		Index: 3,
		Text:  "Customer Order #: W9",
		Tables: []domain.Table{
			{{"Ordered By:", "Jane Doe", "Ship To:", "77 Oak Ave NY 10001 212-555-0199"}},
		},
	}

	out, err := parser.NewPageParser(parser.DefaultHeaderTokens).Parse(page)
	require.NoError(t, err)

	require.Len(t, out.Records, 1)
	rec := out.Records[0]
	assert.Equal(t, 3, rec.PageIndex)
	assert.Equal(t, "W9", rec.CustomerOrder)
	assert.Equal(t, "Jane Doe", rec.CustomerName)
	assert.Empty(t, rec.ModelNumber)
	assert.Nil(t, rec.QtyShipped)
	assert.Empty(t, out.Items)
}

func TestPageParser_UnmatchedHeaderStillParsesItems(t *testing.T) {
	page := domain.RawPage{
		Tables: []domain.Table{
			{{"garbled header"}, {"Model Number", "Internet Number", "Item Description", "Qty Shipped"}, {"A1", "111", "Hammer", "30"}},
		},
	}

	out, err := parser.NewPageParser(parser.DefaultHeaderTokens).Parse(page)
	require.NoError(t, err)

	require.Len(t, out.Records, 1)
	assert.Empty(t, out.Records[0].CustomerName)
	assert.Empty(t, out.Records[0].StreetAddress)
	assert.Equal(t, "A1", out.Records[0].ModelNumber)
	assert.Equal(t, 30, *out.Records[0].QtyShipped)
}

func TestPageParser_EmptyGridFails(t *testing.T) {
	page := domain.RawPage{Index: 1, Text: "Customer Order #: W1", Tables: []domain.Table{{{"", ""}}}}

	out, err := parser.NewPageParser(parser.DefaultHeaderTokens).Parse(page)

	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrNoTableContent)
}

func TestPageParser_CountsExtraOrderBlocks(t *testing.T) {
	page := domain.RawPage{
		Tables: []domain.Table{
			{
				{"Ordered By:", "A", "Ship To:", "1 Elm St CA 90001 555-000-0000"},
				{"Ordered By:", "B", "Ship To:", "2 Elm St CA 90002 555-000-0001"},
			},
		},
	}

	out, err := parser.NewPageParser(parser.DefaultHeaderTokens).Parse(page)
	require.NoError(t, err)

	assert.Equal(t, 2, out.HeaderBlocks)
	assert.Equal(t, "A", out.Records[0].CustomerName)
}

func TestMergeRecords_PreservesItemOrder(t *testing.T) {
	header := domain.OrderHeader{CustomerName: "John"}
	items := []domain.ShipmentItem{
		{ModelNumber: "first"},
		{ModelNumber: "second"},
	}

	records := parser.MergeRecords(7, header, items)

	require.Len(t, records, 2)
	assert.Equal(t, "first", records[0].ModelNumber)
	assert.Equal(t, 0, records[0].ItemIndex)
	assert.Equal(t, "second", records[1].ModelNumber)
	assert.Equal(t, 1, records[1].ItemIndex)
	for _, r := range records {
		assert.Equal(t, 7, r.PageIndex)
		assert.Equal(t, "John", r.CustomerName)
	}
}
