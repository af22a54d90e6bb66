package parser

import (
	"regexp"
	"strings"

	"orderscan/internal/domain"
)

var (
	customerOrderRe = regexp.MustCompile(`Customer Order #:\s*(\S+)`)
	purchaseOrderRe = regexp.MustCompile(`Purchase Order #:\s*(\S+)`)
	orderDateRe     = regexp.MustCompile(`Date:\s*(\S+)`)
	addressTypeRe   = regexp.MustCompile(`Address Type:\s*(\w+)`)

	// orderBlockRe matches the Ordered By / Ship To block of a flattened
	// order segment. The name may span two comma-separated cells.
	orderBlockRe = regexp.MustCompile(
		`Ordered By:,\s*(?P<name>[^,]+(?:,\s*[^,]+)?)\s*,\s*Ship To:,\s*` +
			`(?P<street>.+?)\s+(?P<state>\w{2})\s+(?P<zip>\d{5}(?:-\d{4})?)\s+` +
			`(?P<tel>\d{3}-?\d{3}-?\d{4})`)
)

const orderBlockLabel = "Ordered By:"

// PageFields are the header fields printed as labels in the page text.
type PageFields struct {
	CustomerOrder string
	PurchaseOrder string
	OrderDate     string
	AddressType   string
}

// ExtractPageFields captures the labelled header values from raw page text.
// A missing label leaves its field empty.
func ExtractPageFields(text string) PageFields {
	return PageFields{
		CustomerOrder: firstGroup(customerOrderRe, text),
		PurchaseOrder: firstGroup(purchaseOrderRe, text),
		OrderDate:     firstGroup(orderDateRe, text),
		AddressType:   firstGroup(addressTypeRe, text),
	}
}

// OrderFields are the customer and shipping fields of the order block.
type OrderFields struct {
	CustomerName  string
	StreetAddress string
	State         string
	Zipcode       string
	Phone         string
}

// ExtractOrderFields parses the Ordered By / Ship To block of an order
// segment. If the block does not match, every field is empty.
func ExtractOrderFields(segment string) OrderFields {
	m := orderBlockRe.FindStringSubmatch(segment)
	if m == nil {
		return OrderFields{}
	}
	group := func(name string) string {
		return strings.TrimSpace(m[orderBlockRe.SubexpIndex(name)])
	}

	name := group("name")
	street := group("street")
	// Flattening can glue the name cell onto the address cell.
	if name != "" && strings.HasPrefix(street, name) {
		street = strings.TrimSpace(strings.TrimPrefix(street, name))
	}

	return OrderFields{
		CustomerName:  name,
		StreetAddress: street,
		State:         group("state"),
		Zipcode:       group("zip"),
		Phone:         group("tel"),
	}
}

// CountOrderBlocks returns how many Ordered By labels a segment carries.
// Only the first block is parsed.
func CountOrderBlocks(segment string) int {
	return strings.Count(segment, orderBlockLabel)
}

// BuildHeader combines both extraction passes into one page header.
func BuildHeader(page PageFields, order OrderFields) domain.OrderHeader {
	return domain.OrderHeader{
		CustomerOrder: page.CustomerOrder,
		PurchaseOrder: page.PurchaseOrder,
		OrderDate:     page.OrderDate,
		AddressType:   page.AddressType,
		CustomerName:  order.CustomerName,
		StreetAddress: order.StreetAddress,
		State:         order.State,
		Zipcode:       order.Zipcode,
		Phone:         order.Phone,
	}
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
