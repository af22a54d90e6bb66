package parser

import (
	"strconv"
	"strings"
	"unicode"

	"orderscan/internal/domain"
)

const (
	// DefaultHeaderTokens is the number of column-name tokens at the head of
	// a shipment segment.
	DefaultHeaderTokens = 4

	messageSentinel = "Message:"
)

// Tokenize splits a shipment segment on commas and drops blank tokens.
// Tokens keep their surrounding whitespace.
func Tokenize(segment string) []string {
	var tokens []string
	for _, tok := range strings.Split(segment, ",") {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// ShipmentParser turns a shipment segment into line items.
type ShipmentParser struct {
	headerTokens int
}

// NewShipmentParser creates a parser that skips headerTokens leading tokens.
func NewShipmentParser(headerTokens int) *ShipmentParser {
	if headerTokens < 0 {
		headerTokens = 0
	}
	return &ShipmentParser{headerTokens: headerTokens}
}

// ParseShipments parses segment with the default header size.
func ParseShipments(segment string) []domain.ShipmentItem {
	return NewShipmentParser(DefaultHeaderTokens).Parse(segment)
}

// Parse scans the tokens after the header. Each item is a model number, an
// internet number, description tokens up to the first all-digit token, and
// that token as the quantity. A token starting with "Message:" ends the
// table only where a new item would start; inside a description it is kept
// as text. An item cut short before its quantity gets a nil quantity and is
// the last item returned.
func (p *ShipmentParser) Parse(segment string) []domain.ShipmentItem {
	tokens := Tokenize(segment)
	if len(tokens) <= p.headerTokens {
		return nil
	}
	tokens = tokens[p.headerTokens:]
	for k := range tokens {
		tokens[k] = strings.TrimSpace(tokens[k])
	}

	var items []domain.ShipmentItem
	i := 0
	for i < len(tokens) {
		if strings.HasPrefix(tokens[i], messageSentinel) {
			break
		}
		item := domain.ShipmentItem{ModelNumber: tokens[i]}
		if i+1 < len(tokens) {
			item.InternetNumber = tokens[i+1]
		}

		j := i + 2
		var desc []string
		for j < len(tokens) && !isDigits(tokens[j]) {
			desc = append(desc, tokens[j])
			j++
		}
		item.Description = strings.Join(desc, " ")

		if j < len(tokens) {
			if qty, ok := parseQty(tokens[j]); ok {
				item.QtyShipped = &qty
			}
		}

		items = append(items, item)
		i = j + 1
	}
	return items
}

// digitSymbols holds the digit-valued characters outside Nd, such as
// superscripts and circled digits. They end a description but carry no
// quantity.
var digitSymbols = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00b2, Hi: 0x00b3, Stride: 1},
		{Lo: 0x00b9, Hi: 0x00b9, Stride: 1},
		{Lo: 0x1369, Hi: 0x1371, Stride: 1},
		{Lo: 0x19da, Hi: 0x19da, Stride: 1},
		{Lo: 0x2070, Hi: 0x2070, Stride: 1},
		{Lo: 0x2074, Hi: 0x2079, Stride: 1},
		{Lo: 0x2080, Hi: 0x2089, Stride: 1},
		{Lo: 0x2460, Hi: 0x2468, Stride: 1},
		{Lo: 0x2474, Hi: 0x247c, Stride: 1},
		{Lo: 0x2488, Hi: 0x2490, Stride: 1},
		{Lo: 0x24ea, Hi: 0x24ea, Stride: 1},
		{Lo: 0x24f5, Hi: 0x24fd, Stride: 1},
		{Lo: 0x24ff, Hi: 0x24ff, Stride: 1},
		{Lo: 0x2776, Hi: 0x277e, Stride: 1},
		{Lo: 0x2780, Hi: 0x2788, Stride: 1},
		{Lo: 0x278a, Hi: 0x2792, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x10a40, Hi: 0x10a43, Stride: 1},
		{Lo: 0x10e60, Hi: 0x10e68, Stride: 1},
		{Lo: 0x11052, Hi: 0x1105a, Stride: 1},
		{Lo: 0x1f100, Hi: 0x1f10a, Stride: 1},
	},
	LatinOffset: 2,
}

// isDigits reports whether s is non-empty and made only of decimal digits
// of any script or digit symbols.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && !unicode.Is(digitSymbols, r) {
			return false
		}
	}
	return true
}

// parseQty reads s as a base-10 integer whose digits may come from any
// script. Digit symbols and values that overflow int are rejected.
func parseQty(s string) (int, bool) {
	var b strings.Builder
	for _, r := range s {
		d, ok := decimalValue(r)
		if !ok {
			return 0, false
		}
		b.WriteByte(byte('0' + d))
	}
	n, err := strconv.Atoi(b.String())
	return n, err == nil
}

// decimalValue returns the value of an Nd rune. Nd ranges are runs of whole
// zero-to-nine blocks, so the offset from the range start gives the value.
func decimalValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	for _, rg := range unicode.Nd.R16 {
		if r >= rune(rg.Lo) && r <= rune(rg.Hi) && rg.Stride == 1 {
			return int(r-rune(rg.Lo)) % 10, true
		}
	}
	for _, rg := range unicode.Nd.R32 {
		if r >= rune(rg.Lo) && r <= rune(rg.Hi) && rg.Stride == 1 {
			return int(r-rune(rg.Lo)) % 10, true
		}
	}
	return 0, false
}
