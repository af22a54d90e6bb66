package parser

import (
	"strings"

	"orderscan/internal/domain"
)

// tokenSep joins flattened cells. Tokenize splits on its comma.
const tokenSep = ", "

// Flatten joins every non-empty cell of the tables into one string, rows top
// to bottom and cells left to right. Embedded newlines become spaces.
func Flatten(tables []domain.Table) string {
	var cells []string
	for _, table := range tables {
		for _, row := range table {
			for _, cell := range row {
				if cell == "" {
					continue
				}
				cells = append(cells, strings.ReplaceAll(cell, "\n", " "))
			}
		}
	}
	return strings.Join(cells, tokenSep)
}
