package pdfsource

import (
	"math"
	"sort"
	"strings"

	"orderscan/internal/domain"
)

const (
	// rowTolerance is the maximum baseline difference, in points, for two
	// fragments to share a row.
	rowTolerance = 2.0
	// cellGap is the horizontal gap, in points, that starts a new cell.
	cellGap = 8.0
)

// Fragment is a positioned run of text as reported by an engine. Y grows
// upwards, as in PDF user space.
type Fragment struct {
	Text  string
	X, Y  float64
	Width float64
}

// GroupRows rebuilds a table grid from positioned text. Fragments on the
// same baseline form a row, top to bottom; within a row, runs separated by
// more than cellGap become separate cells.
func GroupRows(frags []Fragment) domain.Table {
	type row struct {
		y     float64
		frags []Fragment
	}

	var rows []*row
	for _, f := range frags {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}
		placed := false
		for _, r := range rows {
			if math.Abs(r.y-f.Y) < rowTolerance {
				r.frags = append(r.frags, f)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, &row{y: f.Y, frags: []Fragment{f}})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	table := make(domain.Table, 0, len(rows))
	for _, r := range rows {
		sort.SliceStable(r.frags, func(i, j int) bool { return r.frags[i].X < r.frags[j].X })

		var cells []string
		var cell strings.Builder
		end := 0.0
		for i, f := range r.frags {
			if i > 0 {
				gap := f.X - end
				switch {
				case gap > cellGap:
					cells = append(cells, strings.TrimSpace(cell.String()))
					cell.Reset()
				case gap > 0.5:
					cell.WriteByte(' ')
				}
			}
			cell.WriteString(f.Text)
			end = f.X + f.Width
		}
		cells = append(cells, strings.TrimSpace(cell.String()))
		table = append(table, cells)
	}
	return table
}

// JoinRows renders a grid as newline-separated rows of space-joined cells,
// for engines that have no separate text layer.
func JoinRows(t domain.Table) string {
	lines := make([]string, 0, len(t))
	for _, row := range t {
		lines = append(lines, strings.Join(row, " "))
	}
	return strings.Join(lines, "\n")
}
