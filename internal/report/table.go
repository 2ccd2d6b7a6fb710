package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// column describes one table column. style, when set, decorates a body cell
// after its width is measured; row is the index into the body rows.
type column struct {
	title string
	right bool
	style func(row int, cell string) string
}

// formatTable lays out rows under cols, two spaces between columns and no
// trailing padding. Rows shorter than cols get empty cells.
func formatTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = displayWidth(c.title)
	}
	for _, row := range rows {
		for i := range cols {
			if w := displayWidth(cellAt(row, i)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.title
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, formatRow(cols, widths, header, -1))
	for r, row := range rows {
		lines = append(lines, formatRow(cols, widths, row, r))
	}
	return lines
}

// formatRow renders one line; row < 0 marks the header, which is never styled.
func formatRow(cols []column, widths []int, cells []string, row int) string {
	var b strings.Builder
	for i, c := range cols {
		if i > 0 {
			b.WriteString("  ")
		}
		value := cellAt(cells, i)
		pad := strings.Repeat(" ", maxInt(0, widths[i]-displayWidth(value)))
		if row >= 0 && c.style != nil {
			value = c.style(row, value)
		}
		if c.right {
			b.WriteString(pad + value)
		} else {
			b.WriteString(value + pad)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// displayWidth counts terminal cells, so wide (CJK) names keep columns aligned.
func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
