package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type cell struct {
	r       rune
	width   int
	isSpace bool
}

// wrapText breaks s into lines no wider than width display cells. Lines break
// at the last space that fits; a word longer than width is split hard.
func wrapText(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	var lines []string
	line := make([]cell, 0, width)
	lineWidth := 0
	lastSpace := -1

	for _, r := range s {
		c := cell{r: r, width: runewidth.RuneWidth(r), isSpace: r == ' '}
		for lineWidth+c.width > width && len(line) > 0 {
			if lastSpace >= 0 {
				lines = append(lines, cellsString(line[:lastSpace]))
				line = append([]cell{}, line[lastSpace+1:]...)
			} else {
				lines = append(lines, cellsString(line))
				line = line[:0]
			}
			lineWidth = cellsWidth(line)
			lastSpace = lastSpaceIndex(line)
		}
		line = append(line, c)
		lineWidth += c.width
		if c.isSpace {
			lastSpace = len(line) - 1
		}
	}
	return append(lines, cellsString(line))
}

func cellsString(line []cell) string {
	var b strings.Builder
	for _, c := range line {
		b.WriteRune(c.r)
	}
	return b.String()
}

func cellsWidth(line []cell) int {
	total := 0
	for _, c := range line {
		total += c.width
	}
	return total
}

func lastSpaceIndex(line []cell) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
