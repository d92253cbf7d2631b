package commands

import (
	"fmt"
	"io"
	"strings"
)

// printTable renders rows as a fixed-column table with dynamically sized
// columns. The last column is not padded.
func printTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	// Add padding between columns.
	for i := range widths[:len(widths)-1] {
		widths[i] += 2
	}

	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i == len(cells)-1 {
				fmt.Fprintln(w, cell)
				continue
			}
			fmt.Fprintf(w, "%-*s", widths[i], cell)
		}
	}

	writeRow(headers)
	separators := make([]string, len(headers))
	for i, h := range headers {
		separators[i] = strings.Repeat("-", len(h))
	}
	writeRow(separators)

	for _, row := range rows {
		writeRow(row)
	}
}
