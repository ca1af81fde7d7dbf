// Package render writes records as fixed-width text tables.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/studentctl/internal/store"
)

// studentColumns is the students header, in natural field order.
var studentColumns = []string{"id", "name", "email", "created_at"}

// Students renders the given students as a table. An empty list renders
// a single notice line instead.
func Students(w io.Writer, students []store.Student) {
	if len(students) == 0 {
		_, _ = fmt.Fprintln(w, "No records found")
		return
	}

	rows := make([][]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, []string{
			formatValue(st.ID),
			st.Name,
			st.Email,
			formatValue(st.CreatedAt),
		})
	}

	WriteTable(w, studentColumns, rows)
}

// WriteTable writes header and rows as an aligned table. Each column is
// as wide as the longer of its header label and its widest cell; cells
// are left-justified and joined with " | ". The separator is a run of
// dashes exactly as long as the rendered header line.
func WriteTable(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerLine := joinRow(header, widths)
	_, _ = fmt.Fprintln(w, headerLine)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(headerLine)))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, joinRow(row, widths))
	}
}

// joinRow pads each cell to its column width and joins with " | ".
func joinRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = fmt.Sprintf("%-*s", widths[i], cell)
	}
	return strings.Join(padded, " | ")
}

// formatValue renders a value with its default textual representation.
func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
