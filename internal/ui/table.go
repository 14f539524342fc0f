package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

const tableCellMaxWidth = 50
const tableCellEllipsis = "..."

// TableBuilder collects rows and renders a formatted table.
type TableBuilder struct {
	headers []string
	rows    [][]string
}

// NewTableBuilder returns a builder with preallocated rows.
func NewTableBuilder(headers []string, capacity int) *TableBuilder {
	return &TableBuilder{headers: headers, rows: make([][]string, 0, capacity)}
}

// AddRow appends a row to the table.
func (builder *TableBuilder) AddRow(row []string) {
	builder.rows = append(builder.rows, row)
}

// String renders the table output.
func (builder *TableBuilder) String() string {
	return FormatTable(builder.headers, builder.rows)
}

// FormatTable renders headers and rows as an aligned table. Column
// widths follow display width, so colored cells and wide runes line up;
// the last column is never padded.
func FormatTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, header := range headers {
		headers[i] = normalizeTableCell(header)
		widths[i] = displayWidth(headers[i])
	}

	normalized := make([][]string, len(rows))
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = normalizeTableCell(cell)
			if i < len(widths) {
				if w := displayWidth(cells[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
		normalized[r] = cells
	}

	var out strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			out.WriteString(cell)
			if i == len(cells)-1 {
				break
			}
			out.WriteString(strings.Repeat(" ", widths[i]-displayWidth(cell)+2))
		}
		out.WriteByte('\n')
	}

	writeRow(headers)
	for _, row := range normalized {
		writeRow(row)
	}
	return out.String()
}

// TruncateTableCell limits cell width while preserving visible
// characters and any ANSI styling around them.
func TruncateTableCell(value string) string {
	value = normalizeTableCell(value)
	if displayWidth(value) <= tableCellMaxWidth {
		return value
	}
	return truncateVisible(value, tableCellMaxWidth-len(tableCellEllipsis)) + tableCellEllipsis
}

func displayWidth(value string) int {
	return runewidth.StringWidth(stripANSICodes(value))
}

func normalizeTableCell(value string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(value)
}

// truncateVisible keeps at most max columns of visible text. Escape
// sequences pass through untouched so a trailing reset survives.
func truncateVisible(value string, max int) string {
	if max <= 0 {
		return ""
	}

	var out strings.Builder
	used := 0
	for i := 0; i < len(value); {
		if end, ok := spanANSICode(value, i); ok {
			out.WriteString(value[i:end])
			i = end
			continue
		}
		r, size := utf8.DecodeRuneInString(value[i:])
		w := runewidth.RuneWidth(r)
		if r == utf8.RuneError && size == 1 {
			w = 1
		}
		if used+w > max {
			break
		}
		out.WriteString(value[i : i+size])
		used += w
		i += size
	}
	return out.String()
}

func stripANSICodes(value string) string {
	var out strings.Builder
	for i := 0; i < len(value); {
		if end, ok := spanANSICode(value, i); ok {
			i = end
			continue
		}
		out.WriteByte(value[i])
		i++
	}
	return out.String()
}

// spanANSICode reports the end of the SGR escape sequence starting at i,
// if there is one.
func spanANSICode(value string, i int) (int, bool) {
	if value[i] != '\x1b' || i+1 >= len(value) || value[i+1] != '[' {
		return 0, false
	}
	end := i + 2
	for end < len(value) && value[end] != 'm' {
		end++
	}
	if end < len(value) {
		end++
	}
	return end, true
}
