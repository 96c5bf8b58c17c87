package store

import "strings"

// colIndex finds a column by case-insensitive substring match on the header,
// the same matching the sheet's human-edited headers have always been read
// with. Returns -1 when absent; writers skip absent columns.
func colIndex(header []string, needle string) int {
	needle = strings.ToLower(needle)
	for i, h := range header {
		if strings.Contains(strings.ToLower(h), needle) {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func setCell(row []string, idx int, val string) []string {
	if idx < 0 {
		return row
	}
	for len(row) <= idx {
		row = append(row, "")
	}
	row[idx] = val
	return row
}

// padTo extends a row with blanks up to the header width so updates don't
// shorten existing rows.
func padTo(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
