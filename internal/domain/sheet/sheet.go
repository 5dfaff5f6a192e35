package sheet

// Sheet is one loaded tab: a rectangular-ish grid of cells, row-major, zero
// based. Rows may be ragged; missing cells read as empty.
type Sheet struct {
	SpreadsheetID string
	Title         string
	Rows          [][]Cell
}

func (s Sheet) RowCount() int {
	return len(s.Rows)
}

// Cell returns the cell at (row, col) or an empty cell when out of range.
func (s Sheet) Cell(row, col int) Cell {
	if row < 0 || row >= len(s.Rows) || col < 0 {
		return Empty()
	}
	cols := s.Rows[row]
	if col >= len(cols) {
		return Empty()
	}
	return cols[col]
}
