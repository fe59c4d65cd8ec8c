package mosaic

// Row is an ordered sequence of cells plus a canonicality flag. A canonical
// row starts a logical line; a non-canonical row is the wrap remainder of
// the preceding canonical row.
type Row struct {
	Columns     []TerminalCharacter
	IsCanonical bool
}

// NewRow returns an empty non-canonical row.
func NewRow() Row {
	return Row{}
}

// RowFromColumns returns a non-canonical row holding the given cells.
func RowFromColumns(columns []TerminalCharacter) Row {
	return Row{Columns: columns}
}

// RowFromRows joins rows into a single row. The result's canonicality is
// that of the first input; the canonical flags of the rest are discarded.
func RowFromRows(rows []Row) Row {
	if len(rows) == 0 {
		return NewRow()
	}
	first := rows[0]
	for _, row := range rows[1:] {
		first.Columns = append(first.Columns, row.Columns...)
	}
	return first
}

// WithCharacter appends a cell and returns the row.
func (r Row) WithCharacter(c TerminalCharacter) Row {
	r.Columns = append(r.Columns, c)
	return r
}

// Canonical marks the row as the start of a logical line and returns it.
func (r Row) Canonical() Row {
	r.IsCanonical = true
	return r
}

// Len returns the number of cells in the row.
func (r *Row) Len() int {
	return len(r.Columns)
}

// Push appends a cell.
func (r *Row) Push(c TerminalCharacter) {
	r.Columns = append(r.Columns, c)
}

// AddCharacterAt replaces the cell at x. If x is past the end, the row is
// padded with blanks and the cell appended.
func (r *Row) AddCharacterAt(c TerminalCharacter, x int) {
	switch {
	case x == len(r.Columns):
		r.Columns = append(r.Columns, c)
	case x > len(r.Columns):
		for len(r.Columns) < x {
			r.Columns = append(r.Columns, EmptyTerminalCharacter())
		}
		r.Columns = append(r.Columns, c)
	default:
		r.Columns[x] = c
	}
}

// InsertCharacterAt inserts the cell at x, shifting the rest right. If x is
// past the end, the row is padded with blanks and the cell appended.
func (r *Row) InsertCharacterAt(c TerminalCharacter, x int) {
	switch {
	case x == len(r.Columns):
		r.Columns = append(r.Columns, c)
	case x > len(r.Columns):
		for len(r.Columns) < x {
			r.Columns = append(r.Columns, EmptyTerminalCharacter())
		}
		r.Columns = append(r.Columns, c)
	default:
		r.Columns = append(r.Columns, TerminalCharacter{})
		copy(r.Columns[x+1:], r.Columns[x:])
		r.Columns[x] = c
	}
}

// ReplaceCharacterAt overwrites the cell at x if it exists.
func (r *Row) ReplaceCharacterAt(c TerminalCharacter, x int) {
	if x < len(r.Columns) {
		r.Columns[x] = c
	}
}

// ReplaceColumns swaps the row's cells for the given ones.
func (r *Row) ReplaceColumns(columns []TerminalCharacter) {
	r.Columns = columns
}

// Truncate drops every cell at index x and beyond.
func (r *Row) Truncate(x int) {
	if x < len(r.Columns) {
		r.Columns = r.Columns[:x]
	}
}

// Append concatenates the cells onto the end of the row.
func (r *Row) Append(columns []TerminalCharacter) {
	r.Columns = append(r.Columns, columns...)
}

// ReplaceBeginningWith overwrites the first len(linePart) cells with
// linePart. If linePart is longer than the row, the row becomes linePart.
func (r *Row) ReplaceBeginningWith(linePart []TerminalCharacter) {
	if len(linePart) >= len(r.Columns) {
		r.Columns = linePart
		return
	}
	r.Columns = append(linePart, r.Columns[len(linePart):]...)
}

// DeleteCharacter removes the cell at x, shifting the rest left.
func (r *Row) DeleteCharacter(x int) {
	if x < len(r.Columns) {
		r.Columns = append(r.Columns[:x], r.Columns[x+1:]...)
	}
}

// ContainsWideChar returns true if any cell heads a two-column character.
func (r *Row) ContainsWideChar() bool {
	for _, c := range r.Columns {
		if c.IsWide() {
			return true
		}
	}
	return false
}

// SplitToRowsOfLength drains the row into chunks of at most maxRowLength
// cells. The first chunk inherits the row's canonicality; the rest are
// continuations. A wide character and its spacer are never split across
// chunks: when a chunk boundary would land between them, the chunk is
// padded with a blank and the pair starts the next chunk.
func (r *Row) SplitToRowsOfLength(maxRowLength int) []Row {
	var parts []Row
	var current []TerminalCharacter
	columns := r.Columns
	r.Columns = nil

	for i := 0; i < len(columns); i++ {
		c := columns[i]
		if len(current) == maxRowLength {
			parts = append(parts, RowFromColumns(current))
			current = nil
		}
		if c.IsWide() && len(current) == maxRowLength-1 {
			current = append(current, EmptyTerminalCharacter())
			parts = append(parts, RowFromColumns(current))
			current = nil
		}
		current = append(current, c)
	}
	if len(current) > 0 {
		parts = append(parts, RowFromColumns(current))
	}
	if len(parts) > 0 && r.IsCanonical {
		parts[0].IsCanonical = true
	}
	return parts
}
