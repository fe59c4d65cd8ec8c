package mosaic

// Cursor tracks the insertion point of a grid. X may equal the grid width:
// that is the pending-wrap state, where wrapping is deferred until the next
// printable character. PendingStyles are applied to every printed cell.
type Cursor struct {
	X             int
	Y             int
	IsHidden      bool
	PendingStyles CharacterStyles
	Charsets      [4]StandardCharset
}

// NewCursor returns a visible cursor at (x, y) with default styles and
// ASCII in every charset slot.
func NewCursor(x, y int) Cursor {
	return Cursor{X: x, Y: y}
}
