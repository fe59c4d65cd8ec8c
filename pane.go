package mosaic

// PaneID identifies one terminal pane.
type PaneID int

// TerminalPane couples a grid with its position inside the full terminal
// window. The pane geometry manager supplies (x, y, rows, columns); the
// pane renders its grid at that origin and forwards input and resize
// events to it.
type TerminalPane struct {
	ID   PaneID
	grid *Grid

	x       int
	y       int
	rows    int
	columns int

	shouldRender bool
}

// PaneOption configures a TerminalPane during construction.
type PaneOption func(*TerminalPane)

// WithGridOptions passes options through to the pane's grid.
func WithGridOptions(opts ...GridOption) PaneOption {
	return func(p *TerminalPane) {
		for _, opt := range opts {
			opt(p.grid)
		}
	}
}

// NewPane creates a pane with its own grid at the given geometry.
func NewPane(id PaneID, x, y, rows, columns int, opts ...PaneOption) *TerminalPane {
	p := &TerminalPane{
		ID:           id,
		grid:         NewGrid(rows, columns),
		x:            x,
		y:            y,
		rows:         rows,
		columns:      columns,
		shouldRender: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Grid returns the pane's grid.
func (p *TerminalPane) Grid() *Grid {
	return p.grid
}

// X returns the pane's column offset inside the window.
func (p *TerminalPane) X() int { return p.x }

// Y returns the pane's row offset inside the window.
func (p *TerminalPane) Y() int { return p.y }

// Rows returns the pane height.
func (p *TerminalPane) Rows() int { return p.rows }

// Columns returns the pane width.
func (p *TerminalPane) Columns() int { return p.columns }

// MarkForRerender flags the pane for repaint on the next render pass.
func (p *TerminalPane) MarkForRerender() {
	p.shouldRender = true
	p.grid.MarkForRerender()
}

// HandleBytes feeds PTY output into the pane's grid.
func (p *TerminalPane) HandleBytes(data []byte) {
	p.grid.Feed(data)
	p.shouldRender = true
}

// ChangeSize resizes the pane and reflows its grid.
func (p *TerminalPane) ChangeSize(rows, columns int) {
	p.rows = rows
	p.columns = columns
	p.grid.Resize(rows, columns)
	p.shouldRender = true
}

// ChangePosition moves the pane's render origin.
func (p *TerminalPane) ChangePosition(x, y int) {
	p.x = x
	p.y = y
	p.shouldRender = true
}

// Render serializes the pane's grid at the pane origin. Returns nil when
// nothing changed since the last render.
func (p *TerminalPane) Render() []byte {
	if !p.shouldRender && !p.grid.ShouldRender() && !p.grid.clearViewportBeforeRendering {
		return nil
	}
	out := p.grid.Render(p.x, p.y)
	p.shouldRender = false
	p.grid.shouldRender = false
	p.grid.clearViewportBeforeRendering = false
	return out
}

// CursorCoordinates returns the cursor position in window coordinates.
// visible is false when the grid cursor is hidden.
func (p *TerminalPane) CursorCoordinates() (x, y int, visible bool) {
	cx, cy, v := p.grid.CursorCoordinates()
	return p.x + cx, p.y + cy, v
}

// ScrollUp scrolls the pane's viewport back into scrollback.
func (p *TerminalPane) ScrollUp(count int) {
	p.grid.ScrollUp(count)
	p.shouldRender = true
}

// ScrollDown scrolls the pane's viewport toward the live tail.
func (p *TerminalPane) ScrollDown(count int) {
	p.grid.ScrollDown(count)
	p.shouldRender = true
}

// ClearScroll returns the pane's viewport to the live tail.
func (p *TerminalPane) ClearScroll() {
	p.grid.ResetViewport()
	p.shouldRender = true
}

// AdjustInput translates keyboard bytes according to the grid's input
// modes before they are written to the pane's PTY.
func (p *TerminalPane) AdjustInput(input []byte) []byte {
	return p.grid.AdjustInput(input)
}
