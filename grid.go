package mosaic

import (
	"sync/atomic"

	"github.com/cliofy/govte"
)

const (
	// TabstopWidth is the default tabstop interval.
	TabstopWidth = 8
	// ScrollBack is the scrollback capacity in rows; the oldest row is
	// dropped when a push would exceed it.
	ScrollBack = 10000
)

// splitTopNonCanonicalRows removes the run of continuation rows at the top
// of rows and returns them alongside the remainder.
func splitTopNonCanonicalRows(rows []Row) (nonCanonical, rest []Row) {
	i := 0
	for i < len(rows) && !rows[i].IsCanonical {
		i++
	}
	return rows[:i:i], rows[i:]
}

// splitBottomCanonicalRowAndWraps removes the bottom-most canonical row and
// its continuations from rows and returns them alongside the remainder. If
// no row is canonical, everything is drained.
func splitBottomCanonicalRowAndWraps(rows []Row) (drained, rest []Row) {
	i := len(rows) - 1
	for i > 0 && !rows[i].IsCanonical {
		i--
	}
	if len(rows) == 0 {
		return nil, rows
	}
	return rows[i:], rows[:i:i]
}

// boundedPushRow appends row, dropping the oldest entry when the limit is
// reached. This is the single place where content is discarded.
func boundedPushRow(rows []Row, row Row, limit int) []Row {
	if len(rows) >= limit {
		rows = rows[1:]
	}
	return append(rows, row)
}

// createHorizontalTabstops returns the default tabstops: every multiple of
// TabstopWidth up to and including columns, so a stop can sit on the
// pending-wrap column when columns is a multiple of TabstopWidth.
func createHorizontalTabstops(columns int) map[int]struct{} {
	tabstops := make(map[int]struct{})
	for i := TabstopWidth; i <= columns; i += TabstopWidth {
		tabstops[i] = struct{}{}
	}
	return tabstops
}

// transferRowsDown moves count rows from the bottom of source (newest
// scrollback) onto the top of destination (the viewport), re-joining wrapped
// lines and re-splitting them by maxDstWidth. A width of 0 means unbounded.
func transferRowsDown(source, destination *[]Row, count int, maxSrcWidth, maxDstWidth, scrollbackLimit int) {
	var nextLines []Row
	linesAdded := 0
	for linesAdded != count {
		if len(nextLines) == 0 {
			if len(*source) == 0 {
				break
			}
			nextLine := (*source)[len(*source)-1]
			*source = (*source)[:len(*source)-1]

			topNonCanonical, rest := splitTopNonCanonicalRows(*destination)
			*destination = rest
			linesAdded -= len(topNonCanonical)

			joined := RowFromRows(append([]Row{nextLine}, topNonCanonical...))
			if maxDstWidth > 0 {
				nextLines = joined.SplitToRowsOfLength(maxDstWidth)
			} else {
				nextLines = []Row{joined}
			}
			if len(nextLines) == 0 {
				// the line we popped was empty
				break
			}
		}
		last := nextLines[len(nextLines)-1]
		nextLines = nextLines[:len(nextLines)-1]
		*destination = append([]Row{last}, *destination...)
		linesAdded++
	}
	if len(nextLines) > 0 {
		if maxSrcWidth > 0 {
			joined := RowFromRows(nextLines)
			excess := joined.SplitToRowsOfLength(maxSrcWidth)
			*source = append(*source, excess...)
		} else {
			excess := RowFromRows(nextLines)
			*source = boundedPushRow(*source, excess, scrollbackLimit)
		}
	}
}

// transferRowsUp moves count rows from the top of source (the viewport)
// onto the bottom of destination (newest scrollback), re-joining wrapped
// lines and re-splitting them by maxDstWidth. A width of 0 means unbounded.
func transferRowsUp(source, destination *[]Row, count int, maxSrcWidth, maxDstWidth, scrollbackLimit int) {
	var nextLines []Row
	for i := 0; i < count; i++ {
		if len(nextLines) == 0 {
			if len(*source) == 0 {
				break
			}
			nextLine := (*source)[0]
			*source = (*source)[1:]
			if !nextLine.IsCanonical {
				drained, rest := splitBottomCanonicalRowAndWraps(*destination)
				*destination = rest
				nextLines = append(nextLines, drained...)
			}
			nextLines = append(nextLines, nextLine)
			joined := RowFromRows(nextLines)
			if maxDstWidth > 0 {
				nextLines = joined.SplitToRowsOfLength(maxDstWidth)
			} else {
				nextLines = []Row{joined}
			}
		}
		*destination = boundedPushRow(*destination, nextLines[0], scrollbackLimit)
		nextLines = nextLines[1:]
	}
	if len(nextLines) > 0 {
		joined := RowFromRows(nextLines)
		if maxSrcWidth > 0 {
			excess := joined.SplitToRowsOfLength(maxSrcWidth)
			*source = append(excess, *source...)
		} else {
			*source = append([]Row{joined}, *source...)
		}
	}
}

type scrollRegion struct {
	top    int
	bottom int // inclusive
}

type alternateScreen struct {
	linesAbove []Row
	viewport   []Row
	cursor     Cursor
	width      int
	height     int
}

// Grid is the virtual terminal screen of one pane: the scrollback, the
// viewport, the cursor, the styling state, and the alternate screen. It is
// driven by feeding it the raw byte stream of a pseudoterminal and rendered
// on demand. A grid must only be mutated by the goroutine that owns it.
type Grid struct {
	linesAbove         []Row
	viewport           []Row
	linesBelow         []Row
	horizontalTabstops map[int]struct{}
	alternate          *alternateScreen

	cursor              Cursor
	savedCursorPosition *Cursor
	scrollRegion        *scrollRegion
	activeCharset       CharsetIndex
	selection           Selection
	title               string

	shouldRender bool
	// cursorKeyMode (DECCKM) is atomic: the input router reads it from
	// another goroutine via AdjustInput while the screen worker mutates
	// the grid.
	cursorKeyMode                atomic.Bool
	erasureMode                  bool // DECOM
	disableLinewrap              bool
	clearViewportBeforeRendering bool

	width           int
	height          int
	scrollbackLimit int

	parser *govte.Parser
	logger Logger
}

// GridOption configures a Grid during construction.
type GridOption func(*Grid)

// WithLogger sets the logger used for unknown sequences and internal
// inconsistencies. Defaults to a no-op.
func WithLogger(l Logger) GridOption {
	return func(g *Grid) {
		g.logger = l
	}
}

// WithScrollbackLimit overrides the scrollback capacity.
func WithScrollbackLimit(limit int) GridOption {
	return func(g *Grid) {
		if limit > 0 {
			g.scrollbackLimit = limit
		}
	}
}

// NewGrid creates a grid with the given dimensions.
func NewGrid(rows, columns int, opts ...GridOption) *Grid {
	g := &Grid{
		viewport:           []Row{NewRow().Canonical()},
		horizontalTabstops: createHorizontalTabstops(columns),
		cursor:             NewCursor(0, 0),
		width:              columns,
		height:             rows,
		shouldRender:       true,
		scrollbackLimit:    ScrollBack,
		parser:             govte.NewParser(),
		logger:             NoopLogger{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Feed advances the VT parser over data, mutating the grid. All bytes from
// one PTY must be fed in order.
func (g *Grid) Feed(data []byte) {
	g.parser.Advance(g, data)
}

// Width returns the viewport width in columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the viewport height in rows.
func (g *Grid) Height() int {
	return g.height
}

// Title returns the window title most recently set via OSC 0/1/2.
func (g *Grid) Title() string {
	return g.title
}

// CursorCoordinates returns the cursor position. visible is false when the
// cursor is hidden.
func (g *Grid) CursorCoordinates() (x, y int, visible bool) {
	return g.cursor.X, g.cursor.Y, !g.cursor.IsHidden
}

// CursorKeysApplicationMode returns true when DECCKM is set, meaning arrow
// key input must be sent in SS3 form.
func (g *Grid) CursorKeysApplicationMode() bool {
	return g.cursorKeyMode.Load()
}

// ShouldRender reports whether the grid changed since the last render.
func (g *Grid) ShouldRender() bool {
	return g.shouldRender
}

// MarkForRerender forces the next render to repaint.
func (g *Grid) MarkForRerender() {
	g.shouldRender = true
}

// ScrollbackLen returns the number of rows currently held above the
// viewport.
func (g *Grid) ScrollbackLen() int {
	return len(g.linesAbove)
}

func (g *Grid) boundedPush(row Row) {
	g.linesAbove = boundedPushRow(g.linesAbove, row, g.scrollbackLimit)
}

func (g *Grid) advanceToNextTabstop(styles CharacterStyles) {
	next := -1
	for tabstop := g.cursor.X + 1; tabstop <= g.width; tabstop++ {
		if _, ok := g.horizontalTabstops[tabstop]; ok {
			next = tabstop
			break
		}
	}
	if next >= 0 {
		g.cursor.X = next
	} else {
		g.cursor.X = max(g.width-1, 0)
	}
	g.padCurrentLineUntilWith(g.cursor.X, StyledEmptyCharacter(styles))
}

func (g *Grid) setHorizontalTabstop() {
	g.horizontalTabstops[g.cursor.X] = struct{}{}
}

func (g *Grid) clearTabstop(position int) {
	delete(g.horizontalTabstops, position)
}

func (g *Grid) clearAllTabstops() {
	g.horizontalTabstops = make(map[int]struct{})
}

func (g *Grid) saveCursorPosition() {
	saved := g.cursor
	g.savedCursorPosition = &saved
}

func (g *Grid) restoreCursorPosition() {
	if g.savedCursorPosition != nil {
		g.cursor = *g.savedCursorPosition
	}
}

func (g *Grid) configureCharset(charset StandardCharset, index CharsetIndex) {
	g.cursor.Charsets[index] = charset
}

func (g *Grid) setActiveCharset(index CharsetIndex) {
	g.activeCharset = index
}

// cursorCanonicalLineIndex returns the ordinal, among the canonical lines in
// the viewport, of the logical line containing the cursor.
func (g *Grid) cursorCanonicalLineIndex() int {
	index := 0
	traversed := 0
	for i, line := range g.viewport {
		if line.IsCanonical {
			index = traversed
			traversed++
		}
		if i == g.cursor.Y {
			break
		}
	}
	return index
}

// cursorIndexInCanonicalLine returns the cell distance from the canonical
// start of the cursor's logical line to the cursor, summed across any
// preceding continuation rows.
func (g *Grid) cursorIndexInCanonicalLine() int {
	canonicalY := 0
	index := 0
	for i := range g.viewport {
		if g.viewport[i].IsCanonical {
			canonicalY = i
		}
		if i == g.cursor.Y {
			wrapPosition := g.cursor.Y - canonicalY
			index = wrapPosition*g.width + g.cursor.X
			break
		}
	}
	return index
}

// canonicalLineYCoordinates returns the viewport row index of the first row
// of the canonical line with the given ordinal.
func canonicalLineYCoordinates(viewport []Row, canonicalLineIndex int) int {
	traversed := 0
	y := 0
	for i, line := range viewport {
		if line.IsCanonical {
			traversed++
			if traversed == canonicalLineIndex+1 {
				y = i
				break
			}
		}
	}
	return y
}

// scrollUpOneLine moves the viewport one line back into scrollback. The
// bottom viewport row is parked in linesBelow so the live tail can be
// restored.
func (g *Grid) scrollUpOneLine() {
	if len(g.linesAbove) > 0 && len(g.viewport) == g.height {
		pushedDown := g.viewport[len(g.viewport)-1]
		g.viewport = g.viewport[:len(g.viewport)-1]
		g.linesBelow = append([]Row{pushedDown}, g.linesBelow...)

		top := g.linesAbove[len(g.linesAbove)-1]
		g.linesAbove = g.linesAbove[:len(g.linesAbove)-1]
		g.viewport = append([]Row{top}, g.viewport...)
		g.selection.MoveDown(1)
	}
}

// scrollDownOneLine moves the viewport one line toward the live tail. A
// continuation row leaving the top is appended onto the newest scrollback
// row so that scrollback rows stay canonical.
func (g *Grid) scrollDownOneLine() {
	if len(g.linesBelow) > 0 && len(g.viewport) == g.height {
		pushedUp := g.viewport[0]
		g.viewport = g.viewport[1:]
		if pushedUp.IsCanonical {
			g.boundedPush(pushedUp)
		} else if len(g.linesAbove) > 0 {
			last := g.linesAbove[len(g.linesAbove)-1]
			g.linesAbove = g.linesAbove[:len(g.linesAbove)-1]
			last.Columns = append(last.Columns, pushedUp.Columns...)
			g.boundedPush(last)
		} else {
			g.boundedPush(pushedUp)
		}
		bottom := g.linesBelow[0]
		g.linesBelow = g.linesBelow[1:]
		g.viewport = append(g.viewport, bottom)
		g.selection.MoveUp(1)
	}
}

// ScrollUp scrolls the viewport count lines back into scrollback.
func (g *Grid) ScrollUp(count int) {
	for i := 0; i < count; i++ {
		g.scrollUpOneLine()
	}
	g.shouldRender = true
}

// ScrollDown scrolls the viewport count lines toward the live tail.
func (g *Grid) ScrollDown(count int) {
	for i := 0; i < count; i++ {
		g.scrollDownOneLine()
	}
	g.shouldRender = true
}

// ResetViewport scrolls all the way back down to the live tail.
func (g *Grid) ResetViewport() {
	rowCountBelow := len(g.linesBelow)
	for i := 0; i < rowCountBelow; i++ {
		g.scrollDownOneLine()
	}
	g.shouldRender = true
}

// Resize changes the grid dimensions, reflowing wrapped lines so logical
// content is preserved and the cursor stays on the same canonical
// character. If an internally inconsistent viewport is detected the resize
// returns without changing the grid and marks it for a full repaint.
func (g *Grid) Resize(newRows, newColumns int) {
	if newRows <= 0 || newColumns <= 0 {
		return
	}
	linesAbove := g.linesAbove
	viewport := g.viewport
	cursorX := g.cursor.X
	cursorY := g.cursor.Y

	if newColumns != g.width {
		cursorCanonicalLineIndex := g.cursorCanonicalLineIndex()
		cursorIndexInCanonicalLine := g.cursorIndexInCanonicalLine()

		var canonicalLines []Row
		for _, row := range viewport {
			switch {
			case !row.IsCanonical && len(canonicalLines) == 0 && len(linesAbove) > 0:
				// the viewport starts mid-line; rejoin with its canonical
				// head from scrollback
				head := linesAbove[len(linesAbove)-1]
				linesAbove = linesAbove[:len(linesAbove)-1]
				head.Columns = append(head.Columns, row.Columns...)
				canonicalLines = append(canonicalLines, head)
				cursorCanonicalLineIndex++
			case row.IsCanonical:
				canonicalLines = append(canonicalLines, row)
			default:
				if len(canonicalLines) == 0 {
					// a continuation row with no canonical head anywhere;
					// tolerate the corruption without propagating it
					g.logger.Printf("resize: continuation row with no canonical head, aborting reflow")
					g.clearViewportBeforeRendering = true
					g.shouldRender = true
					return
				}
				last := &canonicalLines[len(canonicalLines)-1]
				last.Columns = append(last.Columns, row.Columns...)
			}
		}

		var newViewport []Row
		for i := range canonicalLines {
			line := canonicalLines[i]
			if line.Len() == 0 {
				newViewport = append(newViewport, NewRow().Canonical())
				continue
			}
			newViewport = append(newViewport, line.SplitToRowsOfLength(newColumns)...)
		}

		newCursorY := canonicalLineYCoordinates(newViewport, cursorCanonicalLineIndex) +
			cursorIndexInCanonicalLine/newColumns
		newCursorX := cursorIndexInCanonicalLine % newColumns

		switch {
		case len(newViewport) < g.height:
			need := g.height - len(newViewport)
			before := len(newViewport)
			transferRowsDown(&linesAbove, &newViewport, need, 0, newColumns, g.scrollbackLimit)
			newCursorY += len(newViewport) - before
		case len(newViewport) > g.height:
			excess := len(newViewport) - g.height
			if excess > newCursorY {
				newCursorY = 0
			} else {
				newCursorY -= excess
			}
			transferRowsUp(&newViewport, &linesAbove, excess, newColumns, 0, g.scrollbackLimit)
		}
		viewport = newViewport
		cursorX = newCursorX
		cursorY = newCursorY
	}

	if newRows != len(viewport) || newRows != g.height {
		switch {
		case len(viewport) < newRows:
			need := newRows - len(viewport)
			before := len(viewport)
			transferRowsDown(&linesAbove, &viewport, need, 0, newColumns, g.scrollbackLimit)
			cursorY += len(viewport) - before
		case len(viewport) > newRows:
			excess := len(viewport) - newRows
			if excess > cursorY {
				cursorY = 0
			} else {
				cursorY -= excess
			}
			transferRowsUp(&viewport, &linesAbove, excess, newColumns, 0, g.scrollbackLimit)
		}
	}

	g.linesAbove = linesAbove
	g.viewport = viewport
	g.cursor.X = cursorX
	g.cursor.Y = cursorY
	g.height = newRows
	g.width = newColumns
	if g.scrollRegion != nil {
		g.setScrollRegionToViewportSize()
	}
	g.shouldRender = true
}

// AsCharacterLines returns the viewport as exactly height rows of exactly
// width cells, padding short rows and missing rows with blanks.
func (g *Grid) AsCharacterLines() [][]TerminalCharacter {
	lines := make([][]TerminalCharacter, 0, g.height)
	for _, row := range g.viewport {
		line := make([]TerminalCharacter, 0, g.width)
		line = append(line, row.Columns...)
		for len(line) < g.width {
			line = append(line, EmptyTerminalCharacter())
		}
		if len(line) > g.width {
			line = line[:g.width]
		}
		lines = append(lines, line)
	}
	for len(lines) < g.height {
		empty := make([]TerminalCharacter, g.width)
		for i := range empty {
			empty[i] = EmptyTerminalCharacter()
		}
		lines = append(lines, empty)
	}
	if len(lines) > g.height {
		lines = lines[:g.height]
	}
	return lines
}

func (g *Grid) rotateScrollRegionUp(count int) {
	if g.scrollRegion == nil {
		return
	}
	top, bottom := g.scrollRegion.top, g.scrollRegion.bottom
	for i := 0; i < count; i++ {
		if bottom < len(g.viewport) {
			g.viewport = append(g.viewport[:bottom], g.viewport[bottom+1:]...)
		}
		if top < len(g.viewport) {
			blank := RowFromColumns(g.blankLine()).Canonical()
			g.viewport = append(g.viewport[:top], append([]Row{blank}, g.viewport[top:]...)...)
		}
	}
}

func (g *Grid) rotateScrollRegionDown(count int) {
	if g.scrollRegion == nil {
		return
	}
	top, bottom := g.scrollRegion.top, g.scrollRegion.bottom
	for i := 0; i < count; i++ {
		if top < len(g.viewport) {
			g.viewport = append(g.viewport[:top], g.viewport[top+1:]...)
		}
		blank := RowFromColumns(g.blankLine()).Canonical()
		if len(g.viewport) > bottom {
			g.viewport = append(g.viewport[:bottom], append([]Row{blank}, g.viewport[bottom:]...)...)
		} else {
			g.viewport = append(g.viewport, blank)
		}
	}
}

func (g *Grid) blankLine() []TerminalCharacter {
	columns := make([]TerminalCharacter, g.width)
	for i := range columns {
		columns[i] = EmptyTerminalCharacter()
	}
	return columns
}

func (g *Grid) styledLine(c TerminalCharacter) []TerminalCharacter {
	columns := make([]TerminalCharacter, g.width)
	for i := range columns {
		columns[i] = c
	}
	return columns
}

// fillViewport replaces every viewport cell with character (DECALN).
func (g *Grid) fillViewport(character TerminalCharacter) {
	g.viewport = make([]Row, 0, g.height)
	for i := 0; i < g.height; i++ {
		g.viewport = append(g.viewport, RowFromColumns(g.styledLine(character)).Canonical())
	}
}

// addCanonicalLine performs a line feed. At the bottom of a scroll region
// the region's content shifts up; at the bottom of the screen the top
// viewport row moves into scrollback.
func (g *Grid) addCanonicalLine() {
	if g.scrollRegion != nil {
		top, bottom := g.scrollRegion.top, g.scrollRegion.bottom
		if g.cursor.Y == bottom {
			if top >= len(g.viewport) {
				// the state is corrupted
				return
			}
			g.viewport = append(g.viewport[:top], g.viewport[top+1:]...)
			blank := RowFromColumns(g.blankLine()).Canonical()
			if len(g.viewport) >= bottom {
				g.viewport = append(g.viewport[:bottom], append([]Row{blank}, g.viewport[bottom:]...)...)
			} else {
				g.viewport = append(g.viewport, blank)
			}
			return
		}
	}
	if len(g.viewport) <= g.cursor.Y+1 {
		g.viewport = append(g.viewport, NewRow().Canonical())
	}
	if g.cursor.Y == g.height-1 {
		transferRowsUp(&g.viewport, &g.linesAbove, 1, g.width, 0, g.scrollbackLimit)
		g.selection.MoveUp(1)
	} else {
		g.cursor.Y++
	}
}

func (g *Grid) moveCursorToBeginningOfLine() {
	g.cursor.X = 0
}

// insertCharacterAtCursorPosition inserts the cell at the cursor, shifting
// the rest of the row right and truncating at the viewport width.
func (g *Grid) insertCharacterAtCursorPosition(c TerminalCharacter) {
	if g.cursor.Y < len(g.viewport) {
		row := &g.viewport[g.cursor.Y]
		row.InsertCharacterAt(c, g.cursor.X)
		if row.Len() > g.width {
			row.Truncate(g.width)
		}
		return
	}
	for len(g.viewport) < g.cursor.Y {
		g.viewport = append(g.viewport, NewRow().Canonical())
	}
	g.viewport = append(g.viewport, NewRow().WithCharacter(c).Canonical())
}

// addCharacterAtCursorPosition overwrites the cell at the cursor, padding
// rows and cells into existence as needed.
func (g *Grid) addCharacterAtCursorPosition(c TerminalCharacter) {
	if g.cursor.Y < len(g.viewport) {
		g.viewport[g.cursor.Y].AddCharacterAt(c, g.cursor.X)
		return
	}
	for len(g.viewport) < g.cursor.Y {
		g.viewport = append(g.viewport, NewRow().Canonical())
	}
	g.viewport = append(g.viewport, NewRow().WithCharacter(c).Canonical())
}

// addCharacter places a printable cell at the cursor, wrapping first if the
// cursor is in the pending-wrap column (or a wide character cannot fit).
func (g *Grid) addCharacter(c TerminalCharacter) {
	needsWrap := g.cursor.X >= g.width ||
		(c.IsWide() && g.cursor.X == g.width-1)
	if needsWrap {
		if g.disableLinewrap {
			return
		}
		g.cursor.X = 0
		if g.cursor.Y == g.height-1 {
			transferRowsUp(&g.viewport, &g.linesAbove, 1, g.width, 0, g.scrollbackLimit)
			g.viewport = append(g.viewport, NewRow())
			g.selection.MoveUp(1)
		} else {
			g.cursor.Y++
			if len(g.viewport) <= g.cursor.Y {
				g.viewport = append(g.viewport, NewRow())
			}
		}
	}
	g.addCharacterAtCursorPosition(c)
	if c.IsWide() {
		spacerX := g.cursor.X + 1
		if spacerX < g.width && g.cursor.Y < len(g.viewport) {
			g.viewport[g.cursor.Y].AddCharacterAt(SpacerCharacter(c.Styles), spacerX)
		}
	}
	g.moveCursorForwardUntilEdge(c.Width)
}

// attachCombiningCharacter appends a zero-width mark to the cell preceding
// the cursor.
func (g *Grid) attachCombiningCharacter(r rune) {
	if g.cursor.Y >= len(g.viewport) {
		return
	}
	row := &g.viewport[g.cursor.Y]
	x := g.cursor.X - 1
	if g.cursor.X >= g.width {
		x = g.width - 1
	}
	if x < 0 || x >= row.Len() {
		return
	}
	if row.Columns[x].Spacer && x > 0 {
		x--
	}
	row.Columns[x].Combining = append(row.Columns[x].Combining, r)
}

func (g *Grid) moveCursorForwardUntilEdge(count int) {
	if count > g.width-g.cursor.X {
		count = g.width - g.cursor.X
	}
	g.cursor.X += count
}

// replaceCharactersInLineAfterCursor truncates the cursor row at the cursor
// and fills the remainder of the line with replaceWith.
func (g *Grid) replaceCharactersInLineAfterCursor(replaceWith TerminalCharacter) {
	if g.cursor.Y >= len(g.viewport) {
		return
	}
	row := &g.viewport[g.cursor.Y]
	row.Truncate(g.cursor.X)
	if g.cursor.X < g.width {
		fill := make([]TerminalCharacter, g.width-g.cursor.X)
		for i := range fill {
			fill[i] = replaceWith
		}
		row.Append(fill)
	}
}

func (g *Grid) replaceCharactersInLineBeforeCursor(replaceWith TerminalCharacter) {
	if g.cursor.Y >= len(g.viewport) {
		return
	}
	linePart := make([]TerminalCharacter, g.cursor.X+1)
	for i := range linePart {
		linePart[i] = replaceWith
	}
	g.viewport[g.cursor.Y].ReplaceBeginningWith(linePart)
}

func (g *Grid) clearAllAfterCursor(replaceWith TerminalCharacter) {
	if g.cursor.Y >= len(g.viewport) {
		return
	}
	g.viewport[g.cursor.Y].Truncate(g.cursor.X)
	g.replaceCharactersInLineAfterCursor(replaceWith)
	for i := g.cursor.Y + 1; i < len(g.viewport); i++ {
		g.viewport[i].ReplaceColumns(g.styledLine(replaceWith))
	}
}

func (g *Grid) clearAllBeforeCursor(replaceWith TerminalCharacter) {
	if g.cursor.Y >= len(g.viewport) {
		return
	}
	g.replaceCharactersInLineBeforeCursor(replaceWith)
	for i := 0; i < g.cursor.Y; i++ {
		g.viewport[i].ReplaceColumns(g.styledLine(replaceWith))
	}
}

func (g *Grid) clearCursorLine() {
	if g.cursor.Y < len(g.viewport) {
		g.viewport[g.cursor.Y].Truncate(0)
	}
}

func (g *Grid) clearAll(replaceWith TerminalCharacter) {
	g.replaceCharactersInLineAfterCursor(replaceWith)
	for i := range g.viewport {
		g.viewport[i].ReplaceColumns(g.styledLine(replaceWith))
	}
}

func (g *Grid) padCurrentLineUntil(position int) {
	g.padCurrentLineUntilWith(position, EmptyTerminalCharacter())
}

func (g *Grid) padCurrentLineUntilWith(position int, padCharacter TerminalCharacter) {
	if g.cursor.Y >= len(g.viewport) {
		return
	}
	row := &g.viewport[g.cursor.Y]
	for row.Len() < position {
		row.Push(padCharacter)
	}
}

func (g *Grid) padLinesUntil(position int, padCharacter TerminalCharacter) {
	for len(g.viewport) <= position {
		g.viewport = append(g.viewport, RowFromColumns(g.styledLine(padCharacter)).Canonical())
	}
}

// moveCursorTo positions the cursor absolutely (already 0-indexed), clamping
// to the screen, or to the scroll region when origin mode applies.
func (g *Grid) moveCursorTo(x, y int, padCharacter TerminalCharacter) {
	if g.scrollRegion != nil && g.erasureMode {
		top, bottom := g.scrollRegion.top, g.scrollRegion.bottom
		g.cursor.X = min(g.width-1, x)
		g.cursor.Y = min(bottom, y+top)
	} else {
		g.cursor.X = min(g.width-1, x)
		g.cursor.Y = min(g.height-1, y)
	}
	g.padLinesUntil(g.cursor.Y, padCharacter)
	g.padCurrentLineUntil(g.cursor.X)
}

func (g *Grid) moveCursorUp(count int) {
	if g.scrollRegion != nil {
		top, bottom := g.scrollRegion.top, g.scrollRegion.bottom
		if g.cursor.Y >= top && g.cursor.Y <= bottom {
			g.cursor.Y = max(g.cursor.Y-count, top)
			return
		}
	}
	g.cursor.Y = max(g.cursor.Y-count, 0)
}

// moveCursorUpWithScrolling implements reverse index: at the top of the
// scroll region the region scrolls down instead of the cursor moving.
func (g *Grid) moveCursorUpWithScrolling(count int) {
	top, bottom := 0, g.height-1
	if g.scrollRegion != nil {
		top, bottom = g.scrollRegion.top, g.scrollRegion.bottom
	}
	for i := 0; i < count; i++ {
		if g.cursor.Y == top {
			if bottom < len(g.viewport) {
				g.viewport = append(g.viewport[:bottom], g.viewport[bottom+1:]...)
			}
			g.viewport = append(g.viewport[:g.cursor.Y], append([]Row{NewRow()}, g.viewport[g.cursor.Y:]...)...)
		} else if g.cursor.Y > top && g.cursor.Y <= bottom {
			g.moveCursorUp(1)
		} else if g.cursor.Y > 0 {
			g.cursor.Y--
		}
	}
}

func (g *Grid) moveCursorDown(count int, padCharacter TerminalCharacter) {
	if g.scrollRegion != nil {
		top, bottom := g.scrollRegion.top, g.scrollRegion.bottom
		if g.cursor.Y >= top && g.cursor.Y <= bottom {
			g.cursor.Y = min(g.cursor.Y+count, bottom)
			return
		}
	}
	linesToAdd := 0
	if g.cursor.Y+count > g.height-1 {
		linesToAdd = g.cursor.Y + count - (g.height - 1)
	}
	g.cursor.Y = min(g.cursor.Y+count, g.height-1)
	for i := 0; i < linesToAdd; i++ {
		g.addCanonicalLine()
	}
	g.padLinesUntil(g.cursor.Y, padCharacter)
}

func (g *Grid) moveCursorBack(count int) {
	if g.cursor.X == g.width {
		// on the pending-wrap column, stepping back skips one cell
		g.cursor.X--
	}
	g.cursor.X = max(g.cursor.X-count, 0)
}

func (g *Grid) hideCursor() {
	g.cursor.IsHidden = true
}

func (g *Grid) showCursor() {
	g.cursor.IsHidden = false
}

func (g *Grid) setScrollRegion(topLineIndex, bottomLineIndex int) {
	g.scrollRegion = &scrollRegion{top: topLineIndex, bottom: bottomLineIndex}
}

func (g *Grid) clearScrollRegion() {
	g.scrollRegion = nil
}

func (g *Grid) setScrollRegionToViewportSize() {
	g.scrollRegion = &scrollRegion{top: 0, bottom: g.height - 1}
}

// deleteLinesInScrollRegion deletes count lines at the cursor row, keeping
// the region at a fixed size by appending blank canonical lines at its
// bottom.
func (g *Grid) deleteLinesInScrollRegion(count int, padCharacter TerminalCharacter) {
	if g.scrollRegion == nil {
		return
	}
	top, bottom := g.scrollRegion.top, g.scrollRegion.bottom
	if g.cursor.Y < top || g.cursor.Y > bottom {
		return
	}
	for i := 0; i < count; i++ {
		if g.cursor.Y < len(g.viewport) {
			g.viewport = append(g.viewport[:g.cursor.Y], g.viewport[g.cursor.Y+1:]...)
		}
		blank := RowFromColumns(g.styledLine(padCharacter)).Canonical()
		if len(g.viewport) > bottom {
			g.viewport = append(g.viewport[:bottom], append([]Row{blank}, g.viewport[bottom:]...)...)
		} else {
			g.viewport = append(g.viewport, blank)
		}
	}
}

// addEmptyLinesInScrollRegion inserts count blank canonical lines at the
// cursor row, evicting lines from the bottom of the region.
func (g *Grid) addEmptyLinesInScrollRegion(count int, padCharacter TerminalCharacter) {
	if g.scrollRegion == nil {
		return
	}
	top, bottom := g.scrollRegion.top, g.scrollRegion.bottom
	if g.cursor.Y < top || g.cursor.Y > bottom {
		return
	}
	for i := 0; i < count; i++ {
		if bottom < len(g.viewport) {
			g.viewport = append(g.viewport[:bottom], g.viewport[bottom+1:]...)
		}
		blank := RowFromColumns(g.styledLine(padCharacter)).Canonical()
		g.viewport = append(g.viewport[:g.cursor.Y], append([]Row{blank}, g.viewport[g.cursor.Y:]...)...)
	}
}

func (g *Grid) moveCursorToColumn(column int) {
	g.cursor.X = min(column, g.width-1)
	g.padCurrentLineUntil(g.cursor.X)
}

func (g *Grid) moveCursorToLine(line int, padCharacter TerminalCharacter) {
	g.cursor.Y = min(g.height-1, line)
	g.padLinesUntil(g.cursor.Y, padCharacter)
	g.padCurrentLineUntil(g.cursor.X)
}

// replaceWithEmptyChars replaces count cells in place starting at the
// cursor (ECH).
func (g *Grid) replaceWithEmptyChars(count int, styles CharacterStyles) {
	empty := StyledEmptyCharacter(styles)
	padUntil := min(g.width, g.cursor.X+count)
	g.padCurrentLineUntil(padUntil)
	if g.cursor.Y >= len(g.viewport) {
		return
	}
	row := &g.viewport[g.cursor.Y]
	for i := 0; i < count; i++ {
		row.ReplaceCharacterAt(empty, g.cursor.X+i)
	}
}

// eraseCharacters deletes count cells at the cursor and appends blanks at
// the right edge (DCH).
func (g *Grid) eraseCharacters(count int, styles CharacterStyles) {
	if g.cursor.Y >= len(g.viewport) {
		return
	}
	empty := StyledEmptyCharacter(styles)
	row := &g.viewport[g.cursor.Y]
	for i := 0; i < count; i++ {
		row.DeleteCharacter(g.cursor.X)
	}
	fill := make([]TerminalCharacter, count)
	for i := range fill {
		fill[i] = empty
	}
	row.Append(fill)
}

func (g *Grid) addNewline() {
	g.addCanonicalLine()
	g.shouldRender = true
}

// enterAlternateScreen snapshots the primary scrollback, viewport, and
// cursor and replaces them with fresh empties (DEC private mode 1049 set).
func (g *Grid) enterAlternateScreen() {
	g.alternate = &alternateScreen{
		linesAbove: g.linesAbove,
		viewport:   g.viewport,
		cursor:     g.cursor,
		width:      g.width,
		height:     g.height,
	}
	g.linesAbove = nil
	g.viewport = []Row{NewRow().Canonical()}
	g.cursor = NewCursor(0, 0)
	g.clearViewportBeforeRendering = true
}

// exitAlternateScreen restores the saved primary screen, reflowing it if
// the grid was resized while the alternate screen was active.
func (g *Grid) exitAlternateScreen() {
	if g.alternate != nil {
		snapshot := g.alternate
		g.alternate = nil
		g.linesAbove = snapshot.linesAbove
		g.viewport = snapshot.viewport
		g.cursor = snapshot.cursor
		currentRows, currentColumns := g.height, g.width
		g.height, g.width = snapshot.height, snapshot.width
		g.Resize(currentRows, currentColumns)
	}
	g.clearViewportBeforeRendering = true
	g.shouldRender = true
}

// resetTerminalState implements a full reset (ESC c): scrollback, viewport,
// modes, cursor, tabstops, charsets, and scroll region all return to their
// initial state.
func (g *Grid) resetTerminalState() {
	g.linesAbove = nil
	g.linesBelow = nil
	g.viewport = []Row{NewRow().Canonical()}
	g.alternate = nil
	g.cursorKeyMode.Store(false)
	g.scrollRegion = nil
	g.clearViewportBeforeRendering = true
	g.cursor = NewCursor(0, 0)
	g.savedCursorPosition = nil
	g.activeCharset = CharsetIndexG0
	g.erasureMode = false
	g.disableLinewrap = false
	g.horizontalTabstops = createHorizontalTabstops(g.width)
	g.selection = Selection{}
}
