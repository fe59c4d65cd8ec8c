package mosaic

import "github.com/cliofy/govte"

// Grid implements govte.Performer; the parser dispatches decoded VT
// sequences directly into the grid's mutators.
var _ govte.Performer = (*Grid)(nil)

// nthParam returns the first value of parameter group n, or def when the
// group is absent or empty.
func nthParam(groups [][]uint16, n, def int) int {
	if n >= len(groups) || len(groups[n]) == 0 {
		return def
	}
	return int(groups[n][0])
}

// countParam returns the first parameter as a count: absent and zero both
// mean one.
func countParam(groups [][]uint16) int {
	count := nthParam(groups, 0, 0)
	if count == 0 {
		return 1
	}
	return count
}

// Print places a printable character at the cursor, mapped through the
// active charset and carrying the pending styles.
func (g *Grid) Print(r rune) {
	r = g.cursor.Charsets[g.activeCharset].Map(r)
	width := runeWidth(r)
	if width == 0 {
		g.attachCombiningCharacter(r)
		return
	}
	g.addCharacter(TerminalCharacter{
		Character: r,
		Styles:    g.cursor.PendingStyles,
		Width:     width,
	})
	g.shouldRender = true
}

// Execute handles C0 control bytes.
func (g *Grid) Execute(b byte) {
	switch b {
	case 8: // backspace
		g.moveCursorBack(1)
	case 9: // horizontal tab
		g.advanceToNextTabstop(g.cursor.PendingStyles)
	case 10, 11: // line feed, vertical tab
		g.addNewline()
	case 13: // carriage return
		g.moveCursorToBeginningOfLine()
	case 14: // shift out
		g.setActiveCharset(CharsetIndexG1)
	case 15: // shift in
		g.setActiveCharset(CharsetIndexG0)
	}
}

// Hook begins a DCS sequence. DCS payloads are recognized but not executed.
func (g *Grid) Hook(params *govte.Params, intermediates []byte, ignore bool, action rune) {
}

// Put receives one DCS payload byte. Ignored.
func (g *Grid) Put(b byte) {
}

// Unhook ends a DCS sequence. Ignored.
func (g *Grid) Unhook() {
}

// OscDispatch recognizes OSC sequences. Only the window title (OSC 0/1/2)
// is retained; everything else is dropped.
func (g *Grid) OscDispatch(params [][]byte, bellTerminated bool) {
	if len(params) == 0 || len(params[0]) == 0 {
		return
	}
	switch string(params[0]) {
	case "0", "1", "2":
		if len(params) > 1 {
			g.title = string(params[1])
		}
	}
}

// CsiDispatch executes a CSI sequence against the grid. Unknown finals and
// unknown private modes are logged and ignored; malformed parameters
// collapse to defaults.
func (g *Grid) CsiDispatch(params *govte.Params, intermediates []byte, ignore bool, action rune) {
	if ignore {
		return
	}
	var groups [][]uint16
	if params != nil {
		groups = params.Iter()
	}
	questionMark := len(intermediates) > 0 && intermediates[0] == '?'

	switch action {
	case 'm':
		g.cursor.PendingStyles.AddStyleFromAnsiParams(groups)
	case 'A':
		g.moveCursorUp(countParam(groups))
	case 'B':
		g.moveCursorDown(countParam(groups), EmptyTerminalCharacter())
	case 'C':
		g.moveCursorForwardUntilEdge(countParam(groups))
	case 'D':
		g.moveCursorBack(countParam(groups))
	case 'H', 'f':
		// 1-indexed; 0 is treated as 1
		row := nthParam(groups, 0, 1)
		col := nthParam(groups, 1, 1)
		if row > 0 {
			row--
		}
		if col > 0 {
			col--
		}
		g.moveCursorTo(col, row, EmptyTerminalCharacter())
	case 'G':
		column := nthParam(groups, 0, 1)
		if column > 0 {
			column--
		}
		g.moveCursorToColumn(column)
	case 'd':
		line := nthParam(groups, 0, 1)
		if line > 0 {
			line--
		}
		g.moveCursorToLine(line, EmptyTerminalCharacter())
	case 'K':
		// 0 => right of cursor, 1 => left, 2 => all; 0 is not remapped
		replaceWith := StyledEmptyCharacter(g.cursor.PendingStyles)
		switch nthParam(groups, 0, 0) {
		case 0:
			g.replaceCharactersInLineAfterCursor(replaceWith)
		case 1:
			g.replaceCharactersInLineBeforeCursor(replaceWith)
		case 2:
			g.clearCursorLine()
		}
	case 'J':
		// 0 => below, 1 => above, 2 => all; 0 is not remapped
		replaceWith := StyledEmptyCharacter(g.cursor.PendingStyles)
		switch nthParam(groups, 0, 0) {
		case 0:
			g.clearAllAfterCursor(replaceWith)
		case 1:
			g.clearAllBeforeCursor(replaceWith)
		case 2:
			g.clearAll(replaceWith)
		}
	case 'h':
		if !questionMark {
			return
		}
		switch nthParam(groups, 0, 0) {
		case 1:
			g.cursorKeyMode.Store(true)
		case 3:
			// DECCOLM - only the side effects
			g.scrollRegion = nil
			g.clearAll(EmptyTerminalCharacter())
			g.cursor.X = 0
			g.cursor.Y = 0
		case 6:
			g.erasureMode = true
		case 7:
			g.disableLinewrap = false
		case 25:
			g.showCursor()
			g.shouldRender = true
		case 1049:
			g.enterAlternateScreen()
		default:
			g.logger.Printf("unhandled DEC private mode set: %d", nthParam(groups, 0, 0))
		}
	case 'l':
		if !questionMark {
			return
		}
		switch nthParam(groups, 0, 0) {
		case 1:
			g.cursorKeyMode.Store(false)
		case 3:
			g.scrollRegion = nil
			g.clearAll(EmptyTerminalCharacter())
			g.cursor.X = 0
			g.cursor.Y = 0
		case 6:
			g.erasureMode = false
		case 7:
			g.disableLinewrap = true
		case 25:
			g.hideCursor()
			g.shouldRender = true
		case 1049:
			g.exitAlternateScreen()
		default:
			g.logger.Printf("unhandled DEC private mode reset: %d", nthParam(groups, 0, 0))
		}
	case 'r':
		if len(groups) > 1 {
			// 1-indexed inclusive
			top := nthParam(groups, 0, 1)
			bottom := nthParam(groups, 1, g.height)
			if top > 0 {
				top--
			}
			if bottom > 0 {
				bottom--
			}
			g.setScrollRegion(top, bottom)
			if g.erasureMode {
				g.moveCursorToLine(top, EmptyTerminalCharacter())
				g.moveCursorToBeginningOfLine()
			}
			g.showCursor()
		} else {
			g.clearScrollRegion()
		}
	case 'M':
		g.deleteLinesInScrollRegion(countParam(groups), EmptyTerminalCharacter())
	case 'L':
		g.addEmptyLinesInScrollRegion(countParam(groups), EmptyTerminalCharacter())
	case 'P':
		g.eraseCharacters(countParam(groups), g.cursor.PendingStyles)
	case 'X':
		g.replaceWithEmptyChars(countParam(groups), g.cursor.PendingStyles)
	case '@':
		count := countParam(groups)
		for i := 0; i < count; i++ {
			g.insertCharacterAtCursorPosition(EmptyTerminalCharacter())
		}
	case 'S':
		g.rotateScrollRegionDown(countParam(groups))
	case 'T':
		// the parameter is read as a signed 16-bit value; a negative count
		// inverts the direction
		lineCount := int(int16(uint16(nthParam(groups, 0, 0))))
		switch {
		case lineCount == 0:
			g.rotateScrollRegionUp(1)
		case lineCount > 0:
			g.rotateScrollRegionUp(lineCount)
		default:
			g.rotateScrollRegionDown(-lineCount)
		}
	case 's':
		g.saveCursorPosition()
	case 'u':
		g.restoreCursorPosition()
	case 'g':
		switch nthParam(groups, 0, 0) {
		case 0:
			g.clearTabstop(g.cursor.X)
		case 3:
			g.clearAllTabstops()
		}
	case 'q':
		// DECLL - ignored
	default:
		g.logger.Printf("unhandled csi: %c %v", action, groups)
	}
	g.shouldRender = true
}

// EscDispatch executes an ESC sequence against the grid.
func (g *Grid) EscDispatch(intermediates []byte, ignore bool, b byte) {
	if ignore {
		return
	}
	var intermediate byte
	if len(intermediates) > 0 {
		intermediate = intermediates[0]
	}

	charsetIndex := func() (CharsetIndex, bool) {
		switch intermediate {
		case '(':
			return CharsetIndexG0, true
		case ')':
			return CharsetIndexG1, true
		case '*':
			return CharsetIndexG2, true
		case '+':
			return CharsetIndexG3, true
		}
		return 0, false
	}

	switch {
	case b == 'B':
		if index, ok := charsetIndex(); ok {
			g.configureCharset(CharsetASCII, index)
		}
	case b == '0':
		if index, ok := charsetIndex(); ok {
			g.configureCharset(CharsetSpecialCharacterAndLineDrawing, index)
		}
	case b == 'D' && intermediate == 0:
		g.addNewline()
	case b == 'E' && intermediate == 0:
		g.addNewline()
		g.moveCursorToBeginningOfLine()
	case b == 'M' && intermediate == 0:
		g.moveCursorUpWithScrolling(1)
	case b == 'c' && intermediate == 0:
		g.resetTerminalState()
	case b == 'H' && intermediate == 0:
		g.setHorizontalTabstop()
	case b == '7' && intermediate == 0:
		g.saveCursorPosition()
	case b == '8' && intermediate == 0:
		g.restoreCursorPosition()
	case b == '8' && intermediate == '#':
		fill := EmptyTerminalCharacter()
		fill.Character = 'E'
		g.fillViewport(fill)
	}
	g.shouldRender = true
}
