package mosaic

import (
	"bytes"
	"fmt"
)

// Render serializes the viewport to an ANSI byte stream bounded by the pane
// rectangle whose top-left corner is at (originX, originY). Each row starts
// with a cursor-position sequence and a style reset; styles are then only
// emitted when they change between cells. After the final row the terminal
// cursor is placed at the grid cursor, or hidden when the grid cursor is
// hidden. Render does not mutate the grid.
func (g *Grid) Render(originX, originY int) []byte {
	var out bytes.Buffer
	lines := g.AsCharacterLines()
	var styles CharacterStyles
	for row, line := range lines {
		fmt.Fprintf(&out, "\x1b[%d;%dH\x1b[m", originY+row+1, originX+1)
		styles = CharacterStyles{}
		for col, character := range line {
			if col >= g.width {
				// while resizing, characters can spill over before the
				// shell or a reflow corrects them
				break
			}
			if character.Spacer {
				continue
			}
			if diff := character.Styles.Diff(styles); diff != "" {
				out.WriteString(diff)
				styles = character.Styles
			}
			out.WriteRune(character.Character)
			for _, combining := range character.Combining {
				out.WriteRune(combining)
			}
		}
	}
	x, y, visible := g.CursorCoordinates()
	if visible {
		fmt.Fprintf(&out, "\x1b[%d;%dH\x1b[?25h", originY+y+1, originX+min(x, g.width-1)+1)
	} else {
		out.WriteString("\x1b[?25l")
	}
	return out.Bytes()
}
