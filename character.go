package mosaic

import "github.com/unilibs/uniwidth"

// TerminalCharacter is one printable cell: a Unicode scalar, its styles, and
// its display width. Wide characters (width 2) are followed by a dedicated
// spacer cell occupying the second column; the spacer must never be split
// from its head.
type TerminalCharacter struct {
	Character rune
	Styles    CharacterStyles
	Width     int
	// Combining holds zero-width marks attached to this cell.
	Combining []rune
	// Spacer marks the second column of a wide character.
	Spacer bool
}

// EmptyTerminalCharacter returns a blank cell with default styles.
func EmptyTerminalCharacter() TerminalCharacter {
	return TerminalCharacter{Character: ' ', Width: 1}
}

// StyledEmptyCharacter returns a blank cell carrying the given styles.
// Erasure operations use it so that erased regions keep the pending style.
func StyledEmptyCharacter(styles CharacterStyles) TerminalCharacter {
	c := EmptyTerminalCharacter()
	c.Styles = styles
	return c
}

// SpacerCharacter returns the continuation cell placed after a wide
// character.
func SpacerCharacter(styles CharacterStyles) TerminalCharacter {
	return TerminalCharacter{Styles: styles, Spacer: true}
}

// IsWide returns true if the cell heads a two-column character.
func (c TerminalCharacter) IsWide() bool {
	return c.Width == 2
}

// runeWidth returns the display width of r: 2 for wide characters (CJK,
// emoji), 1 for normal, 0 for zero-width (combining marks).
func runeWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// CharsetIndex selects one of the four character set slots (G0-G3).
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)

// StandardCharset is the character encoding designated into a slot.
type StandardCharset int

const (
	CharsetASCII StandardCharset = iota
	CharsetSpecialCharacterAndLineDrawing
)

// Map translates r through the charset. ASCII is the identity; the DEC
// special graphics set maps the line drawing range.
func (s StandardCharset) Map(r rune) rune {
	if s != CharsetSpecialCharacterAndLineDrawing {
		return r
	}
	switch r {
	case '_':
		return ' '
	case '`':
		return '◆'
	case 'a':
		return '▒'
	case 'b':
		return '␉'
	case 'c':
		return '␌'
	case 'd':
		return '␍'
	case 'e':
		return '␊'
	case 'f':
		return '°'
	case 'g':
		return '±'
	case 'h':
		return '␤'
	case 'i':
		return '␋'
	case 'j':
		return '┘'
	case 'k':
		return '┐'
	case 'l':
		return '┌'
	case 'm':
		return '└'
	case 'n':
		return '┼'
	case 'o':
		return '⎺'
	case 'p':
		return '⎻'
	case 'q':
		return '─'
	case 'r':
		return '⎼'
	case 's':
		return '⎽'
	case 't':
		return '├'
	case 'u':
		return '┤'
	case 'v':
		return '┴'
	case 'w':
		return '┬'
	case 'x':
		return '│'
	case 'y':
		return '≤'
	case 'z':
		return '≥'
	case '{':
		return 'π'
	case '|':
		return '≠'
	case '}':
		return '£'
	case '~':
		return '·'
	default:
		return r
	}
}
