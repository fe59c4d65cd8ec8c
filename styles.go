package mosaic

import (
	"fmt"
	"strings"
)

// ColorKind discriminates the color representations a cell may carry.
type ColorKind uint8

const (
	// ColorDefault is the terminal's default foreground or background.
	ColorDefault ColorKind = iota
	// ColorIndexed is an 8-color or 256-color palette index.
	ColorIndexed
	// ColorRGB is a 24-bit truecolor value.
	ColorRGB
)

// Color is a foreground or background color in one of the representations
// the wire protocol supports: default, palette index, or 24-bit RGB.
type Color struct {
	Kind    ColorKind
	Index   uint8
	R, G, B uint8
}

// IndexedColor returns a palette color.
func IndexedColor(index uint8) Color {
	return Color{Kind: ColorIndexed, Index: index}
}

// RGBColor returns a truecolor value.
func RGBColor(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// StyleFlags is a bitmask of character rendering attributes.
type StyleFlags uint16

const (
	StyleBold StyleFlags = 1 << iota
	StyleDim
	StyleItalic
	StyleUnderline
	StyleBlink
	StyleReverse
	StyleHidden
	StyleStrike
)

// CharacterStyles is the styling state applied to printed characters: the
// foreground and background colors plus the attribute set. The zero value is
// the default style.
type CharacterStyles struct {
	Foreground Color
	Background Color
	Flags      StyleFlags
}

// IsDefault returns true if no color or attribute is set.
func (s CharacterStyles) IsDefault() bool {
	return s == CharacterStyles{}
}

// HasFlag returns true if the attribute is set.
func (s CharacterStyles) HasFlag(flag StyleFlags) bool {
	return s.Flags&flag != 0
}

// sgrParams returns the full SGR parameter list that produces s from the
// default style.
func (s CharacterStyles) sgrParams() []string {
	var params []string
	if s.HasFlag(StyleBold) {
		params = append(params, "1")
	}
	if s.HasFlag(StyleDim) {
		params = append(params, "2")
	}
	if s.HasFlag(StyleItalic) {
		params = append(params, "3")
	}
	if s.HasFlag(StyleUnderline) {
		params = append(params, "4")
	}
	if s.HasFlag(StyleBlink) {
		params = append(params, "5")
	}
	if s.HasFlag(StyleReverse) {
		params = append(params, "7")
	}
	if s.HasFlag(StyleHidden) {
		params = append(params, "8")
	}
	if s.HasFlag(StyleStrike) {
		params = append(params, "9")
	}
	params = append(params, colorParams(s.Foreground, false)...)
	params = append(params, colorParams(s.Background, true)...)
	return params
}

// colorParams returns the SGR parameters selecting c, or nil for the
// default color.
func colorParams(c Color, background bool) []string {
	switch c.Kind {
	case ColorIndexed:
		i := int(c.Index)
		switch {
		case i < 8 && !background:
			return []string{fmt.Sprintf("%d", 30+i)}
		case i < 8 && background:
			return []string{fmt.Sprintf("%d", 40+i)}
		case i < 16 && !background:
			return []string{fmt.Sprintf("%d", 90+i-8)}
		case i < 16 && background:
			return []string{fmt.Sprintf("%d", 100+i-8)}
		case !background:
			return []string{"38", "5", fmt.Sprintf("%d", i)}
		default:
			return []string{"48", "5", fmt.Sprintf("%d", i)}
		}
	case ColorRGB:
		if background {
			return []string{"48", "2", fmt.Sprintf("%d", c.R), fmt.Sprintf("%d", c.G), fmt.Sprintf("%d", c.B)}
		}
		return []string{"38", "2", fmt.Sprintf("%d", c.R), fmt.Sprintf("%d", c.G), fmt.Sprintf("%d", c.B)}
	default:
		return nil
	}
}

// sgr joins params into a CSI m sequence.
func sgr(params []string) string {
	return "\x1b[" + strings.Join(params, ";") + "m"
}

// Diff returns the minimal SGR byte sequence that transforms prev into s.
// Returns the empty string when the styles are equal. If any attribute or
// color present in prev is absent from s, the sequence starts with a full
// reset followed by the complete style of s.
func (s CharacterStyles) Diff(prev CharacterStyles) string {
	if s == prev {
		return ""
	}

	dropped := prev.Flags&^s.Flags != 0
	if s.Foreground.Kind == ColorDefault && prev.Foreground.Kind != ColorDefault {
		dropped = true
	}
	if s.Background.Kind == ColorDefault && prev.Background.Kind != ColorDefault {
		dropped = true
	}

	if dropped {
		if s.IsDefault() {
			return sgr([]string{"0"})
		}
		return sgr([]string{"0"}) + sgr(s.sgrParams())
	}

	added := s
	added.Flags = s.Flags &^ prev.Flags
	var params []string
	params = append(params, CharacterStyles{Flags: added.Flags}.sgrParams()...)
	if s.Foreground != prev.Foreground {
		params = append(params, colorParams(s.Foreground, false)...)
	}
	if s.Background != prev.Background {
		params = append(params, colorParams(s.Background, true)...)
	}
	if len(params) == 0 {
		return ""
	}
	return sgr(params)
}

// AddStyleFromAnsiParams applies one SGR parameter list to s. The groups are
// the parser's parameter groups: colon-separated subparameters arrive as one
// group, semicolon-separated parameters as consecutive groups. An empty list
// resets to the default style.
func (s *CharacterStyles) AddStyleFromAnsiParams(groups [][]uint16) {
	if len(groups) == 0 {
		*s = CharacterStyles{}
		return
	}
	for i := 0; i < len(groups); i++ {
		group := groups[i]
		if len(group) == 0 {
			continue
		}
		switch group[0] {
		case 0:
			*s = CharacterStyles{}
		case 1:
			s.Flags |= StyleBold
		case 2:
			s.Flags |= StyleDim
		case 3:
			s.Flags |= StyleItalic
		case 4:
			s.Flags |= StyleUnderline
		case 5, 6:
			s.Flags |= StyleBlink
		case 7:
			s.Flags |= StyleReverse
		case 8:
			s.Flags |= StyleHidden
		case 9:
			s.Flags |= StyleStrike
		case 21, 22:
			s.Flags &^= StyleBold | StyleDim
		case 23:
			s.Flags &^= StyleItalic
		case 24:
			s.Flags &^= StyleUnderline
		case 25, 26:
			s.Flags &^= StyleBlink
		case 27:
			s.Flags &^= StyleReverse
		case 28:
			s.Flags &^= StyleHidden
		case 29:
			s.Flags &^= StyleStrike
		case 30, 31, 32, 33, 34, 35, 36, 37:
			s.Foreground = IndexedColor(uint8(group[0] - 30))
		case 38:
			if c, consumed, ok := extendedColor(groups, i); ok {
				s.Foreground = c
				i += consumed
			}
		case 39:
			s.Foreground = Color{}
		case 40, 41, 42, 43, 44, 45, 46, 47:
			s.Background = IndexedColor(uint8(group[0] - 40))
		case 48:
			if c, consumed, ok := extendedColor(groups, i); ok {
				s.Background = c
				i += consumed
			}
		case 49:
			s.Background = Color{}
		case 90, 91, 92, 93, 94, 95, 96, 97:
			s.Foreground = IndexedColor(uint8(group[0] - 90 + 8))
		case 100, 101, 102, 103, 104, 105, 106, 107:
			s.Background = IndexedColor(uint8(group[0] - 100 + 8))
		}
	}
}

// extendedColor decodes a 38/48 extended color at groups[i]. It accepts the
// colon form (one group carrying subparameters) and the semicolon form
// (consecutive groups), returning the color and how many extra groups were
// consumed.
func extendedColor(groups [][]uint16, i int) (Color, int, bool) {
	group := groups[i]
	if len(group) > 1 {
		// colon form: 38:5:n or 38:2:r:g:b in a single group
		switch {
		case group[1] == 5 && len(group) >= 3:
			return IndexedColor(uint8(group[2])), 0, true
		case group[1] == 2 && len(group) >= 5:
			return RGBColor(uint8(group[2]), uint8(group[3]), uint8(group[4])), 0, true
		}
		return Color{}, 0, false
	}
	// semicolon form: the mode and channels follow as separate groups
	if i+1 >= len(groups) || len(groups[i+1]) == 0 {
		return Color{}, 0, false
	}
	switch groups[i+1][0] {
	case 5:
		if i+2 < len(groups) && len(groups[i+2]) > 0 {
			return IndexedColor(uint8(groups[i+2][0])), 2, true
		}
	case 2:
		if i+4 < len(groups) && len(groups[i+2]) > 0 && len(groups[i+3]) > 0 && len(groups[i+4]) > 0 {
			return RGBColor(uint8(groups[i+2][0]), uint8(groups[i+3][0]), uint8(groups[i+4][0])), 4, true
		}
	}
	return Color{}, 0, false
}
