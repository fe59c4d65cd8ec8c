package mosaic

import (
	"fmt"
	"strings"
)

// Snapshot returns the visible screen as plain text, one line per viewport
// row with trailing blanks and trailing empty lines trimmed. Useful for
// tests and debugging.
func (g *Grid) Snapshot() string {
	lines := g.AsCharacterLines()
	rendered := make([]string, 0, len(lines))
	lastNonEmpty := -1
	for i, line := range lines {
		var b strings.Builder
		for _, character := range line {
			if character.Spacer {
				continue
			}
			r := character.Character
			if r == 0 {
				r = ' '
			}
			b.WriteRune(r)
			for _, combining := range character.Combining {
				b.WriteRune(combining)
			}
		}
		trimmed := strings.TrimRight(b.String(), " ")
		rendered = append(rendered, trimmed)
		if trimmed != "" {
			lastNonEmpty = i
		}
	}
	return strings.Join(rendered[:lastNonEmpty+1], "\n")
}

// DebugString dumps the viewport rows with their canonicality markers:
// (C) for canonical rows, (W) for wrap continuations.
func (g *Grid) DebugString() string {
	var b strings.Builder
	for i, row := range g.viewport {
		marker := "W"
		if row.IsCanonical {
			marker = "C"
		}
		var cells strings.Builder
		for _, character := range row.Columns {
			if character.Spacer {
				continue
			}
			cells.WriteRune(character.Character)
		}
		fmt.Fprintf(&b, "%02d (%s): %s\n", i, marker, cells.String())
	}
	return b.String()
}
