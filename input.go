package mosaic

// AdjustInputToTerminal translates keyboard bytes according to the terminal
// modes before they are written to the PTY. When cursor-keys application
// mode (DECCKM) is set, the four arrow-key sequences are rewritten from CSI
// form (ESC [ X) to SS3 form (ESC O X). Everything else passes through
// unchanged.
func AdjustInputToTerminal(input []byte, cursorKeysApplicationMode bool) []byte {
	if !cursorKeysApplicationMode || len(input) != 3 {
		return input
	}
	if input[0] != 0x1b || input[1] != '[' {
		return input
	}
	switch input[2] {
	case 'A', 'B', 'C', 'D':
		return []byte{0x1b, 'O', input[2]}
	}
	return input
}

// AdjustInput applies AdjustInputToTerminal using the grid's current modes.
func (g *Grid) AdjustInput(input []byte) []byte {
	return AdjustInputToTerminal(input, g.cursorKeyMode.Load())
}
