// Package mosaic implements the virtual terminal grid engine at the core of
// a terminal multiplexer.
//
// A Grid consumes the raw byte stream emitted by a child pseudoterminal and
// maintains the visible screen, the cursor, the styling state, the scrollback
// buffer, and the alternate screen. Bytes are decoded by a VT (VT100/xterm)
// parser and dispatched into the grid, which is the single owner of all
// screen state for one pane.
//
// Basic usage:
//
//	grid := mosaic.NewGrid(24, 80)
//	grid.Feed(ptyBytes)
//	out := grid.Render(0, 0) // ANSI bytes bounded by the pane rectangle
//
// TerminalPane wraps a Grid with pane geometry, Screen runs the worker loop
// that owns every pane, and Pty spawns the child process whose output feeds
// the grid.
package mosaic
