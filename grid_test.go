package mosaic

import (
	"bytes"
	"fmt"
	"testing"
)

func feedString(g *Grid, s string) {
	g.Feed([]byte(s))
}

func TestWrapOnRightEdge(t *testing.T) {
	g := NewGrid(2, 5)
	feedString(g, "ABCDEFG")

	if got := g.Snapshot(); got != "ABCDE\nFG" {
		t.Errorf("expected wrapped viewport, got %q", got)
	}
	if !g.viewport[0].IsCanonical {
		t.Error("expected first row to be canonical")
	}
	if g.viewport[1].IsCanonical {
		t.Error("expected second row to be a continuation")
	}
	x, y, _ := g.CursorCoordinates()
	if x != 2 || y != 1 {
		t.Errorf("expected cursor at (2, 1), got (%d, %d)", x, y)
	}
}

func TestPendingWrapColumn(t *testing.T) {
	g := NewGrid(2, 5)
	feedString(g, "ABCDE")

	x, y, _ := g.CursorCoordinates()
	if x != 5 || y != 0 {
		t.Errorf("expected pending-wrap cursor at (5, 0), got (%d, %d)", x, y)
	}

	feedString(g, "F")
	x, y, _ = g.CursorCoordinates()
	if x != 1 || y != 1 {
		t.Errorf("expected cursor at (1, 1) after wrap, got (%d, %d)", x, y)
	}
}

func TestBackspaceFromPendingWrapSkipsOneCell(t *testing.T) {
	g := NewGrid(2, 5)
	feedString(g, "ABCDE\b")

	x, _, _ := g.CursorCoordinates()
	if x != 3 {
		t.Errorf("expected cursor at column 3, got %d", x)
	}
}

func TestAutowrapDisabled(t *testing.T) {
	g := NewGrid(2, 5)
	feedString(g, "\x1b[?7lABCDEFG")

	if got := g.Snapshot(); got != "ABCDE" {
		t.Errorf("expected overflow dropped with wrap disabled, got %q", got)
	}
	feedString(g, "\x1b[?7hXY")
	if got := g.Snapshot(); got != "ABCDE\nXY" {
		t.Errorf("expected wrapping restored, got %q", got)
	}
}

func TestLineFeedIntoScrollback(t *testing.T) {
	g := NewGrid(2, 5)
	feedString(g, "A\r\nB\r\nC")

	if got := g.Snapshot(); got != "B\nC" {
		t.Errorf("expected viewport 'B'/'C', got %q", got)
	}
	if g.ScrollbackLen() != 1 {
		t.Errorf("expected 1 scrollback row, got %d", g.ScrollbackLen())
	}
}

func TestTabAdvancesToNextTabstop(t *testing.T) {
	g := NewGrid(2, 20)
	feedString(g, "\tX")

	x, _, _ := g.CursorCoordinates()
	if x != 9 {
		t.Errorf("expected cursor at column 9, got %d", x)
	}
	if g.viewport[0].Columns[8].Character != 'X' {
		t.Errorf("expected 'X' at column 8, got %q", g.viewport[0].Columns[8].Character)
	}
}

func TestTabstopSetAndClear(t *testing.T) {
	g := NewGrid(2, 20)
	feedString(g, "\x1b[3G\x1bH\r\tA")
	x, _, _ := g.CursorCoordinates()
	if x != 3 {
		t.Errorf("expected tab to stop at custom tabstop 2 plus one printed cell, got column %d", x)
	}

	feedString(g, "\x1b[3G\x1b[g\r\tB")
	x, _, _ = g.CursorCoordinates()
	if x != 9 {
		t.Errorf("expected tab to skip cleared tabstop, got column %d", x)
	}

	feedString(g, "\x1b[3g\r\tC")
	x, _, _ = g.CursorCoordinates()
	if x != 20 {
		t.Errorf("expected tab to fall to the last column with all tabstops cleared, got %d", x)
	}
}

func TestScrollRegionLineFeed(t *testing.T) {
	g := NewGrid(10, 10)
	for i := 0; i < 10; i++ {
		if i > 0 {
			feedString(g, "\r\n")
		}
		feedString(g, fmt.Sprintf("r%d", i))
	}
	feedString(g, "\x1b[3;7r\x1b[7;1H\n")

	want := "r0\nr1\nr3\nr4\nr5\nr6\n\nr7\nr8\nr9"
	if got := g.Snapshot(); got != want {
		t.Errorf("expected scroll region shift:\n%s\ngot:\n%s", want, got)
	}
	x, y, _ := g.CursorCoordinates()
	if x != 0 || y != 6 {
		t.Errorf("expected cursor to stay at (0, 6), got (%d, %d)", x, y)
	}
}

func TestDeleteLinesInScrollRegion(t *testing.T) {
	g := NewGrid(10, 10)
	for i := 0; i < 10; i++ {
		if i > 0 {
			feedString(g, "\r\n")
		}
		feedString(g, fmt.Sprintf("r%d", i))
	}
	feedString(g, "\x1b[3;7r\x1b[4;1H\x1b[2M")

	want := "r0\nr1\nr2\nr5\nr6\n\n\nr7\nr8\nr9"
	if got := g.Snapshot(); got != want {
		t.Errorf("expected deleted lines:\n%s\ngot:\n%s", want, got)
	}
}

func TestInsertLinesInScrollRegion(t *testing.T) {
	g := NewGrid(10, 10)
	for i := 0; i < 10; i++ {
		if i > 0 {
			feedString(g, "\r\n")
		}
		feedString(g, fmt.Sprintf("r%d", i))
	}
	feedString(g, "\x1b[3;7r\x1b[4;1H\x1b[2L")

	want := "r0\nr1\nr2\n\n\nr3\nr4\nr7\nr8\nr9"
	if got := g.Snapshot(); got != want {
		t.Errorf("expected inserted lines:\n%s\ngot:\n%s", want, got)
	}
}

func TestReverseIndexAtRegionTop(t *testing.T) {
	g := NewGrid(5, 5)
	feedString(g, "A\r\nB\r\nC\r\nD\r\nE")
	feedString(g, "\x1b[2;4r\x1b[2;1H\x1bM")

	want := "A\n\nB\nC\nE"
	if got := g.Snapshot(); got != want {
		t.Errorf("expected region scrolled down:\n%s\ngot:\n%s", want, got)
	}
}

func TestEraseInLine(t *testing.T) {
	g := NewGrid(2, 10)
	feedString(g, "ABCDEFGH\x1b[1;3H\x1b[K")
	if got := g.Snapshot(); got != "AB" {
		t.Errorf("expected 'AB' after EL 0, got %q", got)
	}

	g = NewGrid(2, 10)
	feedString(g, "ABCDEFGH\x1b[1;3H\x1b[1K")
	if got := g.Snapshot(); got != "   DEFGH" {
		t.Errorf("expected leading blanks after EL 1, got %q", got)
	}

	g = NewGrid(2, 10)
	feedString(g, "ABCDEFGH\x1b[2K")
	if got := g.Snapshot(); got != "" {
		t.Errorf("expected empty line after EL 2, got %q", got)
	}
}

func TestEraseInDisplay(t *testing.T) {
	g := NewGrid(3, 5)
	feedString(g, "AAA\r\nBBB\r\nCCC\x1b[2;2H\x1b[J")
	if got := g.Snapshot(); got != "AAA\nB" {
		t.Errorf("expected ED 0 to clear below, got %q", got)
	}

	g = NewGrid(3, 5)
	feedString(g, "AAA\r\nBBB\r\nCCC\x1b[2;2H\x1b[1J")
	if got := g.Snapshot(); got != "\n  B\nCCC" {
		t.Errorf("expected ED 1 to clear above, got %q", got)
	}

	g = NewGrid(3, 5)
	feedString(g, "AAA\r\nBBB\r\nCCC\x1b[2J")
	if got := g.Snapshot(); got != "" {
		t.Errorf("expected ED 2 to clear everything, got %q", got)
	}
}

func TestEraseCharacters(t *testing.T) {
	g := NewGrid(1, 5)
	feedString(g, "ABCDE\r\x1b[2X")
	if got := g.Snapshot(); got != "  CDE" {
		t.Errorf("expected ECH to blank in place, got %q", got)
	}
}

func TestDeleteCharacters(t *testing.T) {
	g := NewGrid(1, 5)
	feedString(g, "ABCDE\r\x1b[2P")
	if got := g.Snapshot(); got != "CDE" {
		t.Errorf("expected DCH to shift left, got %q", got)
	}
}

func TestInsertBlankCharacters(t *testing.T) {
	g := NewGrid(1, 5)
	feedString(g, "ABCDE\r\x1b[2@")
	if got := g.Snapshot(); got != "  ABC" {
		t.Errorf("expected ICH to shift right and truncate, got %q", got)
	}
}

func TestCursorMotionClamping(t *testing.T) {
	g := NewGrid(5, 10)
	feedString(g, "\x1b[99;99H")
	x, y, _ := g.CursorCoordinates()
	if x != 9 || y != 4 {
		t.Errorf("expected cursor clamped to (9, 4), got (%d, %d)", x, y)
	}

	feedString(g, "\x1b[99A")
	_, y, _ = g.CursorCoordinates()
	if y != 0 {
		t.Errorf("expected cursor clamped to top, got row %d", y)
	}

	feedString(g, "\x1b[7G\x1b[3d")
	x, y, _ = g.CursorCoordinates()
	if x != 6 || y != 2 {
		t.Errorf("expected CHA/VPA to land at (6, 2), got (%d, %d)", x, y)
	}
}

func TestSaveRestoreCursor(t *testing.T) {
	g := NewGrid(2, 10)
	feedString(g, "AB\x1b7CD\x1b8X")
	if got := g.Snapshot(); got != "ABXD" {
		t.Errorf("expected restore to rewind the cursor, got %q", got)
	}

	g = NewGrid(2, 10)
	feedString(g, "AB\x1b[sCD\x1b[uX")
	if got := g.Snapshot(); got != "ABXD" {
		t.Errorf("expected CSI s/u save-restore, got %q", got)
	}
}

func TestDecaln(t *testing.T) {
	g := NewGrid(2, 3)
	feedString(g, "\x1b#8")
	if got := g.Snapshot(); got != "EEE\nEEE" {
		t.Errorf("expected E fill, got %q", got)
	}
}

func TestLineDrawingCharset(t *testing.T) {
	g := NewGrid(1, 10)
	feedString(g, "\x1b(0qq\x1b(Bq")
	if got := g.Snapshot(); got != "──q" {
		t.Errorf("expected line drawing mapping, got %q", got)
	}
}

func TestShiftOutShiftIn(t *testing.T) {
	g := NewGrid(1, 10)
	feedString(g, "\x1b)0\x0eq\x0fq")
	if got := g.Snapshot(); got != "─q" {
		t.Errorf("expected G1 line drawing then G0 ASCII, got %q", got)
	}
}

func TestFullReset(t *testing.T) {
	g := NewGrid(3, 10)
	feedString(g, "one\r\ntwo\r\nthree\r\nfour\x1b[31m\x1b[2;4r\x1b[?1h")
	feedString(g, "\x1bc")

	if got := g.Snapshot(); got != "" {
		t.Errorf("expected empty screen after RIS, got %q", got)
	}
	if g.ScrollbackLen() != 0 {
		t.Errorf("expected scrollback cleared, got %d rows", g.ScrollbackLen())
	}
	if g.CursorKeysApplicationMode() {
		t.Error("expected DECCKM reset")
	}
	if g.scrollRegion != nil {
		t.Error("expected scroll region cleared")
	}
	x, y, visible := g.CursorCoordinates()
	if x != 0 || y != 0 || !visible {
		t.Errorf("expected visible cursor at origin, got (%d, %d, %v)", x, y, visible)
	}
}

func TestAlternateScreenIsolation(t *testing.T) {
	g := NewGrid(24, 80)
	feedString(g, "FOO\x1b[?1049hBAR\x1b[?1049l")

	control := NewGrid(24, 80)
	feedString(control, "FOO")

	if !bytes.Equal(g.Render(0, 0), control.Render(0, 0)) {
		t.Error("expected primary screen untouched after alternate round trip")
	}
	x, y, _ := g.CursorCoordinates()
	if x != 3 || y != 0 {
		t.Errorf("expected cursor restored to (3, 0), got (%d, %d)", x, y)
	}
}

func TestAlternateScreenContent(t *testing.T) {
	g := NewGrid(2, 10)
	feedString(g, "FOO\x1b[?1049hBAR")
	if got := g.Snapshot(); got != "BAR" {
		t.Errorf("expected alternate screen to start empty, got %q", got)
	}
	feedString(g, "\x1b[?1049l")
	if got := g.Snapshot(); got != "FOO" {
		t.Errorf("expected primary screen restored, got %q", got)
	}
}

func TestResizeWhileOnAlternateScreenReflowsPrimary(t *testing.T) {
	g := NewGrid(2, 10)
	feedString(g, "HELLOWORLD")
	feedString(g, "\x1b[?1049h")
	g.Resize(2, 6)
	feedString(g, "\x1b[?1049l")

	if got := g.Snapshot(); got != "HELLOW\nORLD" {
		t.Errorf("expected primary reflowed to new width, got %q", got)
	}
}

func TestReflowNarrowerAndBack(t *testing.T) {
	g := NewGrid(3, 10)
	feedString(g, "HELLO WORLD")

	g.Resize(3, 6)
	if got := g.Snapshot(); got != "HELLO\nWORLD" {
		t.Errorf("expected two wrapped rows, got %q", got)
	}
	if !g.viewport[0].IsCanonical || g.viewport[1].IsCanonical {
		t.Error("expected canonical head plus one continuation")
	}

	g.Resize(3, 3)
	if got := g.Snapshot(); got != "LO\nWOR\nLD" {
		t.Errorf("expected three visible rows with the head in scrollback, got %q", got)
	}
	if g.ScrollbackLen() != 1 {
		t.Errorf("expected 1 scrollback row, got %d", g.ScrollbackLen())
	}
}

func TestReflowKeepsCursorOnSameCharacter(t *testing.T) {
	g := NewGrid(3, 10)
	feedString(g, "HELLO WORLD")

	g.Resize(3, 6)
	x, y, _ := g.CursorCoordinates()
	if x != 5 || y != 1 {
		t.Errorf("expected cursor at (5, 1) after narrowing, got (%d, %d)", x, y)
	}
}

func TestResizeRoundTrip(t *testing.T) {
	g := NewGrid(4, 10)
	feedString(g, "THE QUICK BROWN FOX JUMPS")

	control := NewGrid(4, 10)
	feedString(control, "THE QUICK BROWN FOX JUMPS")

	g.Resize(4, 7)
	g.Resize(4, 10)

	if !bytes.Equal(g.Render(0, 0), control.Render(0, 0)) {
		t.Errorf("expected round-tripped render to match:\n%q\nvs\n%q",
			g.Render(0, 0), control.Render(0, 0))
	}
}

func TestReflowDeterminism(t *testing.T) {
	render := func() []byte {
		g := NewGrid(4, 10)
		feedString(g, "THE QUICK BROWN FOX JUMPS")
		g.Resize(5, 8)
		return g.Render(0, 0)
	}
	if !bytes.Equal(render(), render()) {
		t.Error("expected reflow to be a pure function of history and size")
	}
}

func TestScrollbackBound(t *testing.T) {
	g := NewGrid(2, 5, WithScrollbackLimit(5))
	for i := 0; i < 30; i++ {
		feedString(g, "x\r\n")
	}
	if g.ScrollbackLen() > 5 {
		t.Errorf("expected scrollback bounded at 5, got %d", g.ScrollbackLen())
	}
}

func TestScrollUpScrollDownResetViewport(t *testing.T) {
	g := NewGrid(2, 5)
	feedString(g, "A\r\nB\r\nC")

	g.ScrollUp(1)
	if got := g.Snapshot(); got != "A\nB" {
		t.Errorf("expected scrolled-back viewport, got %q", got)
	}

	g.ScrollDown(1)
	if got := g.Snapshot(); got != "B\nC" {
		t.Errorf("expected live viewport after scroll down, got %q", got)
	}

	g.ScrollUp(1)
	g.ResetViewport()
	if got := g.Snapshot(); got != "B\nC" {
		t.Errorf("expected live viewport after reset, got %q", got)
	}
}

func TestScrollUpRejoinsContinuationIntoScrollback(t *testing.T) {
	g := NewGrid(2, 5)
	// first logical line wraps; a second line pushes its head into scrollback
	feedString(g, "ABCDEFG\r\nNEXT\r\nLAST")

	for _, row := range g.linesAbove {
		if !row.IsCanonical {
			t.Fatal("expected every scrollback row to be canonical")
		}
	}
}

func TestWideCharacters(t *testing.T) {
	g := NewGrid(2, 4)
	feedString(g, "漢字")

	if got := g.Snapshot(); got != "漢字" {
		t.Errorf("expected wide characters, got %q", got)
	}
	if !g.viewport[0].Columns[0].IsWide() || !g.viewport[0].Columns[1].Spacer {
		t.Error("expected wide head plus spacer cell")
	}
	x, _, _ := g.CursorCoordinates()
	if x != 4 {
		t.Errorf("expected cursor at pending-wrap column 4, got %d", x)
	}
}

func TestWideCharacterWrapsEarlyAtEdge(t *testing.T) {
	g := NewGrid(2, 5)
	feedString(g, "AB漢字")

	if got := g.Snapshot(); got != "AB漢\n字" {
		t.Errorf("expected wide character to wrap whole, got %q", got)
	}
	if g.viewport[1].Columns[0].Spacer {
		t.Error("a spacer must never start a row")
	}
}

func TestOSCTitle(t *testing.T) {
	g := NewGrid(2, 10)
	feedString(g, "\x1b]2;hello\x07")
	if g.Title() != "hello" {
		t.Errorf("expected title 'hello', got %q", g.Title())
	}
}

func TestCursorKeysMode(t *testing.T) {
	g := NewGrid(2, 10)
	if g.CursorKeysApplicationMode() {
		t.Error("expected DECCKM off by default")
	}
	feedString(g, "\x1b[?1h")
	if !g.CursorKeysApplicationMode() {
		t.Error("expected DECCKM on after set")
	}
	feedString(g, "\x1b[?1l")
	if g.CursorKeysApplicationMode() {
		t.Error("expected DECCKM off after reset")
	}
}

func TestUnknownSequencesAreLoggedAndIgnored(t *testing.T) {
	logger := &recordingLogger{}
	g := NewGrid(2, 10, WithLogger(logger))
	feedString(g, "A\x1b[9999z\x1b[?4242hB")

	if got := g.Snapshot(); got != "AB" {
		t.Errorf("expected printables to survive unknown sequences, got %q", got)
	}
	if len(logger.messages) == 0 {
		t.Error("expected unknown sequences to be logged")
	}
}

func TestCellCountInvariant(t *testing.T) {
	g := NewGrid(5, 12)
	feedString(g, "THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG\r\n")
	feedString(g, "\x1b[2;4r\x1b[3;1H\x1b[2L\x1b[5@\x1b[3P\x1b[2M")
	g.Resize(4, 7)
	feedString(g, "MORE TEXT AFTER RESIZE")
	g.Resize(6, 12)

	for i, row := range g.viewport {
		if row.Len() > g.width {
			t.Errorf("row %d has %d cells, wider than %d", i, row.Len(), g.width)
		}
	}
	for i := 1; i < len(g.viewport); i++ {
		if !g.viewport[i].IsCanonical && len(g.viewport[i].Columns) > 0 && g.viewport[i].Columns[0].Spacer {
			t.Errorf("row %d starts with a spacer cell", i)
		}
	}
}

func TestDecColmSideEffects(t *testing.T) {
	g := NewGrid(5, 10)
	feedString(g, "content\x1b[2;4r\x1b[?3h")

	if got := g.Snapshot(); got != "" {
		t.Errorf("expected screen cleared by DECCOLM side effects, got %q", got)
	}
	if g.scrollRegion != nil {
		t.Error("expected scroll region cleared")
	}
	x, y, _ := g.CursorCoordinates()
	if x != 0 || y != 0 {
		t.Errorf("expected cursor homed, got (%d, %d)", x, y)
	}
}

func TestScrollRegionSUAndSD(t *testing.T) {
	g := NewGrid(5, 5)
	feedString(g, "A\r\nB\r\nC\r\nD\r\nE")
	feedString(g, "\x1b[2;4r\x1b[1S")

	want := "A\nC\nD\n\nE"
	if got := g.Snapshot(); got != want {
		t.Errorf("expected SU to shift region content up:\n%s\ngot:\n%s", want, got)
	}

	feedString(g, "\x1b[1T")
	want = "A\n\nC\nD\nE"
	if got := g.Snapshot(); got != want {
		t.Errorf("expected SD to shift region content down:\n%s\ngot:\n%s", want, got)
	}
}

func TestNegativeSDInvertsToSU(t *testing.T) {
	g := NewGrid(5, 5)
	feedString(g, "A\r\nB\r\nC\r\nD\r\nE")
	// 65535 reinterprets as -1, which inverts the scroll direction
	feedString(g, "\x1b[2;4r\x1b[65535T")

	want := "A\nC\nD\n\nE"
	if got := g.Snapshot(); got != want {
		t.Errorf("expected negative SD to scroll up:\n%s\ngot:\n%s", want, got)
	}
}

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Printf(format string, args ...any) {
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}
