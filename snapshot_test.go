package mosaic

import "testing"

func TestSnapshotTrimsTrailing(t *testing.T) {
	g := NewGrid(3, 10)
	feedString(g, "one  \r\ntwo")

	if got := g.Snapshot(); got != "one\ntwo" {
		t.Errorf("expected trailing blanks and empty lines trimmed, got %q", got)
	}
}

func TestDebugStringMarksCanonicality(t *testing.T) {
	g := NewGrid(2, 5)
	feedString(g, "ABCDEFG")

	want := "00 (C): ABCDE\n01 (W): FG\n"
	if got := g.DebugString(); got != want {
		t.Errorf("expected canonicality markers:\n%s\ngot:\n%s", want, got)
	}
}
