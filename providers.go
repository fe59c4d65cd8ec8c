package mosaic

import (
	"io"
	"log"

	"github.com/atotto/clipboard"
)

// Logger receives diagnostics about unrecognized sequences and internal
// inconsistencies. Nothing logged is fatal; the engine always keeps a
// best-effort screen.
type Logger interface {
	Printf(format string, args ...any)
}

// NoopLogger discards all diagnostics. It is the default.
type NoopLogger struct{}

// Printf implements Logger.
func (NoopLogger) Printf(format string, args ...any) {}

// StdLogger adapts the standard library logger.
type StdLogger struct {
	L *log.Logger
}

// Printf implements Logger.
func (s StdLogger) Printf(format string, args ...any) {
	if s.L != nil {
		s.L.Printf(format, args...)
	} else {
		log.Printf(format, args...)
	}
}

// ClipboardProvider receives text copied out of a selection.
type ClipboardProvider interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// WriteAll implements ClipboardProvider.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// NoopClipboard discards copied text.
type NoopClipboard struct{}

// WriteAll implements ClipboardProvider.
func (NoopClipboard) WriteAll(text string) error {
	return nil
}

// RenderSink receives rendered ANSI bytes. An io.Writer is used directly.
type RenderSink = io.Writer
