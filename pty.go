package mosaic

import (
	"context"
	"os"
	"os/exec"

	"github.com/creack/pty"
)

// Pty owns one child process running on a pseudoterminal. Its read loop is
// the producer side of the screen worker: every chunk read from the PTY
// master is sent as a PtyBytes instruction and applied in order by the
// worker that owns the grid.
type Pty struct {
	cmd    *exec.Cmd
	master *os.File
}

// NewPty spawns argv on a new pseudoterminal of the given size.
func NewPty(argv []string, rows, columns int) (*Pty, error) {
	if len(argv) == 0 {
		shell := os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/sh"
		}
		argv = []string{shell}
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	master, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(columns),
	})
	if err != nil {
		return nil, err
	}
	return &Pty{cmd: cmd, master: master}, nil
}

// ReadLoop reads the PTY master until end-of-stream or cancellation,
// sending each chunk to the screen worker. End-of-stream closes the pane.
// Bytes already sent are still applied after cancellation.
func (p *Pty) ReadLoop(ctx context.Context, id PaneID, instructions chan<- ScreenInstruction) {
	buf := make([]byte, 4096)
	for {
		n, err := p.master.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			select {
			case instructions <- ScreenInstruction{Kind: InstructionPtyBytes, Pane: id, Data: data}:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			select {
			case instructions <- ScreenInstruction{Kind: InstructionClosePane, Pane: id}:
			case <-ctx.Done():
			}
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// Write sends input bytes to the child process. Callers should first pass
// key sequences through the pane's AdjustInput.
func (p *Pty) Write(data []byte) (int, error) {
	return p.master.Write(data)
}

// Resize changes the pseudoterminal size; the child sees SIGWINCH.
func (p *Pty) Resize(rows, columns int) error {
	return pty.Setsize(p.master, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(columns),
	})
}

// Close terminates the child process and closes the PTY master.
func (p *Pty) Close() error {
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
		_, _ = p.cmd.Process.Wait()
	}
	return p.master.Close()
}
