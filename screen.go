package mosaic

import (
	"context"
	"sort"
)

// ScreenInstructionKind discriminates the messages the screen worker
// accepts.
type ScreenInstructionKind int

const (
	// InstructionPtyBytes delivers PTY output to a pane's grid.
	InstructionPtyBytes ScreenInstructionKind = iota
	// InstructionRender requests a render pass; every pane that changed
	// since its last render is repainted.
	InstructionRender
	// InstructionNewPane registers a pane with the screen.
	InstructionNewPane
	// InstructionClosePane removes a pane; its grid is dropped with it.
	InstructionClosePane
	// InstructionResizePane reflows a pane to a new size.
	InstructionResizePane
	// InstructionScrollUp scrolls the active pane into scrollback.
	InstructionScrollUp
	// InstructionScrollDown scrolls the active pane toward the live tail.
	InstructionScrollDown
	// InstructionClearScroll returns the active pane to the live tail.
	InstructionClearScroll
	// InstructionCopySelection copies the active pane's selection to the
	// clipboard.
	InstructionCopySelection
)

// ScreenInstruction is one message to the screen worker.
type ScreenInstruction struct {
	Kind    ScreenInstructionKind
	Pane    PaneID
	Data    []byte
	Rows    int
	Columns int
	Count   int
	NewPane *TerminalPane
}

const instructionBufferSize = 256

// Screen is the worker that owns every grid. It is the only mutator: PTY
// readers and the UI talk to it exclusively through its bounded instruction
// channel, which keeps all grid mutation single-threaded without locks.
// Renders are coalesced; a batch of instructions produces one repaint.
type Screen struct {
	instructions chan ScreenInstruction
	panes        map[PaneID]*TerminalPane
	activePane   PaneID

	sink      RenderSink
	logger    Logger
	clipboard ClipboardProvider
}

// ScreenOption configures a Screen during construction.
type ScreenOption func(*Screen)

// WithRenderSink sets the writer receiving rendered ANSI bytes.
func WithRenderSink(sink RenderSink) ScreenOption {
	return func(s *Screen) {
		s.sink = sink
	}
}

// WithScreenLogger sets the screen worker's logger.
func WithScreenLogger(l Logger) ScreenOption {
	return func(s *Screen) {
		s.logger = l
	}
}

// WithClipboard sets the clipboard receiving copied selections. Defaults
// to the system clipboard.
func WithClipboard(c ClipboardProvider) ScreenOption {
	return func(s *Screen) {
		s.clipboard = c
	}
}

// NewScreen creates a screen worker with no panes.
func NewScreen(opts ...ScreenOption) *Screen {
	s := &Screen{
		instructions: make(chan ScreenInstruction, instructionBufferSize),
		panes:        make(map[PaneID]*TerminalPane),
		logger:       NoopLogger{},
		clipboard:    SystemClipboard{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Instructions returns the channel PTY readers and the UI send into.
func (s *Screen) Instructions() chan<- ScreenInstruction {
	return s.instructions
}

// ActivePane returns the pane that currently receives scroll and copy
// instructions, or nil when the screen is empty.
func (s *Screen) ActivePane() *TerminalPane {
	return s.panes[s.activePane]
}

// SetActivePane changes which pane receives scroll and copy instructions.
func (s *Screen) SetActivePane(id PaneID) {
	if _, ok := s.panes[id]; ok {
		s.activePane = id
	}
}

// Run processes instructions until ctx is cancelled or the instruction
// channel is closed. Instructions already delivered when a pane closes are
// still applied; renders are coalesced per batch.
func (s *Screen) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case instruction, ok := <-s.instructions:
			if !ok {
				return nil
			}
			render := s.handle(instruction)
			// absorb whatever else already arrived before repainting
			for done := false; !done; {
				select {
				case instruction, ok := <-s.instructions:
					if !ok {
						done = true
						break
					}
					render = s.handle(instruction) || render
				default:
					done = true
				}
			}
			if render {
				s.renderAll()
			}
		}
	}
}

// handle applies one instruction and reports whether a repaint is needed.
func (s *Screen) handle(instruction ScreenInstruction) bool {
	switch instruction.Kind {
	case InstructionPtyBytes:
		if pane, ok := s.panes[instruction.Pane]; ok {
			pane.HandleBytes(instruction.Data)
			return true
		}
	case InstructionRender:
		return true
	case InstructionNewPane:
		if instruction.NewPane != nil {
			s.panes[instruction.NewPane.ID] = instruction.NewPane
			s.activePane = instruction.NewPane.ID
			return true
		}
	case InstructionClosePane:
		delete(s.panes, instruction.Pane)
		if instruction.Pane == s.activePane {
			s.activePane = 0
			for id := range s.panes {
				s.activePane = id
				break
			}
		}
		return true
	case InstructionResizePane:
		if pane, ok := s.panes[instruction.Pane]; ok {
			pane.ChangeSize(instruction.Rows, instruction.Columns)
			return true
		}
	case InstructionScrollUp:
		if pane := s.ActivePane(); pane != nil {
			pane.ScrollUp(instruction.Count)
			return true
		}
	case InstructionScrollDown:
		if pane := s.ActivePane(); pane != nil {
			pane.ScrollDown(instruction.Count)
			return true
		}
	case InstructionClearScroll:
		if pane := s.ActivePane(); pane != nil {
			pane.ClearScroll()
			return true
		}
	case InstructionCopySelection:
		if pane := s.ActivePane(); pane != nil {
			text := pane.Grid().SelectedText()
			if text != "" {
				if err := s.clipboard.WriteAll(text); err != nil {
					s.logger.Printf("clipboard write failed: %v", err)
				}
			}
		}
	}
	return false
}

// renderAll repaints every pane that changed, the active pane last so the
// terminal cursor ends up on it.
func (s *Screen) renderAll() {
	if s.sink == nil {
		return
	}
	ids := make([]int, 0, len(s.panes))
	for id := range s.panes {
		if id != s.activePane {
			ids = append(ids, int(id))
		}
	}
	sort.Ints(ids)
	for _, id := range ids {
		s.renderPane(s.panes[PaneID(id)])
	}
	if pane := s.ActivePane(); pane != nil {
		s.renderPane(pane)
	}
}

func (s *Screen) renderPane(pane *TerminalPane) {
	out := pane.Render()
	if len(out) == 0 {
		return
	}
	if _, err := s.sink.Write(out); err != nil {
		s.logger.Printf("render write failed: %v", err)
	}
}
