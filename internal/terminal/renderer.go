// Package terminal implements a text terminal frontend for the interpreter:
// a half block display renderer and a raw mode keyboard reader.
package terminal

import (
	"bytes"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/vm"
)

const (
	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// Renderer writes the display to a terminal using one text row for every two
// pixel rows.
type Renderer struct {
	w   io.Writer
	buf bytes.Buffer
}

// NewRenderer returns a renderer that writes to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Start clears the screen and hides the cursor.
func (r *Renderer) Start() error {
	if _, err := io.WriteString(r.w, clearScreen+hideCursor); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	return nil
}

// Stop moves the cursor below the rendered display and shows it again.
func (r *Renderer) Stop() error {
	if _, err := fmt.Fprintf(r.w, "\x1b[%d;1H%s", vm.DisplayHeight/2+1, showCursor); err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	return nil
}

// Render draws the display starting at the top left corner of the terminal.
func (r *Renderer) Render(display *vm.Display) error {
	r.buf.Reset()
	r.buf.WriteString(cursorHome)

	for y := 0; y < vm.DisplayHeight; y += 2 {
		for x := range vm.DisplayWidth {
			r.buf.WriteRune(halfBlock(display.Pixel(x, y), display.Pixel(x, y+1)))
		}
		// raw mode terminals do not translate newlines
		r.buf.WriteString("\r\n")
	}

	if _, err := r.w.Write(r.buf.Bytes()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

func halfBlock(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	default:
		return ' '
	}
}
