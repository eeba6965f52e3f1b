package terminal

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrochip8/internal/vm"
	"golang.org/x/sys/unix"
)

const (
	// MinColumns is the terminal width needed to render the display.
	MinColumns = vm.DisplayWidth
	// MinRows is the terminal height needed to render the display and a status line.
	MinRows = vm.DisplayHeight/2 + 1
)

var errTerminalTooSmall = errors.New("terminal too small")

// CheckGeometry verifies that the terminal behind the file descriptor is large
// enough to render the display.
func CheckGeometry(fd int) error {
	size, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return fmt.Errorf("getting terminal size: %w", err)
	}
	return checkSize(size.Col, size.Row)
}

func checkSize(columns, rows uint16) error {
	if columns < MinColumns || rows < MinRows {
		return fmt.Errorf("%w: %dx%d, need at least %dx%d",
			errTerminalTooSmall, columns, rows, MinColumns, MinRows)
	}
	return nil
}
