// Package loader handles ROM file loading operations.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/vm"
)

// Loader handles loading ROM files from disk.
type Loader struct {
	limit int64
}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{
		// one byte more than fits into memory so that oversized files are
		// detected when the ROM is loaded into the machine
		limit: vm.MaxROMSize + 1,
	}
}

// Load reads the ROM file with the given name.
func (l *Loader) Load(name string) ([]byte, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", name, err)
	}
	defer func() { _ = file.Close() }()

	rom, err := l.LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", name, err)
	}
	return rom, nil
}

// LoadFromReader reads ROM data from a reader. At most one byte more than
// the maximum ROM size is read.
func (l *Loader) LoadFromReader(reader io.Reader) ([]byte, error) {
	rom, err := io.ReadAll(io.LimitReader(reader, l.limit))
	if err != nil {
		return nil, fmt.Errorf("reading ROM data: %w", err)
	}
	return rom, nil
}
