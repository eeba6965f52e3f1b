// Package detector handles system architecture detection.
package detector

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

var (
	// ErrUnknownSystem is returned for a system name that is not known.
	ErrUnknownSystem = errors.New("unknown system")
	// ErrUnsupportedSystem is returned for ROMs of systems other than CHIP-8.
	ErrUnsupportedSystem = errors.New("unsupported system")
)

// Detector handles system architecture detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new system detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the system architecture from options or file auto-detection.
// An explicitly specified system takes precedence over the file extension.
// Only CHIP-8 ROMs can be run, any other system results in an error.
func (d *Detector) Detect(opts options.Program) (arch.System, error) {
	if opts.System != "" {
		system, ok := arch.SystemFromString(opts.System)
		if !ok {
			return "", fmt.Errorf("%w '%s'", ErrUnknownSystem, opts.System)
		}
		return checkSupported(system)
	}

	system := d.detectFromFile(opts.Input)
	d.logger.Debug("Auto-detected system",
		log.Stringer("system", system),
		log.String("file", opts.Input))
	return checkSupported(system)
}

// detectFromFile determines the system type based on file extension.
func (d *Detector) detectFromFile(filename string) arch.System {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".nes":
		return arch.NES
	default:
		// CHIP-8 ROMs have no header, .ch8, .c8 and .rom are common
		// but any raw file is accepted
		return arch.CHIP8System
	}
}

func checkSupported(system arch.System) (arch.System, error) {
	if system != arch.CHIP8System {
		return "", fmt.Errorf("%w '%s', only chip8 ROMs can be run", ErrUnsupportedSystem, system)
	}
	return system, nil
}
