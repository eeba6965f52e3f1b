// Package app provides the application helpers for the interpreter.
package app

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// Name of the application as printed in the banner.
const Name = "retrochip8"

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info(Name, log.String("version", Version(version, commit, date)))
}

// Version returns the version string including the build information.
// Placeholder dates of builds without release information are omitted.
func Version(version, commit, date string) string {
	if strings.Contains(date, "unknown") {
		date = ""
	}
	return buildinfo.Version(version, commit, date)
}

// PrintInfo prints the information about the ROM that is about to run.
func PrintInfo(logger *log.Logger, opts options.Program, system arch.System, romSize int, seed uint64) {
	if opts.Quiet {
		return
	}

	logger.Info("Running CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Stringer("system", system),
		log.Int("size", romSize),
		log.Int("hz", opts.Rate),
		log.String("seed", fmt.Sprintf("%d", seed)),
	)
	if len(opts.Breakpoints) > 0 {
		addresses := make([]string, len(opts.Breakpoints))
		for i, address := range opts.Breakpoints {
			addresses[i] = fmt.Sprintf("%03X", address)
		}
		logger.Info("Breakpoints set", log.String("addresses", strings.Join(addresses, ",")))
	}
}
