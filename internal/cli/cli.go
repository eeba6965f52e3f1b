// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrochip8/internal/vm"
)

// ParseFlags parses command line flags and returns the program options.
func ParseFlags() (options.Program, error) {
	return parseArgs(os.Args[0], os.Args[1:])
}

func parseArgs(name string, arguments []string) (options.Program, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	// parse errors are reported through UsageError only
	flags.SetOutput(io.Discard)
	var opts options.Program
	var breakpoints string
	readOptionFlags(flags, &opts, &breakpoints)

	if err := flags.Parse(arguments); err != nil {
		msg := err.Error()
		if errors.Is(err, flag.ErrHelp) {
			msg = ""
		}
		return opts, &UsageError{flags: flags, msg: msg}
	}
	args := flags.Args()
	if len(args) == 0 {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(flags, args); err != nil {
		return opts, err
	}
	opts.Input = args[0]

	var err error
	if opts.Breakpoints, err = parseBreakpoints(breakpoints); err != nil {
		return opts, err
	}
	if err := validateOptions(opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	e.writeUsage(os.Stdout)
}

func (e *UsageError) writeUsage(w io.Writer) {
	if e.msg != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", e.msg)
	}
	_, _ = fmt.Fprintf(w, "usage: retrochip8 [options] <ROM file to run>\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	_, _ = fmt.Fprintln(w)
}

// validateArgs checks if arguments are in correct order
func validateArgs(flags *flag.FlagSet, args []string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				flags: flags,
				msg:   fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// parseBreakpoints parses a comma separated list of hex addresses.
func parseBreakpoints(s string) ([]uint16, error) {
	if s == "" {
		return nil, nil
	}

	var addresses []uint16
	for field := range strings.SplitSeq(s, ",") {
		field = strings.TrimSpace(field)
		field = strings.TrimPrefix(strings.ToLower(field), "0x")

		address, err := strconv.ParseUint(field, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid breakpoint '%s': %w", field, err)
		}
		if address >= vm.MemorySize {
			return nil, fmt.Errorf("breakpoint %X is outside of memory", address)
		}
		addresses = append(addresses, uint16(address))
	}
	return addresses, nil
}

// validateOptions checks option values against the supported ranges.
func validateOptions(opts options.Program) error {
	if opts.Rate < 1 || opts.Rate > runner.MaxRate {
		return fmt.Errorf("invalid rate %d, expected between 1 and %d", opts.Rate, runner.MaxRate)
	}
	if opts.Debug && opts.Quiet {
		return fmt.Errorf("debug and quiet mode can not be combined")
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program, breakpoints *string) {
	flags.StringVar(&opts.System, "s", "", "system of the ROM (chip8) - if not auto-detected from file extension")
	flags.IntVar(&opts.Rate, "hz", runner.DefaultRate, "number of instructions to execute per second")
	flags.Uint64Var(&opts.Steps, "steps", 0, "stop after the given number of instructions, 0 runs until cancelled")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed for the random number generator, 0 uses the current time")
	flags.StringVar(breakpoints, "break", "", "comma separated list of hex addresses to pause execution at, for example 200,2a4")
	flags.BoolVar(&opts.Headless, "headless", false, "run without terminal display and keyboard input")
	flags.BoolVar(&opts.Dump, "dump", false, "print registers and memory of the machine on exit")
	flags.BoolVar(&opts.StatsView, "statsview", false, "start a local HTTP server offering runtime statistics")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
