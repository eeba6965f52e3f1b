// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input  string `arg:"positional" usage:"CHIP-8 ROM file to run"`
	System string `flag:"s" usage:"target system: chip8 (default: auto-detect)"`
}

// Emulation contains options controlling the execution of the ROM.
type Emulation struct {
	Rate        int      `flag:"hz" usage:"instructions executed per second" default:"500"`
	Steps       uint64   `flag:"steps" usage:"stop after the given number of instructions (0 = unlimited)"`
	Seed        uint64   `flag:"seed" usage:"random number seed (0 = time based)"`
	Breakpoints []uint16 `flag:"break" usage:"comma separated list of hex breakpoint addresses"`
}

// Flags contains behavior options.
type Flags struct {
	Headless  bool `flag:"headless" usage:"run without terminal display and keyboard"`
	Dump      bool `flag:"dump" usage:"print the machine state on exit"`
	StatsView bool `flag:"statsview" usage:"start the runtime statistics server"`
	Debug     bool `flag:"debug" usage:"enable debug logging"`
	Quiet     bool `flag:"q" usage:"quiet mode"`
}

// Program options of the interpreter.
type Program struct {
	Parameters
	Emulation
	Flags
}
