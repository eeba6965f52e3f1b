// Package inspect prints the state of a CHIP-8 machine in a human readable form.
package inspect

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/vm"
)

const bytesPerLine = 16

// Machine is the read-only view of the interpreter state that gets dumped.
type Machine interface {
	Memory() []byte
	Registers() [vm.RegisterCount]byte
	PC() uint16
	Index() uint16
	SP() byte
	Stack() []uint16
	DelayTimer() byte
	SoundTimer() byte
}

// Options controls the dump output.
type Options struct {
	ShowZeroLines bool // include memory lines that only contain zeros
	SkipMemory    bool
	Instructions  int // number of instructions to list starting at the program counter
}

// Dump writes registers, timers, stack and memory of the machine to w.
func Dump(w io.Writer, machine Machine, opts Options) error {
	var buf bytes.Buffer

	writeRegisters(&buf, machine)
	if opts.Instructions > 0 {
		writeListing(&buf, machine, opts.Instructions)
	}
	if !opts.SkipMemory {
		buf.WriteString("\nMEMORY\n")
		writeMemory(&buf, machine.Memory(), opts.ShowZeroLines)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing dump: %w", err)
	}
	return nil
}

func writeRegisters(buf *bytes.Buffer, machine Machine) {
	buf.WriteString("REGISTERS\n")
	fmt.Fprintf(buf, "PC %03x    I  %03x\n", machine.PC(), machine.Index())

	registers := machine.Registers()
	for i := 0; i < vm.RegisterCount; i += 2 {
		fmt.Fprintf(buf, "V%X %02x     V%X %02x\n", i, registers[i], i+1, registers[i+1])
	}

	fmt.Fprintf(buf, "DT %02x     ST %02x\n", machine.DelayTimer(), machine.SoundTimer())

	stack := machine.Stack()
	entries := make([]string, len(stack))
	for i, address := range stack {
		entries[i] = fmt.Sprintf("%03x", address)
	}
	fmt.Fprintf(buf, "SP %02x     [%s]\n", machine.SP(), strings.Join(entries, " "))
}

func writeMemory(buf *bytes.Buffer, memory []byte, showZeroLines bool) {
	for offset := 0; offset < len(memory); offset += bytesPerLine {
		line := memory[offset:min(offset+bytesPerLine, len(memory))]
		if !showZeroLines && isZero(line) {
			continue
		}

		fmt.Fprintf(buf, "%03x ", offset)
		for i, b := range line {
			if i > 0 {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(buf, "%02x", b)
		}
		buf.WriteByte('\n')
	}
}

func isZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}
