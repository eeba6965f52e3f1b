package inspect

import (
	"bytes"
	"fmt"

	"github.com/retroenv/retrochip8/internal/vm"
)

// Line is a single decoded entry of an instruction listing.
type Line struct {
	Address     uint16
	Opcode      vm.Opcode
	Instruction vm.Instruction
	Valid       bool // false if the opcode is not a known instruction
}

// String formats the line like an assembler listing, unknown opcodes are
// shown as data words.
func (l Line) String() string {
	if !l.Valid {
		return fmt.Sprintf("%03x %s  .word $%s", l.Address, l.Opcode, l.Opcode)
	}
	return fmt.Sprintf("%03x %s  %s", l.Address, l.Opcode, l.Instruction)
}

// Disassemble decodes up to count instructions of memory starting at the
// given address. The listing ends early at the end of memory.
func Disassemble(memory []byte, start uint16, count int) []Line {
	lines := make([]Line, 0, count)
	for address := int(start); len(lines) < count && address+1 < len(memory); address += 2 {
		op := vm.NewOpcode(memory[address], memory[address+1])
		ins, err := vm.Decode(op)
		lines = append(lines, Line{
			Address:     uint16(address),
			Opcode:      op,
			Instruction: ins,
			Valid:       err == nil,
		})
	}
	return lines
}

func writeListing(buf *bytes.Buffer, machine Machine, count int) {
	buf.WriteString("\nCODE\n")
	for i, line := range Disassemble(machine.Memory(), machine.PC(), count) {
		marker := "  "
		if i == 0 {
			marker = "> "
		}
		buf.WriteString(marker)
		buf.WriteString(line.String())
		buf.WriteByte('\n')
	}
}
