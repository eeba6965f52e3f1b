package inspect

import (
	"bytes"
	"testing"

	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/assert"
)

func TestDisassemble(t *testing.T) {
	memory := make([]byte, vm.MemorySize)
	copy(memory[0x200:], []byte{0x61, 0x05, 0xFF, 0xFF, 0xD1, 0x25})

	lines := Disassemble(memory, 0x200, 3)
	assert.Len(t, lines, 3)
	assert.Equal(t, "200 6105  LD V1, 0x05", lines[0].String())
	assert.Equal(t, "202 FFFF  .word $FFFF", lines[1].String())
	assert.False(t, lines[1].Valid)
	assert.Equal(t, "204 D125  DRW V1, V2, 5", lines[2].String())
	assert.Equal(t, vm.Drw, lines[2].Instruction.Kind)
}

func TestDisassemble_EndOfMemory(t *testing.T) {
	memory := make([]byte, vm.MemorySize)

	assert.Len(t, Disassemble(memory, vm.MemorySize-4, 10), 2)
	assert.Len(t, Disassemble(memory, vm.MemorySize-1, 10), 0)
}

func TestDump_Listing(t *testing.T) {
	machine := vm.New()
	assert.NoError(t, machine.LoadROM([]byte{0x00, 0xE0, 0x12, 0x00}))

	var buf bytes.Buffer
	assert.NoError(t, Dump(&buf, machine, Options{Instructions: 2, SkipMemory: true}))
	assert.Contains(t, buf.String(), "> 200 00E0  CLS\n  202 1200  JP 0x200\n")
}
