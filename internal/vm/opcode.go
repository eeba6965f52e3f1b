package vm

import "fmt"

// Opcode is a raw 16-bit instruction. In memory the high byte comes first.
type Opcode uint16

// NewOpcode composes an opcode from the two bytes of an instruction.
func NewOpcode(hi, lo byte) Opcode {
	return Opcode(uint16(hi)<<8 | uint16(lo))
}

// Nibbles returns the 4 nibbles of the opcode, most significant first.
func (o Opcode) Nibbles() [4]byte {
	return [4]byte{
		byte(o>>12) & 0x0F,
		byte(o>>8) & 0x0F,
		byte(o>>4) & 0x0F,
		byte(o) & 0x0F,
	}
}

// NNN returns the lowest 12 bits, an address.
func (o Opcode) NNN() uint16 {
	return uint16(o) & 0x0FFF
}

// KK returns the lowest 8 bits, an immediate byte.
func (o Opcode) KK() byte {
	return byte(o)
}

// X returns the second nibble, a register index.
func (o Opcode) X() byte {
	return byte(o>>8) & 0x0F
}

// Y returns the third nibble, a register index.
func (o Opcode) Y() byte {
	return byte(o>>4) & 0x0F
}

// N returns the lowest nibble.
func (o Opcode) N() byte {
	return byte(o) & 0x0F
}

func (o Opcode) String() string {
	return fmt.Sprintf("%04X", uint16(o))
}
