package vm

import (
	"fmt"
	"strings"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Kind identifies a decoded instruction variant. Several variants share a
// mnemonic, LD for example is used by 11 different kinds.
type Kind uint8

// Instruction kinds, named after the mnemonic and the operand form.
const (
	Invalid Kind = iota
	Cls          // 00E0
	Ret          // 00EE
	Jp           // 1nnn
	Call         // 2nnn
	SeByte       // 3xkk
	SneByte      // 4xkk
	SeReg        // 5xy0
	LdByte       // 6xkk
	AddByte      // 7xkk
	LdReg        // 8xy0
	Or           // 8xy1
	And          // 8xy2
	Xor          // 8xy3
	AddReg       // 8xy4
	Sub          // 8xy5
	Shr          // 8xy6
	Subn         // 8xy7
	Shl          // 8xyE
	SneReg       // 9xy0
	LdI          // Annn
	JpV0         // Bnnn
	Rnd          // Cxkk
	Drw          // Dxyn
	Skp          // Ex9E
	Sknp         // ExA1
	LdVxDT       // Fx07
	LdVxK        // Fx0A
	LdDTVx       // Fx15
	LdSTVx       // Fx18
	AddIVx       // Fx1E
	LdFVx        // Fx29
	LdBVx        // Fx33
	LdIVx        // Fx55
	LdVxI        // Fx65

	kindCount
)

type kindInfo struct {
	instruction *chip8cpu.Instruction
	operands    string
}

// kinds maps every kind to the retrogolib instruction that carries its
// mnemonic and to the operand syntax of the variant.
var kinds = [kindCount]kindInfo{
	Cls:     {chip8cpu.ClsInst, ""},
	Ret:     {chip8cpu.RetInst, ""},
	Jp:      {chip8cpu.JpInst, "addr"},
	Call:    {chip8cpu.CallInst, "addr"},
	SeByte:  {chip8cpu.SeInst, "Vx, byte"},
	SneByte: {chip8cpu.SneInst, "Vx, byte"},
	SeReg:   {chip8cpu.SeInst, "Vx, Vy"},
	LdByte:  {chip8cpu.LdInst, "Vx, byte"},
	AddByte: {chip8cpu.AddInst, "Vx, byte"},
	LdReg:   {chip8cpu.LdInst, "Vx, Vy"},
	Or:      {chip8cpu.OrInst, "Vx, Vy"},
	And:     {chip8cpu.AndInst, "Vx, Vy"},
	Xor:     {chip8cpu.XorInst, "Vx, Vy"},
	AddReg:  {chip8cpu.AddInst, "Vx, Vy"},
	Sub:     {chip8cpu.SubInst, "Vx, Vy"},
	Shr:     {chip8cpu.ShrInst, "Vx, Vy"},
	Subn:    {chip8cpu.SubnInst, "Vx, Vy"},
	Shl:     {chip8cpu.ShlInst, "Vx, Vy"},
	SneReg:  {chip8cpu.SneInst, "Vx, Vy"},
	LdI:     {chip8cpu.LdInst, "I, addr"},
	JpV0:    {chip8cpu.JpInst, "V0, addr"},
	Rnd:     {chip8cpu.RndInst, "Vx, byte"},
	Drw:     {chip8cpu.DrwInst, "Vx, Vy, nibble"},
	Skp:     {chip8cpu.SkpInst, "Vx"},
	Sknp:    {chip8cpu.SknpInst, "Vx"},
	LdVxDT:  {chip8cpu.LdInst, "Vx, DT"},
	LdVxK:   {chip8cpu.LdInst, "Vx, K"},
	LdDTVx:  {chip8cpu.LdInst, "DT, Vx"},
	LdSTVx:  {chip8cpu.LdInst, "ST, Vx"},
	AddIVx:  {chip8cpu.AddInst, "I, Vx"},
	LdFVx:   {chip8cpu.LdInst, "F, Vx"},
	LdBVx:   {chip8cpu.LdInst, "B, Vx"},
	LdIVx:   {chip8cpu.LdInst, "[I], Vx"},
	LdVxI:   {chip8cpu.LdInst, "Vx, [I]"},
}

// CPUInstruction returns the retrogolib CHIP-8 instruction of the kind or nil
// for Invalid.
func (k Kind) CPUInstruction() *chip8cpu.Instruction {
	if k == Invalid || k >= kindCount {
		return nil
	}
	return kinds[k].instruction
}

// Mnemonic returns the upper case mnemonic of the kind.
func (k Kind) Mnemonic() string {
	ins := k.CPUInstruction()
	if ins == nil {
		return ""
	}
	return strings.ToUpper(ins.Name)
}

// String returns the mnemonic with the generic operand syntax, for example
// "LD Vx, byte".
func (k Kind) String() string {
	if k == Invalid || k >= kindCount {
		return "INVALID"
	}
	if kinds[k].operands == "" {
		return k.Mnemonic()
	}
	return k.Mnemonic() + " " + kinds[k].operands
}

// Instruction is a decoded opcode with all operand fields extracted.
type Instruction struct {
	Kind   Kind
	Opcode Opcode

	X   byte   // register index
	Y   byte   // register index
	N   byte   // nibble
	KK  byte   // immediate byte
	NNN uint16 // address
}

// String returns the instruction with its operand values filled in, for
// example "LD V1, 0x05".
func (ins Instruction) String() string {
	if ins.Kind == Invalid || ins.Kind >= kindCount {
		return "INVALID " + ins.Opcode.String()
	}
	operands := kinds[ins.Kind].operands
	if operands == "" {
		return ins.Kind.Mnemonic()
	}

	replacer := strings.NewReplacer(
		"Vx", fmt.Sprintf("V%X", ins.X),
		"Vy", fmt.Sprintf("V%X", ins.Y),
		"byte", fmt.Sprintf("0x%02X", ins.KK),
		"nibble", fmt.Sprintf("%d", ins.N),
		"addr", fmt.Sprintf("0x%03X", ins.NNN),
	)
	return ins.Kind.Mnemonic() + " " + replacer.Replace(operands)
}

// WritesDisplay returns whether executing the instruction modifies the display.
func (ins Instruction) WritesDisplay() bool {
	return ins.Kind == Cls || ins.Kind == Drw
}

// Decode turns an opcode into an instruction. Opcodes that do not match any
// instruction of the base instruction set return ErrUnknownOpcode.
func Decode(op Opcode) (Instruction, error) {
	ins := Instruction{
		Kind:   decodeKind(op),
		Opcode: op,
		X:      op.X(),
		Y:      op.Y(),
		N:      op.N(),
		KK:     op.KK(),
		NNN:    op.NNN(),
	}
	if ins.Kind == Invalid {
		return ins, fmt.Errorf("%w: %s", ErrUnknownOpcode, op)
	}
	return ins, nil
}

//nolint:cyclop,funlen // one case per instruction group
func decodeKind(op Opcode) Kind {
	nibbles := op.Nibbles()

	switch nibbles[0] {
	case 0x0:
		switch op {
		case 0x00E0:
			return Cls
		case 0x00EE:
			return Ret
		}
	case 0x1:
		return Jp
	case 0x2:
		return Call
	case 0x3:
		return SeByte
	case 0x4:
		return SneByte
	case 0x5:
		if nibbles[3] == 0x0 {
			return SeReg
		}
	case 0x6:
		return LdByte
	case 0x7:
		return AddByte
	case 0x8:
		return decodeALU(nibbles[3])
	case 0x9:
		if nibbles[3] == 0x0 {
			return SneReg
		}
	case 0xA:
		return LdI
	case 0xB:
		return JpV0
	case 0xC:
		return Rnd
	case 0xD:
		return Drw
	case 0xE:
		switch op.KK() {
		case 0x9E:
			return Skp
		case 0xA1:
			return Sknp
		}
	case 0xF:
		return decodeMisc(op.KK())
	}

	return Invalid
}

func decodeALU(n byte) Kind {
	switch n {
	case 0x0:
		return LdReg
	case 0x1:
		return Or
	case 0x2:
		return And
	case 0x3:
		return Xor
	case 0x4:
		return AddReg
	case 0x5:
		return Sub
	case 0x6:
		return Shr
	case 0x7:
		return Subn
	case 0xE:
		return Shl
	default:
		return Invalid
	}
}

func decodeMisc(kk byte) Kind {
	switch kk {
	case 0x07:
		return LdVxDT
	case 0x0A:
		return LdVxK
	case 0x15:
		return LdDTVx
	case 0x18:
		return LdSTVx
	case 0x1E:
		return AddIVx
	case 0x29:
		return LdFVx
	case 0x33:
		return LdBVx
	case 0x55:
		return LdIVx
	case 0x65:
		return LdVxI
	default:
		return Invalid
	}
}
