package vm

import "fmt"

// Memory layout and machine dimensions.
const (
	MemorySize   = 4096
	FontStart    = 0x050 // address of the hex digit font
	ProgramStart = 0x200 // address programs are loaded to and executed from
	MaxROMSize   = MemorySize - ProgramStart

	RegisterCount = 16
	FlagRegister  = 0xF // VF, written by arithmetic, shift and draw instructions
	StackSize     = 16
)

// VM is a CHIP-8 interpreter instance. It is not safe for concurrent use.
type VM struct {
	memory    [MemorySize]byte
	registers [RegisterCount]byte
	index     IndexRegister
	pc        uint16

	stack [StackSize]uint16
	sp    byte

	delayTimer Timer
	soundTimer Timer
	keypad     Keypad
	display    Display

	lastAddress     uint16
	lastInstruction Instruction
}

// New returns a VM with cleared state, the font loaded and the program counter
// pointing to the program start.
func New() *VM {
	v := &VM{
		pc: ProgramStart,
	}
	copy(v.memory[FontStart:], FontSet[:])
	return v
}

// LoadROM copies the program into memory at ProgramStart. The rest of the
// program area is cleared. ROMs that are empty or do not fit into memory are
// rejected without modifying the machine.
func (v *VM) LoadROM(rom []byte) error {
	if len(rom) == 0 || len(rom) > MaxROMSize {
		return fmt.Errorf("%w: got %d bytes, expected between 1 and %d bytes",
			ErrInvalidROMSize, len(rom), MaxROMSize)
	}

	clear(v.memory[ProgramStart:])
	copy(v.memory[ProgramStart:], rom)
	return nil
}

// Step executes a single instruction and ticks both timers. The random byte is
// consumed by the RND instruction only. On error the machine state is left as
// it was before the call.
func (v *VM) Step(random byte) error {
	address := v.pc

	op, err := v.fetch()
	if err != nil {
		return &ExecutionError{Address: address, Err: err}
	}

	ins, err := Decode(op)
	if err == nil {
		err = v.execute(ins, random)
	}
	if err != nil {
		v.pc = address
		return &ExecutionError{Address: address, Opcode: op, Err: err}
	}

	v.delayTimer.Tick()
	v.soundTimer.Tick()

	v.lastAddress = address
	v.lastInstruction = ins
	return nil
}

// fetch reads the opcode at the program counter and advances the counter.
func (v *VM) fetch() (Opcode, error) {
	if int(v.pc)+1 >= MemorySize {
		return 0, fmt.Errorf("%w: %04X", ErrProgramCounterOutOfRange, v.pc)
	}

	op := NewOpcode(v.memory[v.pc], v.memory[v.pc+1])
	v.pc += 2
	return op, nil
}

// readMemory returns a slice of length n of the memory starting at address.
func (v *VM) readMemory(address uint16, n int) ([]byte, error) {
	end := int(address) + n
	if end > MemorySize {
		return nil, fmt.Errorf("%w: reading %d bytes at %04X", ErrMemoryOutOfRange, n, address)
	}
	return v.memory[address:end], nil
}

// writeMemory copies data into memory starting at address. The interpreter
// area below ProgramStart is read only for programs.
func (v *VM) writeMemory(address uint16, data []byte) error {
	end := int(address) + len(data)
	if end > MemorySize {
		return fmt.Errorf("%w: writing %d bytes at %04X", ErrMemoryOutOfRange, len(data), address)
	}
	if address < ProgramStart {
		return fmt.Errorf("%w: writing %d bytes at %04X", ErrProtectedWrite, len(data), address)
	}
	copy(v.memory[address:end], data)
	return nil
}

// Memory returns a copy of the memory.
func (v *VM) Memory() []byte {
	memory := make([]byte, MemorySize)
	copy(memory, v.memory[:])
	return memory
}

// Registers returns the values of V0-VF.
func (v *VM) Registers() [RegisterCount]byte {
	return v.registers
}

// Register returns the value of register Vi. It panics if i is not a valid
// register index.
func (v *VM) Register(i int) byte {
	return v.registers[i]
}

// PC returns the program counter.
func (v *VM) PC() uint16 {
	return v.pc
}

// Index returns the value of the index register.
func (v *VM) Index() uint16 {
	return v.index.Get()
}

// SP returns the stack pointer, the number of return addresses on the stack.
func (v *VM) SP() byte {
	return v.sp
}

// Stack returns a copy of the return addresses currently on the stack, the
// oldest entry first.
func (v *VM) Stack() []uint16 {
	stack := make([]uint16, v.sp)
	copy(stack, v.stack[:v.sp])
	return stack
}

// DelayTimer returns the delay timer value.
func (v *VM) DelayTimer() byte {
	return v.delayTimer.Value()
}

// SoundTimer returns the sound timer value.
func (v *VM) SoundTimer() byte {
	return v.soundTimer.Value()
}

// Display returns the frame buffer. Callers must not draw to it.
func (v *VM) Display() *Display {
	return &v.display
}

// Keypad returns the keypad to feed key states into.
func (v *VM) Keypad() *Keypad {
	return &v.keypad
}

// LastInstruction returns the address and the instruction of the last
// successful step. Before the first step it returns an Invalid instruction.
func (v *VM) LastInstruction() (uint16, Instruction) {
	return v.lastAddress, v.lastInstruction
}
