// Package vm implements the CHIP-8 interpreter core.
//
// # Machine Overview
//
// The interpreter owns all state of a CHIP-8 machine:
//   - 4KB of memory, the hex digit font is stored at FontStart
//   - 16 general-purpose 8-bit registers V0-VF, VF doubles as flag register
//   - a 12-bit index register I and a 16-bit program counter
//   - a 16 entry call stack
//   - the delay and sound timers
//   - a 16 key keypad and a 64x32 monochrome display
//
// # Instruction Cycle
//
// Step performs exactly one fetch-decode-execute cycle followed by one tick of
// both timers. The VM has no clock of its own, the caller decides how often Step
// is invoked. The random byte used by the RND instruction is passed to every
// Step call, which keeps execution deterministic and replayable.
//
// # Errors
//
// All errors wrap either ErrConfiguration or ErrInvariantViolation. A failed Step
// leaves the machine state unchanged and returns an *ExecutionError that carries
// the address and opcode of the offending instruction.
//
// # Usage Example
//
//	machine := vm.New()
//	if err := machine.LoadROM(rom); err != nil {
//		return fmt.Errorf("loading rom: %w", err)
//	}
//	for {
//		if err := machine.Step(randomByte()); err != nil {
//			return fmt.Errorf("executing step: %w", err)
//		}
//	}
package vm
