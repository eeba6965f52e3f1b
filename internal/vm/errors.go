package vm

import (
	"errors"
	"fmt"
)

// Error kinds, every error returned by this package wraps one of them.
var (
	// ErrConfiguration is returned for invalid input that is rejected before any
	// instruction runs. The machine state is not modified.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvariantViolation signals a malformed program or a caller bug. Retrying
	// the failed step will fail again.
	ErrInvariantViolation = errors.New("invariant violation")
)

// Configuration errors.
var (
	ErrInvalidROMSize = fmt.Errorf("%w: invalid rom size", ErrConfiguration)
)

// Invariant violations.
var (
	ErrProgramCounterOutOfRange = fmt.Errorf("%w: program counter out of range", ErrInvariantViolation)
	ErrIndexOutOfRange          = fmt.Errorf("%w: index register value out of range", ErrInvariantViolation)
	ErrKeyOutOfRange            = fmt.Errorf("%w: key out of range", ErrInvariantViolation)
	ErrUnknownOpcode            = fmt.Errorf("%w: unknown opcode", ErrInvariantViolation)
	ErrStackUnderflow           = fmt.Errorf("%w: stack underflow", ErrInvariantViolation)
	ErrStackOverflow            = fmt.Errorf("%w: stack overflow", ErrInvariantViolation)
	ErrMemoryOutOfRange         = fmt.Errorf("%w: memory access out of range", ErrInvariantViolation)
	ErrProtectedWrite           = fmt.Errorf("%w: write to interpreter memory area", ErrInvariantViolation)
)

// ExecutionError is returned by Step when an instruction can not be executed.
type ExecutionError struct {
	Address uint16 // address the instruction was fetched from
	Opcode  Opcode // zero if the fetch itself failed
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("executing opcode %s at address %04X: %v", e.Opcode, e.Address, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}
