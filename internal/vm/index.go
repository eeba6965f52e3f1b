package vm

import "fmt"

// MaxIndex is the highest value the index register can be loaded with.
const MaxIndex = 0x0FFF

// IndexRegister is the 12-bit address register I.
type IndexRegister struct {
	value uint16
}

// Load sets the register. Values above MaxIndex are rejected.
func (r *IndexRegister) Load(value uint16) error {
	if value > MaxIndex {
		return fmt.Errorf("%w: %04X", ErrIndexOutOfRange, value)
	}
	r.value = value
	return nil
}

// Get returns the register value.
func (r IndexRegister) Get() uint16 {
	return r.value
}

// Add adds a byte to the register without checking the resulting range,
// memory accesses through I are bounds checked instead.
func (r *IndexRegister) Add(value byte) {
	r.value += uint16(value)
}
