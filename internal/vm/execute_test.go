package vm

import (
	"bytes"
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// exec decodes and executes a single opcode without fetching it from memory.
func exec(t *testing.T, v *VM, op Opcode, random byte) error {
	t.Helper()
	ins, err := Decode(op)
	assert.NoError(t, err)
	return v.execute(ins, random)
}

func TestExecute_JumpCallReturn(t *testing.T) {
	v := newTestVM(t,
		0x2206, // 200: CALL 206
		0x6101, // 202: LD V1, 1
		0x1200, // 204: JP 200
		0x6202, // 206: LD V2, 2
		0x00EE, // 208: RET
	)

	stepN(t, v, 1)
	assert.Equal(t, uint16(0x206), v.PC())
	assert.Equal(t, byte(1), v.SP())
	assert.Equal(t, uint16(0x202), v.Stack()[0])

	stepN(t, v, 2)
	assert.Equal(t, uint16(0x202), v.PC())
	assert.Equal(t, byte(0), v.SP())

	stepN(t, v, 2)
	assert.Equal(t, uint16(0x200), v.PC())
	assert.Equal(t, byte(1), v.Register(1))
	assert.Equal(t, byte(2), v.Register(2))
}

func TestExecute_CallDepth(t *testing.T) {
	v := newTestVM(t, 0x2200) // CALL 200, recursing forever

	stepN(t, v, StackSize)
	assert.Equal(t, byte(StackSize), v.SP())

	err := v.Step(0)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.True(t, errors.Is(err, ErrInvariantViolation))
	assert.Equal(t, byte(StackSize), v.SP())
	assert.Equal(t, uint16(0x200), v.PC())
}

func TestExecute_ReturnUnderflow(t *testing.T) {
	v := New()
	err := exec(t, v, 0x00EE, 0)
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}

func TestExecute_Skips(t *testing.T) {
	tests := []struct {
		name string
		op   Opcode
		skip bool
	}{
		{"SE byte equal", 0x3012, true},
		{"SE byte not equal", 0x3013, false},
		{"SNE byte equal", 0x4012, false},
		{"SNE byte not equal", 0x4013, true},
		{"SE reg equal", 0x5010, true},
		{"SE reg not equal", 0x5020, false},
		{"SNE reg equal", 0x9010, false},
		{"SNE reg not equal", 0x9020, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.registers[0] = 0x12
			v.registers[1] = 0x12
			v.registers[2] = 0x34

			assert.NoError(t, exec(t, v, tt.op, 0))

			expected := uint16(ProgramStart)
			if tt.skip {
				expected += 2
			}
			assert.Equal(t, expected, v.PC())
		})
	}
}

func TestExecute_LoadAndLogic(t *testing.T) {
	v := New()

	assert.NoError(t, exec(t, v, 0x6FFF, 0))
	assert.Equal(t, byte(0xFF), v.Register(0xF))

	v.registers[0] = 0xBE
	v.registers[1] = 0x22

	assert.NoError(t, exec(t, v, 0x8011, 0))
	assert.Equal(t, byte(0xBE|0x22), v.Register(0))

	v.registers[0] = 0xBE
	assert.NoError(t, exec(t, v, 0x8012, 0))
	assert.Equal(t, byte(0xBE&0x22), v.Register(0))

	v.registers[0] = 0xBE
	assert.NoError(t, exec(t, v, 0x8013, 0))
	assert.Equal(t, byte(0xBE^0x22), v.Register(0))

	assert.NoError(t, exec(t, v, 0x8010, 0))
	assert.Equal(t, v.Register(1), v.Register(0))
}

func TestExecute_AddByteKeepsFlag(t *testing.T) {
	v := New()
	v.registers[1] = 0xFF
	v.registers[FlagRegister] = 0x55

	assert.NoError(t, exec(t, v, 0x7102, 0))
	assert.Equal(t, byte(0x01), v.Register(1))
	assert.Equal(t, byte(0x55), v.Register(FlagRegister))
}

func TestExecute_ArithmeticFlags(t *testing.T) {
	v := New()

	for a := range 256 {
		for b := range 256 {
			v.registers[0], v.registers[1] = byte(a), byte(b)
			assert.NoError(t, exec(t, v, 0x8014, 0))
			if v.registers[0] != byte(a+b) || v.registers[FlagRegister] != boolToByte(a+b > 255) {
				t.Fatalf("ADD %d, %d = %d flag %d", a, b, v.registers[0], v.registers[FlagRegister])
			}

			v.registers[0], v.registers[1] = byte(a), byte(b)
			assert.NoError(t, exec(t, v, 0x8015, 0))
			if v.registers[0] != byte(a-b) || v.registers[FlagRegister] != boolToByte(a >= b) {
				t.Fatalf("SUB %d, %d = %d flag %d", a, b, v.registers[0], v.registers[FlagRegister])
			}

			v.registers[0], v.registers[1] = byte(a), byte(b)
			assert.NoError(t, exec(t, v, 0x8017, 0))
			if v.registers[0] != byte(b-a) || v.registers[FlagRegister] != boolToByte(b >= a) {
				t.Fatalf("SUBN %d, %d = %d flag %d", a, b, v.registers[0], v.registers[FlagRegister])
			}
		}
	}
}

func TestExecute_ShiftFlags(t *testing.T) {
	v := New()

	for a := range 256 {
		v.registers[2] = byte(a)
		assert.NoError(t, exec(t, v, 0x8216, 0))
		if v.registers[2] != byte(a)>>1 || v.registers[FlagRegister] != byte(a)&1 {
			t.Fatalf("SHR %d = %d flag %d", a, v.registers[2], v.registers[FlagRegister])
		}

		v.registers[2] = byte(a)
		assert.NoError(t, exec(t, v, 0x821E, 0))
		if v.registers[2] != byte(a)<<1 || v.registers[FlagRegister] != byte(a)>>7 {
			t.Fatalf("SHL %d = %d flag %d", a, v.registers[2], v.registers[FlagRegister])
		}
	}
}

func TestExecute_FlagRegisterAsTarget(t *testing.T) {
	v := New()
	v.registers[FlagRegister] = 0xFF
	v.registers[1] = 0x01

	assert.NoError(t, exec(t, v, 0x8F14, 0))
	assert.Equal(t, byte(1), v.Register(FlagRegister))

	v.registers[FlagRegister] = 0x02
	assert.NoError(t, exec(t, v, 0x8F06, 0))
	assert.Equal(t, byte(0), v.Register(FlagRegister))
}

func TestExecute_IndexAndJump(t *testing.T) {
	v := New()

	assert.NoError(t, exec(t, v, 0xA2F0, 0))
	assert.Equal(t, uint16(0x2F0), v.Index())

	v.registers[3] = 0x10
	assert.NoError(t, exec(t, v, 0xF31E, 0))
	assert.Equal(t, uint16(0x300), v.Index())

	v.registers[0] = 0x10
	assert.NoError(t, exec(t, v, 0xB300, 0))
	assert.Equal(t, uint16(0x310), v.PC())

	// the full 12-bit address is used
	assert.NoError(t, exec(t, v, 0xBFFF, 0))
	assert.Equal(t, uint16(0x100F), v.PC())
}

func TestExecute_Random(t *testing.T) {
	v := New()

	assert.NoError(t, exec(t, v, 0xC40F, 0xAB))
	assert.Equal(t, byte(0x0B), v.Register(4))

	assert.NoError(t, exec(t, v, 0xC400, 0xAB))
	assert.Equal(t, byte(0x00), v.Register(4))
}

func TestExecute_Draw(t *testing.T) {
	v := New()
	v.registers[0] = 0x0
	v.registers[1] = 2
	v.registers[2] = 3

	assert.NoError(t, exec(t, v, 0xF029, 0)) // LD F, V0
	assert.Equal(t, uint16(FontStart), v.Index())

	assert.NoError(t, exec(t, v, 0xD125, 0))
	assert.Equal(t, byte(0), v.Register(FlagRegister))
	assert.True(t, v.Display().Pixel(2, 3))
	assert.False(t, v.Display().Pixel(3, 4))

	assert.NoError(t, exec(t, v, 0xD125, 0))
	assert.Equal(t, byte(1), v.Register(FlagRegister))
	for _, pixel := range v.Display().Pixels() {
		assert.Equal(t, PixelOff, pixel)
	}
}

func TestExecute_DrawOutOfMemory(t *testing.T) {
	v := New()
	assert.NoError(t, v.index.Load(MaxIndex-1))
	v.registers[FlagRegister] = 0x42

	err := exec(t, v, 0xD005, 0)
	assert.True(t, errors.Is(err, ErrMemoryOutOfRange))
	assert.Equal(t, byte(0x42), v.Register(FlagRegister))
}

func TestExecute_Keys(t *testing.T) {
	v := New()
	v.registers[0] = 0x7
	assert.NoError(t, v.Keypad().SetKey(0x7, true))

	assert.NoError(t, exec(t, v, 0xE09E, 0))
	assert.Equal(t, uint16(ProgramStart+2), v.PC())
	assert.NoError(t, exec(t, v, 0xE0A1, 0))
	assert.Equal(t, uint16(ProgramStart+2), v.PC())

	assert.NoError(t, v.Keypad().SetKey(0x7, false))
	assert.NoError(t, exec(t, v, 0xE0A1, 0))
	assert.Equal(t, uint16(ProgramStart+4), v.PC())

	v.registers[0] = KeyCount
	err := exec(t, v, 0xE09E, 0)
	assert.True(t, errors.Is(err, ErrKeyOutOfRange))
}

func TestExecute_WaitForKey(t *testing.T) {
	v := newTestVM(t, 0xF30A)

	for range 3 {
		stepN(t, v, 1)
		assert.Equal(t, uint16(ProgramStart), v.PC())
	}

	assert.NoError(t, v.Keypad().SetKey(0x9, true))
	assert.NoError(t, v.Keypad().SetKey(0x4, true))
	stepN(t, v, 1)
	assert.Equal(t, uint16(ProgramStart+2), v.PC())
	assert.Equal(t, byte(0x4), v.Register(3))
}

func TestExecute_FontAddress(t *testing.T) {
	v := New()
	v.registers[5] = 0xA

	assert.NoError(t, exec(t, v, 0xF529, 0))
	assert.Equal(t, uint16(FontStart+5*0xA), v.Index())
}

func TestExecute_BCD(t *testing.T) {
	v := New()
	v.registers[0] = 254
	assert.NoError(t, v.index.Load(0x300))

	assert.NoError(t, exec(t, v, 0xF033, 0))
	assert.True(t, bytes.Equal([]byte{2, 5, 4}, v.memory[0x300:0x303]))
	assert.Equal(t, uint16(0x300), v.Index())

	v.registers[0] = 7
	assert.NoError(t, exec(t, v, 0xF033, 0))
	assert.True(t, bytes.Equal([]byte{0, 0, 7}, v.memory[0x300:0x303]))
}

func TestExecute_ProtectedWrite(t *testing.T) {
	v := New()
	v.registers[0] = 0xFF
	assert.NoError(t, v.index.Load(FontStart))
	before := v.Memory()

	err := exec(t, v, 0xF033, 0)
	assert.True(t, errors.Is(err, ErrProtectedWrite))
	err = exec(t, v, 0xF055, 0)
	assert.True(t, errors.Is(err, ErrProtectedWrite))
	assert.True(t, bytes.Equal(before, v.Memory()))
}

func TestExecute_StoreAndLoadRegisters(t *testing.T) {
	v := New()
	for i := range RegisterCount {
		v.registers[i] = byte(i + 1)
	}
	assert.NoError(t, v.index.Load(0x400))

	assert.NoError(t, exec(t, v, 0xF355, 0))
	assert.True(t, bytes.Equal([]byte{1, 2, 3, 4, 0}, v.memory[0x400:0x405]))
	assert.Equal(t, uint16(0x400), v.Index())

	v.registers = [RegisterCount]byte{}
	v.memory[0x404] = 0x99
	assert.NoError(t, exec(t, v, 0xF465, 0))
	assert.Equal(t, [RegisterCount]byte{1, 2, 3, 4, 0x99}, v.Registers())

	assert.NoError(t, v.index.Load(MaxIndex))
	err := exec(t, v, 0xF165, 0)
	assert.True(t, errors.Is(err, ErrMemoryOutOfRange))
}
