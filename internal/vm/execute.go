package vm

import "fmt"

// execute runs a decoded instruction. The program counter already points to the
// next instruction. Handlers check all preconditions before modifying state.
//
//nolint:cyclop,funlen,gocyclo // one case per instruction
func (v *VM) execute(ins Instruction, random byte) error {
	vx := v.registers[ins.X]
	vy := v.registers[ins.Y]

	switch ins.Kind {
	case Cls:
		v.display.Clear()

	case Ret:
		if v.sp == 0 {
			return ErrStackUnderflow
		}
		v.sp--
		v.pc = v.stack[v.sp]

	case Jp:
		v.pc = ins.NNN

	case Call:
		if v.sp >= StackSize {
			return fmt.Errorf("%w: depth %d", ErrStackOverflow, v.sp)
		}
		v.stack[v.sp] = v.pc
		v.sp++
		v.pc = ins.NNN

	case SeByte:
		v.skipIf(vx == ins.KK)

	case SneByte:
		v.skipIf(vx != ins.KK)

	case SeReg:
		v.skipIf(vx == vy)

	case LdByte:
		v.registers[ins.X] = ins.KK

	case AddByte:
		v.registers[ins.X] = vx + ins.KK

	case LdReg:
		v.registers[ins.X] = vy

	case Or:
		v.registers[ins.X] = vx | vy

	case And:
		v.registers[ins.X] = vx & vy

	case Xor:
		v.registers[ins.X] = vx ^ vy

	case AddReg:
		sum := uint16(vx) + uint16(vy)
		v.setWithFlag(ins.X, byte(sum), sum > 0xFF)

	case Sub:
		v.setWithFlag(ins.X, vx-vy, vx >= vy)

	case Shr:
		v.setWithFlag(ins.X, vx>>1, vx&0x01 != 0)

	case Subn:
		v.setWithFlag(ins.X, vy-vx, vy >= vx)

	case Shl:
		v.setWithFlag(ins.X, vx<<1, vx&0x80 != 0)

	case SneReg:
		v.skipIf(vx != vy)

	case LdI:
		return v.index.Load(ins.NNN)

	case JpV0:
		v.pc = uint16(v.registers[0]) + ins.NNN

	case Rnd:
		v.registers[ins.X] = random & ins.KK

	case Drw:
		return v.draw(ins.N, vx, vy)

	case Skp, Sknp:
		pressed, err := v.keypad.IsPressed(vx)
		if err != nil {
			return err
		}
		v.skipIf(pressed == (ins.Kind == Skp))

	case LdVxDT:
		v.registers[ins.X] = v.delayTimer.Value()

	case LdVxK:
		key, ok := v.keypad.PressedKey()
		if !ok {
			v.pc -= 2 // execute again on the next step
			return nil
		}
		v.registers[ins.X] = key

	case LdDTVx:
		v.delayTimer.Set(vx)

	case LdSTVx:
		v.soundTimer.Set(vx)

	case AddIVx:
		v.index.Add(vx)

	case LdFVx:
		return v.index.Load(FontStart + fontSpriteSize*uint16(vx))

	case LdBVx:
		digits := []byte{vx / 100, vx / 10 % 10, vx % 10}
		return v.writeMemory(v.index.Get(), digits)

	case LdIVx:
		return v.writeMemory(v.index.Get(), v.registers[:ins.X+1])

	case LdVxI:
		data, err := v.readMemory(v.index.Get(), int(ins.X)+1)
		if err != nil {
			return err
		}
		copy(v.registers[:], data)

	default:
		return fmt.Errorf("%w: %s", ErrUnknownOpcode, ins.Opcode)
	}

	return nil
}

// skipIf skips the next instruction if the condition is true.
func (v *VM) skipIf(condition bool) {
	if condition {
		v.pc += 2
	}
}

// setWithFlag sets register x and then VF, so that VF holds the flag even if
// x is the flag register.
func (v *VM) setWithFlag(x, value byte, flag bool) {
	v.registers[x] = value
	v.registers[FlagRegister] = boolToByte(flag)
}

// draw draws an n byte sprite located at I and sets VF on collision.
func (v *VM) draw(n, x, y byte) error {
	sprite, err := v.readMemory(v.index.Get(), int(n))
	if err != nil {
		return err
	}

	collided := v.display.Draw(sprite, x, y)
	v.registers[FlagRegister] = boolToByte(collided)
	return nil
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
