package vm

import "fmt"

// KeyCount is the number of keys of the hexadecimal keypad.
const KeyCount = 16

// Keypad tracks the state of the 16 keys 0-F.
type Keypad struct {
	keys uint16 // bit n set means key n is down
}

// IsPressed returns whether the key is down.
func (k *Keypad) IsPressed(key byte) (bool, error) {
	if key >= KeyCount {
		return false, fmt.Errorf("%w: %d", ErrKeyOutOfRange, key)
	}
	return k.keys&(1<<key) != 0, nil
}

// PressedKey returns the lowest key that is down. The second return value is
// false if no key is down.
func (k *Keypad) PressedKey() (byte, bool) {
	for key := byte(0); key < KeyCount; key++ {
		if k.keys&(1<<key) != 0 {
			return key, true
		}
	}
	return 0, false
}

// SetKey sets the state of a key, it is called by the host to feed input.
func (k *Keypad) SetKey(key byte, down bool) error {
	if key >= KeyCount {
		return fmt.Errorf("%w: %d", ErrKeyOutOfRange, key)
	}
	if down {
		k.keys |= 1 << key
	} else {
		k.keys &^= 1 << key
	}
	return nil
}

// Reset releases all keys.
func (k *Keypad) Reset() {
	k.keys = 0
}
