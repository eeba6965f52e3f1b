package vm

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestKeypad_IsPressed(t *testing.T) {
	var keypad Keypad
	assert.NoError(t, keypad.SetKey(10, true))

	for key := byte(0); key < KeyCount; key++ {
		pressed, err := keypad.IsPressed(key)
		assert.NoError(t, err)
		assert.Equal(t, key == 10, pressed)
	}

	_, err := keypad.IsPressed(KeyCount)
	assert.True(t, errors.Is(err, ErrKeyOutOfRange))
	assert.True(t, errors.Is(keypad.SetKey(20, true), ErrKeyOutOfRange))
}

func TestKeypad_PressedKey(t *testing.T) {
	var keypad Keypad

	_, ok := keypad.PressedKey()
	assert.False(t, ok)

	assert.NoError(t, keypad.SetKey(0xC, true))
	assert.NoError(t, keypad.SetKey(0x9, true))
	key, ok := keypad.PressedKey()
	assert.True(t, ok)
	assert.Equal(t, byte(0x9), key)

	assert.NoError(t, keypad.SetKey(0x9, false))
	key, ok = keypad.PressedKey()
	assert.True(t, ok)
	assert.Equal(t, byte(0xC), key)

	keypad.Reset()
	_, ok = keypad.PressedKey()
	assert.False(t, ok)
}
