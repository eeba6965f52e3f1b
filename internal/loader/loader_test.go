package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	t.Run("load CHIP8 file", func(t *testing.T) {
		data := []byte{0x12, 0x34, 0x56, 0x78}
		tmpFile := createTempFile(t, data)

		rom, err := New().Load(tmpFile)
		assert.NoError(t, err)
		assert.True(t, bytes.Equal(data, rom))
	})

	t.Run("oversized file is truncated after limit", func(t *testing.T) {
		tmpFile := createTempFile(t, make([]byte, 2*vm.MaxROMSize))

		rom, err := New().Load(tmpFile)
		assert.NoError(t, err)
		assert.Len(t, rom, vm.MaxROMSize+1)

		err = vm.New().LoadROM(rom)
		assert.True(t, errors.Is(err, vm.ErrInvalidROMSize))
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		_, err := New().Load("/nonexistent/file.ch8")
		assert.Error(t, err)
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device error")
}

func TestLoadFromReader(t *testing.T) {
	rom, err := New().LoadFromReader(bytes.NewReader([]byte{0x00, 0xE0}))
	assert.NoError(t, err)
	assert.Len(t, rom, 2)

	_, err = New().LoadFromReader(failingReader{})
	assert.ErrorContains(t, err, "device error")
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.ch8")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
