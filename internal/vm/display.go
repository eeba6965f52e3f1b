package vm

// Display dimensions and pixel values.
const (
	DisplayWidth  = 64
	DisplayHeight = 32

	PixelOff byte = 0x00
	PixelOn  byte = 0xFF
)

// Display is the monochrome frame buffer, one byte per pixel in row-major order.
type Display struct {
	pixels [DisplayWidth * DisplayHeight]byte
}

// Clear turns all pixels off.
func (d *Display) Clear() {
	d.pixels = [DisplayWidth * DisplayHeight]byte{}
}

// Draw XORs the sprite onto the display with its top left corner at x, y.
// Every sprite byte is one row, the most significant bit is the leftmost
// column. The anchor wraps around the display edges, the sprite itself is
// clipped at the right and bottom edge. The return value reports whether any
// lit pixel was turned off.
func (d *Display) Draw(sprite []byte, x, y byte) bool {
	originX := int(x) % DisplayWidth
	originY := int(y) % DisplayHeight
	collided := false

	for row, data := range sprite {
		py := originY + row
		if py >= DisplayHeight {
			break
		}

		for col := range 8 {
			if data&(byte(0x80)>>col) == 0 {
				continue
			}
			px := originX + col
			if px >= DisplayWidth {
				break
			}

			offset := py*DisplayWidth + px
			if d.pixels[offset] != PixelOff {
				collided = true
			}
			d.pixels[offset] ^= PixelOn
		}
	}

	return collided
}

// Pixel returns whether the pixel at x, y is lit. Coordinates outside of the
// display return false.
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}
	return d.pixels[y*DisplayWidth+x] != PixelOff
}

// Pixels returns a copy of the frame buffer.
func (d *Display) Pixels() []byte {
	pixels := make([]byte, len(d.pixels))
	copy(pixels, d.pixels[:])
	return pixels
}
