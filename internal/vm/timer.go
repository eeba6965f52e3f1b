package vm

// Timer is an 8-bit counter that decrements towards zero.
type Timer struct {
	count byte
}

// Tick decrements the counter, it stays at zero once reached.
func (t *Timer) Tick() {
	if t.count > 0 {
		t.count--
	}
}

// Set overwrites the counter.
func (t *Timer) Set(value byte) {
	t.count = value
}

// Value returns the current count.
func (t Timer) Value() byte {
	return t.count
}
