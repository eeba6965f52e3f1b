package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/term"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// DefaultHoldDuration is how long a key stays pressed after it was typed.
// Terminals report no key releases, auto repeat keeps a held key pressed.
const DefaultHoldDuration = 150 * time.Millisecond

const (
	ttyDevice   = "/dev/tty"
	readTimeout = 100 * time.Millisecond

	keyEscape = 0x1b
	keyCtrlC  = 0x03
)

// Keyboard reads key presses from the controlling terminal and turns them
// into keypad events.
type Keyboard struct {
	logger *log.Logger
	tty    *term.Term
	cancel context.CancelFunc
	hold   time.Duration

	events chan runner.KeyEvent
	done   chan struct{}
	wg     sync.WaitGroup

	mu   sync.Mutex
	held map[byte]*heldKey // keys currently reported as pressed
}

// heldKey tracks the pending release of a pressed key. The generation changes
// with every repeated press, a release timer only fires for its generation.
type heldKey struct {
	release    *time.Timer
	generation uint64
}

// OpenKeyboard switches the controlling terminal into raw mode and starts
// reading from it. Escape or Ctrl-C calls cancel.
func OpenKeyboard(logger *log.Logger, cancel context.CancelFunc, hold time.Duration) (*Keyboard, error) {
	tty, err := term.Open(ttyDevice, term.RawMode, term.ReadTimeout(readTimeout))
	if err != nil {
		return nil, fmt.Errorf("opening terminal '%s': %w", ttyDevice, err)
	}

	k := newKeyboard(logger, cancel, hold)
	k.tty = tty
	k.wg.Add(1)
	go k.read()
	return k, nil
}

func newKeyboard(logger *log.Logger, cancel context.CancelFunc, hold time.Duration) *Keyboard {
	if hold <= 0 {
		hold = DefaultHoldDuration
	}
	return &Keyboard{
		logger: logger,
		cancel: cancel,
		hold:   hold,
		events: make(chan runner.KeyEvent, 64),
		done:   make(chan struct{}),
		held:   map[byte]*heldKey{},
	}
}

// Events returns the channel of keypad events.
func (k *Keyboard) Events() <-chan runner.KeyEvent {
	return k.events
}

// Close stops reading and restores the previous terminal mode.
func (k *Keyboard) Close() error {
	close(k.done)
	k.wg.Wait()

	k.mu.Lock()
	for _, held := range k.held {
		held.release.Stop()
	}
	k.mu.Unlock()

	if k.tty == nil {
		return nil
	}
	restoreErr := k.tty.Restore()
	closeErr := k.tty.Close()
	if err := errors.Join(restoreErr, closeErr); err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	return nil
}

func (k *Keyboard) read() {
	defer k.wg.Done()

	buf := make([]byte, 16)
	for {
		select {
		case <-k.done:
			return
		default:
		}

		n, err := k.tty.Read(buf)
		if err != nil && !errors.Is(err, io.EOF) { // EOF signals a read timeout
			k.logger.Error("Reading from terminal failed", log.Err(err))
			k.cancel()
			return
		}
		for _, b := range buf[:n] {
			k.handle(b)
		}
	}
}

// handle processes a single byte read from the terminal.
func (k *Keyboard) handle(b byte) {
	if b == keyEscape || b == keyCtrlC {
		k.cancel()
		return
	}

	key, ok := KeyMap(b)
	if !ok {
		return
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if held, ok := k.held[key]; ok {
		// still pressed, extend the hold time
		held.release.Stop()
		held.generation++
		held.release = k.scheduleRelease(key, held.generation)
		return
	}

	k.send(runner.KeyEvent{Key: key, Down: true})
	k.held[key] = &heldKey{
		release: k.scheduleRelease(key, 0),
	}
}

func (k *Keyboard) scheduleRelease(key byte, generation uint64) *time.Timer {
	return time.AfterFunc(k.hold, func() {
		k.release(key, generation)
	})
}

// release reports the key as released unless it was pressed again after the
// release of the given generation was scheduled.
func (k *Keyboard) release(key byte, generation uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()

	held, ok := k.held[key]
	if !ok || held.generation != generation {
		return
	}
	delete(k.held, key)
	k.send(runner.KeyEvent{Key: key, Down: false})
}

func (k *Keyboard) send(event runner.KeyEvent) {
	select {
	case k.events <- event:
	case <-k.done:
	}
}
