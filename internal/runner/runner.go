// Package runner drives a CHIP-8 machine at a configurable instruction rate.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// DefaultRate is the number of instructions executed per second if no rate
// is configured.
const DefaultRate = 500

// MaxRate is the highest supported instruction rate.
const MaxRate = 100_000

var (
	// ErrBreakpoint is returned when execution reaches a breakpoint address.
	ErrBreakpoint = errors.New("breakpoint reached")
	// ErrStopped is returned when a stopped runner is started again.
	ErrStopped = errors.New("runner is stopped")
)

// Machine is the part of the interpreter the runner drives.
type Machine interface {
	Step(random byte) error
	PC() uint16
	Keypad() *vm.Keypad
	Display() *vm.Display
	LastInstruction() (uint16, vm.Instruction)
}

// FrameSink receives the display after every instruction that modified it.
type FrameSink interface {
	Render(display *vm.Display) error
}

// KeyEvent changes the state of a keypad key.
type KeyEvent struct {
	Key  byte
	Down bool
}

// Runner executes instructions of a machine, paced by a ticker.
type Runner struct {
	logger  *log.Logger
	machine Machine

	rate        int
	maxSteps    uint64
	breakpoints set.Set[uint16]
	random      RandomSource
	sink        FrameSink
	keyEvents   <-chan KeyEvent

	state          State
	steps          uint64
	skipBreakpoint bool // set after a breakpoint hit to resume past it
}

// Option configures a runner.
type Option func(*Runner)

// WithRate sets the number of instructions executed per second.
func WithRate(hz int) Option {
	return func(r *Runner) {
		r.rate = hz
	}
}

// WithMaxSteps stops the runner after the given number of steps, 0 means no limit.
func WithMaxSteps(steps uint64) Option {
	return func(r *Runner) {
		r.maxSteps = steps
	}
}

// WithBreakpoints pauses execution before an instruction at any of the
// addresses is executed.
func WithBreakpoints(addresses ...uint16) Option {
	return func(r *Runner) {
		for _, address := range addresses {
			r.breakpoints.Add(address)
		}
	}
}

// WithRandom sets the source of the random bytes passed to every step.
func WithRandom(random RandomSource) Option {
	return func(r *Runner) {
		r.random = random
	}
}

// WithFrameSink sets the receiver of display updates.
func WithFrameSink(sink FrameSink) Option {
	return func(r *Runner) {
		r.sink = sink
	}
}

// WithKeyEvents sets the channel that key events are read from between steps.
func WithKeyEvents(events <-chan KeyEvent) Option {
	return func(r *Runner) {
		r.keyEvents = events
	}
}

// New returns a new runner for the machine.
func New(logger *log.Logger, machine Machine, options ...Option) (*Runner, error) {
	r := &Runner{
		logger:      logger,
		machine:     machine,
		rate:        DefaultRate,
		breakpoints: set.New[uint16](),
	}
	for _, option := range options {
		option(r)
	}

	if r.rate < 1 || r.rate > MaxRate {
		return nil, fmt.Errorf("invalid rate %d, expected between 1 and %d", r.rate, MaxRate)
	}
	if r.random == nil {
		r.random = NewRandom(uint64(time.Now().UnixNano()))
	}
	return r, nil
}

// State returns the current execution state.
func (r *Runner) State() State {
	return r.state
}

// Steps returns the number of successfully executed steps.
func (r *Runner) Steps() uint64 {
	return r.steps
}

// Run executes instructions at the configured rate until the context is
// cancelled, the step limit is reached, a breakpoint is hit or a step fails.
// Cancellation pauses the runner and returns nil, it can be resumed by calling
// Run again.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.start(); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Second / time.Duration(r.rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.setState(Paused)
			return nil
		case <-ticker.C:
		}

		done, err := r.cycle()
		if done {
			return err
		}
	}
}

// RunSteps executes up to n instructions without pacing.
func (r *Runner) RunSteps(n int) error {
	if err := r.start(); err != nil {
		return err
	}

	for range n {
		done, err := r.cycle()
		if done {
			return err
		}
	}

	r.setState(Paused)
	return nil
}

func (r *Runner) start() error {
	if r.state == Stopped {
		return ErrStopped
	}
	r.setState(Running)
	return nil
}

// cycle executes a single step. It returns true if execution has to end.
func (r *Runner) cycle() (bool, error) {
	r.applyKeyEvents()

	pc := r.machine.PC()
	if r.breakpoints.Contains(pc) && !r.skipBreakpoint {
		r.skipBreakpoint = true
		r.setState(Paused)
		return true, fmt.Errorf("%w at address %04X", ErrBreakpoint, pc)
	}
	r.skipBreakpoint = false

	if err := r.machine.Step(r.random.Byte()); err != nil {
		r.setState(Stopped)
		return true, fmt.Errorf("executing step %d: %w", r.steps+1, err)
	}
	r.steps++

	address, ins := r.machine.LastInstruction()
	r.logger.Debug("Executed instruction",
		log.Hex("address", address),
		log.Stringer("opcode", ins.Opcode),
		log.Stringer("instruction", ins))

	if ins.WritesDisplay() && r.sink != nil {
		if err := r.sink.Render(r.machine.Display()); err != nil {
			r.setState(Stopped)
			return true, fmt.Errorf("rendering display: %w", err)
		}
	}

	if r.maxSteps > 0 && r.steps >= r.maxSteps {
		r.setState(Stopped)
		return true, nil
	}
	return false, nil
}

// applyKeyEvents feeds all pending key events into the keypad.
func (r *Runner) applyKeyEvents() {
	if r.keyEvents == nil {
		return
	}

	for {
		select {
		case event, ok := <-r.keyEvents:
			if !ok {
				r.keyEvents = nil
				return
			}
			if err := r.machine.Keypad().SetKey(event.Key, event.Down); err != nil {
				r.logger.Warn("Ignoring key event", log.Err(err))
			}
		default:
			return
		}
	}
}

func (r *Runner) setState(state State) {
	if r.state == state {
		return
	}
	r.logger.Info("Runner state changed",
		log.Stringer("from", r.state),
		log.Stringer("to", state),
		log.Int("steps", int(r.steps)))
	r.state = state
}
