// Package pipeline orchestrates the stages of running a ROM: system detection,
// loading, machine setup, execution and the final state dump.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/app"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/inspect"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrochip8/internal/statsview"
	"github.com/retroenv/retrochip8/internal/terminal"
	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// dumpInstructions is the number of instructions listed in state dumps.
const dumpInstructions = 8

// Pipeline orchestrates the complete execution workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// Result contains the outcome of a run.
type Result struct {
	Machine *vm.VM
	State   runner.State
	Steps   uint64
}

// New creates a new execution pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute runs the complete pipeline for the ROM file named in the options.
// The terminal frontend and state dumps are written to output.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, output io.Writer) (*Result, error) {
	system, err := p.detector.Detect(opts)
	if err != nil {
		return nil, fmt.Errorf("detecting system: %w", err)
	}

	rom, err := p.loader.Load(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}

	return p.ExecuteWithROM(ctx, rom, opts, output, system)
}

// ExecuteWithROM runs the pipeline with ROM data that is already in memory.
func (p *Pipeline) ExecuteWithROM(ctx context.Context, rom []byte, opts options.Program,
	output io.Writer, system arch.System) (*Result, error) {

	machine := vm.New()
	if err := machine.LoadROM(rom); err != nil {
		return nil, fmt.Errorf("loading ROM into memory: %w", err)
	}

	random, seed := config.CreateRandomSource(opts.Seed)
	app.PrintInfo(p.logger, opts, system, len(rom), seed)

	if opts.StatsView {
		statsview.Launch(p.logger)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runnerOpts := []runner.Option{
		runner.WithRate(opts.Rate),
		runner.WithMaxSteps(opts.Steps),
		runner.WithBreakpoints(opts.Breakpoints...),
		runner.WithRandom(random),
	}

	if !opts.Headless {
		frontendOpts, closeFrontend, err := p.openFrontend(output, cancel)
		if err != nil {
			return nil, fmt.Errorf("opening terminal frontend: %w", err)
		}
		defer closeFrontend()
		runnerOpts = append(runnerOpts, frontendOpts...)
	}

	r, err := runner.New(p.logger, machine, runnerOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating runner: %w", err)
	}

	runErr := r.Run(ctx)
	result := &Result{
		Machine: machine,
		State:   r.State(),
		Steps:   r.Steps(),
	}
	return result, p.finish(opts, result, runErr, output)
}

// openFrontend sets up the terminal renderer and keyboard. The returned
// function restores the terminal.
func (p *Pipeline) openFrontend(output io.Writer, cancel context.CancelFunc) ([]runner.Option, func(), error) {
	if err := terminal.CheckGeometry(int(os.Stdout.Fd())); err != nil {
		return nil, nil, fmt.Errorf("checking terminal geometry: %w", err)
	}

	keyboard, err := terminal.OpenKeyboard(p.logger, cancel, terminal.DefaultHoldDuration)
	if err != nil {
		return nil, nil, fmt.Errorf("opening keyboard: %w", err)
	}

	renderer := terminal.NewRenderer(output)
	if err := renderer.Start(); err != nil {
		_ = keyboard.Close()
		return nil, nil, fmt.Errorf("starting renderer: %w", err)
	}

	closeFrontend := func() {
		if err := renderer.Stop(); err != nil {
			p.logger.Error("Restoring terminal output failed", log.Err(err))
		}
		if err := keyboard.Close(); err != nil {
			p.logger.Error("Restoring terminal input failed", log.Err(err))
		}
	}

	opts := []runner.Option{
		runner.WithFrameSink(renderer),
		runner.WithKeyEvents(keyboard.Events()),
	}
	return opts, closeFrontend, nil
}

// finish logs the outcome of the run and dumps the machine state if requested
// or if execution ended abnormally.
func (p *Pipeline) finish(opts options.Program, result *Result, runErr error, output io.Writer) error {
	dump := opts.Dump

	switch {
	case runErr == nil && result.State == runner.Paused:
		p.logger.Info("Execution interrupted", log.String("steps", fmt.Sprintf("%d", result.Steps)))

	case runErr == nil:
		p.logger.Info("Execution finished", log.String("steps", fmt.Sprintf("%d", result.Steps)))

	case errors.Is(runErr, runner.ErrBreakpoint):
		p.logger.Info("Execution paused", log.Err(runErr))
		dump = true
		runErr = nil

	default:
		dump = true
		runErr = fmt.Errorf("running ROM: %w", runErr)
	}

	if dump {
		if err := inspect.Dump(output, result.Machine, inspect.Options{Instructions: dumpInstructions}); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}
