package executor

import (
	"context"
	"fmt"
	"sync"
)

// FakeCommand simulates a runtime. It receives the argv and environment and
// returns an exit code. The context is cancelled when the fake executor is
// closed.
type FakeCommand func(ctx context.Context, argv, env []string) int

// Call records one Exec or Start invocation.
type Call struct {
	Path string
	Argv []string
	Env  []string
}

// FakeExecutor is a test implementation of Executor that runs registered
// fake commands in goroutines instead of OS processes.
type FakeExecutor struct {
	mu       sync.RWMutex
	commands map[string]FakeCommand
	execs    []Call
	starts   []Call
	nextPid  int

	ctx    context.Context
	cancel context.CancelFunc
}

// NewFakeExecutor creates a new FakeExecutor.
func NewFakeExecutor() *FakeExecutor {
	ctx, cancel := context.WithCancel(context.Background())
	return &FakeExecutor{
		commands: make(map[string]FakeCommand),
		nextPid:  1000,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// RegisterCommand registers a fake command for the given executable path.
func (e *FakeExecutor) RegisterCommand(path string, handler FakeCommand) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands[path] = handler
}

// Close cancels every running fake command.
func (e *FakeExecutor) Close() {
	e.cancel()
}

// Execs returns the recorded Exec calls.
func (e *FakeExecutor) Execs() []Call {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Call(nil), e.execs...)
}

// Starts returns the recorded Start calls.
func (e *FakeExecutor) Starts() []Call {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Call(nil), e.starts...)
}

func (e *FakeExecutor) lookup(path string) (FakeCommand, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	handler, ok := e.commands[path]
	if !ok {
		return nil, fmt.Errorf("executable %q not found", path)
	}
	return handler, nil
}

// Exec records the call. A real exec never returns on success; the fake
// returns nil so the caller can observe what would have run.
func (e *FakeExecutor) Exec(path string, argv, env []string) error {
	if _, err := e.lookup(path); err != nil {
		return err
	}
	e.mu.Lock()
	e.execs = append(e.execs, Call{Path: path, Argv: argv, Env: env})
	e.mu.Unlock()
	return nil
}

// Start implements Executor.Start for FakeExecutor.
func (e *FakeExecutor) Start(path string, argv, env []string) (Process, error) {
	handler, err := e.lookup(path)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.starts = append(e.starts, Call{Path: path, Argv: argv, Env: env})
	e.nextPid++
	pid := e.nextPid
	e.mu.Unlock()

	proc := &fakeProcess{pid: pid, done: make(chan struct{})}
	go func() {
		code := handler(e.ctx, argv, env)
		proc.mu.Lock()
		proc.exitCode = code
		proc.mu.Unlock()
		close(proc.done)
	}()
	return proc, nil
}

// fakeProcess implements Process for FakeExecutor.
type fakeProcess struct {
	pid      int
	done     chan struct{}
	mu       sync.Mutex
	exitCode int
}

func (p *fakeProcess) Pid() int {
	return p.pid
}

func (p *fakeProcess) Alive() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *fakeProcess) Release() error {
	return nil
}

// ExitCode returns the fake command's exit code once it has finished.
func (p *fakeProcess) ExitCode() (int, bool) {
	select {
	case <-p.done:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.exitCode, true
	default:
		return 0, false
	}
}
