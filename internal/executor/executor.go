// Package executor provides an abstraction for handing control to the runtime:
// either replacing the current process image or starting a detached child.
package executor

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// Process represents a detached child.
type Process interface {
	// Pid returns the OS process ID.
	Pid() int
	// Alive reports whether the process is still running. It reaps the
	// child if it has exited.
	Alive() bool
	// Release lets the process run on without the launcher tracking it.
	Release() error
}

// Executor starts processes.
type Executor interface {
	// Exec replaces the current process image. It only returns on failure.
	Exec(path string, argv, env []string) error

	// Start starts path as a background child with stdin closed and
	// stdout/stderr inherited.
	Start(path string, argv, env []string) (Process, error)
}

// ExecExecutor is the default Executor backed by execve(2) and fork/exec.
type ExecExecutor struct{}

// osProcess wraps os.Process to implement Process.
type osProcess struct {
	proc *os.Process
}

func (p *osProcess) Pid() int {
	return p.proc.Pid
}

func (p *osProcess) Alive() bool {
	pid := p.proc.Pid
	for {
		var status unix.WaitStatus
		wpid, err := unix.Wait4(pid, &status, unix.WNOHANG, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			// Not our child (or already reaped): fall back to signal 0.
			return unix.Kill(pid, 0) == nil
		}
		return wpid == 0
	}
}

func (p *osProcess) Release() error {
	return p.proc.Release()
}

// Exec implements Executor.Exec using execve(2).
func (e *ExecExecutor) Exec(path string, argv, env []string) error {
	if err := unix.Exec(path, argv, env); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	return nil
}

// Start implements Executor.Start. A nil stdin entry closes fd 0 in the
// child. The child gets its own process group so terminal signals aimed at
// the launcher do not reach it.
func (e *ExecExecutor) Start(path string, argv, env []string) (Process, error) {
	proc, err := os.StartProcess(path, argv, &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, os.Stdout, os.Stderr},
		Sys:   &syscall.SysProcAttr{Setpgid: true},
	})
	if err != nil {
		return nil, err
	}
	return &osProcess{proc: proc}, nil
}

// Default returns the default ExecExecutor.
func Default() Executor {
	return &ExecExecutor{}
}
