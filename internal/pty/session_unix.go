//go:build !windows

package pty

import (
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// Session is one pseudo-terminal pair with its shell child. The master
// file is safe for one concurrent reader plus one writer; Resize and
// Kill may be called from any goroutine.
type Session struct {
	ptmx *os.File
	cmd  *exec.Cmd

	mu     sync.Mutex
	exited chan struct{}
	closed bool
}

// Open allocates a PTY of the given size and spawns shell as its
// controlling process.
func Open(rows, cols uint16, shell string) (*Session, error) {
	cmd := exec.Command(shell, shellArgs(shell)...)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: rows, Cols: cols})
	if err != nil {
		return nil, fmt.Errorf("start pty shell %s: %w", shell, err)
	}

	s := &Session{
		ptmx:   ptmx,
		cmd:    cmd,
		exited: make(chan struct{}),
	}
	// Reap the child as soon as it exits so IsAlive never sees a zombie.
	go func() {
		_ = cmd.Wait()
		close(s.exited)
	}()
	return s, nil
}

// Resize changes the PTY window size.
func (s *Session) Resize(rows, cols uint16) error {
	if err := pty.Setsize(s.ptmx, &pty.Winsize{Rows: rows, Cols: cols}); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}
	return nil
}

// Write sends input to the shell.
func (s *Session) Write(p []byte) (int, error) {
	return s.ptmx.Write(p)
}

// Read fills p with output from the shell.
func (s *Session) Read(p []byte) (int, error) {
	return s.ptmx.Read(p)
}

// IsAlive reports whether the shell child is still running.
func (s *Session) IsAlive() bool {
	select {
	case <-s.exited:
		return false
	default:
		return true
	}
}

// Kill terminates the shell child and waits for it to be reaped.
func (s *Session) Kill() error {
	if s.cmd.Process == nil {
		return nil
	}
	err := s.cmd.Process.Kill()
	<-s.exited
	if err != nil && err != os.ErrProcessDone {
		return fmt.Errorf("kill pty child: %w", err)
	}
	return nil
}

// ExitCode blocks until the child has exited and returns its exit code,
// -1 when it was killed by a signal. Callers ensure the child is dead
// (Kill or Close) before asking.
func (s *Session) ExitCode() int {
	<-s.exited
	if s.cmd.ProcessState != nil {
		return s.cmd.ProcessState.ExitCode()
	}
	return -1
}

// Close kills the child (best effort) and releases the master fd. Safe to
// call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.IsAlive() {
		_ = s.Kill()
	}
	return s.ptmx.Close()
}
