//go:build windows

package pty

// Session is a placeholder on Windows; ConPTY support is not wired up.
type Session struct{}

// Open always fails on Windows.
func Open(rows, cols uint16, shell string) (*Session, error) {
	return nil, ErrUnsupported
}

func (s *Session) Resize(rows, cols uint16) error { return ErrUnsupported }
func (s *Session) Write(p []byte) (int, error)    { return 0, ErrUnsupported }
func (s *Session) Read(p []byte) (int, error)     { return 0, ErrUnsupported }
func (s *Session) IsAlive() bool                  { return false }
func (s *Session) ExitCode() int                  { return -1 }
func (s *Session) Kill() error                    { return nil }
func (s *Session) Close() error                   { return nil }
