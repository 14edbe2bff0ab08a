// Package pty owns interactive pseudo-terminal sessions: one shell child
// per session, driven through the PTY master.
package pty

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned where the platform has no PTY support.
var ErrUnsupported = errors.New("pty sessions are not supported on this platform")

// shellArgs returns the flags that put a shell into interactive use under
// a PTY: -i for POSIX shells, no-logo/no-exit for PowerShell.
func shellArgs(shell string) []string {
	switch strings.ToLower(filepath.Base(shell)) {
	case "pwsh", "powershell", "pwsh.exe", "powershell.exe":
		return []string{"-NoLogo", "-NoExit"}
	default:
		return []string{"-i"}
	}
}
