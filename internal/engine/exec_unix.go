//go:build !windows

package engine

// shellInvocation builds the argv that hands a command line to the shell.
func shellInvocation(shell, command string) (string, []string) {
	return shell, []string{"-c", command}
}
