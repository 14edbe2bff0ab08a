package engine

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"

	"github.com/fentz26/blockshell/internal/block"
)

func trimCommand(command string) string {
	return strings.TrimSpace(command)
}

// dispatchBuiltin intercepts commands the engine answers itself instead
// of shelling out. It returns handled=false for anything that should be
// spawned.
func (e *Engine) dispatchBuiltin(command string, sessionID uuid.UUID) (*block.Block, bool, error) {
	switch {
	case command == "clear":
		if err := e.ClearSession(sessionID); err != nil {
			return nil, true, err
		}
		return block.NewSystem("Screen cleared"), true, nil

	case command == "exit" || command == "quit":
		e.Shutdown()
		return block.NewSystem("Goodbye!"), true, nil

	case command == "pwd":
		return block.NewOutput(e.workingDirectory(sessionID)), true, nil

	case command == "cd" || strings.HasPrefix(command, "cd "):
		blk, err := e.changeDirectory(command, sessionID)
		return blk, true, err
	}
	return nil, false, nil
}

// changeDirectory handles the cd built-in: it moves the process working
// directory and mirrors the result onto the session. On failure neither
// is touched.
func (e *Engine) changeDirectory(command string, sessionID uuid.UUID) (*block.Block, error) {
	words, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parse cd arguments: %w", err)
	}

	var target string
	if len(words) < 2 {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate home directory: %w", err)
		}
		target = home
	} else {
		target = words[1]
	}

	if err := os.Chdir(target); err != nil {
		return nil, fmt.Errorf("failed to change directory: %w", err)
	}

	resolved, err := os.Getwd()
	if err != nil {
		resolved = target
	}

	e.sessionsMu.Lock()
	if s, ok := e.sessions[sessionID]; ok {
		s.SetWorkingDirectory(resolved)
	}
	e.sessionsMu.Unlock()

	return block.NewSystem("Changed directory to: " + resolved), nil
}
