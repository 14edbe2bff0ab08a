package engine

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/fentz26/blockshell/internal/block"
	"github.com/fentz26/blockshell/internal/event"
	"github.com/fentz26/blockshell/internal/pty"
	"github.com/fentz26/blockshell/internal/vt"
)

// interactiveState is one live PTY-backed command.
type interactiveState struct {
	session *pty.Session
}

// StartInteractive opens a PTY running the configured shell and treats it
// as one long-running command block. Output events for the command carry
// the interpreted text of the byte stream, not raw escape sequences.
func (e *Engine) StartInteractive(rows, cols uint16) (uuid.UUID, error) {
	if !e.running.Load() {
		return uuid.Nil, ErrEngineStopped
	}

	sessionID, err := e.ensureActiveSession()
	if err != nil {
		return uuid.Nil, err
	}

	ptySession, err := pty.Open(rows, cols, e.config.Shell)
	if err != nil {
		return uuid.Nil, fmt.Errorf("open interactive session: %w", err)
	}

	cwd := e.workingDirectory(sessionID)
	label := "interactive: " + e.config.Shell
	cb := block.NewCommandBlock(label, cwd)
	commandID := cb.Command.ID

	e.appendBlock(sessionID, cb.Command)

	e.cmdMu.Lock()
	e.commands[commandID] = &commandState{sessionID: sessionID, cmdBlock: cb}
	e.cmdMu.Unlock()

	e.interactiveMu.Lock()
	e.interactive[commandID] = &interactiveState{session: ptySession}
	e.interactiveMu.Unlock()

	e.bus.Publish(event.CommandStarted{ID: commandID, Command: label})

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.pumpInteractive(commandID, ptySession)
	}()

	return commandID, nil
}

// pumpInteractive drains the PTY through the VT interpreter until the
// shell exits, then seals the command.
func (e *Engine) pumpInteractive(commandID uuid.UUID, s *pty.Session) {
	interp := vt.New()
	buf := make([]byte, 4096)
	for {
		n, err := s.Read(buf)
		if n > 0 {
			if text := renderActions(interp.Process(buf[:n])); text != "" {
				e.bus.Publish(event.CommandOutput{ID: commandID, Output: text})
			}
		}
		if err != nil {
			break
		}
	}

	_ = s.Close()
	exitCode := s.ExitCode()

	e.interactiveMu.Lock()
	delete(e.interactive, commandID)
	e.interactiveMu.Unlock()

	e.bus.Publish(event.CommandFinished{ID: commandID, ExitCode: exitCode})
	log.Printf("Interactive session %s ended", commandID)
}

// WriteInteractive sends input bytes to a running interactive command.
func (e *Engine) WriteInteractive(commandID uuid.UUID, p []byte) error {
	e.interactiveMu.Lock()
	state, ok := e.interactive[commandID]
	e.interactiveMu.Unlock()
	if !ok {
		return ErrInteractiveNotFound
	}
	if _, err := state.session.Write(p); err != nil {
		return fmt.Errorf("write to interactive session: %w", err)
	}
	return nil
}

// ResizeInteractive resizes the PTY behind an interactive command.
func (e *Engine) ResizeInteractive(commandID uuid.UUID, rows, cols uint16) error {
	e.interactiveMu.Lock()
	state, ok := e.interactive[commandID]
	e.interactiveMu.Unlock()
	if !ok {
		return ErrInteractiveNotFound
	}
	return state.session.Resize(rows, cols)
}

// KillInteractive terminates the shell behind an interactive command.
// The reader pump observes the exit and seals the command block.
func (e *Engine) KillInteractive(commandID uuid.UUID) error {
	e.interactiveMu.Lock()
	state, ok := e.interactive[commandID]
	e.interactiveMu.Unlock()
	if !ok {
		return ErrInteractiveNotFound
	}
	return state.session.Kill()
}

// renderActions flattens VT actions back into display text: printed
// characters and cursor-relevant whitespace survive, styling does not.
func renderActions(actions []vt.Action) string {
	var sb strings.Builder
	for _, a := range actions {
		switch act := a.(type) {
		case vt.Print:
			sb.WriteRune(act.Char)
		case vt.LineFeed:
			sb.WriteByte('\n')
		case vt.CarriageReturn:
			sb.WriteByte('\r')
		case vt.Tab:
			sb.WriteByte('\t')
		}
	}
	return sb.String()
}
