// Package event defines the terminal event stream carried from the
// execution engine to a single UI consumer.
package event

import (
	"github.com/google/uuid"

	"github.com/fentz26/blockshell/internal/block"
)

// Event is one terminal event. All command-scoped events carry the id of
// the command they belong to; Error is global.
type Event interface {
	isEvent()
}

// CommandStarted announces that a command was accepted for execution.
type CommandStarted struct {
	ID      uuid.UUID
	Command string
}

// CommandOutput carries one line of child output, tagged by stream.
type CommandOutput struct {
	ID       uuid.UUID
	Output   string
	IsStderr bool
}

// CommandFinished carries the exit code of a completed command. It is
// published exactly once per command, after all of its output.
type CommandFinished struct {
	ID       uuid.UUID
	ExitCode int
}

// NewBlock announces a block appended outside the normal output path,
// such as the System block a built-in produces.
type NewBlock struct {
	Block *block.Block
}

// Error is a global failure notice not tied to any one command.
type Error struct {
	Message string
}

func (CommandStarted) isEvent()  {}
func (CommandOutput) isEvent()   {}
func (CommandFinished) isEvent() {}
func (NewBlock) isEvent()        {}
func (Error) isEvent()           {}
