// Package engine runs commands on behalf of terminal sessions and fans
// their output into a single ordered event stream.
package engine

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/fentz26/blockshell/internal/block"
	"github.com/fentz26/blockshell/internal/config"
	"github.com/fentz26/blockshell/internal/event"
	"github.com/fentz26/blockshell/internal/history"
	"github.com/fentz26/blockshell/internal/session"
	"github.com/fentz26/blockshell/internal/store"
)

// commandState tracks one in-flight command from Execute to completion.
type commandState struct {
	sessionID uuid.UUID
	cmdBlock  *block.CommandBlock
	entry     *history.Entry
	storeID   string
	finished  bool
}

// Engine owns the terminal sessions and executes commands against them.
// Sessions sit behind a read-write lock; the active session id behind its
// own; the running flag is atomic. All public operations are safe for
// concurrent use.
type Engine struct {
	config *config.TerminalConfig
	bus    *event.Bus

	sessionsMu sync.RWMutex
	sessions   map[uuid.UUID]*session.Session

	activeMu sync.RWMutex
	activeID uuid.UUID

	cmdMu    sync.Mutex
	commands map[uuid.UUID]*commandState

	interactiveMu sync.Mutex
	interactive   map[uuid.UUID]*interactiveState

	histMu  sync.Mutex
	history *history.History
	store   *store.Store

	running atomic.Bool
	wg      sync.WaitGroup
}

// New creates an engine publishing to bus.
func New(cfg *config.TerminalConfig, bus *event.Bus) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	e := &Engine{
		config:      cfg,
		bus:         bus,
		sessions:    make(map[uuid.UUID]*session.Session),
		commands:    make(map[uuid.UUID]*commandState),
		interactive: make(map[uuid.UUID]*interactiveState),
		history:     history.New(cfg.MaxHistory),
	}
	e.running.Store(true)
	return e
}

// AttachStore wires persistent history: the ring is re-seeded from the
// store and every executed command is saved and completed there.
func (e *Engine) AttachStore(s *store.Store) error {
	entries, err := s.RecentEntries(e.config.MaxHistory)
	if err != nil {
		return fmt.Errorf("load persisted history: %w", err)
	}
	e.histMu.Lock()
	defer e.histMu.Unlock()
	e.store = s
	for _, entry := range entries {
		e.history.Add(entry)
	}
	return nil
}

// IsRunning reports whether the engine accepts commands.
func (e *Engine) IsRunning() bool {
	return e.running.Load()
}

// History exposes the command history ring. Callers must use it from a
// single goroutine; engine bookkeeping takes its own lock.
func (e *Engine) History() *history.History {
	return e.history
}

// CreateSession allocates a session. The first session created becomes
// the active one.
func (e *Engine) CreateSession() (uuid.UUID, error) {
	if !e.running.Load() {
		return uuid.Nil, ErrEngineStopped
	}
	s := session.New()

	e.sessionsMu.Lock()
	e.sessions[s.ID] = s
	e.sessionsMu.Unlock()

	e.activeMu.Lock()
	if e.activeID == uuid.Nil {
		e.activeID = s.ID
	}
	e.activeMu.Unlock()

	log.Printf("Created terminal session %s", s.ID)
	return s.ID, nil
}

// SwitchSession makes an existing session the active one.
func (e *Engine) SwitchSession(id uuid.UUID) error {
	e.sessionsMu.RLock()
	_, ok := e.sessions[id]
	e.sessionsMu.RUnlock()
	if !ok {
		return fmt.Errorf("switch session %s: %w", id, ErrSessionNotFound)
	}

	e.activeMu.Lock()
	e.activeID = id
	e.activeMu.Unlock()

	log.Printf("Switched to session %s", id)
	return nil
}

// ActiveSessionID returns the active session id, or uuid.Nil.
func (e *Engine) ActiveSessionID() uuid.UUID {
	e.activeMu.RLock()
	defer e.activeMu.RUnlock()
	return e.activeID
}

// ActiveSession returns the active session, or nil.
func (e *Engine) ActiveSession() *session.Session {
	id := e.ActiveSessionID()
	if id == uuid.Nil {
		return nil
	}
	e.sessionsMu.RLock()
	defer e.sessionsMu.RUnlock()
	return e.sessions[id]
}

// SessionBlocks returns a snapshot of a session's block list.
func (e *Engine) SessionBlocks(id uuid.UUID) ([]*block.Block, error) {
	e.sessionsMu.RLock()
	defer e.sessionsMu.RUnlock()
	s, ok := e.sessions[id]
	if !ok {
		return nil, fmt.Errorf("get session %s: %w", id, ErrSessionNotFound)
	}
	blocks := make([]*block.Block, len(s.Blocks))
	copy(blocks, s.Blocks)
	return blocks, nil
}

// ClearSession empties a session's block list.
func (e *Engine) ClearSession(id uuid.UUID) error {
	e.sessionsMu.Lock()
	defer e.sessionsMu.Unlock()
	s, ok := e.sessions[id]
	if !ok {
		return fmt.Errorf("clear session %s: %w", id, ErrSessionNotFound)
	}
	s.Clear()
	log.Printf("Cleared session %s", id)
	return nil
}

// Execute submits a command line. Built-ins run inline; anything else is
// handed to the shell asynchronously. The returned id identifies the
// command in subsequent events; CommandStarted is published before
// Execute returns.
func (e *Engine) Execute(command string) (uuid.UUID, error) {
	if !e.running.Load() {
		return uuid.Nil, ErrEngineStopped
	}
	trimmed := trimCommand(command)
	if trimmed == "" {
		return uuid.Nil, ErrEmptyCommand
	}

	sessionID, err := e.ensureActiveSession()
	if err != nil {
		return uuid.Nil, err
	}

	if blk, handled, err := e.dispatchBuiltin(trimmed, sessionID); handled {
		if err != nil {
			return uuid.Nil, err
		}
		e.appendBlock(sessionID, blk)
		e.recordHistory(trimmed, e.workingDirectory(sessionID))
		e.bus.Publish(event.NewBlock{Block: blk})
		return blk.ID, nil
	}

	cwd := e.workingDirectory(sessionID)
	cb := block.NewCommandBlock(trimmed, cwd)
	commandID := cb.Command.ID

	e.appendBlock(sessionID, cb.Command)

	state := &commandState{sessionID: sessionID, cmdBlock: cb}
	state.entry, state.storeID = e.recordHistory(trimmed, cwd)
	e.cmdMu.Lock()
	e.commands[commandID] = state
	e.cmdMu.Unlock()

	e.bus.Publish(event.CommandStarted{ID: commandID, Command: trimmed})

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.runCommand(commandID, trimmed, cwd, sessionID)
	}()

	return commandID, nil
}

// runCommand spawns the shell, drains both pipes line by line, and
// publishes the terminal event sequence for the command.
func (e *Engine) runCommand(commandID uuid.UUID, command, cwd string, sessionID uuid.UUID) {
	name, args := shellInvocation(e.config.Shell, command)
	cmd := exec.Command(name, args...)
	cmd.Dir = cwd

	e.sessionsMu.RLock()
	if s, ok := e.sessions[sessionID]; ok {
		cmd.Env = s.EnvironList()
	}
	e.sessionsMu.RUnlock()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		e.bus.Publish(event.Error{Message: fmt.Sprintf("Command execution failed: %v", err)})
		return
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		e.bus.Publish(event.Error{Message: fmt.Sprintf("Command execution failed: %v", err)})
		return
	}

	if err := cmd.Start(); err != nil {
		e.bus.Publish(event.Error{Message: fmt.Sprintf("Command execution failed: %v", err)})
		return
	}

	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		e.drainLines(commandID, stdout, false)
	}()
	go func() {
		defer readers.Done()
		e.drainLines(commandID, stderr, true)
	}()

	// All output precedes the finish event.
	readers.Wait()

	exitCode := 0
	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			// Signalled death reports no code; surface -1.
			exitCode = exitErr.ExitCode()
		} else {
			e.bus.Publish(event.Error{Message: fmt.Sprintf("Command wait failed: %v", err)})
			exitCode = -1
		}
	}

	e.bus.Publish(event.CommandFinished{ID: commandID, ExitCode: exitCode})
}

func (e *Engine) drainLines(commandID uuid.UUID, r io.Reader, isStderr bool) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		e.bus.Publish(event.CommandOutput{
			ID:       commandID,
			Output:   scanner.Text() + "\n",
			IsStderr: isStderr,
		})
	}
	if err := scanner.Err(); err != nil {
		log.Printf("Reader for command %s failed: %v", commandID, err)
	}
}

// HandleCommandOutput appends an output block for an in-flight command.
// Output for an unknown or already-finished command is dropped with a
// warning.
func (e *Engine) HandleCommandOutput(commandID uuid.UUID, output string, isStderr bool) {
	e.cmdMu.Lock()
	state, ok := e.commands[commandID]
	e.cmdMu.Unlock()
	if !ok {
		log.Printf("Dropping output for unknown command %s", commandID)
		return
	}

	blk := state.cmdBlock.AddOutput(output, isStderr)
	e.appendBlock(state.sessionID, blk)
}

// HandleCommandFinished stamps the exit code and execution time on the
// command block and completes its history entry. Finishing a command
// twice is a no-op.
func (e *Engine) HandleCommandFinished(commandID uuid.UUID, exitCode int) {
	e.cmdMu.Lock()
	state, ok := e.commands[commandID]
	if ok && state.finished {
		e.cmdMu.Unlock()
		return
	}
	if ok {
		state.finished = true
	}
	e.cmdMu.Unlock()
	if !ok {
		log.Printf("Dropping finish for unknown command %s", commandID)
		return
	}

	state.cmdBlock.Finish(exitCode)
	if d, hasD := state.cmdBlock.Command.ExecutionTime(); hasD && state.entry != nil {
		e.histMu.Lock()
		state.entry.SetResult(exitCode, d)
		if e.store != nil && state.storeID != "" {
			if err := e.store.CompleteEntry(state.storeID, exitCode, d); err != nil {
				log.Printf("Persisting completion for %s failed: %v", commandID, err)
			}
		}
		e.histMu.Unlock()
	}
}

// CommandBlock returns the grouped command block for an executed command.
func (e *Engine) CommandBlock(commandID uuid.UUID) (*block.CommandBlock, bool) {
	e.cmdMu.Lock()
	defer e.cmdMu.Unlock()
	state, ok := e.commands[commandID]
	if !ok {
		return nil, false
	}
	return state.cmdBlock, true
}

// Shutdown stops the engine and clears all sessions. In-flight children
// are left to finish detached; their events land on the closed bus and
// are dropped.
func (e *Engine) Shutdown() {
	if !e.running.CompareAndSwap(true, false) {
		return
	}
	log.Printf("Shutting down terminal engine")

	e.sessionsMu.Lock()
	e.sessions = make(map[uuid.UUID]*session.Session)
	e.sessionsMu.Unlock()

	e.activeMu.Lock()
	e.activeID = uuid.Nil
	e.activeMu.Unlock()
}

// Wait blocks until all spawned command runners have finished. Intended
// for orderly teardown and tests.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// ensureActiveSession returns the active session id, creating a default
// session when none exists.
func (e *Engine) ensureActiveSession() (uuid.UUID, error) {
	if id := e.ActiveSessionID(); id != uuid.Nil {
		return id, nil
	}
	return e.CreateSession()
}

func (e *Engine) workingDirectory(sessionID uuid.UUID) string {
	e.sessionsMu.RLock()
	defer e.sessionsMu.RUnlock()
	if s, ok := e.sessions[sessionID]; ok {
		return s.CurrentDirectory
	}
	return ""
}

func (e *Engine) appendBlock(sessionID uuid.UUID, blk *block.Block) {
	e.sessionsMu.Lock()
	defer e.sessionsMu.Unlock()
	if s, ok := e.sessions[sessionID]; ok {
		s.AddBlock(blk)
	}
}

// recordHistory adds the command to the ring and, when a store is
// attached, persists it.
func (e *Engine) recordHistory(command, cwd string) (*history.Entry, string) {
	entry := history.NewEntry(command, cwd)
	e.histMu.Lock()
	defer e.histMu.Unlock()
	e.history.Add(entry)

	storeID := ""
	if e.store != nil {
		id, err := e.store.SaveEntry(entry)
		if err != nil {
			log.Printf("Persisting history entry failed: %v", err)
		} else {
			storeID = id
		}
	}
	return entry, storeID
}
