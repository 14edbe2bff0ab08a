// Package session defines a logical terminal session: a working directory,
// an environment snapshot, and an append-only list of blocks.
package session

import (
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/fentz26/blockshell/internal/block"
)

// Session is one logical terminal instance. Blocks are append-only;
// clearing empties the list but the session keeps its identity.
type Session struct {
	ID               uuid.UUID
	Blocks           []*block.Block
	CurrentDirectory string
	Environment      map[string]string
	IsActive         bool
}

// New creates a session rooted at the process working directory with a
// snapshot of the process environment.
func New() *Session {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}
	return &Session{
		ID:               uuid.New(),
		CurrentDirectory: cwd,
		Environment:      snapshotEnv(),
		IsActive:         true,
	}
}

func snapshotEnv() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	return env
}

// AddBlock appends a block. Insertion order is display order.
func (s *Session) AddBlock(b *block.Block) {
	s.Blocks = append(s.Blocks, b)
}

// LastBlock returns the most recently appended block, if any.
func (s *Session) LastBlock() *block.Block {
	if len(s.Blocks) == 0 {
		return nil
	}
	return s.Blocks[len(s.Blocks)-1]
}

// BlockByID finds a block by id. Sessions are bounded in practice by the
// UI layer, so a linear scan is fine.
func (s *Session) BlockByID(id uuid.UUID) *block.Block {
	for _, b := range s.Blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Clear empties the block list, preserving the session identity.
func (s *Session) Clear() {
	s.Blocks = nil
}

// SetWorkingDirectory updates the session's working directory.
func (s *Session) SetWorkingDirectory(path string) {
	s.CurrentDirectory = path
}

// EnvironList renders the environment snapshot in os.Environ form, for
// handing to child processes.
func (s *Session) EnvironList() []string {
	env := make([]string, 0, len(s.Environment))
	for k, v := range s.Environment {
		env = append(env, k+"="+v)
	}
	return env
}
