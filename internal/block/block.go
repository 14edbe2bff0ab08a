// Package block defines the immutable display units of a terminal session.
package block

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a block.
type Kind string

const (
	KindCommand    Kind = "command"
	KindOutput     Kind = "output"
	KindError      Kind = "error"
	KindSystem     Kind = "system"
	KindAIResponse Kind = "ai_response"
)

// Block is the smallest unit of displayed terminal history: one command,
// one output chunk, one system notice. Fields other than the exit code,
// execution time, and collapsed flag are fixed at construction.
type Block struct {
	ID            uuid.UUID         `json:"id"`
	Kind          Kind              `json:"kind"`
	Content       string            `json:"content"`
	Timestamp     time.Time         `json:"timestamp"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	IsCollapsible bool              `json:"is_collapsible"`
	IsCollapsed   bool              `json:"is_collapsed"`

	exitCode      *int
	executionTime *time.Duration
}

// New creates a block of the given kind.
func New(kind Kind, content string) *Block {
	return &Block{
		ID:        uuid.New(),
		Kind:      kind,
		Content:   content,
		Timestamp: time.Now(),
		Metadata:  make(map[string]string),
	}
}

// NewCommand creates a collapsible Command block.
func NewCommand(content string) *Block {
	b := New(KindCommand, content)
	b.IsCollapsible = true
	return b
}

// NewOutput creates an Output block.
func NewOutput(content string) *Block {
	return New(KindOutput, content)
}

// NewError creates an Error block.
func NewError(content string) *Block {
	return New(KindError, content)
}

// NewSystem creates a System block.
func NewSystem(content string) *Block {
	return New(KindSystem, content)
}

// NewAIResponse creates a collapsible AiResponse block.
func NewAIResponse(content string) *Block {
	b := New(KindAIResponse, content)
	b.IsCollapsible = true
	return b
}

// SetMetadata stores a key/value pair on the block.
func (b *Block) SetMetadata(key, value string) {
	b.Metadata[key] = value
}

// GetMetadata returns the value for key, if present.
func (b *Block) GetMetadata(key string) (string, bool) {
	v, ok := b.Metadata[key]
	return v, ok
}

// SetExitCode records the exit code. Only Command blocks carry exit codes,
// and the first recorded code is final.
func (b *Block) SetExitCode(code int) {
	if b.Kind != KindCommand || b.exitCode != nil {
		return
	}
	c := code
	b.exitCode = &c
}

// ExitCode returns the recorded exit code, if any.
func (b *Block) ExitCode() (int, bool) {
	if b.exitCode == nil {
		return 0, false
	}
	return *b.exitCode, true
}

// SetExecutionTime records how long the command ran. The first recorded
// duration is final.
func (b *Block) SetExecutionTime(d time.Duration) {
	if b.executionTime != nil {
		return
	}
	dd := d
	b.executionTime = &dd
}

// ExecutionTime returns the recorded duration, if any.
func (b *Block) ExecutionTime() (time.Duration, bool) {
	if b.executionTime == nil {
		return 0, false
	}
	return *b.executionTime, true
}

// ToggleCollapsed flips the collapsed flag on collapsible blocks.
func (b *Block) ToggleCollapsed() {
	if b.IsCollapsible {
		b.IsCollapsed = !b.IsCollapsed
	}
}

// IsSuccess reports whether the block completed successfully. A block with
// no exit code has not failed.
func (b *Block) IsSuccess() bool {
	if b.exitCode == nil {
		return true
	}
	return *b.exitCode == 0
}

// FormattedTimestamp renders the creation time as HH:MM:SS.
func (b *Block) FormattedTimestamp() string {
	return b.Timestamp.Format("15:04:05")
}

// FormattedExecutionTime renders the execution time for display:
// sub-second as milliseconds, sub-minute as fractional seconds, and
// longer runs as minutes and zero-padded seconds.
func (b *Block) FormattedExecutionTime() (string, bool) {
	if b.executionTime == nil {
		return "", false
	}
	ms := b.executionTime.Milliseconds()
	switch {
	case ms < 1000:
		return fmt.Sprintf("%dms", ms), true
	case ms < 60000:
		return fmt.Sprintf("%.1fs", float64(ms)/1000.0), true
	default:
		return fmt.Sprintf("%dm %02ds", ms/60000, (ms%60000)/1000), true
	}
}
