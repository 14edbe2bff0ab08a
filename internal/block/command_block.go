package block

import "time"

// CommandBlock groups a Command block with the output it produced while
// running in a particular working directory.
type CommandBlock struct {
	Command          *Block
	OutputBlocks     []*Block
	StartTime        time.Time
	EndTime          *time.Time
	WorkingDirectory string
}

// NewCommandBlock starts a command block for a command submitted from the
// given working directory.
func NewCommandBlock(command, workingDirectory string) *CommandBlock {
	return &CommandBlock{
		Command:          NewCommand(command),
		StartTime:        time.Now(),
		WorkingDirectory: workingDirectory,
	}
}

// AddOutput appends an Output (or Error, for stderr) block.
func (cb *CommandBlock) AddOutput(content string, isStderr bool) *Block {
	var b *Block
	if isStderr {
		b = NewError(content)
	} else {
		b = NewOutput(content)
	}
	cb.OutputBlocks = append(cb.OutputBlocks, b)
	return b
}

// Finish seals the command block: records the end time, stamps the exit
// code and execution time on the Command block. Calling Finish again is a
// no-op.
func (cb *CommandBlock) Finish(exitCode int) {
	if cb.EndTime != nil {
		return
	}
	now := time.Now()
	cb.EndTime = &now
	cb.Command.SetExitCode(exitCode)
	cb.Command.SetExecutionTime(now.Sub(cb.StartTime))
}

// AllBlocks returns the Command block followed by its outputs in order.
func (cb *CommandBlock) AllBlocks() []*Block {
	blocks := make([]*Block, 0, len(cb.OutputBlocks)+1)
	blocks = append(blocks, cb.Command)
	blocks = append(blocks, cb.OutputBlocks...)
	return blocks
}

// CombinedOutput concatenates the content of all output blocks.
func (cb *CommandBlock) CombinedOutput() string {
	var out string
	for _, b := range cb.OutputBlocks {
		out += b.Content
	}
	return out
}

// IsRunning reports whether the command has not yet finished.
func (cb *CommandBlock) IsRunning() bool {
	return cb.EndTime == nil
}
