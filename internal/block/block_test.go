package block

import (
	"testing"
	"time"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name        string
		block       *Block
		wantKind    Kind
		collapsible bool
	}{
		{"command", NewCommand("ls -la"), KindCommand, true},
		{"output", NewOutput("file.txt\n"), KindOutput, false},
		{"error", NewError("not found\n"), KindError, false},
		{"system", NewSystem("Screen cleared"), KindSystem, false},
		{"ai response", NewAIResponse("try rm -i"), KindAIResponse, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.block.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", tt.block.Kind, tt.wantKind)
			}
			if tt.block.IsCollapsible != tt.collapsible {
				t.Errorf("IsCollapsible = %v, want %v", tt.block.IsCollapsible, tt.collapsible)
			}
			if tt.block.ID.String() == "" {
				t.Error("block should have an ID")
			}
		})
	}
}

func TestUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		b := NewOutput("x")
		if seen[b.ID.String()] {
			t.Fatalf("duplicate block ID %s", b.ID)
		}
		seen[b.ID.String()] = true
	}
}

func TestExitCodeOnlyOnCommand(t *testing.T) {
	out := NewOutput("hello")
	out.SetExitCode(1)
	if _, ok := out.ExitCode(); ok {
		t.Error("output block should not accept an exit code")
	}

	cmd := NewCommand("false")
	cmd.SetExitCode(1)
	code, ok := cmd.ExitCode()
	if !ok || code != 1 {
		t.Errorf("ExitCode = %d, %v, want 1, true", code, ok)
	}
}

func TestExitCodeFinal(t *testing.T) {
	cmd := NewCommand("true")
	cmd.SetExitCode(0)
	cmd.SetExitCode(7)
	code, _ := cmd.ExitCode()
	if code != 0 {
		t.Errorf("exit code changed after first set: got %d, want 0", code)
	}
}

func TestIsSuccess(t *testing.T) {
	cmd := NewCommand("true")
	if !cmd.IsSuccess() {
		t.Error("block without exit code should not count as failed")
	}
	cmd.SetExitCode(0)
	if !cmd.IsSuccess() {
		t.Error("exit 0 should be success")
	}

	failed := NewCommand("false")
	failed.SetExitCode(7)
	if failed.IsSuccess() {
		t.Error("exit 7 should be failure")
	}
}

func TestToggleCollapsed(t *testing.T) {
	cmd := NewCommand("ls")
	cmd.ToggleCollapsed()
	if !cmd.IsCollapsed {
		t.Error("collapsible block should toggle")
	}
	cmd.ToggleCollapsed()
	if cmd.IsCollapsed {
		t.Error("second toggle should expand again")
	}

	out := NewOutput("x")
	out.ToggleCollapsed()
	if out.IsCollapsed {
		t.Error("non-collapsible block should not toggle")
	}
}

func TestMetadata(t *testing.T) {
	b := NewOutput("x")
	b.SetMetadata("lang", "go")
	v, ok := b.GetMetadata("lang")
	if !ok || v != "go" {
		t.Errorf("GetMetadata = %q, %v, want go, true", v, ok)
	}
	if _, ok := b.GetMetadata("missing"); ok {
		t.Error("missing key should not be found")
	}
}

func TestFormattedExecutionTime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{150 * time.Millisecond, "150ms"},
		{999 * time.Millisecond, "999ms"},
		{1500 * time.Millisecond, "1.5s"},
		{59900 * time.Millisecond, "59.9s"},
		{61 * time.Second, "1m 01s"},
		{125 * time.Second, "2m 05s"},
	}

	for _, tt := range tests {
		b := NewCommand("x")
		b.SetExecutionTime(tt.d)
		got, ok := b.FormattedExecutionTime()
		if !ok || got != tt.want {
			t.Errorf("FormattedExecutionTime(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}

	none := NewCommand("x")
	if _, ok := none.FormattedExecutionTime(); ok {
		t.Error("block without execution time should report none")
	}
}

func TestCommandBlockLifecycle(t *testing.T) {
	cb := NewCommandBlock("echo hello", "/tmp")
	if !cb.IsRunning() {
		t.Error("new command block should be running")
	}

	cb.AddOutput("hello\n", false)
	cb.AddOutput("warning\n", true)

	cb.Finish(0)
	if cb.IsRunning() {
		t.Error("finished command block should not be running")
	}

	code, ok := cb.Command.ExitCode()
	if !ok || code != 0 {
		t.Errorf("exit code = %d, %v, want 0, true", code, ok)
	}
	if _, ok := cb.Command.ExecutionTime(); !ok {
		t.Error("finished command should have an execution time")
	}

	all := cb.AllBlocks()
	if len(all) != 3 {
		t.Fatalf("AllBlocks returned %d blocks, want 3", len(all))
	}
	if all[0].Kind != KindCommand || all[1].Kind != KindOutput || all[2].Kind != KindError {
		t.Error("AllBlocks should return command first, outputs in order")
	}

	if got := cb.CombinedOutput(); got != "hello\nwarning\n" {
		t.Errorf("CombinedOutput = %q", got)
	}
}

func TestCommandBlockFinishIdempotent(t *testing.T) {
	cb := NewCommandBlock("true", "/")
	cb.Finish(0)
	first := *cb.EndTime
	cb.Finish(9)
	if !cb.EndTime.Equal(first) {
		t.Error("second Finish should not move the end time")
	}
	if code, _ := cb.Command.ExitCode(); code != 0 {
		t.Errorf("second Finish should not change exit code, got %d", code)
	}
}
