package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAddAndDedup(t *testing.T) {
	h := New(10)
	h.Add(NewEntry("ls", "/"))
	h.Add(NewEntry("ls", "/"))
	if h.Len() != 1 {
		t.Errorf("consecutive duplicate should be dropped, len = %d", h.Len())
	}

	h.Add(NewEntry("pwd", "/"))
	h.Add(NewEntry("ls", "/"))
	if h.Len() != 3 {
		t.Errorf("non-consecutive repeat is legitimate, len = %d", h.Len())
	}
}

func TestBound(t *testing.T) {
	h := New(5)
	for i := 0; i < 20; i++ {
		h.Add(NewEntry(fmt.Sprintf("cmd-%d", i), "/"))
	}
	if h.Len() != 5 {
		t.Fatalf("len = %d, want 5", h.Len())
	}
	entries := h.Entries()
	for i, e := range entries {
		want := fmt.Sprintf("cmd-%d", 15+i)
		if e.Command != want {
			t.Errorf("entry %d = %q, want %q (most recent retained)", i, e.Command, want)
		}
	}
}

func TestRecallWalk(t *testing.T) {
	h := New(10)
	for _, cmd := range []string{"a", "b", "c"} {
		h.Add(NewEntry(cmd, "/"))
	}

	steps := []struct {
		op   string
		want string
	}{
		{"prev", "c"},
		{"prev", "b"},
		{"prev", "a"},
		{"prev", "a"}, // clamped at the oldest entry
		{"next", "b"},
		{"next", "c"},
		{"next", ""}, // past the tail: cursor resets
	}

	for i, s := range steps {
		var e *Entry
		if s.op == "prev" {
			e = h.Previous()
		} else {
			e = h.Next()
		}
		got := ""
		if e != nil {
			got = e.Command
		}
		if got != s.want {
			t.Fatalf("step %d (%s): got %q, want %q", i, s.op, got, s.want)
		}
	}

	// After the reset, previous starts from the tail again.
	if e := h.Previous(); e == nil || e.Command != "c" {
		t.Errorf("previous after reset should return c")
	}
}

func TestAddResetsCursor(t *testing.T) {
	h := New(10)
	h.Add(NewEntry("a", "/"))
	h.Add(NewEntry("b", "/"))
	h.Previous()
	h.Previous()
	h.Add(NewEntry("c", "/"))
	if e := h.Previous(); e == nil || e.Command != "c" {
		t.Error("Add should reset the recall cursor")
	}
}

func TestPreviousEmpty(t *testing.T) {
	h := New(10)
	if h.Previous() != nil {
		t.Error("previous on empty history should return nil")
	}
	if h.Next() != nil {
		t.Error("next on empty history should return nil")
	}
}

func TestSearch(t *testing.T) {
	h := New(10)
	h.Add(NewEntry("git status", "/"))
	h.Add(NewEntry("git diff", "/"))
	h.Add(NewEntry("ls -la", "/"))

	got := h.Search("git")
	if len(got) != 2 {
		t.Fatalf("Search(git) returned %d entries, want 2", len(got))
	}
	if got[0].Command != "git status" || got[1].Command != "git diff" {
		t.Error("substring search should preserve history order")
	}
	if len(h.Search("docker")) != 0 {
		t.Error("no entries should match docker")
	}
}

func TestSearchFuzzy(t *testing.T) {
	h := New(10)
	h.Add(NewEntry("git checkout main", "/"))
	h.Add(NewEntry("cargo check", "/"))
	h.Add(NewEntry("ls", "/"))

	got := h.SearchFuzzy("gcm")
	if len(got) == 0 {
		t.Fatal("gcm should fuzzy-match git checkout main")
	}
	if got[0].Entry.Command != "git checkout main" {
		t.Errorf("best match = %q", got[0].Entry.Command)
	}
	for _, m := range got {
		if m.Entry.Command == "ls" {
			t.Error("ls should not match gcm")
		}
	}
}

func TestSuccessfulAndFailed(t *testing.T) {
	h := New(10)
	ok := NewEntry("true", "/")
	ok.SetResult(0, 5*time.Millisecond)
	bad := NewEntry("false", "/")
	bad.SetResult(1, 5*time.Millisecond)
	open := NewEntry("sleep 100", "/")
	h.Add(ok)
	h.Add(bad)
	h.Add(open)

	if got := h.Successful(); len(got) != 1 || got[0] != ok {
		t.Errorf("Successful = %v", got)
	}
	if got := h.Failed(); len(got) != 1 || got[0] != bad {
		t.Errorf("Failed = %v", got)
	}
}

func TestRecent(t *testing.T) {
	h := New(10)
	for _, cmd := range []string{"a", "b", "c"} {
		h.Add(NewEntry(cmd, "/"))
	}
	got := h.Recent(2)
	if len(got) != 2 || got[0].Command != "c" || got[1].Command != "b" {
		t.Errorf("Recent(2) = %v", got)
	}
}

func TestExport(t *testing.T) {
	h := New(10)
	ok := NewEntry("echo hi", "/home/u")
	ok.SetResult(0, 12*time.Millisecond)
	bad := NewEntry("nope", "/home/u")
	bad.SetResult(127, 3*time.Millisecond)
	open := NewEntry("sleep 9", "/home/u")
	h.Add(ok)
	h.Add(bad)
	h.Add(open)

	path := filepath.Join(t.TempDir(), "history.txt")
	if err := h.Export(path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("export has %d lines, want 3", len(lines))
	}
	if !strings.HasSuffix(lines[0], "echo hi (/home/u) ✓") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "nope (/home/u) ✗(127)") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "sleep 9 (/home/u)") || strings.Contains(lines[2], "✓") {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestImportBash(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	content := "ls -la\n\n# a comment\ngit status\n"
	if err := os.WriteFile(filepath.Join(home, ".bash_history"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	h := New(10)
	n, err := h.ImportShellHistory("bash")
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d entries, want 2", n)
	}
	if h.Len() != 2 {
		t.Errorf("history has %d entries, want 2", h.Len())
	}
}

func TestImportZshExtendedFormat(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	content := ": 1700000000:0;make build\nplain command\n"
	if err := os.WriteFile(filepath.Join(home, ".zsh_history"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	h := New(10)
	n, err := h.ImportShellHistory("zsh")
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d entries, want 2", n)
	}
	if h.Entries()[0].Command != "make build" {
		t.Errorf("zsh extended line parsed as %q", h.Entries()[0].Command)
	}
}

func TestImportMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	h := New(10)
	n, err := h.ImportShellHistory("bash")
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if n != 0 {
		t.Errorf("imported %d, want 0", n)
	}
}

func TestImportUnknownShell(t *testing.T) {
	h := New(10)
	n, err := h.ImportShellHistory("tcsh")
	if err != nil || n != 0 {
		t.Errorf("unknown shell: got %d, %v", n, err)
	}
}
