// Package history keeps the persistent, deduplicated command history ring
// with recall navigation and search.
package history

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
)

// DefaultMaxEntries bounds the ring when no limit is configured.
const DefaultMaxEntries = 1000

// Entry is one remembered command. Exit code and execution time are
// stamped after the command completes; an entry that never completed
// carries neither.
type Entry struct {
	Command          string
	Timestamp        time.Time
	WorkingDirectory string
	ExitCode         *int
	ExecutionTime    *time.Duration
}

// NewEntry records a command submitted from a working directory.
func NewEntry(command, workingDirectory string) *Entry {
	return &Entry{
		Command:          command,
		Timestamp:        time.Now(),
		WorkingDirectory: workingDirectory,
	}
}

// SetResult stamps the completion outcome on the entry.
func (e *Entry) SetResult(exitCode int, executionTime time.Duration) {
	code := exitCode
	d := executionTime
	e.ExitCode = &code
	e.ExecutionTime = &d
}

// IsSuccess reports whether the command completed with exit code zero.
func (e *Entry) IsSuccess() bool {
	return e.ExitCode != nil && *e.ExitCode == 0
}

// FormattedTimestamp renders the submission time for export.
func (e *Entry) FormattedTimestamp() string {
	return e.Timestamp.Format("2006-01-02 15:04:05")
}

// Match is one fuzzy search hit.
type Match struct {
	Entry *Entry
	Score int
}

// History is a bounded ring of entries with a recall cursor for up/down
// navigation. It is not safe for concurrent use; callers serialise access.
type History struct {
	entries    []*Entry
	maxEntries int
	// cursor indexes the entry most recently recalled, or -1 when recall
	// is not in progress.
	cursor int
}

// New creates a history bounded to maxEntries (DefaultMaxEntries when
// maxEntries is not positive).
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries, cursor: -1}
}

// Add appends an entry. An entry repeating the current tail command is
// dropped, the ring is trimmed from the front when over its bound, and
// the recall cursor resets.
func (h *History) Add(e *Entry) {
	if n := len(h.entries); n > 0 && h.entries[n-1].Command == e.Command {
		return
	}
	h.entries = append(h.entries, e)
	if over := len(h.entries) - h.maxEntries; over > 0 {
		h.entries = h.entries[over:]
	}
	h.cursor = -1
}

// Previous walks the recall cursor back one entry. From an idle cursor it
// returns the newest entry; at the oldest entry it stays put.
func (h *History) Previous() *Entry {
	if len(h.entries) == 0 {
		return nil
	}
	switch {
	case h.cursor < 0:
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor]
}

// Next walks the recall cursor forward one entry. Advancing past the
// newest entry resets the cursor and returns nil.
func (h *History) Next() *Entry {
	if h.cursor < 0 {
		return nil
	}
	if h.cursor >= len(h.entries)-1 {
		h.cursor = -1
		return nil
	}
	h.cursor++
	return h.entries[h.cursor]
}

// ResetCursor abandons an in-progress recall.
func (h *History) ResetCursor() {
	h.cursor = -1
}

// Search returns entries whose command contains the query, oldest first.
func (h *History) Search(query string) []*Entry {
	var out []*Entry
	for _, e := range h.entries {
		if strings.Contains(e.Command, query) {
			out = append(out, e)
		}
	}
	return out
}

// commands adapts the ring to fuzzy.Source.
type commands []*Entry

func (c commands) String(i int) string { return c[i].Command }
func (c commands) Len() int            { return len(c) }

// SearchFuzzy scores entries against the query with subsequence matching.
// Results come back by descending score, ties broken by recency.
func (h *History) SearchFuzzy(query string) []Match {
	results := fuzzy.FindFrom(query, commands(h.entries))
	out := make([]Match, 0, len(results))
	for _, r := range results {
		out = append(out, Match{Entry: h.entries[r.Index], Score: r.Score})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Entry.Timestamp.After(out[j].Entry.Timestamp)
	})
	return out
}

// Entries returns the ring oldest first. The slice is shared; callers
// must not mutate it.
func (h *History) Entries() []*Entry {
	return h.entries
}

// Recent returns up to count entries, newest first.
func (h *History) Recent(count int) []*Entry {
	var out []*Entry
	for i := len(h.entries) - 1; i >= 0 && len(out) < count; i-- {
		out = append(out, h.entries[i])
	}
	return out
}

// Successful returns entries that completed with exit code zero.
func (h *History) Successful() []*Entry {
	var out []*Entry
	for _, e := range h.entries {
		if e.IsSuccess() {
			out = append(out, e)
		}
	}
	return out
}

// Failed returns entries that completed with a non-zero exit code.
func (h *History) Failed() []*Entry {
	var out []*Entry
	for _, e := range h.entries {
		if e.ExitCode != nil && *e.ExitCode != 0 {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Clear empties the ring and resets the cursor.
func (h *History) Clear() {
	h.entries = nil
	h.cursor = -1
}

// Export writes the history to path, one record per line:
// timestamp, command, working directory, and a completion mark.
func (h *History) Export(path string) error {
	var sb strings.Builder
	for _, e := range h.entries {
		mark := ""
		if e.ExitCode != nil {
			if *e.ExitCode == 0 {
				mark = " ✓"
			} else {
				mark = fmt.Sprintf(" ✗(%d)", *e.ExitCode)
			}
		}
		fmt.Fprintf(&sb, "%s %s (%s)%s\n",
			e.FormattedTimestamp(), e.Command, e.WorkingDirectory, mark)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("write history export: %w", err)
	}
	return nil
}
