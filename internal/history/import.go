package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ImportShellHistory reads the host shell's history file and adds its
// commands to the ring. Only raw command text is recovered; timestamps
// and exit codes are not reconstructed. A shell with no history file on
// disk imports zero entries without error.
func (h *History) ImportShellHistory(shell string) (int, error) {
	path, err := historyFilePath(shell)
	if err != nil {
		return 0, err
	}
	if path == "" {
		return 0, nil
	}
	if _, err := os.Stat(path); err != nil {
		return 0, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open shell history: %w", err)
	}
	defer f.Close()

	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}

	imported := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		cmd := parseHistoryLine(scanner.Text())
		if cmd == "" {
			continue
		}
		h.Add(NewEntry(cmd, cwd))
		imported++
	}
	if err := scanner.Err(); err != nil {
		return imported, fmt.Errorf("read shell history: %w", err)
	}
	return imported, nil
}

// parseHistoryLine extracts the command from one history line, returning
// "" for blanks and comments. Zsh extended-format lines
// (": <ts>:<elapsed>;<cmd>") yield just the command part.
func parseHistoryLine(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ""
	}
	if strings.HasPrefix(line, ": ") {
		if i := strings.IndexByte(line, ';'); i >= 0 {
			return strings.TrimSpace(line[i+1:])
		}
	}
	return line
}

func historyFilePath(shell string) (string, error) {
	switch shell {
	case "bash":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate home directory: %w", err)
		}
		return filepath.Join(home, ".bash_history"), nil
	case "zsh":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate home directory: %w", err)
		}
		return filepath.Join(home, ".zsh_history"), nil
	case "fish":
		cfg, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("locate config directory: %w", err)
		}
		return filepath.Join(cfg, "fish", "fish_history"), nil
	case "pwsh", "powershell":
		// PowerShell keeps history through PSReadLine; not imported.
		return "", nil
	default:
		return "", nil
	}
}
