package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fentz26/blockshell/internal/history"
	"github.com/fentz26/blockshell/internal/store"
)

var fuzzyFlag bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage command history",
}

var historyImportCmd = &cobra.Command{
	Use:   "import <shell>",
	Short: "Import history from a host shell (bash, zsh, fish)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, st, err := loadHistory()
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := h.ImportShellHistory(args[0])
		if err != nil {
			return err
		}

		// Persist what was imported.
		for _, e := range h.Entries() {
			if _, err := st.SaveEntry(e); err != nil {
				return err
			}
		}
		fmt.Printf("Imported %d entries from %s\n", n, args[0])
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export history to a text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, st, err := loadPersistedHistory()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := h.Export(args[0]); err != nil {
			return err
		}
		fmt.Printf("Exported %d entries to %s\n", h.Len(), args[0])
		return nil
	},
}

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search command history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, st, err := loadPersistedHistory()
		if err != nil {
			return err
		}
		defer st.Close()

		if fuzzyFlag {
			for _, m := range h.SearchFuzzy(args[0]) {
				fmt.Printf("%6d  %s\n", m.Score, m.Entry.Command)
			}
			return nil
		}
		for _, e := range h.Search(args[0]) {
			fmt.Printf("%s  %s\n", e.FormattedTimestamp(), e.Command)
		}
		return nil
	},
}

func init() {
	historySearchCmd.Flags().BoolVar(&fuzzyFlag, "fuzzy", false, "use fuzzy matching")
	historyCmd.AddCommand(historyImportCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historySearchCmd)
}

// loadHistory opens the store and an empty ring sized from config.
func loadHistory() (*history.History, *store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	return history.New(cfg.MaxHistory), st, nil
}

// loadPersistedHistory opens the store and seeds the ring from it.
func loadPersistedHistory() (*history.History, *store.Store, error) {
	h, st, err := loadHistory()
	if err != nil {
		return nil, nil, err
	}
	entries, err := st.RecentEntries(history.DefaultMaxEntries)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	for _, e := range entries {
		h.Add(e)
	}
	return h, st, nil
}
