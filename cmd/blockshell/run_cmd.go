package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fentz26/blockshell/internal/config"
	"github.com/fentz26/blockshell/internal/engine"
	"github.com/fentz26/blockshell/internal/event"
	"github.com/fentz26/blockshell/internal/store"
	"github.com/fentz26/blockshell/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTerminal()
	},
}

// loadConfig resolves the configuration from file and flags.
func loadConfig() (*config.TerminalConfig, error) {
	path := configFlag
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if shellFlag != "" {
		cfg.Shell = shellFlag
	}
	return cfg, nil
}

// openStore opens the history database, defaulting next to the config.
func openStore() (*store.Store, error) {
	path := dbFlag
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locate config directory: %w", err)
		}
		path = filepath.Join(dir, "blockshell", "history.db")
	}
	return store.New(path)
}

func runTerminal() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	bus := event.NewBus()
	eng := engine.New(cfg, bus)

	st, err := openStore()
	if err != nil {
		log.Printf("History persistence disabled: %v", err)
	} else {
		defer st.Close()
		if err := eng.AttachStore(st); err != nil {
			log.Printf("History persistence disabled: %v", err)
		}
	}

	if _, err := eng.CreateSession(); err != nil {
		return fmt.Errorf("create initial session: %w", err)
	}

	app := tui.New(eng, bus)
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}

	eng.Shutdown()
	bus.Close()
	return nil
}
