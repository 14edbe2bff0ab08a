package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blockshell",
	Short: "blockshell - a block-oriented AI terminal",
	Long:  `Blockshell is a terminal that represents shell interaction as discrete command and output blocks, with persistent searchable history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// No subcommand starts the terminal.
		return runTerminal()
	},
}

var (
	shellFlag  string
	configFlag string
	dbFlag     string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&shellFlag, "shell", "", "shell binary to run commands with")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "path to the history database")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
