// Package cmd wires the courtmesh CLI: a demo availability provider and a
// one-shot negotiation command.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "courtmesh",
		Short: "Multi-party court scheduling: query participants, find a common slot, book it",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Best-effort: a .env is optional.
			_ = godotenv.Load()
		},
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newParticipantCmd())
	root.AddCommand(newNegotiateCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
