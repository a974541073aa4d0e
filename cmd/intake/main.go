// Package main provides the entry point for the intake CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version       = "0.1.0-dev"
	globalBackend string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "intake",
		Short:         "Resolve inbound documents to clients and cases, deduplicating by content",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&globalBackend, "backend", "", "Storage backend override (sqlite, memory)")

	rootCmd.AddCommand(
		newInitCmd(),
		newIngestCmd(),
		newImportCmd(),
		newAuditCmd(),
		newClientsCmd(),
		newCasesCmd(),
		newDocumentCmd(),
		newStatsCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
