package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/intake-core/internal/application/handlers"
	"github.com/ersonp/intake-core/internal/infrastructure/config"
	"github.com/ersonp/intake-core/internal/infrastructure/logging"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new intake project",
		Long:  "Creates a .intake directory with default configuration, the blob directory and the SQLite schema.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	result, err := handlers.NewInitHandler().Handle(ctx, cwd)
	if err != nil {
		return err
	}
	fmt.Printf("Created %s\n", result.ConfigPath)

	if result.DatabasePath != "" {
		cfg, err := config.Load(cwd)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		_, closeFn, err := buildDeps(cfg, logging.New(cfg.Log))
		if err != nil {
			return err
		}
		closeFn()
		fmt.Printf("Created database %s\n", result.DatabasePath)
	}
	if result.BlobDir != "" {
		fmt.Printf("Blobs stored in %s\n", result.BlobDir)
	}

	fmt.Println(green("Intake initialized successfully!"))
	return nil
}
