package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "import <manifest>",
		Short: "Resolve every item of a JSON or CSV manifest",
		Long: "Reads a manifest with columns email, first_name, last_name, case_title, document_path " +
			"and optional document_name. Document paths are relative to the manifest.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], workers)
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Items processed concurrently (default from config)")

	return cmd
}

func runImport(cmd *cobra.Command, manifestPath string, workers int) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		if workers <= 0 {
			workers = d.Config.Import.Workers
		}

		fmt.Printf("Importing %s...\n", manifestPath)

		result, err := d.IngestHandler.HandleManifest(ctx, manifestPath, workers)
		if err != nil {
			return fmt.Errorf("importing manifest: %w", err)
		}

		if result.Failed > 0 {
			fmt.Printf("\nFailed items (%d):\n", result.Failed)
			for _, item := range result.Items {
				if item.Err != nil {
					fmt.Printf("  line %d: %s\n", item.Line, red(item.Err.Error()))
				}
			}
		}

		fmt.Println()
		fmt.Printf("Resolved: %d items", result.Resolved)
		fmt.Printf(" (%s clients, %s cases, %s documents created, %d duplicates skipped)",
			green(result.ClientsCreated), green(result.CasesCreated), green(result.DocumentsCreated), result.Duplicates)
		if result.Failed > 0 {
			fmt.Printf(", %s", red(fmt.Sprintf("%d failed", result.Failed)))
		}
		fmt.Println()

		return nil
	})
}
