package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newDocumentCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "document <case-id> <document-id>",
		Short: "Print a stored document's content",
		Long:  "Reads a document back from the blob store, checks it against its content hash, and writes it to stdout or --output.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(func(d *Deps) error {
				doc, content, err := d.DocumentHandler.HandleRead(ctx, args[0], args[1])
				if err != nil {
					return err
				}

				if output == "" {
					_, err := os.Stdout.Write(content)
					return err
				}
				if err := os.WriteFile(output, content, 0644); err != nil {
					return fmt.Errorf("writing %s: %w", output, err)
				}
				fmt.Fprintf(os.Stderr, "%s %s (%d bytes) to %s\n", green("Wrote"), doc.Name, len(content), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write content to this file instead of stdout")

	return cmd
}
