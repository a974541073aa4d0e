package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/intake-core/internal/application/handlers"
	"github.com/ersonp/intake-core/internal/domain/entities"
)

type ingestFlags struct {
	email     string
	firstName string
	lastName  string
	caseTitle string
	name      string
	jsonOut   bool
}

func newIngestCmd() *cobra.Command {
	var flags ingestFlags

	cmd := &cobra.Command{
		Use:   "ingest <document>",
		Short: "Resolve one document to a client and case",
		Long: "Matches the sender to a client (by email, or by name when no email is given), " +
			"finds or creates the case by title, and stores the document unless the case already holds the same content.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.email, "email", "e", "", "Sender email")
	cmd.Flags().StringVar(&flags.firstName, "first", "", "Sender first name")
	cmd.Flags().StringVar(&flags.lastName, "last", "", "Sender last name")
	cmd.Flags().StringVarP(&flags.caseTitle, "case", "c", "", "Case title")
	cmd.Flags().StringVarP(&flags.name, "name", "n", "", "Document name (defaults to the file name)")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "Print the resolution as JSON")

	return cmd
}

func runIngest(cmd *cobra.Command, path string, flags ingestFlags) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		res, err := d.IngestHandler.HandleFile(ctx, handlers.ItemRequest{
			Email:        flags.email,
			FirstName:    flags.firstName,
			LastName:     flags.lastName,
			CaseTitle:    flags.caseTitle,
			DocumentPath: path,
			DocumentName: flags.name,
		})
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}

		if flags.jsonOut {
			return printJSON(res)
		}
		displayResolution(res)
		return nil
	})
}

func displayResolution(res *entities.Resolution) {
	fmt.Printf("Client   %s  %s\n", res.ClientID, outcome(res.ClientCreated, "matched"))
	fmt.Printf("Case     %s  %s\n", res.CaseID, outcome(res.CaseCreated, "matched"))
	fmt.Printf("Document %s  %s\n", res.DocumentID, outcome(res.DocumentCreated, "duplicate skipped"))
}
