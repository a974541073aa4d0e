package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/intake-core/internal/application/handlers"
)

func newClientsCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(func(d *Deps) error {
				clients, err := d.ClientHandler.HandleList(ctx)
				if err != nil {
					return err
				}
				if jsonOut {
					return printJSON(clients)
				}
				if len(clients) == 0 {
					fmt.Println("No clients found.")
					return nil
				}
				for _, c := range clients {
					displayClient(c)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print clients as JSON")

	return cmd
}

func displayClient(c handlers.ClientSummary) {
	email := c.Email
	if !c.HasEmail() {
		email = gray("(no email)")
	}
	fmt.Printf("%s  %-30s %s %s  %d cases\n", c.ID, email, c.FirstName, c.LastName, c.Cases)
}

func newCasesCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "cases <client-id>",
		Short: "Show a client's cases and documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(func(d *Deps) error {
				detail, err := d.ClientHandler.HandleCases(ctx, args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return printJSON(detail)
				}
				displayClientDetail(detail)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print cases as JSON")

	return cmd
}

func displayClientDetail(detail *handlers.ClientDetail) {
	c := detail.Client
	fmt.Printf("%s %s %s", cyan(c.ID), c.FirstName, c.LastName)
	if c.HasEmail() {
		fmt.Printf(" <%s>", c.Email)
	}
	fmt.Println()
	if len(detail.Cases) == 0 {
		fmt.Println("  No cases.")
		return
	}
	for _, k := range detail.Cases {
		fmt.Printf("\n  %s  %s (%d documents)\n", k.ID, k.Title, len(k.Documents))
		for _, doc := range k.Documents {
			fmt.Printf("    %s  %-30s %8d bytes  %s\n", doc.ID, doc.Name, doc.Size, gray(doc.ContentHash[:12]))
		}
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(func(d *Deps) error {
				stats, err := d.ClientHandler.HandleStats(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Backend:   %s\n", d.Config.Storage.Backend)
				fmt.Printf("Clients:   %d\n", stats.Clients)
				fmt.Printf("Cases:     %d\n", stats.Cases)
				fmt.Printf("Documents: %d\n", stats.Documents)
				fmt.Printf("Events:    %d\n", stats.Events)
				return nil
			})
		},
	}
}
