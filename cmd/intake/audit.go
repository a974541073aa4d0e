package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/intake-core/internal/domain/entities"
	"github.com/ersonp/intake-core/internal/domain/services"
)

type auditFlags struct {
	since   int64
	limit   int
	jsonOut bool
	verify  bool
}

func newAuditCmd() *cobra.Command {
	var flags auditFlags

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show audit log events",
		Long:  "Lists resolution events after a sequence number, oldest first. Use --verify to check the whole log and stored document content.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, flags)
		},
	}

	cmd.Flags().Int64Var(&flags.since, "since", 0, "Only show events after this sequence number")
	cmd.Flags().IntVarP(&flags.limit, "limit", "l", DefaultAuditLimit, "Maximum number of events (0 for all)")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "Print events as JSON")
	cmd.Flags().BoolVar(&flags.verify, "verify", false, "Replay the log and report sequence or clock violations")

	return cmd
}

func runAudit(cmd *cobra.Command, flags auditFlags) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		if flags.verify {
			summary, err := d.AuditHandler.HandleVerify(ctx)
			if err != nil {
				return fmt.Errorf("verifying audit log: %w", err)
			}
			blobs, err := d.DocumentHandler.HandleCheck(ctx)
			switch {
			case errors.Is(err, services.ErrNoBlobStore):
				blobs = nil
			case err != nil:
				return fmt.Errorf("checking document content: %w", err)
			}

			if flags.jsonOut {
				if err := printJSON(verifyOutput{Log: summary, Blobs: blobs}); err != nil {
					return err
				}
				return verifyError(summary, blobs)
			}
			fmt.Printf("%d events, last seq %d\n", summary.Events, summary.LastSeq)
			for _, action := range entities.Actions {
				if n := summary.Counts[action]; n > 0 {
					fmt.Printf("  %-20s %d\n", action, n)
				}
			}
			if len(summary.Violations) == 0 {
				fmt.Println(green("Log is consistent."))
			}
			for _, v := range summary.Violations {
				fmt.Printf("  %s\n", red(v))
			}
			if blobs != nil {
				displayBlobReport(blobs)
			}
			return verifyError(summary, blobs)
		}

		events, err := d.AuditHandler.HandleList(ctx, flags.since, flags.limit)
		if err != nil {
			return fmt.Errorf("reading audit log: %w", err)
		}

		if flags.jsonOut {
			return printJSON(events)
		}
		if len(events) == 0 {
			fmt.Println("No events found.")
			return nil
		}
		for _, ev := range events {
			displayEvent(ev)
		}
		return nil
	})
}

func displayEvent(ev entities.Event) {
	action := string(ev.Action)
	if ev.Action.IsCreate() {
		action = green(action)
	} else {
		action = cyan(action)
	}
	fmt.Printf("%6d  %s  %-28s %s\n", ev.Seq, gray(ev.Timestamp.Format(time.RFC3339)), action, ev.Details)
}

type verifyOutput struct {
	Log   *services.AuditSummary `json:"log"`
	Blobs *services.BlobReport   `json:"blobs,omitempty"`
}

func verifyError(summary *services.AuditSummary, blobs *services.BlobReport) error {
	if n := len(summary.Violations); n > 0 {
		return fmt.Errorf("audit log has %d violations", n)
	}
	if blobs != nil && !blobs.OK() {
		return fmt.Errorf("%d documents missing content, %d corrupt", len(blobs.Missing), len(blobs.Corrupt))
	}
	return nil
}

func displayBlobReport(r *services.BlobReport) {
	if r.OK() {
		fmt.Printf("%s\n", green(fmt.Sprintf("All %d documents have intact content.", r.Documents)))
		return
	}
	for _, id := range r.Missing {
		fmt.Printf("  %s %s\n", red("missing content:"), id)
	}
	for _, id := range r.Corrupt {
		fmt.Printf("  %s %s\n", red("corrupt content:"), id)
	}
}
