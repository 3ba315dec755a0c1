package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/petrijr/aslflow"
)

var historyCmd = &cobra.Command{
	Use:   "history NAME",
	Short: "List the stored revisions of a definition, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := args[0]
	return withStore(ctx, func(store aslflow.DefinitionStore) error {
		revs, err := store.ListRevisions(ctx, name)
		if err != nil {
			return fmt.Errorf("list revisions: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(revs) == 0 {
			fmt.Fprintf(out, "No revisions stored for %s\n", name)
			return nil
		}
		for _, rev := range revs {
			def, err := store.GetDefinition(ctx, name, rev)
			if err != nil {
				return fmt.Errorf("revision %s: %w", rev, err)
			}
			fmt.Fprintf(out, "%s  %s  %s\n", def.Revision, def.Fingerprint[:12], def.CreatedAt.UTC().Format(time.RFC3339))
		}
		return nil
	})
}
