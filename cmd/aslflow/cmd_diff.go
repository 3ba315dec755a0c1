package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/petrijr/aslflow"
)

var diffCmd = &cobra.Command{
	Use:   "diff NAME FROM [TO]",
	Short: "Compare two revisions of a definition (TO defaults to latest)",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name, from := args[0], args[1]
	to := ""
	if len(args) == 3 {
		to = args[2]
	}
	return withStore(ctx, func(store aslflow.DefinitionStore) error {
		a, err := lookup(ctx, store, name, from)
		if err != nil {
			return err
		}
		b, err := lookup(ctx, store, name, to)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if a.Fingerprint == b.Fingerprint {
			fmt.Fprintf(out, "%s and %s are identical\n", a.Revision, b.Revision)
			return nil
		}
		var av, bv any
		if err := json.Unmarshal([]byte(a.Document), &av); err != nil {
			return fmt.Errorf("decode %s: %w", a.Revision, err)
		}
		if err := json.Unmarshal([]byte(b.Document), &bv); err != nil {
			return fmt.Errorf("decode %s: %w", b.Revision, err)
		}
		fmt.Fprintf(out, "--- %s\n+++ %s\n%s", a.Revision, b.Revision, cmp.Diff(av, bv))
		return nil
	})
}
