// aslflow inspects state machine definitions kept in a definition store.
//
// Usage:
//
//	aslflow history NAME --store=<url>
//	aslflow show NAME [--revision=<id>] [--format=json|yaml] --store=<url>
//	aslflow diff NAME FROM [TO] --store=<url>
//
// Store URLs: sqlite:<path>, postgres://..., redis://..., mongodb://...
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	store       string
	redisPrefix string
	mongoDB     string
	mongoColl   string
}

var rootCmd = &cobra.Command{
	Use:   "aslflow",
	Short: "Inspect published Amazon States Language definitions",
	Long:  "aslflow reads the revisions a Publisher stored for a state machine\nand prints, converts or compares them.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.store, "store", "", "Definition store URL (sqlite:<path>, postgres://, redis://, mongodb://)")
	f.StringVar(&rootFlags.redisPrefix, "redis-prefix", "aslflow:", "Key prefix for redis stores")
	f.StringVar(&rootFlags.mongoDB, "mongo-db", "aslflow", "Database name for mongodb stores")
	f.StringVar(&rootFlags.mongoColl, "mongo-collection", "definitions", "Collection name for mongodb stores")
	_ = rootCmd.MarkPersistentFlagRequired("store")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
