package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/petrijr/aslflow"
)

var showFlags struct {
	revision string
	format   string
}

var showCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print a stored definition",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	f := showCmd.Flags()
	f.StringVar(&showFlags.revision, "revision", "", "Revision ID (default latest)")
	f.StringVar(&showFlags.format, "format", "json", "Output format: json or yaml")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withStore(ctx, func(store aslflow.DefinitionStore) error {
		def, err := lookup(ctx, store, args[0], showFlags.revision)
		if err != nil {
			return err
		}
		text, err := formatDocument(def.Document, showFlags.format)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	})
}

// formatDocument re-encodes a stored JSON document. Key order is kept in
// both formats.
func formatDocument(doc, format string) (string, error) {
	switch format {
	case "json":
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(doc), "", "  "); err != nil {
			return "", fmt.Errorf("indent document: %w", err)
		}
		buf.WriteByte('\n')
		return buf.String(), nil
	case "yaml":
		// JSON is valid YAML; decoding into a node keeps the key order.
		var node yaml.Node
		if err := yaml.Unmarshal([]byte(doc), &node); err != nil {
			return "", fmt.Errorf("decode document: %w", err)
		}
		blockStyle(&node)
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		return buf.String(), nil
	}
	return "", fmt.Errorf("unknown format %q", format)
}

// blockStyle drops the flow and quoting styles the JSON input carries.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
