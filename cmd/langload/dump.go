package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ava12/langload/grammar"
)

func newDumpCmd(a *app) *cobra.Command {
	var mimeType, filename, format string
	cmd := &cobra.Command{
		Use:   "dump [<id>]",
		Short: "Print compiled context graph of a language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "yaml" && format != "json" {
				return fmt.Errorf("unknown format %q (must be \"yaml\" or \"json\")", format)
			}

			l := a.newLoader()
			defer l.Close()

			var ref *grammar.Reference
			var e error
			name := strings.TrimSpace(mimeType + " " + filename)
			switch {
			case len(args) > 0:
				name = args[0]
				ref, e = l.LoadMainContextByID(args[0])
			case mimeType != "" || filename != "":
				ref, e = l.LoadMainContextByMimeType(mimeType, filename)
			default:
				return fmt.Errorf("language id, --mime, or --filename required")
			}
			if ref == nil {
				return fmt.Errorf("%s: language not found", name)
			}
			if e != nil {
				a.log.Warn("language has errors", "lang", name, "error", e)
			}

			snapshot := l.Snapshot(ref)
			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snapshot)
			}

			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(snapshot)
		},
	}
	cmd.Flags().StringVar(&mimeType, "mime", "", "MIME type of the document")
	cmd.Flags().StringVar(&filename, "filename", "", "document file name to match against language globs")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	return cmd
}
