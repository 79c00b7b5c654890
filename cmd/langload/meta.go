package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ava12/langload/langdef"
)

func newMetaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "meta <id|file>",
		Short: "Print language metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, found := a.catalog.Metadata(args[0])
			if !found {
				var e error
				m, e = langdef.ReadMetadata(a.fs, args[0])
				if e != nil {
					a.log.Warn("malformed language definition", "path", args[0], "error", e)
				}
				if m.ID == "" {
					return fmt.Errorf("%s: language not found", args[0])
				}
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(m)
		},
	}
}
