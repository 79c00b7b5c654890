package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [<id>...]",
		Short: "Compile languages and report grammar errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := args
			if len(ids) == 0 {
				for _, m := range a.catalog.Languages() {
					ids = append(ids, m.ID)
				}
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, id := range ids {
				l := a.newLoader()
				ref, _ := l.LoadMainContextByID(id)
				errs := l.Errors()
				l.Close()

				switch {
				case ref == nil && a.catalog.PathForID(id) == "":
					fmt.Fprintf(out, "%s: not found\n", id)
				case ref == nil:
					fmt.Fprintf(out, "%s: no main context\n", id)
				case len(errs) == 0:
					fmt.Fprintf(out, "%s: ok\n", id)
					continue
				}

				for _, e := range errs {
					fmt.Fprintf(out, "%s: %s\n", id, e)
				}
				failed++
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d languages failed", failed, len(ids))
			}
			return nil
		},
	}
}
