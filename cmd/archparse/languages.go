package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLanguagesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the supported languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(flags, nil)
			if err != nil {
				return err
			}
			defer a.close()

			for _, l := range a.svc.GetSupportedLanguages(cmd.Context()).Languages {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-20s %s\n", l.Name, strings.Join(l.Extensions, ","), l.ParserVersion)
			}
			return nil
		},
	}
}
