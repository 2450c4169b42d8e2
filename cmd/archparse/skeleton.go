package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSkeletonCmd(flags *globalFlags) *cobra.Command {
	var (
		language string
		apiOnly  bool
	)
	cmd := &cobra.Command{
		Use:   "skeleton <file>",
		Short: "Print a file's declarations with bodies elided",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, nil)
			if err != nil {
				return err
			}
			defer a.close()

			req, err := fileRequest(args[0], language)
			if err != nil {
				return err
			}
			resp, err := a.svc.ExtractSkeleton(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if apiOnly {
				if len(resp.PublicAPI) > 0 {
					fmt.Fprintln(out, strings.Join(resp.PublicAPI, "\n"))
				}
				return nil
			}
			fmt.Fprint(out, resp.Skeleton)
			return nil
		},
	}
	cmd.Flags().StringVar(&language, "language", "", "language of the file (default: from extension)")
	cmd.Flags().BoolVar(&apiOnly, "api", false, "print only the public API signatures")
	return cmd
}
