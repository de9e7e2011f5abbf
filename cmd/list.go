package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"voiptest/internal/scenario"
)

func newListCmd() *cobra.Command {
	var (
		recursive bool
		exclude   []string
	)

	cmd := &cobra.Command{
		Use:   "list <path>",
		Short: "Show the calls each scenario file expands to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listed, err := scenario.ListPath(args[0], scenario.DiscoverOptions{Recursive: recursive, Exclude: exclude})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range listed {
				fmt.Fprintf(out, "📄 %s\n", f.Path)
				if f.Error != "" {
					fmt.Fprintf(out, "   💥 %s\n", f.Error)
					continue
				}
				for _, c := range f.Calls {
					expect := string(c.Outcome)
					if c.FinalSIPCode != nil {
						expect = fmt.Sprintf("%s/%d", expect, *c.FinalSIPCode)
					}
					fmt.Fprintf(out, "   • %s: %s → %s via %s, expect %s\n", c.Name, c.From, c.To, c.Target, expect)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Search subdirectories for scenario files")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Glob patterns relative to path to skip")
	return cmd
}
