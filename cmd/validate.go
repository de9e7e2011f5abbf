package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"voiptest/internal/scenario"
)

var errInvalidScenarios = errors.New("one or more scenario files are invalid")

func newValidateCmd() *cobra.Command {
	var (
		recursive bool
		exclude   []string
	)

	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Check scenario files without placing calls",
		Long: `Loads every scenario file at path and reports schema and consistency
problems, plus warnings for expectations that can never match or that are
recorded but not enforced. Exits 1 if any document is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := scenario.ValidatePath(args[0], scenario.DiscoverOptions{Recursive: recursive, Exclude: exclude})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range report.Files {
				if f.Valid {
					fmt.Fprintf(out, "✅ %s (%s, %d call(s))\n", f.Path, f.Name, f.Runs)
				} else {
					fmt.Fprintf(out, "❌ %s\n", f.Path)
				}
				for _, e := range f.Errors {
					fmt.Fprintf(out, "   • %s\n", e)
				}
				for _, w := range f.Warnings {
					fmt.Fprintf(out, "   ⚠️  %s\n", w)
				}
			}

			if !report.Valid {
				return errInvalidScenarios
			}
			fmt.Fprintf(out, "\n🎉 %d file(s) valid\n", report.FileCount)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Search subdirectories for scenario files")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Glob patterns relative to path to skip")
	return cmd
}
