package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"voiptest/internal/engine/sipp"
)

// sippVersion reports the installed SIPp version. Tests replace it.
var sippVersion = func(ctx context.Context) string {
	opts := sipp.OptionsFromConfig(harnessConfig.SIPp)
	return sipp.New(opts).Version(ctx)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of voiptest and the detected SIPp",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "voiptest version %s\n", rootCmd.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "sipp version %s\n", sippVersion(ctx))
		},
	}
}
