package cmd

import (
	"github.com/spf13/cobra"
)

var sharesCmd = &cobra.Command{
	Use:   "shares",
	Short: "Compute the heat share of each fuel per entity-period",
	RunE:  runShares,
}

func init() {
	rootCmd.AddCommand(sharesCmd)
}

func runShares(cmd *cobra.Command, args []string) error {
	svc, ctx, stop, err := newService(cmd)
	if err != nil {
		return err
	}
	defer stop()
	defer svc.Close()
	_, err = svc.Shares(ctx, cmd.OutOrStdout())
	return err
}
