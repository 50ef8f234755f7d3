package cmd

import (
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Assign a primary fuel to every entity-period",
	RunE:  runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	svc, ctx, stop, err := newService(cmd)
	if err != nil {
		return err
	}
	defer stop()
	defer svc.Close()
	_, err = svc.Classify(ctx, cmd.OutOrStdout())
	return err
}
