package cmd

import (
	"github.com/spf13/cobra"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account information",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Show account and quota information",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Accounts().GetAccountInfo(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	})

	return cmd
}
