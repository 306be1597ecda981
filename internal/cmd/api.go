package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matroid/matroid-cli/internal/api"
)

func newAPICmd() *cobra.Command {
	var dataPairs, uriPairs []string

	cmd := &cobra.Command{
		Use:   "api <action>",
		Short: "Dispatch a raw API action",
		Long: strings.TrimSpace(`
Send any registered API action directly, bypassing the typed subcommands.
Form fields are given as repeated --data key=value pairs and URI template
parameters as --param name=value. Run "matroid api list" for action names.
`),
		Example: strings.TrimSpace(`
  matroid api getDetectorInfo --param detectorId=5ab0...
  matroid api searchDetectors --data state=trained --data limit=5
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			action, ok := api.ActionByName(args[0])
			if !ok {
				return fmt.Errorf("unknown action %q (see 'matroid api list')", args[0])
			}

			data, err := parseKeyValuePairs(dataPairs, "--data")
			if err != nil {
				return err
			}
			uriParams, err := parseKeyValuePairs(uriPairs, "--param")
			if err != nil {
				return err
			}
			// URI templates name parameters with a leading colon.
			withColons := make(map[string]string, len(uriParams))
			for k, v := range uriParams {
				withColons[":"+strings.TrimPrefix(k, ":")] = v
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Do(cmd.Context(), action, data, withColons)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringArrayVar(&dataPairs, "data", nil, "Form field as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&uriPairs, "param", nil, "URI parameter as name=value (repeatable)")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List dispatchable action names",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			names := api.ActionNames()
			if isJSON(cmd) {
				return printJSON(cmd, names)
			}
			for _, name := range names {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}),
	})

	return cmd
}

func parseKeyValuePairs(pairs []string, flagName string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid %s %q: must be key=value", flagName, pair)
		}
		out[key] = value
	}
	return out, nil
}
