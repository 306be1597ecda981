package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matroid/matroid-cli/internal/api"
	"github.com/matroid/matroid-cli/internal/config"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage API credentials",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthTokenCmd())
	cmd.AddCommand(newAuthProfilesCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var clientID, clientSecret, baseURL, profile string
	var noVerify bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store API credentials in the system keychain",
		Long: strings.TrimSpace(`
Store a Matroid OAuth client-credentials pair. Credentials are verified by
requesting an access token unless --no-verify is given, then saved to the
system keychain (or an encrypted file on headless systems).
`),
		Example: strings.TrimSpace(`
  # Interactive login
  matroid auth login

  # Non-interactive
  matroid auth login --client-id ID --client-secret SECRET
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())

			if clientID == "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "Client ID: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read client id: %w", err)
				}
				clientID = strings.TrimSpace(line)
			}
			if clientSecret == "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "Client secret: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read client secret: %w", err)
				}
				clientSecret = strings.TrimSpace(line)
			}
			if clientID == "" || clientSecret == "" {
				return fmt.Errorf("client id and client secret are required")
			}

			creds := config.Credentials{
				BaseURL:      strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
				ClientID:     clientID,
				ClientSecret: clientSecret,
			}

			if !noVerify {
				cfg := api.Config{
					BaseURL:      creds.BaseURL,
					ClientID:     creds.ClientID,
					ClientSecret: creds.ClientSecret,
				}
				client := api.New(cfg)
				if _, err := client.RetrieveToken(cmd.Context(), api.TokenOptions{}); err != nil {
					return fmt.Errorf("credential verification failed: %w", err)
				}
			}

			if err := config.SaveProfile(profile, creds); err != nil {
				return err
			}

			if !flags.Quiet {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Credentials saved.")
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client ID")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth client secret")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL (defaults to production)")
	cmd.Flags().StringVar(&profile, "save-profile", "", "Profile name to save under (default: default)")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip credential verification")

	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			factory := newClientFactory()
			creds, err := factory.credentials()
			if err != nil {
				return err
			}

			baseURL := creds.BaseURL
			if baseURL == "" {
				baseURL = api.DefaultBaseURL
			}

			client, err := factory.client()
			if err != nil {
				return err
			}
			res, err := client.Accounts().GetAccountInfo(cmd.Context())
			if err != nil {
				return err
			}
			if err := failureFromResult(res); err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"base_url":  baseURL,
					"client_id": creds.ClientID,
					"account":   res.Value,
				})
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s\n", baseURL)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Client ID: %s\n", creds.ClientID)
			return nil
		}),
	}
}

func newAuthLogoutCmd() *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := config.DeleteProfile(profile); err != nil {
				return err
			}
			if !flags.Quiet {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Credentials removed.")
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&profile, "save-profile", "", "Profile name to remove (default: default)")

	return cmd
}

func newAuthTokenCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an access token",
		Long: strings.TrimSpace(`
Print the Authorization header value for the stored credentials. By default a
cached token is reused; --refresh forces a new client-credentials grant.
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			header, err := client.RetrieveToken(cmd.Context(), api.TokenOptions{Refresh: refresh})
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]string{"authorization": header})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), header)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Force a new token grant")

	return cmd
}

func newAuthProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List stored credential profiles",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profiles, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current, err := config.CurrentProfile()
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"profiles": profiles, "current": current})
			}

			if len(profiles) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No profiles configured")
				return nil
			}
			for _, p := range profiles {
				marker := " "
				if p == current {
					marker = "*"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, p)
			}
			return nil
		}),
	}
}
