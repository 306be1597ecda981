package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/matroid/matroid-cli/internal/update"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func newVersionCmd() *cobra.Command {
	var checkUpdate bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			var result *update.CheckResult
			if checkUpdate {
				result = update.CheckForUpdate(cmd.Context(), version)
			}

			if isJSON(cmd) {
				out := map[string]any{
					"version": version,
					"go":      runtime.Version(),
					"os":      runtime.GOOS,
					"arch":    runtime.GOARCH,
				}
				if result != nil {
					out["latest_version"] = result.LatestVersion
					out["update_available"] = result.UpdateAvailable
					if result.AssetURL != "" {
						out["download_url"] = result.AssetURL
					}
				}
				return printJSON(cmd, out)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "matroid %s (%s %s/%s)\n",
				version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			if result != nil && result.UpdateAvailable {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Update available: %s -> %s\n  %s\n",
					result.CurrentVersion, result.LatestVersion, result.UpdateURL)
				if result.AssetURL != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Download for %s/%s: %s\n",
						runtime.GOOS, runtime.GOARCH, result.AssetURL)
				}
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&checkUpdate, "check-update", false, "Check for a newer release")

	return cmd
}
