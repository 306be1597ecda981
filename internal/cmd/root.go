package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matroid/matroid-cli/internal/api"
	"github.com/matroid/matroid-cli/internal/debug"
	"github.com/matroid/matroid-cli/internal/filter"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output  string
	JSON    bool
	JQ      string
	Debug   bool
	Quiet   bool
	Timeout time.Duration
	BaseURL string
	Profile string
}

// flags holds the global command flags. This is package-level mutable state
// that MUST be reset at the start of every Execute() call. Tests depend on
// this reset to get clean state; any code that reads flags outside of a
// command's RunE is reading stale data from the previous Execute() call.
var flags = rootFlags{
	Output:  defaultOutput(),
	Timeout: api.DefaultTimeout,
}

func defaultOutput() string {
	value := strings.TrimSpace(os.Getenv("MATROID_OUTPUT"))
	if value != "" {
		return value
	}
	return "text"
}

// loadMatroidEnv loads environment variables from ~/.matroid/.env if the file
// exists. Variables already set in the environment are not overwritten, so
// explicit exports always take precedence.
func loadMatroidEnv() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	path := filepath.Join(home, ".matroid", ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	// Auto-load credentials from ~/.matroid/.env when present. This runs
	// before the flag-default reset so that MATROID_OUTPUT and other
	// env-driven defaults pick up the values.
	loadMatroidEnv()

	// Reset flags to defaults for each execution. This is critical for test
	// isolation — see the invariant comment on the flags declaration above.
	flags = rootFlags{
		Output:  defaultOutput(),
		Timeout: api.DefaultTimeout,
	}

	root := &cobra.Command{
		Use:           "matroid",
		Short:         "CLI for the Matroid computer vision platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if flags.JSON {
				if cmd.Flags().Changed("output") && flags.Output != "json" {
					return fmt.Errorf("--json conflicts with --output %s", flags.Output)
				}
				flags.Output = "json"
			}
			if flags.Output != "text" && flags.Output != "json" {
				return fmt.Errorf("invalid --output %q: must be text or json", flags.Output)
			}
			// A jq filter only makes sense over JSON output.
			if flags.JQ != "" && flags.Output != "json" {
				if cmd.Flags().Changed("output") {
					return fmt.Errorf("--jq requires --output json (or --json)")
				}
				flags.Output = "json"
			}
			if flags.JQ != "" {
				if _, err := filter.Apply(nil, flags.JQ); err != nil {
					return err
				}
			}
			if flags.Timeout < 0 {
				return fmt.Errorf("--timeout must be >= 0")
			}

			// Set up debug logging
			debug.SetupLogger(flags.Debug || debug.FromEnv())
			ctx = debug.WithDebug(ctx, flags.Debug || debug.FromEnv())

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)
	root.PersistentFlags().StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json (env MATROID_OUTPUT)")
	root.PersistentFlags().BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	root.PersistentFlags().StringVar(&flags.JQ, "jq", "", "JQ expression to filter JSON output")
	root.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-essential output")
	root.PersistentFlags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g., 30s, 2m)")
	root.PersistentFlags().StringVar(&flags.BaseURL, "base-url", "", "API base URL override (env MATROID_BASE_URL)")
	root.PersistentFlags().StringVar(&flags.Profile, "profile", "", "Credential profile to use (env MATROID_PROFILE)")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newAccountCmd())
	root.AddCommand(newDetectorsCmd())
	root.AddCommand(newImagesCmd())
	root.AddCommand(newLabelsCmd())
	root.AddCommand(newCollectionsCmd())
	root.AddCommand(newStreamsCmd())
	root.AddCommand(newMonitoringsCmd())
	root.AddCommand(newVideosCmd())
	root.AddCommand(newSummariesCmd())
	root.AddCommand(newAPICmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		}
		return err
	}
	return nil
}
