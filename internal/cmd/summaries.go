package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matroid/matroid-cli/internal/api"
)

func newSummariesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "summaries",
		Aliases: []string{"summary"},
		Short:   "Manage video summaries",
	}

	cmd.AddCommand(newSummariesCreateCmd())
	cmd.AddCommand(newSummariesGetCmd())
	cmd.AddCommand(newSummariesTracksCmd())
	cmd.AddCommand(newSummariesFileCmd())
	cmd.AddCommand(newSummariesDeleteCmd())
	cmd.AddCommand(newSummariesStreamCmd())

	return cmd
}

func newSummariesCreateCmd() *cobra.Command {
	var videoURL, videoFile, videoID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start summarizing a video",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			video := api.Video{URL: videoURL, File: videoFile}
			opts := api.CreateVideoSummaryOptions{VideoID: videoID}
			res, err := client.Summaries().Create(cmd.Context(), video, opts)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringVar(&videoURL, "url", "", "Video URL")
	cmd.Flags().StringVar(&videoFile, "file", "", "Local video file")
	cmd.Flags().StringVar(&videoID, "video-id", "", "Existing server-side video record (with --url)")

	return cmd
}

func newSummariesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <summary-id>",
		Aliases: []string{"info"},
		Short:   "Show summary status and metadata",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Summaries().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}
}

// writeDownload writes fetched bytes to --output, or stdout when unset.
func writeDownload(cmd *cobra.Command, data []byte, path string) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	printAction(cmd, "Wrote", "file", path)
	return nil
}

func newSummariesTracksCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "tracks <summary-id>",
		Short: "Download the summary track CSV",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			data, err := client.Summaries().GetTracks(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeDownload(cmd, data, outPath)
		}),
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Write to a file instead of stdout")

	return cmd
}

func newSummariesFileCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "file <summary-id>",
		Short: "Download the summary video file",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			data, err := client.Summaries().GetFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeDownload(cmd, data, outPath)
		}),
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Write to a file instead of stdout")

	return cmd
}

func newSummariesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <summary-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a summary",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Summaries().Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printResult(cmd, res)
			}
			if err := failureFromResult(res); err != nil {
				return err
			}
			printAction(cmd, "Deleted", "summary", args[0])
			return nil
		}),
	}
}

func newSummariesStreamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Summaries of recorded streams",
	}

	cmd.AddCommand(newStreamSummariesListCmd())
	cmd.AddCommand(newStreamSummariesCreateCmd())

	return cmd
}

func newStreamSummariesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list <stream-id>",
		Aliases: []string{"ls"},
		Short:   "List summaries for a stream",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Summaries().ListForStream(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}
}

func newStreamSummariesCreateCmd() *cobra.Command {
	var opts api.CreateStreamSummaryOptions

	cmd := &cobra.Command{
		Use:   "create <stream-id>",
		Short: "Summarize a recorded window of a stream",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Summaries().CreateForStream(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringVar(&opts.StartTime, "start-time", "", "Window start (ISO 8601)")
	cmd.Flags().StringVar(&opts.EndTime, "end-time", "", "Window end (ISO 8601)")

	return cmd
}
