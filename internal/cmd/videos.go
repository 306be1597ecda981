package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matroid/matroid-cli/internal/api"
)

func newVideosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "videos",
		Aliases: []string{"video", "vid"},
		Short:   "Classify videos and fetch results",
	}

	cmd.AddCommand(newVideosClassifyCmd())
	cmd.AddCommand(newVideosResultsCmd())

	return cmd
}

func newVideosClassifyCmd() *cobra.Command {
	var videoURL, videoFile, videoID string
	var fps float64
	var thresholdPairs []string

	cmd := &cobra.Command{
		Use:   "classify <detector>",
		Short: "Run a detector over a video",
		Long: strings.TrimSpace(`
Classify a video from a remote URL or a local file. Classification is
asynchronous; the response carries a video ID to poll with "videos results".
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			thresholds, err := parseThresholds(thresholdPairs)
			if err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			detectorID, err := resolveDetectorID(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}

			video := api.Video{URL: videoURL, File: videoFile}
			opts := api.ClassifyVideoOptions{
				VideoID:              videoID,
				FPS:                  fps,
				AnnotationThresholds: thresholds,
			}
			res, err := client.Videos().Classify(cmd.Context(), detectorID, video, opts)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringVar(&videoURL, "url", "", "Video URL")
	cmd.Flags().StringVar(&videoFile, "file", "", "Local video file")
	cmd.Flags().StringVar(&videoID, "video-id", "", "Existing server-side video record")
	cmd.Flags().Float64Var(&fps, "fps", 0, "Sampled frames per second")
	cmd.Flags().StringSliceVar(&thresholdPairs, "annotation-threshold", nil, "label=score pair (repeatable)")

	return cmd
}

func newVideosResultsCmd() *cobra.Command {
	var threshold float64
	var format string
	var annotations bool

	cmd := &cobra.Command{
		Use:   "results <video-id>",
		Short: "Fetch classification results for a video",
		Long: strings.TrimSpace(`
Fetch results for a classified video. --format csv writes the raw CSV bytes
to stdout instead of JSON.
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			opts := api.VideoResultsOptions{
				Annotations: boolPtrIfChanged(cmd, "annotations", annotations),
			}
			res, err := client.Videos().GetResults(cmd.Context(), args[0], threshold, format, opts)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Drop detections below this confidence")
	cmd.Flags().StringVar(&format, "format", "", "Result format: json|csv")
	cmd.Flags().BoolVar(&annotations, "annotations", false, "Include per-frame annotation data")

	return cmd
}
