package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matroid/matroid-cli/internal/api"
)

func newCollectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"collection"},
		Short:   "Manage media collections and their indexes",
	}

	cmd.AddCommand(newCollectionsCreateCmd())
	cmd.AddCommand(newCollectionsGetCmd())
	cmd.AddCommand(newCollectionsDeleteCmd())
	cmd.AddCommand(newCollectionsIndexCmd())
	cmd.AddCommand(newCollectionsQueryCmd())

	return cmd
}

func newCollectionsCreateCmd() *cobra.Command {
	var sourceURL, sourceType string
	var indexWithDefault bool

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Register a collection backed by a web or S3 url",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			opts := api.CreateCollectionOptions{IndexWithDefault: indexWithDefault}
			res, err := client.Collections().Create(cmd.Context(), args[0], sourceURL, sourceType, opts)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringVar(&sourceURL, "url", "", "Source location (required)")
	cmd.Flags().StringVar(&sourceType, "source-type", "", "Source type: web|s3 (required)")
	cmd.Flags().BoolVar(&indexWithDefault, "index-with-default", false, "Index immediately with the default detector")

	return cmd
}

func newCollectionsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <collection-id>",
		Aliases: []string{"info"},
		Short:   "Show collection details",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Collections().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}
}

func newCollectionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <collection-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a collection",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Collections().Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printResult(cmd, res)
			}
			if err := failureFromResult(res); err != nil {
				return err
			}
			printAction(cmd, "Deleted", "collection", args[0])
			return nil
		}),
	}
}

func newCollectionsIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage collection index tasks",
	}

	cmd.AddCommand(newIndexCreateCmd())
	cmd.AddCommand(newIndexGetCmd())
	cmd.AddCommand(newIndexUpdateCmd())
	cmd.AddCommand(newIndexKillCmd())
	cmd.AddCommand(newIndexDeleteCmd())

	return cmd
}

func newIndexCreateCmd() *cobra.Command {
	var fileTypes string

	cmd := &cobra.Command{
		Use:   "create <collection-id> <detector>",
		Short: "Index a collection with a detector",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			detectorID, err := resolveDetectorID(cmd.Context(), client, args[1])
			if err != nil {
				return err
			}
			res, err := client.Collections().CreateIndex(cmd.Context(), args[0], detectorID, fileTypes)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringVar(&fileTypes, "file-types", "", "Media to index: images|videos (required)")

	return cmd
}

func newIndexGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <task-id>",
		Aliases: []string{"status"},
		Short:   "Show an index task",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Collections().GetTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}
}

func newIndexUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <task-id>",
		Short: "Re-index new media in a collection",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Collections().UpdateIndex(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}
}

func newIndexKillCmd() *cobra.Command {
	var includeCollectionInfo bool

	cmd := &cobra.Command{
		Use:   "kill <task-id>",
		Short: "Stop a running index task",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Collections().KillIndex(cmd.Context(), args[0], includeCollectionInfo)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().BoolVar(&includeCollectionInfo, "include-collection", false, "Include collection details in the response")

	return cmd
}

func newIndexDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <task-id>",
		Aliases: []string{"rm"},
		Short:   "Delete an index task",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Collections().DeleteIndex(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printResult(cmd, res)
			}
			if err := failureFromResult(res); err != nil {
				return err
			}
			printAction(cmd, "Deleted", "index task", args[0])
			return nil
		}),
	}
}

func newCollectionsQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query a collection index",
	}

	cmd.AddCommand(newQueryScoresCmd())
	cmd.AddCommand(newQueryImageCmd())

	return cmd
}

func newQueryScoresCmd() *cobra.Command {
	var thresholdPairs []string
	var numResults int

	cmd := &cobra.Command{
		Use:   "scores <task-id>",
		Short: "Query an index by per-label score thresholds",
		Example: strings.TrimSpace(`
  matroid collections query scores 5ee0... --threshold cat=0.8 --threshold dog=0.5
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
			opts := api.QueryScoresOptions{NumResults: numResults}
			res, err := client.Collections().QueryByScores(cmd.Context(), args[0], thresholds, opts)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringSliceVar(&thresholdPairs, "threshold", nil, "label=score pair (repeatable, required)")
	cmd.Flags().IntVar(&numResults, "num-results", 0, "Maximum results")

	return cmd
}

func newQueryImageCmd() *cobra.Command {
	var imageURL, imageFile, bbox string
	var numResults int
	var indicateDuplicates bool

	cmd := &cobra.Command{
		Use:   "image <task-id>",
		Short: "Query an index with an example image",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			box, err := parseBoundingBox(bbox)
			if err != nil {
				return err
			}

			image := api.Image{URL: imageURL}
			if imageFile != "" {
				image.Files = []string{imageFile}
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			opts := api.QueryImageOptions{
				NumResults:               numResults,
				BoundingBox:              box,
				ShouldIndicateDuplicates: indicateDuplicates,
			}
			res, err := client.Collections().QueryByImage(cmd.Context(), args[0], image, opts)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringVar(&imageURL, "url", "", "Example image URL")
	cmd.Flags().StringVar(&imageFile, "file", "", "Example image file")
	cmd.Flags().StringVar(&bbox, "bbox", "", "Restrict to a region: top,left,width,height")
	cmd.Flags().IntVar(&numResults, "num-results", 0, "Maximum results")
	cmd.Flags().BoolVar(&indicateDuplicates, "indicate-duplicates", false, "Mark near-duplicate results")

	return cmd
}
