package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matroid/matroid-cli/internal/api"
)

func newImagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "images",
		Aliases: []string{"image", "img"},
		Short:   "Classify and localize images",
	}

	cmd.AddCommand(newImagesClassifyCmd())
	cmd.AddCommand(newImagesLocalizeCmd())

	return cmd
}

func newImagesClassifyCmd() *cobra.Command {
	var urls, files []string
	var numResults, concurrency int
	var each bool

	cmd := &cobra.Command{
		Use:   "classify <detector>",
		Short: "Classify images with a detector",
		Example: strings.TrimSpace(`
  # Single remote image
  matroid images classify 5ab0... --url https://example.com/cat.jpg

  # Several local files in one request
  matroid images classify "Loading Dock" --file a.jpg --file b.jpg

  # Many files, one request per file
  matroid images classify 5ab0... --file a.jpg --file b.jpg --each
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			id, err := resolveDetectorID(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}

			opts := api.ClassifyImageOptions{NumResults: numResults}

			if each {
				return classifyEach(cmd, client, id, files, opts, concurrency)
			}

			image := api.Image{Files: files}
			switch len(urls) {
			case 0:
			case 1:
				image.URL = urls[0]
			default:
				image.URLs = urls
			}

			res, err := client.Images().Classify(cmd.Context(), id, image, opts)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringSliceVar(&urls, "url", nil, "Image URL (repeatable)")
	cmd.Flags().StringSliceVar(&files, "file", nil, "Local image file (repeatable)")
	cmd.Flags().IntVar(&numResults, "num-results", 0, "Maximum labels per image")
	cmd.Flags().BoolVar(&each, "each", false, "Send one request per --file instead of a batch")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Parallel requests with --each")

	return cmd
}

// classifyEach classifies each file in its own request, a bounded number at a
// time, and prints one result object per file keyed by path.
func classifyEach(cmd *cobra.Command, client *api.Client, detectorID string, files []string, opts api.ClassifyImageOptions, concurrency int) error {
	if len(files) == 0 {
		return fmt.Errorf("--each requires at least one --file")
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]any, len(files))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(concurrency)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			res, err := client.Images().Classify(ctx, detectorID, api.Image{Files: []string{file}}, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			if err := failureFromResult(res); err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			results[i] = res.Value
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := make(map[string]any, len(files))
	for i, file := range files {
		out[file] = results[i]
	}
	return printJSON(cmd, out)
}

func newImagesLocalizeCmd() *cobra.Command {
	var opts api.LocalizeImageOptions
	var urls, files []string

	cmd := &cobra.Command{
		Use:   "localize <localizer> <label>",
		Short: "Find bounding boxes with a localizer",
		Long: strings.TrimSpace(`
Localize objects in an image. The built-in face localizer is addressed as
localizer DEFAULT_FACE with label face. With --update, boxes are computed for
existing training images (--label-id plus --image-id) instead of a new image.
`),
		Example: strings.TrimSpace(`
  matroid images localize DEFAULT_FACE face --url https://example.com/crowd.jpg

  # Refresh boxes on training images
  matroid images localize 5ab0... car --update --label-id 5cc0... --image-id 5dd0...
`),
		Args: cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			opts.Image = api.Image{Files: files}
			switch len(urls) {
			case 0:
			case 1:
				opts.Image.URL = urls[0]
			default:
				opts.Image.URLs = urls
			}

			res, err := client.Images().Localize(cmd.Context(), args[0], args[1], opts)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringSliceVar(&urls, "url", nil, "Image URL (repeatable)")
	cmd.Flags().StringSliceVar(&files, "file", nil, "Local image file (repeatable)")
	cmd.Flags().IntVar(&opts.NumResults, "num-results", 0, "Maximum boxes per image")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "Localize existing training images")
	cmd.Flags().StringVar(&opts.LabelID, "label-id", "", "Label owning the training images (with --update)")
	cmd.Flags().StringVar(&opts.ImageID, "image-id", "", "Training image to localize (with --update)")
	cmd.Flags().StringSliceVar(&opts.ImageIDs, "image-ids", nil, "Training images to localize (with --update)")

	return cmd
}
