package cmd

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matroid/matroid-cli/internal/api"
	"github.com/matroid/matroid-cli/internal/cache"
	"github.com/matroid/matroid-cli/internal/resolve"
)

var objectIDRegexp = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// detectorSummary is the subset of detector fields used for name resolution.
type detectorSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// resolveDetectorID accepts a raw detector ID or a detector name. Names are
// fuzzy-matched against the account's detectors; the detector list is cached
// briefly to keep repeated lookups cheap.
func resolveDetectorID(ctx context.Context, client *api.Client, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if objectIDRegexp.MatchString(arg) {
		return arg, nil
	}

	var detectors []detectorSummary
	var store *cache.Store
	if dir, err := cache.DefaultDir(); err == nil {
		store = cache.NewStore(dir, "detectors", client.BaseURL())
	}
	if store == nil || !store.Get(&detectors) {
		res, err := client.Detectors().Search(ctx, api.SearchDetectorsOptions{})
		if err != nil {
			return "", err
		}
		if err := failureFromResult(res); err != nil {
			return "", err
		}
		if err := res.Decode(&detectors); err != nil {
			return "", fmt.Errorf("failed to decode detector list: %w", err)
		}
		if store != nil {
			store.Put(detectors)
		}
	}

	items := make([]resolve.Named, 0, len(detectors))
	for _, d := range detectors {
		items = append(items, resolve.Named{ID: d.ID, Name: d.Name})
	}
	id, err := resolve.FuzzyMatch(arg, items)
	if err != nil {
		return "", fmt.Errorf("detector %q: %w", arg, err)
	}
	return id, nil
}

func newDetectorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "detectors",
		Aliases: []string{"detector", "d"},
		Short:   "Manage detectors",
	}

	cmd.AddCommand(newDetectorsListCmd())
	cmd.AddCommand(newDetectorsInfoCmd())
	cmd.AddCommand(newDetectorsCreateCmd())
	cmd.AddCommand(newDetectorsTrainCmd())
	cmd.AddCommand(newDetectorsDeleteCmd())
	cmd.AddCommand(newDetectorsImportCmd())
	cmd.AddCommand(newDetectorsRedoCmd())
	cmd.AddCommand(newDetectorsFeedbackCmd())

	return cmd
}

func newDetectorsListCmd() *cobra.Command {
	var name, detectorType, state string
	var published bool
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "search"},
		Short:   "List or search detectors",
		Example: strings.TrimSpace(`
  # All detectors visible to the account
  matroid detectors list

  # Published face detectors
  matroid detectors list --type facial_recognition --published
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			opts := api.SearchDetectorsOptions{
				Name:         name,
				DetectorType: detectorType,
				State:        state,
				Published:    boolPtrIfChanged(cmd, "published", published),
				Limit:        limit,
			}
			res, err := client.Detectors().Search(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := failureFromResult(res); err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, res.Value)
			}

			var detectors []struct {
				ID    string `json:"id"`
				Name  string `json:"name"`
				Type  string `json:"type"`
				State string `json:"state"`
			}
			if err := res.Decode(&detectors); err != nil {
				return printJSON(cmd, res.Value)
			}
			if len(detectors) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No detectors found")
				return nil
			}

			w := newTabWriter(cmd.OutOrStdout())
			_, _ = fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATE")
			for _, d := range detectors {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Type, d.State)
			}
			return w.Flush()
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Filter by detector name")
	cmd.Flags().StringVar(&detectorType, "type", "", "Filter by detector type")
	cmd.Flags().StringVar(&state, "state", "", "Filter by state (pending|training|trained|failed)")
	cmd.Flags().BoolVar(&published, "published", false, "Only published detectors (--published=false for unpublished)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum results")

	return cmd
}

func newDetectorsInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "info <detector>",
		Aliases: []string{"get"},
		Short:   "Show detector details",
		Long:    "Show details for a detector, addressed by ID or name",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			id, err := resolveDetectorID(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			res, err := client.Detectors().GetInfo(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}
}

func newDetectorsCreateCmd() *cobra.Command {
	var zipFile, name, detectorType, pretrained string
	var sharedWith []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a detector from a labeled image zip",
		Long: strings.TrimSpace(`
Create a detector from a zip of labeled training images. The zip contains one
directory per label; detection labels keep bounding box XML alongside images.
`),
		Example: strings.TrimSpace(`
  matroid detectors create --zip training.zip --name "Loading Dock" --type general
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			opts := api.CreateDetectorOptions{
				PretrainedDetectorID: pretrained,
				SharedWith:           sharedWith,
			}
			res, err := client.Detectors().Create(cmd.Context(), zipFile, name, detectorType, opts)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringVar(&zipFile, "zip", "", "Path to the training zip (required)")
	cmd.Flags().StringVar(&name, "name", "", "Detector name (required)")
	cmd.Flags().StringVar(&detectorType, "type", "", "Detector type (required)")
	cmd.Flags().StringVar(&pretrained, "pretrained", "", "Seed from an existing detector ID")
	cmd.Flags().StringSliceVar(&sharedWith, "share-with", nil, "Account emails granted access")

	return cmd
}

func newDetectorsTrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train <detector-id>",
		Short: "Start training a detector",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Detectors().Train(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printResult(cmd, res)
			}
			if err := failureFromResult(res); err != nil {
				return err
			}
			printAction(cmd, "Training", "detector", args[0])
			return nil
		}),
	}
}

func newDetectorsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <detector>",
		Aliases: []string{"rm"},
		Short:   "Delete a detector",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			id, err := resolveDetectorID(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			res, err := client.Detectors().Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printResult(cmd, res)
			}
			if err := failureFromResult(res); err != nil {
				return err
			}
			printAction(cmd, "Deleted", "detector", id)
			return nil
		}),
	}
}

func newDetectorsImportCmd() *cobra.Command {
	var opts api.ImportDetectorOptions
	var labels []string

	cmd := &cobra.Command{
		Use:   "import <name>",
		Short: "Import a custom trained model",
		Long: strings.TrimSpace(`
Import an externally trained model as a detector, either from a packaged
detector file or from a frozen graph with label files.
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			opts.Labels = labels
			res, err := client.Detectors().Import(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringVar(&opts.FileDetector, "detector-file", "", "Packaged detector file")
	cmd.Flags().StringVar(&opts.FileProto, "proto", "", "Frozen graph .pb file")
	cmd.Flags().StringVar(&opts.FileLabel, "label-file", "", "Label text file")
	cmd.Flags().StringVar(&opts.FileLabelInd, "label-index-file", "", "Label index file")
	cmd.Flags().StringVar(&opts.InputTensor, "input-tensor", "", "Input tensor name")
	cmd.Flags().StringVar(&opts.OutputTensor, "output-tensor", "", "Output tensor name")
	cmd.Flags().StringVar(&opts.DetectorType, "type", "", "Detector type")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "Label names (repeatable)")

	return cmd
}

func newDetectorsRedoCmd() *cobra.Command {
	var feedbackOnly bool

	cmd := &cobra.Command{
		Use:   "redo <detector-id>",
		Short: "Retrain a detector as a new copy",
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("requires exactly one detector id")
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Detectors().Redo(cmd.Context(), args[0], feedbackOnly)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().BoolVar(&feedbackOnly, "feedback-only", false, "Retrain only on accumulated feedback")

	return cmd
}

func newDetectorsFeedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Manage detector feedback",
	}

	cmd.AddCommand(newFeedbackAddCmd())
	cmd.AddCommand(newFeedbackDeleteCmd())

	return cmd
}

func newFeedbackAddCmd() *cobra.Command {
	var imageURL, imageFile, label, feedbackType, bbox string

	cmd := &cobra.Command{
		Use:   "add <detector>",
		Short: "Add a labeled correction to a detector",
		Example: strings.TrimSpace(`
  # Negative feedback on a false positive
  matroid detectors feedback add 5ab0... --file frame.jpg --label cat --type negative --bbox 0.1,0.2,0.3,0.4
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

			box, err := parseBoundingBox(bbox)
			if err != nil {
				return err
			}

			image := api.Image{URL: imageURL}
			if imageFile != "" {
				image.Files = []string{imageFile}
			}
			feedback := []api.Feedback{{
				FeedbackType: feedbackType,
				Label:        label,
				BoundingBox:  box,
			}}

			res, err := client.Detectors().AddFeedback(cmd.Context(), id, image, feedback)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringVar(&imageURL, "url", "", "Image URL")
	cmd.Flags().StringVar(&imageFile, "file", "", "Local image file")
	cmd.Flags().StringVar(&label, "label", "", "Label the feedback applies to (required)")
	cmd.Flags().StringVar(&feedbackType, "type", "positive", "Feedback type: positive|negative")
	cmd.Flags().StringVar(&bbox, "bbox", "", "Bounding box as top,left,width,height (fractions)")

	return cmd
}

func newFeedbackDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <detector-id> <feedback-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a feedback item",
		Args:    cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Detectors().DeleteFeedback(cmd.Context(), args[1], args[0])
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printResult(cmd, res)
			}
			if err := failureFromResult(res); err != nil {
				return err
			}
			printAction(cmd, "Deleted", "feedback", args[1])
			return nil
		}),
	}
}
