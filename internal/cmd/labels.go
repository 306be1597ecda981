package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matroid/matroid-cli/internal/api"
)

func newLabelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "labels",
		Aliases: []string{"label"},
		Short:   "Manage detector labels and annotations",
	}

	cmd.AddCommand(newLabelsCreateCmd())
	cmd.AddCommand(newLabelsDeleteCmd())
	cmd.AddCommand(newLabelsImagesCmd())
	cmd.AddCommand(newLabelsUpdateCmd())
	cmd.AddCommand(newAnnotationsCmd())

	return cmd
}

// parseBboxesJSON decodes a {"filename": [boxes]} map from an inline JSON
// string, matching the wire shape of the bboxes form field.
func parseBboxesJSON(s string) (map[string][]api.BoundingBox, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var bboxes map[string][]api.BoundingBox
	if err := json.Unmarshal([]byte(s), &bboxes); err != nil {
		return nil, fmt.Errorf("invalid bboxes JSON: %w", err)
	}
	return bboxes, nil
}

func newLabelsCreateCmd() *cobra.Command {
	var imageFiles []string
	var bboxesJSON, destination string

	cmd := &cobra.Command{
		Use:   "create <detector> <name>",
		Short: "Create a label with training images",
		Long: strings.TrimSpace(`
Create a label on a pending detector and upload its training images. Bounding
boxes for detection labels are given as a JSON map from filename to boxes.
`),
		Example: strings.TrimSpace(`
  matroid labels create 5ab0... forklift --image f1.jpg --image f2.jpg \
    --bboxes '{"f1.jpg":[{"top":0.1,"left":0.2,"width":0.3,"height":0.4}]}'
`),
		Args: cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			detectorID, err := resolveDetectorID(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}

			bboxes, err := parseBboxesJSON(bboxesJSON)
			if err != nil {
				return err
			}

			opts := api.CreateLabelOptions{Bboxes: bboxes, Destination: destination}
			res, err := client.Labels().CreateWithImages(cmd.Context(), detectorID, args[1], imageFiles, opts)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringSliceVar(&imageFiles, "image", nil, "Training image file (repeatable, required)")
	cmd.Flags().StringVar(&bboxesJSON, "bboxes", "", "JSON map of filename to bounding boxes")
	cmd.Flags().StringVar(&destination, "destination", "", "Training destination (positive|negative)")

	return cmd
}

func newLabelsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <detector-id> <label-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a label from a pending detector",
		Args:    cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Labels().Delete(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printResult(cmd, res)
			}
			if err := failureFromResult(res); err != nil {
				return err
			}
			printAction(cmd, "Deleted", "label", args[1])
			return nil
		}),
	}
}

func newLabelsImagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "images <detector-id> <label-id>",
		Short: "List training images for a label",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Labels().GetImages(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}
}

func newLabelsUpdateCmd() *cobra.Command {
	var imageFiles []string
	var bboxesJSON, destination string

	cmd := &cobra.Command{
		Use:   "update <detector-id> <label-id>",
		Short: "Add training images to an existing label",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			bboxes, err := parseBboxesJSON(bboxesJSON)
			if err != nil {
				return err
			}

			opts := api.CreateLabelOptions{Bboxes: bboxes, Destination: destination}
			res, err := client.Labels().UpdateWithImages(cmd.Context(), args[0], args[1], imageFiles, opts)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringSliceVar(&imageFiles, "image", nil, "Training image file (repeatable, required)")
	cmd.Flags().StringVar(&bboxesJSON, "bboxes", "", "JSON map of filename to bounding boxes")
	cmd.Flags().StringVar(&destination, "destination", "", "Training destination (positive|negative)")

	return cmd
}

func newAnnotationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotations",
		Short: "Read and update bounding-box annotations",
	}

	cmd.AddCommand(newAnnotationsGetCmd())
	cmd.AddCommand(newAnnotationsUpdateCmd())

	return cmd
}

func newAnnotationsGetCmd() *cobra.Command {
	var query api.AnnotationsQuery

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch annotations for a detector, labels, or an image",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Labels().GetAnnotations(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringVar(&query.DetectorID, "detector-id", "", "Detector to fetch annotations for")
	cmd.Flags().StringSliceVar(&query.LabelIDs, "label-id", nil, "Label to fetch annotations for (repeatable)")
	cmd.Flags().StringVar(&query.ImageID, "image-id", "", "Single image to fetch annotations for")

	return cmd
}

func newAnnotationsUpdateCmd() *cobra.Command {
	var imagesJSON string

	cmd := &cobra.Command{
		Use:   "update <detector-id> <label-id>",
		Short: "Replace bounding boxes on a label's images",
		Example: strings.TrimSpace(`
  matroid labels annotations update 5ab0... 5cc0... \
    --images '[{"id":"5dd0...","bboxes":[{"top":0.1,"left":0.2,"width":0.3,"height":0.4}]}]'
`),
		Args: cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			var images []api.ImageAnnotation
			if err := json.Unmarshal([]byte(imagesJSON), &images); err != nil {
				return fmt.Errorf("invalid images JSON: %w", err)
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Labels().UpdateAnnotations(cmd.Context(), args[0], args[1], images)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringVar(&imagesJSON, "images", "", "JSON array of {id, bboxes} objects (required)")
	_ = cmd.MarkFlagRequired("images")

	return cmd
}
