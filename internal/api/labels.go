package api

import (
	"context"
	"encoding/json"
	"net/url"
)

// CreateLabelOptions are the optional fields for CreateWithImages.
type CreateLabelOptions struct {
	// Bboxes maps image filenames to their bounding boxes; sent as one
	// JSON-encoded "bboxes" form field.
	Bboxes map[string][]BoundingBox
	// Destination marks the label as positive or negative training data.
	Destination string
}

func (o CreateLabelOptions) apply(data url.Values) error {
	if o.Bboxes != nil {
		encoded, err := json.Marshal(o.Bboxes)
		if err != nil {
			return err
		}
		data.Set("bboxes", string(encoded))
	}
	if o.Destination != "" {
		data.Set("destination", o.Destination)
	}
	return nil
}

// CreateWithImages creates a label on a pending detector and uploads its
// training images. Requires the detector not to be processing; the label is
// created asynchronously.
func (s LabelsService) CreateWithImages(ctx context.Context, detectorID, name string, imageFiles []string, opts CreateLabelOptions) (Result, error) {
	if err := checkRequiredParams("detectorId", detectorID, "name", name); err != nil {
		return Result{}, err
	}
	if len(imageFiles) == 0 {
		return Result{}, &MissingParamsError{Params: []string{"imageFiles"}}
	}
	if err := s.checkImageSize(imageFiles); err != nil {
		return Result{}, err
	}

	data := url.Values{}
	data.Set("name", name)
	if err := opts.apply(data); err != nil {
		return Result{}, err
	}

	return s.genericRequest(ctx, request{
		action:    ActionCreateLabelWithImages,
		uriParams: map[string]string{":key": detectorID},
		data:      data,
		filePaths: KeyedFiles(map[string]FileSpec{
			"imageFiles": FileList(imageFiles...),
		}),
	})
}

// Delete removes a label. Requires the detector not to be processing.
func (s LabelsService) Delete(ctx context.Context, detectorID, labelID string) (Result, error) {
	if err := checkRequiredParams("detectorId", detectorID, "labelId", labelID); err != nil {
		return Result{}, err
	}
	return s.genericRequest(ctx, request{
		action: ActionDeleteLabel,
		uriParams: map[string]string{
			":detectorId": detectorID,
			":labelId":    labelID,
		},
	})
}

// AnnotationsQuery selects annotations by detector, labels, or image. At
// least one selector is required.
type AnnotationsQuery struct {
	DetectorID string
	LabelIDs   []string
	ImageID    string
}

// GetAnnotations fetches bounding-box annotations for the selected images.
func (s LabelsService) GetAnnotations(ctx context.Context, query AnnotationsQuery) (Result, error) {
	if query.DetectorID == "" && len(query.LabelIDs) == 0 && query.ImageID == "" {
		return Result{}, &MissingParamsError{Params: []string{"detectorId, labelIds, or imageId"}}
	}

	data := url.Values{}
	if query.DetectorID != "" {
		data.Set("detectorId", query.DetectorID)
	}
	for _, id := range query.LabelIDs {
		data.Add("labelIds", id)
	}
	if query.ImageID != "" {
		data.Set("imageId", query.ImageID)
	}

	return s.genericRequest(ctx, request{
		action: ActionGetAnnotations,
		data:   data,
	})
}

// GetImages lists the training images of a label.
func (s LabelsService) GetImages(ctx context.Context, detectorID, labelID string) (Result, error) {
	if err := checkRequiredParams("detectorId", detectorID, "labelId", labelID); err != nil {
		return Result{}, err
	}
	return s.genericRequest(ctx, request{
		action: ActionGetLabelImages,
		uriParams: map[string]string{
			":detectorId": detectorID,
			":labelId":    labelID,
		},
	})
}

// ImageAnnotation updates the boxes of one training image.
type ImageAnnotation struct {
	ID     string        `json:"id"`
	Bboxes []BoundingBox `json:"bboxes"`
}

// UpdateAnnotations replaces bounding boxes on a label's images. The image
// list is sent as a single JSON-encoded "images" form field.
func (s LabelsService) UpdateAnnotations(ctx context.Context, detectorID, labelID string, images []ImageAnnotation) (Result, error) {
	if err := checkRequiredParams("detectorId", detectorID, "labelId", labelID); err != nil {
		return Result{}, err
	}
	if len(images) == 0 {
		return Result{}, &MissingParamsError{Params: []string{"images"}}
	}

	encoded, err := json.Marshal(images)
	if err != nil {
		return Result{}, err
	}
	data := url.Values{}
	data.Set("images", string(encoded))

	return s.genericRequest(ctx, request{
		action: ActionUpdateAnnotations,
		uriParams: map[string]string{
			":detectorId": detectorID,
			":labelId":    labelID,
		},
		data: data,
	})
}

// UpdateWithImages uploads more training images to an existing label.
// Requires the detector not to be processing; the update runs
// asynchronously.
func (s LabelsService) UpdateWithImages(ctx context.Context, detectorID, labelID string, imageFiles []string, opts CreateLabelOptions) (Result, error) {
	if err := checkRequiredParams("detectorId", detectorID, "labelId", labelID); err != nil {
		return Result{}, err
	}
	if len(imageFiles) == 0 {
		return Result{}, &MissingParamsError{Params: []string{"imageFiles"}}
	}
	if err := s.checkImageSize(imageFiles); err != nil {
		return Result{}, err
	}

	data := url.Values{}
	if err := opts.apply(data); err != nil {
		return Result{}, err
	}

	return s.genericRequest(ctx, request{
		action: ActionUpdateLabelWithImages,
		uriParams: map[string]string{
			":detectorId": detectorID,
			":labelId":    labelID,
		},
		data: data,
		filePaths: KeyedFiles(map[string]FileSpec{
			"imageFiles": FileList(imageFiles...),
		}),
	})
}
