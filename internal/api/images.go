package api

import (
	"context"
	"net/url"
	"strconv"
)

// ClassifyImageOptions tune classification.
type ClassifyImageOptions struct {
	// NumResults caps the number of labels returned per image.
	NumResults int
}

func (o ClassifyImageOptions) apply(data url.Values) {
	if o.NumResults > 0 {
		data.Set("num_results", strconv.Itoa(o.NumResults))
	}
}

// Classify runs a detector over one or more images, supplied either as
// remote URLs or local files.
func (s ImagesService) Classify(ctx context.Context, detectorID string, image Image, opts ClassifyImageOptions) (Result, error) {
	if err := checkRequiredParams("detectorId", detectorID); err != nil {
		return Result{}, err
	}
	if err := image.validate(); err != nil {
		return Result{}, err
	}
	if err := s.checkImageSize(image.Files); err != nil {
		return Result{}, err
	}

	data := url.Values{}
	if image.URL != "" {
		data.Set("url", image.URL)
	}
	for _, u := range image.URLs {
		data.Add("urls", u)
	}
	opts.apply(data)

	req := request{
		action:    ActionClassifyImage,
		uriParams: map[string]string{":key": detectorID},
		data:      data,
	}
	if image.hasFile() {
		req.filePaths = image.fileSpec()
	}

	return s.genericRequest(ctx, req)
}

// LocalizeImageOptions carry the localization input. Exactly one of two
// shapes applies: fresh localization of an Image, or Update mode that
// re-localizes existing training images identified by LabelID plus ImageID
// or ImageIDs.
type LocalizeImageOptions struct {
	Image Image

	Update   bool
	LabelID  string
	ImageID  string
	ImageIDs []string

	// NumResults caps returned boxes per image.
	NumResults int
}

// Localize finds bounding boxes with a trained localizer. The built-in face
// localizer is addressed as localizer "DEFAULT_FACE" with label "face".
// Update mode returns boxes for existing training images; apply them with
// Labels().UpdateAnnotations.
func (s ImagesService) Localize(ctx context.Context, localizer, localizerLabel string, opts LocalizeImageOptions) (Result, error) {
	if err := checkRequiredParams("localizer", localizer, "localizerLabel", localizerLabel); err != nil {
		return Result{}, err
	}

	data := url.Values{}
	data.Set("localizer", localizer)
	data.Set("localizerLabel", localizerLabel)

	req := request{
		action: ActionLocalizeImage,
		data:   data,
	}

	if opts.Update {
		if opts.LabelID == "" || (opts.ImageID == "" && len(opts.ImageIDs) == 0) {
			return Result{}, &MissingParamsError{Params: []string{"labelId and one of imageId/imageIds"}}
		}
		data.Set("update", "true")
		data.Set("labelId", opts.LabelID)
		if opts.ImageID != "" {
			data.Set("imageId", opts.ImageID)
		}
		for _, id := range opts.ImageIDs {
			data.Add("imageIds", id)
		}
	} else {
		if err := opts.Image.validate(); err != nil {
			return Result{}, err
		}
		if err := s.checkImageSize(opts.Image.Files); err != nil {
			return Result{}, err
		}
		if opts.Image.URL != "" {
			data.Set("url", opts.Image.URL)
		}
		for _, u := range opts.Image.URLs {
			data.Add("urls", u)
		}
		if opts.Image.hasFile() {
			req.filePaths = opts.Image.fileSpec()
		}
	}

	if opts.NumResults > 0 {
		data.Set("num_results", strconv.Itoa(opts.NumResults))
	}

	return s.genericRequest(ctx, req)
}
