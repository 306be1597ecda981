package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// CreateDetectorOptions are the optional fields for Create. Each maps to a
// form field of the same (lower-camel) name.
type CreateDetectorOptions struct {
	// PretrainedDetectorID seeds the new detector from an existing one.
	PretrainedDetectorID string
	// SharedWith lists account emails granted access on creation.
	SharedWith []string
}

func (o CreateDetectorOptions) apply(data url.Values) {
	if o.PretrainedDetectorID != "" {
		data.Set("pretrainedDetectorId", o.PretrainedDetectorID)
	}
	for _, email := range o.SharedWith {
		data.Add("sharedWith", email)
	}
}

// Create makes a pending detector from a labeled image zip. The detector
// processes asynchronously; poll GetInfo until it becomes editable. Only one
// pending detector may exist at a time.
func (s DetectorsService) Create(ctx context.Context, zipFile, name, detectorType string, opts CreateDetectorOptions) (Result, error) {
	if err := checkRequiredParams("zipFile", zipFile, "name", name, "detectorType", detectorType); err != nil {
		return Result{}, err
	}
	if err := checkFilePayloadSize([]string{zipFile}, 0, s.limits.Zip); err != nil {
		return Result{}, err
	}

	data := url.Values{}
	data.Set("name", name)
	data.Set("detectorType", detectorType)
	opts.apply(data)

	return s.genericRequest(ctx, request{
		action:    ActionCreateDetector,
		data:      data,
		filePaths: SingleFile(zipFile),
	})
}

// Delete removes a detector. Requires the detector not to be processing.
func (s DetectorsService) Delete(ctx context.Context, detectorID string) (Result, error) {
	if err := checkRequiredParams("detectorId", detectorID); err != nil {
		return Result{}, err
	}
	return s.genericRequest(ctx, request{
		action:    ActionDeleteDetector,
		uriParams: map[string]string{":key": detectorID},
	})
}

// Train finalizes a pending detector and starts training asynchronously.
func (s DetectorsService) Train(ctx context.Context, detectorID string) (Result, error) {
	if err := checkRequiredParams("detectorId", detectorID); err != nil {
		return Result{}, err
	}
	return s.genericRequest(ctx, request{
		action:    ActionTrainDetector,
		uriParams: map[string]string{":key": detectorID},
	})
}

// GetInfo retrieves a detector's state, labels, and training progress.
func (s DetectorsService) GetInfo(ctx context.Context, detectorID string) (Result, error) {
	if err := checkRequiredParams("detectorId", detectorID); err != nil {
		return Result{}, err
	}
	return s.genericRequest(ctx, request{
		action:    ActionGetDetectorInfo,
		uriParams: map[string]string{":key": detectorID},
	})
}

// ImportDetectorOptions describes the artifacts for Import. Either
// FileDetector alone (a packaged detector), or FileProto plus label info
// together with the tensor names and detector type.
type ImportDetectorOptions struct {
	// FileDetector is a packaged detector file; when set the other fields
	// are ignored.
	FileDetector string

	InputTensor  string
	OutputTensor string
	DetectorType string

	// FileProto with FileLabel (optionally FileLabelInd) imports from a
	// frozen graph plus label files.
	FileProto    string
	FileLabel    string
	FileLabelInd string

	// Labels with optional LabelInds is the inline alternative to
	// FileLabel.
	Labels    []string
	LabelInds []string
}

// Import creates a detector from externally trained artifacts.
func (s DetectorsService) Import(ctx context.Context, name string, opts ImportDetectorOptions) (Result, error) {
	if err := checkRequiredParams("name", name); err != nil {
		return Result{}, err
	}

	data := url.Values{}
	data.Set("name", name)
	files := map[string]FileSpec{}

	switch {
	case opts.FileDetector != "":
		files["file_detector"] = SingleFile(opts.FileDetector)

	case opts.FileProto != "" && (opts.FileLabel != "" || len(opts.Labels) > 0):
		if opts.InputTensor == "" || opts.OutputTensor == "" || opts.DetectorType == "" {
			return Result{}, &MissingParamsError{Params: []string{"inputTensor", "outputTensor", "detectorType"}}
		}
		data.Set("input_tensor", opts.InputTensor)
		data.Set("output_tensor", opts.OutputTensor)
		data.Set("detector_type", opts.DetectorType)
		files["fileProto"] = SingleFile(opts.FileProto)

		if opts.FileLabel != "" {
			files["fileLabel"] = SingleFile(opts.FileLabel)
			if opts.FileLabelInd != "" {
				files["fileLabel_ind"] = SingleFile(opts.FileLabelInd)
			}
		} else {
			for _, label := range opts.Labels {
				data.Add("labels", label)
			}
			for _, ind := range opts.LabelInds {
				data.Add("label_inds", ind)
			}
		}

	default:
		return Result{}, &MissingParamsError{Params: []string{"fileDetector or fileProto with labels"}}
	}

	return s.genericRequest(ctx, request{
		action:    ActionImportDetector,
		data:      data,
		filePaths: KeyedFiles(files),
	})
}

// Redo deep-copies a trained detector under a new ID and retrains it.
// feedbackOnly restricts retraining to feedback items.
func (s DetectorsService) Redo(ctx context.Context, detectorID string, feedbackOnly bool) (Result, error) {
	if err := checkRequiredParams("detectorId", detectorID); err != nil {
		return Result{}, err
	}
	data := url.Values{}
	data.Set("feedbackOnly", strconv.FormatBool(feedbackOnly))
	return s.genericRequest(ctx, request{
		action:    ActionRedoDetector,
		uriParams: map[string]string{":key": detectorID},
		data:      data,
	})
}

// SearchDetectorsOptions filter Search results; zero fields are omitted.
type SearchDetectorsOptions struct {
	Name         string
	DetectorType string
	State        string
	// Published restricts to published (or unpublished) detectors.
	Published *bool
	Limit     int
}

func (o SearchDetectorsOptions) query() url.Values {
	data := url.Values{}
	if o.Name != "" {
		data.Set("name", o.Name)
	}
	if o.DetectorType != "" {
		data.Set("detectorType", o.DetectorType)
	}
	if o.State != "" {
		data.Set("state", o.State)
	}
	if o.Published != nil {
		data.Set("published", strconv.FormatBool(*o.Published))
	}
	if o.Limit > 0 {
		data.Set("limit", strconv.Itoa(o.Limit))
	}
	return data
}

// Search finds detectors matching the given filters.
func (s DetectorsService) Search(ctx context.Context, opts SearchDetectorsOptions) (Result, error) {
	return s.genericRequest(ctx, request{
		action: ActionSearchDetectors,
		data:   opts.query(),
	})
}

// List returns detectors that are public or owned by the account.
//
// Deprecated: use Search.
func (s DetectorsService) List(ctx context.Context) (Result, error) {
	return s.genericRequest(ctx, request{action: ActionListDetectors})
}

// BoundingBox is a normalized region of an image.
type BoundingBox struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Feedback is one correction item for AddFeedback. Items are JSON-encoded
// into repeated "feedback" form fields.
type Feedback struct {
	FeedbackType string       `json:"feedbackType"`
	Label        string       `json:"label"`
	BoundingBox  *BoundingBox `json:"boundingBox,omitempty"`
}

// AddFeedback attaches corrections to a detector from an image.
func (s DetectorsService) AddFeedback(ctx context.Context, detectorID string, image Image, feedback []Feedback) (Result, error) {
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
	for _, item := range feedback {
		encoded, err := json.Marshal(item)
		if err != nil {
			return Result{}, err
		}
		data.Add("feedback", string(encoded))
	}

	req := request{
		action:    ActionAddFeedback,
		uriParams: map[string]string{":detectorId": detectorID},
		data:      data,
	}
	if image.hasFile() {
		req.filePaths = image.fileSpec()
	} else {
		data.Set("url", image.URL)
	}

	return s.genericRequest(ctx, req)
}

// DeleteFeedback removes one feedback item from a detector.
func (s DetectorsService) DeleteFeedback(ctx context.Context, feedbackID, detectorID string) (Result, error) {
	if err := checkRequiredParams("feedbackId", feedbackID, "detectorId", detectorID); err != nil {
		return Result{}, err
	}
	return s.genericRequest(ctx, request{
		action: ActionDeleteFeedback,
		uriParams: map[string]string{
			":detectorId": detectorID,
			":feedbackId": feedbackID,
		},
	})
}
