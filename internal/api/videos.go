package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// ClassifyVideoOptions tune video classification.
type ClassifyVideoOptions struct {
	// VideoID resumes or names the server-side video record.
	VideoID string
	// FPS caps sampled frames per second.
	FPS float64
	// AnnotationThresholds maps labels to minimum annotation confidence;
	// keys and values are pre-stringified by the caller's types.
	AnnotationThresholds map[string]float64
}

func (o ClassifyVideoOptions) apply(data url.Values) {
	if o.VideoID != "" {
		data.Set("videoId", o.VideoID)
	}
	if o.FPS > 0 {
		data.Set("fps", strconv.FormatFloat(o.FPS, 'f', -1, 64))
	}
	for label, threshold := range o.AnnotationThresholds {
		data.Add("annotationThresholds["+label+"]", strconv.FormatFloat(threshold, 'f', -1, 64))
	}
}

// Classify runs a detector over a video, supplied as a remote URL or one
// local file. Results arrive asynchronously; poll GetResults with the
// returned video id.
func (s VideosService) Classify(ctx context.Context, detectorID string, video Video, opts ClassifyVideoOptions) (Result, error) {
	if err := checkRequiredParams("detectorId", detectorID); err != nil {
		return Result{}, err
	}
	if err := video.validate(); err != nil {
		return Result{}, err
	}
	if video.File != "" {
		if err := checkFilePayloadSize([]string{video.File}, 0, s.limits.Video); err != nil {
			return Result{}, err
		}
	}

	data := url.Values{}
	if video.URL != "" {
		data.Set("url", video.URL)
	}
	opts.apply(data)

	req := request{
		action:    ActionClassifyVideo,
		uriParams: map[string]string{":key": detectorID},
		data:      data,
	}
	if video.File != "" {
		req.filePaths = SingleFile(video.File)
	}

	return s.genericRequest(ctx, req)
}

// VideoResultsOptions tune GetResults.
type VideoResultsOptions struct {
	// Annotations includes per-frame annotation data.
	Annotations *bool
}

// GetResults fetches classification results for a video. threshold filters
// detections below the given confidence; format "csv" returns raw bytes in
// Result.Raw instead of parsed JSON.
func (s VideosService) GetResults(ctx context.Context, videoID string, threshold float64, format string, opts VideoResultsOptions) (Result, error) {
	if err := checkRequiredParams("videoId", videoID); err != nil {
		return Result{}, err
	}

	data := url.Values{}
	if threshold > 0 {
		data.Set("threshold", strconv.FormatFloat(threshold, 'f', -1, 64))
	}
	if format != "" {
		data.Set("format", format)
	}
	if opts.Annotations != nil {
		data.Set("annotations", strconv.FormatBool(*opts.Annotations))
	}

	return s.genericRequest(ctx, request{
		action:         ActionGetVideoResults,
		uriParams:      map[string]string{":key": videoID},
		data:           data,
		shouldNotParse: strings.EqualFold(format, "csv"),
	})
}
