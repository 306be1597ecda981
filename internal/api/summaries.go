package api

import (
	"context"
	"net/url"
)

// Get retrieves a video summary document.
func (s SummariesService) Get(ctx context.Context, summaryID string) (Result, error) {
	if err := checkRequiredParams("summaryId", summaryID); err != nil {
		return Result{}, err
	}
	return s.genericRequest(ctx, request{
		action:    ActionGetVideoSummary,
		uriParams: map[string]string{":summaryId": summaryID},
	})
}

// GetTracks downloads a summary's object tracks as raw CSV bytes.
func (s SummariesService) GetTracks(ctx context.Context, summaryID string) ([]byte, error) {
	if err := checkRequiredParams("summaryId", summaryID); err != nil {
		return nil, err
	}
	result, err := s.genericRequest(ctx, request{
		action:         ActionGetVideoSummaryTracks,
		uriParams:      map[string]string{":summaryId": summaryID},
		shouldNotParse: true,
	})
	if err != nil {
		return nil, err
	}
	return result.Raw, nil
}

// GetFile downloads the rendered summary video as raw MP4 bytes.
func (s SummariesService) GetFile(ctx context.Context, summaryID string) ([]byte, error) {
	if err := checkRequiredParams("summaryId", summaryID); err != nil {
		return nil, err
	}
	result, err := s.genericRequest(ctx, request{
		action:         ActionGetVideoSummaryFile,
		uriParams:      map[string]string{":summaryId": summaryID},
		shouldNotParse: true,
	})
	if err != nil {
		return nil, err
	}
	return result.Raw, nil
}

// CreateVideoSummaryOptions carry the optional url-mode video id.
type CreateVideoSummaryOptions struct {
	VideoID string
}

// Create starts summarizing a video from a URL or a local file.
func (s SummariesService) Create(ctx context.Context, video Video, opts CreateVideoSummaryOptions) (Result, error) {
	if err := video.validate(); err != nil {
		return Result{}, err
	}

	data := url.Values{}
	req := request{
		action: ActionCreateVideoSummary,
		data:   data,
	}
	if video.File != "" {
		req.filePaths = SingleFile(video.File)
	}
	if video.URL != "" {
		data.Set("url", video.URL)
		if opts.VideoID != "" {
			data.Set("videoId", opts.VideoID)
		}
	}

	return s.genericRequest(ctx, req)
}

// Delete removes a video summary.
func (s SummariesService) Delete(ctx context.Context, summaryID string) (Result, error) {
	if err := checkRequiredParams("summaryId", summaryID); err != nil {
		return Result{}, err
	}
	return s.genericRequest(ctx, request{
		action:    ActionDeleteVideoSummary,
		uriParams: map[string]string{":summaryId": summaryID},
	})
}

// ListForStream lists the summaries created from a stream.
func (s SummariesService) ListForStream(ctx context.Context, streamID string) (Result, error) {
	if err := checkRequiredParams("streamId", streamID); err != nil {
		return Result{}, err
	}
	return s.genericRequest(ctx, request{
		action:    ActionGetStreamSummaries,
		uriParams: map[string]string{":streamId": streamID},
	})
}

// CreateStreamSummaryOptions select the window summarized from a stream.
type CreateStreamSummaryOptions struct {
	StartTime string
	EndTime   string
}

// CreateForStream summarizes a recorded window of a stream.
func (s SummariesService) CreateForStream(ctx context.Context, streamID string, opts CreateStreamSummaryOptions) (Result, error) {
	if err := checkRequiredParams("streamId", streamID); err != nil {
		return Result{}, err
	}

	data := url.Values{}
	if opts.StartTime != "" {
		data.Set("startTime", opts.StartTime)
	}
	if opts.EndTime != "" {
		data.Set("endTime", opts.EndTime)
	}

	return s.genericRequest(ctx, request{
		action:    ActionCreateStreamSummary,
		uriParams: map[string]string{":streamId": streamID},
		data:      data,
	})
}
