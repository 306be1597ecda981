package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// CreateCollectionOptions are the optional fields for Create.
type CreateCollectionOptions struct {
	// IndexWithDefault immediately indexes the collection with the default
	// detector.
	IndexWithDefault bool
}

// Create registers a new collection backed by a web or S3 url.
func (s CollectionsService) Create(ctx context.Context, name, sourceURL, sourceType string, opts CreateCollectionOptions) (Result, error) {
	if err := checkRequiredParams("name", name, "url", sourceURL, "sourceType", sourceType); err != nil {
		return Result{}, err
	}

	data := url.Values{}
	data.Set("name", name)
	data.Set("url", sourceURL)
	data.Set("sourceType", sourceType)
	if opts.IndexWithDefault {
		data.Set("indexWithDefault", "true")
	}

	return s.genericRequest(ctx, request{
		action: ActionCreateCollection,
		data:   data,
	})
}

// Get retrieves a collection.
func (s CollectionsService) Get(ctx context.Context, collectionID string) (Result, error) {
	if err := checkRequiredParams("collectionId", collectionID); err != nil {
		return Result{}, err
	}
	return s.genericRequest(ctx, request{
		action:    ActionGetCollection,
		uriParams: map[string]string{":key": collectionID},
	})
}

// Delete removes a collection with no active indexing tasks.
func (s CollectionsService) Delete(ctx context.Context, collectionID string) (Result, error) {
	if err := checkRequiredParams("collectionId", collectionID); err != nil {
		return Result{}, err
	}
	return s.genericRequest(ctx, request{
		action:    ActionDeleteCollection,
		uriParams: map[string]string{":key": collectionID},
	})
}

// CreateIndex starts indexing a collection with a detector. fileTypes
// selects which media in the collection to index.
func (s CollectionsService) CreateIndex(ctx context.Context, collectionID, detectorID, fileTypes string) (Result, error) {
	if err := checkRequiredParams("collectionId", collectionID, "detectorId", detectorID, "fileTypes", fileTypes); err != nil {
		return Result{}, err
	}

	data := url.Values{}
	data.Set("detectorId", detectorID)
	data.Set("fileTypes", fileTypes)

	return s.genericRequest(ctx, request{
		action:    ActionCreateCollectionIndex,
		uriParams: map[string]string{":key": collectionID},
		data:      data,
	})
}

// GetTask retrieves one collection indexing task.
func (s CollectionsService) GetTask(ctx context.Context, taskID string) (Result, error) {
	if err := checkRequiredParams("collectionTaskId", taskID); err != nil {
		return Result{}, err
	}
	return s.genericRequest(ctx, request{
		action:    ActionGetCollectionTask,
		uriParams: map[string]string{":key": taskID},
	})
}

// DeleteIndex removes a completed indexing task.
func (s CollectionsService) DeleteIndex(ctx context.Context, taskID string) (Result, error) {
	if err := checkRequiredParams("collectionTaskId", taskID); err != nil {
		return Result{}, err
	}
	return s.genericRequest(ctx, request{
		action:    ActionDeleteCollectionIndex,
		uriParams: map[string]string{":key": taskID},
	})
}

// KillIndex stops an active indexing task. includeCollectionInfo embeds the
// collection document in the response.
func (s CollectionsService) KillIndex(ctx context.Context, taskID string, includeCollectionInfo bool) (Result, error) {
	if err := checkRequiredParams("collectionTaskId", taskID); err != nil {
		return Result{}, err
	}

	data := url.Values{}
	data.Set("includeCollectionInfo", strconv.FormatBool(includeCollectionInfo))

	return s.genericRequest(ctx, request{
		action:    ActionKillCollectionIndex,
		uriParams: map[string]string{":key": taskID},
		data:      data,
	})
}

// QueryScoresOptions tune QueryByScores.
type QueryScoresOptions struct {
	NumResults int
}

// QueryByScores queries an index by per-label score thresholds.
func (s CollectionsService) QueryByScores(ctx context.Context, taskID string, thresholds map[string]float64, opts QueryScoresOptions) (Result, error) {
	if err := checkRequiredParams("taskId", taskID); err != nil {
		return Result{}, err
	}
	if len(thresholds) == 0 {
		return Result{}, &MissingParamsError{Params: []string{"thresholds"}}
	}

	encoded, err := json.Marshal(thresholds)
	if err != nil {
		return Result{}, err
	}
	data := url.Values{}
	data.Set("thresholds", string(encoded))
	if opts.NumResults > 0 {
		data.Set("numResults", strconv.Itoa(opts.NumResults))
	}

	return s.genericRequest(ctx, request{
		action:    ActionQueryCollectionByScores,
		uriParams: map[string]string{":key": taskID},
		data:      data,
	})
}

// QueryImageOptions tune QueryByImage.
type QueryImageOptions struct {
	NumResults int
	// BoundingBox restricts the query to a region of the input image.
	BoundingBox *BoundingBox
	// ShouldIndicateDuplicates marks near-duplicate results.
	ShouldIndicateDuplicates bool
}

// QueryByImage queries an index with an example image.
func (s CollectionsService) QueryByImage(ctx context.Context, taskID string, image Image, opts QueryImageOptions) (Result, error) {
	if err := checkRequiredParams("taskId", taskID); err != nil {
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
	if opts.NumResults > 0 {
		data.Set("numResults", strconv.Itoa(opts.NumResults))
	}
	if opts.BoundingBox != nil {
		encoded, err := json.Marshal(opts.BoundingBox)
		if err != nil {
			return Result{}, err
		}
		data.Set("boundingBox", string(encoded))
	}
	if opts.ShouldIndicateDuplicates {
		data.Set("shouldIndicateDuplicates", "true")
	}

	req := request{
		action:    ActionQueryCollectionByImage,
		uriParams: map[string]string{":key": taskID},
		data:      data,
	}
	if image.hasFile() {
		req.filePaths = image.fileSpec()
	}

	return s.genericRequest(ctx, req)
}

// UpdateIndex refreshes an existing index; updateIndex=true re-reads the
// collection source for new media.
func (s CollectionsService) UpdateIndex(ctx context.Context, taskID string, updateIndex bool) (Result, error) {
	if err := checkRequiredParams("collectionTaskId", taskID); err != nil {
		return Result{}, err
	}

	data := url.Values{}
	data.Set("updateIndex", strconv.FormatBool(updateIndex))

	return s.genericRequest(ctx, request{
		action:    ActionUpdateCollectionIndex,
		uriParams: map[string]string{":key": taskID},
		data:      data,
	})
}
