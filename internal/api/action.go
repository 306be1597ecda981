package api

import (
	"net/http"
	"sort"
)

// Action identifies one logical API operation. Every public method on the
// client dispatches through exactly one Action, and every Action has exactly
// one endpoint in the table below, so an unregistered action is a bug caught
// by TestEndpointTableComplete rather than a runtime surprise.
type Action int

const (
	// accounts
	ActionToken Action = iota
	ActionGetAccountInfo

	// collections
	ActionCreateCollectionIndex
	ActionCreateCollection
	ActionDeleteCollectionIndex
	ActionDeleteCollection
	ActionGetCollectionTask
	ActionGetCollection
	ActionKillCollectionIndex
	ActionQueryCollectionByScores
	ActionQueryCollectionByImage
	ActionUpdateCollectionIndex

	// detectors
	ActionCreateDetector
	ActionDeleteDetector
	ActionTrainDetector
	ActionGetDetectorInfo
	ActionImportDetector
	ActionRedoDetector
	ActionSearchDetectors
	ActionListDetectors
	ActionAddFeedback
	ActionDeleteFeedback

	// images
	ActionClassifyImage
	ActionLocalizeImage

	// labels
	ActionCreateLabelWithImages
	ActionDeleteLabel
	ActionGetAnnotations
	ActionGetLabelImages
	ActionUpdateAnnotations
	ActionUpdateLabelWithImages

	// videos
	ActionClassifyVideo
	ActionGetVideoResults

	// streams
	ActionCreateStream
	ActionDeleteMonitoring
	ActionDeleteStream
	ActionGetMonitoringResult
	ActionKillMonitoring
	ActionSearchMonitorings
	ActionMonitorStream
	ActionSearchStreams

	// video summaries
	ActionGetVideoSummary
	ActionGetVideoSummaryTracks
	ActionGetVideoSummaryFile
	ActionCreateVideoSummary
	ActionDeleteVideoSummary
	ActionGetStreamSummaries
	ActionCreateStreamSummary

	actionCount // sentinel, keep last
)

var actionNames = map[Action]string{
	ActionToken:                   "token",
	ActionGetAccountInfo:          "getAccountInfo",
	ActionCreateCollectionIndex:   "createCollectionIndex",
	ActionCreateCollection:        "createCollection",
	ActionDeleteCollectionIndex:   "deleteCollectionIndex",
	ActionDeleteCollection:        "deleteCollection",
	ActionGetCollectionTask:       "getCollectionTask",
	ActionGetCollection:           "getCollection",
	ActionKillCollectionIndex:     "killCollectionIndex",
	ActionQueryCollectionByScores: "queryCollectionByScores",
	ActionQueryCollectionByImage:  "queryCollectionByImage",
	ActionUpdateCollectionIndex:   "updateCollectionIndex",
	ActionCreateDetector:          "createDetector",
	ActionDeleteDetector:          "deleteDetector",
	ActionTrainDetector:           "trainDetector",
	ActionGetDetectorInfo:         "getDetectorInfo",
	ActionImportDetector:          "importDetector",
	ActionRedoDetector:            "redoDetector",
	ActionSearchDetectors:         "searchDetectors",
	ActionListDetectors:           "listDetectors",
	ActionAddFeedback:             "addFeedback",
	ActionDeleteFeedback:          "deleteFeedback",
	ActionClassifyImage:           "classifyImage",
	ActionLocalizeImage:           "localizeImage",
	ActionCreateLabelWithImages:   "createLabelWithImages",
	ActionDeleteLabel:             "deleteLabel",
	ActionGetAnnotations:          "getAnnotations",
	ActionGetLabelImages:          "getLabelImages",
	ActionUpdateAnnotations:       "updateAnnotations",
	ActionUpdateLabelWithImages:   "updateLabelWithImages",
	ActionClassifyVideo:           "classifyVideo",
	ActionGetVideoResults:         "getVideoResults",
	ActionCreateStream:            "createStream",
	ActionDeleteMonitoring:        "deleteMonitoring",
	ActionDeleteStream:            "deleteStream",
	ActionGetMonitoringResult:     "getMonitoringResult",
	ActionKillMonitoring:          "killMonitoring",
	ActionSearchMonitorings:       "searchMonitorings",
	ActionMonitorStream:           "monitorStream",
	ActionSearchStreams:           "searchStreams",
	ActionGetVideoSummary:         "getVideoSummary",
	ActionGetVideoSummaryTracks:   "getVideoSummaryTracks",
	ActionGetVideoSummaryFile:     "getVideoSummaryFile",
	ActionCreateVideoSummary:      "createVideoSummary",
	ActionDeleteVideoSummary:      "deleteVideoSummary",
	ActionGetStreamSummaries:      "getStreamSummaries",
	ActionCreateStreamSummary:     "createStreamSummary",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ActionNames returns every dispatchable action name, sorted.
func ActionNames() []string {
	names := make([]string, 0, len(actionNames))
	for _, name := range actionNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Endpoint pairs an HTTP verb with a URI template. Templates use :param
// placeholders substituted by replaceParamsInURI before dispatch.
type Endpoint struct {
	Method string
	URI    string
}

// endpointTable builds the action-to-endpoint registry against baseURL.
// Built once at client construction and never mutated afterward.
func endpointTable(baseURL string) map[Action]Endpoint {
	ep := func(method, resource string) Endpoint {
		return Endpoint{Method: method, URI: baseURL + "/" + resource}
	}

	return map[Action]Endpoint{
		ActionToken:          ep(http.MethodPost, "oauth/token"),
		ActionGetAccountInfo: ep(http.MethodGet, "account"),

		ActionCreateCollectionIndex:   ep(http.MethodPost, "collections/:key/collection-tasks"),
		ActionCreateCollection:        ep(http.MethodPost, "collections"),
		ActionDeleteCollectionIndex:   ep(http.MethodDelete, "collection-tasks/:key"),
		ActionDeleteCollection:        ep(http.MethodDelete, "collections/:key"),
		ActionGetCollectionTask:       ep(http.MethodGet, "collection-tasks/:key"),
		ActionGetCollection:           ep(http.MethodGet, "collections/:key"),
		ActionKillCollectionIndex:     ep(http.MethodPost, "collection-tasks/:key/kill"),
		ActionQueryCollectionByScores: ep(http.MethodPost, "collection-tasks/:key/scores-query"),
		ActionQueryCollectionByImage:  ep(http.MethodPost, "collection-tasks/:key/image-query"),
		ActionUpdateCollectionIndex:   ep(http.MethodPut, "collection-tasks/:key"),

		ActionCreateDetector:  ep(http.MethodPost, "detectors"),
		ActionDeleteDetector:  ep(http.MethodDelete, "detectors/:key"),
		ActionTrainDetector:   ep(http.MethodPost, "detectors/:key/finalize"),
		ActionGetDetectorInfo: ep(http.MethodGet, "detectors/:key"),
		ActionImportDetector:  ep(http.MethodPost, "detectors/upload"),
		ActionRedoDetector:    ep(http.MethodPost, "detectors/:key/redo"),
		ActionSearchDetectors: ep(http.MethodGet, "detectors/search"),
		ActionListDetectors:   ep(http.MethodGet, "detectors"),
		ActionAddFeedback:     ep(http.MethodPost, "detectors/:detectorId/feedback"),
		ActionDeleteFeedback:  ep(http.MethodDelete, "detectors/:detectorId/feedback/:feedbackId"),

		ActionClassifyImage: ep(http.MethodPost, "detectors/:key/classify_image"),
		ActionLocalizeImage: ep(http.MethodPost, "localize"),

		ActionCreateLabelWithImages: ep(http.MethodPost, "detectors/:key/labels"),
		ActionDeleteLabel:           ep(http.MethodDelete, "detectors/:detectorId/labels/:labelId"),
		ActionGetAnnotations:        ep(http.MethodGet, "images/annotations"),
		ActionGetLabelImages:        ep(http.MethodGet, "detectors/:detectorId/labels/:labelId"),
		ActionUpdateAnnotations:     ep(http.MethodPatch, "detectors/:detectorId/labels/:labelId"),
		ActionUpdateLabelWithImages: ep(http.MethodPost, "detectors/:detectorId/labels/:labelId/images"),

		ActionClassifyVideo:   ep(http.MethodPost, "detectors/:key/classify_video"),
		ActionGetVideoResults: ep(http.MethodGet, "videos/:key"),

		ActionCreateStream:        ep(http.MethodPost, "streams"),
		ActionDeleteMonitoring:    ep(http.MethodDelete, "monitorings/:key"),
		ActionDeleteStream:        ep(http.MethodDelete, "streams/:key"),
		ActionGetMonitoringResult: ep(http.MethodGet, "monitorings/:key"),
		ActionKillMonitoring:      ep(http.MethodPost, "monitorings/:key/kill"),
		ActionSearchMonitorings:   ep(http.MethodGet, "monitorings"),
		ActionMonitorStream:       ep(http.MethodPost, "streams/:streamId/monitor/:detectorId"),
		ActionSearchStreams:       ep(http.MethodGet, "streams"),

		ActionGetVideoSummary:       ep(http.MethodGet, "summaries/:summaryId"),
		ActionGetVideoSummaryTracks: ep(http.MethodGet, "summaries/:summaryId/tracks.csv"),
		ActionGetVideoSummaryFile:   ep(http.MethodGet, "summaries/:summaryId/video.mp4"),
		ActionCreateVideoSummary:    ep(http.MethodPost, "summarize"),
		ActionDeleteVideoSummary:    ep(http.MethodDelete, "summaries/:summaryId"),
		ActionGetStreamSummaries:    ep(http.MethodGet, "streams/:streamId/summaries"),
		ActionCreateStreamSummary:   ep(http.MethodPost, "streams/:streamId/summarize"),
	}
}
