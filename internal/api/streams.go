package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// CreateStreamOptions are the optional fields for Create.
type CreateStreamOptions struct {
	// DetectionFPS caps how many frames per second monitorings sample.
	DetectionFPS float64
	// RecordingEnabled turns on continuous recording.
	RecordingEnabled *bool
	// RetentionEnabled keeps recordings past the default window.
	RetentionEnabled *bool
}

func (o CreateStreamOptions) apply(data url.Values) {
	if o.DetectionFPS > 0 {
		data.Set("detectionFps", strconv.FormatFloat(o.DetectionFPS, 'f', -1, 64))
	}
	if o.RecordingEnabled != nil {
		data.Set("recordingEnabled", strconv.FormatBool(*o.RecordingEnabled))
	}
	if o.RetentionEnabled != nil {
		data.Set("retentionEnabled", strconv.FormatBool(*o.RetentionEnabled))
	}
}

// Create registers an online video stream by URL.
func (s StreamsService) Create(ctx context.Context, streamURL, name string, opts CreateStreamOptions) (Result, error) {
	if err := checkRequiredParams("url", streamURL, "name", name); err != nil {
		return Result{}, err
	}

	data := url.Values{}
	data.Set("name", name)
	data.Set("url", streamURL)
	opts.apply(data)

	return s.genericRequest(ctx, request{
		action: ActionCreateStream,
		data:   data,
	})
}

// Register is the historical name for Create.
func (s StreamsService) Register(ctx context.Context, streamURL, name string, opts CreateStreamOptions) (Result, error) {
	return s.Create(ctx, streamURL, name, opts)
}

// Delete removes a stream with no active monitorings.
func (s StreamsService) Delete(ctx context.Context, streamID string) (Result, error) {
	if err := checkRequiredParams("streamId", streamID); err != nil {
		return Result{}, err
	}
	return s.genericRequest(ctx, request{
		action:    ActionDeleteStream,
		uriParams: map[string]string{":key": streamID},
	})
}

// SearchStreamsOptions filter Search; keys are sent snake_cased.
type SearchStreamsOptions struct {
	StreamID   string
	Name       string
	Permission string
}

// Search finds streams matching the given filters.
func (s StreamsService) Search(ctx context.Context, opts SearchStreamsOptions) (Result, error) {
	data := url.Values{}
	if opts.StreamID != "" {
		data.Set(toSnakeCase("streamId"), opts.StreamID)
	}
	if opts.Name != "" {
		data.Set("name", opts.Name)
	}
	if opts.Permission != "" {
		data.Set("permission", opts.Permission)
	}
	return s.genericRequest(ctx, request{
		action: ActionSearchStreams,
		data:   data,
	})
}

// MonitorStreamOptions configure a monitoring task.
type MonitorStreamOptions struct {
	// Thresholds maps label names to detection confidence thresholds;
	// sent as one JSON-encoded form field.
	Thresholds map[string]float64
	// Endpoint receives detection webhooks.
	Endpoint  string
	StartTime string
	EndTime   string
	TaskName  string
	// NotificationTimezone interprets MonitoringHours and email timestamps.
	NotificationTimezone   string
	MinEmailInterval       int
	SendEmailNotifications *bool
	RegionEnabled          *bool
	RegionCoords           string
	RegionNegativeCoords   string
	MonitoringHours        string
	Colors                 string
	// MinDetectionInterval is dropped when not positive, matching the
	// service's integer-only contract.
	MinDetectionInterval int
}

func (o MonitorStreamOptions) apply(data url.Values) error {
	if o.Thresholds != nil {
		encoded, err := json.Marshal(o.Thresholds)
		if err != nil {
			return err
		}
		data.Set("thresholds", string(encoded))
	}
	setIfPresent := func(key, value string) {
		if value != "" {
			data.Set(key, value)
		}
	}
	setIfPresent("endpoint", o.Endpoint)
	setIfPresent("startTime", o.StartTime)
	setIfPresent("endTime", o.EndTime)
	setIfPresent("taskName", o.TaskName)
	setIfPresent("notificationTimezone", o.NotificationTimezone)
	setIfPresent("regionCoords", o.RegionCoords)
	setIfPresent("regionNegativeCoords", o.RegionNegativeCoords)
	setIfPresent("monitoringHours", o.MonitoringHours)
	setIfPresent("colors", o.Colors)
	if o.MinEmailInterval > 0 {
		data.Set("minEmailInterval", strconv.Itoa(o.MinEmailInterval))
	}
	if o.SendEmailNotifications != nil {
		data.Set("sendEmailNotifications", strconv.FormatBool(*o.SendEmailNotifications))
	}
	if o.RegionEnabled != nil {
		data.Set("regionEnabled", strconv.FormatBool(*o.RegionEnabled))
	}
	if o.MinDetectionInterval > 0 {
		data.Set("minDetectionInterval", strconv.Itoa(o.MinDetectionInterval))
	}
	return nil
}

// Monitor runs a detector over a stream, creating a monitoring task.
func (s StreamsService) Monitor(ctx context.Context, streamID, detectorID string, opts MonitorStreamOptions) (Result, error) {
	if err := checkRequiredParams("streamId", streamID, "detectorId", detectorID); err != nil {
		return Result{}, err
	}

	data := url.Values{}
	if err := opts.apply(data); err != nil {
		return Result{}, err
	}

	return s.genericRequest(ctx, request{
		action: ActionMonitorStream,
		uriParams: map[string]string{
			":streamId":   streamID,
			":detectorId": detectorID,
		},
		data: data,
	})
}

// MonitoringResultOptions select the window and format of GetMonitoringResult.
type MonitoringResultOptions struct {
	// Format selects the result encoding; anything other than "json"
	// (case-insensitive) is returned as raw bytes.
	Format     string
	StatusOnly bool
	StartTime  string
	EndTime    string
}

// GetMonitoringResult fetches detections for a monitoring. Non-JSON formats
// bypass response parsing and come back in Result.Raw.
func (s StreamsService) GetMonitoringResult(ctx context.Context, monitoringID string, opts MonitoringResultOptions) (Result, error) {
	if err := checkRequiredParams("monitoringId", monitoringID); err != nil {
		return Result{}, err
	}

	data := url.Values{}
	if opts.Format != "" {
		data.Set("format", opts.Format)
	}
	if opts.StatusOnly {
		data.Set(toSnakeCase("statusOnly"), "true")
	}
	if opts.StartTime != "" {
		data.Set(toSnakeCase("startTime"), opts.StartTime)
	}
	if opts.EndTime != "" {
		data.Set(toSnakeCase("endTime"), opts.EndTime)
	}

	return s.genericRequest(ctx, request{
		action:         ActionGetMonitoringResult,
		uriParams:      map[string]string{":key": monitoringID},
		data:           data,
		shouldNotParse: opts.Format != "" && !strings.EqualFold(opts.Format, "json"),
	})
}

// KillMonitoring stops a monitoring task. The state transition to "failed"
// is asynchronous.
func (s StreamsService) KillMonitoring(ctx context.Context, monitoringID string) (Result, error) {
	if err := checkRequiredParams("monitoringId", monitoringID); err != nil {
		return Result{}, err
	}
	return s.genericRequest(ctx, request{
		action:    ActionKillMonitoring,
		uriParams: map[string]string{":key": monitoringID},
	})
}

// DeleteMonitoring removes a monitoring that is not in an active state.
func (s StreamsService) DeleteMonitoring(ctx context.Context, monitoringID string) (Result, error) {
	if err := checkRequiredParams("monitoringId", monitoringID); err != nil {
		return Result{}, err
	}
	return s.genericRequest(ctx, request{
		action:    ActionDeleteMonitoring,
		uriParams: map[string]string{":key": monitoringID},
	})
}

// SearchMonitoringsOptions filter SearchMonitorings; keys are sent
// snake_cased.
type SearchMonitoringsOptions struct {
	StreamID     string
	MonitoringID string
	DetectorID   string
	Name         string
	StartTime    string
	EndTime      string
	State        string
}

// SearchMonitorings finds monitoring tasks matching the given filters.
func (s StreamsService) SearchMonitorings(ctx context.Context, opts SearchMonitoringsOptions) (Result, error) {
	data := url.Values{}
	set := func(camel, value string) {
		if value != "" {
			data.Set(toSnakeCase(camel), value)
		}
	}
	set("streamId", opts.StreamID)
	set("monitoringId", opts.MonitoringID)
	set("detectorId", opts.DetectorID)
	set("name", opts.Name)
	set("startTime", opts.StartTime)
	set("endTime", opts.EndTime)
	set("state", opts.State)

	return s.genericRequest(ctx, request{
		action: ActionSearchMonitorings,
		data:   data,
	})
}
