package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matroid/matroid-cli/internal/api"
)

func newStreamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "streams",
		Aliases: []string{"stream"},
		Short:   "Manage video streams",
	}

	cmd.AddCommand(newStreamsCreateCmd())
	cmd.AddCommand(newStreamsListCmd())
	cmd.AddCommand(newStreamsDeleteCmd())
	cmd.AddCommand(newStreamsMonitorCmd())

	return cmd
}

func newStreamsCreateCmd() *cobra.Command {
	var detectionFPS float64
	var recording, retention bool

	cmd := &cobra.Command{
		Use:     "create <url> <name>",
		Aliases: []string{"register"},
		Short:   "Register a stream for monitoring",
		Args:    cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			opts := api.CreateStreamOptions{
				DetectionFPS:     detectionFPS,
				RecordingEnabled: boolPtrIfChanged(cmd, "recording", recording),
				RetentionEnabled: boolPtrIfChanged(cmd, "retention", retention),
			}
			res, err := client.Streams().Create(cmd.Context(), args[0], args[1], opts)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().Float64Var(&detectionFPS, "detection-fps", 0, "Frames per second sampled by monitorings")
	cmd.Flags().BoolVar(&recording, "recording", false, "Enable continuous recording")
	cmd.Flags().BoolVar(&retention, "retention", false, "Retain recordings past the default window")

	return cmd
}

func newStreamsListCmd() *cobra.Command {
	var opts api.SearchStreamsOptions

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "search"},
		Short:   "List or search streams",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Streams().Search(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printResult(cmd, res)
			}
			if err := failureFromResult(res); err != nil {
				return err
			}

			var streams []struct {
				StreamID string `json:"streamId"`
				Name     string `json:"name"`
				URL      string `json:"url"`
			}
			if err := res.Decode(&streams); err != nil {
				return printJSON(cmd, res.Value)
			}
			if len(streams) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No streams found")
				return nil
			}

			w := newTabWriter(cmd.OutOrStdout())
			_, _ = fmt.Fprintln(w, "ID\tNAME\tURL")
			for _, s := range streams {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", s.StreamID, s.Name, s.URL)
			}
			return w.Flush()
		}),
	}

	cmd.Flags().StringVar(&opts.StreamID, "stream-id", "", "Filter by stream ID")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Filter by name")
	cmd.Flags().StringVar(&opts.Permission, "permission", "", "Filter by permission")

	return cmd
}

func newStreamsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <stream-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a stream",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Streams().Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printResult(cmd, res)
			}
			if err := failureFromResult(res); err != nil {
				return err
			}
			printAction(cmd, "Deleted", "stream", args[0])
			return nil
		}),
	}
}

func newStreamsMonitorCmd() *cobra.Command {
	var opts api.MonitorStreamOptions
	var thresholdPairs []string
	var sendEmail, regionEnabled bool

	cmd := &cobra.Command{
		Use:   "monitor <stream-id> <detector>",
		Short: "Run a detector over a stream",
		Example: strings.TrimSpace(`
  matroid streams monitor 5ff0... "Loading Dock" \
    --threshold forklift=0.7 \
    --endpoint https://hooks.example.com/matroid \
    --start-time 2026-09-01T08:00:00Z --end-time 2026-09-01T18:00:00Z
`),
		Args: cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			thresholds, err := parseThresholds(thresholdPairs)
			if err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			detectorID, err := resolveDetectorID(cmd.Context(), client, args[1])
			if err != nil {
				return err
			}

			opts.Thresholds = thresholds
			opts.SendEmailNotifications = boolPtrIfChanged(cmd, "email", sendEmail)
			opts.RegionEnabled = boolPtrIfChanged(cmd, "region", regionEnabled)

			res, err := client.Streams().Monitor(cmd.Context(), args[0], detectorID, opts)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringSliceVar(&thresholdPairs, "threshold", nil, "label=score pair (repeatable)")
	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", "", "Webhook URL for detections")
	cmd.Flags().StringVar(&opts.StartTime, "start-time", "", "Monitoring start (ISO 8601)")
	cmd.Flags().StringVar(&opts.EndTime, "end-time", "", "Monitoring end (ISO 8601)")
	cmd.Flags().StringVar(&opts.TaskName, "task-name", "", "Monitoring task name")
	cmd.Flags().StringVar(&opts.NotificationTimezone, "timezone", "", "Timezone for notifications and hours")
	cmd.Flags().IntVar(&opts.MinEmailInterval, "min-email-interval", 0, "Minimum seconds between notification emails")
	cmd.Flags().BoolVar(&sendEmail, "email", false, "Send email notifications")
	cmd.Flags().BoolVar(&regionEnabled, "region", false, "Restrict detection to a region")
	cmd.Flags().StringVar(&opts.RegionCoords, "region-coords", "", "Region polygon coordinates")
	cmd.Flags().StringVar(&opts.RegionNegativeCoords, "region-negative-coords", "", "Excluded region coordinates")
	cmd.Flags().StringVar(&opts.MonitoringHours, "hours", "", "Active monitoring hours")
	cmd.Flags().StringVar(&opts.Colors, "colors", "", "Label display colors")
	cmd.Flags().IntVar(&opts.MinDetectionInterval, "min-detection-interval", 0, "Minimum seconds between detections")

	return cmd
}

func newMonitoringsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "monitorings",
		Aliases: []string{"monitoring"},
		Short:   "Manage stream monitoring tasks",
	}

	cmd.AddCommand(newMonitoringsListCmd())
	cmd.AddCommand(newMonitoringsResultCmd())
	cmd.AddCommand(newMonitoringsKillCmd())
	cmd.AddCommand(newMonitoringsDeleteCmd())

	return cmd
}

func newMonitoringsListCmd() *cobra.Command {
	var opts api.SearchMonitoringsOptions

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "search"},
		Short:   "List or search monitoring tasks",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Streams().SearchMonitorings(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringVar(&opts.StreamID, "stream-id", "", "Filter by stream ID")
	cmd.Flags().StringVar(&opts.MonitoringID, "monitoring-id", "", "Filter by monitoring ID")
	cmd.Flags().StringVar(&opts.DetectorID, "detector-id", "", "Filter by detector ID")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Filter by task name")
	cmd.Flags().StringVar(&opts.StartTime, "start-time", "", "Filter by start time")
	cmd.Flags().StringVar(&opts.EndTime, "end-time", "", "Filter by end time")
	cmd.Flags().StringVar(&opts.State, "state", "", "Filter by state")

	return cmd
}

func newMonitoringsResultCmd() *cobra.Command {
	var opts api.MonitoringResultOptions

	cmd := &cobra.Command{
		Use:   "result <monitoring-id>",
		Short: "Fetch detections for a monitoring task",
		Long: strings.TrimSpace(`
Fetch detection results for a monitoring. --format csv returns the raw CSV
bytes; --status-only skips detections and reports only the task state.
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Streams().GetMonitoringResult(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}),
	}

	cmd.Flags().StringVar(&opts.Format, "format", "", "Result format: json|csv")
	cmd.Flags().BoolVar(&opts.StatusOnly, "status-only", false, "Report only the task state")
	cmd.Flags().StringVar(&opts.StartTime, "start-time", "", "Window start (ISO 8601)")
	cmd.Flags().StringVar(&opts.EndTime, "end-time", "", "Window end (ISO 8601)")

	return cmd
}

func newMonitoringsKillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kill <monitoring-id>",
		Short: "Stop a running monitoring task",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Streams().KillMonitoring(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printResult(cmd, res)
			}
			if err := failureFromResult(res); err != nil {
				return err
			}
			printAction(cmd, "Killed", "monitoring", args[0])
			return nil
		}),
	}
}

func newMonitoringsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <monitoring-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a monitoring task",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Streams().DeleteMonitoring(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printResult(cmd, res)
			}
			if err := failureFromResult(res); err != nil {
				return err
			}
			printAction(cmd, "Deleted", "monitoring", args[0])
			return nil
		}),
	}
}
