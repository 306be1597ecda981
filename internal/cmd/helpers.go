package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/matroid/matroid-cli/internal/api"
	"github.com/matroid/matroid-cli/internal/filter"
)

func isJSON(*cobra.Command) bool {
	return flags.Output == "json"
}

// newTabWriter creates a tabwriter for text output
func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

// printJSON outputs data as JSON with the optional --jq filter applied
func printJSON(cmd *cobra.Command, v any) error {
	if flags.JQ != "" {
		filtered, err := filter.Apply(v, flags.JQ)
		if err != nil {
			return err
		}
		v = filtered
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult renders an API response. Raw (non-JSON) responses are written
// as-is; parsed responses honor the output format. A server error envelope
// becomes an error instead of output.
func printResult(cmd *cobra.Command, res api.Result) error {
	if err := failureFromResult(res); err != nil {
		return err
	}
	if res.Raw != nil {
		_, err := cmd.OutOrStdout().Write(res.Raw)
		return err
	}
	return printJSON(cmd, res.Value)
}

// failureFromResult converts a server error envelope into an *apiFailure.
func failureFromResult(res api.Result) error {
	code, message, ok := res.ErrorEnvelope()
	if !ok {
		return nil
	}
	return &apiFailure{Code: code, Message: message}
}

func printAction(cmd *cobra.Command, verb, resource, id string) {
	if flags.Quiet {
		return
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", verb, resource, id)
}

// boolPtrIfChanged returns a pointer to the flag value only when the user
// set the flag, so unset tri-state flags are omitted from requests.
func boolPtrIfChanged(cmd *cobra.Command, name string, value bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

// parseThresholds parses repeated "label=score" pairs into a threshold map.
func parseThresholds(pairs []string) (map[string]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	thresholds := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		label, value, ok := strings.Cut(pair, "=")
		label = strings.TrimSpace(label)
		if !ok || label == "" {
			return nil, fmt.Errorf("invalid threshold %q: must be label=score", pair)
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold %q: %w", pair, err)
		}
		thresholds[label] = score
	}
	return thresholds, nil
}

// parseBoundingBox parses "top,left,width,height" with values in [0,1].
func parseBoundingBox(s string) (*api.BoundingBox, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid bounding box %q: must be top,left,width,height", s)
	}
	vals := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bounding box %q: %w", s, err)
		}
		vals[i] = v
	}
	return &api.BoundingBox{Top: vals[0], Left: vals[1], Width: vals[2], Height: vals[3]}, nil
}
